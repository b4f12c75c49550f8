// Package config loads the configuration of the backend from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/finsight/backend/internal/scheduler"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Environments
const (
	Production  = "production"
	Development = "development"
)

type Config struct {
	// HTTP Server
	Port      string
	APIURL    string
	GinMode   string
	LogFormat string
	Env       string

	// Database
	DataDir string

	// Scheduler
	SchedulerEnabled bool
	ScheduleDaily    string
	ScheduleCatchup  string
	ScheduleFast     string
	RunOnStart       bool
	StoreTimeout     time.Duration

	// Reports
	Currency string

	// Values that could not be parsed
	invalid []string
}

// Load reads the configuration from the environment. Variables set in a .env file in the
// working directory are loaded first, but never override variables that are already set.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		APIURL:    getEnv("API_URL", ""),
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: getEnv("LOG_FORMAT", ""),
		Env:       getEnv("APP_ENV", Production),

		DataDir: getEnv("DATA_DIR", "data"),

		ScheduleDaily:   getEnv("SCHEDULER_DAILY", "0 0 * * *"),
		ScheduleCatchup: getEnv("SCHEDULER_CATCHUP", "0 * * * *"),
		ScheduleFast:    getEnv("SCHEDULER_FAST", "@every 1m"),

		Currency: strings.ToUpper(getEnv("CURRENCY", scheduler.DefaultCurrency)),
	}

	cfg.SchedulerEnabled = cfg.getEnvBool("SCHEDULER_ENABLED", true)
	cfg.RunOnStart = cfg.getEnvBool("SCHEDULER_RUN_ON_START", cfg.Env == Development)
	cfg.StoreTimeout = cfg.getEnvDuration("SCHEDULER_STORE_TIMEOUT", scheduler.DefaultStoreTimeout)

	return cfg
}

// Validate validates the configuration and returns an error listing all problems
func (c *Config) Validate() error {
	errors := append([]string{}, c.invalid...)

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate API URL
	if c.APIURL == "" {
		errors = append(errors, "API_URL must be set to the URL the API is reachable at")
	} else if u, err := url.Parse(c.APIURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.Env != Production && c.Env != Development {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be '%s' or '%s'", c.Env, Production, Development))
	}

	if c.LogFormat != "" && c.LogFormat != "human" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'human' or 'json'", c.LogFormat))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	// Validate schedules
	for name, spec := range map[string]string{
		"SCHEDULER_DAILY":   c.ScheduleDaily,
		"SCHEDULER_CATCHUP": c.ScheduleCatchup,
		"SCHEDULER_FAST":    c.ScheduleFast,
	} {
		if spec == "" {
			continue
		}

		if _, err := cron.ParseStandard(spec); err != nil {
			errors = append(errors, fmt.Sprintf("invalid schedule %s '%s': %v", name, spec, err))
		}
	}

	if c.StoreTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid store timeout %v: must be at least 100ms", c.StoreTimeout))
	}

	if _, err := scheduler.ParseCurrency(c.Currency); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// DatabasePath returns the path of the database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "gorm.db")
}

// Schedules returns the schedules for scheduler passes.
//
// The fast schedule is only used outside of production.
func (c *Config) Schedules() []scheduler.Schedule {
	if !c.SchedulerEnabled {
		return nil
	}

	schedules := []scheduler.Schedule{
		{Name: "daily", Spec: c.ScheduleDaily},
		{Name: "catchup", Spec: c.ScheduleCatchup},
	}

	if c.Env != Production {
		schedules = append(schedules, scheduler.Schedule{Name: "fast", Spec: c.ScheduleFast})
	}

	return schedules
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("invalid value '%s' for %s: must be true or false", value, key))
		return defaultValue
	}
	return b
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("invalid duration '%s' for %s: %v", value, key, err))
		return defaultValue
	}
	return d
}
