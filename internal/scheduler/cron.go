package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Schedule is a named cron specification for passes.
type Schedule struct {
	Name string // Used as trigger label for logs and metrics
	Spec string // Cron specification, e.g. "0 0 * * *" or "@every 1m"
}

// Timer starts passes of a Scheduler on cron schedules.
type Timer struct {
	cron      *cron.Cron
	scheduler *Scheduler
	logger    zerolog.Logger
}

// NewTimer returns a Timer that runs passes of s on all schedules.
// Schedules with an empty spec are skipped.
func NewTimer(s *Scheduler, schedules []Schedule) (*Timer, error) {
	logger := s.logger.With().Str("component", "timer").Logger()
	cronLogger := cronLogger{logger: logger}

	t := &Timer{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		scheduler: s,
		logger:    logger,
	}

	for _, schedule := range schedules {
		if schedule.Spec == "" {
			continue
		}

		_, err := t.cron.AddFunc(schedule.Spec, t.job(schedule.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %s '%s': %w", schedule.Name, schedule.Spec, err)
		}

		logger.Info().Str("schedule", schedule.Name).Str("spec", schedule.Spec).Msg("scheduled recurring transaction pass")
	}

	return t, nil
}

func (t *Timer) job(trigger string) func() {
	return func() {
		result, err := t.scheduler.run(context.Background(), t.scheduler.now(), trigger)
		if err != nil {
			t.logger.Debug().Err(err).Str("schedule", trigger).Msg("pass failed, retrying on the next schedule")
			return
		}

		t.logger.Debug().
			Str("schedule", trigger).
			Int("due", result.Due).
			Int("success", result.Succeeded).
			Int("error", result.Failed).
			Int("expired", result.Expired).
			Msg("scheduled pass finished")
	}
}

// Entries returns the number of registered schedules.
func (t *Timer) Entries() int {
	return len(t.cron.Entries())
}

// Start starts the timer in its own goroutine.
func (t *Timer) Start() {
	t.cron.Start()
}

// Stop stops the timer. The returned context is done when a running pass has finished.
func (t *Timer) Stop() context.Context {
	return t.cron.Stop()
}

// cronLogger implements cron.Logger with zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
