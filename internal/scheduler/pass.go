package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// Triggers label what started a pass.
const (
	TriggerDirect  = "direct"
	TriggerManual  = "manual"
	TriggerStartup = "startup"
)

// Result is the outcome of one pass.
type Result struct {
	Due       int              `json:"dueCount" example:"4"`     // Number of recurring transactions that were due
	Succeeded int              `json:"successCount" example:"2"` // Number of transactions that were created
	Failed    int              `json:"errorCount" example:"1"`   // Number of recurring transactions that could not be processed
	Expired   int              `json:"expiredCount" example:"1"` // Number of recurring transactions deactivated because their end date passed
	Errors    []*TemplateError `json:"errors"`                   // Errors for the failed recurring transactions
	Started   time.Time        `json:"started" example:"2024-01-01T00:00:00Z"`
	Finished  time.Time        `json:"finished" example:"2024-01-01T00:00:01Z"`
}

// Pass is the state of one scheduler run. It is handed from the
// scanner through the gate to the materializer.
type Pass struct {
	Now     time.Time      // Processing time of the pass
	Trigger string         // What started the pass
	Logger  zerolog.Logger // Logger with the pass context
	Result  Result
}

func newPass(now time.Time, trigger string, logger zerolog.Logger) *Pass {
	now = now.In(time.UTC)

	return &Pass{
		Now:     now,
		Trigger: trigger,
		Logger:  logger.With().Str("trigger", trigger).Time("now", now).Logger(),
		Result: Result{
			Errors:  []*TemplateError{},
			Started: time.Now().In(time.UTC),
		},
	}
}

func (p *Pass) fail(err *TemplateError) {
	p.Result.Failed++
	p.Result.Errors = append(p.Result.Errors, err)
	p.Logger.Error().Err(err.Err).Str("template", err.ID.String()).Str("name", err.Name).Msg("processing recurring transaction failed")
}
