// Package scheduler creates the transactions for recurring transactions when they are due.
//
// A pass scans all due recurring transactions of all owners, deactivates the ones past
// their end date and materializes a transaction for every other one. Passes are
// started by a Timer or on demand and never overlap.
package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/finsight/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Scheduler runs passes over the recurring transactions of a Store.
type Scheduler struct {
	store        Store
	gate         Gate
	materializer Materializer
	currency     Currency
	logger       zerolog.Logger
	now          func() time.Time

	// mu ensures that only one pass runs at any time
	mu    sync.Mutex
	group singleflight.Group
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStoreTimeout sets the timeout for the writes of a single recurring transaction.
func WithStoreTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		s.gate.Timeout = timeout
		s.materializer.Timeout = timeout
	}
}

// WithClock sets the function used to determine the time of triggered passes.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLogger sets the logger of the scheduler.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithCurrency sets the currency used for reports.
func WithCurrency(currency Currency) Option {
	return func(s *Scheduler) {
		s.currency = currency
	}
}

// New returns a scheduler for the recurring transactions in store.
func New(store Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:        store,
		gate:         Gate{Store: store, Timeout: DefaultStoreTimeout},
		materializer: Materializer{Store: store, Timeout: DefaultStoreTimeout},
		currency:     MustCurrency(DefaultCurrency),
		logger:       log.Logger,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With().Str("component", "scheduler").Logger()
	return s
}

// RunPass processes all recurring transactions that are due at now.
//
// Errors for single recurring transactions are reported in the Result.
// If the due recurring transactions cannot be determined, a *PassError is returned
// and nothing is modified.
func (s *Scheduler) RunPass(ctx context.Context, now time.Time) (Result, error) {
	return s.run(ctx, now, TriggerDirect)
}

// Trigger runs a pass for the current time. Concurrent calls share the result of one pass.
//
// The pass runs to completion even if ctx is cancelled, the writes of every
// recurring transaction are bounded by the store timeout.
func (s *Scheduler) Trigger(ctx context.Context) (Result, error) {
	ctx = context.WithoutCancel(ctx)

	v, err, _ := s.group.Do(TriggerManual, func() (any, error) {
		return s.run(ctx, s.now(), TriggerManual)
	})

	result, _ := v.(Result)
	return result, err
}

// RunStartup runs a pass for the current time when the application starts.
func (s *Scheduler) RunStartup(ctx context.Context) (Result, error) {
	return s.run(ctx, s.now(), TriggerStartup)
}

func (s *Scheduler) run(ctx context.Context, now time.Time, trigger string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pass := newPass(now, trigger, s.logger)
	pass.Logger.Debug().Msg("starting pass")

	due, err := FindDue(ctx, s.store, pass.Now)
	if err != nil {
		pass.Result.Finished = time.Now().In(time.UTC)
		observePass(pass, err)
		pass.Logger.Error().Err(err).Msg("pass failed")
		return pass.Result, err
	}

	pass.Result.Due = len(due)
	for i := range due {
		s.process(ctx, pass, &due[i])
	}

	pass.Result.Finished = time.Now().In(time.UTC)
	observePass(pass, nil)

	pass.Logger.Info().
		Int("due", pass.Result.Due).
		Int("success", pass.Result.Succeeded).
		Int("error", pass.Result.Failed).
		Int("expired", pass.Result.Expired).
		Dur("duration", pass.Result.Finished.Sub(pass.Result.Started)).
		Msg("pass finished")

	return pass.Result, nil
}

// process runs the gate and the materializer for a single due recurring transaction.
func (s *Scheduler) process(ctx context.Context, pass *Pass, recurring *models.RecurringTransaction) {
	expiry, err := s.gate.Apply(ctx, pass, recurring)
	if err != nil {
		pass.fail(asTemplateError(recurring, err))
		observeTemplate(outcomeError)
		return
	}

	if expiry == Expired {
		pass.Result.Expired++
		observeTemplate(outcomeExpired)
		return
	}

	_, err = s.materializer.Materialize(ctx, pass, recurring)
	if err != nil {
		pass.fail(asTemplateError(recurring, err))
		observeTemplate(outcomeError)
		return
	}

	pass.Result.Succeeded++
	observeTemplate(outcomeSuccess)
}

func asTemplateError(recurring *models.RecurringTransaction, err error) *TemplateError {
	var templateErr *TemplateError
	if errors.As(err, &templateErr) {
		return templateErr
	}
	return &TemplateError{ID: recurring.ID, Name: recurring.Name, Err: err}
}

// ActiveTemplates returns all active recurring transactions of the owner,
// or of all owners if ownerID is uuid.Nil.
func (s *Scheduler) ActiveTemplates(ctx context.Context, ownerID uuid.UUID) ([]models.RecurringTransaction, error) {
	active := true
	return s.store.Find(ctx, Filter{OwnerID: ownerID, Active: &active})
}

// DisplayActive writes a table of the active recurring transactions of the owner to w.
// If ownerID is uuid.Nil, the recurring transactions of all owners are listed.
func (s *Scheduler) DisplayActive(ctx context.Context, w io.Writer, ownerID uuid.UUID) error {
	templates, err := s.ActiveTemplates(ctx, ownerID)
	if err != nil {
		return err
	}

	RenderActive(w, templates, s.currency)
	return nil
}

// Upcoming returns the active recurring transactions of the owner
// with a next occurrence at or before until.
func (s *Scheduler) Upcoming(ctx context.Context, ownerID uuid.UUID, until time.Time) ([]models.RecurringTransaction, error) {
	active := true
	return s.store.Find(ctx, Filter{OwnerID: ownerID, Active: &active, DueAt: until})
}

// Now returns the current time of the scheduler clock in UTC.
func (s *Scheduler) Now() time.Time {
	return s.now().In(time.UTC)
}
