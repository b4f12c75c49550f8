package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finsight/backend/internal/models"
)

// DefaultStoreTimeout bounds the writes for a single recurring transaction.
const DefaultStoreTimeout = 10 * time.Second

// Materializer creates the transaction for the current occurrence of a
// recurring transaction and advances it to the next occurrence.
type Materializer struct {
	Store   Store
	Timeout time.Duration
}

// Occurrence returns the transaction for the current occurrence of the recurring transaction.
func Occurrence(recurring models.RecurringTransaction, now time.Time) models.Transaction {
	description := recurring.Note
	if description == "" {
		description = fmt.Sprintf("Recurring: %s", recurring.Name)
	}

	frequency := recurring.Frequency
	recurringID := recurring.ID
	key := models.OccurrenceKey(recurring.ID, recurring.NextOccurrence)

	return models.Transaction{
		OwnerID:                recurring.OwnerID,
		Kind:                   recurring.Kind,
		Amount:                 recurring.Amount,
		Category:               recurring.Category,
		Description:            description,
		Date:                   now.In(time.UTC),
		Tags:                   recurring.Tags.With(models.ProvenanceTag),
		IsRecurring:            true,
		RecurringFrequency:     &frequency,
		RecurringTransactionID: &recurringID,
		OccurrenceKey:          &key,
	}
}

// Materialize inserts the transaction for the current occurrence and
// advances the next occurrence of the recurring transaction.
//
// Both writes are done in one unit of work if the store implements Atomic.
// If the transaction for the occurrence already exists, only the recurring
// transaction is advanced. The recurring transaction is only advanced if it
// is unchanged since the pass read it, otherwise ErrTemplateChanged is returned.
//
// On failure, the recurring transaction is left unchanged and a *TemplateError is returned.
func (m Materializer) Materialize(ctx context.Context, pass *Pass, recurring *models.RecurringTransaction) (models.Transaction, error) {
	next, err := recurring.Frequency.Next(recurring.NextOccurrence)
	if err != nil {
		return models.Transaction{}, &TemplateError{ID: recurring.ID, Name: recurring.Name, Err: err}
	}

	transaction := Occurrence(*recurring, pass.Now)
	now := pass.Now

	ctx, cancel := withTimeout(ctx, m.Timeout)
	defer cancel()

	existed := false
	write := func(s Store) error {
		err := s.Insert(ctx, &transaction)
		if errors.Is(err, models.ErrOccurrenceExists) {
			existed = true
		} else if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}

		err = s.Advance(ctx, recurring.ID, recurring.NextOccurrence, next, now)
		if err != nil {
			return fmt.Errorf("advancing next occurrence: %w", err)
		}
		return nil
	}

	if atomic, ok := m.Store.(Atomic); ok {
		err = atomic.Atomic(ctx, write)
	} else {
		err = write(m.Store)
	}

	if err != nil {
		return models.Transaction{}, &TemplateError{ID: recurring.ID, Name: recurring.Name, Err: err}
	}

	recurring.NextOccurrence = next
	recurring.LastProcessed = &now

	logger := pass.Logger.With().
		Str("template", recurring.ID.String()).
		Str("name", recurring.Name).
		Str("owner", recurring.OwnerID.String()).
		Time("next", recurring.NextOccurrence).
		Logger()

	if existed {
		logger.Warn().Str("occurrence", *transaction.OccurrenceKey).Msg("transaction for occurrence already exists, advanced recurring transaction")
		return models.Transaction{}, nil
	}

	logger.Info().Str("transaction", transaction.ID.String()).Msg("created transaction for recurring transaction")
	return transaction, nil
}
