package scheduler

import (
	"context"
	"time"

	"github.com/finsight/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filter selects recurring transactions. Zero values do not filter.
type Filter struct {
	OwnerID uuid.UUID // Only templates of this owner
	Active  *bool     // Only templates with this active flag
	DueAt   time.Time // Only templates with a next occurrence at or before this time
}

// Store is the persistence the scheduler depends on.
//
// The scheduler only writes the fields it owns. Both writes are conditional on
// the state the pass read, so that changes users make during a pass are never
// overwritten.
type Store interface {
	// Find returns all recurring transactions matching the filter,
	// ordered by next occurrence and ID.
	Find(ctx context.Context, filter Filter) ([]models.RecurringTransaction, error)

	// Advance sets the next occurrence and the last processed time of the
	// recurring transaction. It returns ErrTemplateChanged unless the
	// recurring transaction is still active and its next occurrence is still from.
	Advance(ctx context.Context, id uuid.UUID, from, next, processed time.Time) error

	// Deactivate sets the recurring transaction inactive. It returns
	// ErrTemplateChanged unless the recurring transaction is still active.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Insert creates the transaction. It returns models.ErrOccurrenceExists
	// when a transaction with the same occurrence key already exists.
	Insert(ctx context.Context, transaction *models.Transaction) error
}

// Atomic is implemented by stores that can run multiple writes as one unit of work.
type Atomic interface {
	Atomic(ctx context.Context, fn func(Store) error) error
}

// GormStore implements Store and Atomic with gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Find(ctx context.Context, filter Filter) ([]models.RecurringTransaction, error) {
	q := s.db.WithContext(ctx).Model(&models.RecurringTransaction{})

	if filter.OwnerID != uuid.Nil {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}

	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	if !filter.DueAt.IsZero() {
		q = q.Where("next_occurrence <= ?", filter.DueAt.In(time.UTC))
	}

	var recurring []models.RecurringTransaction
	err := q.Order("next_occurrence ASC, id ASC").Find(&recurring).Error
	if err != nil {
		return nil, err
	}

	return recurring, nil
}

// updates returns a session for column updates of recurring transactions.
//
// Hooks are skipped since they validate the whole model, soft deleted
// recurring transactions are never updated.
func (s *GormStore) updates(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).Model(&models.RecurringTransaction{})
}

func (s *GormStore) Advance(ctx context.Context, id uuid.UUID, from, next, processed time.Time) error {
	tx := s.updates(ctx).
		Where("id = ? AND active = ? AND next_occurrence = ?", id, true, from.In(time.UTC)).
		UpdateColumns(map[string]any{
			"next_occurrence": next.In(time.UTC),
			"last_processed":  processed.In(time.UTC),
			"updated_at":      time.Now().In(time.UTC),
		})

	return affected(tx)
}

func (s *GormStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	tx := s.updates(ctx).
		Where("id = ? AND active = ?", id, true).
		UpdateColumns(map[string]any{
			"active":     false,
			"updated_at": time.Now().In(time.UTC),
		})

	return affected(tx)
}

func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrTemplateChanged
	}
	return nil
}

func (s *GormStore) Insert(ctx context.Context, transaction *models.Transaction) error {
	return s.db.WithContext(ctx).Create(transaction).Error
}

// Atomic runs fn in a database transaction. All writes of fn are rolled back
// if it returns an error.
func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})

	return models.GeneralError(err)
}
