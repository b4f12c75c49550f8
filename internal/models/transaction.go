package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/finsight/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a single income or expense.
//
// Transactions generated by the scheduler reference the RecurringTransaction
// they were created from and carry a unique OccurrenceKey.
type Transaction struct {
	DefaultModel
	OwnerID                uuid.UUID       `gorm:"index:transaction_owner_date,priority:1"`
	Kind                   types.Kind      // income or expense
	Amount                 decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Category               string          `gorm:"index"`
	Description            string
	Date                   time.Time        `gorm:"index:transaction_owner_date,priority:2"`
	Tags                   Tags             // Free-form labels
	IsRecurring            bool             // Created from a recurring transaction
	RecurringFrequency     *types.Frequency // Frequency of the recurring transaction this was created from
	RecurringTransactionID *uuid.UUID       `gorm:"index"`
	OccurrenceKey          *string          `gorm:"uniqueIndex"` // Identifies the occurrence of the recurring transaction, prevents duplicates
}

func (t Transaction) Self() string {
	return "Transaction"
}

// OccurrenceKey returns the idempotency key for the occurrence of a recurring
// transaction that is scheduled at next.
func OccurrenceKey(recurringID uuid.UUID, next time.Time) string {
	return fmt.Sprintf("%s@%s", recurringID, next.In(time.UTC).Format(time.RFC3339))
}

// AfterFind updates the timestamps to use UTC as timezone.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	// Enforce dates to be in UTC
	t.Date = t.Date.In(time.UTC)
	if t.Tags == nil {
		t.Tags = Tags{}
	}
	return
}

// BeforeSave
//   - sets the timezone for the Date to UTC and defaults it to now
//   - trims whitespace from string fields and normalizes the tags
//   - ensures recurring transactions carry their frequency and the provenance tag
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Category = strings.TrimSpace(t.Category)
	t.Description = strings.TrimSpace(t.Description)
	t.Tags = t.Tags.Normalize()

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	// Ensure that IDs are nil and not pointers to a nil UUID
	if t.RecurringTransactionID != nil && *t.RecurringTransactionID == uuid.Nil {
		t.RecurringTransactionID = nil
	}

	if t.OccurrenceKey != nil && strings.TrimSpace(*t.OccurrenceKey) == "" {
		t.OccurrenceKey = nil
	}

	if t.IsRecurring {
		t.Tags = t.Tags.With(ProvenanceTag)
	} else {
		t.RecurringFrequency = nil
	}

	return t.Validate()
}

// Validate checks the invariants of the transaction.
func (t Transaction) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrOwnerMissing
	}

	if t.Category == "" {
		return ErrCategoryEmpty
	}

	if !t.Kind.Valid() {
		return fmt.Errorf("%w, got '%s'", types.ErrInvalidKind, t.Kind)
	}

	if t.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if t.IsRecurring {
		if t.RecurringFrequency == nil || *t.RecurringFrequency == "" {
			return ErrRecurringFrequencyMissing
		}

		if !t.RecurringFrequency.Valid() {
			return fmt.Errorf("%w, got '%s'", types.ErrInvalidFrequency, *t.RecurringFrequency)
		}
	}

	return nil
}
