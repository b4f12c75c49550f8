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

// RecurringTransaction is a template that generates a Transaction
// every time its NextOccurrence is reached.
//
// The scheduler is the only writer of NextOccurrence and LastProcessed
// during normal operation.
type RecurringTransaction struct {
	DefaultModel
	OwnerID        uuid.UUID       `gorm:"index:recurring_owner_next,priority:1;index:recurring_owner_active,priority:1"`
	Name           string          // Display name
	Kind           types.Kind      // income or expense
	Amount         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Category       string          // Category label copied to generated transactions
	Note           string          // Used as description of generated transactions
	Frequency      types.Frequency // Repetition interval
	StartDate      time.Time       // First occurrence
	NextOccurrence time.Time       `gorm:"index:recurring_owner_next,priority:2;index:recurring_due"` // Scheduling cursor
	EndDate        *time.Time      // No occurrences are generated after this
	Active         bool            `gorm:"index:recurring_owner_active,priority:2;index:recurring_due"`
	LastProcessed  *time.Time      // Last time the scheduler generated a transaction
	Tags           Tags            // Copied to generated transactions
}

func (r RecurringTransaction) Self() string {
	return "Recurring Transaction"
}

// AfterFind enforces UTC for all dates.
func (r *RecurringTransaction) AfterFind(tx *gorm.DB) (err error) {
	err = r.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	r.StartDate = r.StartDate.In(time.UTC)
	r.NextOccurrence = r.NextOccurrence.In(time.UTC)
	r.EndDate = utc(r.EndDate)
	r.LastProcessed = utc(r.LastProcessed)
	if r.Tags == nil {
		r.Tags = Tags{}
	}
	return nil
}

// BeforeSave
//   - trims whitespace from string fields and normalizes the tags
//   - converts all dates to UTC
//   - defaults the next occurrence to the start date
//   - validates the invariants of the template
func (r *RecurringTransaction) BeforeSave(_ *gorm.DB) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.Note = strings.TrimSpace(r.Note)
	r.Tags = r.Tags.Normalize()

	r.StartDate = r.StartDate.In(time.UTC)
	r.EndDate = utc(r.EndDate)
	r.LastProcessed = utc(r.LastProcessed)

	if r.NextOccurrence.IsZero() {
		r.NextOccurrence = r.StartDate
	}
	r.NextOccurrence = r.NextOccurrence.In(time.UTC)

	return r.Validate()
}

// Validate checks the invariants of the template.
func (r RecurringTransaction) Validate() error {
	if r.OwnerID == uuid.Nil {
		return ErrOwnerMissing
	}

	if r.Name == "" {
		return ErrNameEmpty
	}

	if r.Category == "" {
		return ErrCategoryEmpty
	}

	if !r.Kind.Valid() {
		return fmt.Errorf("%w, got '%s'", types.ErrInvalidKind, r.Kind)
	}

	if !r.Frequency.Valid() {
		return fmt.Errorf("%w, got '%s'", types.ErrInvalidFrequency, r.Frequency)
	}

	if r.Amount.IsNegative() {
		return ErrAmountNegative
	}

	if r.NextOccurrence.Before(r.StartDate) {
		return ErrNextOccurrenceBeforeStart
	}

	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return ErrEndBeforeStart
	}

	return nil
}

// Ended reports if the end date is set and now is after it.
func (r RecurringTransaction) Ended(now time.Time) bool {
	return r.EndDate != nil && now.After(*r.EndDate)
}

// Activate marks the template as active again.
//
// A template past its end date cannot be activated. If the next occurrence
// lies before the current day, it is moved to the start of the current day so
// that a long inactive template generates one transaction, not one per
// missed occurrence.
func (r *RecurringTransaction) Activate(now time.Time) error {
	if r.Ended(now) {
		return ErrRecurringEnded
	}

	today := types.StartOfDay(now)
	if r.NextOccurrence.Before(today) {
		r.NextOccurrence = today
	}

	r.Active = true
	return nil
}
