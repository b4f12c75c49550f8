package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/finsight/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetPeriod is the interval a budget limit applies to.
type BudgetPeriod string

const (
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

// DefaultAlertThreshold is the percentage of the limit at which a budget alert is raised.
const DefaultAlertThreshold = 80

// Valid reports if p is a supported period.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetWeekly || p == BudgetMonthly || p == BudgetYearly
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *BudgetPeriod) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		return nil
	}

	period := BudgetPeriod(*s)
	if !period.Valid() {
		return fmt.Errorf("%w, got '%s'", ErrBudgetPeriodInvalid, *s)
	}

	*p = period
	return nil
}

// Budget is a spending limit for an expense category.
type Budget struct {
	DefaultModel
	OwnerID        uuid.UUID       `gorm:"index:budget_owner_category,priority:1"`
	Category       string          `gorm:"index:budget_owner_category,priority:2"`
	Limit          decimal.Decimal `gorm:"column:limit_amount;type:DECIMAL(20,8)"`
	Period         BudgetPeriod
	StartDate      time.Time
	EndDate        *time.Time
	AlertThreshold int
	Active         bool
}

func (b Budget) Self() string {
	return "Budget"
}

// AfterFind enforces UTC for all dates.
func (b *Budget) AfterFind(tx *gorm.DB) (err error) {
	err = b.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	b.StartDate = b.StartDate.In(time.UTC)
	b.EndDate = utc(b.EndDate)
	return nil
}

// BeforeSave
//   - trims the category and sets defaults for the period and start date
//   - validates limit, period and alert threshold
//   - ensures there is only one active budget per category
func (b *Budget) BeforeSave(tx *gorm.DB) error {
	b.Category = strings.TrimSpace(b.Category)

	if b.Period == "" {
		b.Period = BudgetMonthly
	}

	if b.StartDate.IsZero() {
		b.StartDate = time.Now().In(time.UTC)
	} else {
		b.StartDate = b.StartDate.In(time.UTC)
	}
	b.EndDate = utc(b.EndDate)

	if b.OwnerID == uuid.Nil {
		return ErrOwnerMissing
	}

	if b.Category == "" {
		return ErrCategoryEmpty
	}

	if !b.Limit.IsPositive() {
		return ErrBudgetLimitNotPositive
	}

	if !b.Period.Valid() {
		return fmt.Errorf("%w, got '%s'", ErrBudgetPeriodInvalid, b.Period)
	}

	if b.AlertThreshold < 0 || b.AlertThreshold > 100 {
		return ErrAlertThresholdRange
	}

	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return ErrEndBeforeStart
	}

	if !b.Active {
		return nil
	}

	var count int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Budget{}).
		Where(&Budget{OwnerID: b.OwnerID, Category: b.Category, Active: true}).
		Where("id != ?", b.ID).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrBudgetCategoryNotUnique
	}

	return nil
}

// Spent returns the sum of all expenses in the budget category between the
// start date and the end date of the budget. Budgets without end date
// include all expenses until now.
func (b Budget) Spent(db *gorm.DB, now time.Time) (decimal.Decimal, error) {
	until := now
	if b.EndDate != nil {
		until = *b.EndDate
	}

	var transactions []Transaction
	err := db.
		Where(&Transaction{OwnerID: b.OwnerID, Kind: types.Expense, Category: b.Category}).
		Where("transactions.date >= ? AND transactions.date <= ?", b.StartDate, until).
		Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	return sum(transactions), nil
}

// Percentage returns spent as percentage of the budget limit.
func (b Budget) Percentage(spent decimal.Decimal) decimal.Decimal {
	if !b.Limit.IsPositive() {
		return decimal.Zero
	}

	return spent.Div(b.Limit).Mul(decimal.NewFromInt(100))
}

// Alerting reports if the spent amount reaches the alert threshold.
func (b Budget) Alerting(spent decimal.Decimal) bool {
	return b.Percentage(spent).GreaterThanOrEqual(decimal.NewFromInt(int64(b.AlertThreshold)))
}

func sum(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}
