package models

import (
	"time"

	"github.com/finsight/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// DateRange limits analytics to transactions between From and Until, both inclusive.
// Nil bounds are open.
type DateRange struct {
	From  *time.Time
	Until *time.Time
}

func (r DateRange) apply(db *gorm.DB) *gorm.DB {
	if r.From != nil {
		db = db.Where("transactions.date >= ?", r.From.In(time.UTC))
	}

	if r.Until != nil {
		db = db.Where("transactions.date <= ?", r.Until.In(time.UTC))
	}

	return db
}

// Summary is the total of income and expenses.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome" example:"5000"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses" example:"3200.5"`
	Balance          decimal.Decimal `json:"balance" example:"1799.5"`
	TransactionCount int             `json:"transactionCount" example:"42"`
}

// CategoryAmount is the sum of transactions in one category.
type CategoryAmount struct {
	Category string          `json:"category" example:"Food & Dining"`
	Amount   decimal.Decimal `json:"amount" example:"450.75"`
	Count    int             `json:"count" example:"12"`
}

// MonthlyTrend is the income and expense total of one month.
type MonthlyTrend struct {
	Month   types.Month     `json:"month" swaggertype:"string" example:"2024-03"`
	Income  decimal.Decimal `json:"income" example:"5000"`
	Expense decimal.Decimal `json:"expense" example:"3200.5"`
}

// CategoryTrends contains one series of monthly expense totals per category.
// Every series has one value per label.
type CategoryTrends struct {
	Labels []types.Month                `json:"labels" swaggertype:"array,string" example:"2024-02,2024-03"`
	Series map[string][]decimal.Decimal `json:"series"`
}

func ownerTransactions(db *gorm.DB, ownerID uuid.UUID, kind types.Kind, dates DateRange) ([]Transaction, error) {
	query := dates.apply(db.Where(&Transaction{OwnerID: ownerID, Kind: kind}))

	var transactions []Transaction
	err := query.Order("transactions.date ASC").Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// TransactionSummary returns the income and expense totals of the owner.
func TransactionSummary(db *gorm.DB, ownerID uuid.UUID, dates DateRange) (Summary, error) {
	transactions, err := ownerTransactions(db, ownerID, "", dates)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TransactionCount: len(transactions),
	}

	for _, t := range transactions {
		if t.Kind == types.Income {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		} else {
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
		}
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary, nil
}

// CategoryBreakdown returns the sum per category, largest amount first.
// An empty kind includes both income and expenses.
func CategoryBreakdown(db *gorm.DB, ownerID uuid.UUID, kind types.Kind, dates DateRange) ([]CategoryAmount, error) {
	transactions, err := ownerTransactions(db, ownerID, kind, dates)
	if err != nil {
		return nil, err
	}

	breakdown := []CategoryAmount{}
	index := map[string]int{}
	for _, t := range transactions {
		i, ok := index[t.Category]
		if !ok {
			i = len(breakdown)
			index[t.Category] = i
			breakdown = append(breakdown, CategoryAmount{Category: t.Category, Amount: decimal.Zero})
		}

		breakdown[i].Amount = breakdown[i].Amount.Add(t.Amount)
		breakdown[i].Count++
	}

	slices.SortStableFunc(breakdown, func(a, b CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})

	return breakdown, nil
}

// TopCategories returns the limit categories with the largest amounts.
func TopCategories(db *gorm.DB, ownerID uuid.UUID, kind types.Kind, dates DateRange, limit int) ([]CategoryAmount, error) {
	breakdown, err := CategoryBreakdown(db, ownerID, kind, dates)
	if err != nil {
		return nil, err
	}

	if limit >= 0 && len(breakdown) > limit {
		breakdown = breakdown[:limit]
	}
	return breakdown, nil
}

// trendMonths returns the months in the window of the given size that ends with the month of now.
func trendMonths(now time.Time, months int) []types.Month {
	if months < 1 {
		months = 1
	}

	current := types.MonthOf(now)
	labels := make([]types.Month, 0, months)
	for i := months - 1; i >= 0; i-- {
		labels = append(labels, current.AddDate(0, -i))
	}
	return labels
}

func monthIndex(labels []types.Month) map[string]int {
	index := make(map[string]int, len(labels))
	for i, m := range labels {
		index[m.String()] = i
	}
	return index
}

// MonthlyTrends returns income and expense totals for each of the last months,
// including the month of now. Months without transactions are included with zero totals.
func MonthlyTrends(db *gorm.DB, ownerID uuid.UUID, now time.Time, months int) ([]MonthlyTrend, error) {
	labels := trendMonths(now, months)
	from := labels[0].Time()

	transactions, err := ownerTransactions(db, ownerID, "", DateRange{From: &from})
	if err != nil {
		return nil, err
	}

	trends := make([]MonthlyTrend, len(labels))
	for i, m := range labels {
		trends[i] = MonthlyTrend{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
	}

	index := monthIndex(labels)
	for _, t := range transactions {
		i, ok := index[types.MonthOf(t.Date).String()]
		if !ok {
			continue
		}

		if t.Kind == types.Income {
			trends[i].Income = trends[i].Income.Add(t.Amount)
		} else {
			trends[i].Expense = trends[i].Expense.Add(t.Amount)
		}
	}

	return trends, nil
}

// ExpenseCategoryTrends returns the monthly expense totals per category for the last months.
func ExpenseCategoryTrends(db *gorm.DB, ownerID uuid.UUID, now time.Time, months int) (CategoryTrends, error) {
	labels := trendMonths(now, months)
	from := labels[0].Time()

	transactions, err := ownerTransactions(db, ownerID, types.Expense, DateRange{From: &from})
	if err != nil {
		return CategoryTrends{}, err
	}

	trends := CategoryTrends{
		Labels: labels,
		Series: map[string][]decimal.Decimal{},
	}

	index := monthIndex(labels)
	for _, t := range transactions {
		i, ok := index[types.MonthOf(t.Date).String()]
		if !ok {
			continue
		}

		series, ok := trends.Series[t.Category]
		if !ok {
			series = make([]decimal.Decimal, len(labels))
			for j := range series {
				series[j] = decimal.Zero
			}
		}

		series[i] = series[i].Add(t.Amount)
		trends.Series[t.Category] = series
	}

	return trends, nil
}
