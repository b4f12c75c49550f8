package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/finsight/backend/internal/controllers/v1"
	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/test"
	"github.com/finsight/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const dashboardURL = "http://example.com/v1/dashboard"

// createDashboardTransactions creates transactions in January 2024:
//
//	income:  Salary 5000, Freelance 1200
//	expense: Food 300 + 150, Rent 2000, Transport 80
func (suite *TestSuiteStandard) createDashboardTransactions() {
	for _, t := range []v1.TransactionEditable{
		{Kind: types.Income, Category: "Salary", Amount: decimal.NewFromInt(5000), Date: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		{Kind: types.Income, Category: "Freelance", Amount: decimal.NewFromInt(1200), Date: time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)},
		{Kind: types.Expense, Category: "Food & Dining", Amount: decimal.NewFromInt(300), Date: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)},
		{Kind: types.Expense, Category: "Food & Dining", Amount: decimal.NewFromInt(150), Date: time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)},
		{Kind: types.Expense, Category: "Rent/EMI", Amount: decimal.NewFromInt(2000), Date: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)},
		{Kind: types.Expense, Category: "Transport", Amount: decimal.NewFromInt(80), Date: time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)},
	} {
		_ = suite.createTestTransaction(t)
	}

	// Transactions of other owners never count
	recorder := test.Request(suite.T(), nil, http.MethodPost, transactionsURL, `{"kind": "income", "amount": "99999", "category": "Salary", "date": "2024-01-10T00:00:00Z"}`, test.Owner(uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)
}

func (suite *TestSuiteStandard) TestDashboardSummary() {
	suite.createDashboardTransactions()

	tests := []struct {
		name     string
		query    string
		income   int64
		expenses int64
		balance  int64
		count    int
	}{
		{"All", "", 6200, 2530, 3670, 6},
		{"From date", "fromDate=2024-01-15", 1200, 230, 970, 3},
		{"Until date includes the whole day", "untilDate=2024-01-05", 5000, 2300, 2700, 3},
		{"Range", "fromDate=2024-01-04&untilDate=2024-01-20", 1200, 380, 820, 3},
		{"Empty range", "fromDate=2025-01-01", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodGet, fmt.Sprintf("%s/summary?%s", dashboardURL, tt.query), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.SummaryResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.True(t, decimal.NewFromInt(tt.income).Equal(response.Data.TotalIncome), "income is %s", response.Data.TotalIncome)
			assert.True(t, decimal.NewFromInt(tt.expenses).Equal(response.Data.TotalExpenses), "expenses are %s", response.Data.TotalExpenses)
			assert.True(t, decimal.NewFromInt(tt.balance).Equal(response.Data.Balance), "balance is %s", response.Data.Balance)
			assert.Equal(t, tt.count, response.Data.TransactionCount)
		})
	}
}

func (suite *TestSuiteStandard) TestDashboardCategoryBreakdown() {
	suite.createDashboardTransactions()

	tests := []struct {
		name       string
		path       string
		categories []string
		amounts    []int64
	}{
		{"Expense by default", "category-breakdown", []string{"Rent/EMI", "Food & Dining", "Transport"}, []int64{2000, 450, 80}},
		{"Income", "category-breakdown?kind=income", []string{"Salary", "Freelance"}, []int64{5000, 1200}},
		{"Date range", "category-breakdown?fromDate=2024-01-05&untilDate=2024-01-31", []string{"Food & Dining", "Transport"}, []int64{450, 80}},
		{"Top categories", "top-categories", []string{"Rent/EMI", "Food & Dining", "Transport"}, []int64{2000, 450, 80}},
		{"Top categories with limit", "top-categories?limit=2", []string{"Rent/EMI", "Food & Dining"}, []int64{2000, 450}},
		{"Top income category", "top-categories?kind=income&limit=1", []string{"Salary"}, []int64{5000}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodGet, fmt.Sprintf("%s/%s", dashboardURL, tt.path), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.CategoryAmountsResponse
			test.DecodeResponse(t, &recorder, &response)

			categories := []string{}
			for i, amount := range response.Data {
				categories = append(categories, amount.Category)
				if i < len(tt.amounts) {
					assert.True(t, decimal.NewFromInt(tt.amounts[i]).Equal(amount.Amount), "amount for %s is %s", amount.Category, amount.Amount)
				}
			}
			assert.Equal(t, tt.categories, categories)
		})
	}

	// The count is the number of transactions per category
	recorder := suite.request(http.MethodGet, dashboardURL+"/category-breakdown", "", http.StatusOK)
	var response v1.CategoryAmountsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(2, response.Data[1].Count)
}

func (suite *TestSuiteStandard) TestDashboardMonthlyTrends() {
	now := time.Now().In(time.UTC)
	current := types.MonthOf(now)

	_ = suite.createTestTransaction(v1.TransactionEditable{Kind: types.Income, Category: "Salary", Amount: decimal.NewFromInt(5000), Date: current.Time()})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(300), Date: current.Time()})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(120), Date: current.AddDate(0, -2).Time().AddDate(0, 0, 3)})

	// Outside of the default window
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(999), Date: current.AddDate(0, -6).Time()})

	recorder := suite.request(http.MethodGet, dashboardURL+"/monthly-trends", "", http.StatusOK)

	var response v1.MonthlyTrendsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 6)

	suite.Assert().Equal(current.AddDate(0, -5), response.Data[0].Month)
	suite.Assert().Equal(current, response.Data[5].Month)

	suite.Assert().True(decimal.NewFromInt(5000).Equal(response.Data[5].Income))
	suite.Assert().True(decimal.NewFromInt(300).Equal(response.Data[5].Expense))
	suite.Assert().True(decimal.NewFromInt(120).Equal(response.Data[3].Expense))
	suite.Assert().True(response.Data[4].Income.IsZero())
	suite.Assert().True(response.Data[4].Expense.IsZero())

	recorder = suite.request(http.MethodGet, dashboardURL+"/monthly-trends?months=12", "", http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 12)
	suite.Assert().True(decimal.NewFromInt(999).Equal(response.Data[5].Expense))
}

func (suite *TestSuiteStandard) TestDashboardCategoryTrends() {
	current := types.MonthOf(time.Now())

	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(300), Date: current.Time()})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Date: current.AddDate(0, -1).Time()})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(50), Category: "Transport", Date: current.Time()})
	_ = suite.createTestTransaction(v1.TransactionEditable{Kind: types.Income, Category: "Salary", Amount: decimal.NewFromInt(5000), Date: current.Time()})

	recorder := suite.request(http.MethodGet, dashboardURL+"/category-trends?months=3", "", http.StatusOK)

	var response v1.CategoryTrendsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal([]types.Month{current.AddDate(0, -2), current.AddDate(0, -1), current}, response.Data.Labels)
	suite.Assert().Len(response.Data.Series, 2, "income must not be part of the category trends")

	food := response.Data.Series["Food & Dining"]
	suite.Require().Len(food, 3)
	suite.Assert().True(food[0].IsZero())
	suite.Assert().True(decimal.NewFromInt(100).Equal(food[1]))
	suite.Assert().True(decimal.NewFromInt(300).Equal(food[2]))

	transport := response.Data.Series["Transport"]
	suite.Require().Len(transport, 3)
	suite.Assert().True(decimal.NewFromInt(50).Equal(transport[2]))
}

func (suite *TestSuiteStandard) TestDashboardRecent() {
	suite.createDashboardTransactions()

	recorder := suite.request(http.MethodGet, dashboardURL+"/recent", "", http.StatusOK)
	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 6)
	suite.Assert().True(response.Data[0].Date.Equal(time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)))

	recorder = suite.request(http.MethodGet, dashboardURL+"/recent?limit=2", "", http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Freelance", response.Data[1].Category)
}

func (suite *TestSuiteStandard) TestDashboardInvalidQuery() {
	tests := []struct {
		name string
		path string
		err  string
	}{
		{"Invalid kind", "category-breakdown?kind=savings", types.ErrInvalidKind.Error()},
		{"Invalid date", "summary?fromDate=2024-13-01", "the query string contains unparseable data"},
		{"Months zero", "monthly-trends?months=0", "the months parameter must be between 1 and 120"},
		{"Months too large", "category-trends?months=121", "the months parameter must be between 1 and 120"},
		{"Months not a number", "monthly-trends?months=six", "the query string contains unparseable data"},
		{"Limit zero", "recent?limit=0", "the limit parameter must be greater than 0"},
		{"Limit negative", "top-categories?limit=-3", "the limit parameter must be greater than 0"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodGet, fmt.Sprintf("%s/%s", dashboardURL, tt.path), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
			assert.Contains(t, recorder.Body.String(), tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestDashboardOptions() {
	for _, path := range []string{"summary", "category-breakdown", "monthly-trends", "recent", "top-categories", "category-trends"} {
		recorder := suite.request(http.MethodOptions, fmt.Sprintf("%s/%s", dashboardURL, path), "", http.StatusNoContent)
		suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
	}
}

func (suite *TestSuiteStandard) TestDashboardDBClosed() {
	suite.CloseDB()

	for _, path := range []string{"summary", "category-breakdown", "monthly-trends", "recent", "top-categories", "category-trends"} {
		recorder := suite.request(http.MethodGet, fmt.Sprintf("%s/%s", dashboardURL, path), "", http.StatusInternalServerError)
		suite.Assert().Contains(recorder.Body.String(), models.ErrGeneral.Error())
	}
}
