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
	"github.com/stretchr/testify/require"
)

const budgetsURL = "http://example.com/v1/budgets"

func (suite *TestSuiteStandard) createTestBudget(b v1.BudgetEditable, expectedStatus ...int) v1.BudgetResponse {
	if b.Category == "" {
		b.Category = "Food & Dining"
	}

	if b.Limit.IsZero() {
		b.Limit = decimal.NewFromInt(5000)
	}

	if b.StartDate.IsZero() {
		b.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := suite.request(http.MethodPost, budgetsURL, b, expectedStatus...)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	return response
}

func (suite *TestSuiteStandard) TestBudgetCreate() {
	budget := suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 90})

	suite.Require().NotNil(budget.Data)
	suite.Assert().Equal(models.BudgetMonthly, budget.Data.Period, "the period must default to monthly")
	suite.Assert().Equal(90, budget.Data.AlertThreshold)
	suite.Assert().True(budget.Data.Spent.IsZero())
	suite.Assert().True(budget.Data.Percentage.IsZero())
	suite.Assert().False(budget.Data.Alerting)
	suite.Assert().Equal(fmt.Sprintf("%s/%s", budgetsURL, budget.Data.ID), budget.Data.Links.Self)
}

func (suite *TestSuiteStandard) TestBudgetCreateDefaults() {
	recorder := suite.request(http.MethodPost, budgetsURL, `{"category": "Transport", "limit": "2000"}`, http.StatusCreated)

	var budget v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &budget)
	suite.Assert().True(budget.Data.Active)
	suite.Assert().Equal(models.DefaultAlertThreshold, budget.Data.AlertThreshold)
	suite.Assert().Equal(models.BudgetMonthly, budget.Data.Period)
	suite.Assert().False(budget.Data.StartDate.IsZero())
}

func (suite *TestSuiteStandard) TestBudgetCreateFails() {
	tests := []struct {
		name string
		body string
		err  string
	}{
		{"Empty body", "", "the request body must not be empty"},
		{"Broken JSON", `{"category": 5`, "the body of your request contains invalid"},
		{"Limit zero", `{"category": "Food", "limit": "0"}`, models.ErrBudgetLimitNotPositive.Error()},
		{"Limit missing", `{"category": "Food"}`, models.ErrBudgetLimitNotPositive.Error()},
		{"Category missing", `{"limit": "100"}`, models.ErrCategoryEmpty.Error()},
		{"Invalid period", `{"category": "Food", "limit": "100", "period": "daily"}`, models.ErrBudgetPeriodInvalid.Error()},
		{"Threshold too high", `{"category": "Food", "limit": "100", "alertThreshold": 101}`, models.ErrAlertThresholdRange.Error()},
		{"Threshold negative", `{"category": "Food", "limit": "100", "alertThreshold": -1}`, models.ErrAlertThresholdRange.Error()},
		{"End before start", `{"category": "Food", "limit": "100", "startDate": "2024-02-01T00:00:00Z", "endDate": "2024-01-01T00:00:00Z"}`, models.ErrEndBeforeStart.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodPost, budgetsURL, tt.body, test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.BudgetResponse
			test.DecodeResponse(t, &recorder, &response)
			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.err)
		})
	}
}

// TestBudgetOneActivePerCategory verifies that only one budget per category can be active.
func (suite *TestSuiteStandard) TestBudgetOneActivePerCategory() {
	first := suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80})

	budget := suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80}, http.StatusBadRequest)
	suite.Require().NotNil(budget.Error)
	suite.Assert().Equal(models.ErrBudgetCategoryNotUnique.Error(), *budget.Error)

	// Inactive budgets and other owners are not affected
	inactive := suite.createTestBudget(v1.BudgetEditable{Active: false, AlertThreshold: 80})
	recorder := test.Request(suite.T(), nil, http.MethodPost, budgetsURL, `{"category": "Food & Dining", "limit": "100"}`, test.Owner(uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	// Activating the second budget fails until the first one is deactivated
	suite.request(http.MethodPatch, inactive.Data.Links.Self, `{"active": true}`, http.StatusBadRequest)
	suite.request(http.MethodPatch, first.Data.Links.Self, `{"active": false}`, http.StatusOK)
	suite.request(http.MethodPatch, inactive.Data.Links.Self, `{"active": true}`, http.StatusOK)

	// Updating an active budget does not conflict with itself
	suite.request(http.MethodPatch, inactive.Data.Links.Self, `{"limit": "6000"}`, http.StatusOK)
}

func (suite *TestSuiteStandard) TestBudgetSpent() {
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	budget := suite.createTestBudget(v1.BudgetEditable{
		Limit:          decimal.NewFromInt(1000),
		Active:         true,
		AlertThreshold: 80,
		EndDate:        &end,
	})

	// Counted
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(500), Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromFloat(350.55), Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)})

	// Not counted: before the start, after the end, other category, income
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Category: "Transport", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Kind: types.Income, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)})

	recorder := suite.request(http.MethodGet, budget.Data.Links.Self, "", http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &budget)

	suite.Assert().True(decimal.NewFromFloat(850.55).Equal(budget.Data.Spent), budget.Data.Spent.String())
	suite.Assert().True(decimal.NewFromFloat(85.06).Equal(budget.Data.Percentage), budget.Data.Percentage.String())
	suite.Assert().True(budget.Data.Alerting)
}

func (suite *TestSuiteStandard) TestBudgetAlerts() {
	food := suite.createTestBudget(v1.BudgetEditable{Limit: decimal.NewFromInt(1000), Active: true, AlertThreshold: 80})
	transport := suite.createTestBudget(v1.BudgetEditable{Category: "Transport", Limit: decimal.NewFromInt(200), Active: true, AlertThreshold: 50})
	_ = suite.createTestBudget(v1.BudgetEditable{Category: "Shopping", Limit: decimal.NewFromInt(200), Active: true, AlertThreshold: 80})
	_ = suite.createTestBudget(v1.BudgetEditable{Category: "Healthcare", Limit: decimal.NewFromInt(10), Active: false, AlertThreshold: 80})

	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(850)})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(250), Category: "Transport"})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Category: "Shopping"})
	_ = suite.createTestTransaction(v1.TransactionEditable{Amount: decimal.NewFromInt(100), Category: "Healthcare"})

	recorder := suite.request(http.MethodGet, budgetsURL+"/alerts", "", http.StatusOK)

	var response v1.BudgetAlertsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Require().Equal(2, response.Data.Count)
	suite.Require().Len(response.Data.Alerts, 2)

	suite.Assert().Equal(food.Data.ID, response.Data.Alerts[0].Budget.ID)
	suite.Assert().Equal(v1.AlertWarning, response.Data.Alerts[0].Level)
	suite.Assert().Equal("85.00% of the Food & Dining budget used", response.Data.Alerts[0].Message)

	suite.Assert().Equal(transport.Data.ID, response.Data.Alerts[1].Budget.ID)
	suite.Assert().Equal(v1.AlertExceeded, response.Data.Alerts[1].Level)
	suite.Assert().Equal("125.00% of the Transport budget used", response.Data.Alerts[1].Message)
}

func (suite *TestSuiteStandard) TestBudgetGetFilter() {
	_ = suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80})
	_ = suite.createTestBudget(v1.BudgetEditable{Active: false, AlertThreshold: 80})
	_ = suite.createTestBudget(v1.BudgetEditable{Category: "Transport", Active: true, AlertThreshold: 80})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Active by default", "", 2},
		{"Inactive", "active=false", 1},
		{"Category", "category=Transport", 1},
		{"Category inactive", "category=Food+%26+Dining&active=false", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodGet, fmt.Sprintf("%s?%s", budgetsURL, tt.query), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.BudgetListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetUpdate() {
	budget := suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80})

	recorder := suite.request(http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"limit":          "7500",
		"period":         "yearly",
		"alertThreshold": 95,
	}, http.StatusOK)

	var updated v1.BudgetResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().True(decimal.NewFromInt(7500).Equal(updated.Data.Limit))
	suite.Assert().Equal(models.BudgetYearly, updated.Data.Period)
	suite.Assert().Equal(95, updated.Data.AlertThreshold)
	suite.Assert().True(updated.Data.Active)

	suite.request(http.MethodPatch, budget.Data.Links.Self, `{"limit": "0"}`, http.StatusBadRequest)
	suite.request(http.MethodPatch, budget.Data.Links.Self, `{"period": "hourly"}`, http.StatusBadRequest)
	suite.request(http.MethodPatch, budget.Data.Links.Self, "", http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetGetSingle() {
	budget := suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80})

	suite.request(http.MethodGet, fmt.Sprintf("%s/%s", budgetsURL, uuid.New()), "", http.StatusNotFound)
	suite.request(http.MethodGet, fmt.Sprintf("%s/%s", budgetsURL, "budget"), "", http.StatusBadRequest)

	recorder := test.Request(suite.T(), nil, http.MethodGet, budget.Data.Links.Self, "", test.Owner(uuid.New()))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	recorder = suite.request(http.MethodOptions, budgetsURL+"/alerts", "", http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestBudgetDelete() {
	budget := suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80})

	suite.request(http.MethodDelete, budget.Data.Links.Self, "", http.StatusNoContent)
	suite.request(http.MethodGet, budget.Data.Links.Self, "", http.StatusNotFound)

	// The category can have an active budget again
	_ = suite.createTestBudget(v1.BudgetEditable{Active: true, AlertThreshold: 80})
}

func (suite *TestSuiteStandard) TestBudgetDBClosed() {
	suite.CloseDB()

	recorder := suite.request(http.MethodGet, budgetsURL+"/alerts", "", http.StatusInternalServerError)
	suite.Assert().Contains(recorder.Body.String(), models.ErrGeneral.Error())

	recorder = suite.request(http.MethodGet, budgetsURL, "", http.StatusInternalServerError)
	suite.Assert().Contains(recorder.Body.String(), models.ErrGeneral.Error())
}
