package v1_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	v1 "github.com/finsight/backend/internal/controllers/v1"
	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/scheduler"
	"github.com/finsight/backend/internal/test"
	"github.com/finsight/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recurringURL = "http://example.com/v1/recurring"

func (suite *TestSuiteStandard) createTestRecurring(r v1.RecurringTransactionEditable, expectedStatus ...int) v1.RecurringTransactionResponse {
	if r.Name == "" {
		r.Name = "Netflix"
	}

	if r.Kind == "" {
		r.Kind = types.Expense
	}

	if r.Amount.IsZero() {
		r.Amount = decimal.NewFromFloat(499.99)
	}

	if r.Category == "" {
		r.Category = "Bills & Utilities"
	}

	if r.Frequency == "" {
		r.Frequency = types.Monthly
	}

	if r.StartDate.IsZero() {
		r.StartDate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	recorder := suite.request(http.MethodPost, recurringURL, r, expectedStatus...)

	var response v1.RecurringTransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	return response
}

func clock(now time.Time) *scheduler.Scheduler {
	return scheduler.New(scheduler.NewGormStore(models.DB), scheduler.WithClock(func() time.Time { return now }))
}

func (suite *TestSuiteStandard) TestRecurringCreate() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{
		Active: true,
		Note:   "  Premium plan ",
		Tags:   models.Tags{"subscription", " subscription", "streaming"},
	})

	suite.Require().NotNil(r.Data)
	suite.Assert().Equal("Netflix", r.Data.Name)
	suite.Assert().Equal("Premium plan", r.Data.Note)
	suite.Assert().True(r.Data.Active)
	suite.Assert().True(r.Data.NextOccurrence.Equal(r.Data.StartDate))
	suite.Assert().Nil(r.Data.LastProcessed)
	suite.Assert().Equal(models.Tags{"subscription", "streaming"}, r.Data.Tags)
	suite.Assert().Equal(fmt.Sprintf("%s/%s", recurringURL, r.Data.ID), r.Data.Links.Self)
}

// TestRecurringCreateDefaults verifies that new recurring transactions are active
// and start today when the values are not sent.
func (suite *TestSuiteStandard) TestRecurringCreateDefaults() {
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	body := `{"name": "Gym", "kind": "expense", "amount": "30", "category": "Healthcare", "frequency": "weekly"}`

	recorder := suite.requestWith(clock(now), http.MethodPost, recurringURL, body, http.StatusCreated)

	var r v1.RecurringTransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &r)
	suite.Assert().True(r.Data.Active)
	suite.Assert().True(r.Data.StartDate.Equal(types.StartOfDay(now)), r.Data.StartDate)
	suite.Assert().True(r.Data.NextOccurrence.Equal(types.StartOfDay(now)))
}

func (suite *TestSuiteStandard) TestRecurringCreateFails() {
	end := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body any
		err  string
	}{
		{"Empty body", "", "the request body must not be empty"},
		{"Broken JSON", `{"name": "Netflix"`, "the body of your request contains invalid"},
		{"Amount zero", `{"name": "Netflix", "kind": "expense", "amount": "0", "category": "Bills", "frequency": "monthly"}`, "the amount must be greater than 0"},
		{"Amount negative", `{"name": "Netflix", "kind": "expense", "amount": "-5", "category": "Bills", "frequency": "monthly"}`, "the amount must be greater than 0"},
		{"Invalid frequency", `{"name": "Netflix", "kind": "expense", "amount": "5", "category": "Bills", "frequency": "hourly"}`, types.ErrInvalidFrequency.Error()},
		{"Missing frequency", `{"name": "Netflix", "kind": "expense", "amount": "5", "category": "Bills"}`, types.ErrInvalidFrequency.Error()},
		{"Invalid kind", `{"name": "Netflix", "kind": "transfer", "amount": "5", "category": "Bills", "frequency": "monthly"}`, types.ErrInvalidKind.Error()},
		{"Missing name", `{"kind": "expense", "amount": "5", "category": "Bills", "frequency": "monthly"}`, models.ErrNameEmpty.Error()},
		{"Missing category", `{"name": "Netflix", "kind": "expense", "amount": "5", "frequency": "monthly"}`, models.ErrCategoryEmpty.Error()},
		{"End before start", v1.RecurringTransactionEditable{
			Name: "Netflix", Kind: types.Expense, Amount: decimal.NewFromInt(5), Category: "Bills", Frequency: types.Monthly,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end,
		}, models.ErrEndBeforeStart.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodPost, recurringURL, tt.body, test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var r v1.RecurringTransactionResponse
			test.DecodeResponse(t, &recorder, &r)
			require.NotNil(t, r.Error)
			assert.Contains(t, *r.Error, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestRecurringOwnerRequired() {
	recorder := test.Request(suite.T(), nil, http.MethodGet, recurringURL, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

// TestRecurringOtherOwner verifies that recurring transactions of other users are not visible.
func (suite *TestSuiteStandard) TestRecurringOtherOwner() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{Active: true})
	path := fmt.Sprintf("%s/%s", recurringURL, r.Data.ID)

	other := test.Owner(uuid.New())
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		recorder := test.Request(suite.T(), nil, method, path, `{"name": "Stolen"}`, other)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
	}

	recorder := test.Request(suite.T(), nil, http.MethodGet, recurringURL, "", other)
	var list v1.RecurringTransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	suite.Assert().Len(list.Data, 0)
}

func (suite *TestSuiteStandard) TestRecurringGetSingle() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{Active: true})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing", r.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No recurring transaction with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (positive number)", "23", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
		{"OPTIONS Existing", r.Data.ID.String(), http.StatusNoContent, http.MethodOptions},
		{"OPTIONS No recurring transaction with this ID", uuid.New().String(), http.StatusNotFound, http.MethodOptions},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, tt.method, fmt.Sprintf("%s/%s", recurringURL, tt.id), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			if tt.method == http.MethodOptions && tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", recorder.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestRecurringGetFilter() {
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Netflix", Active: true})
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Spotify", Active: true, Frequency: types.Yearly})
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Salary", Active: true, Kind: types.Income, Category: "Salary"})
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Old gym", Active: false, Category: "Healthcare"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 4},
		{"Active", "active=true", 3},
		{"Inactive", "active=false", 1},
		{"Kind income", "kind=income", 1},
		{"Frequency yearly", "frequency=yearly", 1},
		{"Category", "category=Healthcare", 1},
		{"Name exact", "name=Netflix", 1},
		{"Name glob", "name=*fy", 1},
		{"Name glob all", "name=*", 4},
		{"Name glob none", "name=Disney*", 0},
		{"Combined", "kind=expense&active=true", 2},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=3", 1},
		{"Offset too large", "offset=10", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodGet, fmt.Sprintf("%s?%s", recurringURL, tt.query), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.RecurringTransactionListResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, tt.len, "Request ID: %s", recorder.Header().Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestRecurringGetFilterInvalid() {
	for _, query := range []string{"kind=transfer", "frequency=hourly", "active=maybe"} {
		suite.T().Run(query, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodGet, fmt.Sprintf("%s?%s", recurringURL, query), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestRecurringUpdate() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{Active: true})
	path := fmt.Sprintf("%s/%s", recurringURL, r.Data.ID)

	recorder := suite.request(http.MethodPatch, path, map[string]any{
		"name":      "Netflix Premium",
		"amount":    "649",
		"frequency": "yearly",
	}, http.StatusOK)

	var updated v1.RecurringTransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().Equal("Netflix Premium", updated.Data.Name)
	suite.Assert().True(decimal.NewFromInt(649).Equal(updated.Data.Amount))
	suite.Assert().Equal(types.Yearly, updated.Data.Frequency)
	suite.Assert().Equal("Bills & Utilities", updated.Data.Category, "fields not in the body must not change")

	// Changing the frequency does not move the next occurrence
	suite.Assert().True(updated.Data.NextOccurrence.Equal(r.Data.NextOccurrence))
}

func (suite *TestSuiteStandard) TestRecurringUpdateFails() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{Active: true})
	path := fmt.Sprintf("%s/%s", recurringURL, r.Data.ID)

	tests := []struct {
		name string
		body string
		err  string
	}{
		{"Empty body", "", "the request body must not be empty"},
		{"Broken JSON", `{ "name": 2" }`, "the body of your request contains invalid"},
		{"Amount zero", `{"amount": "0"}`, "the amount must be greater than 0"},
		{"Invalid frequency", `{"frequency": "fortnightly"}`, types.ErrInvalidFrequency.Error()},
		{"Empty name", `{"name": " "}`, models.ErrNameEmpty.Error()},
		{"End before start", `{"endDate": "2023-01-01T00:00:00Z"}`, models.ErrEndBeforeStart.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, nil, http.MethodPatch, path, tt.body, test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.RecurringTransactionResponse
			test.DecodeResponse(t, &recorder, &response)
			require.NotNil(t, response.Error)
			assert.Contains(t, *response.Error, tt.err)
		})
	}
}

// TestRecurringReactivation verifies that activating a recurring transaction moves a
// next occurrence in the past to the current day and is refused after the end date.
func (suite *TestSuiteStandard) TestRecurringReactivation() {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	s := clock(now)

	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{Active: true, EndDate: &end})
	path := fmt.Sprintf("%s/%s", recurringURL, r.Data.ID)

	// Deactivate
	recorder := suite.requestWith(s, http.MethodPost, path+"/toggle", "", http.StatusOK)
	var toggled v1.RecurringTransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &toggled)
	suite.Assert().False(toggled.Data.Active)
	suite.Assert().True(toggled.Data.NextOccurrence.Equal(r.Data.NextOccurrence))

	// Activate again
	recorder = suite.requestWith(s, http.MethodPost, path+"/toggle", "", http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &toggled)
	suite.Assert().True(toggled.Data.Active)
	suite.Assert().True(toggled.Data.NextOccurrence.Equal(types.StartOfDay(now)), toggled.Data.NextOccurrence)

	// Deactivate with PATCH, activating after the end date fails
	suite.requestWith(s, http.MethodPatch, path, `{"active": false}`, http.StatusOK)
	recorder = suite.requestWith(clock(end.AddDate(0, 0, 1)), http.MethodPatch, path, `{"active": true}`, http.StatusBadRequest)

	var response v1.RecurringTransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(models.ErrRecurringEnded.Error(), *response.Error)

	recorder = suite.requestWith(clock(end.AddDate(0, 0, 1)), http.MethodPost, path+"/toggle", "", http.StatusBadRequest)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(models.ErrRecurringEnded.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestRecurringUpcoming() {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Soon", Active: true, StartDate: now.AddDate(0, 0, 10)})
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Later", Active: true, StartDate: now.AddDate(0, 0, 45)})
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Inactive", Active: false, StartDate: now.AddDate(0, 0, 5)})

	tests := []struct {
		name   string
		query  string
		status int
		names  []string
	}{
		{"Default 30 days", "", http.StatusOK, []string{"Soon"}},
		{"60 days", "days=60", http.StatusOK, []string{"Soon", "Later"}},
		{"Zero days", "days=0", http.StatusBadRequest, nil},
		{"Not a number", "days=many", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, clock(now), http.MethodGet, fmt.Sprintf("%s/upcoming?%s", recurringURL, tt.query), "", test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.RecurringTransactionListResponse
			test.DecodeResponse(t, &recorder, &response)

			names := []string{}
			for _, r := range response.Data {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

// TestRecurringProcess runs a pass through the API and verifies the generated transaction.
func (suite *TestSuiteStandard) TestRecurringProcess() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{
		Active: true,
		Tags:   models.Tags{"subscription"},
	})

	end := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	expired := suite.createTestRecurring(v1.RecurringTransactionEditable{
		Name:      "Trial",
		Active:    true,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	})

	now := time.Date(2024, 2, 1, 6, 0, 0, 0, time.UTC)
	recorder := suite.requestWith(clock(now), http.MethodPost, recurringURL+"/process", "", http.StatusOK)

	var response v1.ProcessResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(2, response.Data.Due)
	suite.Assert().Equal(1, response.Data.Succeeded)
	suite.Assert().Equal(1, response.Data.Expired)
	suite.Assert().Equal(0, response.Data.Failed)

	// The template advanced with the month end clamped
	recorder = suite.request(http.MethodGet, r.Data.Links.Self, "", http.StatusOK)
	var updated v1.RecurringTransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().True(updated.Data.NextOccurrence.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)), updated.Data.NextOccurrence)
	suite.Require().NotNil(updated.Data.LastProcessed)
	suite.Assert().True(updated.Data.LastProcessed.Equal(now))

	recorder = suite.request(http.MethodGet, expired.Data.Links.Self, "", http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &updated)
	suite.Assert().False(updated.Data.Active)

	// Exactly one transaction was generated
	recorder = suite.request(http.MethodGet, fmt.Sprintf("%s?recurring=true", transactionsURL), "", http.StatusOK)
	var transactions v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &transactions)
	suite.Require().Len(transactions.Data, 1)

	transaction := transactions.Data[0]
	suite.Assert().True(transaction.Date.Equal(now))
	suite.Assert().Equal("Recurring: Netflix", transaction.Description)
	suite.Assert().Equal(models.Tags{"subscription", models.ProvenanceTag}, transaction.Tags)
	suite.Assert().Equal(r.Data.ID, *transaction.RecurringTransactionID)
	suite.Assert().Equal(r.Data.Links.Self, transaction.Links.Recurring)

	// A second pass at the same time has nothing to do
	recorder = suite.requestWith(clock(now), http.MethodPost, recurringURL+"/process", "", http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(0, response.Data.Due)
}

func (suite *TestSuiteStandard) TestRecurringReport() {
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Netflix", Active: true})
	_ = suite.createTestRecurring(v1.RecurringTransactionEditable{Name: "Paused", Active: false})

	recorder := suite.request(http.MethodGet, recurringURL+"/report", "", http.StatusOK)
	suite.Assert().True(strings.HasPrefix(recorder.Header().Get("Content-Type"), "text/plain"))

	body := recorder.Body.String()
	suite.Assert().Contains(body, "1 active recurring transactions")
	suite.Assert().Contains(body, "Netflix")
	suite.Assert().NotContains(body, "Paused")
}

func (suite *TestSuiteStandard) TestRecurringDelete() {
	r := suite.createTestRecurring(v1.RecurringTransactionEditable{Active: true})

	suite.request(http.MethodDelete, r.Data.Links.Self, "", http.StatusNoContent)
	suite.request(http.MethodGet, r.Data.Links.Self, "", http.StatusNotFound)
}

// TestRecurringDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestRecurringDBClosed() {
	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"Creation fails", http.MethodPost, recurringURL, v1.RecurringTransactionEditable{
			Name: "Netflix", Kind: types.Expense, Amount: decimal.NewFromInt(5), Category: "Bills", Frequency: types.Monthly,
		}},
		{"GET fails", http.MethodGet, recurringURL, ""},
		{"Process fails", http.MethodPost, recurringURL + "/process", ""},
		{"Report fails", http.MethodGet, recurringURL + "/report", ""},
		{"Upcoming fails", http.MethodGet, recurringURL + "/upcoming", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			recorder := test.Request(t, nil, tt.method, tt.path, tt.body, test.Owner(suite.owner))
			test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)
			assert.Contains(t, recorder.Body.String(), models.ErrGeneral.Error())
		})
	}
}
