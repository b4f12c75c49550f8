package v1

import (
	"fmt"
	"time"

	"github.com/finsight/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Alert levels of budgets
const (
	AlertWarning  = "warning"
	AlertExceeded = "exceeded"
)

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	Category       string              `json:"category" example:"Food & Dining"`           // Expense category the budget applies to
	Limit          decimal.Decimal     `json:"limit" example:"5000" swaggertype:"string"`  // Maximum amount to spend, must be greater than 0
	Period         models.BudgetPeriod `json:"period" example:"monthly" default:"monthly"` // weekly, monthly or yearly
	StartDate      time.Time           `json:"startDate" example:"2024-01-01T00:00:00Z"`   // Expenses on and after this date count towards the budget. Defaults to now
	EndDate        *time.Time          `json:"endDate" example:"2024-12-31T00:00:00Z"`     // Expenses after this date do not count towards the budget
	AlertThreshold int                 `json:"alertThreshold" example:"80" default:"80"`   // Percentage of the limit at which an alert is raised
	Active         bool                `json:"active" example:"true" default:"true"`       // Is the budget active? Only one budget per category can be active
}

func (editable BudgetEditable) model() models.Budget {
	return models.Budget{
		Category:       editable.Category,
		Limit:          editable.Limit,
		Period:         editable.Period,
		StartDate:      editable.StartDate,
		EndDate:        editable.EndDate,
		AlertThreshold: editable.AlertThreshold,
		Active:         editable.Active,
	}
}

type BudgetLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/budgets/550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // The budget itself
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Links BudgetLinks `json:"links"`

	// These fields are computed
	Spent      decimal.Decimal `json:"spent" example:"4250.5" swaggertype:"string"`     // Sum of the expenses in the category since the start date
	Percentage decimal.Decimal `json:"percentage" example:"85.01" swaggertype:"string"` // Spent amount as percentage of the limit
	Alerting   bool            `json:"alerting" example:"true"`                         // Has the spent amount reached the alert threshold?
}

func newBudget(c *gin.Context, db *gorm.DB, model models.Budget, now time.Time) (Budget, error) {
	url := c.GetString(string(models.DBContextURL))

	spent, err := model.Spent(db, now)
	if err != nil {
		return Budget{}, err
	}

	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			Category:       model.Category,
			Limit:          model.Limit,
			Period:         model.Period,
			StartDate:      model.StartDate,
			EndDate:        model.EndDate,
			AlertThreshold: model.AlertThreshold,
			Active:         model.Active,
		},
		Links: BudgetLinks{
			Self: fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
		},
		Spent:      spent,
		Percentage: model.Percentage(spent).Round(2),
		Alerting:   model.Alerting(spent),
	}, nil
}

type BudgetListResponse struct {
	Data  []Budget `json:"data"`                                                          // List of budgets
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`                                                          // Data for the budget
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetQueryFilter struct {
	Category string `form:"category"` // By category
	Active   bool   `form:"active"`   // Is the budget active? Defaults to true
}

// BudgetAlert is a budget that reached its alert threshold.
type BudgetAlert struct {
	Budget  Budget `json:"budget"`
	Level   string `json:"level" example:"warning"`                                   // warning or exceeded
	Message string `json:"message" example:"85.01% of the Food & Dining budget used"` // Human readable description of the alert
}

type BudgetAlertsResponse struct {
	Data  *BudgetAlerts `json:"data"`                                                                // The alerts
	Error *string       `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type BudgetAlerts struct {
	Alerts []BudgetAlert `json:"alerts"`            // Budgets that reached their alert threshold
	Count  int           `json:"count" example:"2"` // Number of alerts
}

func newBudgetAlert(budget Budget) BudgetAlert {
	level := AlertWarning
	if budget.Percentage.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		level = AlertExceeded
	}

	return BudgetAlert{
		Budget:  budget,
		Level:   level,
		Message: fmt.Sprintf("%s%% of the %s budget used", budget.Percentage.StringFixed(2), budget.Category),
	}
}
