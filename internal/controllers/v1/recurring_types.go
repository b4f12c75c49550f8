package v1

import (
	"fmt"
	"time"

	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/scheduler"
	"github.com/finsight/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecurringTransactionEditable represents all user configurable parameters
type RecurringTransactionEditable struct {
	Name      string          `json:"name" example:"Netflix"`                             // Name of the recurring transaction
	Kind      types.Kind      `json:"kind" example:"expense"`                             // income or expense
	Amount    decimal.Decimal `json:"amount" example:"499.99" swaggertype:"string"`       // Amount of every generated transaction, must be greater than 0
	Category  string          `json:"category" example:"Bills & Utilities"`               // Category of the generated transactions
	Note      string          `json:"note" example:"Premium plan"`                        // Description of the generated transactions
	Frequency types.Frequency `json:"frequency" example:"monthly"`                        // daily, weekly, monthly or yearly
	StartDate time.Time       `json:"startDate" example:"2024-01-31T00:00:00Z"`           // First occurrence. Defaults to the start of the current day
	EndDate   *time.Time      `json:"endDate" example:"2024-12-31T00:00:00Z"`             // No transactions are generated after this date
	Active    bool            `json:"active" example:"true" default:"true"`               // Is the recurring transaction active?
	Tags      models.Tags     `json:"tags" example:"subscription,streaming" default:"[]"` // Tags for the generated transactions
}

func (editable RecurringTransactionEditable) model() models.RecurringTransaction {
	return models.RecurringTransaction{
		Name:      editable.Name,
		Kind:      editable.Kind,
		Amount:    editable.Amount,
		Category:  editable.Category,
		Note:      editable.Note,
		Frequency: editable.Frequency,
		StartDate: editable.StartDate,
		EndDate:   editable.EndDate,
		Active:    editable.Active,
		Tags:      editable.Tags,
	}
}

type RecurringTransactionLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/recurring/0c8b8d4f-0d0b-4f0c-8a1f-9a9f3c2c7d11"`          // The recurring transaction itself
	Toggle string `json:"toggle" example:"https://example.com/api/v1/recurring/0c8b8d4f-0d0b-4f0c-8a1f-9a9f3c2c7d11/toggle"` // Activates or deactivates the recurring transaction
}

type RecurringTransaction struct {
	models.DefaultModel
	RecurringTransactionEditable
	NextOccurrence time.Time                 `json:"nextOccurrence" example:"2024-02-29T00:00:00Z"` // Date of the next generated transaction
	LastProcessed  *time.Time                `json:"lastProcessed" example:"2024-01-31T00:00:12Z"`  // Last time a transaction was generated
	Links          RecurringTransactionLinks `json:"links"`
}

func newRecurringTransaction(c *gin.Context, model models.RecurringTransaction) RecurringTransaction {
	url := c.GetString(string(models.DBContextURL))

	tags := model.Tags
	if tags == nil {
		tags = models.Tags{}
	}

	return RecurringTransaction{
		DefaultModel: model.DefaultModel,
		RecurringTransactionEditable: RecurringTransactionEditable{
			Name:      model.Name,
			Kind:      model.Kind,
			Amount:    model.Amount,
			Category:  model.Category,
			Note:      model.Note,
			Frequency: model.Frequency,
			StartDate: model.StartDate,
			EndDate:   model.EndDate,
			Active:    model.Active,
			Tags:      tags,
		},
		NextOccurrence: model.NextOccurrence,
		LastProcessed:  model.LastProcessed,
		Links: RecurringTransactionLinks{
			Self:   fmt.Sprintf("%s/v1/recurring/%s", url, model.ID),
			Toggle: fmt.Sprintf("%s/v1/recurring/%s/toggle", url, model.ID),
		},
	}
}

type RecurringTransactionListResponse struct {
	Data       []RecurringTransaction `json:"data"`                                                          // List of recurring transactions
	Error      *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination            `json:"pagination"`                                                    // Pagination information
}

type RecurringTransactionResponse struct {
	Data  *RecurringTransaction `json:"data"`                                                          // Data for the recurring transaction
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type RecurringTransactionQueryFilter struct {
	Kind      string `form:"kind"`                       // By kind
	Frequency string `form:"frequency"`                  // By frequency
	Category  string `form:"category"`                   // By category
	Active    bool   `form:"active"`                     // Is the recurring transaction active?
	Name      string `form:"name" filterField:"false"`   // By name. Supports * as wildcard, e.g. "*flix"
	Offset    uint   `form:"offset" filterField:"false"` // The offset of the first recurring transaction returned. Defaults to 0.
	Limit     int    `form:"limit" filterField:"false"`  // Maximum number of recurring transactions to return. Defaults to 50.
}

func (f RecurringTransactionQueryFilter) model() (models.RecurringTransaction, error) {
	var kind types.Kind
	if f.Kind != "" {
		k, err := types.ParseKind(f.Kind)
		if err != nil {
			return models.RecurringTransaction{}, err
		}
		kind = k
	}

	var frequency types.Frequency
	if f.Frequency != "" {
		fr, err := types.ParseFrequency(f.Frequency)
		if err != nil {
			return models.RecurringTransaction{}, err
		}
		frequency = fr
	}

	return models.RecurringTransaction{
		Kind:      kind,
		Frequency: frequency,
		Category:  f.Category,
		Active:    f.Active,
	}, nil
}

type QueryDays struct {
	Days int `form:"days" example:"30"` // Number of days to look ahead. Defaults to 30.
}

// ProcessResponse is the result of an on-demand pass.
type ProcessResponse struct {
	Data  *scheduler.Result `json:"data"`                                                                    // Result of the pass
	Error *string           `json:"error" example:"recurring transaction pass failed: there is no database"` // The error, if any occurred
}
