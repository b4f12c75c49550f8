package v1

import (
	"fmt"
	"time"

	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/types"
	fsuuid "github.com/finsight/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	Kind               types.Kind       `json:"kind" example:"expense"`                      // income or expense
	Amount             decimal.Decimal  `json:"amount" example:"14.03" swaggertype:"string"` // Amount of the transaction, must be greater than 0
	Category           string           `json:"category" example:"Food & Dining"`            // Category of the transaction
	Description        string           `json:"description" example:"Lunch with colleagues"` // Description of the transaction
	Date               time.Time        `json:"date" example:"1815-12-10T18:43:00.271152Z"`  // Date of the transaction. Defaults to now
	Tags               models.Tags      `json:"tags" example:"work" default:"[]"`            // Tags of the transaction
	IsRecurring        bool             `json:"isRecurring" example:"false" default:"false"` // Is this a transaction that repeats?
	RecurringFrequency *types.Frequency `json:"recurringFrequency" example:"monthly"`        // Frequency of the repetition, required if isRecurring is true
}

func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		Kind:               editable.Kind,
		Amount:             editable.Amount,
		Category:           editable.Category,
		Description:        editable.Description,
		Date:               editable.Date,
		Tags:               editable.Tags,
		IsRecurring:        editable.IsRecurring,
		RecurringFrequency: editable.RecurringFrequency,
	}
}

type TransactionLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"`   // The transaction itself
	Recurring string `json:"recurring" example:"https://example.com/api/v1/recurring/0c8b8d4f-0d0b-4f0c-8a1f-9a9f3c2c7d11"` // The recurring transaction this transaction was generated from, if any
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	RecurringTransactionID *uuid.UUID       `json:"recurringTransactionId" example:"0c8b8d4f-0d0b-4f0c-8a1f-9a9f3c2c7d11"` // ID of the recurring transaction this transaction was generated from
	Links                  TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	tags := model.Tags
	if tags == nil {
		tags = models.Tags{}
	}

	transaction := Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Kind:               model.Kind,
			Amount:             model.Amount,
			Category:           model.Category,
			Description:        model.Description,
			Date:               model.Date,
			Tags:               tags,
			IsRecurring:        model.IsRecurring,
			RecurringFrequency: model.RecurringFrequency,
		},
		RecurringTransactionID: model.RecurringTransactionID,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}

	if model.RecurringTransactionID != nil {
		transaction.Links.Recurring = fmt.Sprintf("%s/v1/recurring/%s", url, model.RecurringTransactionID)
	}

	return transaction
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionQueryFilter struct {
	Kind                   string      `form:"kind"`                                                                // By kind
	Category               string      `form:"category"`                                                            // By category
	FromDate               time.Time   `form:"fromDate" time_format:"2006-01-02" time_utc:"1" filterField:"false"`  // Transactions on and after this date
	UntilDate              time.Time   `form:"untilDate" time_format:"2006-01-02" time_utc:"1" filterField:"false"` // Transactions on and before this date
	Search                 string      `form:"search" filterField:"false"`                                          // Search for this text in the description
	IsRecurring            bool        `form:"recurring"`                                                           // Is the transaction recurring?
	RecurringTransactionID fsuuid.UUID `form:"recurringTransaction"`                                                // By ID of the recurring transaction
	Offset                 uint        `form:"offset" filterField:"false"`                                          // The offset of the first transaction returned. Defaults to 0.
	Limit                  int         `form:"limit" filterField:"false"`                                           // Maximum number of transactions to return. Defaults to 1000.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	var kind types.Kind
	if f.Kind != "" {
		k, err := types.ParseKind(f.Kind)
		if err != nil {
			return models.Transaction{}, err
		}
		kind = k
	}

	return models.Transaction{
		Kind:                   kind,
		Category:               f.Category,
		IsRecurring:            f.IsRecurring,
		RecurringTransactionID: f.RecurringTransactionID.Ptr(),
	}, nil
}

// BulkDeleteEditable is the request body to delete multiple transactions.
type BulkDeleteEditable struct {
	IDs []uuid.UUID `json:"ids" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // IDs of the transactions to delete
}

type BulkDeleteResponse struct {
	Data  *BulkDeleteResult `json:"data"`                                                             // Result of the deletion
	Error *string           `json:"error" example:"the ids must contain at least one transaction ID"` // The error, if any occurred
}

type BulkDeleteResult struct {
	DeletedCount int64 `json:"deletedCount" example:"3"` // Number of deleted transactions
}
