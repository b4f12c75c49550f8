package v1

import (
	"fmt"
	"net/http"

	"github.com/finsight/backend/internal/httputil"
	"github.com/finsight/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
		r.OPTIONS("/bulk-delete", OptionsTransactionBulkDelete)
		r.POST("/bulk-delete", DeleteTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/bulk-delete [options]
func OptionsTransactionBulkDelete(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	resourceOptionsDetail[models.Transaction](c)
}

// @Summary		Create transaction
// @Description	Creates a new transaction
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		401			{object}	httpError
// @Failure		500			{object}	TransactionResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	if !editable.Amount.IsPositive() {
		s := errAmountNotPositive.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{
			Error: &s,
		})
		return
	}

	transaction := editable.model()
	transaction.OwnerID = owner(c)

	err = models.DB.Create(&transaction).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns a list of transactions, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			kind					query	string	false	"Filter by kind"
// @Param			category				query	string	false	"Filter by category"
// @Param			fromDate				query	string	false	"Transactions on and after this date, YYYY-MM-DD"
// @Param			untilDate				query	string	false	"Transactions on and before this date, YYYY-MM-DD"
// @Param			search					query	string	false	"Search for this text in the description"
// @Param			recurring				query	bool	false	"Is the transaction recurring?"
// @Param			recurringTransaction	query	string	false	"Filter by ID of the recurring transaction"
// @Param			offset					query	uint	false	"The offset of the first transaction returned. Defaults to 0."
// @Param			limit					query	int		false	"Maximum number of transactions to return. Defaults to 1000."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date DESC, created_at DESC").
		Where("owner_id = ?", owner(c)).
		Where(&filterModel, queryFields...)

	if !filter.FromDate.IsZero() {
		q = q.Where("transactions.date >= ?", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		// The until date includes the whole day
		q = q.Where("transactions.date < ?", filter.UntilDate.AddDate(0, 0, 1))
	}

	if filter.Search != "" {
		q = q.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Search))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := 1000
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err = q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	transaction, ok := getOwnedResource[models.Transaction](c)
	if !ok {
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	httpError
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	transaction, ok := getOwnedResource[models.Transaction](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var data TransactionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	for _, field := range updateFields {
		switch field {
		case "Kind":
			transaction.Kind = data.Kind
		case "Amount":
			transaction.Amount = data.Amount
		case "Category":
			transaction.Category = data.Category
		case "Description":
			transaction.Description = data.Description
		case "Date":
			transaction.Date = data.Date
		case "Tags":
			transaction.Tags = data.Tags
		case "IsRecurring":
			transaction.IsRecurring = data.IsRecurring
		case "RecurringFrequency":
			transaction.RecurringFrequency = data.RecurringFrequency
		}
	}

	if !transaction.Amount.IsPositive() {
		s := errAmountNotPositive.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Save(&transaction).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	r := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &r})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	transaction, ok := getOwnedResource[models.Transaction](c)
	if !ok {
		return
	}

	err := models.DB.Delete(&transaction).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete transactions
// @Description	Deletes all transactions with the specified IDs. IDs of transactions that do not exist are ignored.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200	{object}	BulkDeleteResponse
// @Failure		400	{object}	BulkDeleteResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	BulkDeleteResponse
// @Param			ids	body		BulkDeleteEditable	true	"IDs of the transactions"
// @Router			/v1/transactions/bulk-delete [post]
func DeleteTransactions(c *gin.Context) {
	var editable BulkDeleteEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BulkDeleteResponse{
			Error: &s,
		})
		return
	}

	if len(editable.IDs) == 0 {
		s := errIDsEmpty.Error()
		c.JSON(http.StatusBadRequest, BulkDeleteResponse{
			Error: &s,
		})
		return
	}

	tx := models.DB.Where("owner_id = ? AND id IN ?", owner(c), editable.IDs).Delete(&models.Transaction{})
	if tx.Error != nil {
		s := tx.Error.Error()
		c.JSON(status(tx.Error), BulkDeleteResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BulkDeleteResponse{Data: &BulkDeleteResult{DeletedCount: tx.RowsAffected}})
}
