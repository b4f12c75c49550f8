package v1

import (
	"bytes"
	"net/http"
	"time"

	"github.com/finsight/backend/internal/httputil"
	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/scheduler"
	"github.com/finsight/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RecurringController serves the recurring transaction endpoints.
// Passes and reports are delegated to its Scheduler.
type RecurringController struct {
	Scheduler *scheduler.Scheduler
}

// RegisterRecurringRoutes registers the routes for recurring transactions with
// the RouterGroup that is passed.
func RegisterRecurringRoutes(r *gin.RouterGroup, s *scheduler.Scheduler) {
	co := RecurringController{Scheduler: s}

	// Root group
	{
		r.OPTIONS("", OptionsRecurringTransactionList)
		r.GET("", GetRecurringTransactions)
		r.POST("", co.CreateRecurringTransaction)
	}

	// Scheduler
	{
		r.OPTIONS("/upcoming", OptionsRecurringTransactionUpcoming)
		r.GET("/upcoming", co.GetUpcomingRecurringTransactions)
		r.OPTIONS("/process", OptionsRecurringTransactionProcess)
		r.POST("/process", co.ProcessRecurringTransactions)
		r.OPTIONS("/report", OptionsRecurringTransactionReport)
		r.GET("/report", co.GetRecurringTransactionReport)
	}

	// Recurring transaction with ID
	{
		r.OPTIONS("/:id", OptionsRecurringTransactionDetail)
		r.GET("/:id", GetRecurringTransaction)
		r.PATCH("/:id", co.UpdateRecurringTransaction)
		r.DELETE("/:id", DeleteRecurringTransaction)
		r.OPTIONS("/:id/toggle", OptionsRecurringTransactionToggle)
		r.POST("/:id/toggle", co.ToggleRecurringTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Transactions
// @Success		204
// @Router			/v1/recurring [options]
func OptionsRecurringTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Transactions
// @Success		204
// @Router			/v1/recurring/upcoming [options]
func OptionsRecurringTransactionUpcoming(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Transactions
// @Success		204
// @Router			/v1/recurring/process [options]
func OptionsRecurringTransactionProcess(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Transactions
// @Success		204
// @Router			/v1/recurring/report [options]
func OptionsRecurringTransactionReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring/{id} [options]
func OptionsRecurringTransactionDetail(c *gin.Context) {
	resourceOptionsDetail[models.RecurringTransaction](c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recurring Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring/{id}/toggle [options]
func OptionsRecurringTransactionToggle(c *gin.Context) {
	if _, ok := getOwnedResource[models.RecurringTransaction](c); !ok {
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Create recurring transaction
// @Description	Creates a new recurring transaction. The first transaction is generated at the start date.
// @Tags			Recurring Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	RecurringTransactionResponse
// @Failure		400			{object}	RecurringTransactionResponse
// @Failure		401			{object}	httpError
// @Failure		500			{object}	RecurringTransactionResponse
// @Param			recurring	body		RecurringTransactionEditable	true	"Recurring transaction"
// @Router			/v1/recurring [post]
func (co RecurringController) CreateRecurringTransaction(c *gin.Context) {
	fields, err := httputil.GetBodyFields(c, RecurringTransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	var editable RecurringTransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	if !editable.Amount.IsPositive() {
		s := errAmountNotPositive.Error()
		c.JSON(http.StatusBadRequest, RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	recurring := editable.model()
	recurring.OwnerID = owner(c)

	// New recurring transactions are active unless specified otherwise
	if !slices.Contains(fields, "Active") {
		recurring.Active = true
	}

	if recurring.StartDate.IsZero() {
		recurring.StartDate = types.StartOfDay(co.Scheduler.Now())
	}

	err = models.DB.Create(&recurring).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	data := newRecurringTransaction(c, recurring)
	c.JSON(http.StatusCreated, RecurringTransactionResponse{Data: &data})
}

// @Summary		Get recurring transactions
// @Description	Returns the recurring transactions ordered by their next occurrence
// @Tags			Recurring Transactions
// @Produce		json
// @Success		200	{object}	RecurringTransactionListResponse
// @Failure		400	{object}	RecurringTransactionListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	RecurringTransactionListResponse
// @Router			/v1/recurring [get]
// @Param			kind		query	string	false	"Filter by kind"
// @Param			frequency	query	string	false	"Filter by frequency"
// @Param			category	query	string	false	"Filter by category"
// @Param			active		query	bool	false	"Is the recurring transaction active?"
// @Param			name		query	string	false	"Filter by name, * matches any text"
// @Param			offset		query	uint	false	"The offset of the first recurring transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of recurring transactions to return. Defaults to 50."
func GetRecurringTransactions(c *gin.Context) {
	var filter RecurringTransactionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	var recurring []models.RecurringTransaction
	err = models.DB.
		Where("owner_id = ?", owner(c)).
		Where(&filterModel, queryFields...).
		Order("next_occurrence ASC, id ASC").
		Find(&recurring).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	// Names are matched as glob patterns, which SQL cannot do
	if slices.Contains(setFields, "Name") {
		recurring = slices.DeleteFunc(recurring, func(r models.RecurringTransaction) bool {
			return !glob.Glob(filter.Name, r.Name)
		})
	}

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	total := len(recurring)
	page := paginate(recurring, filter.Offset, limit)

	data := make([]RecurringTransaction, 0, len(page))
	for _, r := range page {
		data = append(data, newRecurringTransaction(c, r))
	}

	c.JSON(http.StatusOK, RecurringTransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  int64(total),
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get upcoming recurring transactions
// @Description	Returns the active recurring transactions that generate a transaction within the next days
// @Tags			Recurring Transactions
// @Produce		json
// @Success		200		{object}	RecurringTransactionListResponse
// @Failure		400		{object}	RecurringTransactionListResponse
// @Failure		401		{object}	httpError
// @Failure		500		{object}	RecurringTransactionListResponse
// @Param			days	query		int	false	"Number of days to look ahead. Defaults to 30."
// @Router			/v1/recurring/upcoming [get]
func (co RecurringController) GetUpcomingRecurringTransactions(c *gin.Context) {
	query := QueryDays{Days: 30}
	if err := c.ShouldBindQuery(&query); err != nil || query.Days < 1 || query.Days > 366 {
		s := errDaysInvalid.Error()
		c.JSON(http.StatusBadRequest, RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	until := co.Scheduler.Now().Add(time.Duration(query.Days) * 24 * time.Hour)

	upcoming, err := co.Scheduler.Upcoming(c.Request.Context(), owner(c), until)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionListResponse{
			Error: &s,
		})
		return
	}

	data := make([]RecurringTransaction, 0, len(upcoming))
	for _, r := range upcoming {
		data = append(data, newRecurringTransaction(c, r))
	}

	c.JSON(http.StatusOK, RecurringTransactionListResponse{Data: data})
}

// @Summary		Process recurring transactions
// @Description	Generates the transactions for all due recurring transactions of all users.
// @Description	Concurrent requests share the result of one pass.
// @Tags			Recurring Transactions
// @Produce		json
// @Success		200	{object}	ProcessResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	ProcessResponse
// @Router			/v1/recurring/process [post]
func (co RecurringController) ProcessRecurringTransactions(c *gin.Context) {
	result, err := co.Scheduler.Trigger(c.Request.Context())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcessResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{Data: &result})
}

// @Summary		Report of active recurring transactions
// @Description	Returns a table of all active recurring transactions of the user
// @Tags			Recurring Transactions
// @Produce		plain
// @Success		200	{string}	string
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/recurring/report [get]
func (co RecurringController) GetRecurringTransactionReport(c *gin.Context) {
	var report bytes.Buffer
	err := co.Scheduler.DisplayActive(c.Request.Context(), &report, owner(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", report.Bytes())
}

// @Summary		Get recurring transaction
// @Description	Returns a specific recurring transaction
// @Tags			Recurring Transactions
// @Produce		json
// @Success		200	{object}	RecurringTransactionResponse
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring/{id} [get]
func GetRecurringTransaction(c *gin.Context) {
	recurring, ok := getOwnedResource[models.RecurringTransaction](c)
	if !ok {
		return
	}

	data := newRecurringTransaction(c, recurring)
	c.JSON(http.StatusOK, RecurringTransactionResponse{Data: &data})
}

// @Summary		Update recurring transaction
// @Description	Updates an existing recurring transaction. Only values to be updated need to be specified.
// @Description	Changing the frequency does not move the next occurrence. Activating a recurring transaction
// @Description	moves a next occurrence in the past to the current day.
// @Tags			Recurring Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	RecurringTransactionResponse
// @Failure		400			{object}	RecurringTransactionResponse
// @Failure		404			{object}	httpError
// @Failure		500			{object}	RecurringTransactionResponse
// @Param			id			path		URIID							true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			recurring	body		RecurringTransactionEditable	true	"Recurring transaction"
// @Router			/v1/recurring/{id} [patch]
func (co RecurringController) UpdateRecurringTransaction(c *gin.Context) {
	recurring, ok := getOwnedResource[models.RecurringTransaction](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, RecurringTransactionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	var data RecurringTransactionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	next := recurring.NextOccurrence
	err = applyRecurringUpdate(&recurring, data, updateFields, co.Scheduler.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	err = saveRecurring(&recurring, next)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	r := newRecurringTransaction(c, recurring)
	c.JSON(http.StatusOK, RecurringTransactionResponse{Data: &r})
}

// saveRecurring saves the fields users own. The scheduler owns the last processed
// time and the next occurrence, which is only written when reactivation moved it away from next.
func saveRecurring(recurring *models.RecurringTransaction, next time.Time) error {
	omit := []string{"LastProcessed"}
	if recurring.NextOccurrence.Equal(next) {
		omit = append(omit, "NextOccurrence")
	}

	return models.DB.Omit(omit...).Save(recurring).Error
}

// applyRecurringUpdate sets all fields of recurring that are contained in fields to their value in data.
func applyRecurringUpdate(recurring *models.RecurringTransaction, data RecurringTransactionEditable, fields []string, now time.Time) error {
	for _, field := range fields {
		switch field {
		case "Name":
			recurring.Name = data.Name
		case "Kind":
			recurring.Kind = data.Kind
		case "Amount":
			if !data.Amount.IsPositive() {
				return errAmountNotPositive
			}
			recurring.Amount = data.Amount
		case "Category":
			recurring.Category = data.Category
		case "Note":
			recurring.Note = data.Note
		case "Frequency":
			recurring.Frequency = data.Frequency
		case "StartDate":
			recurring.StartDate = data.StartDate
		case "EndDate":
			recurring.EndDate = data.EndDate
		case "Tags":
			recurring.Tags = data.Tags
		}
	}

	// The active flag is applied last so that a new end date is respected
	if slices.Contains(fields, "Active") {
		if !data.Active {
			recurring.Active = false
		} else if !recurring.Active {
			return recurring.Activate(now)
		}
	}

	return nil
}

// @Summary		Toggle recurring transaction
// @Description	Deactivates an active recurring transaction and activates an inactive one.
// @Description	Recurring transactions past their end date cannot be activated.
// @Tags			Recurring Transactions
// @Produce		json
// @Success		200	{object}	RecurringTransactionResponse
// @Failure		400	{object}	RecurringTransactionResponse
// @Failure		404	{object}	httpError
// @Failure		500	{object}	RecurringTransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring/{id}/toggle [post]
func (co RecurringController) ToggleRecurringTransaction(c *gin.Context) {
	recurring, ok := getOwnedResource[models.RecurringTransaction](c)
	if !ok {
		return
	}

	next := recurring.NextOccurrence
	if recurring.Active {
		recurring.Active = false
	} else if err := recurring.Activate(co.Scheduler.Now()); err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	err := saveRecurring(&recurring, next)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), RecurringTransactionResponse{
			Error: &s,
		})
		return
	}

	data := newRecurringTransaction(c, recurring)
	c.JSON(http.StatusOK, RecurringTransactionResponse{Data: &data})
}

// @Summary		Delete recurring transaction
// @Description	Deletes a recurring transaction. Transactions generated from it are kept.
// @Tags			Recurring Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/recurring/{id} [delete]
func DeleteRecurringTransaction(c *gin.Context) {
	recurring, ok := getOwnedResource[models.RecurringTransaction](c)
	if !ok {
		return
	}

	err := models.DB.Delete(&recurring).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
