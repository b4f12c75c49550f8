package v1

import (
	"net/http"
	"time"

	"github.com/finsight/backend/internal/httputil"
	"github.com/finsight/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", GetBudgets)
		r.POST("", CreateBudget)
		r.OPTIONS("/alerts", OptionsBudgetAlerts)
		r.GET("/alerts", GetBudgetAlerts)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets/alerts [options]
func OptionsBudgetAlerts(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	resourceOptionsDetail[models.Budget](c)
}

// @Summary		Create budget
// @Description	Creates a new budget. There can only be one active budget per category.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		401		{object}	httpError
// @Failure		500		{object}	BudgetResponse
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets [post]
func CreateBudget(c *gin.Context) {
	fields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	var editable BudgetEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	budget := editable.model()
	budget.OwnerID = owner(c)

	if !slices.Contains(fields, "Active") {
		budget.Active = true
	}

	if !slices.Contains(fields, "AlertThreshold") {
		budget.AlertThreshold = models.DefaultAlertThreshold
	}

	err = models.DB.Create(&budget).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	data, err := newBudget(c, models.DB, budget, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, BudgetResponse{Data: &data})
}

// @Summary		Get budgets
// @Description	Returns the budgets with the amount spent so far
// @Tags			Budgets
// @Produce		json
// @Success		200			{object}	BudgetListResponse
// @Failure		400			{object}	BudgetListResponse
// @Failure		401			{object}	httpError
// @Failure		500			{object}	BudgetListResponse
// @Param			category	query		string	false	"Filter by category"
// @Param			active		query		bool	false	"Is the budget active? Defaults to true"
// @Router			/v1/budgets [get]
func GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		s := httputil.ErrInvalidQuery.Error()
		c.JSON(http.StatusBadRequest, BudgetListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Only active budgets are listed unless specified otherwise
	if !slices.Contains(setFields, "Active") {
		filter.Active = true
		queryFields = append(queryFields, "Active")
	}

	var budgets []models.Budget
	err := models.DB.
		Where("owner_id = ?", owner(c)).
		Where(&models.Budget{Category: filter.Category, Active: filter.Active}, queryFields...).
		Order("category ASC, start_date DESC").
		Find(&budgets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetListResponse{
			Error: &s,
		})
		return
	}

	now := time.Now()
	data := make([]Budget, 0, len(budgets))
	for _, budget := range budgets {
		b, err := newBudget(c, models.DB, budget, now)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, b)
	}

	c.JSON(http.StatusOK, BudgetListResponse{Data: data})
}

// @Summary		Get budget alerts
// @Description	Returns all active budgets where the spent amount reached the alert threshold
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetAlertsResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	BudgetAlertsResponse
// @Router			/v1/budgets/alerts [get]
func GetBudgetAlerts(c *gin.Context) {
	var budgets []models.Budget
	err := models.DB.
		Where(&models.Budget{OwnerID: owner(c), Active: true}).
		Order("category ASC").
		Find(&budgets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetAlertsResponse{
			Error: &s,
		})
		return
	}

	now := time.Now()
	alerts := make([]BudgetAlert, 0)
	for _, budget := range budgets {
		b, err := newBudget(c, models.DB, budget, now)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetAlertsResponse{
				Error: &s,
			})
			return
		}

		if b.Alerting {
			alerts = append(alerts, newBudgetAlert(b))
		}
	}

	c.JSON(http.StatusOK, BudgetAlertsResponse{Data: &BudgetAlerts{
		Alerts: alerts,
		Count:  len(alerts),
	}})
}

// @Summary		Get budget
// @Description	Returns a specific budget with the amount spent so far
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	BudgetResponse
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	BudgetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	budget, ok := getOwnedResource[models.Budget](c)
	if !ok {
		return
	}

	data, err := newBudget(c, models.DB, budget, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Updates an existing budget. Only values to be updated need to be specified.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		404		{object}	httpError
// @Failure		500		{object}	BudgetResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	budget, ok := getOwnedResource[models.Budget](c)
	if !ok {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	var data BudgetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	for _, field := range updateFields {
		switch field {
		case "Category":
			budget.Category = data.Category
		case "Limit":
			budget.Limit = data.Limit
		case "Period":
			budget.Period = data.Period
		case "StartDate":
			budget.StartDate = data.StartDate
		case "EndDate":
			budget.EndDate = data.EndDate
		case "AlertThreshold":
			budget.AlertThreshold = data.AlertThreshold
		case "Active":
			budget.Active = data.Active
		}
	}

	err = models.DB.Save(&budget).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	r, err := newBudget(c, models.DB, budget, time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &r})
}

// @Summary		Delete budget
// @Description	Deletes a budget
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	budget, ok := getOwnedResource[models.Budget](c)
	if !ok {
		return
	}

	err := models.DB.Delete(&budget).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
