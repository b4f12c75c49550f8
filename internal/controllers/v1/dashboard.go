package v1

import (
	"net/http"
	"time"

	"github.com/finsight/backend/internal/httputil"
	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes registers the routes for the dashboard with
// the RouterGroup that is passed.
func RegisterDashboardRoutes(r *gin.RouterGroup) {
	for path, handler := range map[string]gin.HandlerFunc{
		"/summary":            GetSummary,
		"/category-breakdown": GetCategoryBreakdown,
		"/monthly-trends":     GetMonthlyTrends,
		"/recent":             GetRecentTransactions,
		"/top-categories":     GetTopCategories,
		"/category-trends":    GetCategoryTrends,
	} {
		r.OPTIONS(path, OptionsDashboard)
		r.GET(path, handler)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Dashboard
// @Success		204
// @Router			/v1/dashboard/summary [options]
// @Router			/v1/dashboard/category-breakdown [options]
// @Router			/v1/dashboard/monthly-trends [options]
// @Router			/v1/dashboard/recent [options]
// @Router			/v1/dashboard/top-categories [options]
// @Router			/v1/dashboard/category-trends [options]
func OptionsDashboard(c *gin.Context) {
	httputil.OptionsGet(c)
}

// bindDashboardQuery binds the query parameters on top of the defaults.
// If an error occurs, the response is written and ok is false.
func bindDashboardQuery(c *gin.Context, defaults DashboardQuery) (query DashboardQuery, ok bool) {
	query = defaults
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: httputil.ErrInvalidQuery.Error(),
		})
		return query, false
	}

	if _, err := query.kind(); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return query, false
	}

	if query.Months < 1 || query.Months > 120 {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errMonthsInvalid.Error(),
		})
		return query, false
	}

	if query.Limit < 1 {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errLimitInvalid.Error(),
		})
		return query, false
	}

	return query, true
}

// defaultDashboardQuery has valid values for all parameters
// that endpoints without these parameters do not check.
var defaultDashboardQuery = DashboardQuery{Months: 6, Limit: 10}

// @Summary		Summary
// @Description	Returns the total income, total expenses and balance of the user
// @Tags			Dashboard
// @Produce		json
// @Success		200			{object}	SummaryResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		500			{object}	SummaryResponse
// @Param			fromDate	query		string	false	"Transactions on and after this date, YYYY-MM-DD"
// @Param			untilDate	query		string	false	"Transactions on and before this date, YYYY-MM-DD"
// @Router			/v1/dashboard/summary [get]
func GetSummary(c *gin.Context) {
	query, ok := bindDashboardQuery(c, defaultDashboardQuery)
	if !ok {
		return
	}

	summary, err := models.TransactionSummary(models.DB, owner(c), query.dates())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}

// @Summary		Category breakdown
// @Description	Returns the sum of the transactions per category, largest amount first
// @Tags			Dashboard
// @Produce		json
// @Success		200			{object}	CategoryAmountsResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		500			{object}	CategoryAmountsResponse
// @Param			kind		query		string	false	"income or expense. Defaults to expense"
// @Param			fromDate	query		string	false	"Transactions on and after this date, YYYY-MM-DD"
// @Param			untilDate	query		string	false	"Transactions on and before this date, YYYY-MM-DD"
// @Router			/v1/dashboard/category-breakdown [get]
func GetCategoryBreakdown(c *gin.Context) {
	defaults := defaultDashboardQuery
	defaults.Kind = string(types.Expense)

	query, ok := bindDashboardQuery(c, defaults)
	if !ok {
		return
	}

	kind, _ := query.kind()
	breakdown, err := models.CategoryBreakdown(models.DB, owner(c), kind, query.dates())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryAmountsResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryAmountsResponse{Data: breakdown})
}

// @Summary		Top categories
// @Description	Returns the categories with the largest amounts
// @Tags			Dashboard
// @Produce		json
// @Success		200			{object}	CategoryAmountsResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		500			{object}	CategoryAmountsResponse
// @Param			kind		query		string	false	"income or expense. Defaults to expense"
// @Param			limit		query		int		false	"Number of categories. Defaults to 5"
// @Param			fromDate	query		string	false	"Transactions on and after this date, YYYY-MM-DD"
// @Param			untilDate	query		string	false	"Transactions on and before this date, YYYY-MM-DD"
// @Router			/v1/dashboard/top-categories [get]
func GetTopCategories(c *gin.Context) {
	defaults := defaultDashboardQuery
	defaults.Kind = string(types.Expense)
	defaults.Limit = 5

	query, ok := bindDashboardQuery(c, defaults)
	if !ok {
		return
	}

	kind, _ := query.kind()
	top, err := models.TopCategories(models.DB, owner(c), kind, query.dates(), query.Limit)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryAmountsResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryAmountsResponse{Data: top})
}

// @Summary		Monthly trends
// @Description	Returns income and expense totals per month, oldest month first. Months without transactions are included.
// @Tags			Dashboard
// @Produce		json
// @Success		200		{object}	MonthlyTrendsResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	MonthlyTrendsResponse
// @Param			months	query		int	false	"Number of months including the current one. Defaults to 6"
// @Router			/v1/dashboard/monthly-trends [get]
func GetMonthlyTrends(c *gin.Context) {
	query, ok := bindDashboardQuery(c, defaultDashboardQuery)
	if !ok {
		return
	}

	trends, err := models.MonthlyTrends(models.DB, owner(c), time.Now(), query.Months)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MonthlyTrendsResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, MonthlyTrendsResponse{Data: trends})
}

// @Summary		Category trends
// @Description	Returns the expenses per category for each month, oldest month first
// @Tags			Dashboard
// @Produce		json
// @Success		200		{object}	CategoryTrendsResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	CategoryTrendsResponse
// @Param			months	query		int	false	"Number of months including the current one. Defaults to 6"
// @Router			/v1/dashboard/category-trends [get]
func GetCategoryTrends(c *gin.Context) {
	query, ok := bindDashboardQuery(c, defaultDashboardQuery)
	if !ok {
		return
	}

	trends, err := models.ExpenseCategoryTrends(models.DB, owner(c), time.Now(), query.Months)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CategoryTrendsResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CategoryTrendsResponse{Data: &trends})
}

// @Summary		Recent transactions
// @Description	Returns the newest transactions
// @Tags			Dashboard
// @Produce		json
// @Success		200		{object}	TransactionListResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	TransactionListResponse
// @Param			limit	query		int	false	"Number of transactions. Defaults to 10"
// @Router			/v1/dashboard/recent [get]
func GetRecentTransactions(c *gin.Context) {
	query, ok := bindDashboardQuery(c, defaultDashboardQuery)
	if !ok {
		return
	}

	var transactions []models.Transaction
	err := models.DB.
		Where(&models.Transaction{OwnerID: owner(c)}).
		Order("date DESC, created_at DESC").
		Limit(query.Limit).
		Find(&transactions).Error
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

	c.JSON(http.StatusOK, TransactionListResponse{Data: data})
}
