package v1

import (
	"time"

	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/types"
)

// DashboardQuery contains all query parameters of the dashboard endpoints.
// Every endpoint only uses the parameters it documents.
type DashboardQuery struct {
	FromDate  time.Time `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`  // Transactions on and after this date
	UntilDate time.Time `form:"untilDate" time_format:"2006-01-02" time_utc:"1"` // Transactions on and before this date
	Kind      string    `form:"kind"`                                            // income or expense
	Limit     int       `form:"limit"`                                           // Maximum number of entries
	Months    int       `form:"months"`                                          // Number of months including the current one
}

// dates returns the date range of the query. The until date includes the whole day.
func (q DashboardQuery) dates() models.DateRange {
	var dates models.DateRange
	if !q.FromDate.IsZero() {
		from := q.FromDate
		dates.From = &from
	}

	if !q.UntilDate.IsZero() {
		until := q.UntilDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
		dates.Until = &until
	}

	return dates
}

func (q DashboardQuery) kind() (types.Kind, error) {
	if q.Kind == "" {
		return "", nil
	}
	return types.ParseKind(q.Kind)
}

type SummaryResponse struct {
	Data  *models.Summary `json:"data"`                                                                // Income and expense totals
	Error *string         `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type CategoryAmountsResponse struct {
	Data  []models.CategoryAmount `json:"data"`                                                                // Amounts per category, largest first
	Error *string                 `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type MonthlyTrendsResponse struct {
	Data  []models.MonthlyTrend `json:"data"`                                                                // Totals per month, oldest first
	Error *string               `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type CategoryTrendsResponse struct {
	Data  *models.CategoryTrends `json:"data"`                                                                // Expenses per category and month
	Error *string                `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}
