package v1

import (
	"errors"
	"net/http"

	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/scheduler"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	var passErr *scheduler.PassError
	if errors.As(err, &passErr) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var (
	errAmountNotPositive = errors.New("the amount must be greater than 0")
	errDaysInvalid       = errors.New("the days parameter must be between 1 and 366")
	errMonthsInvalid     = errors.New("the months parameter must be between 1 and 120")
	errLimitInvalid      = errors.New("the limit parameter must be greater than 0")
	errIDsEmpty          = errors.New("the ids must contain at least one transaction ID")
)
