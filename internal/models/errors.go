package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrOwnerMissing   = errors.New("every resource must belong to an owner")
	ErrAmountNegative = errors.New("the amount must not be negative")
	ErrNameEmpty      = errors.New("the name must not be empty")
	ErrCategoryEmpty  = errors.New("the category must not be empty")
)

// Transaction errors
var (
	ErrRecurringFrequencyMissing = errors.New("a recurring transaction must specify the recurring frequency")
	ErrOccurrenceExists          = errors.New("a transaction for this occurrence of the recurring transaction already exists")
)

// Recurring transaction errors
var (
	ErrNextOccurrenceBeforeStart = errors.New("the next occurrence must not be before the start date")
	ErrEndBeforeStart            = errors.New("the end date must not be before the start date")
	ErrRecurringEnded            = errors.New("the recurring transaction has passed its end date and cannot be activated")
)

// Category errors
var (
	ErrCategoryNameNotUnique = errors.New("a category with this name and kind already exists")
	ErrCategoryInUse         = errors.New("the category is used by transactions")
)

// Budget errors
var (
	ErrBudgetLimitNotPositive  = errors.New("the budget limit must be greater than 0")
	ErrBudgetPeriodInvalid     = errors.New("the budget period must be one of weekly, monthly, yearly")
	ErrAlertThresholdRange     = errors.New("the alert threshold must be between 0 and 100")
	ErrBudgetCategoryNotUnique = errors.New("an active budget already exists for this category")
)
