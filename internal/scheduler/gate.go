package scheduler

import (
	"context"
	"time"

	"github.com/finsight/backend/internal/models"
)

// Expiry is the lifecycle state of a due recurring transaction.
type Expiry int

const (
	Active Expiry = iota
	Expired
)

func (e Expiry) String() string {
	if e == Expired {
		return "expired"
	}
	return "active"
}

// CheckExpiry returns Expired if the end date of the recurring transaction
// is set and now is after it.
func CheckExpiry(recurring models.RecurringTransaction, now time.Time) Expiry {
	if recurring.Ended(now) {
		return Expired
	}
	return Active
}

// Gate deactivates recurring transactions that have passed their end date.
type Gate struct {
	Store   Store
	Timeout time.Duration
}

// Apply checks the expiry of the recurring transaction. Expired recurring
// transactions are deactivated.
//
// If deactivating fails, the recurring transaction is left unchanged and a *TemplateError is returned.
func (g Gate) Apply(ctx context.Context, pass *Pass, recurring *models.RecurringTransaction) (Expiry, error) {
	expiry := CheckExpiry(*recurring, pass.Now)
	if expiry == Active {
		return Active, nil
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	err := g.Store.Deactivate(ctx, recurring.ID)
	if err != nil {
		return expiry, &TemplateError{ID: recurring.ID, Name: recurring.Name, Err: err}
	}
	recurring.Active = false

	pass.Logger.Info().
		Str("template", recurring.ID.String()).
		Str("name", recurring.Name).
		Str("owner", recurring.OwnerID.String()).
		Time("endDate", *recurring.EndDate).
		Msg("recurring transaction ended, deactivated")

	return expiry, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
