package scheduler

import (
	"context"
	"time"

	"github.com/finsight/backend/internal/models"
)

// FindDue returns all active recurring transactions of all owners with a next
// occurrence at or before now, ordered by next occurrence and ID.
func FindDue(ctx context.Context, store Store, now time.Time) ([]models.RecurringTransaction, error) {
	active := true

	due, err := store.Find(ctx, Filter{Active: &active, DueAt: now})
	if err != nil {
		return nil, &PassError{Err: err}
	}

	return due, nil
}
