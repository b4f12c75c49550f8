package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrTemplateChanged is returned when a recurring transaction was changed or deleted
// after it was read by the pass. The pass does not write it, the next pass reads it again.
var ErrTemplateChanged = errors.New("the recurring transaction was changed or deleted during the pass")

// PassError is returned when a pass fails before any recurring transaction
// was processed. Nothing has been modified when it occurs.
type PassError struct {
	Err error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("recurring transaction pass failed: %v", e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}

// TemplateError is the failure to process a single recurring transaction.
// It does not stop the pass.
type TemplateError struct {
	ID   uuid.UUID
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("recurring transaction %s (%s): %v", e.ID, e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface.
func (e *TemplateError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Error string    `json:"error"`
	}{e.ID, e.Name, e.Err.Error()})
}
