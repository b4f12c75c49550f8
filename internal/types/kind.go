package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidKind is returned when a kind is neither income nor expense.
var ErrInvalidKind = errors.New("kind must be either income or expense")

// Kind is the direction of money for a transaction.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Valid reports if k is income or expense.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// ParseKind returns the Kind for s or an error wrapping ErrInvalidKind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w, got '%s'", ErrInvalidKind, s)
	}
	return k, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		return nil
	}

	parsed, err := ParseKind(*s)
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}
