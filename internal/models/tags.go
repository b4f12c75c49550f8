package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ProvenanceTag marks transactions created by the recurring transaction scheduler.
const ProvenanceTag = "recurring"

// Tags is a set of free-form labels. It is stored as a JSON array.
type Tags []string

// Normalize trims all tags, drops empty ones and removes duplicates.
// The order of first occurrence is kept.
func (t Tags) Normalize() Tags {
	normalized := Tags{}
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(normalized, tag) {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}

// With returns a copy of t with tag appended if it is not already present.
func (t Tags) With(tag string) Tags {
	c := append(Tags{}, t...)
	return append(c, tag).Normalize()
}

// Contains reports if tag is part of the set.
func (t Tags) Contains(tag string) bool {
	return slices.Contains(t, tag)
}

// Scan writes the value from the database.
func (t *Tags) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Tags", value)
	}

	if len(data) == 0 {
		*t = Tags{}
		return nil
	}

	return json.Unmarshal(data, (*[]string)(t))
}

// Value returns the value for the SQL driver to write to the database.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Tags) GormDataType() string {
	return "text"
}
