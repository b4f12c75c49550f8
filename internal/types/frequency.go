package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFrequency is returned for any frequency outside of the four supported values.
var ErrInvalidFrequency = errors.New("frequency must be one of daily, weekly, monthly, yearly")

// Frequency is the repetition interval of a recurring transaction.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Frequencies lists all valid frequencies.
var Frequencies = []Frequency{Daily, Weekly, Monthly, Yearly}

// Valid reports if f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// ParseFrequency returns the Frequency for s or an error wrapping ErrInvalidFrequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w, got '%s'", ErrInvalidFrequency, s)
	}
	return f, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// An empty string or null leave f unset, everything else must be a valid frequency.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		return nil
	}

	parsed, err := ParseFrequency(*s)
	if err != nil {
		return err
	}

	*f = parsed
	return nil
}

// Next returns the occurrence following current.
//
// Daily and weekly add 1 and 7 calendar days. Monthly and yearly keep the day
// of month. If the target month is shorter than that day, the result is clamped
// to the last day of the target month, e.g. 2024-01-31 is followed by
// 2024-02-29 and 2024-02-29 (yearly) by 2025-02-28. The clock time and location
// of current are kept.
func (f Frequency) Next(current time.Time) (time.Time, error) {
	switch f {
	case Daily:
		return current.AddDate(0, 0, 1), nil
	case Weekly:
		return current.AddDate(0, 0, 7), nil
	case Monthly:
		return addMonthsClamped(current, 1), nil
	case Yearly:
		return addMonthsClamped(current, 12), nil
	}

	return current, fmt.Errorf("%w, got '%s'", ErrInvalidFrequency, f)
}

// NextOccurrence is a convenience wrapper for frequency.Next(current).
func NextOccurrence(current time.Time, frequency Frequency) (time.Time, error) {
	return frequency.Next(current)
}

// addMonthsClamped adds months to t without overflowing into the month after the target.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	// Day 0 of the month after the target is the last day of the target month
	lastDay := time.Date(year, month+time.Month(months)+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(year, month+time.Month(months), day, hour, minute, sec, t.Nanosecond(), t.Location())
}
