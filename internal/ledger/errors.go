package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMonth           = errors.New("invalid month")
	ErrMonthOffsetRange       = errors.New("month offset out of range")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrUnknownFrequency       = errors.New("unknown recurrence frequency")
	ErrEmptyStore             = errors.New("no transactions")
	ErrNotANumber             = errors.New("not a number")
	ErrAmountPrecision        = errors.New("amount too large or too precise")
)

// ValidationError rejects a single form field.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

func invalid(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// IndexError reports a view position that does not map into the store.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (view has %d rows)", e.Index, e.Len)
}

// PersistenceError is returned by load/save backends. Row and Column are
// 1-based and zero when they do not apply.
type PersistenceError struct {
	Op     string
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *PersistenceError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Column != "" {
		msg += " column " + e.Column
	}
	return msg + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RecurrenceLookupError means a generated row has no matching origin.
type RecurrenceLookupError struct {
	Description string
}

func (e *RecurrenceLookupError) Error() string {
	return fmt.Sprintf("origin of recurring transaction %q not found", e.Description)
}
