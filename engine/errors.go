/*
errors.go - Error taxonomy for the engine

PURPOSE:
  Every engine error is invalid input detected before any write, never a
  runtime failure. Validation refusals are structured: they carry the reason
  and the offending dates so callers can surface them to the user instead of
  losing detail in an opaque message.

USAGE:
  var conflict *engine.ConflictError
  if errors.As(err, &conflict) {
      // conflict.Dates lists the colliding days
  }
  if engine.IsValidation(err) {
      // 422, user-correctable
  }
*/
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoEmployee is returned when a submission names no employee.
	ErrNoEmployee = errors.New("no employee selected")

	// ErrNoDateRange is returned when a submission has no start or end date.
	ErrNoDateRange = errors.New("no date range selected")

	// ErrEmptyDayMap is returned when a submission carries no day entries.
	ErrEmptyDayMap = errors.New("no days selected")

	// ErrConflict is returned when a proposed booking collides with an
	// existing record or an earlier entry in the same batch.
	ErrConflict = errors.New("dates already booked")

	// ErrDuplicateHolidayDate is returned by the editing boundary when a
	// holiday is added on a date the set already contains.
	ErrDuplicateHolidayDate = errors.New("holiday already exists on this date")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConflictError reports which proposed dates collide and with what.
type ConflictError struct {
	EmployeeID string
	Dates      []Date

	// BatchIndex is the position of the offending entry within a
	// multi-entry submission, -1 for single-record validation.
	BatchIndex int
}

func (e *ConflictError) Error() string {
	keys := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		keys[i] = d.Key()
	}
	return fmt.Sprintf("dates already booked for %s: %s", e.EmployeeID, strings.Join(keys, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsValidation reports whether err is a user-correctable refusal rather than
// a system failure. Callers map these to 4xx responses.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoEmployee) ||
		errors.Is(err, ErrNoDateRange) ||
		errors.Is(err, ErrEmptyDayMap) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDuplicateHolidayDate)
}
