/*
Package store defines the persistence interfaces the engine's callers use.

PURPOSE:
  The engine itself performs no I/O; these interfaces are the external
  collaborator that loads records for it and persists what the caller decides
  to save. Implementations assign opaque document ids and server-side
  created/updated timestamps.

IMPLEMENTATIONS:
  store/sqlite: SQLite-backed, the production store
  store/memory: in-memory, for tests

OPTIONAL-HOLIDAY BOOKKEEPING:
  Creating, editing, or deleting a leave record changes how many optional
  holidays the employee has consumed. The store applies the compensating
  adjustment on every write using engine.OptionalHolidayDelta, so the
  per-employee counter stays consistent without a separate reconciliation
  pass.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/lumenhr/leave-engine/engine"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrEmployeeIDTaken is returned when creating an employee whose
	// business identifier already exists.
	ErrEmployeeIDTaken = errors.New("employee id already in use")
)

// Settings is the process-wide company policy document.
type Settings struct {
	Policy    engine.PolicySnapshot
	UpdatedAt time.Time
	UpdatedBy string
}

// EmployeeStore manages employee documents.
type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]engine.Employee, error)
	GetEmployee(ctx context.Context, id string) (engine.Employee, error)

	// CreateEmployee assigns the document id and returns the stored record.
	CreateEmployee(ctx context.Context, emp engine.Employee) (engine.Employee, error)
	UpdateEmployee(ctx context.Context, emp engine.Employee) error
	DeleteEmployee(ctx context.Context, id string) error

	// OptionalHolidaysConsumed is the employee's running counter,
	// maintained by the leave-record write paths.
	OptionalHolidaysConsumed(ctx context.Context, employeeID string) (int, error)
}

// HolidayStore manages the company holiday set. AddHoliday is the editing
// boundary that rejects a second holiday on an already-taken date.
type HolidayStore interface {
	ListHolidays(ctx context.Context) ([]engine.Holiday, error)
	AddHoliday(ctx context.Context, h engine.Holiday) (engine.Holiday, error)
	UpdateHoliday(ctx context.Context, h engine.Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
}

// LeaveStore manages leave records. EmployeeID arguments are the business
// identifier, not the document id.
type LeaveStore interface {
	ListLeaveRecords(ctx context.Context) ([]engine.LeaveRecord, error)
	LeaveRecordsByEmployee(ctx context.Context, employeeID string) ([]engine.LeaveRecord, error)
	GetLeaveRecord(ctx context.Context, id string) (engine.LeaveRecord, error)
	CreateLeaveRecord(ctx context.Context, r engine.LeaveRecord) (engine.LeaveRecord, error)
	UpdateLeaveRecord(ctx context.Context, r engine.LeaveRecord) error
	DeleteLeaveRecord(ctx context.Context, id string) error
}

// SettingsStore manages the policy singleton.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, policy engine.PolicySnapshot, author string) (Settings, error)
}

// Store is the full persistence surface the HTTP layer wires against.
type Store interface {
	EmployeeStore
	HolidayStore
	LeaveStore
	SettingsStore

	Close() error
}
