/*
types.go - Canonical entity records consumed by the engine

PURPOSE:
  One canonical schema per entity. The source data this engine was built
  against carried several near-duplicate shapes (employees with and without
  a business code, holiday enums that disagreed between modules, leave
  records with and without an approval trail). Here each entity exists once,
  with explicit optional fields, and the approval workflow is an optional
  capability on LeaveRecord rather than a forked type.

KEY CONCEPTS:
  - DayType: the per-day tag inside a leave record's day map
  - LeaveRecord: authoritative data is the day map; start/end are informational
  - PolicySnapshot: company caps passed explicitly into every computation
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY TYPES
// =============================================================================

// DayType tags a single calendar day inside a leave record's day map.
type DayType string

const (
	DayLeave   DayType = "leave"
	DayWFH     DayType = "wfh"
	DayPresent DayType = "present"
)

// ConsumesDay reports whether the tag claims the day (leave or WFH).
// A "present" entry is bookkeeping only and never blocks or counts.
func (dt DayType) ConsumesDay() bool { return dt == DayLeave || dt == DayWFH }

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is read-only to the engine. EmployeeID is the business identifier
// leave records reference; ID is the opaque document id owned by the store.
type Employee struct {
	ID          string
	EmployeeID  string
	Name        string
	Department  string
	Designation string
	JoinDate    Date
	Consultant  bool
}

// =============================================================================
// HOLIDAY
// =============================================================================

type HolidayType string

const (
	// HolidayMandatory is a company-wide non-working day. Always blocks
	// bookings and never consumes any allowance.
	HolidayMandatory HolidayType = "mandatory"

	// HolidayOptional is selectable as leave against the optional-holiday
	// pool. It does not block bookings.
	HolidayOptional HolidayType = "optional"
)

// Holiday is company-level data, not per-employee. Date uniqueness within the
// holiday set is enforced at the editing boundary, not here; lookups tolerate
// duplicates by taking the first match.
type Holiday struct {
	ID          string
	Date        Date
	Name        string
	Type        HolidayType
	Description string
}

// =============================================================================
// LEAVE RECORD
// =============================================================================

// Approval is the optional workflow trail layered on top of LeaveRecord.
// Absent (nil) in deployments without an approval step.
type Approval struct {
	Approved   bool
	ApprovedBy string
	ApprovedAt time.Time
}

// LeaveRecord is one contiguous booking batch for one employee.
//
// The day map is authoritative for all counting: StartDate/EndDate bound the
// record but the engine trusts Days itself. Keys are ISO YYYY-MM-DD strings
// (DateKeyLayout); entries outside [StartDate, EndDate] are a data anomaly
// the engine tolerates rather than rejects.
type LeaveRecord struct {
	ID         string
	EmployeeID string
	StartDate  Date
	EndDate    Date
	Days       map[string]DayType
	Reason     string
	Approval   *Approval

	// OptionalHolidayLeaves is the number of optional-holiday dates this
	// record consumed as leave. Computed at write time via
	// CountOptionalHolidayLeaves and kept current by the persistence layer.
	OptionalHolidayLeaves int
}

// Span returns the record's informational [StartDate, EndDate] period.
func (r LeaveRecord) Span() Period { return Period{Start: r.StartDate, End: r.EndDate} }

// =============================================================================
// POLICY SNAPSHOT
// =============================================================================

// PolicySnapshot carries the company caps into a computation session.
// Callers load it once per session and pass it explicitly; the engine never
// reaches into ambient settings state.
type PolicySnapshot struct {
	LeaveYearly  decimal.Decimal
	LeaveMonthly decimal.Decimal
	WFHYearly    decimal.Decimal
	WFHMonthly   decimal.Decimal

	// OptionalHolidayYearly caps optional-holiday consumption per year.
	// Zero means the pool is disabled.
	OptionalHolidayYearly decimal.Decimal
}

// NewPolicySnapshot builds a snapshot from whole-day caps.
func NewPolicySnapshot(leaveYearly, leaveMonthly, wfhYearly, wfhMonthly, optionalYearly int) PolicySnapshot {
	return PolicySnapshot{
		LeaveYearly:           decimal.NewFromInt(int64(leaveYearly)),
		LeaveMonthly:          decimal.NewFromInt(int64(leaveMonthly)),
		WFHYearly:             decimal.NewFromInt(int64(wfhYearly)),
		WFHMonthly:            decimal.NewFromInt(int64(wfhMonthly)),
		OptionalHolidayYearly: decimal.NewFromInt(int64(optionalYearly)),
	}
}
