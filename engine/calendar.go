/*
calendar.go - Calendar predicates

PURPOSE:
  Pure yes/no questions about a single calendar day: is it a holiday, a
  weekend, or already booked? These run per-day inside date-range loops, so
  they must be deterministic given their arguments and must never mutate
  their inputs or consult a hidden "today".

HOLIDAY LOOKUP:
  The holiday set may, through editing-boundary bugs, contain two holidays on
  the same date. Lookups take the first match in set order rather than
  failing, so one bad settings document cannot break every dashboard.
*/
package engine

import "time"

// =============================================================================
// HOLIDAY PREDICATES
// =============================================================================

// IsHoliday returns the first mandatory holiday falling on date, or nil.
// Mandatory holidays are always non-working.
func IsHoliday(date Date, holidays []Holiday) *Holiday {
	return findHoliday(date, holidays, HolidayMandatory)
}

// IsOptionalHoliday returns the first optional holiday falling on date, or nil.
func IsOptionalHoliday(date Date, holidays []Holiday) *Holiday {
	return findHoliday(date, holidays, HolidayOptional)
}

func findHoliday(date Date, holidays []Holiday, typ HolidayType) *Holiday {
	for i := range holidays {
		if holidays[i].Type == typ && holidays[i].Date.Equal(date) {
			return &holidays[i]
		}
	}
	return nil
}

// =============================================================================
// WEEKEND PREDICATE
// =============================================================================

// IsWeekend reports whether date is a Saturday or Sunday.
func IsWeekend(date Date) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkingDay reports whether date is neither a weekend nor a mandatory
// holiday. Only working days consume allowance or appear in tallies.
func IsWorkingDay(date Date, holidays []Holiday) bool {
	return !IsWeekend(date) && IsHoliday(date, holidays) == nil
}

// =============================================================================
// BOOKING PREDICATE
// =============================================================================

// IsDateBooked reports whether date is unavailable for a new booking:
// either some existing record's span covers it and its day map tags it
// leave or WFH, or it is a mandatory holiday (always disabled for new
// submissions). A "present" tag does not count as booked.
func IsDateBooked(date Date, records []LeaveRecord, holidays []Holiday) bool {
	if IsHoliday(date, holidays) != nil {
		return true
	}
	key := date.Key()
	for _, r := range records {
		if !r.Span().Contains(date) {
			continue
		}
		if r.Days[key].ConsumesDay() {
			return true
		}
	}
	return false
}
