/*
usage.go - Per-period leave/WFH aggregation

PURPOSE:
  Walks an employee's leave records and counts leave and WFH days inside a
  reporting period. Each unique calendar date counts at most once no matter
  how many records reference it: the conflict rules should make duplicates
  impossible, but the aggregator must not double-count when they slip
  through anyway (defensive deduplication).

ALGORITHM:
  Fold every in-period day-map entry into a single date->tag map. On key
  collision the later record wins (last-write-wins in input list order, the
  only ordering guarantee the engine needs). Then tally by tag, skipping
  non-working days.

COUNTING RULES:
  - Weekends never count, whatever the day map says.
  - Mandatory holidays never count as leave or WFH; a record whose day map
    accidentally covers one is a data anomaly, tolerated and excluded.
  - Malformed day-map keys are skipped, not fatal: one bad record must not
    break a whole dashboard.

BALANCES:
  Remaining = effective cap (proration.go) - tallied usage. A negative
  remaining flags the over-limit condition.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// USAGE - Raw per-period tallies
// =============================================================================

// Usage is the deduplicated count of consumed days within a period.
type Usage struct {
	LeaveDays int
	WFHDays   int

	// OptionalHolidayLeaves counts the subset of LeaveDays that fell on an
	// optional holiday (the separate allowance pool).
	OptionalHolidayLeaves int
}

// AggregateUsage tallies leave and WFH days across records for the period.
// Feeding the same record twice yields the same counts as feeding it once.
func AggregateUsage(records []LeaveRecord, period Period, holidays []Holiday) Usage {
	// date key -> tag, later records overwrite earlier ones
	claimed := make(map[string]DayType)
	for _, r := range records {
		for key, tag := range r.Days {
			if !tag.ConsumesDay() {
				continue
			}
			date, err := ParseDateKey(key)
			if err != nil || !period.Contains(date) {
				continue
			}
			claimed[key] = tag
		}
	}

	var u Usage
	for key, tag := range claimed {
		date, _ := ParseDateKey(key)
		if !IsWorkingDay(date, holidays) {
			continue
		}
		switch tag {
		case DayLeave:
			u.LeaveDays++
			if IsOptionalHoliday(date, holidays) != nil {
				u.OptionalHolidayLeaves++
			}
		case DayWFH:
			u.WFHDays++
		}
	}
	return u
}

// ShouldCountAsLeave reports whether a day-map entry contributes to leave
// tallies: tagged leave and falling on a working day. Report generation uses
// this to exclude weekend and mandatory-holiday dates that a day map
// accidentally contains.
func ShouldCountAsLeave(date Date, tag DayType, holidays []Holiday) bool {
	return tag == DayLeave && IsWorkingDay(date, holidays)
}

// =============================================================================
// USAGE SUMMARY - Tallies against effective caps
// =============================================================================

// UsageSummary pairs a period's tallies with the remaining balances against
// the caps that govern that period.
type UsageSummary struct {
	Period Period
	Usage  Usage

	LeaveRemaining decimal.Decimal
	WFHRemaining   decimal.Decimal

	LeaveOverLimit bool
	WFHOverLimit   bool

	OptionalHolidayRemaining decimal.Decimal
	OptionalHolidayOverLimit bool
}

func summarize(records []LeaveRecord, period Period, holidays []Holiday,
	leaveCap, wfhCap, optionalCap decimal.Decimal) UsageSummary {

	u := AggregateUsage(records, period, holidays)
	s := UsageSummary{
		Period:                   period,
		Usage:                    u,
		LeaveRemaining:           leaveCap.Sub(decimal.NewFromInt(int64(u.LeaveDays))),
		WFHRemaining:             wfhCap.Sub(decimal.NewFromInt(int64(u.WFHDays))),
		OptionalHolidayRemaining: optionalCap.Sub(decimal.NewFromInt(int64(u.OptionalHolidayLeaves))),
	}
	s.LeaveOverLimit = s.LeaveRemaining.IsNegative()
	s.WFHOverLimit = s.WFHRemaining.IsNegative()
	s.OptionalHolidayOverLimit = optionalCap.IsPositive() && s.OptionalHolidayRemaining.IsNegative()
	return s
}

// SummarizeYear computes full-year usage against the employee's prorated
// yearly allotment.
func SummarizeYear(employee Employee, records []LeaveRecord, year int,
	policy PolicySnapshot, holidays []Holiday) UsageSummary {

	a := Prorate(employee.JoinDate, year, policy)
	return summarize(records, YearPeriod(year), holidays,
		a.LeaveYearly, a.WFHYearly, a.OptionalHolidayYearly)
}

// SummarizeYearToDate computes usage from January 1st through the end of the
// selected month, still against the prorated yearly allotment.
func SummarizeYearToDate(employee Employee, records []LeaveRecord, year int,
	through time.Month, policy PolicySnapshot, holidays []Holiday) UsageSummary {

	a := Prorate(employee.JoinDate, year, policy)
	return summarize(records, YearToDatePeriod(year, through), holidays,
		a.LeaveYearly, a.WFHYearly, a.OptionalHolidayYearly)
}

// SummarizeMonth computes one calendar month's usage against the monthly
// caps, which are never prorated.
func SummarizeMonth(employee Employee, records []LeaveRecord, year int,
	month time.Month, policy PolicySnapshot, holidays []Holiday) UsageSummary {

	a := Prorate(employee.JoinDate, year, policy)
	return summarize(records, MonthPeriod(year, month), holidays,
		a.LeaveMonthly, a.WFHMonthly, a.OptionalHolidayYearly)
}

// SummarizeRange computes usage over an arbitrary period against explicit
// caps supplied by the caller.
func SummarizeRange(records []LeaveRecord, period Period, holidays []Holiday,
	leaveCap, wfhCap decimal.Decimal) UsageSummary {
	return summarize(records, period, holidays, leaveCap, wfhCap, decimal.Zero)
}
