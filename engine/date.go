/*
Package engine implements the leave & attendance computation core.

PURPOSE:
  Pure, stateless calculation and validation logic over employee, leave-record
  and holiday data that has already been loaded into memory. The engine
  performs no I/O: callers hand it plain records and it returns plain results
  for the persistence and HTTP layers to act on.

FUNCTIONAL GROUPS:
  - Calendar predicates (calendar.go): holiday / weekend / booked-date checks
  - Proration calculator (proration.go): tenure-adjusted yearly allotments
  - Usage aggregator (usage.go): per-period leave/WFH tallies and balances
  - Conflict & validation rules (conflict.go): double-booking prevention
  - Attendance reporting (report.go): flat rows for tables and exports

DESIGN PRINCIPLES:
  1. Determinism: every function takes its inputs explicitly; no hidden
     "today", no caching, no ambient settings singleton.
  2. Precision: allotments and balances use decimal.Decimal, never float64.
  3. Defensiveness: malformed day-map entries or duplicate holidays degrade
     to "count what we can" instead of failing a whole report.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: a day-granular calendar date (the engine's only notion of time)
  - DateKey: the ISO YYYY-MM-DD string used as day-map key
  - Period: an inclusive date span with month/year/YTD constructors
*/
package engine

import "time"

// =============================================================================
// DATE - Day-granular calendar date
// =============================================================================

// DateKeyLayout is the wire format for day-map keys and stored dates.
const DateKeyLayout = "2006-01-02"

// Date is a calendar date with day granularity, always UTC.
// Day maps key their entries by Date.Key(); the zero Date is "no date".
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDateKey parses an ISO YYYY-MM-DD day-map key.
func ParseDateKey(key string) (Date, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// DateOf truncates an arbitrary time.Time to a Date (UTC calendar day).
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Key returns the ISO YYYY-MM-DD form used as day-map key.
func (d Date) Key() string    { return d.t.Format(DateKeyLayout) }
func (d Date) String() string { return d.Key() }

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// =============================================================================
// PERIOD - Inclusive date span for aggregation
// =============================================================================

// Period is an inclusive [Start, End] span of calendar days.
// Usage is always aggregated over a Period, never "as of now".
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within the period, bounds included.
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns every day of the period in order.
func (p Period) Days() []Date {
	var days []Date
	for cur := p.Start; !cur.After(p.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthPeriod is calendar month m of the given year.
func MonthPeriod(year int, m time.Month) Period {
	start := NewDate(year, m, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// YearPeriod is the full calendar year.
func YearPeriod(year int) Period {
	return Period{
		Start: NewDate(year, time.January, 1),
		End:   NewDate(year, time.December, 31),
	}
}

// YearToDatePeriod runs from January 1st through the END of the selected
// month, not through year-end. Dashboards use this for "so far this year"
// figures where a month is picked in the UI.
func YearToDatePeriod(year int, through time.Month) Period {
	return Period{
		Start: NewDate(year, time.January, 1),
		End:   MonthPeriod(year, through).End,
	}
}
