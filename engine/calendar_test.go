package engine_test

import (
	"testing"
	"time"

	"github.com/lumenhr/leave-engine/engine"
)

// =============================================================================
// TEST HELPERS (shared across the package's test files)
// =============================================================================

func date(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

func mandatory(id, name string, d engine.Date) engine.Holiday {
	return engine.Holiday{ID: id, Name: name, Date: d, Type: engine.HolidayMandatory}
}

func optional(id, name string, d engine.Date) engine.Holiday {
	return engine.Holiday{ID: id, Name: name, Date: d, Type: engine.HolidayOptional}
}

func record(employeeID string, start, end engine.Date, days map[string]engine.DayType) engine.LeaveRecord {
	return engine.LeaveRecord{
		ID:         "rec-" + employeeID + "-" + start.Key(),
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
	}
}

func holidays2024() []engine.Holiday {
	return []engine.Holiday{
		mandatory("h-xmas", "Christmas", date(2024, time.December, 25)),
		mandatory("h-newyear", "New Year", date(2024, time.January, 1)),
		optional("h-diwali", "Diwali", date(2024, time.November, 1)),
	}
}

// =============================================================================
// HOLIDAY LOOKUPS
// =============================================================================

func TestIsHoliday_MatchesMandatoryOnly(t *testing.T) {
	hs := holidays2024()

	if h := engine.IsHoliday(date(2024, time.December, 25), hs); h == nil || h.Name != "Christmas" {
		t.Fatalf("expected Christmas, got %v", h)
	}
	// Optional holidays are a different pool
	if h := engine.IsHoliday(date(2024, time.November, 1), hs); h != nil {
		t.Fatalf("optional holiday must not match IsHoliday, got %v", h)
	}
	if h := engine.IsOptionalHoliday(date(2024, time.November, 1), hs); h == nil || h.Name != "Diwali" {
		t.Fatalf("expected Diwali, got %v", h)
	}
	if h := engine.IsHoliday(date(2024, time.June, 10), hs); h != nil {
		t.Fatalf("plain day must not be a holiday, got %v", h)
	}
}

func TestIsHoliday_DuplicateDatesTakeFirstMatch(t *testing.T) {
	// GIVEN: a malformed set with two mandatory holidays on the same date
	// THEN: the first in set order wins, nothing fails
	d := date(2024, time.March, 8)
	hs := []engine.Holiday{
		mandatory("h-1", "First", d),
		mandatory("h-2", "Second", d),
	}

	h := engine.IsHoliday(d, hs)
	if h == nil || h.ID != "h-1" {
		t.Fatalf("expected first holiday to win, got %v", h)
	}
}

// =============================================================================
// WEEKEND PREDICATE
// =============================================================================

func TestIsWeekend(t *testing.T) {
	cases := []struct {
		d    engine.Date
		want bool
	}{
		{date(2024, time.January, 6), true},  // Saturday
		{date(2024, time.January, 7), true},  // Sunday
		{date(2024, time.January, 8), false}, // Monday
		{date(2024, time.January, 5), false}, // Friday
	}
	for _, c := range cases {
		if got := engine.IsWeekend(c.d); got != c.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", c.d, got, c.want)
		}
	}
}

// =============================================================================
// BOOKING PREDICATE
// =============================================================================

func TestIsDateBooked(t *testing.T) {
	hs := holidays2024()
	records := []engine.LeaveRecord{
		record("EMP-1", date(2024, time.March, 14), date(2024, time.March, 16), map[string]engine.DayType{
			"2024-03-14": engine.DayPresent,
			"2024-03-15": engine.DayLeave,
			"2024-03-16": engine.DayWFH,
		}),
	}

	// Tagged leave/WFH inside the span: booked
	if !engine.IsDateBooked(date(2024, time.March, 15), records, hs) {
		t.Error("leave-tagged date should be booked")
	}
	if !engine.IsDateBooked(date(2024, time.March, 16), records, hs) {
		t.Error("wfh-tagged date should be booked")
	}

	// A "present" tag does not count as booked
	if engine.IsDateBooked(date(2024, time.March, 14), records, hs) {
		t.Error("present-tagged date must not be booked")
	}

	// Untouched date: free
	if engine.IsDateBooked(date(2024, time.March, 20), records, hs) {
		t.Error("untouched date must not be booked")
	}
}

func TestIsDateBooked_MandatoryHolidayAlwaysBooked(t *testing.T) {
	// GIVEN: no leave record anywhere near Christmas
	// THEN: the date is still disabled for new submissions
	if !engine.IsDateBooked(date(2024, time.December, 25), nil, holidays2024()) {
		t.Error("mandatory holiday must always be booked")
	}
}

func TestCalendarPredicates_DoNotMutateInputs(t *testing.T) {
	hs := holidays2024()
	records := []engine.LeaveRecord{
		record("EMP-1", date(2024, time.May, 1), date(2024, time.May, 2), map[string]engine.DayType{
			"2024-05-01": engine.DayLeave,
		}),
	}

	for i := 0; i < 3; i++ {
		engine.IsDateBooked(date(2024, time.May, 1), records, hs)
		engine.IsHoliday(date(2024, time.December, 25), hs)
	}

	if len(records[0].Days) != 1 || records[0].Days["2024-05-01"] != engine.DayLeave {
		t.Error("predicates mutated the record day map")
	}
	if len(hs) != 3 {
		t.Error("predicates mutated the holiday set")
	}
}
