/*
conflict.go - Submission validation and double-booking prevention

PURPOSE:
  Gates the leave-submission flow. A proposed booking is checked per calendar
  date against the employee's existing records and, for multi-entry batches,
  against the other entries submitted alongside it. Refusals are structured
  (reason + offending dates) and user-correctable, never system errors.

RULES (per date in the proposed range):
  1. Mandatory holidays never conflict - they are implicitly excluded from
     booking, and a span that happens to cover one must not be rejected for
     that alone.
  2. A date already tagged leave/WFH in an existing record conflicts.
  3. Within a batch, a date claimed by an earlier entry (submission order)
     conflicts for any later entry.
  4. Weekends never conflict - they are inert in the day map.
*/
package engine

import "sort"

// Submission is a proposed leave/WFH booking before it becomes a record.
type Submission struct {
	EmployeeID string
	StartDate  Date
	EndDate    Date
	Days       map[string]DayType
	Reason     string
}

// ValidateSubmission checks a single proposed booking against the employee's
// existing records. Returns nil if the submission may be saved, a sentinel
// error for missing selections, or a *ConflictError listing colliding dates.
func ValidateSubmission(s Submission, existing []LeaveRecord, holidays []Holiday) error {
	if err := checkComplete(s); err != nil {
		return err
	}
	if dates := conflictDates(s, existing, holidays, nil); len(dates) > 0 {
		return &ConflictError{EmployeeID: s.EmployeeID, Dates: dates, BatchIndex: -1}
	}
	return nil
}

// ValidateBatch checks every entry of a multi-entry submission in order.
// Earlier entries claim their dates against later ones, so reordering the
// batch moves the blame: if A precedes B on a shared date, B is flagged.
// All errors are returned so the user can fix the batch in one pass.
func ValidateBatch(batch []Submission, existing []LeaveRecord, holidays []Holiday) []error {
	var errs []error
	claimed := make(map[string]bool)

	for i, s := range batch {
		if err := checkComplete(s); err != nil {
			errs = append(errs, err)
			continue
		}
		if dates := conflictDates(s, existing, holidays, claimed); len(dates) > 0 {
			errs = append(errs, &ConflictError{EmployeeID: s.EmployeeID, Dates: dates, BatchIndex: i})
		}
		// Claim this entry's dates whether or not it conflicted, so a later
		// duplicate is still reported against the earlier entry.
		for key, tag := range s.Days {
			if tag.ConsumesDay() {
				claimed[s.EmployeeID+"|"+key] = true
			}
		}
	}
	return errs
}

func checkComplete(s Submission) error {
	if s.EmployeeID == "" {
		return ErrNoEmployee
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return ErrNoDateRange
	}
	if len(s.Days) == 0 {
		return ErrEmptyDayMap
	}
	return nil
}

// conflictDates returns the proposed dates that collide, sorted by date.
// claimed is the batch-local date set (employeeID|key), nil for single
// submissions. Existing records are only consulted for the same employee.
func conflictDates(s Submission, existing []LeaveRecord, holidays []Holiday, claimed map[string]bool) []Date {
	var dates []Date
	for key, tag := range s.Days {
		if !tag.ConsumesDay() {
			continue
		}
		date, err := ParseDateKey(key)
		if err != nil || IsWeekend(date) {
			continue
		}
		// Rule 1: a mandatory holiday inside the span is never a conflict
		// source, even if some existing record mistakenly tags it.
		if IsHoliday(date, holidays) != nil {
			continue
		}
		if claimed != nil && claimed[s.EmployeeID+"|"+key] {
			dates = append(dates, date)
			continue
		}
		if bookedInRecords(date, s.EmployeeID, existing) {
			dates = append(dates, date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// bookedInRecords is IsDateBooked restricted to one employee's records and
// without the holiday clause: rule 1 says a mandatory holiday inside the
// span must not reject the submission by itself.
func bookedInRecords(date Date, employeeID string, records []LeaveRecord) bool {
	key := date.Key()
	for _, r := range records {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.Span().Contains(date) && r.Days[key].ConsumesDay() {
			return true
		}
	}
	return false
}
