/*
optional.go - Optional-holiday consumption accounting

PURPOSE:
  Optional holidays are a separate allowance pool. A record consumes one
  unit for each day-map entry tagged leave that coincides with an optional
  holiday; a WFH tag on the same date consumes nothing. The persistence
  layer stores the count on the record and must compensate when a record is
  edited, retagged, or deleted - the engine computes the numbers, the store
  applies them.
*/
package engine

// CountOptionalHolidayLeaves counts the record's day-map entries that are
// tagged leave and fall on an optional holiday. Computed at write time and
// stored as LeaveRecord.OptionalHolidayLeaves.
func CountOptionalHolidayLeaves(r LeaveRecord, holidays []Holiday) int {
	count := 0
	for key, tag := range r.Days {
		if tag != DayLeave {
			continue
		}
		date, err := ParseDateKey(key)
		if err != nil {
			continue
		}
		if IsOptionalHoliday(date, holidays) != nil {
			count++
		}
	}
	return count
}

// OptionalHolidayDelta is the compensating adjustment to an employee's
// consumed-optional-holiday counter when a record changes. Pass nil for
// before on create and nil for after on delete. Positive means more
// consumed, negative means the employee gets allowance back.
func OptionalHolidayDelta(before, after *LeaveRecord, holidays []Holiday) int {
	var prev, next int
	if before != nil {
		prev = CountOptionalHolidayLeaves(*before, holidays)
	}
	if after != nil {
		next = CountOptionalHolidayLeaves(*after, holidays)
	}
	return next - prev
}
