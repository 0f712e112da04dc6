/*
report.go - Attendance report rows

PURPOSE:
  Flattens per-employee usage into rows suitable for the attendance table
  and its CSV/XLSX downloads. Counting follows the same rules as the usage
  aggregator: one count per unique date, weekends and mandatory holidays
  excluded even when a day map accidentally contains them.
*/
package engine

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AttendanceRow is one employee's line in the attendance sheet.
type AttendanceRow struct {
	EmployeeID   string
	EmployeeName string
	LeaveDays    int
	WFHDays      int
	Remark       string
}

// BuildAttendanceRows computes the roster-wide attendance sheet for a period.
// recordsByEmployee is keyed by the employee's business identifier. Rows come
// back sorted by employee name for stable table and export ordering.
//
// The remark column flags employees over their prorated caps for the period's
// year; it stays empty otherwise.
func BuildAttendanceRows(employees []Employee, recordsByEmployee map[string][]LeaveRecord,
	holidays []Holiday, period Period, policy PolicySnapshot) []AttendanceRow {

	rows := make([]AttendanceRow, 0, len(employees))
	for _, emp := range employees {
		u := AggregateUsage(recordsByEmployee[emp.EmployeeID], period, holidays)
		row := AttendanceRow{
			EmployeeID:   emp.EmployeeID,
			EmployeeName: emp.Name,
			LeaveDays:    u.LeaveDays,
			WFHDays:      u.WFHDays,
			Remark:       overLimitRemark(emp, u, period, policy),
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EmployeeName != rows[j].EmployeeName {
			return rows[i].EmployeeName < rows[j].EmployeeName
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows
}

func overLimitRemark(emp Employee, u Usage, period Period, policy PolicySnapshot) string {
	a := Prorate(emp.JoinDate, period.Start.Year(), policy)

	// A single-month sheet is judged against the monthly caps, anything
	// longer against the prorated yearly caps.
	leaveCap, wfhCap := a.LeaveYearly, a.WFHYearly
	if period.Start.Year() == period.End.Year() && period.Start.Month() == period.End.Month() {
		leaveCap, wfhCap = a.LeaveMonthly, a.WFHMonthly
	}

	var notes []string
	if decimal.NewFromInt(int64(u.LeaveDays)).GreaterThan(leaveCap) {
		notes = append(notes, "leave over limit")
	}
	if decimal.NewFromInt(int64(u.WFHDays)).GreaterThan(wfhCap) {
		notes = append(notes, "wfh over limit")
	}
	return strings.Join(notes, "; ")
}
