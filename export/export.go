/*
Package export serializes attendance report rows for download.

Two formats: CSV for the plain report download and XLSX for the formatted
attendance sheet. Both take the rows the engine already computed; no
recalculation happens here.
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/lumenhr/leave-engine/engine"
)

var header = []string{"Employee ID", "Employee Name", "Leave Days", "WFH Days", "Remark"}

// WriteCSV writes the attendance sheet as CSV with a header row.
func WriteCSV(w io.Writer, rows []engine.AttendanceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.EmployeeID,
			row.EmployeeName,
			fmt.Sprint(row.LeaveDays),
			fmt.Sprint(row.WFHDays),
			row.Remark,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the attendance sheet as a single-sheet workbook named
// after the report period.
func WriteXLSX(w io.Writer, rows []engine.AttendanceRow, period engine.Period) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []any{row.EmployeeID, row.EmployeeName, row.LeaveDays, row.WFHDays, row.Remark}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	// Period note below the table for auditability of downloads
	note, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, note, "Period: "+period.String()); err != nil {
		return err
	}

	return f.Write(w)
}
