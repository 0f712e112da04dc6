package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/lumenhr/leave-engine/export"
)

func sampleRows() []engine.AttendanceRow {
	return []engine.AttendanceRow{
		{EmployeeID: "EMP-001", EmployeeName: "Asha Rao", LeaveDays: 2, WFHDays: 1},
		{EmployeeID: "EMP-002", EmployeeName: "Burak \"B\" Demir, Jr.", LeaveDays: 0, WFHDays: 3, Remark: "wfh over limit"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Employee ID", "Employee Name", "Leave Days", "WFH Days", "Remark"}, records[0])
	assert.Equal(t, []string{"EMP-001", "Asha Rao", "2", "1", ""}, records[1])
	// Quoting survives the round trip
	assert.Equal(t, `Burak "B" Demir, Jr.`, records[2][1])
	assert.Equal(t, "wfh over limit", records[2][4])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	period := engine.MonthPeriod(2024, time.March)
	require.NoError(t, export.WriteXLSX(&buf, sampleRows(), period))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Attendance", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", name)

	leave, err := f.GetCellValue("Attendance", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2", leave)

	remark, err := f.GetCellValue("Attendance", "E3")
	require.NoError(t, err)
	assert.Equal(t, "wfh over limit", remark)
}
