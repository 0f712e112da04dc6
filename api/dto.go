/*
dto.go - Request and response types for the HTTP API

PURPOSE:
  Decouples the engine's value types from the JSON contract. Dates travel as
  ISO YYYY-MM-DD strings, caps as whole-day integers on the way in and
  decimal strings on the way out (prorated caps can be fractional).

VALIDATION:
  Request structs carry go-playground/validator tags; handlers run them
  before touching the engine so malformed payloads fail with field-level
  messages rather than engine refusals.
*/
package api

import (
	"time"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/lumenhr/leave-engine/store"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	JoinDate    string `json:"join_date"`
	Consultant  bool   `json:"consultant"`
}

type EmployeeRequest struct {
	EmployeeID  string `json:"employee_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	JoinDate    string `json:"join_date" validate:"required,datetime=2006-01-02"`
	Consultant  bool   `json:"consultant"`
}

func employeeToDTO(e engine.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Name:        e.Name,
		Department:  e.Department,
		Designation: e.Designation,
		JoinDate:    e.JoinDate.Key(),
		Consultant:  e.Consultant,
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type HolidayRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=mandatory optional"`
	Description string `json:"description"`
}

func holidayToDTO(h engine.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:          h.ID,
		Date:        h.Date.Key(),
		Name:        h.Name,
		Type:        string(h.Type),
		Description: h.Description,
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsDTO struct {
	LeaveYearly           string    `json:"leave_yearly"`
	LeaveMonthly          string    `json:"leave_monthly"`
	WFHYearly             string    `json:"wfh_yearly"`
	WFHMonthly            string    `json:"wfh_monthly"`
	OptionalHolidayYearly string    `json:"optional_holiday_yearly"`
	UpdatedAt             time.Time `json:"updated_at,omitzero"`
	UpdatedBy             string    `json:"updated_by,omitempty"`
}

type SettingsRequest struct {
	LeaveYearly           int    `json:"leave_yearly" validate:"min=0"`
	LeaveMonthly          int    `json:"leave_monthly" validate:"min=0"`
	WFHYearly             int    `json:"wfh_yearly" validate:"min=0"`
	WFHMonthly            int    `json:"wfh_monthly" validate:"min=0"`
	OptionalHolidayYearly int    `json:"optional_holiday_yearly" validate:"min=0"`
	UpdatedBy             string `json:"updated_by"`
}

func settingsToDTO(s store.Settings) SettingsDTO {
	return SettingsDTO{
		LeaveYearly:           s.Policy.LeaveYearly.String(),
		LeaveMonthly:          s.Policy.LeaveMonthly.String(),
		WFHYearly:             s.Policy.WFHYearly.String(),
		WFHMonthly:            s.Policy.WFHMonthly.String(),
		OptionalHolidayYearly: s.Policy.OptionalHolidayYearly.String(),
		UpdatedAt:             s.UpdatedAt,
		UpdatedBy:             s.UpdatedBy,
	}
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

type ApprovalDTO struct {
	Approved   bool      `json:"approved"`
	ApprovedBy string    `json:"approved_by,omitempty"`
	ApprovedAt time.Time `json:"approved_at,omitzero"`
}

type LeaveRecordDTO struct {
	ID                    string            `json:"id"`
	EmployeeID            string            `json:"employee_id"`
	StartDate             string            `json:"start_date"`
	EndDate               string            `json:"end_date"`
	Days                  map[string]string `json:"days"`
	Reason                string            `json:"reason,omitempty"`
	OptionalHolidayLeaves int               `json:"optional_holiday_leaves"`
	Approval              *ApprovalDTO      `json:"approval,omitempty"`
}

type LeaveRequest struct {
	EmployeeID string            `json:"employee_id" validate:"required"`
	StartDate  string            `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string            `json:"end_date" validate:"required,datetime=2006-01-02"`
	Days       map[string]string `json:"days" validate:"required,min=1,dive,oneof=leave wfh present"`
	Reason     string            `json:"reason"`
}

type BatchLeaveRequest struct {
	Entries []LeaveRequest `json:"entries" validate:"required,min=1,dive"`
}

func leaveRecordToDTO(r engine.LeaveRecord) LeaveRecordDTO {
	days := make(map[string]string, len(r.Days))
	for k, v := range r.Days {
		days[k] = string(v)
	}
	dto := LeaveRecordDTO{
		ID:                    r.ID,
		EmployeeID:            r.EmployeeID,
		StartDate:             r.StartDate.Key(),
		EndDate:               r.EndDate.Key(),
		Days:                  days,
		Reason:                r.Reason,
		OptionalHolidayLeaves: r.OptionalHolidayLeaves,
	}
	if r.Approval != nil {
		dto.Approval = &ApprovalDTO{
			Approved:   r.Approval.Approved,
			ApprovedBy: r.Approval.ApprovedBy,
			ApprovedAt: r.Approval.ApprovedAt,
		}
	}
	return dto
}

// toSubmission converts a validated request. The date strings are already
// format-checked by the validator tags.
func (lr LeaveRequest) toSubmission() engine.Submission {
	start, _ := engine.ParseDateKey(lr.StartDate)
	end, _ := engine.ParseDateKey(lr.EndDate)
	days := make(map[string]engine.DayType, len(lr.Days))
	for k, v := range lr.Days {
		days[k] = engine.DayType(v)
	}
	return engine.Submission{
		EmployeeID: lr.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     lr.Reason,
	}
}

// =============================================================================
// SUMMARIES & REPORTS
// =============================================================================

type UsageSummaryDTO struct {
	PeriodStart           string `json:"period_start"`
	PeriodEnd             string `json:"period_end"`
	LeaveDays             int    `json:"leave_days"`
	WFHDays               int    `json:"wfh_days"`
	OptionalHolidayLeaves int    `json:"optional_holiday_leaves"`

	LeaveRemaining string `json:"leave_remaining"`
	WFHRemaining   string `json:"wfh_remaining"`
	LeaveOverLimit bool   `json:"leave_over_limit"`
	WFHOverLimit   bool   `json:"wfh_over_limit"`

	OptionalHolidayRemaining string `json:"optional_holiday_remaining"`
	OptionalHolidayOverLimit bool   `json:"optional_holiday_over_limit"`
}

func usageSummaryToDTO(s engine.UsageSummary) UsageSummaryDTO {
	return UsageSummaryDTO{
		PeriodStart:              s.Period.Start.Key(),
		PeriodEnd:                s.Period.End.Key(),
		LeaveDays:                s.Usage.LeaveDays,
		WFHDays:                  s.Usage.WFHDays,
		OptionalHolidayLeaves:    s.Usage.OptionalHolidayLeaves,
		LeaveRemaining:           s.LeaveRemaining.String(),
		WFHRemaining:             s.WFHRemaining.String(),
		LeaveOverLimit:           s.LeaveOverLimit,
		WFHOverLimit:             s.WFHOverLimit,
		OptionalHolidayRemaining: s.OptionalHolidayRemaining.String(),
		OptionalHolidayOverLimit: s.OptionalHolidayOverLimit,
	}
}

type AttendanceRowDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	LeaveDays    int    `json:"leave_days"`
	WFHDays      int    `json:"wfh_days"`
	Remark       string `json:"remark,omitempty"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform refusal envelope. Conflicts carry the
// offending dates; batch conflicts also carry the entry index.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Dates      []string `json:"dates,omitempty"`
	BatchIndex *int     `json:"batch_index,omitempty"`
}
