/*
handlers.go - HTTP handlers for the leave & attendance API

PURPOSE:
  Thin glue between HTTP and the engine. Handlers load records through the
  store, call the pure engine functions, and translate typed refusals into
  status codes:

    validator / engine validation errors  -> 422 with detail
    store.ErrNotFound                     -> 404
    anything else                         -> 500 (logged, not leaked)

  The engine never sees an http.Request and the store never sees a DTO.
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/lumenhr/leave-engine/export"
	"github.com/lumenhr/leave-engine/store"
)

type Handler struct {
	store    store.Store
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(s store.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:    s,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, employeeToDTO(e))
	}
	h.respond(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	join, _ := engine.ParseDateKey(req.JoinDate)
	created, err := h.store.CreateEmployee(r.Context(), engine.Employee{
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Department:  req.Department,
		Designation: req.Designation,
		JoinDate:    join,
		Consultant:  req.Consultant,
	})
	if errors.Is(err, store.ErrEmployeeIDTaken) {
		h.refuse(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, employeeToDTO(created))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, employeeToDTO(emp))
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	join, _ := engine.ParseDateKey(req.JoinDate)
	err := h.store.UpdateEmployee(r.Context(), engine.Employee{
		ID:          chi.URLParam(r, "id"),
		EmployeeID:  req.EmployeeID,
		Name:        req.Name,
		Department:  req.Department,
		Designation: req.Designation,
		JoinDate:    join,
		Consultant:  req.Consultant,
	})
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEmployeeSummary serves the dashboard figures for one employee.
//
// Query parameters:
//
//	year   target year (default: current)
//	month  1-12; with scope=month or scope=ytd
//	scope  "year" (default), "ytd", or "month"
func (h *Handler) GetEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	emp, err := h.store.GetEmployee(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	year, month, ok := h.yearMonthParams(w, r)
	if !ok {
		return
	}

	records, err := h.store.LeaveRecordsByEmployee(ctx, emp.EmployeeID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	holidays, err := h.store.ListHolidays(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	var summary engine.UsageSummary
	switch r.URL.Query().Get("scope") {
	case "month":
		summary = engine.SummarizeMonth(emp, records, year, month, settings.Policy, holidays)
	case "ytd":
		summary = engine.SummarizeYearToDate(emp, records, year, month, settings.Policy, holidays)
	default:
		summary = engine.SummarizeYear(emp, records, year, settings.Policy, holidays)
	}
	h.respond(w, http.StatusOK, usageSummaryToDTO(summary))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.store.ListHolidays(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hd := range holidays {
		dtos = append(dtos, holidayToDTO(hd))
	}
	h.respond(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, _ := engine.ParseDateKey(req.Date)
	created, err := h.store.AddHoliday(r.Context(), engine.Holiday{
		Date:        date,
		Name:        req.Name,
		Type:        engine.HolidayType(req.Type),
		Description: req.Description,
	})
	if errors.Is(err, engine.ErrDuplicateHolidayDate) {
		h.refuse(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Dates: []string{req.Date}})
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, holidayToDTO(created))
}

func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, _ := engine.ParseDateKey(req.Date)
	err := h.store.UpdateHoliday(r.Context(), engine.Holiday{
		ID:          chi.URLParam(r, "id"),
		Date:        date,
		Name:        req.Name,
		Type:        engine.HolidayType(req.Type),
		Description: req.Description,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.notFound(w)
	case errors.Is(err, engine.ErrDuplicateHolidayDate):
		h.refuse(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Dates: []string{req.Date}})
	case err != nil:
		h.serverError(w, r, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteHoliday(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, settingsToDTO(settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !h.decode(w, r, &req) {
		return
	}
	policy := engine.NewPolicySnapshot(req.LeaveYearly, req.LeaveMonthly,
		req.WFHYearly, req.WFHMonthly, req.OptionalHolidayYearly)
	saved, err := h.store.UpdateSettings(r.Context(), policy, req.UpdatedBy)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, settingsToDTO(saved))
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

func (h *Handler) ListLeaveRecords(w http.ResponseWriter, r *http.Request) {
	var (
		records []engine.LeaveRecord
		err     error
	)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		records, err = h.store.LeaveRecordsByEmployee(r.Context(), employeeID)
	} else {
		records, err = h.store.ListLeaveRecords(r.Context())
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	dtos := make([]LeaveRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, leaveRecordToDTO(rec))
	}
	h.respond(w, http.StatusOK, dtos)
}

func (h *Handler) GetLeaveRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetLeaveRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, leaveRecordToDTO(rec))
}

// CreateLeaveRecord gates the save behind the conflict rules: the proposed
// day map is validated against the employee's existing records before
// anything is written.
func (h *Handler) CreateLeaveRecord(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	sub := req.toSubmission()
	existing, err := h.store.LeaveRecordsByEmployee(ctx, sub.EmployeeID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	holidays, err := h.store.ListHolidays(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := engine.ValidateSubmission(sub, existing, holidays); err != nil {
		h.refuseValidation(w, err)
		return
	}

	created, err := h.store.CreateLeaveRecord(ctx, engine.LeaveRecord{
		EmployeeID: sub.EmployeeID,
		StartDate:  sub.StartDate,
		EndDate:    sub.EndDate,
		Days:       sub.Days,
		Reason:     sub.Reason,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, leaveRecordToDTO(created))
}

// SubmitLeaveBatch validates and saves a multi-entry submission. The batch
// is all-or-nothing: any conflict or incomplete entry refuses the whole
// request with every problem listed.
func (h *Handler) SubmitLeaveBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchLeaveRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	subs := make([]engine.Submission, len(req.Entries))
	for i, entry := range req.Entries {
		subs[i] = entry.toSubmission()
	}

	// Existing records across every employee in the batch
	var existing []engine.LeaveRecord
	seen := make(map[string]bool)
	for _, sub := range subs {
		if seen[sub.EmployeeID] {
			continue
		}
		seen[sub.EmployeeID] = true
		records, err := h.store.LeaveRecordsByEmployee(ctx, sub.EmployeeID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		existing = append(existing, records...)
	}
	holidays, err := h.store.ListHolidays(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if errs := engine.ValidateBatch(subs, existing, holidays); len(errs) > 0 {
		h.refuse(w, http.StatusUnprocessableEntity, batchErrorResponses(errs))
		return
	}

	created := make([]LeaveRecordDTO, 0, len(subs))
	for _, sub := range subs {
		rec, err := h.store.CreateLeaveRecord(ctx, engine.LeaveRecord{
			EmployeeID: sub.EmployeeID,
			StartDate:  sub.StartDate,
			EndDate:    sub.EndDate,
			Days:       sub.Days,
			Reason:     sub.Reason,
		})
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		created = append(created, leaveRecordToDTO(rec))
	}
	h.respond(w, http.StatusCreated, created)
}

// UpdateLeaveRecord re-runs conflict validation with the record under edit
// excluded from the existing set, so a record never conflicts with itself.
func (h *Handler) UpdateLeaveRecord(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	current, err := h.store.GetLeaveRecord(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	sub := req.toSubmission()
	all, err := h.store.LeaveRecordsByEmployee(ctx, sub.EmployeeID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	existing := all[:0:0]
	for _, rec := range all {
		if rec.ID != current.ID {
			existing = append(existing, rec)
		}
	}
	holidays, err := h.store.ListHolidays(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	if err := engine.ValidateSubmission(sub, existing, holidays); err != nil {
		h.refuseValidation(w, err)
		return
	}

	updated := engine.LeaveRecord{
		ID:         current.ID,
		EmployeeID: sub.EmployeeID,
		StartDate:  sub.StartDate,
		EndDate:    sub.EndDate,
		Days:       sub.Days,
		Reason:     sub.Reason,
		Approval:   current.Approval,
	}
	if err := h.store.UpdateLeaveRecord(ctx, updated); err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteLeaveRecord(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteLeaveRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ATTENDANCE REPORT
// =============================================================================

// GetAttendanceReport serves the roster-wide attendance sheet.
//
// Query parameters:
//
//	year    target year (default: current)
//	month   1-12; omitted means the full year
//	format  "json" (default), "csv", or "xlsx"
func (h *Handler) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, month, ok := h.yearMonthParams(w, r)
	if !ok {
		return
	}
	period := engine.YearPeriod(year)
	label := strconv.Itoa(year)
	if r.URL.Query().Get("month") != "" {
		period = engine.MonthPeriod(year, month)
		label = fmt.Sprintf("%d-%02d", year, int(month))
	}

	employees, err := h.store.ListEmployees(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	holidays, err := h.store.ListHolidays(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	recordsByEmployee := make(map[string][]engine.LeaveRecord, len(employees))
	for _, emp := range employees {
		records, err := h.store.LeaveRecordsByEmployee(ctx, emp.EmployeeID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		recordsByEmployee[emp.EmployeeID] = records
	}

	rows := engine.BuildAttendanceRows(employees, recordsByEmployee, holidays, period, settings.Policy)

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-%s.csv", label))
		if err := export.WriteCSV(w, rows); err != nil {
			h.logger.Error("csv export failed", slog.String("error", err.Error()))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-%s.xlsx", label))
		if err := export.WriteXLSX(w, rows, period); err != nil {
			h.logger.Error("xlsx export failed", slog.String("error", err.Error()))
		}
	default:
		dtos := make([]AttendanceRowDTO, 0, len(rows))
		for _, row := range rows {
			dtos = append(dtos, AttendanceRowDTO(row))
		}
		h.respond(w, http.StatusOK, dtos)
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.refuse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.refuse(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (h *Handler) refuseValidation(w http.ResponseWriter, err error) {
	var conflict *engine.ConflictError
	if errors.As(err, &conflict) {
		h.refuse(w, http.StatusUnprocessableEntity, conflictResponse(conflict))
		return
	}
	h.refuse(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
}

func conflictResponse(conflict *engine.ConflictError) ErrorResponse {
	resp := ErrorResponse{Error: "dates already booked"}
	for _, d := range conflict.Dates {
		resp.Dates = append(resp.Dates, d.Key())
	}
	if conflict.BatchIndex >= 0 {
		idx := conflict.BatchIndex
		resp.BatchIndex = &idx
	}
	return resp
}

func batchErrorResponses(errs []error) []ErrorResponse {
	out := make([]ErrorResponse, 0, len(errs))
	for _, err := range errs {
		var conflict *engine.ConflictError
		if errors.As(err, &conflict) {
			out = append(out, conflictResponse(conflict))
			continue
		}
		out = append(out, ErrorResponse{Error: err.Error()})
	}
	return out
}

// yearMonthParams parses the year/month query parameters, defaulting to the
// current UTC year and January when absent.
func (h *Handler) yearMonthParams(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year := time.Now().UTC().Year()
	month := time.January

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			h.refuse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid year"})
			return 0, 0, false
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			h.refuse(w, http.StatusBadRequest, ErrorResponse{Error: "invalid month"})
			return 0, 0, false
		}
		month = time.Month(m)
	}
	return year, month, true
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response", slog.String("error", err.Error()))
	}
}

func (h *Handler) refuse(w http.ResponseWriter, status int, body any) {
	h.respond(w, status, body)
}

func (h *Handler) notFound(w http.ResponseWriter) {
	h.respond(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	h.respond(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
