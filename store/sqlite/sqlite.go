/*
Package sqlite provides the SQLite-backed Store implementation.

PURPOSE:
  Persists employees, holidays, leave records, and the settings singleton.
  The same patterns apply to PostgreSQL in larger deployments - only minor
  SQL dialect differences.

KEY TABLES:
  employees:     one row per employee, business id unique, running
                 optional-holiday counter
  holidays:      company holiday set, UNIQUE(date) enforces the
                 one-holiday-per-date editing rule
  leave_records: one row per booking batch; the day map is a JSON column
                 because the engine treats it as an opaque date->tag mapping
  settings:      single-row policy document with audit metadata

INDEXES:
  idx_leave_records_employee: the by-employee fetch used on every
  dashboard and conflict check.

WAL MODE:
  Opened with WAL so report reads don't block submission writes.

OPTIONAL-HOLIDAY COUNTER:
  Every leave-record write adjusts employees.optional_holidays_consumed by
  engine.OptionalHolidayDelta inside the same SQL transaction, so the
  counter can never drift from the records.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/lumenhr/leave-engine/store"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		department TEXT,
		designation TEXT,
		join_date TEXT NOT NULL,
		consultant INTEGER NOT NULL DEFAULT 0,
		optional_holidays_consumed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days TEXT NOT NULL,
		reason TEXT,
		approved INTEGER,
		approved_by TEXT,
		approved_at TEXT,
		optional_holiday_leaves INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leave_records_employee
		ON leave_records(employee_id);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		leave_yearly TEXT NOT NULL,
		leave_monthly TEXT NOT NULL,
		wfh_yearly TEXT NOT NULL,
		wfh_monthly TEXT NOT NULL,
		optional_holiday_yearly TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		updated_by TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// =============================================================================
// EMPLOYEES
// =============================================================================

const employeeColumns = `id, employee_id, name, department, designation, join_date, consultant`

func scanEmployee(row interface{ Scan(...any) error }) (engine.Employee, error) {
	var (
		e          engine.Employee
		joinDate   string
		consultant int
	)
	if err := row.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Department, &e.Designation, &joinDate, &consultant); err != nil {
		return engine.Employee{}, err
	}
	d, err := engine.ParseDateKey(joinDate)
	if err != nil {
		return engine.Employee{}, fmt.Errorf("bad join date %q: %w", joinDate, err)
	}
	e.JoinDate = d
	e.Consultant = consultant != 0
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (engine.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return engine.Employee{}, store.ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, emp engine.Employee) (engine.Employee, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM employees WHERE employee_id = ?`, emp.EmployeeID).Scan(&exists)
	if err != nil {
		return engine.Employee{}, err
	}
	if exists > 0 {
		return engine.Employee{}, store.ErrEmployeeIDTaken
	}

	emp.ID = uuid.NewString()
	ts := now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (id, employee_id, name, department, designation, join_date, consultant, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID, emp.EmployeeID, emp.Name, emp.Department, emp.Designation,
		emp.JoinDate.Key(), boolToInt(emp.Consultant), ts, ts)
	if err != nil {
		return engine.Employee{}, err
	}
	return emp, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, emp engine.Employee) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET employee_id = ?, name = ?, department = ?, designation = ?, join_date = ?, consultant = ?, updated_at = ?
		WHERE id = ?`,
		emp.EmployeeID, emp.Name, emp.Department, emp.Designation,
		emp.JoinDate.Key(), boolToInt(emp.Consultant), now(), emp.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) OptionalHolidaysConsumed(ctx context.Context, employeeID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT optional_holidays_consumed FROM employees WHERE employee_id = ?`, employeeID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, store.ErrNotFound
	}
	return n, err
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) ListHolidays(ctx context.Context) ([]engine.Holiday, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, name, type, description FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.Holiday
	for rows.Next() {
		var (
			h       engine.Holiday
			dateKey string
			typ     string
		)
		if err := rows.Scan(&h.ID, &dateKey, &h.Name, &typ, &h.Description); err != nil {
			return nil, err
		}
		d, err := engine.ParseDateKey(dateKey)
		if err != nil {
			return nil, fmt.Errorf("bad holiday date %q: %w", dateKey, err)
		}
		h.Date = d
		h.Type = engine.HolidayType(typ)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) AddHoliday(ctx context.Context, h engine.Holiday) (engine.Holiday, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM holidays WHERE date = ?`, h.Date.Key()).Scan(&exists)
	if err != nil {
		return engine.Holiday{}, err
	}
	if exists > 0 {
		return engine.Holiday{}, engine.ErrDuplicateHolidayDate
	}

	h.ID = uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.Date.Key(), h.Name, string(h.Type), h.Description, now())
	if err != nil {
		return engine.Holiday{}, err
	}
	return h, nil
}

func (s *Store) UpdateHoliday(ctx context.Context, h engine.Holiday) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM holidays WHERE date = ? AND id != ?`, h.Date.Key(), h.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return engine.ErrDuplicateHolidayDate
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE holidays SET date = ?, name = ?, type = ?, description = ? WHERE id = ?`,
		h.Date.Key(), h.Name, string(h.Type), h.Description, h.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

const leaveColumns = `id, employee_id, start_date, end_date, days, reason, approved, approved_by, approved_at, optional_holiday_leaves`

func scanLeaveRecord(row interface{ Scan(...any) error }) (engine.LeaveRecord, error) {
	var (
		r          engine.LeaveRecord
		start, end string
		daysJSON   string
		approved   sql.NullInt64
		approvedBy sql.NullString
		approvedAt sql.NullString
	)
	err := row.Scan(&r.ID, &r.EmployeeID, &start, &end, &daysJSON,
		&r.Reason, &approved, &approvedBy, &approvedAt, &r.OptionalHolidayLeaves)
	if err != nil {
		return engine.LeaveRecord{}, err
	}

	if r.StartDate, err = engine.ParseDateKey(start); err != nil {
		return engine.LeaveRecord{}, fmt.Errorf("bad start date %q: %w", start, err)
	}
	if r.EndDate, err = engine.ParseDateKey(end); err != nil {
		return engine.LeaveRecord{}, fmt.Errorf("bad end date %q: %w", end, err)
	}
	if err := json.Unmarshal([]byte(daysJSON), &r.Days); err != nil {
		return engine.LeaveRecord{}, fmt.Errorf("bad day map: %w", err)
	}

	if approved.Valid {
		a := &engine.Approval{Approved: approved.Int64 != 0}
		if approvedBy.Valid {
			a.ApprovedBy = approvedBy.String
		}
		if approvedAt.Valid {
			if t, err := time.Parse(time.RFC3339, approvedAt.String); err == nil {
				a.ApprovedAt = t
			}
		}
		r.Approval = a
	}
	return r, nil
}

func (s *Store) ListLeaveRecords(ctx context.Context) ([]engine.LeaveRecord, error) {
	return s.queryLeaveRecords(ctx,
		`SELECT `+leaveColumns+` FROM leave_records ORDER BY start_date, id`)
}

func (s *Store) LeaveRecordsByEmployee(ctx context.Context, employeeID string) ([]engine.LeaveRecord, error) {
	return s.queryLeaveRecords(ctx,
		`SELECT `+leaveColumns+` FROM leave_records WHERE employee_id = ? ORDER BY start_date, id`,
		employeeID)
}

func (s *Store) queryLeaveRecords(ctx context.Context, query string, args ...any) ([]engine.LeaveRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.LeaveRecord
	for rows.Next() {
		r, err := scanLeaveRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetLeaveRecord(ctx context.Context, id string) (engine.LeaveRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaveColumns+` FROM leave_records WHERE id = ?`, id)
	r, err := scanLeaveRecord(row)
	if err == sql.ErrNoRows {
		return engine.LeaveRecord{}, store.ErrNotFound
	}
	return r, err
}

func (s *Store) CreateLeaveRecord(ctx context.Context, r engine.LeaveRecord) (engine.LeaveRecord, error) {
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return engine.LeaveRecord{}, err
	}
	r.ID = uuid.NewString()
	r.OptionalHolidayLeaves = engine.CountOptionalHolidayLeaves(r, holidays)

	daysJSON, err := json.Marshal(r.Days)
	if err != nil {
		return engine.LeaveRecord{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return engine.LeaveRecord{}, err
	}
	defer tx.Rollback()

	ts := now()
	approved, approvedBy, approvedAt := approvalColumns(r.Approval)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO leave_records (id, employee_id, start_date, end_date, days, reason, approved, approved_by, approved_at, optional_holiday_leaves, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EmployeeID, r.StartDate.Key(), r.EndDate.Key(), string(daysJSON),
		r.Reason, approved, approvedBy, approvedAt, r.OptionalHolidayLeaves, ts, ts)
	if err != nil {
		return engine.LeaveRecord{}, err
	}

	if err := adjustConsumed(ctx, tx, r.EmployeeID, engine.OptionalHolidayDelta(nil, &r, holidays)); err != nil {
		return engine.LeaveRecord{}, err
	}
	if err := tx.Commit(); err != nil {
		return engine.LeaveRecord{}, err
	}
	return r, nil
}

func (s *Store) UpdateLeaveRecord(ctx context.Context, r engine.LeaveRecord) error {
	before, err := s.GetLeaveRecord(ctx, r.ID)
	if err != nil {
		return err
	}
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return err
	}
	r.OptionalHolidayLeaves = engine.CountOptionalHolidayLeaves(r, holidays)

	daysJSON, err := json.Marshal(r.Days)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	approved, approvedBy, approvedAt := approvalColumns(r.Approval)
	res, err := tx.ExecContext(ctx, `
		UPDATE leave_records
		SET employee_id = ?, start_date = ?, end_date = ?, days = ?, reason = ?,
		    approved = ?, approved_by = ?, approved_at = ?, optional_holiday_leaves = ?, updated_at = ?
		WHERE id = ?`,
		r.EmployeeID, r.StartDate.Key(), r.EndDate.Key(), string(daysJSON), r.Reason,
		approved, approvedBy, approvedAt, r.OptionalHolidayLeaves, now(), r.ID)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if err := adjustConsumed(ctx, tx, r.EmployeeID, engine.OptionalHolidayDelta(&before, &r, holidays)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeleteLeaveRecord(ctx context.Context, id string) error {
	before, err := s.GetLeaveRecord(ctx, id)
	if err != nil {
		return err
	}
	holidays, err := s.ListHolidays(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM leave_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if err := adjustConsumed(ctx, tx, before.EmployeeID, engine.OptionalHolidayDelta(&before, nil, holidays)); err != nil {
		return err
	}
	return tx.Commit()
}

func adjustConsumed(ctx context.Context, tx *sql.Tx, employeeID string, delta int) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE employees
		SET optional_holidays_consumed = optional_holidays_consumed + ?
		WHERE employee_id = ?`,
		delta, employeeID)
	return err
}

func approvalColumns(a *engine.Approval) (approved, approvedBy, approvedAt any) {
	if a == nil {
		return nil, nil, nil
	}
	return boolToInt(a.Approved), a.ApprovedBy, a.ApprovedAt.UTC().Format(time.RFC3339)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (store.Settings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT leave_yearly, leave_monthly, wfh_yearly, wfh_monthly, optional_holiday_yearly, updated_at, updated_by
		FROM settings WHERE id = 1`)

	var (
		ly, lm, wy, wm, oy string
		updatedAt          string
		updatedBy          sql.NullString
	)
	err := row.Scan(&ly, &lm, &wy, &wm, &oy, &updatedAt, &updatedBy)
	if err == sql.ErrNoRows {
		// No settings saved yet: zero policy, callers treat it as unset.
		return store.Settings{}, nil
	}
	if err != nil {
		return store.Settings{}, err
	}

	policy := engine.PolicySnapshot{}
	if policy.LeaveYearly, err = decimal.NewFromString(ly); err != nil {
		return store.Settings{}, err
	}
	if policy.LeaveMonthly, err = decimal.NewFromString(lm); err != nil {
		return store.Settings{}, err
	}
	if policy.WFHYearly, err = decimal.NewFromString(wy); err != nil {
		return store.Settings{}, err
	}
	if policy.WFHMonthly, err = decimal.NewFromString(wm); err != nil {
		return store.Settings{}, err
	}
	if policy.OptionalHolidayYearly, err = decimal.NewFromString(oy); err != nil {
		return store.Settings{}, err
	}

	out := store.Settings{Policy: policy}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		out.UpdatedAt = t
	}
	if updatedBy.Valid {
		out.UpdatedBy = updatedBy.String
	}
	return out, nil
}

func (s *Store) UpdateSettings(ctx context.Context, policy engine.PolicySnapshot, author string) (store.Settings, error) {
	ts := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, leave_yearly, leave_monthly, wfh_yearly, wfh_monthly, optional_holiday_yearly, updated_at, updated_by)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_yearly = excluded.leave_yearly,
			leave_monthly = excluded.leave_monthly,
			wfh_yearly = excluded.wfh_yearly,
			wfh_monthly = excluded.wfh_monthly,
			optional_holiday_yearly = excluded.optional_holiday_yearly,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		policy.LeaveYearly.String(), policy.LeaveMonthly.String(),
		policy.WFHYearly.String(), policy.WFHMonthly.String(),
		policy.OptionalHolidayYearly.String(),
		ts.Format(time.RFC3339), author)
	if err != nil {
		return store.Settings{}, err
	}
	return store.Settings{Policy: policy, UpdatedAt: ts, UpdatedBy: author}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
