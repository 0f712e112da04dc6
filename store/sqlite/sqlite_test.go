package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/lumenhr/leave-engine/store"
	"github.com/lumenhr/leave-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateEmployee(ctx, engine.Employee{
		EmployeeID:  "EMP-001",
		Name:        "Asha Rao",
		Department:  "Engineering",
		Designation: "Developer",
		JoinDate:    date(2023, time.March, 6),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "2023-03-06", got.JoinDate.Key())

	// Business id is unique
	_, err = s.CreateEmployee(ctx, engine.Employee{EmployeeID: "EMP-001", Name: "Dup", JoinDate: date(2024, time.January, 1)})
	assert.ErrorIs(t, err, store.ErrEmployeeIDTaken)

	got.Department = "Platform"
	require.NoError(t, s.UpdateEmployee(ctx, got))

	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Platform", list[0].Department)

	require.NoError(t, s.DeleteEmployee(ctx, created.ID))
	_, err = s.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidayDuplicateDateRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	xmas := date(2024, time.December, 25)
	_, err := s.AddHoliday(ctx, engine.Holiday{Date: xmas, Name: "Christmas", Type: engine.HolidayMandatory})
	require.NoError(t, err)

	_, err = s.AddHoliday(ctx, engine.Holiday{Date: xmas, Name: "Also Christmas", Type: engine.HolidayOptional})
	assert.ErrorIs(t, err, engine.ErrDuplicateHolidayDate)

	// Updating onto a taken date is rejected too
	other, err := s.AddHoliday(ctx, engine.Holiday{Date: date(2024, time.December, 26), Name: "Boxing Day", Type: engine.HolidayOptional})
	require.NoError(t, err)
	other.Date = xmas
	assert.ErrorIs(t, s.UpdateHoliday(ctx, other), engine.ErrDuplicateHolidayDate)
}

// =============================================================================
// LEAVE RECORDS + OPTIONAL-HOLIDAY COUNTER
// =============================================================================

func TestLeaveRecordRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := engine.LeaveRecord{
		EmployeeID: "EMP-001",
		StartDate:  date(2024, time.April, 1),
		EndDate:    date(2024, time.April, 3),
		Days: map[string]engine.DayType{
			"2024-04-01": engine.DayLeave,
			"2024-04-02": engine.DayWFH,
			"2024-04-03": engine.DayPresent,
		},
		Reason: "trip",
		Approval: &engine.Approval{
			Approved:   true,
			ApprovedBy: "manager-1",
			ApprovedAt: time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC),
		},
	}

	created, err := s.CreateLeaveRecord(ctx, rec)
	require.NoError(t, err)

	got, err := s.GetLeaveRecord(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Days, got.Days)
	assert.Equal(t, "2024-04-01", got.StartDate.Key())
	require.NotNil(t, got.Approval)
	assert.True(t, got.Approval.Approved)
	assert.Equal(t, "manager-1", got.Approval.ApprovedBy)

	byEmp, err := s.LeaveRecordsByEmployee(ctx, "EMP-001")
	require.NoError(t, err)
	require.Len(t, byEmp, 1)

	byOther, err := s.LeaveRecordsByEmployee(ctx, "EMP-999")
	require.NoError(t, err)
	assert.Empty(t, byOther)
}

func TestOptionalHolidayCounterFollowsRecordLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateEmployee(ctx, engine.Employee{
		EmployeeID: "EMP-001", Name: "Asha Rao", JoinDate: date(2023, time.January, 2),
	})
	require.NoError(t, err)
	_, err = s.AddHoliday(ctx, engine.Holiday{
		Date: date(2024, time.November, 1), Name: "Diwali", Type: engine.HolidayOptional,
	})
	require.NoError(t, err)

	// Create: leave on the optional holiday consumes one unit
	created, err := s.CreateLeaveRecord(ctx, engine.LeaveRecord{
		EmployeeID: "EMP-001",
		StartDate:  date(2024, time.November, 1),
		EndDate:    date(2024, time.November, 1),
		Days:       map[string]engine.DayType{"2024-11-01": engine.DayLeave},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.OptionalHolidayLeaves)

	n, err := s.OptionalHolidaysConsumed(ctx, "EMP-001")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Retag to WFH: compensating decrement
	created.Days["2024-11-01"] = engine.DayWFH
	require.NoError(t, s.UpdateLeaveRecord(ctx, created))
	n, err = s.OptionalHolidaysConsumed(ctx, "EMP-001")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Back to leave, then delete: net zero
	created.Days["2024-11-01"] = engine.DayLeave
	require.NoError(t, s.UpdateLeaveRecord(ctx, created))
	require.NoError(t, s.DeleteLeaveRecord(ctx, created.ID))
	n, err = s.OptionalHolidaysConsumed(ctx, "EMP-001")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettingsSingleton(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Unset settings come back zero-valued, not as an error
	initial, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, initial.Policy.LeaveYearly.IsZero())

	policy := engine.NewPolicySnapshot(24, 2, 12, 4, 2)
	saved, err := s.UpdateSettings(ctx, policy, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", saved.UpdatedBy)

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.Policy.LeaveYearly.Equal(policy.LeaveYearly))
	assert.True(t, got.Policy.OptionalHolidayYearly.Equal(policy.OptionalHolidayYearly))

	// Second update overwrites in place
	_, err = s.UpdateSettings(ctx, engine.NewPolicySnapshot(30, 3, 10, 5, 1), "hr@example.com")
	require.NoError(t, err)
	got, err = s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", got.UpdatedBy)
	assert.True(t, got.Policy.LeaveYearly.Equal(engine.NewPolicySnapshot(30, 3, 10, 5, 1).LeaveYearly))
}
