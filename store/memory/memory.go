/*
Package memory provides an in-memory Store implementation for tests.

Semantics mirror store/sqlite: uuid document ids, duplicate-date rejection on
holidays, optional-holiday counter adjustments on every leave-record write.
Safe for concurrent use.
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumenhr/leave-engine/engine"
	"github.com/lumenhr/leave-engine/store"
)

type Store struct {
	mu sync.RWMutex

	employees map[string]engine.Employee
	holidays  map[string]engine.Holiday
	records   map[string]engine.LeaveRecord
	consumed  map[string]int // employeeID -> optional holidays consumed
	settings  store.Settings
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		employees: make(map[string]engine.Employee),
		holidays:  make(map[string]engine.Holiday),
		records:   make(map[string]engine.LeaveRecord),
		consumed:  make(map[string]int),
	}
}

func (s *Store) Close() error { return nil }

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return engine.Employee{}, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp engine.Employee) (engine.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.EmployeeID == emp.EmployeeID {
			return engine.Employee{}, store.ErrEmployeeIDTaken
		}
	}
	emp.ID = uuid.NewString()
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, emp engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[emp.ID]; !ok {
		return store.ErrNotFound
	}
	s.employees[emp.ID] = emp
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *Store) OptionalHolidaysConsumed(ctx context.Context, employeeID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consumed[employeeID], nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) ListHolidays(ctx context.Context) ([]engine.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.Holiday, 0, len(s.holidays))
	for _, h := range s.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) AddHoliday(ctx context.Context, h engine.Holiday) (engine.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.holidays {
		if existing.Date.Equal(h.Date) {
			return engine.Holiday{}, engine.ErrDuplicateHolidayDate
		}
	}
	h.ID = uuid.NewString()
	s.holidays[h.ID] = h
	return h, nil
}

func (s *Store) UpdateHoliday(ctx context.Context, h engine.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.holidays[h.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.holidays {
		if id != h.ID && existing.Date.Equal(h.Date) {
			return engine.ErrDuplicateHolidayDate
		}
	}
	s.holidays[h.ID] = h
	return nil
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.holidays[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.holidays, id)
	return nil
}

func (s *Store) holidaySetLocked() []engine.Holiday {
	out := make([]engine.Holiday, 0, len(s.holidays))
	for _, h := range s.holidays {
		out = append(out, h)
	}
	return out
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

func (s *Store) ListLeaveRecords(ctx context.Context) ([]engine.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.LeaveRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) LeaveRecordsByEmployee(ctx context.Context, employeeID string) ([]engine.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []engine.LeaveRecord
	for _, r := range s.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *Store) GetLeaveRecord(ctx context.Context, id string) (engine.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return engine.LeaveRecord{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) CreateLeaveRecord(ctx context.Context, r engine.LeaveRecord) (engine.LeaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holidays := s.holidaySetLocked()
	r.ID = uuid.NewString()
	r.OptionalHolidayLeaves = engine.CountOptionalHolidayLeaves(r, holidays)
	s.records[r.ID] = r
	s.consumed[r.EmployeeID] += engine.OptionalHolidayDelta(nil, &r, holidays)
	return r, nil
}

func (s *Store) UpdateLeaveRecord(ctx context.Context, r engine.LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.records[r.ID]
	if !ok {
		return store.ErrNotFound
	}
	holidays := s.holidaySetLocked()
	r.OptionalHolidayLeaves = engine.CountOptionalHolidayLeaves(r, holidays)
	s.records[r.ID] = r
	s.consumed[r.EmployeeID] += engine.OptionalHolidayDelta(&before, &r, holidays)
	return nil
}

func (s *Store) DeleteLeaveRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.records[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	s.consumed[before.EmployeeID] += engine.OptionalHolidayDelta(&before, nil, s.holidaySetLocked())
	return nil
}

func sortRecords(records []engine.LeaveRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].StartDate.Equal(records[j].StartDate) {
			return records[i].StartDate.Before(records[j].StartDate)
		}
		return records[i].ID < records[j].ID
	})
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (store.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, policy engine.PolicySnapshot, author string) (store.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = store.Settings{
		Policy:    policy,
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: author,
	}
	return s.settings, nil
}
