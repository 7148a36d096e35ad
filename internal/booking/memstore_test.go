package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// memStore is an in-memory implementation of the store interfaces
// with the same compare-and-swap semantics the MySQL repositories
// provide, used to exercise the booking components under concurrency
// without a database.
type memStore struct {
	mu         sync.Mutex
	schedules  map[uint64]model.Schedule
	capacities map[capKey]*memCapacity
	tickets    map[uint64]model.Ticket
	nextTicket uint64
	createErr  error // when set, CreateTicket fails with it
}

type capKey struct {
	scheduleID uint64
	fareClass  string
}

type memCapacity struct {
	occupied uint32
	total    uint32
	version  uint64
}

func newMemStore() *memStore {
	return &memStore{
		schedules:  make(map[uint64]model.Schedule),
		capacities: make(map[capKey]*memCapacity),
		tickets:    make(map[uint64]model.Ticket),
	}
}

func (m *memStore) addSchedule(s model.Schedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ID] = s
}

func (m *memStore) addCapacity(scheduleID uint64, fareClass string, occupied, total uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capacities[capKey{scheduleID, fareClass}] = &memCapacity{occupied: occupied, total: total}
}

func (m *memStore) occupied(scheduleID uint64, fareClass string) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capacities[capKey{scheduleID, fareClass}].occupied
}

func (m *memStore) Schedule(ctx context.Context, id uint64) (*model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return &s, nil
}

func (m *memStore) SchedulesByRouteAfter(ctx context.Context, routeID uint64, after time.Time) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Schedule
	for _, s := range m.schedules {
		if s.RouteID == routeID && s.DepartsAt.After(after) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DepartsAt.Equal(out[j].DepartsAt) {
			return out[i].DepartsAt.Before(out[j].DepartsAt)
		}
		return out[i].ServiceCode < out[j].ServiceCode
	})
	return out, nil
}

func (m *memStore) Capacity(ctx context.Context, scheduleID uint64, fareClass string) (CapacitySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.capacities[capKey{scheduleID, fareClass}]
	if !ok {
		return CapacitySnapshot{}, ErrScheduleNotFound
	}
	return CapacitySnapshot{
		ScheduleID: scheduleID,
		FareClass:  fareClass,
		Occupied:   c.occupied,
		Total:      c.total,
		Version:    c.version,
	}, nil
}

func (m *memStore) CompareAndIncrement(ctx context.Context, scheduleID uint64, fareClass string, version uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.capacities[capKey{scheduleID, fareClass}]
	if !ok {
		return false, ErrScheduleNotFound
	}
	if c.version != version || c.occupied >= c.total {
		return false, nil
	}
	c.occupied++
	c.version++
	return true, nil
}

func (m *memStore) CompareAndDecrement(ctx context.Context, scheduleID uint64, fareClass string, version uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.capacities[capKey{scheduleID, fareClass}]
	if !ok {
		return false, ErrScheduleNotFound
	}
	if c.version != version || c.occupied == 0 {
		return false, nil
	}
	c.occupied--
	c.version++
	return true, nil
}

func (m *memStore) CreateTicket(ctx context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextTicket++
	t.ID = m.nextTicket
	m.tickets[t.ID] = *t
	return nil
}

func (m *memStore) Ticket(ctx context.Context, id uint64) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return &t, nil
}

func (m *memStore) TransitionTicket(ctx context.Context, id uint64, from, to model.TicketStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return false, ErrTicketNotFound
	}
	if t.Status != from {
		return false, nil
	}
	t.Status = to
	t.UpdatedAt = time.Now().UTC()
	m.tickets[id] = t
	return true, nil
}

// bookableSchedule is a helper returning a schedule open for sale
// departing at the given time.
func bookableSchedule(id, routeID uint64, code string, departs time.Time) model.Schedule {
	return model.Schedule{
		ID:          id,
		ServiceCode: code,
		RouteID:     routeID,
		DepartsAt:   departs,
		Status:      model.ScheduleScheduled,
		IsActive:    true,
	}
}
