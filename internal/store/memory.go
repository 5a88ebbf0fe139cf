package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps inventory in process. Rooms and bookings are returned in
// insertion order so candidate ordering (and therefore tie-breaking) is stable.
type MemoryStore struct {
	mu          sync.RWMutex
	rooms       []*Room
	roomIdx     map[string]int
	guests      map[string]*Guest
	bookings    []*Booking
	bookingIdx  map[string]int
	constraints map[string]map[string]*TenantConstraintConfig
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roomIdx:     make(map[string]int),
		guests:      make(map[string]*Guest),
		bookingIdx:  make(map[string]int),
		constraints: make(map[string]map[string]*TenantConstraintConfig),
	}
}

// NewMemoryStoreFrom returns a MemoryStore preloaded with inv.
func NewMemoryStoreFrom(inv *Inventory) *MemoryStore {
	m := NewMemoryStore()
	ctx := context.Background()
	for _, r := range inv.Rooms {
		_ = m.UpsertRoom(ctx, r)
	}
	for _, g := range inv.Guests {
		_ = m.UpsertGuest(ctx, g)
	}
	for _, b := range inv.Bookings {
		_ = m.UpsertBooking(ctx, b)
	}
	for _, c := range inv.TenantConstraints {
		_ = m.UpsertTenantConstraint(ctx, c)
	}
	return m
}

func (m *MemoryStore) ListRooms(_ context.Context, filter RoomFilter) ([]*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Room
	for _, r := range m.rooms {
		if filter.Type != nil && r.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryStore) GetRoom(_ context.Context, id string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.roomIdx[id]
	if !ok {
		return nil, nil
	}
	cp := *m.rooms[i]
	return &cp, nil
}

func (m *MemoryStore) UpsertRoom(_ context.Context, r *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *r
	if i, ok := m.roomIdx[r.ID]; ok {
		m.rooms[i] = &cp
		return nil
	}
	m.roomIdx[r.ID] = len(m.rooms)
	m.rooms = append(m.rooms, &cp)
	return nil
}

func (m *MemoryStore) GetGuest(_ context.Context, id string) (*Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.guests[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *MemoryStore) ListGuests(_ context.Context, ids []string) (map[string]*Guest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*Guest)
	if len(ids) == 0 {
		for id, g := range m.guests {
			cp := *g
			out[id] = &cp
		}
		return out, nil
	}
	for _, id := range ids {
		if g, ok := m.guests[id]; ok {
			cp := *g
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *MemoryStore) UpsertGuest(_ context.Context, g *Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *g
	m.guests[g.ID] = &cp
	return nil
}

func (m *MemoryStore) ListBookings(_ context.Context, filter BookingFilter) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var wanted map[string]bool
	if len(filter.IDs) > 0 {
		wanted = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			wanted[id] = true
		}
	}

	var out []*Booking
	for _, b := range m.bookings {
		if wanted != nil && !wanted[b.ID] {
			continue
		}
		if filter.UnassignedOnly && b.AssignedRoomID != "" {
			continue
		}
		if filter.CheckInFrom != nil && b.CheckIn.Before(*filter.CheckInFrom) {
			continue
		}
		if filter.CheckInTo != nil && !b.CheckIn.Before(*filter.CheckInTo) {
			continue
		}
		cp := *b
		out = append(out, &cp)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) UpsertBooking(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *b
	if i, ok := m.bookingIdx[b.ID]; ok {
		m.bookings[i] = &cp
		return nil
	}
	m.bookingIdx[b.ID] = len(m.bookings)
	m.bookings = append(m.bookings, &cp)
	return nil
}

func (m *MemoryStore) ListTenantConstraints(_ context.Context, tenantID string) ([]*TenantConstraintConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*TenantConstraintConfig
	for _, c := range m.constraints[tenantID] {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateCode < out[j].TemplateCode })
	return out, nil
}

func (m *MemoryStore) UpsertTenantConstraint(_ context.Context, c *TenantConstraintConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.UpdatedAt = time.Now()
	cp := *c
	if m.constraints[c.TenantID] == nil {
		m.constraints[c.TenantID] = make(map[string]*TenantConstraintConfig)
	}
	m.constraints[c.TenantID][c.TemplateCode] = &cp
	return nil
}

func (m *MemoryStore) Close() error { return nil }
