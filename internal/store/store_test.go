package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumValues(t *testing.T) {
	types := []RoomType{RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe}
	expected := []string{"single", "double", "suite", "deluxe"}
	for i, rt := range types {
		if string(rt) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], rt)
		}
		if !rt.Valid() {
			t.Errorf("expected %s to be valid", rt)
		}
	}
	if RoomType("penthouse").Valid() {
		t.Error("unexpected valid room type")
	}
	if View("mountain").Valid() {
		t.Error("unexpected valid view")
	}
	if !ViewBeach.Valid() {
		t.Error("beach view should be valid")
	}
	if RoomStatus("cleaning").Valid() {
		t.Error("unexpected valid status")
	}
}

func TestPreferencesTriState(t *testing.T) {
	var absent Preferences
	assert.False(t, absent.RequiresAccessible())
	assert.False(t, absent.WantsQuiet())
	assert.Nil(t, absent.Smoking, "absent smoking preference must stay nil")

	explicitFalse := Preferences{Accessible: Bool(false), Quiet: Bool(false), Smoking: Bool(false)}
	assert.False(t, explicitFalse.RequiresAccessible())
	assert.False(t, explicitFalse.WantsQuiet())
	require.NotNil(t, explicitFalse.Smoking)
	assert.False(t, *explicitFalse.Smoking)

	required := Preferences{Accessible: Bool(true), Quiet: Bool(true)}
	assert.True(t, required.RequiresAccessible())
	assert.True(t, required.WantsQuiet())
}

func TestMemoryStoreRoomOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStoreFrom(SampleInventory())

	all, err := m.ListRooms(ctx, RoomFilter{})
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, "r101", all[0].ID)
	assert.Equal(t, "r1201", all[19].ID)

	suite := RoomTypeSuite
	available := RoomAvailable
	suites, err := m.ListRooms(ctx, RoomFilter{Type: &suite, Status: &available})
	require.NoError(t, err)
	for _, r := range suites {
		assert.Equal(t, RoomTypeSuite, r.Type)
		assert.Equal(t, RoomAvailable, r.Status)
	}
	assert.Len(t, suites, 4)

	// Returned rooms are copies.
	all[0].Floor = 99
	again, _ := m.GetRoom(ctx, "r101")
	assert.Equal(t, 1, again.Floor)
}

func TestMemoryStoreUpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.UpsertRoom(ctx, &Room{ID: "a", Number: "1", Type: RoomTypeSingle, Floor: 1, View: ViewCity, Status: RoomAvailable}))
	require.NoError(t, m.UpsertRoom(ctx, &Room{ID: "b", Number: "2", Type: RoomTypeSingle, Floor: 1, View: ViewCity, Status: RoomAvailable}))
	require.NoError(t, m.UpsertRoom(ctx, &Room{ID: "a", Number: "1", Type: RoomTypeSingle, Floor: 3, View: ViewCity, Status: RoomAvailable}))

	rooms, _ := m.ListRooms(ctx, RoomFilter{})
	require.Len(t, rooms, 2)
	assert.Equal(t, "a", rooms[0].ID)
	assert.Equal(t, 3, rooms[0].Floor)
}

func TestMemoryStoreGuestsAndBookings(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStoreFrom(SampleInventory())

	g, err := m.GetGuest(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.True(t, g.VIPStatus)

	missing, err := m.GetGuest(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	guests, _ := m.ListGuests(ctx, []string{"g1", "g3", "ghost"})
	assert.Len(t, guests, 2)

	bookings, _ := m.ListBookings(ctx, BookingFilter{IDs: []string{"b2", "b1"}})
	require.Len(t, bookings, 2)
	assert.Equal(t, "b1", bookings[0].ID, "insertion order is preserved")

	b := bookings[0]
	b.AssignedRoomID = "r1001"
	require.NoError(t, m.UpsertBooking(ctx, b))
	unassigned, _ := m.ListBookings(ctx, BookingFilter{UnassignedOnly: true})
	assert.Len(t, unassigned, 5)

	limited, _ := m.ListBookings(ctx, BookingFilter{Limit: 2})
	assert.Len(t, limited, 2)
}

func TestMemoryStoreTenantConstraints(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.UpsertTenantConstraint(ctx, &TenantConstraintConfig{TenantID: "t1", TemplateCode: "VIEW_PREFERENCE", Enabled: true, Weight: IntPtr(40)}))
	require.NoError(t, m.UpsertTenantConstraint(ctx, &TenantConstraintConfig{TenantID: "t1", TemplateCode: "BUDGET_EXCEEDED", Enabled: false}))
	require.NoError(t, m.UpsertTenantConstraint(ctx, &TenantConstraintConfig{TenantID: "t2", TemplateCode: "VIEW_PREFERENCE", Enabled: true}))

	cfgs, err := m.ListTenantConstraints(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, "BUDGET_EXCEEDED", cfgs[0].TemplateCode)
	assert.False(t, cfgs[0].UpdatedAt.IsZero())

	none, _ := m.ListTenantConstraints(ctx, "t3")
	assert.Empty(t, none)
}

func TestLoadInventory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	fixture := `
rooms:
  - id: r1
    number: "101"
    type: suite
    floor: 10
    view: ocean
    base_price: 400
    price_per_night: 400
guests:
  - id: g1
    name: Test Guest
    vip_status: true
    preferences:
      view: ocean
      smoking: false
bookings:
  - id: b1
    guest_id: g1
    check_in: 2026-03-01
    check_out: 2026-03-03
    requested_room_type: suite
tenant_constraints:
  - tenant_id: hotel-a
    template_code: VIEW_PREFERENCE
    enabled: true
    weight: 25
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	inv, err := LoadInventory(path)
	require.NoError(t, err)
	require.Len(t, inv.Rooms, 1)
	assert.Equal(t, RoomAvailable, inv.Rooms[0].Status, "status defaults to available")
	require.Len(t, inv.Guests, 1)
	require.NotNil(t, inv.Guests[0].Preferences.Smoking)
	assert.False(t, *inv.Guests[0].Preferences.Smoking)
	assert.Nil(t, inv.Guests[0].Preferences.Quiet)
	assert.Equal(t, 2026, inv.Bookings[0].CheckIn.Year())
	require.Len(t, inv.TenantConstraints, 1)
	assert.Equal(t, 25, *inv.TenantConstraints[0].Weight)
}

func TestInventoryValidateRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		inv  Inventory
	}{
		{"bad room type", Inventory{Rooms: []*Room{{ID: "r", Type: "penthouse", View: ViewCity, Floor: 1}}}},
		{"bad view", Inventory{Rooms: []*Room{{ID: "r", Type: RoomTypeSingle, View: "moon", Floor: 1}}}},
		{"zero floor", Inventory{Rooms: []*Room{{ID: "r", Type: RoomTypeSingle, View: ViewCity}}}},
		{"duplicate room", Inventory{Rooms: []*Room{
			{ID: "r", Type: RoomTypeSingle, View: ViewCity, Floor: 1},
			{ID: "r", Type: RoomTypeSingle, View: ViewCity, Floor: 1},
		}}},
		{"negative stays", Inventory{Guests: []*Guest{{ID: "g", PreviousStays: -1}}}},
		{"bad floor band", Inventory{Guests: []*Guest{{ID: "g", Preferences: Preferences{Floor: FloorPtr("basement")}}}}},
		{"unknown assigned room", Inventory{Bookings: []*Booking{{ID: "b", RequestedRoomType: RoomTypeSingle, AssignedRoomID: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.inv.Validate())
		})
	}
}

func TestSampleInventoryIsValid(t *testing.T) {
	assert.NoError(t, SampleInventory().Validate())
}

func TestValidatorAcceptsSampleRecords(t *testing.T) {
	v := NewValidator()
	inv := SampleInventory()
	for _, r := range inv.Rooms {
		assert.NoError(t, v.Struct(r), r.ID)
	}
	for _, g := range inv.Guests {
		assert.NoError(t, v.Struct(g), g.ID)
	}
	for _, b := range inv.Bookings {
		assert.NoError(t, v.Struct(b), b.ID)
	}
}

func TestValidatorRejectsBadRecords(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		name   string
		record interface{}
	}{
		{"room type", &Room{ID: "r", Type: "penthouse", Floor: 1, View: ViewCity, Status: RoomAvailable}},
		{"room status missing", &Room{ID: "r", Type: RoomTypeSingle, Floor: 1, View: ViewCity}},
		{"room floor", &Room{ID: "r", Type: RoomTypeSingle, Floor: 0, View: ViewCity, Status: RoomAvailable}},
		{"guest id", &Guest{}},
		{"floor preference", &Guest{ID: "g", Preferences: Preferences{Floor: FloorPtr("basement")}}},
		{"negative budget", &Guest{ID: "g", BudgetMax: Float64Ptr(-1)}},
		{"booking room type", &Booking{ID: "b", GuestID: "g"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Struct(tt.record))
		})
	}
}
