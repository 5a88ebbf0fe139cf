package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Concierge/internal/constraint"
	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

func ruleAllocator() *Allocator {
	return New(scoring.NewRuleScorer(scoring.DefaultRuleWeights()))
}

func allStrategies(t *testing.T) []scoring.Strategy {
	t.Helper()
	active, err := constraint.DefaultRegistry().Resolve(nil)
	require.NoError(t, err)
	return []scoring.Strategy{
		scoring.NewRuleScorer(scoring.DefaultRuleWeights()),
		scoring.NewFeatureScorer(scoring.DefaultFeatureWeights(), scoring.DefaultFeatureScale()),
		constraint.NewScorer(active),
	}
}

func sample() (*store.Inventory, map[string]*store.Guest) {
	inv := store.SampleInventory()
	guests := make(map[string]*store.Guest, len(inv.Guests))
	for _, g := range inv.Guests {
		guests[g.ID] = g
	}
	return inv, guests
}

func TestAllocateNoRoomsOfType(t *testing.T) {
	rooms := []*store.Room{
		{ID: "a", Type: store.RoomTypeDouble, Floor: 2, View: store.ViewCity, Status: store.RoomAvailable},
		{ID: "b", Type: store.RoomTypeSuite, Floor: 9, View: store.ViewOcean, Status: store.RoomMaintenance},
	}
	booking := &store.Booking{ID: "bk", GuestID: "g", RequestedRoomType: store.RoomTypeSuite}

	for _, st := range allStrategies(t) {
		res := New(st).Allocate(booking, &store.Guest{ID: "g"}, rooms)
		assert.Nil(t, res.AssignedRoom, st.Method())
		assert.Equal(t, 0.0, res.Score)
		assert.Equal(t, []string{ReasonNoRoomsAvailable}, res.Reasons)
		assert.Equal(t, st.Method(), res.Method)
		assert.Same(t, booking, res.Booking)
	}
}

func TestAllocateEmptyRooms(t *testing.T) {
	res := ruleAllocator().Allocate(&store.Booking{ID: "bk", RequestedRoomType: store.RoomTypeSingle}, &store.Guest{ID: "g"}, nil)
	assert.False(t, res.Assigned())
	assert.Equal(t, []string{ReasonNoRoomsAvailable}, res.Reasons)
}

func TestAllocatePicksBest(t *testing.T) {
	rooms := []*store.Room{
		{ID: "garden", Type: store.RoomTypeSuite, Floor: 7, View: store.ViewGarden, Status: store.RoomAvailable},
		{ID: "ocean", Type: store.RoomTypeSuite, Floor: 10, View: store.ViewOcean, Status: store.RoomAvailable},
	}
	guest := &store.Guest{ID: "g", VIPStatus: true, Preferences: store.Preferences{View: store.ViewPtr(store.ViewOcean)}}
	booking := &store.Booking{ID: "bk", GuestID: "g", RequestedRoomType: store.RoomTypeSuite}

	res := ruleAllocator().Allocate(booking, guest, rooms)
	require.True(t, res.Assigned())
	assert.Equal(t, "ocean", res.AssignedRoom.ID)
	assert.Equal(t, 90.0, res.Score)
	assert.Equal(t, scoring.MethodRuleBased, res.Method)
	assert.Contains(t, res.Reasons, "Preferred ocean view")
}

func TestAllocateTieKeepsFirst(t *testing.T) {
	rooms := []*store.Room{
		{ID: "first", Type: store.RoomTypeDouble, Floor: 4, View: store.ViewCity, Status: store.RoomAvailable},
		{ID: "second", Type: store.RoomTypeDouble, Floor: 5, View: store.ViewCity, Status: store.RoomAvailable},
	}
	res := ruleAllocator().Allocate(&store.Booking{ID: "bk", RequestedRoomType: store.RoomTypeDouble}, &store.Guest{ID: "g"}, rooms)
	require.True(t, res.Assigned())
	assert.Equal(t, "first", res.AssignedRoom.ID)
	assert.Equal(t, []string{scoring.ReasonStandardAllocation}, res.Reasons)
}

func TestAllocateIdempotent(t *testing.T) {
	inv, guests := sample()
	for _, st := range allStrategies(t) {
		a := New(st)
		for _, b := range inv.Bookings {
			first := a.Allocate(b, guests[b.GuestID], inv.Rooms)
			second := a.Allocate(b, guests[b.GuestID], inv.Rooms)
			assert.Equal(t, first, second, "%s %s", st.Method(), b.ID)
		}
	}
}

func TestAllocateScoreBounds(t *testing.T) {
	inv, guests := sample()
	for _, st := range allStrategies(t) {
		a := New(st)
		for _, b := range inv.Bookings {
			res := a.Allocate(b, guests[b.GuestID], inv.Rooms)
			assert.GreaterOrEqual(t, res.Score, 0.0)
			assert.LessOrEqual(t, res.Score, 100.0)
			if res.Assigned() {
				assert.NotEmpty(t, res.Reasons)
			}
		}
	}
}

func TestAllocateConstraintSkipsInfeasible(t *testing.T) {
	active, err := constraint.DefaultRegistry().Resolve(nil)
	require.NoError(t, err)
	a := New(constraint.NewScorer(active))

	guest := &store.Guest{ID: "g", Preferences: store.Preferences{Accessible: store.Bool(true)}}
	booking := &store.Booking{ID: "bk", GuestID: "g", RequestedRoomType: store.RoomTypeSingle}
	rooms := []*store.Room{
		{ID: "stairs", Type: store.RoomTypeSingle, Floor: 3, View: store.ViewCity, Status: store.RoomAvailable},
		{ID: "ramp", Type: store.RoomTypeSingle, Floor: 4, View: store.ViewCity, Accessible: true, Status: store.RoomAvailable},
	}

	res := a.Allocate(booking, guest, rooms)
	require.True(t, res.Assigned())
	assert.Equal(t, "ramp", res.AssignedRoom.ID)

	res = a.Allocate(booking, guest, rooms[:1])
	assert.False(t, res.Assigned())
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, []string{ReasonNoFeasibleRoom}, res.Reasons)

	// The rule-based strategy only penalizes the same room.
	res = ruleAllocator().Allocate(booking, guest, rooms[:1])
	assert.True(t, res.Assigned())
	assert.Equal(t, 10.0, res.Score)
}

func TestExplain(t *testing.T) {
	inv, guests := sample()
	b := inv.Bookings[0]
	scores := ruleAllocator().Explain(b, guests[b.GuestID], inv.Rooms)
	require.Len(t, scores, 4)
	for _, cs := range scores {
		assert.Equal(t, store.RoomTypeSuite, cs.Room.Type)
	}
}

func TestGetConstraints(t *testing.T) {
	t.Run("empty preferences", func(t *testing.T) {
		c := GetConstraints(&store.Guest{ID: "g"})
		assert.Empty(t, c.MustHaves)
		assert.Empty(t, c.NiceToHaves)
		assert.Empty(t, c.Conflicts)
		assert.NotNil(t, c.MustHaves)
	})

	t.Run("explicit false smoking is a must-have", func(t *testing.T) {
		c := GetConstraints(&store.Guest{ID: "g", Preferences: store.Preferences{Smoking: store.Bool(false)}})
		assert.Equal(t, []string{"Non-smoking room required"}, c.MustHaves)
	})

	t.Run("accessible false is not", func(t *testing.T) {
		c := GetConstraints(&store.Guest{ID: "g", Preferences: store.Preferences{Accessible: store.Bool(false)}})
		assert.Empty(t, c.MustHaves)
	})

	t.Run("full", func(t *testing.T) {
		c := GetConstraints(&store.Guest{ID: "g", Preferences: store.Preferences{
			Accessible: store.Bool(true),
			Smoking:    store.Bool(true),
			View:       store.ViewPtr(store.ViewOcean),
			Floor:      store.FloorPtr(store.FloorHigh),
			Quiet:      store.Bool(true),
		}})
		assert.Equal(t, []string{"Accessible room", "Smoking room required"}, c.MustHaves)
		assert.Equal(t, []string{"ocean view", "high floor", "Quiet location"}, c.NiceToHaves)
		assert.Len(t, c.Conflicts, 1)
	})
}

func TestGetConstraintsMirrorsHardTemplates(t *testing.T) {
	// Every must-have corresponds to a HARD template that can make a room
	// infeasible, every nice-to-have to a SOFT one.
	guest := &store.Guest{ID: "g", Preferences: store.Preferences{
		Accessible: store.Bool(true), Smoking: store.Bool(false),
	}}
	active, err := constraint.DefaultRegistry().Resolve(nil)
	require.NoError(t, err)
	cs := constraint.NewScorer(active)

	room := &store.Room{ID: "r", Type: store.RoomTypeSingle, Floor: 5, View: store.ViewCity, SmokingAllowed: true}
	res := cs.Score(room, guest, &store.Booking{ID: "b", RequestedRoomType: store.RoomTypeSingle})
	assert.False(t, res.Feasible)
	assert.Len(t, res.Reasons, len(GetConstraints(guest).MustHaves))
}
