package constraint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Concierge/internal/allocator"
	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

func defaultActive(t *testing.T) []Active {
	t.Helper()
	active, err := DefaultRegistry().Resolve(nil)
	require.NoError(t, err)
	return active
}

func codes(active []Active) []string {
	out := make([]string, len(active))
	for i, a := range active {
		out[i] = a.Template.Code
	}
	return out
}

func TestHardSoftScore(t *testing.T) {
	s := HardSoftScore{}.Add(HardSoftScore{Soft: 30}).Add(HardSoftScore{Soft: 15})
	assert.Equal(t, "0hard/45soft", s.String())
	assert.True(t, s.Feasible())

	bad := s.Add(HardSoftScore{Hard: -1})
	assert.False(t, bad.Feasible())
	assert.Equal(t, -1, bad.Compare(HardSoftScore{Soft: -100}), "hard level dominates")
	assert.Equal(t, 1, s.Compare(HardSoftScore{Soft: 10}))
	assert.Equal(t, 0, s.Compare(HardSoftScore{Soft: 45}))
}

func TestDefaultRegistryTemplates(t *testing.T) {
	tmpls := DefaultRegistry().Templates()
	require.Len(t, tmpls, 11)

	seenSoft := false
	for _, tm := range tmpls {
		if tm.Kind == KindSoft {
			seenSoft = true
		} else {
			assert.False(t, seenSoft, "hard templates must come first, got %s after a soft one", tm.Code)
		}
	}
	assert.Equal(t, CodeAccessibilityRequired, tmpls[0].Code)
}

func TestResolveDefaults(t *testing.T) {
	active := defaultActive(t)
	assert.Len(t, active, 11)
	for _, a := range active {
		if a.Template.Code == CodeQuietLocation {
			assert.Equal(t, 2, a.Params.Int("max_noisy_floor", -1))
		}
	}
}

func TestResolveOverrides(t *testing.T) {
	reg := DefaultRegistry()
	active, err := reg.Resolve([]*store.TenantConstraintConfig{
		{TemplateCode: CodeVIPOceanView, Enabled: false},
		{TemplateCode: CodeViewPreference, Enabled: true, Weight: store.IntPtr(40)},
		{TemplateCode: CodeLoyaltyBonus, Enabled: true, Parameters: map[string]interface{}{"min_stays": 2.0}},
	})
	require.NoError(t, err)

	assert.NotContains(t, codes(active), CodeVIPOceanView)
	var soft []Active
	for _, a := range active {
		if a.Template.Kind == KindSoft {
			soft = append(soft, a)
		}
	}
	require.NotEmpty(t, soft)
	assert.Equal(t, CodeViewPreference, soft[0].Template.Code)
	assert.Equal(t, 40, soft[0].Weight)

	for _, a := range active {
		if a.Template.Code == CodeLoyaltyBonus {
			assert.Equal(t, 2, a.Params["min_stays"])
		}
	}
}

func TestResolveRejects(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		name string
		cfg  *store.TenantConstraintConfig
	}{
		{"unknown code", &store.TenantConstraintConfig{TemplateCode: "PET_POLICY", Enabled: true}},
		{"negative weight", &store.TenantConstraintConfig{TemplateCode: CodeViewPreference, Enabled: true, Weight: store.IntPtr(-5)}},
		{"unknown param", &store.TenantConstraintConfig{TemplateCode: CodeViewPreference, Enabled: true, Parameters: map[string]interface{}{"x": 1}}},
		{"out of range", &store.TenantConstraintConfig{TemplateCode: CodeLoyaltyBonus, Enabled: true, Parameters: map[string]interface{}{"min_stays": 500}}},
		{"not integer", &store.TenantConstraintConfig{TemplateCode: CodeQuietLocation, Enabled: true, Parameters: map[string]interface{}{"max_noisy_floor": 2.5}}},
		{"wrong type", &store.TenantConstraintConfig{TemplateCode: CodeQuietLocation, Enabled: true, Parameters: map[string]interface{}{"max_noisy_floor": "three"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, reg.Validate(tt.cfg))
		})
	}
}

func TestEvaluateBatchSolution(t *testing.T) {
	suite := &store.Room{ID: "r1001", Number: "1001", Type: store.RoomTypeSuite, Floor: 10, View: store.ViewOcean, BasePrice: 450}
	vip := &store.Guest{ID: "g1", VIPStatus: true, Preferences: store.Preferences{View: store.ViewPtr(store.ViewOcean)}}
	other := &store.Guest{ID: "g2"}

	first := &Entity{Booking: &store.Booking{ID: "b1", RequestedRoomType: store.RoomTypeSuite}, Guest: vip, Room: suite}
	ev := Evaluate([]*Entity{first}, []*store.Room{suite}, defaultActive(t))
	assert.Equal(t, HardSoftScore{Soft: 40}, ev.Score)
	assert.Len(t, ev.Matches, 3)

	clash := &Entity{Booking: &store.Booking{ID: "b2", RequestedRoomType: store.RoomTypeDouble}, Guest: other, Room: suite}
	ev = Evaluate([]*Entity{first, clash}, []*store.Room{suite}, defaultActive(t))
	assert.Equal(t, -2, ev.Score.Hard, "wrong type and double booking")
	violations := ev.HardViolations()
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, "b2", v.BookingID)
	}
}

func TestEvaluateUnassignedAbstains(t *testing.T) {
	e := &Entity{
		Booking: &store.Booking{ID: "b1", RequestedRoomType: store.RoomTypeSuite},
		Guest:   &store.Guest{ID: "g", Preferences: store.Preferences{Accessible: store.Bool(true)}},
	}
	ev := Evaluate([]*Entity{e}, nil, defaultActive(t))
	assert.Equal(t, HardSoftScore{}, ev.Score)
	assert.Empty(t, ev.Matches)
}

func TestScorerMatchesRuleBased(t *testing.T) {
	rules := scoring.NewRuleScorer(scoring.DefaultRuleWeights())
	cs := NewScorer(defaultActive(t))

	rooms := []*store.Room{
		{ID: "a", Type: store.RoomTypeSuite, Floor: 10, View: store.ViewOcean, BasePrice: 450},
		{ID: "b", Type: store.RoomTypeDouble, Floor: 2, View: store.ViewGarden, BasePrice: 90},
		{ID: "c", Type: store.RoomTypeDeluxe, Floor: 5, View: store.ViewCity, BasePrice: 300},
	}
	guests := []*store.Guest{
		{ID: "vip", VIPStatus: true, PreviousStays: 8, Preferences: store.Preferences{View: store.ViewPtr(store.ViewOcean)}},
		{ID: "quiet", BudgetMax: store.Float64Ptr(100), Preferences: store.Preferences{Quiet: store.Bool(true), Floor: store.FloorPtr(store.FloorLow)}},
		{ID: "none"},
	}
	for _, r := range rooms {
		for _, g := range guests {
			booking := &store.Booking{ID: "b", RequestedRoomType: r.Type}
			want := rules.Score(r, g, booking)
			got := cs.Score(r, g, booking)
			assert.True(t, got.Feasible)
			assert.Equal(t, want.Score, got.Score, "room %s guest %s", r.ID, g.ID)
			assert.ElementsMatch(t, want.Reasons, got.Reasons, "room %s guest %s", r.ID, g.ID)
		}
	}
}

func TestScorerHardViolationInfeasible(t *testing.T) {
	cs := NewScorer(defaultActive(t))
	room := &store.Room{ID: "r", Type: store.RoomTypeSingle, Floor: 3, View: store.ViewCity}
	guest := &store.Guest{ID: "g", Preferences: store.Preferences{Accessible: store.Bool(true)}}

	res := cs.Score(room, guest, &store.Booking{ID: "b", RequestedRoomType: store.RoomTypeSingle})
	assert.False(t, res.Feasible)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, []string{scoring.ReasonAccessibleMissing}, res.Reasons)
}

func TestScorerSmokingPolicyOneWay(t *testing.T) {
	cs := NewScorer(defaultActive(t))
	booking := &store.Booking{ID: "b", RequestedRoomType: store.RoomTypeSingle}
	smokingRoom := &store.Room{ID: "s", Type: store.RoomTypeSingle, Floor: 5, View: store.ViewCity, SmokingAllowed: true}
	cleanRoom := &store.Room{ID: "c", Type: store.RoomTypeSingle, Floor: 5, View: store.ViewCity}

	nonSmoker := &store.Guest{ID: "n", Preferences: store.Preferences{Smoking: store.Bool(false)}}
	res := cs.Score(smokingRoom, nonSmoker, booking)
	assert.True(t, res.Feasible, "a non-smoker may take a smoking room")
	assert.Equal(t, 30.0, res.Score)
	assert.Equal(t, []string{scoring.ReasonSmokingMismatch}, res.Reasons)

	smoker := &store.Guest{ID: "s", Preferences: store.Preferences{Smoking: store.Bool(true)}}
	res = cs.Score(cleanRoom, smoker, booking)
	assert.False(t, res.Feasible)
	assert.Equal(t, []string{scoring.ReasonSmokingMismatch}, res.Reasons)

	res = cs.Score(smokingRoom, smoker, booking)
	assert.True(t, res.Feasible)
	assert.Equal(t, 70.0, res.Score)
}

func TestNonSmokerGetsOnlySmokingRoom(t *testing.T) {
	a := allocator.New(NewScorer(defaultActive(t)))
	booking := &store.Booking{ID: "b", GuestID: "n", RequestedRoomType: store.RoomTypeSingle}
	guest := &store.Guest{ID: "n", Preferences: store.Preferences{Smoking: store.Bool(false)}}
	rooms := []*store.Room{
		{ID: "s", Type: store.RoomTypeSingle, Floor: 5, View: store.ViewCity, SmokingAllowed: true, Status: store.RoomAvailable},
	}

	res := a.Allocate(booking, guest, rooms)
	require.True(t, res.Assigned())
	assert.Equal(t, "s", res.AssignedRoom.ID)
}

func TestHardTemplatesJustifySatisfaction(t *testing.T) {
	active, err := DefaultRegistry().Resolve([]*store.TenantConstraintConfig{
		{TemplateCode: CodeRoomTypeMatch, Enabled: true, Weight: store.IntPtr(5)},
		{TemplateCode: CodeNoDoubleBooking, Enabled: true, Weight: store.IntPtr(5)},
	})
	require.NoError(t, err)
	cs := NewScorer(active)

	room := &store.Room{ID: "r", Number: "301", Type: store.RoomTypeDouble, Floor: 3, View: store.ViewCity}
	res := cs.Score(room, &store.Guest{ID: "g"}, &store.Booking{ID: "b", RequestedRoomType: store.RoomTypeDouble})
	require.True(t, res.Feasible)
	assert.Equal(t, 60.0, res.Score)
	assert.Len(t, res.Reasons, 2)
	for _, r := range res.Reasons {
		assert.NotEmpty(t, r)
	}
	assert.Contains(t, res.Reasons, "Requested double room")
	assert.Contains(t, res.Reasons, "Room 301 held by this booking only")
}

func TestScorerDisabledConstraintContributesNothing(t *testing.T) {
	active, err := DefaultRegistry().Resolve([]*store.TenantConstraintConfig{
		{TemplateCode: CodeAccessibilityRequired, Enabled: false},
	})
	require.NoError(t, err)
	cs := NewScorer(active)

	room := &store.Room{ID: "r", Type: store.RoomTypeSingle, Floor: 3, View: store.ViewCity}
	guest := &store.Guest{ID: "g", Preferences: store.Preferences{Accessible: store.Bool(true)}}
	res := cs.Score(room, guest, &store.Booking{ID: "b", RequestedRoomType: store.RoomTypeSingle})
	assert.True(t, res.Feasible)
	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, []string{scoring.ReasonStandardAllocation}, res.Reasons)
}

func TestLoadTenantConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constraints.yaml")
	content := `
tenants:
  seaside:
    - code: VIEW_PREFERENCE
      weight: 20
  grand-hotel:
    - code: QUIET_LOCATION
      parameters:
        max_noisy_floor: 3
    - code: VIP_OCEAN_VIEW
      enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfgs, err := LoadTenantConfigs(path)
	require.NoError(t, err)
	require.Len(t, cfgs, 3)

	assert.Equal(t, "grand-hotel", cfgs[0].TenantID)
	assert.Equal(t, CodeQuietLocation, cfgs[0].TemplateCode)
	assert.True(t, cfgs[0].Enabled)
	assert.False(t, cfgs[1].Enabled)
	assert.Equal(t, "seaside", cfgs[2].TenantID)
	assert.Equal(t, 20, *cfgs[2].Weight)

	_, err = DefaultRegistry().Resolve(cfgs[:2])
	assert.NoError(t, err)
}

func TestLoadTenantConfigsMissingFile(t *testing.T) {
	_, err := LoadTenantConfigs(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
