package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Inventory is a self-contained set of hotel records, used to seed stores
// and to run allocations without a database.
type Inventory struct {
	Rooms             []*Room                   `yaml:"rooms"`
	Guests            []*Guest                  `yaml:"guests"`
	Bookings          []*Booking                `yaml:"bookings"`
	TenantConstraints []*TenantConstraintConfig `yaml:"tenant_constraints"`
}

// LoadInventory reads an inventory fixture from a YAML file.
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	inv := &Inventory{}
	if err := yaml.Unmarshal(data, inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks enum values and referential integrity of the fixture.
func (inv *Inventory) Validate() error {
	rooms := make(map[string]bool, len(inv.Rooms))
	for _, r := range inv.Rooms {
		if r.ID == "" {
			return fmt.Errorf("room %q: id required", r.Number)
		}
		if rooms[r.ID] {
			return fmt.Errorf("room %s: duplicate id", r.ID)
		}
		rooms[r.ID] = true
		if !r.Type.Valid() {
			return fmt.Errorf("room %s: invalid type %q", r.ID, r.Type)
		}
		if !r.View.Valid() {
			return fmt.Errorf("room %s: invalid view %q", r.ID, r.View)
		}
		if r.Status == "" {
			r.Status = RoomAvailable
		}
		if !r.Status.Valid() {
			return fmt.Errorf("room %s: invalid status %q", r.ID, r.Status)
		}
		if r.Floor < 1 {
			return fmt.Errorf("room %s: floor must be positive", r.ID)
		}
	}
	for _, g := range inv.Guests {
		if g.ID == "" {
			return fmt.Errorf("guest %q: id required", g.Name)
		}
		if g.PreviousStays < 0 {
			return fmt.Errorf("guest %s: previous_stays must be non-negative", g.ID)
		}
		if v := g.Preferences.View; v != nil && !v.Valid() {
			return fmt.Errorf("guest %s: invalid view preference %q", g.ID, *v)
		}
		if f := g.Preferences.Floor; f != nil && !f.Valid() {
			return fmt.Errorf("guest %s: invalid floor preference %q", g.ID, *f)
		}
	}
	for _, b := range inv.Bookings {
		if b.ID == "" {
			return fmt.Errorf("booking for guest %s: id required", b.GuestID)
		}
		if !b.RequestedRoomType.Valid() {
			return fmt.Errorf("booking %s: invalid requested room type %q", b.ID, b.RequestedRoomType)
		}
		if b.AssignedRoomID != "" && !rooms[b.AssignedRoomID] {
			return fmt.Errorf("booking %s: unknown assigned room %s", b.ID, b.AssignedRoomID)
		}
	}
	return nil
}

// SampleInventory is the demo hotel: 20 rooms across 12 floors, a handful of
// guests with varied preferences and one booking each.
func SampleInventory() *Inventory {
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC) }

	rooms := []*Room{
		{ID: "r101", Number: "101", Type: RoomTypeSingle, Floor: 1, View: ViewCourtyard, Accessible: true, DistanceFromElevator: 5, BasePrice: 90, PricePerNight: 90},
		{ID: "r102", Number: "102", Type: RoomTypeDouble, Floor: 1, View: ViewGarden, Accessible: true, PetFriendly: true, DistanceFromElevator: 12, BasePrice: 120, PricePerNight: 120},
		{ID: "r201", Number: "201", Type: RoomTypeSingle, Floor: 2, View: ViewCity, SmokingAllowed: true, DistanceFromElevator: 8, BasePrice: 95, PricePerNight: 95},
		{ID: "r202", Number: "202", Type: RoomTypeDouble, Floor: 2, View: ViewGarden, DistanceFromElevator: 20, BasePrice: 125, PricePerNight: 125},
		{ID: "r301", Number: "301", Type: RoomTypeDouble, Floor: 3, View: ViewCity, DistanceFromElevator: 10, BasePrice: 130, PricePerNight: 130},
		{ID: "r302", Number: "302", Type: RoomTypeSingle, Floor: 3, View: ViewGarden, PetFriendly: true, DistanceFromElevator: 25, BasePrice: 100, PricePerNight: 100},
		{ID: "r401", Number: "401", Type: RoomTypeDouble, Floor: 4, View: ViewOcean, DistanceFromElevator: 15, BasePrice: 180, PricePerNight: 180},
		{ID: "r402", Number: "402", Type: RoomTypeDeluxe, Floor: 4, View: ViewCity, Accessible: true, DistanceFromElevator: 6, BasePrice: 220, PricePerNight: 220},
		{ID: "r501", Number: "501", Type: RoomTypeDouble, Floor: 5, View: ViewBeach, DistanceFromElevator: 18, BasePrice: 190, PricePerNight: 190},
		{ID: "r502", Number: "502", Type: RoomTypeSingle, Floor: 5, View: ViewCourtyard, SmokingAllowed: true, DistanceFromElevator: 4, BasePrice: 85, PricePerNight: 85},
		{ID: "r601", Number: "601", Type: RoomTypeDeluxe, Floor: 6, View: ViewOcean, DistanceFromElevator: 22, BasePrice: 260, PricePerNight: 260},
		{ID: "r602", Number: "602", Type: RoomTypeDouble, Floor: 6, View: ViewCity, DistanceFromElevator: 9, BasePrice: 150, PricePerNight: 150, Status: RoomMaintenance},
		{ID: "r701", Number: "701", Type: RoomTypeSuite, Floor: 7, View: ViewGarden, Accessible: true, DistanceFromElevator: 14, BasePrice: 320, PricePerNight: 320},
		{ID: "r801", Number: "801", Type: RoomTypeDeluxe, Floor: 8, View: ViewBeach, PetFriendly: true, DistanceFromElevator: 30, BasePrice: 280, PricePerNight: 280},
		{ID: "r802", Number: "802", Type: RoomTypeDouble, Floor: 8, View: ViewOcean, DistanceFromElevator: 11, BasePrice: 200, PricePerNight: 200, Status: RoomOccupied},
		{ID: "r901", Number: "901", Type: RoomTypeSuite, Floor: 9, View: ViewCity, DistanceFromElevator: 16, BasePrice: 350, PricePerNight: 350},
		{ID: "r1001", Number: "1001", Type: RoomTypeSuite, Floor: 10, View: ViewOcean, DistanceFromElevator: 24, BasePrice: 450, PricePerNight: 450},
		{ID: "r1002", Number: "1002", Type: RoomTypeDeluxe, Floor: 10, View: ViewOcean, SmokingAllowed: true, DistanceFromElevator: 7, BasePrice: 300, PricePerNight: 300},
		{ID: "r1101", Number: "1101", Type: RoomTypeDouble, Floor: 11, View: ViewCity, DistanceFromElevator: 13, BasePrice: 170, PricePerNight: 170},
		{ID: "r1201", Number: "1201", Type: RoomTypeSuite, Floor: 12, View: ViewOcean, Accessible: true, DistanceFromElevator: 19, BasePrice: 520, PricePerNight: 520},
	}
	for _, r := range rooms {
		if r.Status == "" {
			r.Status = RoomAvailable
		}
	}

	guests := []*Guest{
		{ID: "g1", Name: "Amara Okafor", VIPStatus: true, PreviousStays: 12, Preferences: Preferences{View: ViewPtr(ViewOcean), Floor: FloorPtr(FloorHigh)}},
		{ID: "g2", Name: "Daniel Reyes", PreviousStays: 2, BudgetMax: Float64Ptr(140), Preferences: Preferences{Smoking: Bool(false), Quiet: Bool(true)}},
		{ID: "g3", Name: "Priya Nair", PreviousStays: 7, Preferences: Preferences{Accessible: Bool(true), Floor: FloorPtr(FloorLow)}},
		{ID: "g4", Name: "Lukas Brandt", Preferences: Preferences{Smoking: Bool(true)}},
		{ID: "g5", Name: "Sofia Marchetti", VIPStatus: true, PreviousStays: 3, BudgetMax: Float64Ptr(400), Preferences: Preferences{View: ViewPtr(ViewOcean), Quiet: Bool(true)}},
		{ID: "g6", Name: "Kenji Watanabe", PreviousStays: 9, BudgetMax: Float64Ptr(200), Preferences: Preferences{View: ViewPtr(ViewBeach), Floor: FloorPtr(FloorMedium)}},
	}

	bookings := []*Booking{
		{ID: "b1", GuestID: "g1", CheckIn: day(10), CheckOut: day(14), RequestedRoomType: RoomTypeSuite},
		{ID: "b2", GuestID: "g2", CheckIn: day(10), CheckOut: day(12), RequestedRoomType: RoomTypeDouble},
		{ID: "b3", GuestID: "g3", CheckIn: day(11), CheckOut: day(15), RequestedRoomType: RoomTypeSingle},
		{ID: "b4", GuestID: "g4", CheckIn: day(11), CheckOut: day(13), RequestedRoomType: RoomTypeSingle},
		{ID: "b5", GuestID: "g5", CheckIn: day(12), CheckOut: day(16), RequestedRoomType: RoomTypeSuite},
		{ID: "b6", GuestID: "g6", CheckIn: day(12), CheckOut: day(14), RequestedRoomType: RoomTypeDouble},
	}

	return &Inventory{Rooms: rooms, Guests: guests, Bookings: bookings}
}
