package store

import (
	"context"
	"time"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
	RoomTypeDeluxe RoomType = "deluxe"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe:
		return true
	}
	return false
}

type View string

const (
	ViewOcean     View = "ocean"
	ViewCity      View = "city"
	ViewGarden    View = "garden"
	ViewCourtyard View = "courtyard"
	ViewBeach     View = "beach"
)

func (v View) Valid() bool {
	switch v {
	case ViewOcean, ViewCity, ViewGarden, ViewCourtyard, ViewBeach:
		return true
	}
	return false
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

// FloorBand is a coarse floor preference: low (1-3), medium (4-8), high (9+).
type FloorBand string

const (
	FloorLow    FloorBand = "low"
	FloorMedium FloorBand = "medium"
	FloorHigh   FloorBand = "high"
)

func (b FloorBand) Valid() bool {
	switch b {
	case FloorLow, FloorMedium, FloorHigh:
		return true
	}
	return false
}

// Room is hotel reference data. It is never mutated during an allocation run.
type Room struct {
	ID                   string     `json:"id" yaml:"id" validate:"required"`
	Number               string     `json:"number" yaml:"number"`
	Type                 RoomType   `json:"type" yaml:"type" validate:"enum"`
	Floor                int        `json:"floor" yaml:"floor" validate:"min=1"`
	View                 View       `json:"view" yaml:"view" validate:"enum"`
	Accessible           bool       `json:"accessible" yaml:"accessible"`
	SmokingAllowed       bool       `json:"smoking_allowed" yaml:"smoking_allowed"`
	PetFriendly          bool       `json:"pet_friendly" yaml:"pet_friendly"`
	DistanceFromElevator float64    `json:"distance_from_elevator" yaml:"distance_from_elevator"`
	BasePrice            float64    `json:"base_price" yaml:"base_price" validate:"min=0"`
	PricePerNight        float64    `json:"price_per_night" yaml:"price_per_night" validate:"min=0"`
	Status               RoomStatus `json:"status" yaml:"status" validate:"enum"`
}

// Preferences is sparse: a nil field means "no preference", which is not the
// same thing as an explicit false.
type Preferences struct {
	Accessible *bool      `json:"accessible,omitempty" yaml:"accessible,omitempty"`
	Smoking    *bool      `json:"smoking,omitempty" yaml:"smoking,omitempty"`
	View       *View      `json:"view,omitempty" yaml:"view,omitempty" validate:"omitempty,enum"`
	Floor      *FloorBand `json:"floor,omitempty" yaml:"floor,omitempty" validate:"omitempty,enum"`
	Quiet      *bool      `json:"quiet,omitempty" yaml:"quiet,omitempty"`
}

// RequiresAccessible reports an explicit accessibility requirement.
func (p Preferences) RequiresAccessible() bool {
	return p.Accessible != nil && *p.Accessible
}

// WantsQuiet reports an explicit quiet-location preference.
func (p Preferences) WantsQuiet() bool {
	return p.Quiet != nil && *p.Quiet
}

type Guest struct {
	ID            string      `json:"id" yaml:"id" validate:"required"`
	Name          string      `json:"name" yaml:"name"`
	VIPStatus     bool        `json:"vip_status" yaml:"vip_status"`
	PreviousStays int         `json:"previous_stays" yaml:"previous_stays" validate:"min=0"`
	BudgetMax     *float64    `json:"budget_max,omitempty" yaml:"budget_max,omitempty" validate:"omitempty,min=0"`
	Preferences   Preferences `json:"preferences" yaml:"preferences"`
}

type Booking struct {
	ID                string    `json:"id" yaml:"id" validate:"required"`
	GuestID           string    `json:"guest_id" yaml:"guest_id" validate:"required"`
	CheckIn           time.Time `json:"check_in" yaml:"check_in"`
	CheckOut          time.Time `json:"check_out" yaml:"check_out"`
	RequestedRoomType RoomType  `json:"requested_room_type" yaml:"requested_room_type" validate:"enum"`
	AssignedRoomID    string    `json:"assigned_room_id,omitempty" yaml:"assigned_room_id,omitempty"`
}

// TenantConstraintConfig binds a constraint template to a tenant.
// A nil Weight keeps the template default.
type TenantConstraintConfig struct {
	TenantID     string                 `json:"tenant_id" yaml:"tenant_id"`
	TemplateCode string                 `json:"template_code" yaml:"template_code"`
	Enabled      bool                   `json:"enabled" yaml:"enabled"`
	Weight       *int                   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Parameters   map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at" yaml:"-"`
}

type RoomFilter struct {
	Type   *RoomType
	Status *RoomStatus
}

type BookingFilter struct {
	IDs            []string
	UnassignedOnly bool
	CheckInFrom    *time.Time
	CheckInTo      *time.Time
	Limit          int
}

type Store interface {
	ListRooms(ctx context.Context, filter RoomFilter) ([]*Room, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
	UpsertRoom(ctx context.Context, room *Room) error

	GetGuest(ctx context.Context, id string) (*Guest, error)
	ListGuests(ctx context.Context, ids []string) (map[string]*Guest, error)
	UpsertGuest(ctx context.Context, guest *Guest) error

	ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	UpsertBooking(ctx context.Context, booking *Booking) error

	ListTenantConstraints(ctx context.Context, tenantID string) ([]*TenantConstraintConfig, error)
	UpsertTenantConstraint(ctx context.Context, cfg *TenantConstraintConfig) error

	Close() error
}

func Bool(v bool) *bool { return &v }
func ViewPtr(v View) *View { return &v }
func FloorPtr(b FloorBand) *FloorBand { return &b }
func Float64Ptr(v float64) *float64 { return &v }
func IntPtr(v int) *int { return &v }
