package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const roomColumns = `id, number, room_type, floor, view, accessible, smoking_allowed, pet_friendly,
	distance_from_elevator, base_price, price_per_night, status`

func scanRoom(row pgx.Row) (*Room, error) {
	r := &Room{}
	err := row.Scan(
		&r.ID, &r.Number, &r.Type, &r.Floor, &r.View, &r.Accessible, &r.SmokingAllowed, &r.PetFriendly,
		&r.DistanceFromElevator, &r.BasePrice, &r.PricePerNight, &r.Status,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func roomsQuery(filter RoomFilter) (string, []interface{}, error) {
	q := psql.Select(roomColumns).From("hotel_rooms")
	if filter.Type != nil {
		q = q.Where(sq.Eq{"room_type": *filter.Type})
	}
	if filter.Status != nil {
		q = q.Where(sq.Eq{"status": *filter.Status})
	}
	// Candidate order drives tie-breaking, so it must be stable.
	return q.OrderBy("floor", "number").ToSql()
}

func (s *PostgresStore) ListRooms(ctx context.Context, filter RoomFilter) ([]*Room, error) {
	query, args, err := roomsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build rooms query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *PostgresStore) GetRoom(ctx context.Context, id string) (*Room, error) {
	r, err := scanRoom(s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM hotel_rooms WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) UpsertRoom(ctx context.Context, r *Room) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hotel_rooms (`+roomColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			room_type = EXCLUDED.room_type,
			floor = EXCLUDED.floor,
			view = EXCLUDED.view,
			accessible = EXCLUDED.accessible,
			smoking_allowed = EXCLUDED.smoking_allowed,
			pet_friendly = EXCLUDED.pet_friendly,
			distance_from_elevator = EXCLUDED.distance_from_elevator,
			base_price = EXCLUDED.base_price,
			price_per_night = EXCLUDED.price_per_night,
			status = EXCLUDED.status,
			updated_at = now()`,
		r.ID, r.Number, r.Type, r.Floor, r.View, r.Accessible, r.SmokingAllowed, r.PetFriendly,
		r.DistanceFromElevator, r.BasePrice, r.PricePerNight, r.Status,
	)
	return err
}

const guestColumns = `id, name, vip_status, previous_stays, budget_max, preferences`

func scanGuest(row pgx.Row) (*Guest, error) {
	g := &Guest{}
	var prefsJSON []byte
	if err := row.Scan(&g.ID, &g.Name, &g.VIPStatus, &g.PreviousStays, &g.BudgetMax, &prefsJSON); err != nil {
		return nil, err
	}
	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &g.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences for guest %s: %w", g.ID, err)
		}
	}
	return g, nil
}

func (s *PostgresStore) GetGuest(ctx context.Context, id string) (*Guest, error) {
	g, err := scanGuest(s.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM hotel_guests WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *PostgresStore) ListGuests(ctx context.Context, ids []string) (map[string]*Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM hotel_guests`
	var args []interface{}
	if len(ids) > 0 {
		query += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	guests := make(map[string]*Guest)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests[g.ID] = g
	}
	return guests, rows.Err()
}

func (s *PostgresStore) UpsertGuest(ctx context.Context, g *Guest) error {
	prefsJSON, err := json.Marshal(g.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO hotel_guests (`+guestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			vip_status = EXCLUDED.vip_status,
			previous_stays = EXCLUDED.previous_stays,
			budget_max = EXCLUDED.budget_max,
			preferences = EXCLUDED.preferences,
			updated_at = now()`,
		g.ID, g.Name, g.VIPStatus, g.PreviousStays, g.BudgetMax, prefsJSON,
	)
	return err
}

const bookingColumns = `id, guest_id, check_in, check_out, requested_room_type, assigned_room_id`

func bookingsQuery(filter BookingFilter) (string, []interface{}, error) {
	q := psql.Select(bookingColumns).From("hotel_bookings")
	if len(filter.IDs) > 0 {
		q = q.Where("id = ANY(?)", filter.IDs)
	}
	if filter.UnassignedOnly {
		q = q.Where(sq.Eq{"assigned_room_id": nil})
	}
	if filter.CheckInFrom != nil {
		q = q.Where(sq.GtOrEq{"check_in": *filter.CheckInFrom})
	}
	if filter.CheckInTo != nil {
		q = q.Where(sq.Lt{"check_in": *filter.CheckInTo})
	}
	q = q.OrderBy("created_at", "id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return q.ToSql()
}

func (s *PostgresStore) ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error) {
	query, args, err := bookingsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build bookings query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b := &Booking{}
		var assigned *string
		if err := rows.Scan(&b.ID, &b.GuestID, &b.CheckIn, &b.CheckOut, &b.RequestedRoomType, &assigned); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if assigned != nil {
			b.AssignedRoomID = *assigned
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *PostgresStore) UpsertBooking(ctx context.Context, b *Booking) error {
	var assigned *string
	if b.AssignedRoomID != "" {
		assigned = &b.AssignedRoomID
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hotel_bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			guest_id = EXCLUDED.guest_id,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			requested_room_type = EXCLUDED.requested_room_type,
			assigned_room_id = EXCLUDED.assigned_room_id,
			updated_at = now()`,
		b.ID, b.GuestID, b.CheckIn, b.CheckOut, b.RequestedRoomType, assigned,
	)
	return err
}

func (s *PostgresStore) ListTenantConstraints(ctx context.Context, tenantID string) ([]*TenantConstraintConfig, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tenant_id, template_code, enabled, weight, parameters, updated_at
		FROM tenant_constraint_configs
		WHERE tenant_id = $1
		ORDER BY template_code`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list tenant constraints: %w", err)
	}
	defer rows.Close()

	var configs []*TenantConstraintConfig
	for rows.Next() {
		c := &TenantConstraintConfig{}
		var paramsJSON []byte
		if err := rows.Scan(&c.TenantID, &c.TemplateCode, &c.Enabled, &c.Weight, &paramsJSON, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant constraint: %w", err)
		}
		if len(paramsJSON) > 0 {
			if err := json.Unmarshal(paramsJSON, &c.Parameters); err != nil {
				return nil, fmt.Errorf("decode parameters for %s: %w", c.TemplateCode, err)
			}
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (s *PostgresStore) UpsertTenantConstraint(ctx context.Context, c *TenantConstraintConfig) error {
	paramsJSON, err := json.Marshal(c.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO tenant_constraint_configs (tenant_id, template_code, enabled, weight, parameters)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, template_code) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			weight = EXCLUDED.weight,
			parameters = EXCLUDED.parameters,
			updated_at = now()
		RETURNING updated_at`,
		c.TenantID, c.TemplateCode, c.Enabled, c.Weight, paramsJSON,
	).Scan(&c.UpdatedAt)
}
