package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Concierge/internal/allocator"
	"github.com/MikeSquared-Agency/Concierge/internal/config"
	"github.com/MikeSquared-Agency/Concierge/internal/constraint"
	"github.com/MikeSquared-Agency/Concierge/internal/hermes"
	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrGuestNotFound     = errors.New("guest not found")
	ErrUnknownMethod     = errors.New("unknown allocation method")
	ErrBatchTooLarge     = errors.New("batch too large")
	ErrInvalidConstraint = errors.New("invalid constraint config")
)

// Broker is the service layer around the allocation engine. It sources
// records from the store, resolves tenant constraints, runs the allocator and
// reports outcomes as events and metrics. The engine itself stays pure.
type Broker struct {
	store      store.Store
	hermes     hermes.Client
	strategies scoring.Set
	registry   *constraint.Registry
	cfg        *config.Config
	logger     *slog.Logger
}

// New builds a broker. h may be nil, in which case no events are published.
func New(s store.Store, h hermes.Client, reg *constraint.Registry, cfg *config.Config, logger *slog.Logger) *Broker {
	strategies := scoring.NewSet(
		scoring.NewRuleScorer(cfg.Scoring.Rules),
		scoring.NewFeatureScorer(cfg.Scoring.Features, cfg.Scoring.Scale),
	)
	return &Broker{
		store:      s,
		hermes:     h,
		strategies: strategies,
		registry:   reg,
		cfg:        cfg,
		logger:     logger,
	}
}

// AllocateRequest allocates one booking, either stored (BookingID) or inline.
// Inline Guest and Rooms override the store.
type AllocateRequest struct {
	BookingID string         `json:"booking_id" validate:"required_without=Booking"`
	Booking   *store.Booking `json:"booking,omitempty"`
	Guest     *store.Guest   `json:"guest,omitempty"`
	Rooms     []*store.Room  `json:"rooms,omitempty" validate:"omitempty,dive,required"`
	Method    string         `json:"method,omitempty"`
}

// BatchRequest allocates a set of bookings. With neither BookingIDs nor
// inline Bookings, every unassigned stored booking is allocated.
type BatchRequest struct {
	BookingIDs []string         `json:"booking_ids,omitempty"`
	Bookings   []*store.Booking `json:"bookings,omitempty" validate:"omitempty,dive,required"`
	Guests     []*store.Guest   `json:"guests,omitempty" validate:"omitempty,dive,required"`
	Rooms      []*store.Room    `json:"rooms,omitempty" validate:"omitempty,dive,required"`
	Method     string           `json:"method,omitempty"`
}

type BatchResult struct {
	RunID          string                       `json:"run_id"`
	TenantID       string                       `json:"tenant_id"`
	Method         string                       `json:"method"`
	Results        []allocator.AllocationResult `json:"results"`
	Summary        allocator.BatchSummary       `json:"summary"`
	Score          constraint.HardSoftScore     `json:"score"`
	ScoreLabel     string                       `json:"score_label"`
	HardViolations []constraint.Match           `json:"hard_violations"`
	DurationMs     float64                      `json:"duration_ms"`
}

// StrategyInfo describes an available allocation method.
type StrategyInfo struct {
	Method  string `json:"method"`
	Version string `json:"version"`
}

// Methods returns every allocation method the broker can run, sorted.
func (b *Broker) Methods() []string {
	methods := append(b.strategies.Methods(), constraint.MethodConstraintBased)
	sort.Strings(methods)
	return methods
}

func (b *Broker) Strategies() []StrategyInfo {
	var out []StrategyInfo
	for _, m := range b.Methods() {
		info := StrategyInfo{Method: m}
		switch m {
		case scoring.MethodRuleBased:
			info.Version = b.cfg.Scoring.Rules.Version
		case scoring.MethodFeatureWeighted:
			info.Version = b.cfg.Scoring.Features.Version
		case constraint.MethodConstraintBased:
			info.Version = "tenant"
		}
		out = append(out, info)
	}
	return out
}

// Strategy resolves method for tenant. The constraint-based strategy is
// built from the tenant's current constraint configuration.
func (b *Broker) Strategy(ctx context.Context, tenant, method string) (scoring.Strategy, error) {
	if method == constraint.MethodConstraintBased {
		active, err := b.tenantActive(ctx, tenant)
		if err != nil {
			return nil, err
		}
		return constraint.NewScorer(active), nil
	}
	st, err := b.strategies.ByMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return st, nil
}

func (b *Broker) tenantActive(ctx context.Context, tenant string) ([]constraint.Active, error) {
	configs, err := b.store.ListTenantConstraints(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("load tenant constraints: %w", err)
	}
	active, err := b.registry.Resolve(configs)
	if err != nil {
		return nil, fmt.Errorf("%w: tenant %s: %v", ErrInvalidConstraint, tenant, err)
	}
	return active, nil
}

// AllocateOne allocates a single booking without touching other bookings.
func (b *Broker) AllocateOne(ctx context.Context, tenant string, req AllocateRequest) (*allocator.AllocationResult, error) {
	method := req.Method
	if method == "" {
		method = b.cfg.Allocation.DefaultMethod
	}
	st, err := b.Strategy(ctx, tenant, method)
	if err != nil {
		return nil, err
	}

	booking := req.Booking
	if booking == nil {
		bookings, err := b.store.ListBookings(ctx, store.BookingFilter{IDs: []string{req.BookingID}})
		if err != nil {
			return nil, fmt.Errorf("load booking: %w", err)
		}
		if len(bookings) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, req.BookingID)
		}
		booking = bookings[0]
	}

	guest := req.Guest
	if guest == nil {
		guest, err = b.store.GetGuest(ctx, booking.GuestID)
		if err != nil {
			return nil, fmt.Errorf("load guest: %w", err)
		}
		if guest == nil {
			return nil, fmt.Errorf("%w: %s", ErrGuestNotFound, booking.GuestID)
		}
	}

	rooms := req.Rooms
	if rooms == nil {
		rooms, err = b.store.ListRooms(ctx, store.RoomFilter{})
		if err != nil {
			return nil, fmt.Errorf("load rooms: %w", err)
		}
	}

	res := allocator.New(st).Allocate(booking, guest, rooms)
	RecordAllocation(res)
	b.publishResult(uuid.New().String(), tenant, res)

	b.logger.Info("booking allocated",
		"tenant", tenant,
		"booking_id", booking.ID,
		"method", res.Method,
		"assigned", res.Assigned(),
		"score", res.Score,
	)
	return &res, nil
}

type batchInput struct {
	bookings []*store.Booking
	guests   map[string]*store.Guest
	rooms    []*store.Room
}

func (b *Broker) loadBatch(ctx context.Context, req BatchRequest) (*batchInput, error) {
	in := &batchInput{bookings: req.Bookings, rooms: req.Rooms}

	if in.bookings == nil {
		filter := store.BookingFilter{IDs: req.BookingIDs}
		if len(req.BookingIDs) == 0 {
			filter.UnassignedOnly = true
		}
		bookings, err := b.store.ListBookings(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
		in.bookings = bookings
	}
	if max := b.cfg.Allocation.MaxBatchSize; max > 0 && len(in.bookings) > max {
		return nil, fmt.Errorf("%w: %d bookings, max %d", ErrBatchTooLarge, len(in.bookings), max)
	}

	if req.Guests != nil {
		in.guests = make(map[string]*store.Guest, len(req.Guests))
		for _, g := range req.Guests {
			in.guests[g.ID] = g
		}
	} else {
		seen := make(map[string]bool)
		var ids []string
		for _, bk := range in.bookings {
			if !seen[bk.GuestID] {
				seen[bk.GuestID] = true
				ids = append(ids, bk.GuestID)
			}
		}
		guests, err := b.store.ListGuests(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load guests: %w", err)
		}
		in.guests = guests
	}
	for _, bk := range in.bookings {
		if in.guests[bk.GuestID] == nil {
			b.logger.Warn("booking skipped, unknown guest", "booking_id", bk.ID, "guest_id", bk.GuestID)
		}
	}

	if in.rooms == nil {
		rooms, err := b.store.ListRooms(ctx, store.RoomFilter{})
		if err != nil {
			return nil, fmt.Errorf("load rooms: %w", err)
		}
		in.rooms = rooms
	}
	return in, nil
}

// runBatch allocates in and scores the outcome against active.
func runBatch(tenant string, st scoring.Strategy, in *batchInput, active []constraint.Active) *BatchResult {
	start := time.Now()
	results := allocator.New(st).AllocateBatch(in.bookings, in.guests, in.rooms)
	elapsed := time.Since(start)

	entities := make([]*constraint.Entity, 0, len(results))
	for _, r := range results {
		entities = append(entities, &constraint.Entity{
			Booking: r.Booking,
			Guest:   in.guests[r.Booking.GuestID],
			Room:    r.AssignedRoom,
		})
	}
	ev := constraint.Evaluate(entities, in.rooms, active)
	violations := ev.HardViolations()
	if violations == nil {
		violations = []constraint.Match{}
	}

	return &BatchResult{
		TenantID:       tenant,
		Method:         st.Method(),
		Results:        results,
		Summary:        allocator.Summarize(results),
		Score:          ev.Score,
		ScoreLabel:     ev.Score.String(),
		HardViolations: violations,
		DurationMs:     float64(elapsed.Microseconds()) / 1000,
	}
}

// AllocateBatch runs one batch allocation and publishes its outcome.
func (b *Broker) AllocateBatch(ctx context.Context, tenant string, req BatchRequest) (*BatchResult, error) {
	method := req.Method
	if method == "" {
		method = b.cfg.Allocation.BatchMethod
	}
	st, err := b.Strategy(ctx, tenant, method)
	if err != nil {
		return nil, err
	}
	active, err := b.tenantActive(ctx, tenant)
	if err != nil {
		return nil, err
	}
	in, err := b.loadBatch(ctx, req)
	if err != nil {
		return nil, err
	}

	res := runBatch(tenant, st, in, active)
	res.RunID = uuid.New().String()

	RecordBatch(res.Method, time.Duration(res.DurationMs*float64(time.Millisecond)))
	RecordHardViolations(tenant, len(res.HardViolations))
	for _, r := range res.Results {
		RecordAllocation(r)
		b.publishResult(res.RunID, tenant, r)
	}
	b.publish(hermes.SubjectAllocationCompleted(res.RunID), hermes.AllocationCompletedEvent{
		RunID:      res.RunID,
		TenantID:   tenant,
		Method:     res.Method,
		Total:      res.Summary.Total,
		Assigned:   res.Summary.Assigned,
		Unassigned: res.Summary.Unassigned,
		AvgScore:   res.Summary.AvgScore,
		HardScore:  res.Score.Hard,
		SoftScore:  res.Score.Soft,
		DurationMs: res.DurationMs,
		Timestamp:  time.Now().UTC(),
	})

	b.logger.Info("batch allocation completed",
		"run_id", res.RunID,
		"tenant", tenant,
		"method", res.Method,
		"total", res.Summary.Total,
		"assigned", res.Summary.Assigned,
		"score", res.ScoreLabel,
		"duration_ms", res.DurationMs,
	)
	return res, nil
}

// Compare runs every method against the same inputs. Nothing is published.
func (b *Broker) Compare(ctx context.Context, tenant string, req BatchRequest) ([]*BatchResult, error) {
	active, err := b.tenantActive(ctx, tenant)
	if err != nil {
		return nil, err
	}
	in, err := b.loadBatch(ctx, req)
	if err != nil {
		return nil, err
	}

	var out []*BatchResult
	for _, m := range b.Methods() {
		st, err := b.Strategy(ctx, tenant, m)
		if err != nil {
			return nil, err
		}
		out = append(out, runBatch(tenant, st, in, active))
	}
	return out, nil
}

// Explanation is the per-room score breakdown for one booking.
type Explanation struct {
	BookingID  string                     `json:"booking_id"`
	Method     string                     `json:"method"`
	Candidates []allocator.CandidateScore `json:"candidates"`
}

// Explain scores every candidate room for a stored booking in candidate order.
// Nothing is assigned or published.
func (b *Broker) Explain(ctx context.Context, tenant, bookingID, method string) (*Explanation, error) {
	if method == "" {
		method = b.cfg.Allocation.DefaultMethod
	}
	st, err := b.Strategy(ctx, tenant, method)
	if err != nil {
		return nil, err
	}
	bookings, err := b.store.ListBookings(ctx, store.BookingFilter{IDs: []string{bookingID}})
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	booking := bookings[0]
	guest, err := b.store.GetGuest(ctx, booking.GuestID)
	if err != nil {
		return nil, fmt.Errorf("load guest: %w", err)
	}
	if guest == nil {
		return nil, fmt.Errorf("%w: %s", ErrGuestNotFound, booking.GuestID)
	}
	rooms, err := b.store.ListRooms(ctx, store.RoomFilter{})
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	return &Explanation{
		BookingID:  booking.ID,
		Method:     st.Method(),
		Candidates: allocator.New(st).Explain(booking, guest, rooms),
	}, nil
}

// GuestConstraints summarizes what an allocation must and should honor for a
// stored guest.
func (b *Broker) GuestConstraints(ctx context.Context, guestID string) (*allocator.AllocationConstraints, error) {
	guest, err := b.store.GetGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("load guest: %w", err)
	}
	if guest == nil {
		return nil, fmt.Errorf("%w: %s", ErrGuestNotFound, guestID)
	}
	c := allocator.GetConstraints(guest)
	return &c, nil
}

// Templates lists the registered constraint templates, hard first.
func (b *Broker) Templates() []constraint.Template {
	return b.registry.Templates()
}

// TenantConstraint is one template as configured for a tenant.
type TenantConstraint struct {
	constraint.Template
	Enabled bool              `json:"enabled"`
	Weight  int               `json:"weight"`
	Params  constraint.Params `json:"parameters"`
}

// TenantConstraints lists every template with the tenant's effective
// settings, hard templates first.
func (b *Broker) TenantConstraints(ctx context.Context, tenant string) ([]TenantConstraint, error) {
	configs, err := b.store.ListTenantConstraints(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("load tenant constraints: %w", err)
	}
	active, err := b.registry.Resolve(configs)
	if err != nil {
		return nil, fmt.Errorf("%w: tenant %s: %v", ErrInvalidConstraint, tenant, err)
	}

	enabled := make(map[string]constraint.Active, len(active))
	for _, a := range active {
		enabled[a.Template.Code] = a
	}
	disabled := make(map[string]*store.TenantConstraintConfig)
	for _, c := range configs {
		if !c.Enabled {
			disabled[c.TemplateCode] = c
		}
	}

	var out []TenantConstraint
	for _, t := range b.registry.Templates() {
		if a, ok := enabled[t.Code]; ok {
			out = append(out, TenantConstraint{Template: t, Enabled: true, Weight: a.Weight, Params: a.Params})
			continue
		}
		tc := TenantConstraint{Template: t, Weight: t.DefaultWeight}
		if c := disabled[t.Code]; c != nil && c.Weight != nil {
			tc.Weight = *c.Weight
		}
		out = append(out, tc)
	}
	return out, nil
}

// UpdateTenantConstraint validates and stores one tenant binding.
func (b *Broker) UpdateTenantConstraint(ctx context.Context, tenant, code string, cfg *store.TenantConstraintConfig) (*store.TenantConstraintConfig, error) {
	cfg.TenantID = tenant
	cfg.TemplateCode = code
	if err := b.registry.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConstraint, err)
	}
	if err := b.store.UpsertTenantConstraint(ctx, cfg); err != nil {
		return nil, fmt.Errorf("store tenant constraint: %w", err)
	}

	b.publish(hermes.SubjectConstraintsUpdated(tenant), hermes.ConstraintsUpdatedEvent{
		TenantID:     tenant,
		TemplateCode: code,
		Enabled:      cfg.Enabled,
		Weight:       cfg.Weight,
	})
	b.logger.Info("tenant constraint updated", "tenant", tenant, "code", code, "enabled", cfg.Enabled)
	return cfg, nil
}

// SetupSubscriptions runs batch allocations requested over NATS.
func (b *Broker) SetupSubscriptions() {
	if b.hermes == nil {
		return
	}
	err := b.hermes.Subscribe(hermes.SubjectAllocationRequest, func(_ string, data []byte) {
		var req hermes.AllocationRequestEvent
		if err := json.Unmarshal(data, &req); err != nil {
			b.logger.Error("invalid allocation request", "error", err)
			return
		}
		b.handleAllocationRequest(context.Background(), req)
	})
	if err != nil {
		b.logger.Error("failed to subscribe", "subject", hermes.SubjectAllocationRequest, "error", err)
	}
}

func (b *Broker) handleAllocationRequest(ctx context.Context, req hermes.AllocationRequestEvent) {
	tenant := req.TenantID
	if tenant == "" {
		tenant = b.cfg.Tenant.Default
	}
	res, err := b.AllocateBatch(ctx, tenant, BatchRequest{BookingIDs: req.BookingIDs, Method: req.Method})
	if err != nil {
		b.logger.Error("requested allocation failed", "tenant", tenant, "source", req.Source, "error", err)
		return
	}
	b.logger.Debug("requested allocation done", "run_id", res.RunID, "source", req.Source)
}

func (b *Broker) publishResult(runID, tenant string, res allocator.AllocationResult) {
	if res.Assigned() {
		b.publish(hermes.SubjectBookingAllocated(res.Booking.ID), hermes.BookingAllocatedEvent{
			RunID:     runID,
			TenantID:  tenant,
			BookingID: res.Booking.ID,
			GuestID:   res.Booking.GuestID,
			RoomID:    res.AssignedRoom.ID,
			Score:     res.Score,
			Method:    res.Method,
			Reasons:   res.Reasons,
		})
		return
	}
	b.publish(hermes.SubjectBookingUnallocated(res.Booking.ID), hermes.BookingUnallocatedEvent{
		RunID:     runID,
		TenantID:  tenant,
		BookingID: res.Booking.ID,
		GuestID:   res.Booking.GuestID,
		Method:    res.Method,
		Reasons:   res.Reasons,
	})
}

func (b *Broker) publish(subject string, data interface{}) {
	if b.hermes == nil {
		return
	}
	if err := b.hermes.Publish(subject, data); err != nil {
		b.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}
