package trip

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/evrider/rideassist/internal/geocode"
)

// State is the planner lifecycle state.
type State string

// Planner states.
const (
	// StateIdle: no vehicle selected.
	StateIdle State = "idle"
	// StateCollecting: a vehicle is selected but parameters are still being
	// gathered; the parameter form is surfaced.
	StateCollecting State = "collecting"
	// StatePredicting: a prediction request is in flight.
	StatePredicting State = "predicting"
	// StateReady: a prediction result is available.
	StateReady State = "ready"
)

// End identifies a trip endpoint.
type End string

// Trip endpoints.
const (
	EndFrom End = "from"
	EndTo   End = "to"
)

// DefaultDebounce is the delay between a qualifying parameter edit and the
// automatic prediction it schedules.
const DefaultDebounce = 500 * time.Millisecond

// PlannerConfig holds configuration for a trip planner session.
type PlannerConfig struct {
	// Backend is the fleet data gateway (required).
	Backend Backend

	// Resolver computes route distances (required).
	Resolver RouteResolver

	// Logger for planner operations.
	Logger zerolog.Logger

	// Debounce is the auto-prediction delay (default: 500ms).
	Debounce time.Duration
}

// Planner is a single trip-planning session. Selecting a vehicle auto-fills
// parameters from its latest telemetry, completing the parameters triggers a
// debounced prediction, and a failed backend call falls back to the local
// estimator so the session always ends up with a result.
//
// All state is owned by the session; methods are safe for concurrent use but
// updates apply in completion order, not dispatch order.
type Planner struct {
	backend  Backend
	resolver RouteResolver
	logger   zerolog.Logger
	debounce time.Duration

	mu          sync.Mutex
	state       State
	vehicleID   string
	from        string
	to          string
	route       RouteEndpoints
	params      Params
	editMode    bool
	formVisible bool
	result      *Prediction
	pending     *time.Timer
}

// NewPlanner creates a new trip planner session.
func NewPlanner(cfg PlannerConfig) *Planner {
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	return &Planner{
		backend:  cfg.Backend,
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
		debounce: debounce,
		state:    StateIdle,
	}
}

// SelectVehicle switches the session to a vehicle. An empty or "default" id
// deselects: the result is cleared but parameter edits made so far are kept.
//
// Outside edit mode the vehicle's latest telemetry is fetched and merged into
// the parameters (existing values win, auto-fill only populates empty
// fields); if that completes the parameters and both endpoints are set, a
// prediction runs immediately. In edit mode the parameter form is always
// surfaced so previous values can be reviewed before resubmitting.
func (p *Planner) SelectVehicle(ctx context.Context, vehicleID string) {
	p.mu.Lock()

	if vehicleID == "" || vehicleID == "default" {
		p.vehicleID = ""
		p.result = nil
		p.state = StateIdle
		p.formVisible = false
		p.mu.Unlock()
		return
	}

	p.vehicleID = vehicleID

	if p.editMode {
		p.state = StateCollecting
		p.formVisible = true
		p.mu.Unlock()
		return
	}

	route := p.route
	p.mu.Unlock()

	tel, err := p.backend.LatestTelemetry(ctx, vehicleID, route)

	p.mu.Lock()
	if err != nil {
		p.logger.Warn().Err(err).
			Str("vehicle_id", vehicleID).
			Msg("latest telemetry unavailable, falling back to manual entry")
		p.params = applyDefaults(p.params)
		p.state = StateCollecting
		p.formVisible = true
		p.mu.Unlock()
		return
	}

	p.params = mergeTelemetry(p.params, tel)

	if p.params.Complete() && p.from != "" && p.to != "" {
		params := p.params
		p.state = StatePredicting
		p.mu.Unlock()
		p.runPredict(ctx, vehicleID, params)
		return
	}

	p.state = StateCollecting
	p.formVisible = true
	p.mu.Unlock()
}

// SetLocation records a place chosen from the suggestion list for one trip
// endpoint. In edit mode, changing either endpoint discards the now-stale
// prediction. Once both endpoints have names the route is resolved and its
// distance overwrites any manually entered distance; a resolution failure is
// logged and leaves prior route state untouched.
func (p *Planner) SetLocation(ctx context.Context, end End, place geocode.Place) {
	p.mu.Lock()

	if p.editMode && p.result != nil {
		p.result = nil
		p.state = StateCollecting
	}

	coord := place.Coordinate()
	switch end {
	case EndFrom:
		p.from = place.DisplayName
		p.route.From = &coord
	case EndTo:
		p.to = place.DisplayName
		p.route.To = &coord
	}

	from, to := p.from, p.to
	p.mu.Unlock()

	if from == "" || to == "" {
		return
	}

	route, err := p.resolver.Resolve(ctx, from, to)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("from", from).
			Str("to", to).
			Msg("route resolution failed, keeping prior route state")
		return
	}

	p.mu.Lock()
	p.route = RouteEndpoints{From: &route.From, To: &route.To}
	// Freshly computed route distance is authoritative over manual entry.
	p.params.DistanceKm = route.DistanceKm
	p.mu.Unlock()
}

// FieldEdit carries a single-field (or multi-field) parameter update from
// the form. Nil fields are left untouched.
type FieldEdit struct {
	DistanceKm     *float64
	Traffic        *TrafficLevel
	TemperatureC   *float64
	BatteryPercent *float64
}

// EditParams applies a form edit. Outside edit mode, an edit that leaves the
// parameters complete (with a vehicle and both endpoints set) schedules one
// automatic prediction after the debounce delay; a pending schedule is reset
// rather than stacked, so a burst of edits fires a single request.
func (p *Planner) EditParams(ctx context.Context, edit FieldEdit) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if edit.DistanceKm != nil {
		p.params.DistanceKm = *edit.DistanceKm
	}
	if edit.Traffic != nil {
		p.params.Traffic = *edit.Traffic
	}
	if edit.TemperatureC != nil {
		v := *edit.TemperatureC
		p.params.TemperatureC = &v
	}
	if edit.BatteryPercent != nil {
		p.params.BatteryPercent = *edit.BatteryPercent
	}

	if p.editMode || p.vehicleID == "" || p.from == "" || p.to == "" || !p.params.Complete() {
		return
	}

	if p.pending != nil {
		p.pending.Stop()
	}

	vehicleID := p.vehicleID
	params := p.params
	p.state = StatePredicting
	p.pending = time.AfterFunc(p.debounce, func() {
		p.runPredict(context.WithoutCancel(ctx), vehicleID, params)
	})
}

// Predict is the manual prediction trigger. It requires a selected vehicle
// and both endpoints; otherwise a validation error is returned and no
// request is sent.
func (p *Planner) Predict(ctx context.Context) error {
	p.mu.Lock()
	if p.vehicleID == "" {
		p.mu.Unlock()
		return ErrNoVehicle
	}
	if p.from == "" || p.to == "" {
		p.mu.Unlock()
		return ErrMissingLocations
	}

	vehicleID := p.vehicleID
	params := p.params
	p.state = StatePredicting
	p.mu.Unlock()

	p.runPredict(ctx, vehicleID, params)
	return nil
}

// EnterEditMode re-opens the parameter form for revision. The current result
// stays visible until the user actually changes an endpoint.
func (p *Planner) EnterEditMode() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editMode = true
	p.formVisible = true
}

// runPredict calls the backend and stores the result; a backend failure is
// logged and replaced by the local estimate so the session always reaches
// StateReady with some prediction.
func (p *Planner) runPredict(ctx context.Context, vehicleID string, params Params) {
	pred, err := p.backend.Predict(ctx, vehicleID, params)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("vehicle_id", vehicleID).
			Msg("prediction backend failed, using local estimate")
		est := Estimate(vehicleID, params)
		pred = &est
	}

	p.mu.Lock()
	p.result = pred
	p.state = StateReady
	p.editMode = false
	p.formVisible = false
	p.mu.Unlock()
}

// View is a read-only snapshot of the session for rendering.
type View struct {
	State       State          `json:"state"`
	VehicleID   string         `json:"vehicleId"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Route       RouteEndpoints `json:"route"`
	Params      Params         `json:"params"`
	EditMode    bool           `json:"editMode"`
	FormVisible bool           `json:"formVisible"`
	Result      *Prediction    `json:"result,omitempty"`
}

// Snapshot returns the current session view.
func (p *Planner) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := View{
		State:       p.state,
		VehicleID:   p.vehicleID,
		From:        p.from,
		To:          p.to,
		Route:       p.route,
		Params:      p.params,
		EditMode:    p.editMode,
		FormVisible: p.formVisible,
	}
	if p.result != nil {
		result := *p.result
		view.Result = &result
	}
	return view
}

// mergeTelemetry fills empty parameter fields from telemetry. Values the
// user already entered always win over auto-fill.
func mergeTelemetry(p Params, t Telemetry) Params {
	if p.DistanceKm <= 0 && t.DistanceKm != nil {
		p.DistanceKm = *t.DistanceKm
	}
	if p.Traffic == "" && t.Traffic != "" {
		p.Traffic = t.Traffic
	}
	if p.TemperatureC == nil && t.TemperatureC != nil {
		v := *t.TemperatureC
		p.TemperatureC = &v
	}
	if p.BatteryPercent <= 0 && t.SOC != nil {
		p.BatteryPercent = *t.SOC
	}
	return p
}

// applyDefaults fills the fields that have safe assumptions when telemetry
// is unavailable; distance and battery stay empty for the user to enter.
func applyDefaults(p Params) Params {
	if p.Traffic == "" {
		p.Traffic = TrafficLow
	}
	if p.TemperatureC == nil {
		v := 25.0
		p.TemperatureC = &v
	}
	return p
}
