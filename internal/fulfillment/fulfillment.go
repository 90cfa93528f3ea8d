// Package fulfillment implements the lifecycle of a single on-demand
// request (a taxi ride or a job task) as a small cyclic state machine:
//
//	Idle -> Searching -> Matched -> InProgress -> Completed -> Idle
//
// Submit is guarded by field validation; Searching -> Matched fires
// unconditionally after a fixed delay and binds a deterministic
// counterparty fixture (there is no real matching algorithm); Start and
// Complete are user-triggered; Completed -> Idle resets automatically.
// There is deliberately no cancellation path out of Searching, matching
// the product's current behavior.
//
// One order slot exists per (user, kind). Every transition, including a
// rejected Submit, emits exactly one notification through the configured
// Notifier.
package fulfillment

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// State is the position of an order in its lifecycle.
type State int

const (
	// Idle means no order is in flight; the slot accepts a Submit.
	Idle State = iota
	// Searching means an order was submitted and a counterparty is being
	// "found" (a fixed-delay simulation).
	Searching
	// Matched means a counterparty is bound and the user may start.
	Matched
	// InProgress means the ride/task is underway.
	InProgress
	// Completed is reached after the user finishes; the slot returns to
	// Idle automatically after the reset delay.
	Completed
)

// String implements fmt.Stringer with the wire names used in responses.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Matched:
		return "matched"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Kind selects the domain vocabulary of a slot.
type Kind string

const (
	// KindTaxi is a ride order matched with a driver fixture.
	KindTaxi Kind = "taxi"
	// KindJob is a task order matched with a worker fixture.
	KindJob Kind = "job"
)

// ParseKind validates a request path segment into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTaxi:
		return KindTaxi, nil
	case KindJob:
		return KindJob, nil
	default:
		return "", ErrUnknownKind
	}
}

// Counterparty is the driver/worker record bound to an order at the
// Matched transition. It is a static fixture, not the output of any
// matching algorithm; the ETA is a display string only.
type Counterparty struct {
	Name        string  `json:"name"`
	Detail      string  `json:"detail"` // vehicle for taxi, trade for jobs
	Rating      float64 `json:"rating"`
	ArrivalText string  `json:"arrival_text"`
}

// Order is the single in-flight request of one slot.
type Order struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Kind         Kind          `json:"kind"`
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	Tariff       string        `json:"tariff"`
	State        State         `json:"-"`
	StateName    string        `json:"state"`
	Counterparty *Counterparty `json:"counterparty,omitempty"`
	CreatedAt    time.Time     `json:"created_at,omitempty"`
}

// Notification is the transient message shown to the user after a
// transition.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier receives exactly one notification per state transition (and one
// per rejected Submit). Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(userID string, n Notification)
}

// Sentinel errors returned by Manager operations.
var (
	// ErrMissingFields rejects a Submit with a blank origin or destination.
	ErrMissingFields = errors.New("origin and destination are required")
	// ErrOrderActive rejects a Submit while the slot already holds a
	// non-idle order.
	ErrOrderActive = errors.New("an order is already in progress")
	// ErrInvalidTransition rejects Start/Complete from the wrong state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	// ErrUnknownKind rejects an unrecognized service kind.
	ErrUnknownKind = errors.New("unknown fulfillment kind")
)

var transitionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fulfillment_transitions_total",
		Help: "Total number of fulfillment state transitions.",
	},
	[]string{"kind", "state"},
)

func init() {
	prometheus.MustRegister(transitionsTotal)
}

// Config carries the fixed delays of the simulated external events.
type Config struct {
	// SearchDelay is the wall-clock time between Submit and the
	// unconditional Matched transition.
	SearchDelay time.Duration
	// ResetDelay is the time an order lingers in Completed before the
	// slot clears back to Idle.
	ResetDelay time.Duration
}

// slotKey identifies one order slot.
type slotKey struct {
	userID string
	kind   Kind
}

// slot holds the current order of one (user, kind) pair plus its pending
// timer, if any.
type slot struct {
	order Order
	timer Timer
}

// Manager owns all order slots. It is safe for concurrent use; every
// transition happens under the manager mutex so timer callbacks cannot race
// user actions.
type Manager struct {
	cfg      Config
	clock    Clock
	notifier Notifier

	mu    sync.Mutex
	slots map[slotKey]*slot
}

// NewManager builds a Manager. A nil clock falls back to the real clock;
// delays <= 0 fall back to 3 s, mirroring the product's fixed timings.
func NewManager(cfg Config, clock Clock, notifier Notifier) *Manager {
	if clock == nil {
		clock = NewRealClock()
	}
	if cfg.SearchDelay <= 0 {
		cfg.SearchDelay = 3 * time.Second
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = 3 * time.Second
	}
	return &Manager{
		cfg:      cfg,
		clock:    clock,
		notifier: notifier,
		slots:    make(map[slotKey]*slot),
	}
}

// Get returns the current order of the slot. An untouched slot reports an
// Idle order with empty fields.
func (m *Manager) Get(userID string, kind Kind) Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[slotKey{userID, kind}]; ok {
		return s.order
	}
	return Order{UserID: userID, Kind: kind, State: Idle, StateName: Idle.String()}
}

// Submit starts the lifecycle: Idle -> Searching. Origin and destination
// must both be non-empty or the transition is rejected with
// ErrMissingFields, the state stays Idle, and a single validation
// notification is emitted. A slot with a non-idle order rejects with
// ErrOrderActive.
func (m *Manager) Submit(userID string, kind Kind, origin, destination, tariff string) (Order, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	m.mu.Lock()
	defer m.mu.Unlock()

	key := slotKey{userID, kind}
	if s, ok := m.slots[key]; ok && s.order.State != Idle {
		return s.order, ErrOrderActive
	}

	if origin == "" || destination == "" {
		m.notify(userID, vocabFor(kind).validation)
		return Order{UserID: userID, Kind: kind, State: Idle, StateName: Idle.String()}, ErrMissingFields
	}

	o := Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Origin:      origin,
		Destination: destination,
		Tariff:      strings.TrimSpace(tariff),
		State:       Searching,
		StateName:   Searching.String(),
		CreatedAt:   time.Now().UTC(),
	}
	s := &slot{order: o}
	m.slots[key] = s

	m.recordTransition(userID, kind, Searching)
	s.timer = m.clock.AfterFunc(m.cfg.SearchDelay, func() { m.match(key, o.ID) })
	return o, nil
}

// Start moves Matched -> InProgress on user action.
func (m *Manager) Start(userID string, kind Kind) (Order, error) {
	return m.userTransition(userID, kind, Matched, InProgress)
}

// Complete moves InProgress -> Completed on user action and schedules the
// automatic reset back to Idle.
func (m *Manager) Complete(userID string, kind Kind) (Order, error) {
	o, err := m.userTransition(userID, kind, InProgress, Completed)
	if err != nil {
		return o, err
	}

	m.mu.Lock()
	key := slotKey{userID, kind}
	if s, ok := m.slots[key]; ok {
		s.timer = m.clock.AfterFunc(m.cfg.ResetDelay, func() { m.reset(key, o.ID) })
	}
	m.mu.Unlock()
	return o, nil
}

// userTransition performs a button-press transition from exactly one
// expected state.
func (m *Manager) userTransition(userID string, kind Kind, from, to State) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[slotKey{userID, kind}]
	if !ok || s.order.State != from {
		cur := Order{UserID: userID, Kind: kind, State: Idle, StateName: Idle.String()}
		if ok {
			cur = s.order
		}
		return cur, ErrInvalidTransition
	}
	s.order.State = to
	s.order.StateName = to.String()
	m.recordTransition(userID, kind, to)
	return s.order, nil
}

// match fires when the search delay elapses: Searching -> Matched with the
// kind's counterparty fixture bound. The order ID check makes a stale timer
// harmless if the slot was reused.
func (m *Manager) match(key slotKey, orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[key]
	if !ok || s.order.ID != orderID || s.order.State != Searching {
		return
	}
	cp := counterpartyFor(key.kind)
	s.order.State = Matched
	s.order.StateName = Matched.String()
	s.order.Counterparty = &cp
	m.recordTransition(key.userID, key.kind, Matched)
}

// reset fires when the reset delay elapses: Completed -> Idle with all
// request fields cleared.
func (m *Manager) reset(key slotKey, orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[key]
	if !ok || s.order.ID != orderID || s.order.State != Completed {
		return
	}
	s.order = Order{UserID: key.userID, Kind: key.kind, State: Idle, StateName: Idle.String()}
	m.recordTransition(key.userID, key.kind, Idle)
}

// recordTransition emits the per-transition notification and metric. Caller
// must hold m.mu.
func (m *Manager) recordTransition(userID string, kind Kind, to State) {
	transitionsTotal.WithLabelValues(string(kind), to.String()).Inc()
	log.Debug().
		Str("user_id", userID).
		Str("kind", string(kind)).
		Str("state", to.String()).
		Msg("fulfillment transition")
	m.notify(userID, vocabFor(kind).forState(to))
}

func (m *Manager) notify(userID string, n Notification) {
	if m.notifier != nil {
		m.notifier.Notify(userID, n)
	}
}
