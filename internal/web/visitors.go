// Package web keeps the per-browser state of the frontend: each visitor
// has its own session, API client and booking flow.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/clock"
	"github.com/iliyamo/bus-booking-frontend/internal/flow"
	"github.com/iliyamo/bus-booking-frontend/internal/metrics"
	"github.com/iliyamo/bus-booking-frontend/internal/queue"
	"github.com/iliyamo/bus-booking-frontend/internal/session"
)

// Settings configures the visitors created by a Registry.
type Settings struct {
	APIBaseURL    string
	APITimeout    time.Duration
	HTTPClient    *http.Client // overrides APITimeout when set
	PaymentDelay  time.Duration
	RedirectDelay time.Duration
	SessionPrefix string
	SessionTTL    time.Duration
	IdleTTL       time.Duration
	Clock         clock.Clock
}

// Visitor is one browser session.
type Visitor struct {
	ID      string
	Session *session.Store
	API     *apiclient.Client
	Flow    *flow.Controller

	mu       sync.Mutex
	lastSeen time.Time
}

func (v *Visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *Visitor) idleSince() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Registry owns the visitors of the server process.
type Registry struct {
	settings Settings
	rdb      *redis.Client
	events   queue.EventPublisher
	log      *slog.Logger

	mu       sync.Mutex
	visitors map[string]*Visitor
}

// NewRegistry returns an empty registry.  rdb may be nil, in which case
// tokens live in memory only.  events may be nil to disable flow events.
func NewRegistry(s Settings, rdb *redis.Client, events queue.EventPublisher, logger *slog.Logger) *Registry {
	if s.Clock == nil {
		s.Clock = clock.Real()
	}
	if s.IdleTTL <= 0 {
		s.IdleTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		settings: s,
		rdb:      rdb,
		events:   events,
		log:      logger,
		visitors: make(map[string]*Visitor),
	}
}

// Open returns the visitor for id, creating it when unknown.  A new
// visitor starts hydrating its session in the background and reports the
// loading state until that finishes.
func (r *Registry) Open(id string) *Visitor {
	now := r.settings.Clock.Now()

	r.mu.Lock()
	v, ok := r.visitors[id]
	if !ok {
		v = r.newVisitor(id)
		r.visitors[id] = v
		metrics.SetActiveVisitors(len(r.visitors))
	}
	r.mu.Unlock()

	v.touch(now)
	if !ok {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = v.Session.Hydrate(ctx)
		}()
	}
	return v
}

// Lookup returns an existing visitor.
func (r *Registry) Lookup(id string) (*Visitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	return v, ok
}

// Len reports the number of live visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

func (r *Registry) newVisitor(id string) *Visitor {
	logger := r.log.With("visitor", id)

	var storage session.Storage = &session.MemoryStorage{}
	if r.rdb != nil {
		storage = session.NewRedisStorage(r.rdb, r.settings.SessionPrefix, id, r.settings.SessionTTL)
	}
	store := session.NewStore(storage, logger)

	opts := []apiclient.Option{apiclient.WithTimeout(r.settings.APITimeout)}
	if r.settings.HTTPClient != nil {
		opts = append(opts, apiclient.WithHTTPClient(r.settings.HTTPClient))
	}
	api := apiclient.New(r.settings.APIBaseURL, store, opts...)

	fo := flow.Options{
		Clock:         r.settings.Clock,
		PaymentDelay:  r.settings.PaymentDelay,
		RedirectDelay: r.settings.RedirectDelay,
		Logger:        logger,
	}
	if r.events != nil {
		fo.Notifier = &queue.FlowNotifier{Events: r.events, UserID: store.UserID}
	}

	return &Visitor{
		ID:      id,
		Session: store,
		API:     api,
		Flow:    flow.NewController(api, store, fo),
	}
}

// Sweep drops visitors idle for longer than IdleTTL and resets their
// flows so pending timers stop.  Stored tokens are kept.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var idle []*Visitor
	for id, v := range r.visitors {
		if now.Sub(v.idleSince()) > r.settings.IdleTTL {
			idle = append(idle, v)
			delete(r.visitors, id)
		}
	}
	metrics.SetActiveVisitors(len(r.visitors))
	r.mu.Unlock()

	for _, v := range idle {
		v.Flow.Reset()
	}
	if len(idle) > 0 {
		r.log.Debug("visitors swept", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps idle visitors every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(r.settings.Clock.Now())
		}
	}
}
