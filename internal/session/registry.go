// Package session keeps the per-browser state containers in memory, keyed by
// session id.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hastilong/storefront/internal/cart"
	"github.com/hastilong/storefront/internal/signin"
	"github.com/hastilong/storefront/internal/users"
	"github.com/hastilong/storefront/pkg/identity"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/hastilong/storefront/pkg/notify"
)

// Recorder receives every metric a session touches.
type Recorder interface {
	cart.Recorder
	signin.Recorder
	SetActiveSessions(n int)
}

// Session bundles one browser's cart, sign-in flow and storage view.
type Session struct {
	ID     string
	Cart   *cart.Store
	SignIn *signin.Controller
	Feed   *notify.Feed
	Store  kv.Store
	Users  *users.Repository

	notifier notify.Notifier
	lastSeen time.Time
}

// Notifier fans out to the session feed and the service log.
func (s *Session) Notifier() notify.Notifier {
	return s.notifier
}

// Options configures a Registry.
type Options struct {
	Store      kv.Store
	Dispatcher signin.Dispatcher
	Provider   identity.Provider
	Links      signin.LinkBuilder
	Metrics    Recorder
	Logger     *logger.Logger
	IdleTTL    time.Duration
	FeedSize   int
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
}

func NewRegistry(opts Options) (*Registry, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("key-value store required")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("code dispatcher required")
	}
	if opts.IdleTTL <= 0 {
		return nil, fmt.Errorf("idle ttl must be positive")
	}
	if opts.FeedSize <= 0 {
		opts.FeedSize = 20
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
	}, nil
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well formed session id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && id != ""
}

// Get returns the session for id, creating it on first use, and marks it as
// seen.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return s, nil
	}
	s, err := r.newSessionLocked(id)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = s
	r.reportLocked()
	r.opts.Logger.Debug(r.opts.Logger.WithSessionID(ctx, id), "session created")
	return s, nil
}

// Len is the number of sessions held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle longer than the configured TTL and reports how
// many were removed. Persisted keys are left in the store.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.opts.IdleTTL {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.reportLocked()
	}
	return removed
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := r.Sweep(now); removed > 0 {
				r.opts.Logger.Info(r.opts.Logger.WithField(ctx, "removed", removed), "idle sessions swept")
			}
		}
	}
}

func (r *Registry) newSessionLocked(id string) (*Session, error) {
	store := kv.Scoped(r.opts.Store, kv.SessionNamespace(id))
	feed := notify.NewFeed(r.opts.FeedSize)
	notifier := notify.Multi(feed, notify.NewLogNotifier(r.opts.Logger))
	repo := users.NewRepository(store)

	var cartMetrics cart.Recorder
	var signInMetrics signin.Recorder
	if r.opts.Metrics != nil {
		cartMetrics = r.opts.Metrics
		signInMetrics = r.opts.Metrics
	}

	ctrl, err := signin.NewController(signin.Deps{
		Dispatcher: r.opts.Dispatcher,
		Provider:   r.opts.Provider,
		Users:      repo,
		Links:      r.opts.Links,
		Notifier:   notifier,
		Metrics:    signInMetrics,
		Logger:     r.opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build sign-in controller: %w", err)
	}

	return &Session{
		ID:       id,
		Cart:     cart.NewStore(notifier, cartMetrics),
		SignIn:   ctrl,
		Feed:     feed,
		Store:    store,
		Users:    repo,
		notifier: notifier,
		lastSeen: r.now(),
	}, nil
}

func (r *Registry) reportLocked() {
	if r.opts.Metrics != nil {
		r.opts.Metrics.SetActiveSessions(len(r.sessions))
	}
}
