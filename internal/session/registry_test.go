package session

import (
	"context"
	"testing"
	"time"

	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/internal/signin"
	"github.com/hastilong/storefront/internal/users"
	"github.com/hastilong/storefront/pkg/enums"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gaugeRecorder struct {
	active int
	ops    int
}

func (g *gaugeRecorder) CartOperation(string)    { g.ops++ }
func (g *gaugeRecorder) CouponApplied(bool)      {}
func (g *gaugeRecorder) SignInEvent(string)      {}
func (g *gaugeRecorder) SetActiveSessions(n int) { g.active = n }

func newTestRegistry(t *testing.T, store kv.Store, rec Recorder) *Registry {
	t.Helper()
	r, err := NewRegistry(Options{
		Store:      store,
		Dispatcher: signin.NewMockDispatcher(0),
		Metrics:    rec,
		IdleTTL:    time.Minute,
		FeedSize:   5,
	})
	require.NoError(t, err)
	return r
}

func TestGetCreatesAndReusesSession(t *testing.T) {
	rec := &gaugeRecorder{}
	r := newTestRegistry(t, kv.NewMemory(), rec)
	ctx := context.Background()
	id := NewID()

	first, err := r.Get(ctx, id)
	require.NoError(t, err)
	second, err := r.Get(ctx, id)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, rec.active)
}

func TestGetRejectsInvalidID(t *testing.T) {
	r := newTestRegistry(t, kv.NewMemory(), nil)
	_, err := r.Get(context.Background(), "not-a-uuid")
	require.Error(t, err)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := kv.NewMemory()
	r := newTestRegistry(t, store, &gaugeRecorder{})
	ctx := context.Background()

	a, err := r.Get(ctx, NewID())
	require.NoError(t, err)
	b, err := r.Get(ctx, NewID())
	require.NoError(t, err)

	vase := catalog.Product{ID: 1, Name: "Artisan Ceramic Vase", Price: money.MustParse("89.99"), Category: enums.ProductCategoryHomeDecor}
	a.Cart.AddToCart(ctx, vase)
	assert.Equal(t, 1, a.Cart.CartCount())
	assert.Equal(t, 0, b.Cart.CartCount())

	require.NoError(t, a.Users.Save(ctx, users.MobileRecord("", "9876543210")))
	_, err = b.Users.Load(ctx)
	require.ErrorIs(t, err, users.ErrNoUser)

	raw, err := store.Get(ctx, kv.SessionNamespace(a.ID)+":"+users.StorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, "9876543210")
}

func TestSessionNotificationsReachFeed(t *testing.T) {
	r := newTestRegistry(t, kv.NewMemory(), nil)
	ctx := context.Background()
	s, err := r.Get(ctx, NewID())
	require.NoError(t, err)

	s.Cart.ClearCart(ctx)
	items := s.Feed.Drain()
	require.Len(t, items, 1)
	assert.Equal(t, "Cart cleared", items[0].Message)
}

func TestSweepDropsIdleSessions(t *testing.T) {
	rec := &gaugeRecorder{}
	r := newTestRegistry(t, kv.NewMemory(), rec)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }
	stale, err := r.Get(ctx, NewID())
	require.NoError(t, err)

	r.now = func() time.Time { return base.Add(50 * time.Second) }
	fresh, err := r.Get(ctx, NewID())
	require.NoError(t, err)
	assert.Equal(t, 2, rec.active)

	removed := r.Sweep(base.Add(90 * time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, rec.active)

	r.mu.Lock()
	_, staleKept := r.sessions[stale.ID]
	_, freshKept := r.sessions[fresh.ID]
	r.mu.Unlock()
	assert.False(t, staleKept)
	assert.True(t, freshKept)
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newTestRegistry(t, kv.NewMemory(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewRegistryValidates(t *testing.T) {
	_, err := NewRegistry(Options{Dispatcher: signin.NewMockDispatcher(0), IdleTTL: time.Minute})
	require.Error(t, err)
	_, err = NewRegistry(Options{Store: kv.NewMemory(), IdleTTL: time.Minute})
	require.Error(t, err)
	_, err = NewRegistry(Options{Store: kv.NewMemory(), Dispatcher: signin.NewMockDispatcher(0)})
	require.Error(t, err)
}
