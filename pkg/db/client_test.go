package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/hastilong/storefront/pkg/config"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite, DSN: dsn, MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func migrated(t *testing.T, client *Client) *Client {
	t.Helper()
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite3"))
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite}, nil)
	assert.Error(t, err)
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := dialectorFor(config.DBConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestKeyValueStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	require.NoError(t, client.Ping(ctx))

	_, err := NewKeyValueStore(ctx, client)
	require.Error(t, err, "store requires migrated schema")

	store, err := NewKeyValueStore(ctx, migrated(t, client))
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	_, err = store.Get(ctx, "session:1:user")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Set(ctx, "session:1:user", `{"name":"User"}`))
	require.NoError(t, store.Set(ctx, "session:1:user", `{"name":"Asha"}`))

	got, err := store.Get(ctx, "session:1:user")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Asha"}`, got, "second write should overwrite the first")

	var rows int64
	require.NoError(t, client.DB().Table("kv_entries").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	require.NoError(t, store.Clear(ctx, "session:1:user"))
	_, err = store.Get(ctx, "session:1:user")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestKeyValueStoreWorksThroughScope(t *testing.T) {
	ctx := context.Background()
	store, err := NewKeyValueStore(ctx, migrated(t, newTestClient(t)))
	require.NoError(t, err)

	scoped := kv.Scoped(store, kv.SessionNamespace("abc"))
	require.NoError(t, scoped.Set(ctx, "adminAuth", "true"))

	raw, err := store.Get(ctx, "session:abc:adminAuth")
	require.NoError(t, err)
	assert.Equal(t, "true", raw)
}
