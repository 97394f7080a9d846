// Package kv defines the key-value persistence port that stands in for
// browser local storage, plus an in-memory implementation.
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence port. Values are whole-record overwrites; the last
// write wins.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scoped prefixes every key with the provided namespace so several sessions
// can share one backend.
func Scoped(store Store, namespace string) Store {
	return &scoped{store: store, prefix: strings.TrimSuffix(namespace, ":") + ":"}
}

type scoped struct {
	store  Store
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Clear(ctx context.Context, key string) error {
	return s.store.Clear(ctx, s.prefix+key)
}

// SessionNamespace returns the namespace used for a browsing session.
func SessionNamespace(sessionID string) string {
	return "session:" + sessionID
}
