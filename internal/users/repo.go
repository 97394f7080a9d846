package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hastilong/storefront/pkg/kv"
)

// StorageKey is the key the signed-in user is persisted under.
const StorageKey = "user"

// ErrNoUser is returned when nobody has signed in on the store.
var ErrNoUser = errors.New("no signed-in user")

// Repository reads and writes the user record through the key-value port.
type Repository struct {
	store kv.Store
}

// NewRepository binds a repository to the provided store.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Save overwrites the stored record.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	if !rec.Provider.IsValid() {
		return fmt.Errorf("invalid user provider %q", rec.Provider)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := r.store.Set(ctx, StorageKey, string(payload)); err != nil {
		return fmt.Errorf("persist user record: %w", err)
	}
	return nil
}

// Load returns the stored record or ErrNoUser.
func (r *Repository) Load(ctx context.Context) (Record, error) {
	raw, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Record{}, ErrNoUser
	}
	if err != nil {
		return Record{}, fmt.Errorf("load user record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, fmt.Errorf("decode user record: %w", err)
	}
	return rec, nil
}

// Clear removes the stored record.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Clear(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear user record: %w", err)
	}
	return nil
}
