// Package admin implements the local admin surface: a session flag set by a
// password login, and price edits on the shared catalog.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hastilong/storefront/internal/catalog"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/notify"
	"github.com/hastilong/storefront/pkg/security"
	"github.com/shopspring/decimal"
)

const (
	// FlagKey is the session key that marks an admin login.
	FlagKey   = "adminAuth"
	flagValue = "true"
)

type passwordVerifier func(password, encoded string) (bool, error)

// Service exposes admin operations. Session-scoped calls take the session's
// key-value view.
type Service interface {
	Login(ctx context.Context, store kv.Store, password string) error
	IsAdmin(ctx context.Context, store kv.Store) (bool, error)
	Logout(ctx context.Context, store kv.Store, n notify.Notifier) error
	UpdatePrice(ctx context.Context, n notify.Notifier, productID int, price decimal.Decimal) (catalog.Product, error)
}

type service struct {
	passwordHash string
	verify       passwordVerifier
	catalog      catalog.Service
}

// NewService builds the admin service. An empty password hash disables
// admin login.
func NewService(passwordHash string, products catalog.Service) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{
		passwordHash: strings.TrimSpace(passwordHash),
		verify:       security.VerifyPassword,
		catalog:      products,
	}, nil
}

func (s *service) Login(ctx context.Context, store kv.Store, password string) error {
	if s.passwordHash == "" {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin login is not configured")
	}
	if password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	ok, err := s.verify(password, s.passwordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin password")
	}
	if err := store.Set(ctx, FlagKey, flagValue); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store admin flag")
	}
	return nil
}

func (s *service) IsAdmin(ctx context.Context, store kv.Store) (bool, error) {
	value, err := store.Get(ctx, FlagKey)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read admin flag")
	}
	return value == flagValue, nil
}

func (s *service) Logout(ctx context.Context, store kv.Store, n notify.Notifier) error {
	if err := store.Clear(ctx, FlagKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear admin flag")
	}
	notify.Success(ctx, n, "Logged out successfully!")
	return nil
}

func (s *service) UpdatePrice(ctx context.Context, n notify.Notifier, productID int, price decimal.Decimal) (catalog.Product, error) {
	product, err := s.catalog.UpdatePrice(ctx, productID, price)
	if err != nil {
		return catalog.Product{}, err
	}
	notify.Success(ctx, n, "Price updated! (Note: Changes are temporary without a backend)")
	return product, nil
}
