// Package identity wraps external identity providers used for federated
// sign-in.
package identity

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

// ErrInvalidCredential is returned when the provider rejects the credential.
var ErrInvalidCredential = errors.New("identity: invalid credential")

// ErrDisabled is returned by providers that have not been configured.
var ErrDisabled = errors.New("identity: provider not configured")

// Identity is the profile a provider yields after a successful sign-in.
type Identity struct {
	DisplayName string
	Email       string
	UID         string
	PhotoURL    string
}

// Provider performs a single sign-in call against an external identity
// service.
type Provider interface {
	SignIn(ctx context.Context, credential string) (Identity, error)
}

// ValidatorFunc validates a raw ID token for an audience.
type ValidatorFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Google signs users in with Google ID tokens issued for the configured OAuth
// client.
type Google struct {
	clientID string
	validate ValidatorFunc
}

type GoogleOption func(*Google)

func WithValidator(fn ValidatorFunc) GoogleOption {
	return func(g *Google) {
		if fn != nil {
			g.validate = fn
		}
	}
}

func NewGoogle(clientID string, opts ...GoogleOption) (*Google, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	g := &Google{clientID: clientID, validate: idtoken.Validate}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Google) SignIn(ctx context.Context, credential string) (Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return Identity{}, ErrInvalidCredential
	}
	payload, err := g.validate(ctx, credential, g.clientID)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidCredential, err)
	}
	if payload == nil || payload.Subject == "" {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{
		DisplayName: claim(payload.Claims, "name"),
		Email:       claim(payload.Claims, "email"),
		UID:         payload.Subject,
		PhotoURL:    claim(payload.Claims, "picture"),
	}, nil
}

func claim(claims map[string]interface{}, key string) string {
	if claims == nil {
		return ""
	}
	v, _ := claims[key].(string)
	return v
}

// Disabled is used when no provider is configured; every call fails.
type Disabled struct{}

func (Disabled) SignIn(context.Context, string) (Identity, error) {
	return Identity{}, ErrDisabled
}
