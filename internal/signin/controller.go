// Package signin drives the passwordless sign-in flow: a federated path and
// a mobile number plus mock one-time code path.
package signin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hastilong/storefront/internal/users"
	"github.com/hastilong/storefront/pkg/enums"
	pkgerrors "github.com/hastilong/storefront/pkg/errors"
	"github.com/hastilong/storefront/pkg/identity"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/hastilong/storefront/pkg/notify"
)

const (
	EventCodeDispatched  = "code_dispatched"
	EventCodeResent      = "code_resent"
	EventDispatchFailed  = "dispatch_failed"
	EventDispatchDropped = "dispatch_abandoned"
	EventMobileSignIn    = "mobile_signed_in"
	EventFederatedSignIn = "federated_signed_in"
	EventFederatedFailed = "federated_failed"
)

const (
	msgInvalidMobile   = "Please enter a valid 10-digit mobile number"
	msgNameRequired    = "Please enter your name to register"
	msgDispatchFailed  = "Could not send OTP, please try again"
	msgCodeResent      = "OTP resent"
	msgSignedIn        = "Logged in successfully"
	msgFederatedFailed = "Google login failed"
)

// ErrAbandoned is returned when the flow moved on while a dispatch or
// federated call was outstanding. The late result is discarded.
var ErrAbandoned = pkgerrors.New(pkgerrors.CodeStateConflict, "sign-in flow changed before the request completed")

// UserStore persists the signed-in user.
type UserStore interface {
	Save(ctx context.Context, rec users.Record) error
}

// Recorder receives sign-in activity counters.
type Recorder interface {
	SignInEvent(event string)
}

// Deps wires a Controller.
type Deps struct {
	Dispatcher Dispatcher
	Provider   identity.Provider
	Users      UserStore
	Links      LinkBuilder
	Notifier   notify.Notifier
	Metrics    Recorder
	Logger     *logger.Logger
}

// View is an immutable snapshot of the flow for rendering.
type View struct {
	Screen     enums.SignInScreen `json:"screen"`
	Mode       enums.SignInMode   `json:"mode"`
	Mobile     string             `json:"mobile"`
	Name       string             `json:"name"`
	Code       string             `json:"code,omitempty"`
	Submitting bool               `json:"submitting"`
	CanSubmit  bool               `json:"can_submit"`
}

// Controller owns one session's sign-in flow. It is safe for concurrent use;
// outstanding calls run without holding the lock.
type Controller struct {
	mu         sync.Mutex
	state      State
	mode       enums.SignInMode
	mobile     string
	name       string
	generation uint64

	dispatcher Dispatcher
	provider   identity.Provider
	users      UserStore
	links      LinkBuilder
	notifier   notify.Notifier
	metrics    Recorder
	logg       *logger.Logger
}

// NewController returns a flow on the Choice screen in login mode.
func NewController(deps Deps) (*Controller, error) {
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("code dispatcher required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if deps.Provider == nil {
		deps.Provider = identity.Disabled{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Controller{
		state:      Choice{},
		mode:       enums.SignInModeLogin,
		dispatcher: deps.Dispatcher,
		provider:   deps.Provider,
		users:      deps.Users,
		links:      deps.Links,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logg:       deps.Logger,
	}, nil
}

// State returns the current screen variant.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// ChooseMobile moves from Choice to MobileEntry.
func (c *Controller) ChooseMobile() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.state.(Choice)
	if !ok {
		return c.viewLocked(), c.wrongScreenLocked("choose mobile")
	}
	if st.Submitting {
		return c.viewLocked(), c.busyLocked("choose mobile")
	}
	c.state = MobileEntry{}
	return c.viewLocked(), nil
}

// ToggleMode flips between login and register and returns to Choice.
func (c *Controller) ToggleMode() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = c.mode.Toggle()
	c.toChoiceLocked()
	return c.viewLocked()
}

// BackToChoice returns to Choice from any screen. Form fields are kept.
func (c *Controller) BackToChoice() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toChoiceLocked()
	return c.viewLocked()
}

// BackToMobile returns from OtpVerify to MobileEntry, dropping the code.
func (c *Controller) BackToMobile() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(OtpVerify); !ok {
		return c.viewLocked(), c.wrongScreenLocked("back to mobile")
	}
	c.generation++
	c.state = MobileEntry{}
	return c.viewLocked(), nil
}

// SetMobile keeps the digits of raw, capped at ten.
func (c *Controller) SetMobile(raw string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked("edit mobile"); err != nil {
		return c.viewLocked(), err
	}
	c.mobile = NormalizeMobile(raw)
	return c.viewLocked(), nil
}

func (c *Controller) SetName(name string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked("edit name"); err != nil {
		return c.viewLocked(), err
	}
	c.name = name
	return c.viewLocked(), nil
}

// CanSubmit reports whether Submit would dispatch a code.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

// Submit validates the form and dispatches a code. On success the flow moves
// to OtpVerify. Validation failures keep the flow on MobileEntry.
func (c *Controller) Submit(ctx context.Context) (View, error) {
	c.mu.Lock()
	st, ok := c.state.(MobileEntry)
	if !ok {
		defer c.mu.Unlock()
		return c.viewLocked(), c.wrongScreenLocked("submit")
	}
	if st.Submitting {
		defer c.mu.Unlock()
		return c.viewLocked(), c.busyLocked("submit")
	}
	if msg := c.validateLocked(); msg != "" {
		view := c.viewLocked()
		c.mu.Unlock()
		notify.Error(ctx, c.notifier, msg)
		return view, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	c.state = MobileEntry{Submitting: true}
	gen := c.generation
	mobile := c.mobile
	c.mu.Unlock()

	code, err := c.dispatcher.Dispatch(context.WithoutCancel(ctx), mobile)

	c.mu.Lock()
	if gen != c.generation {
		view := c.viewLocked()
		c.mu.Unlock()
		c.record(EventDispatchDropped)
		return view, ErrAbandoned
	}
	if err != nil {
		c.state = MobileEntry{}
		view := c.viewLocked()
		c.mu.Unlock()
		c.logg.Error(ctx, "dispatch sign-in code", err)
		c.record(EventDispatchFailed)
		notify.Error(ctx, c.notifier, msgDispatchFailed)
		return view, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "code dispatch failed")
	}
	c.state = OtpVerify{Code: code}
	view := c.viewLocked()
	c.mu.Unlock()

	c.logg.Info(c.logg.WithField(ctx, "mobile", maskMobile(mobile)), "sign-in code dispatched")
	c.record(EventCodeDispatched)
	return view, nil
}

// Resend dispatches a fresh code and stays on OtpVerify.
func (c *Controller) Resend(ctx context.Context) (View, error) {
	c.mu.Lock()
	st, ok := c.state.(OtpVerify)
	if !ok {
		defer c.mu.Unlock()
		return c.viewLocked(), c.wrongScreenLocked("resend")
	}
	if st.Submitting {
		defer c.mu.Unlock()
		return c.viewLocked(), c.busyLocked("resend")
	}
	c.state = OtpVerify{Code: st.Code, Submitting: true}
	gen := c.generation
	mobile := c.mobile
	c.mu.Unlock()

	code, err := c.dispatcher.Dispatch(context.WithoutCancel(ctx), mobile)

	c.mu.Lock()
	if gen != c.generation {
		view := c.viewLocked()
		c.mu.Unlock()
		c.record(EventDispatchDropped)
		return view, ErrAbandoned
	}
	if err != nil {
		c.state = OtpVerify{Code: st.Code}
		view := c.viewLocked()
		c.mu.Unlock()
		c.logg.Error(ctx, "resend sign-in code", err)
		c.record(EventDispatchFailed)
		notify.Error(ctx, c.notifier, msgDispatchFailed)
		return view, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "code dispatch failed")
	}
	c.state = OtpVerify{Code: code}
	view := c.viewLocked()
	c.mu.Unlock()

	c.record(EventCodeResent)
	notify.Info(ctx, c.notifier, msgCodeResent)
	return view, nil
}

// DeepLink returns the messaging link that carries the current code.
func (c *Controller) DeepLink() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.state.(OtpVerify)
	if !ok {
		return "", c.wrongScreenLocked("open messaging link")
	}
	return c.links.Build(c.mobile, st.Code), nil
}

// Finalize stores the mobile user record and resets the flow. The code is not
// verified.
func (c *Controller) Finalize(ctx context.Context) (users.Record, error) {
	c.mu.Lock()
	st, ok := c.state.(OtpVerify)
	if !ok {
		defer c.mu.Unlock()
		return users.Record{}, c.wrongScreenLocked("finalize")
	}
	if st.Submitting {
		defer c.mu.Unlock()
		return users.Record{}, c.busyLocked("finalize")
	}
	rec := users.MobileRecord(c.name, c.mobile)
	c.state = OtpVerify{Code: st.Code, Submitting: true}
	gen := c.generation
	c.mu.Unlock()

	if err := c.users.Save(ctx, rec); err != nil {
		c.mu.Lock()
		if gen == c.generation {
			c.state = OtpVerify{Code: st.Code}
		}
		c.mu.Unlock()
		c.logg.Error(ctx, "persist mobile user", err)
		return users.Record{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not store user")
	}
	c.finish(gen)

	c.record(EventMobileSignIn)
	notify.Success(ctx, c.notifier, msgSignedIn)
	return rec, nil
}

// SignInFederated signs in through the identity provider from Choice.
// Failures leave the flow on Choice so the user can retry.
func (c *Controller) SignInFederated(ctx context.Context, credential string) (users.Record, error) {
	c.mu.Lock()
	st, ok := c.state.(Choice)
	if !ok {
		defer c.mu.Unlock()
		return users.Record{}, c.wrongScreenLocked("federated sign-in")
	}
	if st.Submitting {
		defer c.mu.Unlock()
		return users.Record{}, c.busyLocked("federated sign-in")
	}
	c.state = Choice{Submitting: true}
	gen := c.generation
	c.mu.Unlock()

	id, err := c.provider.SignIn(context.WithoutCancel(ctx), credential)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.record(EventDispatchDropped)
		return users.Record{}, ErrAbandoned
	}
	if err != nil {
		c.state = Choice{}
		c.mu.Unlock()
		c.logg.Error(ctx, "google login failed", err)
		c.record(EventFederatedFailed)
		notify.Error(ctx, c.notifier, msgFederatedFailed)
		if errors.Is(err, identity.ErrInvalidCredential) {
			return users.Record{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "identity provider rejected the credential")
		}
		return users.Record{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider call failed")
	}

	c.mu.Unlock()

	rec := users.FederatedRecord(id.DisplayName, id.Email, id.UID, id.PhotoURL)
	if err := c.users.Save(ctx, rec); err != nil {
		c.mu.Lock()
		if gen == c.generation {
			c.state = Choice{}
		}
		c.mu.Unlock()
		c.logg.Error(ctx, "persist federated user", err)
		return users.Record{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not store user")
	}
	c.finish(gen)

	c.record(EventFederatedSignIn)
	notify.Info(ctx, c.notifier, "Welcome "+id.DisplayName)
	return rec, nil
}

// Reset discards the flow and starts over on Choice in login mode.
func (c *Controller) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	return c.viewLocked()
}

// finish closes the flow after a stored sign-in unless the user already
// navigated elsewhere while the record was being written.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.generation {
		c.resetLocked()
	}
}

func (c *Controller) toChoiceLocked() {
	c.generation++
	c.state = Choice{}
}

func (c *Controller) resetLocked() {
	c.toChoiceLocked()
	c.mode = enums.SignInModeLogin
	c.mobile = ""
	c.name = ""
}

func (c *Controller) editableLocked(action string) error {
	st, ok := c.state.(MobileEntry)
	if !ok {
		return c.wrongScreenLocked(action)
	}
	if st.Submitting {
		return c.busyLocked(action)
	}
	return nil
}

// validateLocked returns the notification text for the first failing rule.
func (c *Controller) validateLocked() string {
	if len(c.mobile) != mobileDigits {
		return msgInvalidMobile
	}
	if c.mode == enums.SignInModeRegister && strings.TrimSpace(c.name) == "" {
		return msgNameRequired
	}
	return ""
}

func (c *Controller) canSubmitLocked() bool {
	st, ok := c.state.(MobileEntry)
	return ok && !st.Submitting && c.validateLocked() == ""
}

func (c *Controller) viewLocked() View {
	v := View{
		Screen:     c.state.Screen(),
		Mode:       c.mode,
		Mobile:     c.mobile,
		Name:       c.name,
		Submitting: c.state.isSubmitting(),
		CanSubmit:  c.canSubmitLocked(),
	}
	if st, ok := c.state.(OtpVerify); ok {
		v.Code = st.Code.String()
	}
	return v
}

func (c *Controller) wrongScreenLocked(action string) error {
	screen := c.state.Screen()
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s is not available on the %s screen", action, screen).
		WithDetails(map[string]string{"action": action, "screen": screen.String()})
}

func (c *Controller) busyLocked(action string) error {
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s rejected while a request is in flight", action).
		WithDetails(map[string]string{"action": action, "screen": c.state.Screen().String()})
}

func (c *Controller) record(event string) {
	if c.metrics != nil {
		c.metrics.SignInEvent(event)
	}
}

// NormalizeMobile strips non-digits and caps the result at ten digits.
func NormalizeMobile(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == mobileDigits {
			break
		}
	}
	return b.String()
}

func maskMobile(mobile string) string {
	if len(mobile) <= 4 {
		return mobile
	}
	return strings.Repeat("*", len(mobile)-4) + mobile[len(mobile)-4:]
}
