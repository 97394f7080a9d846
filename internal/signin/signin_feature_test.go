package signin_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/hastilong/storefront/internal/signin"
	"github.com/hastilong/storefront/internal/users"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/notify"
)

type signInTestContext struct {
	ctrl  *signin.Controller
	store *kv.Memory
	feed  *notify.Feed
	last  []notify.Notification
}

func (c *signInTestContext) reset() error {
	c.store = kv.NewMemory()
	c.feed = notify.NewFeed(10)
	c.last = nil
	ctrl, err := signin.NewController(signin.Deps{
		Dispatcher: signin.NewMockDispatcher(0),
		Users:      users.NewRepository(c.store),
		Links:      signin.NewLinkBuilder("", ""),
		Notifier:   c.feed,
	})
	if err != nil {
		return err
	}
	c.ctrl = ctrl
	return nil
}

func (c *signInTestContext) aNewSignInFlowInLoginMode() error {
	if mode := c.ctrl.View().Mode; mode != "login" {
		return fmt.Errorf("expected login mode, got %s", mode)
	}
	return nil
}

func (c *signInTestContext) iChooseToContinueWithMobile() error {
	_, err := c.ctrl.ChooseMobile()
	return err
}

func (c *signInTestContext) iSwitchToRegisterMode() error {
	c.ctrl.ToggleMode()
	return nil
}

func (c *signInTestContext) iEnterTheMobileNumber(mobile string) error {
	_, err := c.ctrl.SetMobile(mobile)
	return err
}

func (c *signInTestContext) iEnterTheName(name string) error {
	_, err := c.ctrl.SetName(name)
	return err
}

// Validation failures are expected outcomes here; the screen assertions
// check them.
func (c *signInTestContext) iSubmitTheForm() error {
	_, _ = c.ctrl.Submit(context.Background())
	c.last = append(c.last, c.feed.Drain()...)
	return nil
}

func (c *signInTestContext) iAskForTheCodeToBeResent() error {
	_, err := c.ctrl.Resend(context.Background())
	c.last = append(c.last, c.feed.Drain()...)
	return err
}

func (c *signInTestContext) iGoBackToTheChoiceScreen() error {
	c.ctrl.BackToChoice()
	return nil
}

func (c *signInTestContext) iFinishSigningIn() error {
	_, err := c.ctrl.Finalize(context.Background())
	c.last = append(c.last, c.feed.Drain()...)
	return err
}

func (c *signInTestContext) theScreenIs(screen string) error {
	if got := c.ctrl.View().Screen.String(); got != screen {
		return fmt.Errorf("expected screen %q, got %q", screen, got)
	}
	return nil
}

func (c *signInTestContext) aSixDigitCodeIsShown() error {
	code := c.ctrl.View().Code
	if _, err := signin.ParseCode(code); err != nil {
		return err
	}
	return nil
}

func (c *signInTestContext) noCodeIsShown() error {
	if code := c.ctrl.View().Code; code != "" {
		return fmt.Errorf("expected no code, got %q", code)
	}
	return nil
}

func (c *signInTestContext) theLastNotificationIs(message string) error {
	if len(c.last) == 0 {
		return fmt.Errorf("no notifications recorded")
	}
	if got := c.last[len(c.last)-1].Message; got != message {
		return fmt.Errorf("expected notification %q, got %q", message, got)
	}
	return nil
}

func (c *signInTestContext) theStoredUserIsNamedWithMobile(name, mobile string) error {
	raw, err := c.store.Get(context.Background(), users.StorageKey)
	if err != nil {
		return fmt.Errorf("read stored user: %w", err)
	}
	var rec users.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return err
	}
	if rec.Name != name || rec.Mobile != mobile {
		return fmt.Errorf("expected %s/%s, got %s/%s", name, mobile, rec.Name, rec.Mobile)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &signInTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Given steps
	ctx.Step(`^a new sign-in flow in login mode$`, tc.aNewSignInFlowInLoginMode)

	// When steps
	ctx.Step(`^I choose to continue with mobile$`, tc.iChooseToContinueWithMobile)
	ctx.Step(`^I switch to register mode$`, tc.iSwitchToRegisterMode)
	ctx.Step(`^I enter the mobile number "([^"]*)"$`, tc.iEnterTheMobileNumber)
	ctx.Step(`^I enter the name "([^"]*)"$`, tc.iEnterTheName)
	ctx.Step(`^I submit the form$`, tc.iSubmitTheForm)
	ctx.Step(`^I ask for the code to be resent$`, tc.iAskForTheCodeToBeResent)
	ctx.Step(`^I go back to the choice screen$`, tc.iGoBackToTheChoiceScreen)
	ctx.Step(`^I finish signing in$`, tc.iFinishSigningIn)

	// Then steps
	ctx.Step(`^the screen is "([^"]*)"$`, tc.theScreenIs)
	ctx.Step(`^a 6-digit code is shown$`, tc.aSixDigitCodeIsShown)
	ctx.Step(`^no code is shown$`, tc.noCodeIsShown)
	ctx.Step(`^the last notification is "([^"]*)"$`, tc.theLastNotificationIs)
	ctx.Step(`^the stored user is named "([^"]*)" with mobile "([^"]*)"$`, tc.theStoredUserIsNamedWithMobile)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/signin.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
