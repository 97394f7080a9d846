package signin

import (
	"fmt"

	"github.com/hastilong/storefront/pkg/enums"
)

const (
	codeMin      = 100000
	codeMax      = 999999
	mobileDigits = 10
)

// Code is a six digit one-time code.
type Code string

// ParseCode validates a six digit numeric code.
func ParseCode(value string) (Code, error) {
	if len(value) != 6 {
		return "", fmt.Errorf("code must have 6 digits (got %q)", value)
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("code must be numeric (got %q)", value)
		}
	}
	if value[0] == '0' {
		return "", fmt.Errorf("code out of range (got %q)", value)
	}
	return Code(value), nil
}

func (c Code) String() string {
	return string(c)
}

// State is the screen a flow is on. Only OtpVerify carries a code.
type State interface {
	Screen() enums.SignInScreen
	isSubmitting() bool
}

// Choice is the initial screen. Submitting is set while a federated sign-in
// call is outstanding.
type Choice struct {
	Submitting bool
}

// MobileEntry collects the mobile number and, when registering, a name.
// Submitting is set while a code is being dispatched.
type MobileEntry struct {
	Submitting bool
}

// OtpVerify shows the dispatched code. Submitting is set during a resend.
type OtpVerify struct {
	Code       Code
	Submitting bool
}

func (Choice) Screen() enums.SignInScreen      { return enums.SignInScreenChoice }
func (MobileEntry) Screen() enums.SignInScreen { return enums.SignInScreenMobileEntry }
func (OtpVerify) Screen() enums.SignInScreen   { return enums.SignInScreenOtpVerify }

func (s Choice) isSubmitting() bool      { return s.Submitting }
func (s MobileEntry) isSubmitting() bool { return s.Submitting }
func (s OtpVerify) isSubmitting() bool   { return s.Submitting }
