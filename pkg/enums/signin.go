package enums

import "fmt"

// SignInScreen names the screen a sign-in flow is currently showing.
type SignInScreen string

const (
	SignInScreenChoice      SignInScreen = "choice"
	SignInScreenMobileEntry SignInScreen = "mobile"
	SignInScreenOtpVerify   SignInScreen = "otp"
)

// String implements fmt.Stringer.
func (s SignInScreen) String() string {
	return string(s)
}

// SignInMode frames the flow as a login or a registration.
type SignInMode string

const (
	SignInModeLogin    SignInMode = "login"
	SignInModeRegister SignInMode = "register"
)

// String implements fmt.Stringer.
func (m SignInMode) String() string {
	return string(m)
}

// Toggle returns the opposite mode.
func (m SignInMode) Toggle() SignInMode {
	if m == SignInModeRegister {
		return SignInModeLogin
	}
	return SignInModeRegister
}

// UserProvider records which sign-in path produced a user record.
type UserProvider string

const (
	UserProviderMobile UserProvider = "mobile"
	UserProviderGoogle UserProvider = "google"
)

var validUserProviders = []UserProvider{
	UserProviderMobile,
	UserProviderGoogle,
}

// String implements fmt.Stringer.
func (p UserProvider) String() string {
	return string(p)
}

// IsValid reports whether the value is a known UserProvider.
func (p UserProvider) IsValid() bool {
	for _, candidate := range validUserProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseUserProvider converts raw input into a UserProvider.
func ParseUserProvider(value string) (UserProvider, error) {
	for _, candidate := range validUserProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user provider %q", value)
}
