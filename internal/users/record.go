package users

import (
	"strings"

	"github.com/hastilong/storefront/pkg/enums"
)

// DefaultMobileName is stored when a mobile sign-in carries no display name.
const DefaultMobileName = "User"

// Record is the signed-in user persisted under StorageKey. Both sign-in paths
// write this shape; absent fields are omitted.
type Record struct {
	Provider enums.UserProvider `json:"provider"`
	Name     string             `json:"name"`
	Mobile   string             `json:"mobile,omitempty"`
	Email    string             `json:"email,omitempty"`
	UID      string             `json:"uid,omitempty"`
	Photo    string             `json:"photo,omitempty"`
}

// MobileRecord builds the record written by the mobile/OTP path.
func MobileRecord(name, mobile string) Record {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultMobileName
	}
	return Record{Provider: enums.UserProviderMobile, Name: name, Mobile: mobile}
}

// FederatedRecord builds the record written by the external identity path.
func FederatedRecord(name, email, uid, photo string) Record {
	return Record{
		Provider: enums.UserProviderGoogle,
		Name:     name,
		Email:    email,
		UID:      uid,
		Photo:    photo,
	}
}
