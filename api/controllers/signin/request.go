package signin

import "github.com/hastilong/storefront/pkg/enums"

type backRequest struct {
	To enums.SignInScreen `json:"to" validate:"omitempty,oneof=choice mobile"`
}

// formRequest carries field edits; omitted fields are left untouched.
type formRequest struct {
	Mobile *string `json:"mobile,omitempty" validate:"omitempty,max=32"`
	Name   *string `json:"name,omitempty" validate:"omitempty,max=120"`
}

type federatedRequest struct {
	Credential string `json:"credential" validate:"required"`
}
