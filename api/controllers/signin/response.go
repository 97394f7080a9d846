package signin

import (
	signinsvc "github.com/hastilong/storefront/internal/signin"
	"github.com/hastilong/storefront/internal/users"
)

type linkResponse struct {
	URL string `json:"url"`
}

type completedResponse struct {
	User users.Record   `json:"user"`
	View signinsvc.View `json:"view"`
}
