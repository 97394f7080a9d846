package types

import "github.com/hastilong/storefront/pkg/notify"

type SuccessEnvelope struct {
	Data          any                   `json:"data"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error         APIError              `json:"error"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}
