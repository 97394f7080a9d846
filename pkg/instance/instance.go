package instance

import (
	"os"

	"github.com/hastilong/storefront/pkg/env"
)

const fallbackID = "local"

// GetID names the running process for logs: STOREFRONT_INSTANCE_ID, then the
// platform's DYNO, then the hostname.
func GetID() string {
	if id := env.Get("STOREFRONT_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
