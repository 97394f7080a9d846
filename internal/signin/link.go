package signin

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultMessagingBaseURL = "https://wa.me"
	DefaultCountryCode      = "91"
)

// LinkBuilder renders the messaging deep link that carries a code.
type LinkBuilder struct {
	baseURL     string
	countryCode string
}

func NewLinkBuilder(baseURL, countryCode string) LinkBuilder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultMessagingBaseURL
	}
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return LinkBuilder{baseURL: baseURL, countryCode: countryCode}
}

// Build returns e.g. https://wa.me/919876543210?text=VERIFY%20123456.
func (b LinkBuilder) Build(mobile string, code Code) string {
	if b.baseURL == "" {
		b = NewLinkBuilder("", "")
	}
	text := strings.ReplaceAll(url.QueryEscape("VERIFY "+code.String()), "+", "%20")
	return fmt.Sprintf("%s/%s%s?text=%s", b.baseURL, b.countryCode, mobile, text)
}
