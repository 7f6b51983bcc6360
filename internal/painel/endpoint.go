package painel

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateEndpoint accepts an empty string (offline) or an http(s) URL.
func ValidateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an http(s) url, got %q", s)
	}
	return nil
}
