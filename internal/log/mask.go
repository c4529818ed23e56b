// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"net/url"
	"strings"
)

var secretParams = []string{"api_key", "apikey", "token", "password"}

// MaskURL removes user info and secret query parameters from a URL for safe logging.
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	u.User = nil
	q := u.Query()
	changed := false
	for key := range q {
		if isSecretParam(key) {
			q.Set(key, "***")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func isSecretParam(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range secretParams {
		if strings.EqualFold(lower, p) {
			return true
		}
	}
	return false
}
