package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	minURLLength = 4
	maxURLLength = 253
)

// RFC-1123 style host: labels of letters/digits/hyphens, no leading or
// trailing hyphen, joined by dots.
var hostPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)

// Validate checks that a URL is something the tracker can sensibly
// probe. It returns (false, reason) rather than an error so callers can
// surface the reason inline.
func Validate(rawURL string) (bool, string) {
	if rawURL == "" {
		return false, "URL must not be empty"
	}

	normalized := Normalize(rawURL)

	if len(normalized) < minURLLength {
		return false, "URL too short"
	}
	if len(normalized) > maxURLLength {
		return false, "URL too long"
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return false, "invalid URL format"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, fmt.Sprintf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return false, "missing host"
	}
	if !hostPattern.MatchString(host) {
		return false, "malformed host name"
	}
	if !strings.Contains(host, ".") {
		return false, "host must include a top-level domain"
	}

	return true, "ok"
}
