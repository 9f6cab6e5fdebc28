package domain

import (
	"net/url"
	"strings"
	"time"
)

// Status is the reachability state of a tracked domain.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusError    Status = "error"
	StatusUnknown  Status = "unknown"
)

// Rank orders statuses for priority sorting: healthier ranks lower.
func (s Status) Rank() int {
	switch s {
	case StatusActive:
		return 0
	case StatusUnknown:
		return 1
	case StatusInactive:
		return 2
	default: // error
		return 3
	}
}

// Entity is one tracked URL plus its check history. The normalized URL
// is the identity key; two entities with the same URL are the same domain.
type Entity struct {
	URL        string     `json:"url"`
	AddedTime  time.Time  `json:"added_time"`
	LastCheck  *time.Time `json:"last_check"`
	Status     Status     `json:"status"`
	CheckCount int        `json:"check_count"`
	ErrorCount int        `json:"error_count"`
}

// New builds an entity for a freshly added URL. The URL is normalized,
// status starts as unknown and counters at zero.
func New(rawURL string) *Entity {
	return &Entity{
		URL:       Normalize(rawURL),
		AddedTime: time.Now().UTC(),
		Status:    StatusUnknown,
	}
}

// Normalize strips a trailing slash and defaults the scheme to https.
// Empty input is returned unchanged.
func Normalize(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	rawURL = strings.TrimRight(rawURL, "/")
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	return rawURL
}

// UpdateCheckResult applies one probe outcome. Success resets the
// consecutive error counter; failure increments it and the status
// becomes error when a message was supplied, inactive otherwise.
func (e *Entity) UpdateCheckResult(isActive bool, errMsg string) {
	now := time.Now().UTC()
	e.LastCheck = &now
	e.CheckCount++

	if isActive {
		e.Status = StatusActive
		e.ErrorCount = 0
		return
	}
	e.ErrorCount++
	if errMsg != "" {
		e.Status = StatusError
	} else {
		e.Status = StatusInactive
	}
}

// IsRecentlyChecked reports whether the last probe happened within the window.
func (e *Entity) IsRecentlyChecked(window time.Duration) bool {
	if e.LastCheck == nil {
		return false
	}
	return time.Since(*e.LastCheck) < window
}

// Host returns the host part of the URL, or the raw URL if it does not parse.
func (e *Entity) Host() string {
	u, err := url.Parse(e.URL)
	if err != nil || u.Host == "" {
		return e.URL
	}
	return u.Host
}

// Statistics counts entities per status.
type Statistics struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Error    int `json:"error"`
	Unknown  int `json:"unknown"`
}
