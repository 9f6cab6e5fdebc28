package domain

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"example.com", "https://example.com"},
		{"example.com/", "https://example.com"},
		{"http://example.com/", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUpdateCheckResult_SuccessResetsErrors(t *testing.T) {
	e := New("example.com")
	e.ErrorCount = 4
	e.CheckCount = 4
	e.Status = StatusError

	e.UpdateCheckResult(true, "")

	if e.Status != StatusActive {
		t.Fatalf("want status active, got %s", e.Status)
	}
	if e.ErrorCount != 0 {
		t.Fatalf("want error count reset to 0, got %d", e.ErrorCount)
	}
	if e.CheckCount != 5 {
		t.Fatalf("want check count 5, got %d", e.CheckCount)
	}
	if e.LastCheck == nil {
		t.Fatalf("want last check set")
	}
}

func TestUpdateCheckResult_FailureIncrements(t *testing.T) {
	e := New("example.com")

	e.UpdateCheckResult(false, "request timed out")
	if e.Status != StatusError {
		t.Fatalf("want status error when message given, got %s", e.Status)
	}
	if e.ErrorCount != 1 || e.CheckCount != 1 {
		t.Fatalf("want counts 1/1, got %d/%d", e.ErrorCount, e.CheckCount)
	}

	e.UpdateCheckResult(false, "")
	if e.Status != StatusInactive {
		t.Fatalf("want status inactive without message, got %s", e.Status)
	}
	if e.ErrorCount != 2 {
		t.Fatalf("want error count 2, got %d", e.ErrorCount)
	}
}

func TestIsRecentlyChecked(t *testing.T) {
	e := New("example.com")
	if e.IsRecentlyChecked(time.Hour) {
		t.Fatalf("never-checked entity should not be recently checked")
	}

	past := time.Now().UTC().Add(-30 * time.Minute)
	e.LastCheck = &past
	if !e.IsRecentlyChecked(time.Hour) {
		t.Fatalf("check 30m ago should be within 1h window")
	}
	if e.IsRecentlyChecked(10 * time.Minute) {
		t.Fatalf("check 30m ago should not be within 10m window")
	}
}

func TestStatusRankOrdering(t *testing.T) {
	order := []Status{StatusActive, StatusUnknown, StatusInactive, StatusError}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("%s should rank before %s", order[i-1], order[i])
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"example.com", true},
		{"https://sub.example.com", true},
		{"http://example.com", true},
		{"", false},
		{"https://localhost", false}, // no dot
		{"https://bad_host.example.com", false},
		{"https://-bad.example.com", false},
	}
	for _, c := range cases {
		ok, reason := Validate(c.in)
		if ok != c.ok {
			t.Fatalf("Validate(%q) = %v (%s), want %v", c.in, ok, reason, c.ok)
		}
	}
}
