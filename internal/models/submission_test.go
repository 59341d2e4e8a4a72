package models

import (
	"regexp"
	"testing"
	"time"
)

func TestNewSubmissionIDFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 14, 25, 1, 0, time.UTC)
	id := NewSubmissionID(now)

	pattern := regexp.MustCompile(`^WIG-20260831142501-[0-9A-F]{6}$`)
	if !pattern.MatchString(id) {
		t.Errorf("id = %q, want WIG-<timestamp>-<6 hex> format", id)
	}
}

func TestNewSubmissionIDIsUnique(t *testing.T) {
	t.Parallel()

	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewSubmissionID(now)
		if seen[id] {
			t.Fatalf("duplicate id %q within the same second", id)
		}
		seen[id] = true
	}
}
