package model

import (
	"testing"
	"time"
)

func TestOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		pub      Publication
		expected bool
	}{
		{"borrowed past due", Publication{IsBorrowed: true, DueDate: &past}, true},
		{"borrowed not yet due", Publication{IsBorrowed: true, DueDate: &future}, false},
		{"not borrowed", Publication{IsBorrowed: false}, false},
		// Borrowed without a due date violates the invariant; fail safe.
		{"borrowed nil due", Publication{IsBorrowed: true}, false},
	}

	for _, tt := range tests {
		if got := tt.pub.Overdue(now); got != tt.expected {
			t.Errorf("%s: Overdue() = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleReader, true},
		{RoleReader, RoleAdmin, false},
		{RoleReader, RoleReader, true},
		// Unknown roles fail-closed.
		{"unknown", RoleReader, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
	}

	for _, tt := range tests {
		if got := RoleAtLeast(tt.role, tt.minimum); got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}
