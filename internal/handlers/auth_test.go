// auth_test.go — Unit tests for account helpers.
package handlers

import "testing"

// TestNormalizeEmail verifies that case and stray whitespace don't
// split one address into two accounts.
func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "already canonical", email: "listener@example.com", want: "listener@example.com"},
		{name: "mixed case folded", email: "Listener@Example.COM", want: "listener@example.com"},
		{name: "surrounding whitespace trimmed", email: "  listener@example.com \n", want: "listener@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeEmail(tt.email); got != tt.want {
				t.Errorf("normalizeEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}
