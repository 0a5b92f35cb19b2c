package validation

import (
	"strings"
	"testing"
)

func TestValidateGroupName(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		wantErr bool
	}{
		{"valid simple name", "Sales", false},
		{"valid with digits", "Team42", false},
		{"valid single character", "a", false},
		{"valid at max length", strings.Repeat("a", 50), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 51), true},
		{"contains hyphen", "dev-team", true},
		{"contains underscore", "dev_team", true},
		{"contains space", "dev team", true},
		{"contains dot", "dev.team", true},
		{"non-ascii", "équipe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupName(tt.group)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGroupName(%q) error = %v, wantErr %v", tt.group, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid lowercase", "alice", false},
		{"valid mixed case", "Alice99", false},
		{"valid at max length", strings.Repeat("u", 50), false},
		{"empty", "", true},
		{"too long", strings.Repeat("u", 51), true},
		{"contains at sign", "alice@example", true},
		{"contains hyphen", "alice-b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}
