package player

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestValidateUsername(t *testing.T) {
	tests := map[string]struct {
		username string
		valid    bool
	}{
		"simple":             {username: "ada", valid: true},
		"digits underscores": {username: "ada_99", valid: true},
		"sixteen chars":      {username: "a234567890123456", valid: true},
		"too short":          {username: "ad", valid: false},
		"too long":           {username: "a2345678901234567", valid: false},
		"leading digit":      {username: "9ada", valid: false},
		"space":              {username: "ada b", valid: false},
		"empty":              {username: "", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", ValidateUsername(tt.username) == nil, tt.valid)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := map[string]struct {
		password string
		valid    bool
	}{
		"minimum":   {password: strings.Repeat("x", 8), valid: true},
		"maximum":   {password: strings.Repeat("x", 64), valid: true},
		"too short": {password: strings.Repeat("x", 7), valid: false},
		"too long":  {password: strings.Repeat("x", 65), valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", ValidatePassword(tt.password) == nil, tt.valid)
		})
	}
}

func TestValidateCharacterName(t *testing.T) {
	tests := map[string]struct {
		name  string
		valid bool
	}{
		"capitalized": {name: "Aldric", valid: true},
		"lowercase":   {name: "aldric", valid: false},
		"inner caps":  {name: "AlDric", valid: false},
		"too short":   {name: "Al", valid: false},
		"digits":      {name: "Ald1", valid: false},
		"too long":    {name: "A" + strings.Repeat("b", 16), valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", ValidateCharacterName(tt.name) == nil, tt.valid)
		})
	}
}
