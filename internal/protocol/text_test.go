package protocol

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestParseCommand(t *testing.T) {
	tests := map[string]struct {
		line     string
		exp      ClientMessage
		expUsage string
	}{
		"blank line": {
			line: "   ",
			exp:  nil,
		},
		"bare direction": {
			line: "n",
			exp:  Move{Direction: "north"},
		},
		"uppercase direction via move": {
			line: "move NORTH",
			exp:  Move{Direction: "north"},
		},
		"say keeps spacing of rest": {
			line: "say hello  there",
			exp:  Say{Text: "hello  there"},
		},
		"say without text": {
			line:     "say",
			expUsage: "Say what?",
		},
		"login": {
			line: "login bob hunter22",
			exp:  Login{Username: "bob", Password: "hunter22"},
		},
		"login missing password": {
			line:     "login bob",
			expUsage: "Usage: login <username> <password>",
		},
		"register with race": {
			line: "register bob hunter22 Bob elf",
			exp:  Register{Username: "bob", Password: "hunter22", CharacterName: "Bob", Race: "elf"},
		},
		"kick expands direction": {
			line: "kick goblin e",
			exp:  UseSkill{SkillId: "kick", TargetId: "goblin", Direction: "east"},
		},
		"hide": {
			line: "hide",
			exp:  UseSkill{SkillId: "hide"},
		},
		"cast with target": {
			line: "cast firebolt rat",
			exp:  CastSpell{SpellId: "firebolt", TargetId: "rat"},
		},
		"unlock": {
			line: "unlock w",
			exp:  Unlock{Direction: "west"},
		},
		"shutdown bad number": {
			line:     "shutdown soon",
			expUsage: `"soon" is not a valid number.`,
		},
		"unknown": {
			line:     "dance wildly",
			expUsage: "Unknown command: dance",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)

			if tt.expUsage != "" {
				var ue *UsageError
				if !errors.As(err, &ue) {
					t.Fatalf("expected usage error, got %v", err)
				}
				testutil.AssertEqual(t, "usage", ue.Message, tt.expUsage)
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.exp {
				t.Errorf("got %#v, expected %#v", got, tt.exp)
			}
		})
	}
}
