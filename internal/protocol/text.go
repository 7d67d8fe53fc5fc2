package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// UsageError is returned by ParseCommand when a line names a command but its
// arguments are wrong. Unlike ErrMalformed it does not end the connection.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usage(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

var directionAliases = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west",
	"u": "up", "d": "down",
	"ne": "northeast", "nw": "northwest", "se": "southeast", "sw": "southwest",
}

var directionWords = map[string]bool{
	"north": true, "south": true, "east": true, "west": true, "up": true, "down": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
}

// ExpandDirection turns an abbreviation such as "n" into "north". Other input
// is lowercased and returned unchanged.
func ExpandDirection(s string) string {
	s = strings.ToLower(s)
	if full, ok := directionAliases[s]; ok {
		return full
	}
	return s
}

// ParseCommand parses one line of text from a line-oriented transport.
// A blank line yields (nil, nil).
func ParseCommand(line string) (ClientMessage, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	if dir := ExpandDirection(verb); directionWords[dir] && len(args) == 0 {
		return Move{Direction: dir}, nil
	}

	switch verb {
	case "register":
		if len(args) < 3 {
			return nil, usage("Usage: register <username> <password> <character> [race] [class]")
		}
		m := Register{Username: args[0], Password: args[1], CharacterName: args[2]}
		if len(args) > 3 {
			m.Race = args[3]
		}
		if len(args) > 4 {
			m.Class = args[4]
		}
		return m, nil
	case "login":
		if len(args) != 2 {
			return nil, usage("Usage: login <username> <password>")
		}
		return Login{Username: args[0], Password: args[1]}, nil
	case "logout", "quit":
		return Logout{}, nil
	case "move", "go", "walk":
		if len(args) != 1 {
			return nil, usage("Usage: %s <direction>", verb)
		}
		return Move{Direction: ExpandDirection(args[0])}, nil
	case "look", "l":
		return Look{}, nil
	case "say", "'":
		if rest == "" {
			return nil, usage("Say what?")
		}
		return Say{Text: rest}, nil
	case "attack":
		return AttackToggle{}, nil
	case "target":
		if len(args) != 1 {
			return nil, usage("Usage: target <id>")
		}
		return SelectTarget{TargetId: args[0]}, nil
	case "skill":
		if len(args) < 1 {
			return nil, usage("Usage: skill <skill> [target] [direction]")
		}
		return skillMessage(args[0], args[1:]), nil
	case "bash", "track":
		if len(args) != 1 {
			return nil, usage("Usage: %s <target>", verb)
		}
		return UseSkill{SkillId: verb, TargetId: args[0]}, nil
	case "kick":
		if len(args) != 2 {
			return nil, usage("Usage: kick <target> <direction>")
		}
		return UseSkill{SkillId: verb, TargetId: args[0], Direction: ExpandDirection(args[1])}, nil
	case "meditate", "hide":
		return UseSkill{SkillId: verb}, nil
	case "cast":
		if len(args) < 1 || len(args) > 2 {
			return nil, usage("Usage: cast <spell> [target]")
		}
		m := CastSpell{SpellId: args[0]}
		if len(args) == 2 {
			m.TargetId = args[1]
		}
		return m, nil
	case "get", "take", "pickup":
		if len(args) != 1 {
			return nil, usage("Usage: %s <item>", verb)
		}
		return Pickup{ItemId: args[0]}, nil
	case "drop":
		if len(args) != 1 {
			return nil, usage("Usage: drop <item>")
		}
		return Drop{ItemId: args[0]}, nil
	case "equip", "wear", "wield":
		if len(args) != 1 {
			return nil, usage("Usage: %s <item>", verb)
		}
		return Equip{ItemId: args[0]}, nil
	case "use", "quaff", "eat":
		if len(args) != 1 {
			return nil, usage("Usage: %s <item>", verb)
		}
		return UseItem{ItemId: args[0]}, nil
	case "buy":
		if len(args) != 2 {
			return nil, usage("Usage: buy <vendor> <item>")
		}
		return Buy{VendorId: args[0], ItemId: args[1]}, nil
	case "sell":
		if len(args) != 2 {
			return nil, usage("Usage: sell <vendor> <item>")
		}
		return Sell{VendorId: args[0], ItemId: args[1]}, nil
	case "train":
		if len(args) != 2 {
			return nil, usage("Usage: train <trainer> <skill>")
		}
		return Train{TrainerId: args[0], SkillId: args[1]}, nil
	case "search":
		return Search{}, nil
	case "unlock":
		if len(args) != 1 {
			return nil, usage("Usage: unlock <direction>")
		}
		return Unlock{Direction: ExpandDirection(args[0])}, nil
	case "interact", "pull", "open", "touch":
		if len(args) != 1 {
			return nil, usage("Usage: %s <feature>", verb)
		}
		return Interact{FeatureId: args[0]}, nil
	case "rest", "sleep":
		return Rest{}, nil
	case "ping":
		m := Ping{}
		if len(args) == 1 {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return nil, usage("%q is not a valid number.", args[0])
			}
			m.Nonce = n
		}
		return m, nil
	case "shutdown":
		if len(args) != 1 {
			return nil, usage("Usage: shutdown <ticks>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, usage("%q is not a valid number.", args[0])
		}
		return Shutdown{Ticks: n}, nil
	}

	return nil, usage("Unknown command: %s", fields[0])
}

func skillMessage(id string, args []string) UseSkill {
	m := UseSkill{SkillId: strings.ToLower(id)}
	if len(args) > 0 {
		m.TargetId = args[0]
	}
	if len(args) > 1 {
		m.Direction = ExpandDirection(args[1])
	}
	return m
}
