package display

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pixil98/mudcore/internal/protocol"
)

// DamageVerb describes how hard a hit landed, in the third person.
func DamageVerb(dmg int) string {
	switch {
	case dmg <= 0:
		return "grazes"
	case dmg <= 2:
		return "scratches"
	case dmg <= 5:
		return "hits"
	case dmg <= 9:
		return "wounds"
	case dmg <= 14:
		return "mauls"
	default:
		return "devastates"
	}
}

var avoidVerbs = map[string]string{
	"dodge": "dodges",
	"parry": "parries",
	"evade": "evades",
}

// Render turns a server message into text for a line transport. Messages
// that only structured clients use render as "".
func Render(msg protocol.ServerMessage) string {
	switch m := msg.(type) {
	case protocol.RoomInfo:
		return renderRoom(m)
	case protocol.MoveResult:
		if m.Success {
			return ""
		}
		return m.Reason
	case protocol.Combat:
		return renderCombat(m)
	case protocol.SkillEffect:
		return m.Message
	case protocol.SpellEffect:
		return m.Message
	case protocol.EffectTick:
		return m.Message
	case protocol.Inventory:
		return renderInventory(m)
	case protocol.RoomItems:
		if len(m.Items) == 0 {
			return ""
		}
		return "On the ground: " + itemNames(m.Items) + "."
	case protocol.NPCEntered:
		if m.From == "" {
			return fmt.Sprintf("%s appears.", m.NPC.Name)
		}
		return fmt.Sprintf("%s arrives.", m.NPC.Name)
	case protocol.NPCLeft:
		if m.Direction == "" {
			return fmt.Sprintf("%s leaves.", m.NPC.Name)
		}
		return fmt.Sprintf("%s leaves %s.", m.NPC.Name, m.Direction)
	case protocol.NPCDied:
		return fmt.Sprintf("%s dies.", m.NPC.Name)
	case protocol.PlayerEntered:
		return fmt.Sprintf("%s arrives.", m.Name)
	case protocol.PlayerLeft:
		if m.Direction == "" {
			return fmt.Sprintf("%s leaves.", m.Name)
		}
		return fmt.Sprintf("%s leaves %s.", m.Name, m.Direction)
	case protocol.Chat:
		return fmt.Sprintf("%s says, %q", m.From, m.Text)
	case protocol.LevelUp:
		return fmt.Sprintf("You have reached level %d!", m.Level)
	case protocol.System:
		return m.Message
	case protocol.Error:
		return m.Message
	case protocol.ExitChanged:
		return m.Message
	case protocol.ShutdownCountdown:
		if m.TicksRemaining == 0 {
			return "The server is shutting down."
		}
		return fmt.Sprintf("Shutdown in %d ticks.", m.TicksRemaining)
	case protocol.Pong:
		return "Pong."
	}
	return ""
}

func renderRoom(m protocol.RoomInfo) string {
	var b strings.Builder
	b.WriteString(Title(m.Name))
	b.WriteString("\n")
	if m.Description != "" {
		b.WriteString(m.Description)
		b.WriteString("\n")
	}
	if len(m.Exits) == 0 {
		b.WriteString("Exits: none")
	} else {
		b.WriteString("Exits: " + strings.Join(m.Exits, " "))
	}
	for _, f := range m.Features {
		b.WriteString("\nThere is a " + f.Label + " here.")
	}
	for _, n := range m.NPCs {
		b.WriteString("\n" + Capitalize(n.Name) + " is here.")
	}
	for _, p := range m.Players {
		b.WriteString("\n" + p + " is here.")
	}
	return b.String()
}

func renderCombat(m protocol.Combat) string {
	switch m.Outcome {
	case "hit":
		if m.Backstab {
			return fmt.Sprintf("%s backstabs %s! (%d)", m.Attacker, m.Defender, m.Damage)
		}
		return fmt.Sprintf("%s %s %s. (%d)", m.Attacker, DamageVerb(m.Damage), m.Defender, m.Damage)
	case "miss":
		return fmt.Sprintf("%s misses %s.", m.Attacker, m.Defender)
	}
	verb, ok := avoidVerbs[m.Outcome]
	if !ok {
		verb = "avoids"
	}
	return fmt.Sprintf("%s %s %s's attack.", m.Defender, verb, m.Attacker)
}

func renderInventory(m protocol.Inventory) string {
	var b strings.Builder
	if len(m.Items) == 0 {
		b.WriteString("You are carrying nothing.")
	} else {
		b.WriteString("You are carrying: " + itemNames(m.Items) + ".")
	}
	for _, slot := range slices.Sorted(maps.Keys(m.Equipment)) {
		fmt.Fprintf(&b, "\n  %s: %s", slot, m.Equipment[slot].Name)
	}
	fmt.Fprintf(&b, "\nGold: %d", m.Gold)
	return b.String()
}

func itemNames(items []protocol.ItemInfo) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return strings.Join(names, ", ")
}
