package game

// MaxLevel is the highest level a character can reach.
const MaxLevel = 20

// levelTable holds the cumulative XP needed for each level; index 0 is level 1.
var levelTable = [MaxLevel]int{
	0, 200, 600, 1400, 3000,
	5500, 9000, 14000, 20500, 29000,
	40000, 53000, 68000, 86000, 107000,
	131000, 158000, 189000, 224000, 264000,
}

// XPForLevel returns the cumulative XP required to reach the given level.
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	if level > MaxLevel {
		return levelTable[MaxLevel-1]
	}
	return levelTable[level-1]
}

// XPForKill returns the XP a player earns for killing an NPC. A zero base
// falls back to a curve on the NPC's level.
func XPForKill(playerLevel, npcLevel, base int) int {
	if base <= 0 {
		base = 40 + npcLevel*npcLevel*8
	}
	diff := npcLevel - playerLevel
	var mult float64
	switch {
	case diff >= 3:
		mult = 1.5
	case diff >= 0:
		mult = 1.0 + float64(diff)*0.1
	case diff >= -3:
		mult = 1.0 + float64(diff)*0.2
	case diff >= -8:
		mult = 0.1
	}
	xp := int(float64(base) * mult)
	if xp < 1 && mult > 0 {
		xp = 1
	}
	return xp
}

// GainXP adds experience and returns every level reached as a result.
// Each level raises max hp and mana by the class's per-level amounts and
// fully restores both.
func (c *Character) GainXP(n int, class *ClassDef) []int {
	c.XP += n
	var reached []int
	for c.Level < MaxLevel && c.XP >= XPForLevel(c.Level+1) {
		c.Level++
		if class != nil {
			c.MaxHP += class.HPPerLevel
			c.MaxMana += class.ManaPerLevel
		}
		reached = append(reached, c.Level)
	}
	if len(reached) > 0 {
		c.HP = c.MaxHP
		c.Mana = c.MaxMana
	}
	return reached
}
