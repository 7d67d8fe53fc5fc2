package combat

import "math/rand/v2"

// rollDamage rolls between half and all of base, less half the armor, with a
// minimum of 1.
func rollDamage(rng *rand.Rand, base, armor int) int {
	if base < 1 {
		base = 1
	}
	dmg := base/2 + rng.IntN(base-base/2+1) - armor/2
	return max(dmg, 1)
}

// chance rolls a percentage.
func chance(rng *rand.Rand, percent float64) bool {
	if percent <= 0 {
		return false
	}
	return rng.Float64()*100 < percent
}
