// Package rules holds the fixed arithmetic of the character sheet. Derived
// stats are pure functions of the six ability scores and are recomputed
// whenever scores change, never cached.
package rules

// Ability scores are clamped to this range on every write.
const (
	MinAbilityScore = 1
	MaxAbilityScore = 20
)

// ProficiencyBonus is fixed at level 1.
const ProficiencyBonus = 2

// BaseLevel is the level every character starts at.
const BaseLevel = 1

// AbilityModifier converts an ability score to its modifier,
// floor((score-10)/2). Integer division truncates toward zero, so odd scores
// below 10 need the extra step down.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 && diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// HitPoints is the level-1 baseline: 10 plus the constitution modifier.
func HitPoints(constitution int) int {
	return 10 + AbilityModifier(constitution)
}

// ArmorClass is the unarmored baseline: 10 plus the dexterity modifier.
func ArmorClass(dexterity int) int {
	return 10 + AbilityModifier(dexterity)
}

// ClampScore forces a score into the legal [1, 20] range.
func ClampScore(score int) int {
	if score < MinAbilityScore {
		return MinAbilityScore
	}
	if score > MaxAbilityScore {
		return MaxAbilityScore
	}
	return score
}
