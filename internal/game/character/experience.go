package character

import (
	"fmt"
	"math/bits"

	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

// Experience and growth tuning constants.
const (
	// BaseExperience divides the experience yield formula.
	BaseExperience = 31
	// ExperienceToLevel is the experience threshold per level.
	ExperienceToLevel = 100
	// ScalingFactor is the total stat growth granted on level-up.
	ScalingFactor = 100
)

// log2 returns floor(log2(x)) for x > 0, and 0 otherwise.
func log2(x int) int {
	if x <= 0 {
		return 0
	}
	return bits.Len(uint(x)) - 1
}

// ExperienceValue returns the experience this character is worth when
// defeated. Zero for characters with no level or no base stat total;
// otherwise a yield that grows with BST and level:
//
//	(BST * log2(BST+1)) * (level / log2(level+1)) / BaseExperience
//
// with every division truncating.
func (c *Character) ExperienceValue() int {
	if c.Attributes.Level == 0 || c.Species.BST == 0 {
		return 0
	}
	bst := c.Species.BST * log2(c.Species.BST+1)
	level := c.Attributes.Level / log2(c.Attributes.Level+1)
	return bst * level / BaseExperience
}

// GainExperience adds amount to the character's experience, absorbing any
// whole levels crossed and growing realized stats on level-up. The growth
// increment is one Scale(BaseStats, ScalingFactor) regardless of how many
// levels were gained in the call.
//
// Precondition: amount >= 0; src must be non-nil.
// Postcondition: Attributes.Experience is in [0, ExperienceToLevel);
// Attributes.Level is raised by the number of thresholds crossed.
func (c *Character) GainExperience(amount int, src stats.Source) []string {
	logs := []string{fmt.Sprintf("Gained %d experience!", amount)}

	total := c.Attributes.Experience + amount
	c.Attributes.Experience = total % ExperienceToLevel
	levels := total / ExperienceToLevel
	c.Attributes.Level += levels

	if levels > 0 {
		growth := stats.Scale(c.Species.BaseStats, ScalingFactor, src)
		logs = append(logs, fmt.Sprintf("Stats increased by %s.", growth))
		c.Attributes.Stats = c.Attributes.Stats.Add(growth)
	}
	return logs
}
