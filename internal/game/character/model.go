// Package character defines the creature domain model: species, progression
// attributes, and per-battle state.
package character

import (
	"github.com/kaizoquest/kaizoquest/internal/game/align"
	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

// Status identifies one kind of battle status effect. A character's active
// statuses map each Status to a non-negative intensity counter whose meaning
// varies by status: stack count for Bleed, inverse recovery chance for Stun,
// always zero for Defend.
type Status int

const (
	StatusDefend Status = iota
	StatusBleed
	StatusStun
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusDefend:
		return "defend"
	case StatusBleed:
		return "bleed"
	case StatusStun:
		return "stun"
	default:
		return "unknown"
	}
}

// ParseStatus maps a status name back to its value.
//
// Postcondition: Returns (status, true) for a recognised name, or
// (StatusDefend, false) otherwise.
func ParseStatus(name string) (Status, bool) {
	switch name {
	case "defend":
		return StatusDefend, true
	case "bleed":
		return StatusBleed, true
	case "stun":
		return StatusStun, true
	}
	return StatusDefend, false
}

// ActionID is an opaque index into a caller-owned action pool. Characters
// store only the ids of the actions they know, never the action values.
type ActionID = int

// Species holds the fixed growth data shared by every character of a kind.
// Immutable once created.
type Species struct {
	// Name is the species display name.
	Name string
	// BST is the base stat total: the scalar power budget the ratio vector
	// is scaled against.
	BST int
	// BaseStats is the ratio vector describing relative stat strengths.
	// Componentwise non-negative; not required to sum to 1.
	BaseStats stats.Stats[float64]
	// Alignment is the species' position in the advantage cycle.
	Alignment align.Alignment
}

// Attributes is the progression state that persists across battles.
type Attributes struct {
	Level      int
	Experience int // always in [0, ExperienceToLevel)
	// Stats is the realized integer stat vector, grown through leveling.
	Stats stats.Stats[int]
	// Actions are the ids of the actions this character knows, in learn order.
	Actions []ActionID
}

// BattleState is the mutable state that resets on every battle boundary.
type BattleState struct {
	// Alignment is a copy of the species alignment, kept separately so a
	// future effect could override it mid-battle.
	Alignment align.Alignment
	// Health is the current health, always in [0, Attributes.Stats.Health].
	Health int
	// Statuses maps each active status to its intensity.
	Statuses map[Status]int
}

// Character aggregates identity, growth data, progression, and battle state.
// Identity is the name; names are not guaranteed unique.
type Character struct {
	Name       string
	Species    Species
	Attributes Attributes
	State      BattleState
}

// FromSpecies creates a fresh character of the given species with zeroed
// attributes and battle state.
//
// Postcondition: Level, Experience, Stats, and Health are all zero; the
// status map is empty; the battle alignment matches the species alignment.
func FromSpecies(species Species) *Character {
	return &Character{
		Name:    species.Name,
		Species: species,
		Attributes: Attributes{
			Actions: []ActionID{},
		},
		State: BattleState{
			Alignment: species.Alignment,
			Statuses:  make(map[Status]int),
		},
	}
}

// FromSpeciesAndActions creates a fresh character that already knows the
// given action ids.
func FromSpeciesAndActions(species Species, actions []ActionID) *Character {
	c := FromSpecies(species)
	c.Attributes.Actions = append(c.Attributes.Actions[:0], actions...)
	return c
}

// Priority returns the character's speed stat, used to break turn-order ties.
func (c *Character) Priority() int {
	return c.Attributes.Stats.Speed
}

// Refresh resets battle state from the current realized stats and species
// alignment: full health, no statuses. Idempotent; called whenever the
// character enters or leaves a battle.
//
// Postcondition: Health == Attributes.Stats.Health; Statuses is empty;
// State.Alignment == Species.Alignment.
func (c *Character) Refresh() {
	c.State.Alignment = c.Species.Alignment
	c.State.Health = c.Attributes.Stats.Health
	c.State.Statuses = make(map[Status]int)
}

// DealDamage reduces current health by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: State.Health >= 0.
func (c *Character) DealDamage(amount int) {
	c.State.Health -= amount
	if c.State.Health < 0 {
		c.State.Health = 0
	}
}

// HasStatus reports whether the given status is currently active.
func (c *Character) HasStatus(s Status) bool {
	_, ok := c.State.Statuses[s]
	return ok
}

// StatusIntensity returns the intensity for status s, or 0 if not active.
func (c *Character) StatusIntensity(s Status) int {
	return c.State.Statuses[s]
}

// ApplyStatus raises the intensity of status s by delta, activating it at
// zero first if absent. Applying with delta 0 activates the status without
// raising its intensity (how Defend is recorded).
//
// Postcondition: HasStatus(s) is true.
func (c *Character) ApplyStatus(s Status, delta int) {
	if _, ok := c.State.Statuses[s]; !ok {
		c.State.Statuses[s] = 0
	}
	c.State.Statuses[s] += delta
}

// RemoveStatus clears status s. No-op when the status is not active.
//
// Postcondition: HasStatus(s) is false.
func (c *Character) RemoveStatus(s Status) {
	delete(c.State.Statuses, s)
}
