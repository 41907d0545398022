// Package world holds the content a game runs on: the species roster and the
// shared action pool. Worlds are generated offline and loaded from YAML at
// server start.
package world

import (
	"errors"

	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

// knownActionCount is how many actions a freshly sampled character knows.
const knownActionCount = 4

// Source produces the random draws world sampling needs.
type Source interface {
	Intn(n int) int
}

// World is a loaded content set.
type World struct {
	Species []character.Species
	Actions *action.Pool
}

// Validate checks that the world can actually produce characters.
func (w *World) Validate() error {
	if len(w.Species) == 0 {
		return errors.New("world has no species")
	}
	if w.Actions == nil {
		return errors.New("world has no action pool")
	}
	return nil
}

// NewCharacter samples a fresh level-zero character: a uniformly drawn
// species with four action ids drawn from the pool. Padded draws leave the
// character knowing Skip for that slot.
//
// Precondition: the world has been validated.
func (w *World) NewCharacter(src Source) *character.Character {
	species := w.Species[src.Intn(len(w.Species))]
	ids := make([]character.ActionID, knownActionCount)
	for i := range ids {
		ids[i] = w.Actions.Sample(src)
	}
	return character.FromSpeciesAndActions(species, ids)
}

// SampleAtLevel samples a character already grown to the given level, with
// stats scaled to match. Used to spawn wild enemies near the player's level.
//
// Precondition: level >= 1.
func (w *World) SampleAtLevel(level int, src Source) *character.Character {
	c := w.NewCharacter(src)
	c.GainExperience(level*character.ExperienceToLevel, src)
	c.Attributes.Stats = stats.Scale(c.Species.BaseStats, level*character.ScalingFactor, src)
	c.Refresh()
	return c
}
