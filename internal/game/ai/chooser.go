// Package ai picks actions for computer-controlled combatants.
package ai

import (
	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// Source produces the random draws a chooser needs.
type Source interface {
	Intn(n int) int
}

// Chooser selects a combatant's next action.
type Chooser interface {
	Choose(c *character.Character, pool *action.Pool) action.Action
}

// Random picks uniformly from the character's known actions.
type Random struct {
	Src Source
}

// Choose resolves a uniformly drawn known action through the pool. A
// character with no known actions skips the turn.
func (r Random) Choose(c *character.Character, pool *action.Pool) action.Action {
	known := c.Attributes.Actions
	if len(known) == 0 {
		return action.Skip{}
	}
	id := known[r.Src.Intn(len(known))]
	return pool.Get(id)
}
