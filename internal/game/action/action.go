// Package action defines the capabilities a character can use on its turn and
// the caller-owned pool that maps opaque action ids to implementations.
//
// The variant set is closed: Attack, PureAttack, Defend, Bleed, Stun, and
// Skip. New behaviors are added here as new types, not registered at runtime.
package action

import (
	"fmt"

	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// Action is something a character can do on its turn. Act mutates the user
// and/or target in place and returns the log lines describing what happened.
type Action interface {
	// Name returns the display name.
	Name() string
	// Description returns the menu description.
	Description() string
	// Priority returns the turn-order priority; higher acts first.
	Priority() int
	// Act applies the action's effects.
	//
	// Precondition: user and target must be non-nil.
	Act(user, target *character.Character) []string
}

// Skip is the no-op fallback action. It always succeeds and has no effect;
// unresolvable action ids resolve to it.
type Skip struct{}

// Name implements Action.
func (Skip) Name() string { return "Skip" }

// Description implements Action.
func (Skip) Description() string { return "User skips their next turn." }

// Priority implements Action.
func (Skip) Priority() int { return 0 }

// Act implements Action. It produces only the use line.
func (s Skip) Act(user, _ *character.Character) []string {
	return []string{fmt.Sprintf("%s used %s.", user.Name, s.Name())}
}

// Source is the subset of rng.Source needed for pool sampling.
// Using a local interface avoids a circular import.
type Source interface {
	Intn(n int) int
}

// Pool is a read-only, shared arena of actions indexed by character.ActionID.
// It is never mutated after construction, so concurrent reads need no
// synchronization. Padding widens the sampling range past the real actions so
// that some sampled ids resolve to Skip.
type Pool struct {
	actions []Action
	padding int
}

// NewPool builds a pool over the given actions with the given Skip padding.
//
// Precondition: padding >= 0.
func NewPool(actions []Action, padding int) *Pool {
	return &Pool{actions: actions, padding: padding}
}

// Len returns the number of real actions in the pool.
func (p *Pool) Len() int { return len(p.actions) }

// Padding returns the width of the Skip padding past the real actions.
func (p *Pool) Padding() int { return p.padding }

// Get resolves an action id. Ids outside the pool, including padding ids,
// resolve to Skip rather than failing.
//
// Postcondition: Never returns nil.
func (p *Pool) Get(id character.ActionID) Action {
	if id < 0 || id >= len(p.actions) {
		return Skip{}
	}
	return p.actions[id]
}

// Sample draws a uniform action id across the real actions plus padding.
//
// Precondition: src must be non-nil.
// Postcondition: Returns an id in [0, Len()+padding); padding ids resolve
// to Skip via Get.
func (p *Pool) Sample(src Source) character.ActionID {
	n := len(p.actions) + p.padding
	if n <= 0 {
		return 0
	}
	return src.Intn(n)
}
