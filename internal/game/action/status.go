package action

import (
	"fmt"

	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// DefendPriority makes Defend resolve before ordinary attacks in the same
// round.
const DefendPriority = 2

// Defend raises the user's guard for the rest of the round: while active,
// both attack variants are fully blocked. The status is removed
// unconditionally during end-of-round cleanup.
type Defend struct {
	name string
}

// NewDefend creates a defend action.
func NewDefend(name string) Defend {
	return Defend{name: name}
}

// Name implements Action.
func (d Defend) Name() string { return d.name }

// Description implements Action.
func (d Defend) Description() string { return "Defend against attacks." }

// Priority implements Action.
func (d Defend) Priority() int { return DefendPriority }

// Act implements Action. It touches only the user.
func (d Defend) Act(user, _ *character.Character) []string {
	user.ApplyStatus(character.StatusDefend, 0)
	return []string{fmt.Sprintf("%s is defending.", user.Name)}
}

// Bleed stacks a damage-over-time status on the target: the target loses
// intensity health at the end of each of its turns. Mutually exclusive with
// Stun — a stunned target cannot also bleed.
type Bleed struct {
	name  string
	power int
}

// NewBleed creates a bleed action.
//
// Precondition: power >= 0.
func NewBleed(name string, power int) Bleed {
	return Bleed{name: name, power: power}
}

// Name implements Action.
func (b Bleed) Name() string { return b.name }

// Description implements Action.
func (b Bleed) Description() string {
	return fmt.Sprintf("Applies %d bleeding to the enemy.", b.power)
}

// Priority implements Action.
func (b Bleed) Priority() int { return 0 }

// Power returns the intensity added per application.
func (b Bleed) Power() int { return b.power }

// Act implements Action. Fails without state change when the target is
// stunned.
func (b Bleed) Act(user, target *character.Character) []string {
	logs := []string{fmt.Sprintf("%s used %s.", user.Name, b.name)}

	if target.HasStatus(character.StatusStun) {
		logs = append(logs, fmt.Sprintf("But %s is stunned.", target.Name))
		return logs
	}

	target.ApplyStatus(character.StatusBleed, b.power)
	logs = append(logs, fmt.Sprintf("%s gained %d bleeding.", target.Name, b.power))
	return logs
}

// Stun stacks a stun status on the target: each stack lowers the chance the
// target recovers at the start of its turn. Mutually exclusive with Bleed.
type Stun struct {
	name string
}

// NewStun creates a stun action.
func NewStun(name string) Stun {
	return Stun{name: name}
}

// Name implements Action.
func (s Stun) Name() string { return s.name }

// Description implements Action.
func (s Stun) Description() string { return "Stuns the enemy." }

// Priority implements Action.
func (s Stun) Priority() int { return 0 }

// Act implements Action. Fails without state change when the target is
// bleeding.
func (s Stun) Act(user, target *character.Character) []string {
	logs := []string{fmt.Sprintf("%s used %s.", user.Name, s.name)}

	if target.HasStatus(character.StatusBleed) {
		logs = append(logs, fmt.Sprintf("But %s is bleeding.", target.Name))
		return logs
	}

	target.ApplyStatus(character.StatusStun, 1)
	logs = append(logs, fmt.Sprintf("%s is stunned.", target.Name))
	return logs
}
