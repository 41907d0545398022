package action

import (
	"fmt"

	"github.com/kaizoquest/kaizoquest/internal/game/align"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// Attack is an aligned damaging attack resolved through the full damage
// formula: level factor, attack/defense ratio, same-alignment bonus, and the
// effectiveness cycle.
type Attack struct {
	name      string
	power     int
	alignment align.Alignment
	priority  int
}

// NewAttack creates an aligned attack.
//
// Precondition: power >= 0.
func NewAttack(name string, power int, alignment align.Alignment, priority int) Attack {
	return Attack{name: name, power: power, alignment: alignment, priority: priority}
}

// Name implements Action.
func (a Attack) Name() string { return a.name }

// Description implements Action.
func (a Attack) Description() string {
	desc := fmt.Sprintf("%s-aligned attack with %d power.", a.alignment, a.power)
	if a.priority > 0 {
		desc += " Has priority."
	}
	return desc
}

// Priority implements Action.
func (a Attack) Priority() int { return a.priority }

// Alignment returns the attack's alignment.
func (a Attack) Alignment() align.Alignment { return a.alignment }

// Power returns the attack's power.
func (a Attack) Power() int { return a.power }

// Act implements Action. A defending target blocks the attack entirely.
// Otherwise damage is
//
//	levelFactor * power * (attack/defense) * stab * eff / 50 / 10 / 10 + 2
//
// where levelFactor = 2*level/5 + 2, stab is 15 on an alignment match and 10
// otherwise, eff comes from the effectiveness cycle (x10 scaled), and every
// division truncates. Target defense is clamped to a minimum of 1 before the
// ratio division.
func (a Attack) Act(user, target *character.Character) []string {
	logs := []string{fmt.Sprintf("%s used %s.", user.Name, a.name)}

	if target.HasStatus(character.StatusDefend) {
		logs = append(logs, fmt.Sprintf("%s blocked %s's %s.", target.Name, user.Name, a.name))
		return logs
	}

	levelFactor := 2*user.Attributes.Level/5 + 2
	defense := target.Attributes.Stats.Defense
	if defense < 1 {
		defense = 1
	}
	ratio := user.Attributes.Stats.Attack / defense
	stab := 10
	if user.State.Alignment == a.alignment {
		stab = 15
	}

	eff := align.Effectiveness(a.alignment, target.State.Alignment)
	switch eff {
	case align.SuperEffective:
		logs = append(logs, "It's very effective.")
	case align.NotVeryEffective:
		logs = append(logs, "It's not very effective.")
	}

	damage := levelFactor*a.power*ratio*stab*eff/50/10/10 + 2
	target.DealDamage(damage)
	return logs
}

// PureAttack subtracts exactly its power from the target's health, bypassing
// the damage formula but not the Defend block.
type PureAttack struct {
	name  string
	power int
}

// NewPureAttack creates a fixed-power attack.
//
// Precondition: power >= 0.
func NewPureAttack(name string, power int) PureAttack {
	return PureAttack{name: name, power: power}
}

// Name implements Action.
func (a PureAttack) Name() string { return a.name }

// Description implements Action.
func (a PureAttack) Description() string {
	return fmt.Sprintf("Attack for exactly %d damage.", a.power)
}

// Priority implements Action.
func (a PureAttack) Priority() int { return 0 }

// Power returns the fixed damage amount.
func (a PureAttack) Power() int { return a.power }

// Act implements Action.
func (a PureAttack) Act(user, target *character.Character) []string {
	logs := []string{fmt.Sprintf("%s used %s.", user.Name, a.name)}

	if target.HasStatus(character.StatusDefend) {
		logs = append(logs, fmt.Sprintf("%s blocked %s's attack.", target.Name, user.Name))
		return logs
	}

	target.DealDamage(a.power)
	return logs
}
