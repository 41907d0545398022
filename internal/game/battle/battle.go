// Package battle runs one encounter between two characters. Each round both
// combatants pick an action, the round resolves in move order, and EndTurn
// settles the outcome and awards experience.
package battle

import (
	"fmt"

	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// State is the outcome of a battle as seen between turns.
type State int

const (
	// InProgress means both combatants can still act.
	InProgress State = iota
	// Victory means the enemy has no health left.
	Victory
	// Defeat means the player has no health left.
	Defeat
)

func (s State) String() string {
	switch s {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "in progress"
	}
}

// Source produces the random draws a battle needs: stun recovery rolls and
// move-order coin flips.
type Source interface {
	Intn(n int) int
}

// Battle tracks one encounter. The player and enemy are mutated in place so
// the caller keeps the surviving character's state after the fight.
type Battle struct {
	Player *character.Character
	Enemy  *character.Character

	src Source
}

// New starts a battle between player and enemy.
//
// Precondition: both characters have been refreshed for combat.
func New(player, enemy *character.Character, src Source) *Battle {
	return &Battle{Player: player, Enemy: enemy, src: src}
}

// State reports the battle outcome. A simultaneous knockout counts as a
// defeat.
func (b *Battle) State() State {
	if b.Player.State.Health == 0 {
		return Defeat
	}
	if b.Enemy.State.Health == 0 {
		return Victory
	}
	return InProgress
}

// PlayerTurn resolves the player's action against the enemy. It is a no-op
// once the battle has been decided.
func (b *Battle) PlayerTurn(act action.Action) []string {
	if b.State() != InProgress {
		return nil
	}
	return b.takeTurn(b.Player, b.Enemy, act)
}

// EnemyTurn resolves the enemy's action against the player. It is a no-op
// once the battle has been decided.
func (b *Battle) EnemyTurn(act action.Action) []string {
	if b.State() != InProgress {
		return nil
	}
	return b.takeTurn(b.Enemy, b.Player, act)
}

// takeTurn applies one combatant's action, honoring their debuffs. A stunned
// combatant rolls for recovery before acting; the roll succeeds with
// probability 1/(intensity+1). Recovery skips the bleed chip for the round.
func (b *Battle) takeTurn(user, target *character.Character, act action.Action) []string {
	if user.HasStatus(character.StatusStun) {
		intensity := user.StatusIntensity(character.StatusStun)
		if b.src.Intn(intensity+1) != 0 {
			return []string{fmt.Sprintf("%s is stunned.", user.Name)}
		}
		user.RemoveStatus(character.StatusStun)
		logs := []string{fmt.Sprintf("%s is no longer stunned.", user.Name)}
		return append(logs, act.Act(user, target)...)
	}
	if user.HasStatus(character.StatusBleed) {
		logs := act.Act(user, target)
		user.DealDamage(user.StatusIntensity(character.StatusBleed))
		return append(logs, fmt.Sprintf("%s was hurt by bleed.", user.Name))
	}
	return act.Act(user, target)
}

// EndTurn settles the round. On victory the player is awarded the enemy's
// experience value divided by the player's level. While the battle continues
// the defend status wears off both combatants.
func (b *Battle) EndTurn() (State, []string) {
	state := b.State()
	switch state {
	case Victory:
		logs := []string{fmt.Sprintf("Defeated %s!", b.Enemy.Name)}
		level := b.Player.Attributes.Level
		if level < 1 {
			level = 1
		}
		reward := b.Enemy.ExperienceValue() / level
		return state, append(logs, b.Player.GainExperience(reward, b.src)...)
	case Defeat:
		return state, []string{fmt.Sprintf("%s died!", b.Player.Name)}
	default:
		b.Player.RemoveStatus(character.StatusDefend)
		b.Enemy.RemoveStatus(character.StatusDefend)
		return state, nil
	}
}
