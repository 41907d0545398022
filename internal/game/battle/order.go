package battle

import (
	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
	"github.com/kaizoquest/kaizoquest/internal/game/rng"
)

// PlayerFirst reports whether the player moves before the enemy this round.
// The higher action priority goes first; on a tie the faster character goes
// first; on a speed tie a coin flip decides.
func PlayerFirst(playerAct, enemyAct action.Action, player, enemy *character.Character, src Source) bool {
	if playerAct.Priority() != enemyAct.Priority() {
		return playerAct.Priority() > enemyAct.Priority()
	}
	if player.Priority() != enemy.Priority() {
		return player.Priority() > enemy.Priority()
	}
	return rng.CoinFlip(src)
}
