package world

import (
	"fmt"

	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/align"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

const (
	worstBST = 200
	bestBST  = 700

	worstAttackPower = 10
	bestAttackPower  = 150

	// One generated attack in four carries priority.
	priorityMoveChance = 4

	speciesCount = 351

	// Generated attacks plus Skip padding together fill this many slots.
	attackSlots = 60
	maxPadding  = 20
)

var speciesSuffixes = []string{"Pawn", "Knight", "Rook", "Bishop", "Queen", "King"}

var attackSuffixes = []string{
	"Fist", "Punch", "Kick", "Jab", "Chop", "Slam",
	"Foot", "Knee", "Elbow", "Headbutt", "Charge",
}

// Generate samples a complete world: a full species roster and an action
// pool of generated attacks followed by the stock utility moves.
func Generate(src Source) *World {
	padding := src.Intn(maxPadding)

	actions := make([]action.Action, 0, attackSlots-padding+9)
	for i := 0; i < attackSlots-padding; i++ {
		actions = append(actions, randomAttack(src))
	}
	actions = append(actions, stockActions()...)

	species := make([]character.Species, speciesCount)
	for i := range species {
		species[i] = randomSpecies(src)
	}

	return &World{
		Species: species,
		Actions: action.NewPool(actions, padding),
	}
}

// stockActions are the hand-authored utility moves every world carries,
// appended after the generated attacks so their ids stay stable.
func stockActions() []action.Action {
	return []action.Action{
		action.NewPureAttack("Burst", 20),
		action.NewPureAttack("Blast", 40),
		action.NewDefend("Block"),
		action.NewDefend("Dodge"),
		action.NewBleed("Cut", 1),
		action.NewBleed("Slice", 1),
		action.NewStun("Lullabye"),
		action.NewStun("Paralyze"),
		action.NewStun("Yawn"),
	}
}

func randomAlignment(src Source) align.Alignment {
	return align.All[src.Intn(len(align.All))]
}

// randomRatios draws four positive weights and normalizes them to sum to 1.
func randomRatios(src Source) stats.Stats[float64] {
	var weights [4]float64
	var sum float64
	for i := range weights {
		weights[i] = float64(src.Intn(1000) + 1)
		sum += weights[i]
	}
	return stats.FromValues(weights[0]/sum, weights[1]/sum, weights[2]/sum, weights[3]/sum)
}

func randomSpecies(src Source) character.Species {
	alignment := randomAlignment(src)
	return character.Species{
		Name:      fmt.Sprintf("%s %s", alignment, speciesSuffixes[src.Intn(len(speciesSuffixes))]),
		BST:       worstBST + src.Intn(bestBST-worstBST),
		BaseStats: randomRatios(src),
		Alignment: alignment,
	}
}

func randomAttack(src Source) action.Attack {
	alignment := randomAlignment(src)
	priority := 0
	if src.Intn(priorityMoveChance) == 0 {
		priority = 1
	}
	return action.NewAttack(
		fmt.Sprintf("%s %s", alignment, attackSuffixes[src.Intn(len(attackSuffixes))]),
		worstAttackPower+src.Intn(bestAttackPower-worstAttackPower),
		alignment,
		priority,
	)
}
