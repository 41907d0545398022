// Package align defines the alignment cycle that determines attack
// effectiveness. Alignments form a rock-paper-scissors relation: each
// alignment is strong against one neighbor, weak against the other, and
// neutral against itself.
package align

import "strings"

// Alignment is one position in the three-way advantage cycle.
type Alignment int

const (
	Rock Alignment = iota
	Paper
	Scissors
)

// All lists every alignment, in cycle order.
var All = []Alignment{Rock, Paper, Scissors}

// String returns the human-readable alignment name.
func (a Alignment) String() string {
	switch a {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "unknown"
	}
}

// Parse maps an alignment name back to its value. Matching is
// case-insensitive so hand-edited content files are forgiving.
//
// Postcondition: Returns (alignment, true) for a recognised name, or
// (Rock, false) otherwise.
func Parse(name string) (Alignment, bool) {
	switch strings.ToLower(name) {
	case "rock":
		return Rock, true
	case "paper":
		return Paper, true
	case "scissors":
		return Scissors, true
	}
	return Rock, false
}

// Effectiveness factors, scaled by 10 to keep the damage formula in integer
// arithmetic: 5 = not very effective (0.5x), 10 = neutral (1x),
// 20 = super effective (2x).
const (
	NotVeryEffective = 5
	Neutral          = 10
	SuperEffective   = 20
)

// Effectiveness returns the scaled damage factor for an attack of alignment
// attacker landing on a defender of alignment defender. The table is total:
// every ordered pair resolves to exactly one of the three factors.
//
// Postcondition: Returns NotVeryEffective, Neutral, or SuperEffective.
func Effectiveness(attacker, defender Alignment) int {
	switch {
	case attacker == Rock && defender == Paper,
		attacker == Paper && defender == Scissors,
		attacker == Scissors && defender == Rock:
		return NotVeryEffective
	case attacker == Rock && defender == Scissors,
		attacker == Scissors && defender == Paper,
		attacker == Paper && defender == Rock:
		return SuperEffective
	default:
		return Neutral
	}
}
