package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/align"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of a world.
type yamlWorld struct {
	Species []yamlSpecies  `yaml:"species"`
	Actions yamlActionPool `yaml:"actions"`
}

// yamlSpecies is the YAML representation of a species.
type yamlSpecies struct {
	Name      string    `yaml:"name"`
	BST       int       `yaml:"bst"`
	Alignment string    `yaml:"alignment"`
	Stats     yamlStats `yaml:"stats"`
}

// yamlStats is the YAML representation of a base stat spread.
type yamlStats struct {
	Health  float64 `yaml:"health"`
	Attack  float64 `yaml:"attack"`
	Defense float64 `yaml:"defense"`
	Speed   float64 `yaml:"speed"`
}

// yamlActionPool is the YAML representation of the action pool. Move order
// is significant: action ids are positions in the moves list.
type yamlActionPool struct {
	Padding int        `yaml:"padding"`
	Moves   []yamlMove `yaml:"moves"`
}

// yamlMove is the YAML representation of one action. Kind selects the
// variant; the remaining fields apply per kind.
type yamlMove struct {
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Power     int    `yaml:"power,omitempty"`
	Alignment string `yaml:"alignment,omitempty"`
	Priority  int    `yaml:"priority,omitempty"`
}

// LoadFromFile reads and validates a single world YAML file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns a validated World or a non-nil error.
func LoadFromFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	w, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading world file %s: %w", path, err)
	}
	return w, nil
}

// LoadFromBytes parses and validates a world from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the world schema.
// Postcondition: Returns a validated World or a non-nil error.
func LoadFromBytes(data []byte) (*World, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	w, err := convertYAMLWorld(file.World)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return w, nil
}

// Encode renders a world back into the YAML file format. The moves list
// preserves pool order so action ids survive a round trip.
func Encode(w *World) ([]byte, error) {
	out := yamlWorldFile{
		World: yamlWorld{
			Species: make([]yamlSpecies, len(w.Species)),
			Actions: yamlActionPool{
				Padding: w.Actions.Padding(),
				Moves:   make([]yamlMove, w.Actions.Len()),
			},
		},
	}

	for i, s := range w.Species {
		out.World.Species[i] = yamlSpecies{
			Name:      s.Name,
			BST:       s.BST,
			Alignment: s.Alignment.String(),
			Stats: yamlStats{
				Health:  s.BaseStats.Health,
				Attack:  s.BaseStats.Attack,
				Defense: s.BaseStats.Defense,
				Speed:   s.BaseStats.Speed,
			},
		}
	}

	for i := 0; i < w.Actions.Len(); i++ {
		move, err := encodeMove(w.Actions.Get(i))
		if err != nil {
			return nil, err
		}
		out.World.Actions.Moves[i] = move
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding world YAML: %w", err)
	}
	return data, nil
}

func encodeMove(act action.Action) (yamlMove, error) {
	switch a := act.(type) {
	case action.Attack:
		return yamlMove{
			Kind:      "attack",
			Name:      a.Name(),
			Power:     a.Power(),
			Alignment: a.Alignment().String(),
			Priority:  a.Priority(),
		}, nil
	case action.PureAttack:
		return yamlMove{Kind: "pure_attack", Name: a.Name(), Power: a.Power()}, nil
	case action.Defend:
		return yamlMove{Kind: "defend", Name: a.Name()}, nil
	case action.Bleed:
		return yamlMove{Kind: "bleed", Name: a.Name(), Power: a.Power()}, nil
	case action.Stun:
		return yamlMove{Kind: "stun", Name: a.Name()}, nil
	default:
		return yamlMove{}, fmt.Errorf("encoding action %q: unknown kind %T", act.Name(), act)
	}
}

func convertYAMLWorld(in yamlWorld) (*World, error) {
	species := make([]character.Species, len(in.Species))
	for i, s := range in.Species {
		alignment, ok := align.Parse(s.Alignment)
		if !ok {
			return nil, fmt.Errorf("species %q: unknown alignment %q", s.Name, s.Alignment)
		}
		if s.BST < 0 {
			return nil, fmt.Errorf("species %q: bst %d is negative", s.Name, s.BST)
		}
		if s.Stats.Health < 0 || s.Stats.Attack < 0 || s.Stats.Defense < 0 || s.Stats.Speed < 0 {
			return nil, fmt.Errorf("species %q: stat ratios must not be negative", s.Name)
		}
		species[i] = character.Species{
			Name:      s.Name,
			BST:       s.BST,
			BaseStats: stats.FromValues(s.Stats.Health, s.Stats.Attack, s.Stats.Defense, s.Stats.Speed),
			Alignment: alignment,
		}
	}

	moves := make([]action.Action, len(in.Actions.Moves))
	for i, m := range in.Actions.Moves {
		act, err := convertYAMLMove(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		moves[i] = act
	}
	if in.Actions.Padding < 0 {
		return nil, fmt.Errorf("action pool padding %d is negative", in.Actions.Padding)
	}

	return &World{
		Species: species,
		Actions: action.NewPool(moves, in.Actions.Padding),
	}, nil
}

func convertYAMLMove(m yamlMove) (action.Action, error) {
	switch m.Kind {
	case "attack":
		alignment, ok := align.Parse(m.Alignment)
		if !ok {
			return nil, fmt.Errorf("attack %q: unknown alignment %q", m.Name, m.Alignment)
		}
		return action.NewAttack(m.Name, m.Power, alignment, m.Priority), nil
	case "pure_attack":
		return action.NewPureAttack(m.Name, m.Power), nil
	case "defend":
		return action.NewDefend(m.Name), nil
	case "bleed":
		return action.NewBleed(m.Name, m.Power), nil
	case "stun":
		return action.NewStun(m.Name), nil
	default:
		return nil, fmt.Errorf("move %q: unknown kind %q", m.Name, m.Kind)
	}
}
