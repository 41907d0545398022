package battle_test

import (
	"strings"
	"testing"

	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/align"
	"github.com/kaizoquest/kaizoquest/internal/game/battle"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
	"github.com/kaizoquest/kaizoquest/internal/game/rng"
	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

// stubSource replays a fixed sequence of draws.
type stubSource struct {
	vals []int
	i    int
}

func (s *stubSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func fakeCharacter(name string, health int) *character.Character {
	c := character.FromSpecies(character.Species{
		Name:      name,
		BaseStats: stats.FromValues(0.25, 0.25, 0.25, 0.25),
		Alignment: align.Rock,
	})
	c.Attributes.Stats.Health = health
	c.Refresh()
	return c
}

func TestBattle_State(t *testing.T) {
	b := battle.New(fakeCharacter("p", 10), fakeCharacter("e", 10), &stubSource{vals: []int{0}})
	if got := b.State(); got != battle.InProgress {
		t.Errorf("state = %v, want in progress", got)
	}

	b.Enemy.State.Health = 0
	if got := b.State(); got != battle.Victory {
		t.Errorf("state = %v, want victory", got)
	}

	// A simultaneous knockout is a defeat.
	b.Player.State.Health = 0
	if got := b.State(); got != battle.Defeat {
		t.Errorf("state = %v, want defeat", got)
	}
}

func TestBattle_TurnsAreNoopsOnceDecided(t *testing.T) {
	b := battle.New(fakeCharacter("p", 10), fakeCharacter("e", 10), &stubSource{vals: []int{0}})
	b.Enemy.State.Health = 0

	if logs := b.PlayerTurn(action.NewPureAttack("fake", 5)); logs != nil {
		t.Errorf("player turn after victory produced logs %v", logs)
	}
	if logs := b.EnemyTurn(action.NewPureAttack("fake", 5)); logs != nil {
		t.Errorf("enemy turn after victory produced logs %v", logs)
	}
	if b.Player.State.Health != 10 {
		t.Errorf("player took damage after the battle was decided")
	}
}

func TestBattle_Round(t *testing.T) {
	b := battle.New(fakeCharacter("p", 10), fakeCharacter("e", 9), &stubSource{vals: []int{0}})

	b.PlayerTurn(action.NewPureAttack("fake", 5))
	if b.Enemy.State.Health != 4 {
		t.Fatalf("enemy health = %d, want 4", b.Enemy.State.Health)
	}
	b.EnemyTurn(action.NewPureAttack("fake", 3))
	if b.Player.State.Health != 7 {
		t.Fatalf("player health = %d, want 7", b.Player.State.Health)
	}

	state, logs := b.EndTurn()
	if state != battle.InProgress {
		t.Errorf("state = %v, want in progress", state)
	}
	if len(logs) != 0 {
		t.Errorf("unexpected logs %v", logs)
	}
}

func TestBattle_StunnedTurnSkips(t *testing.T) {
	player := fakeCharacter("p", 10)
	player.ApplyStatus(character.StatusStun, 1)
	// Intn(2) draws 1, so the recovery roll fails.
	b := battle.New(player, fakeCharacter("e", 10), &stubSource{vals: []int{1}})

	logs := b.PlayerTurn(action.NewPureAttack("fake", 5))
	if want := "p is stunned."; len(logs) != 1 || logs[0] != want {
		t.Errorf("logs = %v, want [%q]", logs, want)
	}
	if b.Enemy.State.Health != 10 {
		t.Errorf("stunned player still dealt damage")
	}
	if !player.HasStatus(character.StatusStun) {
		t.Errorf("stun cleared without a recovery roll")
	}
}

func TestBattle_StunRecoveryActsSameTurn(t *testing.T) {
	player := fakeCharacter("p", 10)
	player.ApplyStatus(character.StatusStun, 1)
	b := battle.New(player, fakeCharacter("e", 10), &stubSource{vals: []int{0}})

	logs := b.PlayerTurn(action.NewPureAttack("fake", 5))
	if len(logs) == 0 || logs[0] != "p is no longer stunned." {
		t.Fatalf("logs = %v, want recovery note first", logs)
	}
	if b.Enemy.State.Health != 5 {
		t.Errorf("enemy health = %d, want 5", b.Enemy.State.Health)
	}
	if player.HasStatus(character.StatusStun) {
		t.Errorf("stun not cleared on recovery")
	}
}

func TestBattle_StunRecoveryRate(t *testing.T) {
	src := rng.NewCryptoSource()
	const trials = 1000

	recovered := 0
	for i := 0; i < trials; i++ {
		player := fakeCharacter("p", 10)
		player.ApplyStatus(character.StatusStun, 1)
		b := battle.New(player, fakeCharacter("e", 10), src)
		b.PlayerTurn(action.Skip{})
		if !player.HasStatus(character.StatusStun) {
			recovered++
		}
	}

	// Intensity 1 recovers with probability 1/2.
	if recovered < trials/3 || recovered > 2*trials/3 {
		t.Errorf("recovered %d of %d stunned turns, want roughly half", recovered, trials)
	}
}

func TestBattle_BleedChipsAfterActing(t *testing.T) {
	player := fakeCharacter("p", 10)
	player.ApplyStatus(character.StatusBleed, 2)
	b := battle.New(player, fakeCharacter("e", 10), &stubSource{vals: []int{0}})

	logs := b.PlayerTurn(action.NewPureAttack("fake", 5))
	if b.Enemy.State.Health != 5 {
		t.Errorf("enemy health = %d, want 5", b.Enemy.State.Health)
	}
	if player.State.Health != 8 {
		t.Errorf("player health = %d, want 8 after bleed chip", player.State.Health)
	}
	if !strings.Contains(strings.Join(logs, "\n"), "p was hurt by bleed.") {
		t.Errorf("missing bleed note in %v", logs)
	}
}

func TestBattle_EndTurnVictoryAwardsExperience(t *testing.T) {
	player := fakeCharacter("p", 10)
	player.Attributes.Level = 5

	enemy := character.FromSpecies(character.Species{
		Name:      "e",
		BST:       450,
		BaseStats: stats.FromValues(0.25, 0.25, 0.25, 0.25),
		Alignment: align.Rock,
	})
	enemy.Attributes.Level = 1

	b := battle.New(player, enemy, &stubSource{vals: []int{0}})
	state, logs := b.EndTurn()
	if state != battle.Victory {
		t.Fatalf("state = %v, want victory", state)
	}

	// Experience value 116 at level 1, split by the winner's level 5.
	joined := strings.Join(logs, "\n")
	if !strings.Contains(joined, "Defeated e!") {
		t.Errorf("missing victory note in %v", logs)
	}
	if !strings.Contains(joined, "Gained 23 experience!") {
		t.Errorf("missing experience note in %v", logs)
	}
	if player.Attributes.Experience != 23 {
		t.Errorf("player experience = %d, want 23", player.Attributes.Experience)
	}
}

func TestBattle_EndTurnDefeat(t *testing.T) {
	player := fakeCharacter("p", 10)
	player.State.Health = 0
	b := battle.New(player, fakeCharacter("e", 10), &stubSource{vals: []int{0}})

	state, logs := b.EndTurn()
	if state != battle.Defeat {
		t.Fatalf("state = %v, want defeat", state)
	}
	if want := "p died!"; len(logs) != 1 || logs[0] != want {
		t.Errorf("logs = %v, want [%q]", logs, want)
	}
}

func TestBattle_EndTurnClearsDefend(t *testing.T) {
	player := fakeCharacter("p", 10)
	enemy := fakeCharacter("e", 10)
	player.ApplyStatus(character.StatusDefend, 0)
	enemy.ApplyStatus(character.StatusDefend, 0)

	b := battle.New(player, enemy, &stubSource{vals: []int{0}})
	if state, _ := b.EndTurn(); state != battle.InProgress {
		t.Fatal("battle unexpectedly decided")
	}
	if player.HasStatus(character.StatusDefend) || enemy.HasStatus(character.StatusDefend) {
		t.Errorf("defend survived the end of the round")
	}
}

func TestPlayerFirst(t *testing.T) {
	player := fakeCharacter("p", 10)
	enemy := fakeCharacter("e", 10)

	attack := action.NewPureAttack("fake", 1)
	defend := action.NewDefend("fake")

	// Action priority dominates speed.
	player.Attributes.Stats.Speed = 1
	enemy.Attributes.Stats.Speed = 99
	if !battle.PlayerFirst(defend, attack, player, enemy, &stubSource{vals: []int{1}}) {
		t.Error("higher action priority should go first")
	}
	if battle.PlayerFirst(attack, defend, player, enemy, &stubSource{vals: []int{0}}) {
		t.Error("lower action priority should go second")
	}

	// On an action tie the faster character wins.
	player.Attributes.Stats.Speed = 5
	enemy.Attributes.Stats.Speed = 3
	if !battle.PlayerFirst(attack, attack, player, enemy, &stubSource{vals: []int{1}}) {
		t.Error("faster character should go first")
	}

	// A full tie falls to the coin flip.
	enemy.Attributes.Stats.Speed = 5
	if !battle.PlayerFirst(attack, attack, player, enemy, &stubSource{vals: []int{0}}) {
		t.Error("coin flip 0 should favor the player")
	}
	if battle.PlayerFirst(attack, attack, player, enemy, &stubSource{vals: []int{1}}) {
		t.Error("coin flip 1 should favor the enemy")
	}
}
