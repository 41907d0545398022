package stats_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kaizoquest/kaizoquest/internal/game/stats"
)

// cycleSource is a deterministic Source that returns 0, 1, 2, ... mod n.
type cycleSource struct{ next int }

func (c *cycleSource) Intn(n int) int {
	v := c.next % n
	c.next++
	return v
}

// TestStats_Add verifies componentwise addition.
func TestStats_Add(t *testing.T) {
	a := stats.FromValues(1, 1, 1, 1)
	b := stats.FromValues(0, 1, 2, 3)

	if got := a.Add(stats.Stats[int]{}); got != a {
		t.Errorf("a + zero = %+v, want %+v", got, a)
	}
	if got := a.Add(a); got != stats.FromValues(2, 2, 2, 2) {
		t.Errorf("a + a = %+v", got)
	}
	if got := a.Add(b); got != stats.FromValues(1, 2, 3, 4) {
		t.Errorf("a + b = %+v", got)
	}
}

// TestStats_IsZero verifies the zero-vector predicate for both element types.
func TestStats_IsZero(t *testing.T) {
	if !(stats.Stats[int]{}).IsZero() {
		t.Error("zero int vector should be zero")
	}
	if !(stats.Stats[float64]{}).IsZero() {
		t.Error("zero float vector should be zero")
	}
	if stats.FromValues(0, 0, 1, 0).IsZero() {
		t.Error("non-zero vector reported zero")
	}
}

// TestScale_EvenRatios verifies an exact split needs no remainder correction.
func TestScale_EvenRatios(t *testing.T) {
	ratios := stats.FromValues(0.25, 0.25, 0.25, 0.25)
	got := stats.Scale(ratios, 100, &cycleSource{})
	if got != stats.FromValues(25, 25, 25, 25) {
		t.Errorf("Scale(even, 100) = %+v, want 25 each", got)
	}
}

// TestScale_RemainderDistributed verifies the truncation shortfall is repaid:
// 2243 over even ratios gives floor 560 each, and the 3 leftover points land
// on sampled components.
func TestScale_RemainderDistributed(t *testing.T) {
	ratios := stats.FromValues(0.25, 0.25, 0.25, 0.25)
	got := stats.Scale(ratios, 2243, &cycleSource{})

	if got.Total() != 2243 {
		t.Fatalf("Scale total = %d, want 2243", got.Total())
	}
	for _, v := range []int{got.Health, got.Attack, got.Defense, got.Speed} {
		if v != 560 && v != 561 {
			t.Errorf("component %d outside expected {560, 561}", v)
		}
	}
}

// TestScale_ZeroRatioSum verifies the documented equal-split fallback.
func TestScale_ZeroRatioSum(t *testing.T) {
	got := stats.Scale(stats.Stats[float64]{}, 100, &cycleSource{})
	if got != stats.FromValues(25, 25, 25, 25) {
		t.Errorf("Scale(zero ratios, 100) = %+v, want equal split", got)
	}
}

// TestScale_ZeroTotal verifies a zero total yields the zero vector.
func TestScale_ZeroTotal(t *testing.T) {
	ratios := stats.FromValues(0.1, 0.2, 0.3, 0.4)
	if got := stats.Scale(ratios, 0, &cycleSource{}); !got.IsZero() {
		t.Errorf("Scale(_, 0) = %+v, want zero", got)
	}
}

// TestPropertyScale_SumsToTotal verifies the core invariant: for any
// non-negative ratio vector with positive sum and any total, the scaled
// components sum to exactly total.
func TestPropertyScale_SumsToTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ratios := stats.FromValues(
			rapid.Float64Range(0, 1).Draw(rt, "health"),
			rapid.Float64Range(0, 1).Draw(rt, "attack"),
			rapid.Float64Range(0, 1).Draw(rt, "defense"),
			rapid.Float64Range(0.001, 1).Draw(rt, "speed"),
		)
		total := rapid.IntRange(0, 10000).Draw(rt, "total")

		got := stats.Scale(ratios, total, &cycleSource{next: rapid.IntRange(0, 3).Draw(rt, "phase")})
		if got.Total() != total {
			rt.Errorf("Scale total = %d, want %d (ratios %+v)", got.Total(), total, ratios)
		}
	})
}

// TestPropertyScale_ComponentsNonNegative verifies no component goes negative.
func TestPropertyScale_ComponentsNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ratios := stats.FromValues(
			rapid.Float64Range(0, 10).Draw(rt, "health"),
			rapid.Float64Range(0, 10).Draw(rt, "attack"),
			rapid.Float64Range(0, 10).Draw(rt, "defense"),
			rapid.Float64Range(0, 10).Draw(rt, "speed"),
		)
		total := rapid.IntRange(0, 5000).Draw(rt, "total")

		got := stats.Scale(ratios, total, &cycleSource{})
		for _, v := range []int{got.Health, got.Attack, got.Defense, got.Speed} {
			if v < 0 {
				rt.Errorf("negative component %d in %+v", v, got)
			}
		}
	})
}
