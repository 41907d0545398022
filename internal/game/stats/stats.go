// Package stats defines the four-component stat vector used throughout the
// battle engine: health, attack, defense, speed. Species carry a float ratio
// vector describing their relative strengths; characters carry an integer
// realized vector grown through leveling.
package stats

import "fmt"

// Number constrains the element types a stat vector is instantiated with:
// float64 for species base-stat ratios, int for realized stats.
type Number interface {
	~int | ~float64
}

// Stats is a componentwise stat vector over T.
type Stats[T Number] struct {
	Health  T
	Attack  T
	Defense T
	Speed   T
}

// FromValues builds a Stats from its four components in declaration order.
func FromValues[T Number](health, attack, defense, speed T) Stats[T] {
	return Stats[T]{Health: health, Attack: attack, Defense: defense, Speed: speed}
}

// Add returns the componentwise sum of s and other.
func (s Stats[T]) Add(other Stats[T]) Stats[T] {
	return Stats[T]{
		Health:  s.Health + other.Health,
		Attack:  s.Attack + other.Attack,
		Defense: s.Defense + other.Defense,
		Speed:   s.Speed + other.Speed,
	}
}

// Total returns the sum of the four components.
func (s Stats[T]) Total() T {
	return s.Health + s.Attack + s.Defense + s.Speed
}

// IsZero reports whether every component is the zero value.
func (s Stats[T]) IsZero() bool {
	var zero T
	return s.Health == zero && s.Attack == zero && s.Defense == zero && s.Speed == zero
}

// String renders the vector in a fixed component order for battle logs.
func (s Stats[T]) String() string {
	return fmt.Sprintf("health %v, attack %v, defense %v, speed %v",
		s.Health, s.Attack, s.Defense, s.Speed)
}

// Source is the subset of rng.Source needed by Scale.
// Using a local interface avoids a circular import.
type Source interface {
	Intn(n int) int
}

// Scale converts a ratio vector into an integer vector whose components are
// proportional to the ratios and sum to exactly total. Each component starts
// at floor(total * ratio / sum(ratios)); the truncation shortfall is repaid by
// incrementing components at indices drawn uniformly at random (with
// repetition) until the sum matches.
//
// A zero ratio sum is treated as an equal split across the four components.
//
// Precondition: total >= 0; ratios must be componentwise non-negative;
// src must be non-nil.
// Postcondition: The returned vector's components sum to exactly total.
func Scale(ratios Stats[float64], total int, src Source) Stats[int] {
	if total <= 0 {
		return Stats[int]{}
	}

	sum := ratios.Total()
	if sum == 0 {
		ratios = FromValues(1.0, 1.0, 1.0, 1.0)
		sum = 4
	}

	scaled := [4]int{
		int(float64(total) * ratios.Health / sum),
		int(float64(total) * ratios.Attack / sum),
		int(float64(total) * ratios.Defense / sum),
		int(float64(total) * ratios.Speed / sum),
	}

	deficit := total - (scaled[0] + scaled[1] + scaled[2] + scaled[3])
	for deficit > 0 {
		scaled[src.Intn(4)]++
		deficit--
	}
	// Float rounding can overshoot a floor boundary by one.
	for deficit < 0 {
		if i := src.Intn(4); scaled[i] > 0 {
			scaled[i]--
			deficit++
		}
	}

	return FromValues(scaled[0], scaled[1], scaled[2], scaled[3])
}
