// Package strategy contains computer players. None of them ever needs to
// return an illegal move, but the judge would fix it if they did.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Names lists the strategies Parse knows about.
var Names = []string{"first", "random", "greedy", "carrier", "disabler", "support", "smart"}

// FirstLegal always plays the first legal move.
type FirstLegal[T comparable] struct{}

func (FirstLegal[T]) Choose(legal []move.Move[T], _ game.View[T]) move.Move[T] {
	return legal[0]
}

// Random plays any legal move.
type Random[T comparable] struct {
	RNG *frand.RNG
}

func (r Random[T]) Choose(legal []move.Move[T], _ game.View[T]) move.Move[T] {
	if r.RNG != nil {
		return legal[r.RNG.Intn(len(legal))]
	}
	return legal[frand.Intn(len(legal))]
}

// Criterion rates a move. Higher is better.
type Criterion[T comparable] interface {
	Value(mv move.Move[T], v game.View[T]) float64
}

// CriterionFunc adapts a function to the Criterion interface.
type CriterionFunc[T comparable] func(mv move.Move[T], v game.View[T]) float64

func (f CriterionFunc[T]) Value(mv move.Move[T], v game.View[T]) float64 {
	return f(mv, v)
}

// Weight scales a criterion.
type Weight[T comparable] struct {
	Criterion Criterion[T]
	Weight    float64
}

// Weighted plays the move with the highest weighted sum of its criteria.
// Ties go to the earliest legal move.
type Weighted[T comparable] struct {
	Weights []Weight[T]
}

func (w Weighted[T]) Equity(mv move.Move[T], v game.View[T]) float64 {
	return lo.SumBy(w.Weights, func(c Weight[T]) float64 {
		return c.Weight * c.Criterion.Value(mv, v)
	})
}

func (w Weighted[T]) Choose(legal []move.Move[T], v game.View[T]) move.Move[T] {
	equities := lo.Map(legal, func(mv move.Move[T], _ int) float64 {
		return w.Equity(mv, v)
	})
	best := lo.MaxBy(lo.Range(len(legal)), func(a, b int) bool {
		return equities[a] > equities[b]
	})
	return legal[best]
}

// Greedy plays the move worth the most points ("botagorda").
func Greedy[T comparable]() Weighted[T] {
	return Weighted[T]{Weights: []Weight[T]{{CriterionFunc[T](Points[T]), 1}}}
}

// Carrier keeps the suits it holds most of.
func Carrier[T comparable]() Weighted[T] {
	return Weighted[T]{Weights: []Weight[T]{
		{CriterionFunc[T](Suit[T]), 1},
		{CriterionFunc[T](Points[T]), 0.1},
	}}
}

// Disabler tries to expose values the other team has already passed on.
func Disabler[T comparable]() Weighted[T] {
	return Weighted[T]{Weights: []Weight[T]{
		{CriterionFunc[T](Block[T]), 1},
		{CriterionFunc[T](Points[T]), 0.1},
	}}
}

// Support avoids exposing values a partner has passed on.
func Support[T comparable]() Weighted[T] {
	return Weighted[T]{Weights: []Weight[T]{
		{CriterionFunc[T](Help[T]), 1},
		{CriterionFunc[T](Points[T]), 0.1},
	}}
}

// Smart blends every criterion.
func Smart[T comparable]() Weighted[T] {
	return Weighted[T]{Weights: []Weight[T]{
		{CriterionFunc[T](Points[T]), 0.2},
		{CriterionFunc[T](Suit[T]), 1},
		{CriterionFunc[T](Block[T]), 1.5},
		{CriterionFunc[T](Help[T]), 1},
	}}
}

// Parse builds a strategy by name. rng is only used by the random strategy
// and may be nil.
func Parse[T comparable](name string, rng *frand.RNG) (game.Strategy[T], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "first":
		return FirstLegal[T]{}, nil
	case "random":
		return Random[T]{RNG: rng}, nil
	case "greedy", "botagorda":
		return Greedy[T](), nil
	case "carrier":
		return Carrier[T](), nil
	case "disabler":
		return Disabler[T](), nil
	case "support":
		return Support[T](), nil
	case "smart":
		return Smart[T](), nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
}
