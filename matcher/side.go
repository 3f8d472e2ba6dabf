package matcher

import (
	"slices"

	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// Side is the classic two-ended line: only the two current ends of the line
// can be extended. Any tile may open.
type Side[T comparable] struct{}

func (Side[T]) Name() string { return "side" }

func (Side[T]) NewChecker() Checker[T] {
	return &sideChecker[T]{ends: []int{0, move.EntrySlot}}
}

type sideChecker[T comparable] struct {
	// ends holds the (at most two) open positions.
	ends []int
}

// sync replaces the end extended by every new placement with the index of
// that placement.
func (s *sideChecker[T]) sync(m *game.Match[T]) {
	for i, mv := range m.Board().All() {
		if mv.Pass || i < 1 || i <= slices.Max(s.ends) {
			continue
		}
		s.ends = append(lo.Without(s.ends, mv.Turn), i)
	}
}

func (s *sideChecker[T]) Prepare(m *game.Match[T], _ int) {
	s.sync(m)
}

func (s *sideChecker[T]) Allows(m *game.Match[T], mv move.Move[T], _ game.TileScorer[T]) bool {
	return m.Board().IsEmpty() || lo.Contains(s.ends, mv.Turn)
}

func (s *sideChecker[T]) OpenPositions(m *game.Match[T], _ int) []int {
	s.sync(m)
	return slices.Clone(s.ends)
}
