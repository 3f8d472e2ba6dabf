package matcher

import (
	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// Equal allows a placement whose head equals the value exposed at the
// position it extends. Any tile may open.
type Equal[T comparable] struct{}

func (Equal[T]) Name() string { return "equal" }

func (Equal[T]) NewChecker() Checker[T] { return equalChecker[T]{} }

type equalChecker[T comparable] struct{}

func (equalChecker[T]) Prepare(*game.Match[T], int) {}

func (equalChecker[T]) Allows(m *game.Match[T], mv move.Move[T], _ game.TileScorer[T]) bool {
	b := m.Board()
	if b.IsEmpty() {
		return true
	}
	at, ok := b.At(mv.Turn)
	return ok && !at.Pass && at.Tail == mv.Head
}

func (equalChecker[T]) OpenPositions(m *game.Match[T], _ int) []int {
	return PositionPool(m)
}
