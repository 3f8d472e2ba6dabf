package matcher

import (
	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// Coprime allows a placement if the scores of the new tile and of the tile
// it extends are relatively prime. Placements on the entry slot are always
// allowed.
type Coprime struct{}

func (Coprime) Name() string { return "coprime" }

func (Coprime) NewChecker() Checker[int] { return coprimeChecker{} }

type coprimeChecker struct{}

func (coprimeChecker) Prepare(*game.Match[int], int) {}

func (coprimeChecker) Allows(m *game.Match[int], mv move.Move[int], score game.TileScorer[int]) bool {
	if mv.Turn == move.EntrySlot {
		return true
	}
	at, ok := m.Board().At(mv.Turn)
	if !ok || at.Pass {
		return false
	}
	return gcd(int(score(at.Tile())), int(score(mv.Tile()))) == 1
}

func (coprimeChecker) OpenPositions(m *game.Match[int], _ int) []int {
	return PositionPool(m)
}

// gcd is 0 if either argument is 0, so a blank tile is never coprime.
func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a == 0 || b == 0 {
		return 0
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Parity allows a tile only if its score has the same parity as the number
// of moves on the board.
type Parity struct{}

func (Parity) Name() string { return "parity" }

func (Parity) NewChecker() Checker[int] { return parityChecker{} }

type parityChecker struct{}

func (parityChecker) Prepare(*game.Match[int], int) {}

func (parityChecker) Allows(m *game.Match[int], mv move.Move[int], score game.TileScorer[int]) bool {
	return mod2(int(score(mv.Tile()))) == mod2(m.Board().Len())
}

func (parityChecker) OpenPositions(m *game.Match[int], _ int) []int {
	return PositionPool(m)
}

func mod2(n int) int {
	return ((n % 2) + 2) % 2
}
