package matcher

import (
	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// TeamToken forbids extending a tile placed by the mover's own team (the
// mover included). It does not apply until the team has placed a tile,
// and never applies to the entry slot.
type TeamToken[T comparable] struct{}

func (TeamToken[T]) Name() string { return "team_token" }

func (TeamToken[T]) NewChecker() Checker[T] { return teamTokenChecker[T]{} }

type teamTokenChecker[T comparable] struct{}

func (teamTokenChecker[T]) Prepare(*game.Match[T], int) {}

func (teamTokenChecker[T]) Allows(m *game.Match[T], mv move.Move[T], _ game.TileScorer[T]) bool {
	if mv.Turn < 0 || !teamHasPlaced(m, mv.PlayerID) {
		return true
	}
	at, ok := m.Board().At(mv.Turn)
	return ok && !m.ArePartners(at.PlayerID, mv.PlayerID)
}

func (teamTokenChecker[T]) OpenPositions(m *game.Match[T], playerID int) []int {
	pool := PositionPool(m)
	if !teamHasPlaced(m, playerID) {
		return pool
	}
	b := m.Board()
	return lo.Filter(pool, func(pos int, _ int) bool {
		return pos < 0 || !m.ArePartners(b.MustAt(pos).PlayerID, playerID)
	})
}

func teamHasPlaced[T comparable](m *game.Match[T], playerID int) bool {
	for _, played := range m.Board().All() {
		if !played.Pass && m.ArePartners(played.PlayerID, playerID) {
			return true
		}
	}
	return false
}
