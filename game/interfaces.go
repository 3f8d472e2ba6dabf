package game

import (
	"iter"

	"github.com/0mar-rivero/domino/move"
	"github.com/0mar-rivero/domino/tile"
)

// TileScorer assigns a numeric value to a tile. Matchers use it for rules
// that depend on tile values (highest double, parity, coprimality).
type TileScorer[T comparable] func(tile.Tile[T]) float64

// Generator produces the tiles of a match. The sequence may be unbounded;
// the Dealer decides how many it consumes.
type Generator[T comparable] interface {
	Generate() iter.Seq[tile.Tile[T]]
}

// Dealer hands out tiles. It is called exactly once per match and returns
// the hand of each player keyed by player id.
type Dealer[T comparable] interface {
	Deal(m *Match[T], tiles iter.Seq[tile.Tile[T]]) map[int]tile.Hand[T]
}

// Turner yields the order in which players act. It may be infinite; the
// Judge stops pulling from it once the match is over.
type Turner[T comparable] interface {
	Players(m *Match[T]) iter.Seq[*Player[T]]
}

// Scorer values moves and tiles, and ranks the teams once a match is over.
type Scorer[T comparable] interface {
	MoveScore(m *Match[T], mv move.Move[T]) float64
	TileScore(t tile.Tile[T]) float64
	Winners(m *Match[T]) []*Team[T]
}

// Finisher decides when a match is over.
type Finisher[T comparable] interface {
	IsOver(m *Match[T]) bool
}

// Strategy picks one of the legal moves. It may return anything at all; an
// answer that is not among the legal moves is replaced by the Judge.
type Strategy[T comparable] interface {
	Choose(legal []move.Move[T], v View[T]) move.Move[T]
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc[T comparable] func(legal []move.Move[T], v View[T]) move.Move[T]

func (f StrategyFunc[T]) Choose(legal []move.Move[T], v View[T]) move.Move[T] {
	return f(legal, v)
}

// View is the read-only information a strategy gets to look at when it is
// asked for a move.
type View[T comparable] struct {
	PlayerID int
	Hand     tile.Hand[T]
	// Board is a snapshot; modifying it does not affect the match.
	Board []move.Move[T]
	// PassesInfo returns the positions that were open at a recorded turn.
	PassesInfo func(turn int) ([]int, error)
	// TileCount returns how many tiles a player holds, or UnknownPlayer.
	TileCount func(playerID int) int
	Partners  func(p1, p2 int) bool
	MoveScore func(mv move.Move[T]) float64
}

// ViewFor builds the strategy view of the match for the given player.
func ViewFor[T comparable](m *Match[T], playerID int, scorer Scorer[T]) View[T] {
	v := View[T]{
		PlayerID:   playerID,
		Hand:       m.HandOf(playerID),
		Board:      m.Board().Moves(),
		PassesInfo: m.PassesInfo,
		TileCount:  m.TileCountOf,
		Partners:   m.ArePartners,
	}
	if scorer != nil {
		v.MoveScore = func(mv move.Move[T]) float64 {
			return scorer.MoveScore(m, mv)
		}
	}
	return v
}

// Matcher decides which moves are legal. Bind creates the bookkeeping the
// matcher needs for one match.
type Matcher[T comparable] interface {
	Bind(m *Match[T]) Legality[T]
}

// Legality is a matcher bound to one match.
type Legality[T comparable] interface {
	// LegalMoves filters the candidates of a single player, keeping their
	// order. If no placement is legal it returns the pass candidates.
	LegalMoves(candidates []move.Move[T], score TileScorer[T]) []move.Move[T]
	// OpenPositions is the set of positions the player may extend.
	OpenPositions(playerID int) []int
}
