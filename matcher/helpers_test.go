package matcher

import (
	"fmt"
	"testing"

	"github.com/matryer/is"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
	"github.com/0mar-rivero/domino/tile"
)

func pipSum(t tile.Tile[int]) float64 {
	return float64(t.A + t.B)
}

// newMatch creates a match where teams[i] lists the player ids of team i.
func newMatch(t *testing.T, teams [][]int, hands map[int]tile.Hand[int]) *game.Match[int] {
	is := is.New(t)
	var ts []*game.Team[int]
	for i, ids := range teams {
		var ps []*game.Player[int]
		for _, id := range ids {
			ps = append(ps, game.NewPlayer[int](id, fmt.Sprintf("p%d", id), nil))
		}
		ts = append(ts, game.NewTeam(fmt.Sprintf("t%d", i), ps...))
	}
	m, err := game.NewMatch(ts...)
	is.NoErr(err)
	for id, h := range hands {
		m.SetHand(id, h)
	}
	return m
}

func place(m *game.Match[int], playerID, turn, head, tail int) {
	mv := move.NewPlacementMove(playerID, turn, head, tail)
	m.RecordMove(mv)
	m.RemoveFromHand(playerID, mv.Tile())
}

func pass(m *game.Match[int], playerID int) {
	m.RecordMove(move.NewPassMove[int](playerID))
}

// allCandidates is a pass plus every tile of the hand, both ways round, on
// the entry slot and on every placement.
func allCandidates(m *game.Match[int], playerID int) []move.Move[int] {
	cands := []move.Move[int]{move.NewPassMove[int](playerID)}
	turns := append([]int{move.EntrySlot}, m.Board().NonPassIndices()...)
	for _, t := range m.HandOf(playerID) {
		for _, turn := range turns {
			cands = append(cands,
				move.NewPlacementMove(playerID, turn, t.A, t.B),
				move.NewPlacementMove(playerID, turn, t.B, t.A))
		}
	}
	return cands
}

func placements(moves []move.Move[int]) []move.Move[int] {
	var out []move.Move[int]
	for _, mv := range moves {
		if !mv.Pass {
			out = append(out, mv)
		}
	}
	return out
}

// turnRule allows a fixed set of positions, whatever the board says.
type turnRule struct {
	name  string
	turns []int
}

func (r turnRule) Name() string                  { return r.name }
func (r turnRule) NewChecker() Checker[int]      { return r }
func (r turnRule) Prepare(*game.Match[int], int) {}

func (r turnRule) Allows(_ *game.Match[int], mv move.Move[int], _ game.TileScorer[int]) bool {
	for _, t := range r.turns {
		if t == mv.Turn {
			return true
		}
	}
	return false
}

func (r turnRule) OpenPositions(*game.Match[int], int) []int {
	return r.turns
}
