package rules

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
	"github.com/0mar-rivero/domino/tile"
)

func pips(t tile.Tile[int]) float64 {
	return float64(t.A + t.B)
}

// HandPips is the pip count of the tiles left in a team's hands.
func HandPips(m *game.Match[int], t *game.Team[int]) int {
	return lo.SumBy(t.Players, func(p *game.Player[int]) int {
		return lo.SumBy(m.HandOf(p.ID), func(tl tile.Tile[int]) int { return tl.A + tl.B })
	})
}

// ClassicScorer values a tile by its pips. The team of the player who
// played out wins; if nobody did, the team with the fewest pips in hand
// wins.
type ClassicScorer struct{}

func (ClassicScorer) MoveScore(_ *game.Match[int], mv move.Move[int]) float64 {
	if mv.Pass {
		return 0
	}
	return pips(mv.Tile())
}

func (ClassicScorer) TileScore(t tile.Tile[int]) float64 {
	return pips(t)
}

func (ClassicScorer) Winners(m *game.Match[int]) []*game.Team[int] {
	if p, ok := m.HasEmptyHand(); ok {
		first := m.TeamOf(p.ID)
		return append([]*game.Team[int]{first}, lo.Without(m.Teams(), first)...)
	}
	ranked := slices.Clone(m.Teams())
	slices.SortStableFunc(ranked, func(a, b *game.Team[int]) int {
		return HandPips(m, a) - HandPips(m, b)
	})
	return ranked
}

// ModFiveScorer rewards placements that, together with the tile they
// extend, add up to a multiple of five. The team with the most points wins.
type ModFiveScorer struct{}

func (ModFiveScorer) MoveScore(m *game.Match[int], mv move.Move[int]) float64 {
	if mv.Pass {
		return 0
	}
	at, ok := m.Board().At(mv.Turn)
	if !ok || at.Pass {
		return 0
	}
	sum := pips(at.Tile()) + pips(mv.Tile())
	if int(sum)%5 == 0 {
		return sum
	}
	return 0
}

func (ModFiveScorer) TileScore(t tile.Tile[int]) float64 {
	return pips(t)
}

// Points adds up the score of every placement of the team, each one
// evaluated against the board as it was when it was played.
func (s ModFiveScorer) Points(m *game.Match[int], t *game.Team[int]) float64 {
	var total float64
	moves := m.Board().Moves()
	for i, mv := range moves {
		if mv.Pass || !t.Has(mv.PlayerID) {
			continue
		}
		at := mv.Turn
		if at == move.EntrySlot {
			at = 0
		}
		if i == 0 || at >= i {
			continue
		}
		sum := pips(moves[at].Tile()) + pips(mv.Tile())
		if int(sum)%5 == 0 {
			total += sum
		}
	}
	return total
}

func (s ModFiveScorer) Winners(m *game.Match[int]) []*game.Team[int] {
	ranked := slices.Clone(m.Teams())
	slices.SortStableFunc(ranked, func(a, b *game.Team[int]) int {
		pa, pb := s.Points(m, a), s.Points(m, b)
		switch {
		case pa > pb:
			return -1
		case pa < pb:
			return 1
		}
		return 0
	})
	return ranked
}

// InverseScorer turns a scorer upside down: low values become high, and
// the ranking is reversed.
type InverseScorer struct {
	game.Scorer[int]
}

func inverse(v float64) float64 {
	if v == 0 {
		return float64(1 << 31)
	}
	return 1 / v
}

func (s InverseScorer) MoveScore(m *game.Match[int], mv move.Move[int]) float64 {
	return inverse(s.Scorer.MoveScore(m, mv))
}

func (s InverseScorer) TileScore(t tile.Tile[int]) float64 {
	return inverse(s.Scorer.TileScore(t))
}

func (s InverseScorer) Winners(m *game.Match[int]) []*game.Team[int] {
	return lo.Reverse(slices.Clone(s.Scorer.Winners(m)))
}

// DividesBoardScorer pays a placement its pips when, once it is on the
// board, the pip total of the board is a multiple of the number of tiles
// placed. The team with the most points wins.
type DividesBoardScorer struct{}

func boardPips(m *game.Match[int]) float64 {
	var total float64
	for _, mv := range m.Board().All() {
		if !mv.Pass {
			total += pips(mv.Tile())
		}
	}
	return total
}

func (DividesBoardScorer) MoveScore(m *game.Match[int], mv move.Move[int]) float64 {
	if mv.Pass {
		return 0
	}
	total := int(boardPips(m) + pips(mv.Tile()))
	if total%(m.Board().Placements()+1) == 0 {
		return pips(mv.Tile())
	}
	return 0
}

func (DividesBoardScorer) TileScore(t tile.Tile[int]) float64 {
	return pips(t)
}

// Points replays the board and adds up what each placement of the team
// was worth when it was played.
func (DividesBoardScorer) Points(m *game.Match[int], t *game.Team[int]) float64 {
	var points float64
	total, placed := 0, 0
	for _, mv := range m.Board().All() {
		if mv.Pass {
			continue
		}
		total += mv.Head + mv.Tail
		placed++
		if t.Has(mv.PlayerID) && total%placed == 0 {
			points += pips(mv.Tile())
		}
	}
	return points
}

func (s DividesBoardScorer) Winners(m *game.Match[int]) []*game.Team[int] {
	ranked := slices.Clone(m.Teams())
	slices.SortStableFunc(ranked, func(a, b *game.Team[int]) int {
		return cmp.Compare(s.Points(m, b), s.Points(m, a))
	})
	return ranked
}
