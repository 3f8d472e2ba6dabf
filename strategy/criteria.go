package strategy

import (
	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// Points is the score of the move.
func Points[T comparable](mv move.Move[T], v game.View[T]) float64 {
	if mv.Pass || v.MoveScore == nil {
		return 0
	}
	return v.MoveScore(mv)
}

// Suit counts the other tiles in hand that could follow the value this
// move exposes.
func Suit[T comparable](mv move.Move[T], v game.View[T]) float64 {
	if mv.Pass {
		return 0
	}
	ct := 0
	for _, t := range v.Hand {
		if t.Same(mv.Tile()) {
			continue
		}
		if t.Has(mv.Tail) {
			ct++
		}
	}
	return float64(ct)
}

// Block counts the opponents that passed when the value this move exposes
// was open.
func Block[T comparable](mv move.Move[T], v game.View[T]) float64 {
	if mv.Pass {
		return 0
	}
	return float64(stuckOn(v, false)[mv.Tail])
}

// Help is minus the number of partners that passed when the value this
// move exposes was open.
func Help[T comparable](mv move.Move[T], v game.View[T]) float64 {
	if mv.Pass {
		return 0
	}
	return -float64(stuckOn(v, true)[mv.Tail])
}

// stuckOn counts, for each value, how many partners (or opponents) passed
// while that value was open somewhere on the board.
func stuckOn[T comparable](v game.View[T], partners bool) map[T]int {
	players := map[T]map[int]bool{}
	for k, mv := range v.Board {
		if !mv.Pass || mv.PlayerID == v.PlayerID || v.Partners(mv.PlayerID, v.PlayerID) != partners {
			continue
		}
		open, err := v.PassesInfo(k)
		if err != nil {
			continue
		}
		for _, pos := range open {
			val, ok := exposed(v.Board, pos)
			if !ok {
				continue
			}
			if players[val] == nil {
				players[val] = map[int]bool{}
			}
			players[val][mv.PlayerID] = true
		}
	}
	counts := make(map[T]int, len(players))
	for val, ps := range players {
		counts[val] = len(ps)
	}
	return counts
}

// exposed is the value a move at pos has to match.
func exposed[T comparable](board []move.Move[T], pos int) (T, bool) {
	var zero T
	if len(board) == 0 {
		return zero, false
	}
	if pos == move.EntrySlot {
		return board[0].Head, true
	}
	if pos < 0 || pos >= len(board) || board[pos].Pass {
		return zero, false
	}
	return board[pos].Tail, true
}
