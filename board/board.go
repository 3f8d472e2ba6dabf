// Package board contains the append-only record of every move played in a
// match.
package board

import (
	"fmt"
	"iter"
	"strings"

	"github.com/0mar-rivero/domino/move"
)

// Board is an ordered, append-only sequence of moves. Positions are indexed
// by insertion order, and matchers rely on that index never changing.
//
// Index -1 is the virtual entry slot: it reads as the first move with its
// head and tail swapped, which exposes the other open end of the first tile.
type Board[T comparable] struct {
	moves []move.Move[T]
}

// New creates an empty board.
func New[T comparable]() *Board[T] {
	return &Board[T]{}
}

// Append adds a move to the end. It is the only way to mutate a board.
func (b *Board[T]) Append(m move.Move[T]) {
	b.moves = append(b.moves, m)
}

// Len is the number of moves (passes included).
func (b *Board[T]) Len() int {
	return len(b.moves)
}

// IsEmpty is true before the opening move.
func (b *Board[T]) IsEmpty() bool {
	return len(b.moves) == 0
}

// At returns the move at index, applying the virtual slot rule for -1. ok is
// false if the index is out of range.
func (b *Board[T]) At(index int) (m move.Move[T], ok bool) {
	if index == move.EntrySlot {
		if len(b.moves) == 0 {
			return m, false
		}
		return b.moves[0].Swapped(), true
	}
	if index < 0 || index >= len(b.moves) {
		return m, false
	}
	return b.moves[index], true
}

// MustAt is At for callers that already validated the index.
func (b *Board[T]) MustAt(index int) move.Move[T] {
	m, ok := b.At(index)
	if !ok {
		panic(fmt.Sprintf("board index %d out of range (len %d)", index, len(b.moves)))
	}
	return m
}

// All iterates the moves in play order.
func (b *Board[T]) All() iter.Seq2[int, move.Move[T]] {
	return func(yield func(int, move.Move[T]) bool) {
		for i, m := range b.moves {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Moves returns a snapshot copy of the board.
func (b *Board[T]) Moves() []move.Move[T] {
	c := make([]move.Move[T], len(b.moves))
	copy(c, b.moves)
	return c
}

// NonPassIndices returns the indices of all placements, in play order.
func (b *Board[T]) NonPassIndices() []int {
	idxs := make([]int, 0, len(b.moves))
	for i, m := range b.moves {
		if !m.Pass {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Placements counts the non-pass moves.
func (b *Board[T]) Placements() int {
	ct := 0
	for _, m := range b.moves {
		if !m.Pass {
			ct++
		}
	}
	return ct
}

// Passes counts the pass moves.
func (b *Board[T]) Passes() int {
	return len(b.moves) - b.Placements()
}

// LastBy returns the most recent move of the given player.
func (b *Board[T]) LastBy(playerID int) (m move.Move[T], ok bool) {
	for i := len(b.moves) - 1; i >= 0; i-- {
		if b.moves[i].PlayerID == playerID {
			return b.moves[i], true
		}
	}
	return m, false
}

// ToDisplayText renders one line per move.
func (b *Board[T]) ToDisplayText() string {
	var sb strings.Builder
	for i, m := range b.moves {
		fmt.Fprintf(&sb, "%3d  p%-3d %s\n", i, m.PlayerID, m.ShortDescription())
	}
	return sb.String()
}

func (b *Board[T]) String() string {
	return b.ToDisplayText()
}
