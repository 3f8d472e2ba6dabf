// Package tile contains the domino tile and hand types. A tile is a pair of
// values of any comparable type; the classic game uses ints from 0 to 9.
package tile

import (
	"fmt"
	"strings"
)

// Tile is a domino. It is unordered at rest: (a, b) and (b, a) are the
// same physical tile, see Same. The field order only matters once the tile
// is placed on the board as part of a move.
type Tile[T comparable] struct {
	A T
	B T
}

// New creates a tile.
func New[T comparable](a, b T) Tile[T] {
	return Tile[T]{A: a, B: b}
}

// Flip returns the tile with its ends swapped.
func (t Tile[T]) Flip() Tile[T] {
	return Tile[T]{A: t.B, B: t.A}
}

// IsDouble returns true if both ends carry the same value.
func (t Tile[T]) IsDouble() bool {
	return t.A == t.B
}

// Same compares tiles ignoring orientation.
func (t Tile[T]) Same(o Tile[T]) bool {
	return t == o || t == o.Flip()
}

// Has returns true if either end carries v.
func (t Tile[T]) Has(v T) bool {
	return t.A == v || t.B == v
}

func (t Tile[T]) String() string {
	return fmt.Sprintf("[%v|%v]", t.A, t.B)
}

// Hand is the multiset of tiles held by a single player. It only ever
// shrinks after the deal.
type Hand[T comparable] []Tile[T]

// NewHand copies the given tiles into a new hand.
func NewHand[T comparable](tiles ...Tile[T]) Hand[T] {
	h := make(Hand[T], len(tiles))
	copy(h, tiles)
	return h
}

// Len is the number of tiles left in the hand.
func (h Hand[T]) Len() int {
	return len(h)
}

// IsEmpty is true once the player has played out.
func (h Hand[T]) IsEmpty() bool {
	return len(h) == 0
}

// Clone returns a defensive copy.
func (h Hand[T]) Clone() Hand[T] {
	if h == nil {
		return Hand[T]{}
	}
	c := make(Hand[T], len(h))
	copy(c, h)
	return c
}

// Contains looks for the tile in either orientation.
func (h Hand[T]) Contains(t Tile[T]) bool {
	return h.index(t) >= 0
}

// Remove takes one copy of t (in either orientation) out of the hand. It
// returns false if the hand does not hold it.
func (h *Hand[T]) Remove(t Tile[T]) bool {
	idx := h.index(t)
	if idx < 0 {
		return false
	}
	s := *h
	*h = append(s[:idx:idx], s[idx+1:]...)
	return true
}

// Doubles returns the double tiles of the hand, in hand order.
func (h Hand[T]) Doubles() []Tile[T] {
	var ds []Tile[T]
	for _, t := range h {
		if t.IsDouble() {
			ds = append(ds, t)
		}
	}
	return ds
}

func (h Hand[T]) index(t Tile[T]) int {
	for i := range h {
		if h[i].Same(t) {
			return i
		}
	}
	return -1
}

func (h Hand[T]) String() string {
	var sb strings.Builder
	for i, t := range h {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
