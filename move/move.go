package move

import (
	"fmt"

	"github.com/0mar-rivero/domino/tile"
)

// EntrySlot is the Turn of a move that attaches to the virtual entry slot of
// the board, i.e. the other open end of the very first tile.
const EntrySlot = -1

// Move is a single action on the board: either a placement or a pass.
// Turn is the board position this move extends; for a placement, Head is
// the value that has to match the open end at Turn, and Tail is the value
// it exposes afterwards. Moves are values and are never mutated once
// appended to a board.
type Move[T comparable] struct {
	PlayerID int
	Pass     bool
	Turn     int
	Head     T
	Tail     T
}

// NewPassMove creates a pass (a "check") for the given player.
func NewPassMove[T comparable](playerID int) Move[T] {
	return Move[T]{PlayerID: playerID, Pass: true, Turn: EntrySlot}
}

// NewPlacementMove attaches head-first to board position turn.
func NewPlacementMove[T comparable](playerID, turn int, head, tail T) Move[T] {
	return Move[T]{PlayerID: playerID, Turn: turn, Head: head, Tail: tail}
}

// Tile is the tile that was placed. It is meaningless for a pass.
func (m Move[T]) Tile() tile.Tile[T] {
	return tile.New(m.Head, m.Tail)
}

// Swapped returns the move with head and tail swapped. The board uses this
// to expose the second open end of its first tile.
func (m Move[T]) Swapped() Move[T] {
	m.Head, m.Tail = m.Tail, m.Head
	return m
}

// ShortDescription is meant for logs and the shell.
func (m Move[T]) ShortDescription() string {
	if m.Pass {
		return "(pass)"
	}
	return fmt.Sprintf("%v@%d", m.Tile(), m.Turn)
}

// String provides a string just for debugging purposes.
func (m Move[T]) String() string {
	if m.Pass {
		return fmt.Sprintf("<player: %d action: pass>", m.PlayerID)
	}
	return fmt.Sprintf("<player: %d action: place tile: %v turn: %d>",
		m.PlayerID, m.Tile(), m.Turn)
}
