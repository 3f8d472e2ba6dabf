package rules

import (
	"iter"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/0mar-rivero/domino/game"
)

// seating interleaves the teams: first player of each team, then the second
// player of each team, and so on. Partners never sit next to each other
// when teams have the same size.
func seating[T comparable](m *game.Match[T]) []*game.Player[T] {
	longest := lo.MaxBy(m.Teams(), func(a, b *game.Team[T]) bool {
		return len(a.Players) > len(b.Players)
	})
	seats := make([]*game.Player[T], 0, len(m.Players()))
	for i := range longest.Players {
		for _, t := range m.Teams() {
			if i < len(t.Players) {
				seats = append(seats, t.Players[i])
			}
		}
	}
	return seats
}

// nextSeat is the seat after the last player that moved, or 0 on an empty
// board. This lets a new sequence pick up where an abandoned one left off.
func nextSeat[T comparable](m *game.Match[T], seats []*game.Player[T]) int {
	b := m.Board()
	if b.IsEmpty() {
		return 0
	}
	last := b.MustAt(b.Len() - 1).PlayerID
	_, idx, ok := lo.FindIndexOf(seats, func(p *game.Player[T]) bool { return p.ID == last })
	if !ok {
		return 0
	}
	return (idx + 1) % len(seats)
}

// ClassicTurner goes around the table forever.
type ClassicTurner[T comparable] struct{}

func (ClassicTurner[T]) Players(m *game.Match[T]) iter.Seq[*game.Player[T]] {
	return func(yield func(*game.Player[T]) bool) {
		seats := seating(m)
		for i := nextSeat(m, seats); ; i = (i + 1) % len(seats) {
			if !yield(seats[i]) {
				return
			}
		}
	}
}

// RandomTurner picks any player at random, every time.
type RandomTurner[T comparable] struct {
	RNG *frand.RNG
}

func (r RandomTurner[T]) Players(m *game.Match[T]) iter.Seq[*game.Player[T]] {
	return func(yield func(*game.Player[T]) bool) {
		ps := m.Players()
		for {
			var i int
			if r.RNG != nil {
				i = r.RNG.Intn(len(ps))
			} else {
				i = frand.Intn(len(ps))
			}
			if !yield(ps[i]) {
				return
			}
		}
	}
}

// NPassesReverseTurner goes around the table and reverses direction every
// time N passes have been played since the last change of direction.
type NPassesReverseTurner[T comparable] struct {
	N int
}

func (r NPassesReverseTurner[T]) Players(m *game.Match[T]) iter.Seq[*game.Player[T]] {
	return func(yield func(*game.Player[T]) bool) {
		seats := seating(m)
		n := len(seats)
		dir := 1
		seen := m.Board().Len()
		passes := 0
		for i := nextSeat(m, seats); ; i = ((i+dir)%n + n) % n {
			if !yield(seats[i]) {
				return
			}
			b := m.Board()
			for ; seen < b.Len(); seen++ {
				if b.MustAt(seen).Pass {
					passes++
				}
			}
			if r.N > 0 && passes >= r.N {
				passes = 0
				dir = -dir
			}
		}
	}
}
