// Package rules contains the rule components of the usual domino games
// (generators, dealers, turners and scorers) and the presets that put them
// together.
package rules

import (
	"iter"

	"github.com/0mar-rivero/domino/tile"
)

// ClassicGenerator yields every tile from [0|0] to [max|max] once, i.e. the
// double-six set for max 6.
type ClassicGenerator struct {
	Max int
}

func (g ClassicGenerator) Generate() iter.Seq[tile.Tile[int]] {
	return pairs(g.Max, func(a, b int) bool { return true })
}

// NoDoubleGenerator is the classic set without doubles.
type NoDoubleGenerator struct {
	Max int
}

func (g NoDoubleGenerator) Generate() iter.Seq[tile.Tile[int]] {
	return pairs(g.Max, func(a, b int) bool { return a != b })
}

// PrimeSumGenerator yields the tiles of the classic set whose pips add up
// to a prime number.
type PrimeSumGenerator struct {
	Max int
}

func (g PrimeSumGenerator) Generate() iter.Seq[tile.Tile[int]] {
	return pairs(g.Max, func(a, b int) bool { return isPrime(a + b) })
}

func pairs(top int, keep func(a, b int) bool) iter.Seq[tile.Tile[int]] {
	return func(yield func(tile.Tile[int]) bool) {
		for a := 0; a <= top; a++ {
			for b := a; b <= top; b++ {
				if keep(a, b) && !yield(tile.New(a, b)) {
					return
				}
			}
		}
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// SetSize is the number of tiles in a classic set that goes up to top.
func SetSize(top int) int {
	return (top + 1) * (top + 2) / 2
}
