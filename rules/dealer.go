package rules

import (
	"iter"

	"lukechampine.com/frand"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/tile"
)

// ClassicDealer takes the first TileCount tiles of the set, shuffles them,
// and deals HandSize tiles to each player in match order. Whatever is left
// stays out of the game.
type ClassicDealer struct {
	TileCount int
	HandSize  int
	// Filter, if set, keeps only the tiles it returns true for.
	Filter func(tile.Tile[int]) bool
	// RNG is used for shuffling. If nil, the package-level frand source is
	// used, which is safe for concurrent use.
	RNG *frand.RNG
}

// keeps reports whether the tile makes it into the pool.
func (d ClassicDealer) keeps(t tile.Tile[int]) bool {
	return d.Filter == nil || d.Filter(t)
}

// Available is how many of the given tiles a deal would draw: the tiles
// that pass the filter, up to TileCount.
func (d ClassicDealer) Available(tiles iter.Seq[tile.Tile[int]]) int {
	n := 0
	for t := range tiles {
		if n >= d.TileCount {
			break
		}
		if d.keeps(t) {
			n++
		}
	}
	return n
}

func (d ClassicDealer) Deal(m *game.Match[int], tiles iter.Seq[tile.Tile[int]]) map[int]tile.Hand[int] {
	pool := make([]tile.Tile[int], 0, d.TileCount)
	for t := range tiles {
		if len(pool) >= d.TileCount {
			break
		}
		if !d.keeps(t) {
			continue
		}
		pool = append(pool, t)
	}
	swap := func(i, j int) { pool[i], pool[j] = pool[j], pool[i] }
	if d.RNG != nil {
		d.RNG.Shuffle(len(pool), swap)
	} else {
		frand.Shuffle(len(pool), swap)
	}

	hands := make(map[int]tile.Hand[int], len(m.Players()))
	for _, p := range m.Players() {
		n := min(d.HandSize, len(pool))
		hands[p.ID] = tile.NewHand(pool[:n]...)
		pool = pool[n:]
	}
	return hands
}

// EvenDealer is a ClassicDealer that only deals tiles with an even pip
// count.
func EvenDealer(tileCount, handSize int) ClassicDealer {
	return ClassicDealer{TileCount: tileCount, HandSize: handSize,
		Filter: func(t tile.Tile[int]) bool { return (t.A+t.B)%2 == 0 }}
}

// OddDealer only deals tiles with an odd pip count.
func OddDealer(tileCount, handSize int) ClassicDealer {
	return ClassicDealer{TileCount: tileCount, HandSize: handSize,
		Filter: func(t tile.Tile[int]) bool { return (t.A+t.B)%2 == 1 }}
}
