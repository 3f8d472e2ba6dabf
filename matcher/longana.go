package matcher

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
	"github.com/0mar-rivero/domino/tile"
)

// Longana is the branching game. Every player grows a branch of their own
// from the opening double. When a player passes, the others may extend that
// player's branch until the player plays again. The match must be opened
// with the highest double dealt.
type Longana[T comparable] struct{}

func (Longana[T]) Name() string { return "longana" }

func (Longana[T]) NewChecker() Checker[T] { return &longanaChecker[T]{} }

// tip is an open end of a branch.
type tip struct {
	pos   int
	owner int
}

type longanaChecker[T comparable] struct {
	// tips is an arena; players refer to tips by index, so moving a tip
	// moves it for everybody who can reach it.
	tips []tip
	// reach maps a player id to the tips that player may extend.
	reach map[int][]int
	// synced is how many board entries have been applied to the tips.
	synced int
}

func (l *longanaChecker[T]) init(m *game.Match[T]) {
	if l.reach != nil {
		return
	}
	l.reach = make(map[int][]int, len(m.Players()))
	for _, p := range m.Players() {
		l.tips = append(l.tips, tip{pos: move.EntrySlot, owner: p.ID})
		l.reach[p.ID] = []int{len(l.tips) - 1}
	}
}

func (l *longanaChecker[T]) Prepare(m *game.Match[T], actor int) {
	l.init(m)
	l.sync(m)
	// The actor is back, so nobody else may use the actor's branch.
	for _, p := range m.Players() {
		if p.ID == actor {
			continue
		}
		l.reach[p.ID] = lo.Filter(l.reach[p.ID], func(h int, _ int) bool {
			return l.tips[h].owner != actor
		})
	}
	// Players stuck on a pass leave their branch open to the actor.
	b := m.Board()
	for _, p := range m.Players() {
		if p.ID == actor {
			continue
		}
		last, ok := b.LastBy(p.ID)
		if !ok || !last.Pass {
			continue
		}
		h, ok := l.furthestOwnTip(p.ID)
		if ok && !lo.Contains(l.reach[actor], h) {
			l.reach[actor] = append(l.reach[actor], h)
		}
	}
}

// furthestOwnTip is the most advanced tip of the player's own branch.
func (l *longanaChecker[T]) furthestOwnTip(playerID int) (int, bool) {
	own := lo.Filter(l.reach[playerID], func(h int, _ int) bool {
		return l.tips[h].owner == playerID
	})
	if len(own) == 0 {
		return 0, false
	}
	return lo.MaxBy(own, func(a, b int) bool {
		return l.tips[a].pos > l.tips[b].pos
	}), true
}

// sync moves the tip extended by every new placement to that placement.
// The tip keeps its owner.
func (l *longanaChecker[T]) sync(m *game.Match[T]) {
	b := m.Board()
	for i := l.synced; i < b.Len(); i++ {
		mv := b.MustAt(i)
		l.synced = i + 1
		if mv.Pass {
			continue
		}
		h, ok := l.extendedTip(mv)
		if !ok {
			log.Debug().Int("index", i).Str("move", mv.ShortDescription()).
				Msg("longana-no-tip-for-move")
			continue
		}
		l.tips[h].pos = i
	}
}

func (l *longanaChecker[T]) extendedTip(mv move.Move[T]) (int, bool) {
	var found []int
	for _, h := range l.reach[mv.PlayerID] {
		if l.tips[h].pos == mv.Turn {
			found = append(found, h)
		}
	}
	if len(found) == 0 {
		// The move was allowed by some other rule; take any tip there.
		for h, t := range l.tips {
			if t.pos == mv.Turn {
				found = append(found, h)
			}
		}
	}
	if len(found) == 0 {
		return 0, false
	}
	for _, h := range found {
		if l.tips[h].owner == mv.PlayerID {
			return h, true
		}
	}
	return found[0], true
}

func (l *longanaChecker[T]) Allows(m *game.Match[T], mv move.Move[T], score game.TileScorer[T]) bool {
	if m.Board().IsEmpty() {
		opener, ok := HighestDouble(m, score)
		return ok && mv.Tile().Same(opener)
	}
	return lo.ContainsBy(l.reach[mv.PlayerID], func(h int) bool {
		return l.tips[h].pos == mv.Turn
	})
}

func (l *longanaChecker[T]) OpenPositions(m *game.Match[T], playerID int) []int {
	l.init(m)
	l.sync(m)
	return lo.Uniq(lo.Map(l.reach[playerID], func(h int, _ int) int {
		return l.tips[h].pos
	}))
}

// HighestDouble is the double with the highest score among all the tiles
// still in hand. Ties go to the first one found, in player order.
func HighestDouble[T comparable](m *game.Match[T], score game.TileScorer[T]) (tile.Tile[T], bool) {
	doubles := tile.Hand[T](m.AllHands()).Doubles()
	if len(doubles) == 0 {
		return tile.Tile[T]{}, false
	}
	return lo.MaxBy(doubles, func(a, b tile.Tile[T]) bool {
		return score(a) > score(b)
	}), true
}
