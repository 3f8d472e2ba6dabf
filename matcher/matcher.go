// Package matcher decides which moves are legal. A Matcher is a compiled
// boolean expression over rules (Equal, Side, Longana, Coprime, Parity,
// TeamToken). Rules that need bookkeeping keep it in a per-match State, so
// one Matcher can serve any number of matches.
package matcher

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// Rule is a single legality rule.
type Rule[T comparable] interface {
	Name() string
	// NewChecker creates the checker that evaluates the rule for one match.
	NewChecker() Checker[T]
}

// Checker evaluates a rule within a single match. Stateful rules keep their
// bookkeeping here.
type Checker[T comparable] interface {
	// Prepare brings the bookkeeping up to date with the board before
	// playerID acts.
	Prepare(m *game.Match[T], playerID int)
	// Allows reports whether a non-pass move is legal.
	Allows(m *game.Match[T], mv move.Move[T], score game.TileScorer[T]) bool
	// OpenPositions is the set of board positions the player may extend.
	OpenPositions(m *game.Match[T], playerID int) []int
}

type node[T comparable] struct {
	op   Op
	rule Rule[T]
	slot int
	kids []*node[T]
}

// Matcher is a compiled expression. It is immutable and safe to share
// between goroutines; the per-match bookkeeping lives in a State.
type Matcher[T comparable] struct {
	root  *node[T]
	rules []Rule[T]
	expr  Expr[T]
}

// Compile validates the expression and numbers its leaves.
func Compile[T comparable](e Expr[T]) (*Matcher[T], error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	mt := &Matcher[T]{expr: e}
	mt.root = mt.compile(e)
	return mt, nil
}

// MustCompile is Compile for expressions known to be valid.
func MustCompile[T comparable](e Expr[T]) *Matcher[T] {
	mt, err := Compile(e)
	if err != nil {
		panic(err)
	}
	return mt
}

func (mt *Matcher[T]) compile(e Expr[T]) *node[T] {
	n := &node[T]{op: e.op, rule: e.rule, slot: -1}
	if e.op == OpLeaf {
		n.slot = len(mt.rules)
		mt.rules = append(mt.rules, e.rule)
		return n
	}
	for _, a := range e.args {
		n.kids = append(n.kids, mt.compile(a))
	}
	return n
}

func (mt *Matcher[T]) String() string {
	return mt.expr.String()
}

// State is the matcher bookkeeping of a single match. It must not be shared
// between matches.
type State[T comparable] struct {
	checkers []Checker[T]
	matchID  string
}

// NewState creates fresh bookkeeping for a new match.
func (mt *Matcher[T]) NewState() *State[T] {
	st := &State[T]{checkers: make([]Checker[T], len(mt.rules))}
	for i, r := range mt.rules {
		st.checkers[i] = r.NewChecker()
	}
	return st
}

func (st *State[T]) bind(m *game.Match[T]) {
	if st.matchID == "" {
		st.matchID = m.ID()
		return
	}
	if st.matchID != m.ID() {
		panic(fmt.Sprintf("matcher state of match %s used with match %s", st.matchID, m.ID()))
	}
}

// LegalMoves filters the candidates down to the legal ones, keeping their
// order. All candidates must belong to the same player. If no placement is
// legal the result is exactly the pass candidates, so a candidate set with
// at least one pass always yields at least one move.
func (mt *Matcher[T]) LegalMoves(st *State[T], m *game.Match[T], candidates []move.Move[T],
	score game.TileScorer[T]) []move.Move[T] {

	if len(candidates) == 0 {
		return nil
	}
	st.bind(m)
	actor := candidates[0].PlayerID
	for _, c := range st.checkers {
		c.Prepare(m, actor)
	}
	allowed := mt.root.allowed(st, m, candidates, score)
	legal := lo.Filter(candidates, func(c move.Move[T], i int) bool {
		return allowed[i]
	})
	if len(legal) == 0 {
		log.Debug().Int("player", actor).Str("matcher", mt.String()).Msg("no-legal-placement")
		legal = lo.Filter(candidates, func(c move.Move[T], _ int) bool {
			return c.Pass
		})
	}
	return legal
}

// OpenPositions returns the positions the player may currently extend.
func (mt *Matcher[T]) OpenPositions(st *State[T], m *game.Match[T], playerID int) []int {
	st.bind(m)
	return mt.root.positions(st, m, playerID)
}

// allowed returns, for every candidate, whether this subtree allows it.
// Passes are never allowed here; the fallback to passing is applied once
// by LegalMoves.
func (n *node[T]) allowed(st *State[T], m *game.Match[T], cands []move.Move[T],
	score game.TileScorer[T]) []bool {

	res := make([]bool, len(cands))
	switch n.op {
	case OpLeaf:
		ch := st.checkers[n.slot]
		for i, c := range cands {
			res[i] = !c.Pass && ch.Allows(m, c, score)
		}
	case OpAnd:
		for i, c := range cands {
			res[i] = !c.Pass
		}
		for _, k := range n.kids {
			sub := k.allowed(st, m, cands, score)
			for i := range res {
				res[i] = res[i] && sub[i]
			}
		}
	case OpOr:
		for _, k := range n.kids {
			sub := k.allowed(st, m, cands, score)
			for i := range res {
				res[i] = res[i] || sub[i]
			}
		}
	case OpNot:
		sub := n.kids[0].allowed(st, m, cands, score)
		for i, c := range cands {
			res[i] = !c.Pass && !sub[i]
		}
	}
	return res
}

func (n *node[T]) positions(st *State[T], m *game.Match[T], playerID int) []int {
	switch n.op {
	case OpLeaf:
		return st.checkers[n.slot].OpenPositions(m, playerID)
	case OpAnd, OpOr:
		sets := make([][]int, len(n.kids))
		for i, k := range n.kids {
			sets[i] = k.positions(st, m, playerID)
		}
		if n.op == OpAnd {
			return lo.Intersect(sets...)
		}
		return lo.Union(sets...)
	case OpNot:
		return lo.Without(PositionPool(m), n.kids[0].positions(st, m, playerID)...)
	}
	return nil
}

// PositionPool is every position a move could attach to: the entry slot and
// each placement on the board. It is empty before the opening move.
func PositionPool[T comparable](m *game.Match[T]) []int {
	b := m.Board()
	if b.IsEmpty() {
		return []int{}
	}
	return append([]int{move.EntrySlot}, b.NonPassIndices()...)
}

// Session is a matcher bound to one match.
type Session[T comparable] struct {
	mt    *Matcher[T]
	st    *State[T]
	match *game.Match[T]
}

// Bind creates the bookkeeping for a new match.
func (mt *Matcher[T]) Bind(m *game.Match[T]) game.Legality[T] {
	return &Session[T]{mt: mt, st: mt.NewState(), match: m}
}

func (s *Session[T]) LegalMoves(candidates []move.Move[T], score game.TileScorer[T]) []move.Move[T] {
	return s.mt.LegalMoves(s.st, s.match, candidates, score)
}

func (s *Session[T]) OpenPositions(playerID int) []int {
	return s.mt.OpenPositions(s.st, s.match, playerID)
}
