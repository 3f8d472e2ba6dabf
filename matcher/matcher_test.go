package matcher

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0mar-rivero/domino/move"
	"github.com/0mar-rivero/domino/tile"
)

func TestEqual(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, map[int]tile.Hand[int]{
		1: tile.NewHand(tile.New(3, 3)),
		2: tile.NewHand(tile.New(3, 4), tile.New(4, 5)),
	})
	mt := MustCompile(Leaf[int](Equal[int]{}))
	st := mt.NewState()

	legal := mt.LegalMoves(st, m, allCandidates(m, 1), pipSum)
	is.Equal(legal, []move.Move[int]{
		move.NewPlacementMove(1, -1, 3, 3),
		move.NewPlacementMove(1, -1, 3, 3),
	})

	place(m, 1, -1, 3, 3)
	legal = mt.LegalMoves(st, m, allCandidates(m, 2), pipSum)
	is.Equal(legal, []move.Move[int]{
		move.NewPlacementMove(2, -1, 3, 4),
		move.NewPlacementMove(2, 0, 3, 4),
	})
	is.Equal(mt.OpenPositions(st, m, 2), []int{-1, 0})
}

func TestSideEqualClassic(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, map[int]tile.Hand[int]{
		1: tile.NewHand(tile.New(3, 3)),
		2: tile.NewHand(tile.New(3, 4), tile.New(4, 5)),
	})
	mt := MustCompile(And(Leaf[int](Side[int]{}), Leaf[int](Equal[int]{})))
	st := mt.NewState()
	place(m, 1, -1, 3, 3)

	legal := mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPassMove[int](2),
		move.NewPlacementMove(2, 0, 3, 4),
		move.NewPlacementMove(2, 0, 4, 5),
		move.NewPlacementMove(2, 0, 5, 4),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{move.NewPlacementMove(2, 0, 3, 4)})

	place(m, 2, 0, 3, 4)
	is.Equal(mt.OpenPositions(st, m, 1), []int{-1, 1})

	// The head of tile 0 and the tail of tile 1 are the only ends left.
	legal = mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPassMove[int](1),
		move.NewPlacementMove(1, 0, 3, 6),
		move.NewPlacementMove(1, -1, 3, 6),
		move.NewPlacementMove(1, 1, 4, 6),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{
		move.NewPlacementMove(1, -1, 3, 6),
		move.NewPlacementMove(1, 1, 4, 6),
	})
}

func TestSideIgnoresPasses(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, nil)
	mt := MustCompile(Leaf[int](Side[int]{}))
	st := mt.NewState()
	place(m, 1, -1, 2, 2)
	pass(m, 2)
	place(m, 1, -1, 2, 5)
	pass(m, 2)
	place(m, 1, 0, 2, 6)
	is.Equal(mt.OpenPositions(st, m, 2), []int{2, 4})
	// asking again does not move the ends
	is.Equal(mt.OpenPositions(st, m, 1), []int{2, 4})
}

func TestLonganaOpening(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, map[int]tile.Hand[int]{
		1: tile.NewHand(tile.New(2, 2), tile.New(5, 5)),
		2: tile.NewHand(tile.New(1, 1)),
	})
	mt := MustCompile(And(Leaf[int](Longana[int]{}), Leaf[int](Equal[int]{})))
	st := mt.NewState()

	legal := mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPlacementMove(1, -1, 2, 2),
		move.NewPlacementMove(1, -1, 5, 5),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{move.NewPlacementMove(1, -1, 5, 5)})

	// Player 2 cannot open at all, and has no pass to fall back on.
	legal = mt.LegalMoves(st, m, []move.Move[int]{move.NewPlacementMove(2, -1, 1, 1)}, pipSum)
	is.Equal(len(legal), 0)

	d, ok := HighestDouble(m, pipSum)
	is.True(ok)
	is.Equal(d, tile.New(5, 5))
}

func TestHighestDouble(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, map[int]tile.Hand[int]{
		1: tile.NewHand(tile.New(3, 4), tile.New(4, 4)),
		2: tile.NewHand(tile.New(4, 4), tile.New(6, 5)),
	})
	// ties go to the first player in match order; non-doubles never count
	d, ok := HighestDouble(m, pipSum)
	is.True(ok)
	is.Equal(d, tile.New(4, 4))
	m.RemoveFromHand(1, tile.New(4, 4))
	m.RemoveFromHand(2, tile.New(4, 4))
	_, ok = HighestDouble(m, pipSum)
	is.True(!ok)
}

func TestLonganaBranches(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}, {3}}, map[int]tile.Hand[int]{
		1: tile.NewHand(tile.New(6, 6), tile.New(6, 5), tile.New(2, 0)),
		2: tile.NewHand(tile.New(6, 2), tile.New(1, 1)),
		3: tile.NewHand(tile.New(0, 0), tile.New(5, 3)),
	})
	mt := MustCompile(Leaf[int](Longana[int]{}))
	st := mt.NewState()

	place(m, 1, -1, 6, 6)
	is.Equal(mt.OpenPositions(st, m, 1), []int{0})
	is.Equal(mt.OpenPositions(st, m, 2), []int{-1})

	legal := mt.LegalMoves(st, m, allCandidates(m, 2), pipSum)
	is.True(len(placements(legal)) > 0)
	for _, mv := range placements(legal) {
		is.Equal(mv.Turn, -1) // player 2 starts a branch of their own
	}
	place(m, 2, -1, 6, 2)
	is.Equal(mt.OpenPositions(st, m, 2), []int{1})

	mt.LegalMoves(st, m, allCandidates(m, 3), pipSum)
	pass(m, 3)

	// Player 3 is stuck, so player 1 may play on the branch of player 3.
	legal = mt.LegalMoves(st, m, allCandidates(m, 1), pipSum)
	turns := map[int]bool{}
	for _, mv := range placements(legal) {
		turns[mv.Turn] = true
	}
	is.Equal(turns, map[int]bool{0: true, -1: true})
	is.Equal(mt.OpenPositions(st, m, 1), []int{0, -1})

	place(m, 1, -1, 6, 5)
	// The branch still belongs to player 3, who takes it back.
	mt.LegalMoves(st, m, allCandidates(m, 3), pipSum)
	is.Equal(mt.OpenPositions(st, m, 3), []int{3})
	is.Equal(mt.OpenPositions(st, m, 1), []int{0})
	is.Equal(mt.OpenPositions(st, m, 2), []int{1})
}

func TestCoprime(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, nil)
	mt := MustCompile(Leaf[int](Coprime{}))
	st := mt.NewState()
	place(m, 1, -1, 2, 2) // scores 4

	legal := mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPassMove[int](2),
		move.NewPlacementMove(2, 0, 2, 1), // 3
		move.NewPlacementMove(2, 0, 3, 3), // 6
		move.NewPlacementMove(2, 0, 0, 0), // 0
		move.NewPlacementMove(2, -1, 3, 3),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{
		move.NewPlacementMove(2, 0, 2, 1),
		move.NewPlacementMove(2, -1, 3, 3),
	})
	is.Equal(gcd(12, 18), 6)
	is.Equal(gcd(0, 7), 0)
	is.Equal(gcd(-4, 9), 1)
}

func TestParity(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, nil)
	mt := MustCompile(Leaf[int](Parity{}))
	st := mt.NewState()
	place(m, 1, -1, 2, 2)

	legal := mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPassMove[int](2),
		move.NewPlacementMove(2, 0, 2, 1),
		move.NewPlacementMove(2, 0, 2, 4),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{move.NewPlacementMove(2, 0, 2, 1)})
}

func TestTeamToken(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1, 3}, {2, 4}}, nil)
	mt := MustCompile(Leaf[int](TeamToken[int]{}))
	st := mt.NewState()
	place(m, 1, -1, 4, 4)
	place(m, 2, 0, 4, 1)

	// player 3 may not extend the tile of partner 1
	legal := mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPassMove[int](3),
		move.NewPlacementMove(3, 0, 4, 2),
		move.NewPlacementMove(3, 1, 1, 2),
		move.NewPlacementMove(3, -1, 4, 2),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{
		move.NewPlacementMove(3, 1, 1, 2),
		move.NewPlacementMove(3, -1, 4, 2),
	})
	is.Equal(mt.OpenPositions(st, m, 3), []int{-1, 1})

	// player 4 has not placed yet, but partner 2 has
	legal = mt.LegalMoves(st, m, []move.Move[int]{
		move.NewPassMove[int](4),
		move.NewPlacementMove(4, 1, 1, 2),
	}, pipSum)
	is.Equal(legal, []move.Move[int]{move.NewPassMove[int](4)})
}

func TestCombinatorAlgebra(t *testing.T) {
	m := newMatch(t, [][]int{{1}, {2}}, nil)
	a := Leaf[int](turnRule{"a", []int{0, 1}})
	b := Leaf[int](turnRule{"b", []int{1, 2}})
	cands := []move.Move[int]{
		move.NewPlacementMove(1, -1, 1, 1),
		move.NewPassMove[int](1),
		move.NewPlacementMove(1, 0, 1, 1),
		move.NewPlacementMove(1, 1, 1, 1),
		move.NewPlacementMove(1, 2, 1, 1),
	}
	turnsOf := func(e Expr[int]) []int {
		mt := MustCompile(e)
		var turns []int
		for _, mv := range mt.LegalMoves(mt.NewState(), m, cands, pipSum) {
			if mv.Pass {
				turns = append(turns, 99)
				continue
			}
			turns = append(turns, mv.Turn)
		}
		return turns
	}

	tests := []struct {
		name string
		expr Expr[int]
		want []int
	}{
		{"leaf", a, []int{0, 1}},
		{"and", And(a, b), []int{1}},
		{"or", Or(a, b), []int{0, 1, 2}},
		{"not", Not(a), []int{-1, 2}},
		{"double-not", Not(Not(a)), []int{0, 1}},
		{"contradiction", And(a, Not(a)), []int{99}},
		{"tautology", Or(a, Not(a)), []int{-1, 0, 1, 2}},
		{"nested", Or(And(a, b), Not(Or(a, b))), []int{-1, 1}},
		{"variadic", And(a, b, Not(b)), []int{99}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, turnsOf(tc.expr))
		})
	}
}

func TestOpenPositionsComposition(t *testing.T) {
	is := is.New(t)
	m := newMatch(t, [][]int{{1}, {2}}, nil)
	place(m, 1, -1, 1, 1)
	place(m, 2, 0, 1, 2)
	place(m, 1, 1, 2, 3)
	a := Leaf[int](turnRule{"a", []int{0, 1}})
	b := Leaf[int](turnRule{"b", []int{1, 2}})

	pos := func(e Expr[int]) []int {
		mt := MustCompile(e)
		return mt.OpenPositions(mt.NewState(), m, 1)
	}
	is.Equal(pos(And(a, b)), []int{1})
	is.Equal(pos(Or(a, b)), []int{0, 1, 2})
	is.Equal(pos(Not(a)), []int{-1, 2})
	is.Equal(pos(And(Leaf[int](Side[int]{}), Leaf[int](Equal[int]{}))), []int{-1, 2})
}

func TestProgressGuarantee(t *testing.T) {
	m := newMatch(t, [][]int{{1, 3}, {2, 4}}, map[int]tile.Hand[int]{
		1: tile.NewHand(tile.New(0, 1), tile.New(6, 6)),
		2: tile.NewHand(tile.New(5, 2), tile.New(3, 3)),
	})
	place(m, 1, -1, 4, 4)
	place(m, 2, 0, 4, 1)
	pass(m, 3)
	place(m, 4, -1, 4, 0)

	leaves := []Expr[int]{
		Leaf[int](Equal[int]{}),
		Leaf[int](Side[int]{}),
		Leaf[int](Longana[int]{}),
		Leaf[int](Coprime{}),
		Leaf[int](Parity{}),
		Leaf[int](TeamToken[int]{}),
	}
	var exprs []Expr[int]
	for _, x := range leaves {
		exprs = append(exprs, x, Not(x))
		for _, y := range leaves {
			exprs = append(exprs, And(x, y), Or(x, Not(y)), Not(And(Not(x), y)),
				And(Or(x, y), Not(Or(y, x))))
		}
	}
	for _, e := range exprs {
		mt, err := Compile(e)
		require.NoError(t, err)
		for _, pid := range []int{1, 2} {
			legal := mt.LegalMoves(mt.NewState(), m, allCandidates(m, pid), pipSum)
			require.NotEmpty(t, legal, e.String())
			if legal[0].Pass {
				assert.Len(t, legal, 1, e.String())
			}
			for _, mv := range legal {
				assert.Equal(t, pid, mv.PlayerID)
			}
		}
	}
}

func TestStateBelongsToOneMatch(t *testing.T) {
	m1 := newMatch(t, [][]int{{1}, {2}}, nil)
	m2 := newMatch(t, [][]int{{1}, {2}}, nil)
	mt := MustCompile(Leaf[int](Side[int]{}))
	st := mt.NewState()
	mt.OpenPositions(st, m1, 1)
	assert.Panics(t, func() { mt.OpenPositions(st, m2, 1) })
	assert.NotPanics(t, func() { mt.OpenPositions(mt.NewState(), m2, 1) })
}

func TestCompileErrors(t *testing.T) {
	is := is.New(t)
	_, err := Compile(Leaf[int](nil))
	is.True(errors.Is(err, ErrNilRule))
	_, err = Compile(Expr[int]{op: OpNot})
	is.True(errors.Is(err, ErrBadArity))
	_, err = Compile(Not(Leaf[int](nil)))
	is.True(errors.Is(err, ErrNilRule))
}

func TestParseAndBuild(t *testing.T) {
	is := is.New(t)
	r, err := Parse[int]("Longana")
	is.NoErr(err)
	is.Equal(r.Name(), "longana")

	_, err = Parse[int]("snake")
	is.True(errors.Is(err, ErrUnknownRule))
	_, err = Parse[string]("parity")
	is.True(errors.Is(err, ErrIntegerRule))
	_, err = Parse[string]("side")
	is.NoErr(err)

	e, err := Build[int](map[string]any{
		"or": []any{
			map[string]any{"and": []any{"side", "equal"}},
			map[string]any{"not": "coprime"},
		},
	})
	is.NoErr(err)
	is.Equal(e.String(), "or(and(side, equal), not(coprime))")
	is.Equal(e.Op(), OpOr)

	_, err = Build[int](map[string]any{"and": []any{"side"}})
	is.True(errors.Is(err, ErrBadArity))
	_, err = Build[int](map[string]any{"xor": []any{"side", "equal"}})
	is.True(errors.Is(err, ErrMalformedDef))
	_, err = Build[int](42)
	is.True(errors.Is(err, ErrMalformedDef))
	_, err = Build[int](map[string]any{"not": "bogus"})
	is.True(errors.Is(err, ErrUnknownRule))
}
