// Package finisher contains the predicates that end a match. A Finisher is
// a small expression: one of the basic conditions, or Any/All of other
// finishers.
package finisher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
)

type Kind uint8

const (
	KindEmptyHand Kind = iota
	KindAllPass
	KindTurnCount
	KindPassCount
	KindAny
	KindAll
)

var kindNames = map[Kind]string{
	KindEmptyHand: "empty_hand",
	KindAllPass:   "all_pass",
	KindTurnCount: "turn_count",
	KindPassCount: "pass_count",
	KindAny:       "any",
	KindAll:       "all",
}

var ErrMalformedDef = errors.New("malformed finisher definition")

// Finisher decides whether a match is over. The zero value is EmptyHand.
type Finisher[T comparable] struct {
	kind Kind
	n    int
	args []Finisher[T]
}

// EmptyHand ends the match as soon as any player has played out.
func EmptyHand[T comparable]() Finisher[T] {
	return Finisher[T]{kind: KindEmptyHand}
}

// AllPass ends the match once every player has moved and the last move of
// each of them is a pass: the game is blocked.
func AllPass[T comparable]() Finisher[T] {
	return Finisher[T]{kind: KindAllPass}
}

// TurnCount ends the match once more than n tiles have been placed.
func TurnCount[T comparable](n int) Finisher[T] {
	return Finisher[T]{kind: KindTurnCount, n: n}
}

// PassCount ends the match once there have been more than n passes.
func PassCount[T comparable](n int) Finisher[T] {
	return Finisher[T]{kind: KindPassCount, n: n}
}

// Any ends the match when one of the finishers does.
func Any[T comparable](fs ...Finisher[T]) Finisher[T] {
	return Finisher[T]{kind: KindAny, args: fs}
}

// All ends the match when every one of the finishers does.
func All[T comparable](fs ...Finisher[T]) Finisher[T] {
	return Finisher[T]{kind: KindAll, args: fs}
}

func (f Finisher[T]) Kind() Kind {
	return f.kind
}

// IsOver implements game.Finisher.
func (f Finisher[T]) IsOver(m *game.Match[T]) bool {
	b := m.Board()
	switch f.kind {
	case KindEmptyHand:
		_, ok := m.HasEmptyHand()
		return ok
	case KindAllPass:
		return lo.EveryBy(m.Players(), func(p *game.Player[T]) bool {
			last, ok := b.LastBy(p.ID)
			return ok && last.Pass
		})
	case KindTurnCount:
		return b.Placements() > f.n
	case KindPassCount:
		return b.Passes() > f.n
	case KindAny:
		return lo.SomeBy(f.args, func(a Finisher[T]) bool { return a.IsOver(m) })
	case KindAll:
		return len(f.args) > 0 && lo.EveryBy(f.args, func(a Finisher[T]) bool { return a.IsOver(m) })
	}
	return false
}

func (f Finisher[T]) String() string {
	switch f.kind {
	case KindTurnCount, KindPassCount:
		return fmt.Sprintf("%s(%d)", kindNames[f.kind], f.n)
	case KindAny, KindAll:
		parts := lo.Map(f.args, func(a Finisher[T], _ int) string { return a.String() })
		return kindNames[f.kind] + "(" + strings.Join(parts, ", ") + ")"
	}
	return kindNames[f.kind]
}

// Build turns a decoded definition into a finisher. A definition is a name
// ("empty_hand", "all_pass"), or a single-key map: {turn_count: n},
// {pass_count: n}, {any: [...]} or {all: [...]}.
func Build[T comparable](def any) (Finisher[T], error) {
	switch d := def.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "empty_hand":
			return EmptyHand[T](), nil
		case "all_pass":
			return AllPass[T](), nil
		}
		return Finisher[T]{}, fmt.Errorf("%q: %w", d, ErrMalformedDef)
	case map[string]any:
		if len(d) != 1 {
			return Finisher[T]{}, fmt.Errorf("expected a single key, got %d: %w", len(d), ErrMalformedDef)
		}
		for k, v := range d {
			return buildKey[T](strings.ToLower(k), v)
		}
	}
	return Finisher[T]{}, fmt.Errorf("unexpected %T: %w", def, ErrMalformedDef)
}

func buildKey[T comparable](key string, v any) (Finisher[T], error) {
	switch key {
	case "turn_count", "pass_count":
		n, ok := v.(int)
		if !ok || n < 0 {
			return Finisher[T]{}, fmt.Errorf("%s needs a non-negative integer: %w", key, ErrMalformedDef)
		}
		if key == "turn_count" {
			return TurnCount[T](n), nil
		}
		return PassCount[T](n), nil
	case "any", "all":
		defs, ok := v.([]any)
		if !ok || len(defs) == 0 {
			return Finisher[T]{}, fmt.Errorf("%s needs a list: %w", key, ErrMalformedDef)
		}
		args := make([]Finisher[T], 0, len(defs))
		for _, d := range defs {
			f, err := Build[T](d)
			if err != nil {
				return Finisher[T]{}, fmt.Errorf("%s: %w", key, err)
			}
			args = append(args, f)
		}
		if key == "any" {
			return Any(args...), nil
		}
		return All(args...), nil
	}
	return Finisher[T]{}, fmt.Errorf("%q: %w", key, ErrMalformedDef)
}
