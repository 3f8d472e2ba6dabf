package matcher

import (
	"errors"
	"fmt"
	"strings"
)

// Op is the kind of an expression node.
type Op uint8

const (
	OpLeaf Op = iota
	OpAnd
	OpOr
	OpNot
)

func (o Op) String() string {
	switch o {
	case OpLeaf:
		return "leaf"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	}
	return fmt.Sprintf("op(%d)", o)
}

var (
	ErrUnknownRule  = errors.New("unknown rule")
	ErrBadArity     = errors.New("wrong number of operands")
	ErrNilRule      = errors.New("leaf without a rule")
	ErrIntegerRule  = errors.New("rule only works with integer tiles")
	ErrMalformedDef = errors.New("malformed matcher definition")
)

// Expr is a legality expression: either a single rule or a boolean
// combination of expressions. Build one with Leaf, And, Or and Not, then
// Compile it.
type Expr[T comparable] struct {
	op   Op
	rule Rule[T]
	args []Expr[T]
}

// Leaf wraps a single rule.
func Leaf[T comparable](r Rule[T]) Expr[T] {
	return Expr[T]{op: OpLeaf, rule: r}
}

// And allows a move only if every operand allows it.
func And[T comparable](a, b Expr[T], more ...Expr[T]) Expr[T] {
	return Expr[T]{op: OpAnd, args: append([]Expr[T]{a, b}, more...)}
}

// Or allows a move if any operand allows it.
func Or[T comparable](a, b Expr[T], more ...Expr[T]) Expr[T] {
	return Expr[T]{op: OpOr, args: append([]Expr[T]{a, b}, more...)}
}

// Not allows exactly the placements its operand rejects.
func Not[T comparable](a Expr[T]) Expr[T] {
	return Expr[T]{op: OpNot, args: []Expr[T]{a}}
}

// Op returns the kind of the root node.
func (e Expr[T]) Op() Op {
	return e.op
}

func (e Expr[T]) validate() error {
	switch e.op {
	case OpLeaf:
		if e.rule == nil {
			return ErrNilRule
		}
	case OpAnd, OpOr:
		if len(e.args) < 2 {
			return fmt.Errorf("%s: %w", e.op, ErrBadArity)
		}
	case OpNot:
		if len(e.args) != 1 {
			return fmt.Errorf("%s: %w", e.op, ErrBadArity)
		}
	default:
		return fmt.Errorf("%s: %w", e.op, ErrMalformedDef)
	}
	for _, a := range e.args {
		if err := a.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e Expr[T]) String() string {
	if e.op == OpLeaf {
		if e.rule == nil {
			return "<nil>"
		}
		return e.rule.Name()
	}
	parts := make([]string, len(e.args))
	for i, a := range e.args {
		parts[i] = a.String()
	}
	return e.op.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Build turns a decoded definition into an expression. A definition is
// either a rule name, or a map with a single key ("and", "or", "not") whose
// value is a list of definitions (a single definition for "not"). This is
// the shape produced by decoding YAML or JSON.
func Build[T comparable](def any) (Expr[T], error) {
	switch d := def.(type) {
	case string:
		r, err := Parse[T](d)
		if err != nil {
			return Expr[T]{}, err
		}
		return Leaf(r), nil
	case map[string]any:
		if len(d) != 1 {
			return Expr[T]{}, fmt.Errorf("expected a single operator, got %d keys: %w", len(d), ErrMalformedDef)
		}
		for k, v := range d {
			return buildOp[T](strings.ToLower(k), v)
		}
	}
	return Expr[T]{}, fmt.Errorf("unexpected %T: %w", def, ErrMalformedDef)
}

func buildOp[T comparable](op string, v any) (Expr[T], error) {
	var defs []any
	switch vv := v.(type) {
	case []any:
		defs = vv
	default:
		defs = []any{vv}
	}
	args := make([]Expr[T], 0, len(defs))
	for _, d := range defs {
		a, err := Build[T](d)
		if err != nil {
			return Expr[T]{}, fmt.Errorf("%s: %w", op, err)
		}
		args = append(args, a)
	}
	var e Expr[T]
	switch op {
	case "and":
		e = Expr[T]{op: OpAnd, args: args}
	case "or":
		e = Expr[T]{op: OpOr, args: args}
	case "not":
		e = Expr[T]{op: OpNot, args: args}
	default:
		return Expr[T]{}, fmt.Errorf("operator %q: %w", op, ErrMalformedDef)
	}
	if err := e.validate(); err != nil {
		return Expr[T]{}, err
	}
	return e, nil
}
