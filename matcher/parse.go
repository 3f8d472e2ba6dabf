package matcher

import (
	"fmt"
	"strings"
)

// RuleNames lists the rules Parse knows about.
var RuleNames = []string{"equal", "side", "longana", "coprime", "parity", "team_token"}

// Parse resolves a rule by name. The arithmetic rules (coprime, parity)
// are only available for integer tiles.
func Parse[T comparable](name string) (Rule[T], error) {
	var r any
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "equal":
		return Equal[T]{}, nil
	case "side":
		return Side[T]{}, nil
	case "longana":
		return Longana[T]{}, nil
	case "team_token", "teamtoken":
		return TeamToken[T]{}, nil
	case "coprime":
		r = Coprime{}
	case "parity":
		r = Parity{}
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownRule)
	}
	rule, ok := r.(Rule[T])
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrIntegerRule)
	}
	return rule, nil
}
