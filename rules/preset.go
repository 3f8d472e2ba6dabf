package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/0mar-rivero/domino/finisher"
	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/judge"
	"github.com/0mar-rivero/domino/matcher"
)

//go:embed presets.yaml
var builtinPresets []byte

var (
	ErrUnknownPreset    = errors.New("unknown preset")
	ErrUnknownComponent = errors.New("unknown rule component")
	ErrNotEnoughTiles   = errors.New("not enough tiles for every player")
)

// Preset is the description of a game, as read from YAML.
type Preset struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`
	MaxValue    int    `yaml:"max_value"`
	// TileCount defaults to the size of the whole set.
	TileCount    int    `yaml:"tile_count"`
	HandSize     int    `yaml:"hand_size"`
	Generator    string `yaml:"generator"`
	Dealer       string `yaml:"dealer"`
	Turner       string `yaml:"turner"`
	ReverseAfter int    `yaml:"reverse_after"`
	Scorer       string `yaml:"scorer"`
	Matcher      any    `yaml:"matcher"`
	Finisher     any    `yaml:"finisher"`
}

// ParsePresets reads a YAML document mapping preset names to presets.
func ParsePresets(data []byte) (map[string]*Preset, error) {
	presets := map[string]*Preset{}
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	for name, p := range presets {
		if p == nil {
			return nil, fmt.Errorf("preset %q is empty", name)
		}
		p.Name = name
	}
	return presets, nil
}

// Builtin returns the presets that ship with the package.
func Builtin() map[string]*Preset {
	presets, err := ParsePresets(builtinPresets)
	if err != nil {
		panic(err)
	}
	return presets
}

// Lookup finds a preset by name among the presets of the given document
// and the builtin presets. Presets in data shadow builtin ones.
func Lookup(name string, data []byte) (*Preset, error) {
	presets := Builtin()
	if len(data) > 0 {
		extra, err := ParsePresets(data)
		if err != nil {
			return nil, err
		}
		maps.Copy(presets, extra)
	}
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	return p, nil
}

// Load looks a preset up, reading extra presets from the YAML file at path
// if path is not empty, and compiles it. A positive handSize overrides the
// hand size of the preset.
func Load(name, path string, handSize int) (*Rules, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading presets: %w", err)
		}
	}
	p, err := Lookup(name, data)
	if err != nil {
		return nil, err
	}
	if handSize > 0 {
		cp := *p
		cp.HandSize = handSize
		p = &cp
	}
	return p.Compile()
}

// PresetNames returns the sorted names of the builtin presets.
func PresetNames() []string {
	var names []string
	for n := range Builtin() {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Rules are the compiled components of a preset. They can be shared by
// any number of matches, including concurrent ones.
type Rules struct {
	Preset    *Preset
	Generator game.Generator[int]
	Dealer    ClassicDealer
	// Tiles is how many tiles the dealer can actually draw from the
	// generator.
	Tiles     int
	Scorer    game.Scorer[int]
	Matcher   *matcher.Matcher[int]
	Finisher  finisher.Finisher[int]
}

// Compile checks the preset and builds its components.
func (p *Preset) Compile() (*Rules, error) {
	r := &Rules{Preset: p}
	switch p.Generator {
	case "", "classic":
		r.Generator = ClassicGenerator{Max: p.MaxValue}
	case "no_double":
		r.Generator = NoDoubleGenerator{Max: p.MaxValue}
	case "prime_sum":
		r.Generator = PrimeSumGenerator{Max: p.MaxValue}
	default:
		return nil, fmt.Errorf("generator %q: %w", p.Generator, ErrUnknownComponent)
	}

	count := p.TileCount
	if count == 0 {
		count = SetSize(p.MaxValue)
	}
	switch p.Dealer {
	case "", "classic":
		r.Dealer = ClassicDealer{TileCount: count, HandSize: p.HandSize}
	case "even":
		r.Dealer = EvenDealer(count, p.HandSize)
	case "odd":
		r.Dealer = OddDealer(count, p.HandSize)
	default:
		return nil, fmt.Errorf("dealer %q: %w", p.Dealer, ErrUnknownComponent)
	}

	r.Tiles = r.Dealer.Available(r.Generator.Generate())

	switch p.Turner {
	case "", "classic", "random", "reverse":
	default:
		return nil, fmt.Errorf("turner %q: %w", p.Turner, ErrUnknownComponent)
	}

	switch p.Scorer {
	case "", "classic":
		r.Scorer = ClassicScorer{}
	case "mod_five":
		r.Scorer = ModFiveScorer{}
	case "inverse_classic":
		r.Scorer = InverseScorer{ClassicScorer{}}
	case "divides_board":
		r.Scorer = DividesBoardScorer{}
	default:
		return nil, fmt.Errorf("scorer %q: %w", p.Scorer, ErrUnknownComponent)
	}

	expr, err := matcher.Build[int](p.Matcher)
	if err != nil {
		return nil, fmt.Errorf("preset %s: matcher: %w", p.Name, err)
	}
	if r.Matcher, err = matcher.Compile(expr); err != nil {
		return nil, fmt.Errorf("preset %s: matcher: %w", p.Name, err)
	}
	if r.Finisher, err = finisher.Build[int](p.Finisher); err != nil {
		return nil, fmt.Errorf("preset %s: finisher: %w", p.Name, err)
	}
	return r, nil
}

// CheckPlayers makes sure there are enough tiles to deal to every player.
func (r *Rules) CheckPlayers(n int) error {
	if n*r.Dealer.HandSize > r.Tiles {
		return fmt.Errorf("%d players with %d tiles each out of %d: %w",
			n, r.Dealer.HandSize, r.Tiles, ErrNotEnoughTiles)
	}
	return nil
}

// Turner builds the turner of the preset. rng may be nil.
func (r *Rules) Turner(rng *frand.RNG) game.Turner[int] {
	switch r.Preset.Turner {
	case "random":
		return RandomTurner[int]{RNG: rng}
	case "reverse":
		return NPassesReverseTurner[int]{N: r.Preset.ReverseAfter}
	}
	return ClassicTurner[int]{}
}

// NewJudge creates the judge of a single match. rng drives the shuffle
// and random turns; nil means the shared frand source.
func (r *Rules) NewJudge(rng *frand.RNG) *judge.Judge[int] {
	dealer := r.Dealer
	dealer.RNG = rng
	return judge.New[int](r.Generator, dealer, r.Turner(rng), r.Matcher, r.Scorer, r.Finisher)
}
