// Package automatic plays many domino matches computer vs computer, for
// checking that presets terminate and for comparing strategies.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/judge"
	"github.com/0mar-rivero/domino/rules"
	"github.com/0mar-rivero/domino/store"
	"github.com/0mar-rivero/domino/strategy"
	"github.com/0mar-rivero/domino/tile"
)

// ErrRunaway is returned for a game that did not finish after a very long
// time, which means the preset's finisher never fires.
var ErrRunaway = errors.New("game did not finish")

// maxActionsPerTile bounds the length of a game relative to the tiles in play.
const maxActionsPerTile = 50

// GameRunner plays single games of one preset with a fixed lineup.
type GameRunner struct {
	rules      *rules.Rules
	strategies []string
	teams      int
	seed       string
	logchan    chan<- []string
}

// NewGameRunner checks the lineup against the rules. Player i plays the
// i-th strategy and sits in team i mod teams.
func NewGameRunner(r *rules.Rules, strategies []string, teams int, seed string,
	logchan chan<- []string) (*GameRunner, error) {

	if teams < 1 || len(strategies) < teams {
		return nil, fmt.Errorf("%d players cannot make %d teams", len(strategies), teams)
	}
	for _, s := range strategies {
		if _, err := strategy.Parse[int](s, nil); err != nil {
			return nil, err
		}
	}
	if err := r.CheckPlayers(len(strategies)); err != nil {
		return nil, err
	}
	return &GameRunner{rules: r, strategies: strategies, teams: teams, seed: seed, logchan: logchan}, nil
}

// TeamName is the name of the k-th team.
func TeamName(k int) string {
	return "team-" + strconv.Itoa(k)
}

// NewMatch seats the lineup. Strategies that need randomness draw from rng.
func (r *GameRunner) NewMatch(rng *frand.RNG) (*game.Match[int], error) {
	teams := make([]*game.Team[int], r.teams)
	for k := range teams {
		teams[k] = game.NewTeam[int](TeamName(k))
	}
	for i, name := range r.strategies {
		strat, err := strategy.Parse[int](name, rng)
		if err != nil {
			return nil, err
		}
		p := game.NewPlayer[int](i, fmt.Sprintf("p%d-%s", i, name), strat)
		teams[i%r.teams].Players = append(teams[i%r.teams].Players, p)
	}
	return game.NewMatch(teams...)
}

// Fingerprint hashes the hands of a match in seating order; two games with
// the same fingerprint started from the same deal.
func Fingerprint(m *game.Match[int]) uint64 {
	d := xxhash.New()
	for _, p := range m.Players() {
		tiles := slices.Clone(m.HandOf(p.ID))
		slices.SortFunc(tiles, func(a, b tile.Tile[int]) int {
			return (min(a.A, a.B)*100 + max(a.A, a.B)) - (min(b.A, b.B)*100 + max(b.A, b.B))
		})
		fmt.Fprintf(d, "%d:%v;", p.ID, tiles)
	}
	return d.Sum64()
}

func leftoverPips(m *game.Match[int]) int {
	return lo.SumBy(m.AllHands(), func(t tile.Tile[int]) int { return t.A + t.B })
}

// PlayGame plays the index-th game of the run to the end.
func (r *GameRunner) PlayGame(ctx context.Context, index int) (store.Game, error) {
	rng := NewRNG(r.seed, index)
	m, err := r.NewMatch(rng)
	if err != nil {
		return store.Game{}, err
	}
	j := r.rules.NewJudge(rng)
	if err := j.Start(m); err != nil {
		return store.Game{}, err
	}
	res := store.Game{
		ID:          m.ID(),
		Preset:      r.rules.Preset.Name,
		Index:       index,
		Seed:        r.seed,
		Fingerprint: Fingerprint(m),
	}

	limit := maxActionsPerTile * max(m.TotalTiles(), 1)
	n := 0
	for a := range j.Play(m) {
		n++
		if a.Repaired {
			res.Repaired++
		}
		if r.logchan != nil {
			r.logchan <- []string{
				m.ID(),
				strconv.Itoa(index),
				strconv.Itoa(n),
				a.Player.Nickname,
				a.Phase.String(),
				a.Move.ShortDescription(),
				strconv.FormatBool(a.Repaired),
				strconv.Itoa(m.TileCountOf(a.Player.ID)),
			}
		}
		if n >= limit {
			return res, fmt.Errorf("game %d after %d actions: %w", index, n, ErrRunaway)
		}
		if n%64 == 0 && ctx.Err() != nil {
			return res, ctx.Err()
		}
	}
	if j.Phase() != judge.Finished {
		return res, fmt.Errorf("game %d stopped in phase %s: %w", index, j.Phase(), ErrRunaway)
	}

	res.Placements = m.Board().Placements()
	res.Passes = m.Board().Passes()
	res.LeftoverPips = leftoverPips(m)
	res.Board = m.Board().ToDisplayText()
	res.Ranking = lo.Map(j.Winners(m), func(t *game.Team[int], _ int) string { return t.Name })
	log.Debug().Int("game", index).Str("id", res.ID).Strs("ranking", res.Ranking).
		Int("actions", n).Msg("game-over")
	return res, nil
}
