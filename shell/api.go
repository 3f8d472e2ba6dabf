package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/0mar-rivero/domino/automatic"
	"github.com/0mar-rivero/domino/config"
	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/judge"
	"github.com/0mar-rivero/domino/rules"
)

// maxShellActions stops play from spinning on a preset that never ends.
const maxShellActions = 100000

type Response struct {
	message string
}

type CmdOptions map[string]string

func (c CmdOptions) String(key, defaultS string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return defaultS
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return i, nil
}

func (c CmdOptions) StringArray(key string, defaultA []string) []string {
	v, ok := c[key]
	if !ok {
		return defaultA
	}
	return lo.Map(strings.Split(v, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) preset(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		current := ""
		if sc.rules != nil {
			current = sc.rules.Preset.Name
		}
		var sb strings.Builder
		builtin := rules.Builtin()
		for _, name := range rules.PresetNames() {
			marker := " "
			if name == current {
				marker = "*"
			}
			fmt.Fprintf(&sb, "%s %-12s %s\n", marker, name, builtin[name].Description)
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	if err := sc.loadRules(cmd.args[0]); err != nil {
		return nil, err
	}
	sc.endMatch()
	return msg(fmt.Sprintf("preset %s: matcher %v, finisher %v",
		sc.rules.Preset.Name, sc.rules.Matcher, sc.rules.Finisher)), nil
}

func (sc *ShellController) newMatch(cmd *shellcmd) (*Response, error) {
	r, err := sc.currentRules()
	if err != nil {
		return nil, err
	}
	players := cmd.options.StringArray("players", sc.config.GetStringSlice(config.ConfigPlayers))
	teams, err := cmd.options.IntDefault("teams", sc.config.GetInt(config.ConfigTeams))
	if err != nil {
		return nil, err
	}
	seed := cmd.options.String("seed", sc.config.GetString(config.ConfigSeed))

	runner, err := automatic.NewGameRunner(r, players, teams, seed, nil)
	if err != nil {
		return nil, err
	}
	var m *game.Match[int]
	var j *judge.Judge[int]
	if seed != "" {
		rng := automatic.NewRNG(seed, 0)
		if m, err = runner.NewMatch(rng); err != nil {
			return nil, err
		}
		j = r.NewJudge(rng)
	} else {
		if m, err = runner.NewMatch(nil); err != nil {
			return nil, err
		}
		j = r.NewJudge(nil)
	}
	if err := sc.startMatch(m, j); err != nil {
		return nil, err
	}
	log.Debug().Str("id", m.ID()).Str("preset", r.Preset.Name).Msg("new-match")
	return msg(fmt.Sprintf("match %s (%s)\n%s", m.ID(), r.Preset.Name, sc.hands())), nil
}

func actionLine(n int, a judge.Action[int]) string {
	line := fmt.Sprintf("%4d  %-8s %-14s %s", n, a.Phase, a.Player.Nickname, a.Move.ShortDescription())
	if a.Repaired {
		line += "  (illegal choice replaced)"
	}
	return line
}

func (sc *ShellController) advance(n int) ([]string, bool) {
	var lines []string
	for range n {
		a, ok := sc.next()
		if !ok {
			return lines, false
		}
		sc.actions++
		lines = append(lines, actionLine(sc.actions, a))
	}
	return lines, true
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil || n < 1 {
			return nil, errors.New("step takes a positive number of actions")
		}
	}
	lines, more := sc.advance(n)
	if !more {
		lines = append(lines, "match over: "+sc.ranking())
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) playOut(cmd *shellcmd) (*Response, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	lines, more := sc.advance(maxShellActions)
	if more {
		return nil, fmt.Errorf("match still running after %d actions", maxShellActions)
	}
	lines = append(lines, "match over: "+sc.ranking())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) board(cmd *shellcmd) (*Response, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	if sc.match.Board().IsEmpty() {
		return msg("(empty board)"), nil
	}
	return msg(strings.TrimRight(sc.match.Board().ToDisplayText(), "\n")), nil
}

func (sc *ShellController) hands() string {
	lines := lo.Map(sc.match.Players(), func(p *game.Player[int], _ int) string {
		return fmt.Sprintf("%-14s %-8s %v", p.Nickname, sc.match.TeamOf(p.ID).Name, sc.match.HandOf(p.ID))
	})
	return strings.Join(lines, "\n")
}

func (sc *ShellController) playerArg(cmd *shellcmd) (int, error) {
	id, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return 0, err
	}
	if sc.match.Player(id) == nil {
		return 0, fmt.Errorf("no player %d in this match", id)
	}
	return id, nil
}

func (sc *ShellController) hand(cmd *shellcmd) (*Response, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	if len(cmd.args) == 0 {
		return msg(sc.hands()), nil
	}
	id, err := sc.playerArg(cmd)
	if err != nil {
		return nil, err
	}
	return msg(sc.match.HandOf(id).String()), nil
}

func (sc *ShellController) positions(cmd *shellcmd) (*Response, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: positions <player>")
	}
	id, err := sc.playerArg(cmd)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprint(sc.judge.OpenPositions(id))), nil
}

func (sc *ShellController) ranking() string {
	return strings.Join(lo.Map(sc.judge.Winners(sc.match), func(t *game.Team[int], _ int) string {
		return t.Name
	}), " > ")
}

func (sc *ShellController) winners(cmd *shellcmd) (*Response, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	if sc.judge.Phase() != judge.Finished {
		return msg("match not over; standing: " + sc.ranking()), nil
	}
	return msg(sc.ranking()), nil
}

// matchSummary is the state of the current match, as shown by summary and
// handed to scripts.
type matchSummary struct {
	ID         string            `yaml:"id" json:"id"`
	Preset     string            `yaml:"preset" json:"preset"`
	Phase      string            `yaml:"phase" json:"phase"`
	Actions    int               `yaml:"actions" json:"actions"`
	Placements int               `yaml:"placements" json:"placements"`
	Passes     int               `yaml:"passes" json:"passes"`
	Hands      map[string]string `yaml:"hands" json:"hands"`
	Ranking    []string          `yaml:"ranking,omitempty" json:"ranking,omitempty"`
}

func (sc *ShellController) matchSummary() (*matchSummary, error) {
	if sc.match == nil {
		return nil, errNoMatch
	}
	s := &matchSummary{
		ID:         sc.match.ID(),
		Preset:     sc.rules.Preset.Name,
		Phase:      sc.judge.Phase().String(),
		Actions:    sc.actions,
		Placements: sc.match.Board().Placements(),
		Passes:     sc.match.Board().Passes(),
		Hands:      map[string]string{},
	}
	for _, p := range sc.match.Players() {
		s.Hands[p.Nickname] = sc.match.HandOf(p.ID).String()
	}
	if sc.judge.Phase() == judge.Finished {
		s.Ranking = lo.Map(sc.judge.Winners(sc.match), func(t *game.Team[int], _ int) string { return t.Name })
	}
	return s, nil
}

func (sc *ShellController) summary(cmd *shellcmd) (*Response, error) {
	s, err := sc.matchSummary()
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		if sc.autoplayCancel == nil {
			return nil, errors.New("no games are being played")
		}
		sc.autoplayCancel()
		return msg("stopping games..."), nil
	}
	if sc.autoplayDone != nil {
		select {
		case <-sc.autoplayDone:
		default:
			return nil, automatic.ErrAlreadyPlaying
		}
	}
	r, err := sc.currentRules()
	if err != nil {
		return nil, err
	}
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	teams, err := cmd.options.IntDefault("teams", sc.config.GetInt(config.ConfigTeams))
	if err != nil {
		return nil, err
	}
	opts := automatic.Options{
		Rules:      r,
		Strategies: cmd.options.StringArray("players", sc.config.GetStringSlice(config.ConfigPlayers)),
		Teams:      teams,
		Games:      games,
		Threads:    threads,
		Seed:       cmd.options.String("seed", sc.config.GetString(config.ConfigSeed)),
	}
	if db := cmd.options.String("db", sc.config.GetString(config.ConfigDB)); db != "" {
		s, err := sc.openStore(db)
		if err != nil {
			return nil, err
		}
		opts.Saver = s
	}
	var logfile *os.File
	if out := cmd.options.String("output", sc.config.GetString(config.ConfigOutput)); out != "" {
		if logfile, err = os.Create(out); err != nil {
			return nil, err
		}
		opts.TurnLog = logfile
	}

	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayCancel = cancel
	sc.autoplayDone = make(chan struct{})
	go func() {
		defer close(sc.autoplayDone)
		defer cancel()
		if logfile != nil {
			defer logfile.Close()
		}
		summary, err := automatic.Play(ctx, opts)
		if err != nil {
			log.Error().Err(err).Msg("autoplay-failed")
		}
		if summary != nil {
			sc.showMessage(summary.String())
		}
	}()
	return msg(fmt.Sprintf("playing %d games of %s on %d threads", games, r.Preset.Name, threads)), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: analyze <turn log>")
	}
	out, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(out, "\n")), nil
}

func (sc *ShellController) games(cmd *shellcmd) (*Response, error) {
	s, err := sc.openStore(cmd.options.String("db", sc.config.GetString(config.ConfigDB)))
	if err != nil {
		return nil, err
	}
	limit, err := cmd.options.IntDefault("limit", 20)
	if err != nil {
		return nil, err
	}
	preset := cmd.options.String("preset", "")
	ctx := context.Background()
	games, err := s.List(ctx, preset, limit)
	if err != nil {
		return nil, err
	}
	wins, err := s.Wins(ctx, preset)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, g := range games {
		fmt.Fprintf(&sb, "%s %-10s #%-4d %3d placed %3d passed  %s\n",
			g.ID, g.Preset, g.Index, g.Placements, g.Passes, strings.Join(g.Ranking, " > "))
	}
	teams := lo.Keys(wins)
	slices.Sort(teams)
	for _, t := range teams {
		fmt.Fprintf(&sb, "%s: %d wins\n", t, wins[t])
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
