package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/0mar-rivero/domino/config"
	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/judge"
	"github.com/0mar-rivero/domino/rules"
	"github.com/0mar-rivero/domino/store"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoMatch           = errors.New("no match in progress; use new")
	errExit              = errors.New("exit")
)

type ShellController struct {
	l          *readline.Instance
	out        io.Writer
	config     *config.Config
	execPath   string
	gitVersion string

	rules   *rules.Rules
	match   *game.Match[int]
	judge   *judge.Judge[int]
	next    func() (judge.Action[int], bool)
	stop    func()
	actions int

	store *store.Store

	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{config: cfg, out: out}
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, os.Stdout)
	sc.execPath = execPath
	sc.gitVersion = gitVersion

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mdomino>\033[0m ",
		HistoryFile:     "/tmp/domino-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stdout()
	return sc
}

// extractFields splits a line into a command, its positional arguments and
// its -options, each of which takes exactly one value.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) commands() map[string]func(*shellcmd) (*Response, error) {
	return map[string]func(*shellcmd) (*Response, error){
		"help":      sc.help,
		"preset":    sc.preset,
		"new":       sc.newMatch,
		"step":      sc.step,
		"s":         sc.step,
		"play":      sc.playOut,
		"board":     sc.board,
		"hand":      sc.hand,
		"positions": sc.positions,
		"winners":   sc.winners,
		"summary":   sc.summary,
		"autoplay":  sc.autoplay,
		"analyze":   sc.analyze,
		"games":     sc.games,
		"script":    sc.script,
	}
}

// run executes a single command line.
func (sc *ShellController) run(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	if cmd.cmd == "exit" {
		return nil, errExit
	}
	handler, ok := sc.commands()[cmd.cmd]
	if !ok {
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("unknown command %q; try help", cmd.cmd)
	}
	return handler(cmd)
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) error {
	resp, err := sc.run(line)
	switch {
	case errors.Is(err, errExit):
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	case errors.Is(err, errNoData):
	case err != nil:
		sc.showError(err)
	case resp != nil && resp.message != "":
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs a single line and returns, for non-interactive use.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.standardModeSwitch(line, sig); err != nil {
		log.Error().Err(err).Msg("")
	}
	sc.waitForAutoplay()
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if err := sc.standardModeSwitch(line, sig); err != nil {
			log.Error().Err(err).Msg("")
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops whatever is still running.
func (sc *ShellController) Cleanup() {
	sc.endMatch()
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
	}
	sc.waitForAutoplay()
	if sc.store != nil {
		sc.store.Close()
	}
}

func (sc *ShellController) waitForAutoplay() {
	if sc.autoplayDone != nil {
		<-sc.autoplayDone
	}
}

func (sc *ShellController) endMatch() {
	if sc.stop != nil {
		sc.stop()
	}
	sc.match, sc.judge, sc.next, sc.stop = nil, nil, nil, nil
	sc.actions = 0
}

func (sc *ShellController) startMatch(m *game.Match[int], j *judge.Judge[int]) error {
	sc.endMatch()
	if err := j.Start(m); err != nil {
		return err
	}
	sc.match, sc.judge = m, j
	sc.next, sc.stop = iter.Pull(j.Play(m))
	return nil
}

func (sc *ShellController) loadRules(name string) error {
	r, err := rules.Load(name, sc.config.GetString(config.ConfigRulesFile),
		sc.config.GetInt(config.ConfigHandSize))
	if err != nil {
		return err
	}
	sc.rules = r
	return nil
}

func (sc *ShellController) currentRules() (*rules.Rules, error) {
	if sc.rules == nil {
		if err := sc.loadRules(sc.config.GetString(config.ConfigPreset)); err != nil {
			return nil, err
		}
	}
	return sc.rules, nil
}

func (sc *ShellController) openStore(path string) (*store.Store, error) {
	if sc.store != nil {
		return sc.store, nil
	}
	if path == "" {
		return nil, errors.New("no database; pass -db or set the db config key")
	}
	s, err := store.Open(context.Background(), path)
	if err != nil {
		return nil, err
	}
	sc.store = s
	return s, nil
}
