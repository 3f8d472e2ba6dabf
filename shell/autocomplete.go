package shell

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/rules"
	"github.com/0mar-rivero/domino/strategy"
)

// ShellCompleter completes command names and the arguments of some
// commands.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// commandOptions maps commands to the options they accept.
var commandOptions = map[string][]string{
	"new":      {"-players", "-teams", "-seed"},
	"autoplay": {"-games", "-threads", "-players", "-teams", "-seed", "-output", "-db"},
	"games":    {"-preset", "-limit", "-db"},
}

var commandNames = []string{
	"help", "preset", "new", "step", "play", "board", "hand", "positions",
	"winners", "summary", "autoplay", "analyze", "games", "script", "exit",
}

var helpTopics = []string{"strategies", "presets", "script"}

// Do implements readline.AutoCompleter.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote
		return nil, 0
	}
	if strings.HasSuffix(text, " ") || len(fields) == 0 {
		fields = append(fields, "")
	}
	word := fields[len(fields)-1]
	if len(fields) == 1 {
		return complete(commandNames, word), len(word)
	}
	return complete(c.candidates(fields[0], fields[len(fields)-2], word), word), len(word)
}

func (c *ShellCompleter) candidates(cmd, prev, word string) []string {
	switch prev {
	case "-players":
		return c.lineup(word)
	case "-preset":
		return rules.PresetNames()
	}
	if strings.HasPrefix(word, "-") {
		return commandOptions[cmd]
	}
	switch cmd {
	case "preset":
		return rules.PresetNames()
	case "help":
		return helpTopics
	case "autoplay":
		return []string{"stop"}
	case "hand", "positions":
		if c.sc.match == nil {
			return nil
		}
		return lo.Map(c.sc.match.Players(), func(p *game.Player[int], _ int) string {
			return strconv.Itoa(p.ID)
		})
	}
	return nil
}

// lineup completes the last strategy of a comma-separated list.
func (c *ShellCompleter) lineup(word string) []string {
	head := ""
	if i := strings.LastIndex(word, ","); i >= 0 {
		head = word[:i+1]
	}
	return lo.Map(strategy.Names, func(s string, _ int) string { return head + s })
}

func complete(candidates []string, word string) [][]rune {
	var out [][]rune
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, []rune(c[len(word):]+" "))
		}
	}
	return out
}
