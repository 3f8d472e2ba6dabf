package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/0mar-rivero/domino/stats"
)

var ErrBadLogFile = errors.New("not a turn log")

type playerStats struct {
	actions  int
	passes   int
	repaired int
}

// AnalyzeLogFile reads a turn log written by Play and summarizes it per
// player.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

func AnalyzeLog(in io.Reader) (string, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(LogHeader)

	header, err := r.Read()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadLogFile, err)
	}
	if !slices.Equal(header, LogHeader) {
		return "", ErrBadLogFile
	}

	players := map[string]*playerStats{}
	actions := map[string]int{}
	var order []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		id, nick, mv, repaired := record[0], record[3], record[5], record[6]
		if _, ok := actions[id]; !ok {
			order = append(order, id)
		}
		actions[id]++
		ps, ok := players[nick]
		if !ok {
			ps = &playerStats{}
			players[nick] = ps
		}
		ps.actions++
		if mv == "(pass)" {
			ps.passes++
		}
		if repaired == "true" {
			ps.repaired++
		}
	}

	length := &stats.Sample{}
	for _, id := range order {
		length.Push(float64(actions[id]))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", len(order))
	fmt.Fprintf(&sb, "Actions per game: %v\n", length)
	nicks := make([]string, 0, len(players))
	for n := range players {
		nicks = append(nicks, n)
	}
	sort.Strings(nicks)
	for _, n := range nicks {
		ps := players[n]
		fmt.Fprintf(&sb, "%s: %d actions, %d passes (%.3f%%), %d replaced\n",
			n, ps.actions, ps.passes, 100.0*float64(ps.passes)/float64(ps.actions), ps.repaired)
	}
	return sb.String(), nil
}
