package automatic

// Parallel computer vs computer games.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/0mar-rivero/domino/rules"
	"github.com/0mar-rivero/domino/stats"
	"github.com/0mar-rivero/domino/store"
)

var (
	CVCCounter *expvar.Int
	// IsPlaying reports the number of busy workers; it does not guard
	// anything.
	IsPlaying *expvar.Int
)

// running is set while a Play call is in progress.
var running atomic.Bool

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// LogHeader is the header row of the turn log.
var LogHeader = []string{"gameID", "game", "action", "player", "phase", "move", "repaired", "tilesleft"}

// Saver persists finished games; *store.Store is one.
type Saver interface {
	Save(ctx context.Context, g store.Game) error
}

type Options struct {
	Rules      *rules.Rules
	Strategies []string
	Teams      int
	Games      int
	Threads    int
	// Seed is the master seed; empty picks a fresh one.
	Seed string
	// TurnLog receives one CSV row per action when not nil.
	TurnLog io.Writer
	// Saver receives every finished game when not nil.
	Saver Saver
}

const histogramBins = 8

// Summary aggregates the games of a run.
type Summary struct {
	Preset string
	Seed   string
	Games  int
	// Wins counts games won per team.
	Wins         map[string]int
	Repaired     int
	Placements   stats.Sample
	Passes       stats.Sample
	LeftoverPips stats.Sample
}

func newSummary(preset, seed string) *Summary {
	return &Summary{Preset: preset, Seed: seed, Wins: map[string]int{}}
}

func (s *Summary) Add(g store.Game) {
	s.Games++
	if len(g.Ranking) > 0 {
		s.Wins[g.Ranking[0]]++
	}
	s.Repaired += g.Repaired
	s.Placements.Push(float64(g.Placements))
	s.Passes.Push(float64(g.Passes))
	s.LeftoverPips.Push(float64(g.LeftoverPips))
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Preset: %s\nSeed: %s\nGames played: %d\n", s.Preset, s.Seed, s.Games)
	teams := make([]string, 0, len(s.Wins))
	for t := range s.Wins {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	for _, t := range teams {
		fmt.Fprintf(&sb, "%s wins: %d (%.3f%%)\n", t, s.Wins[t],
			100.0*float64(s.Wins[t])/float64(max(s.Games, 1)))
	}
	fmt.Fprintf(&sb, "Placements: %v\n", &s.Placements)
	fmt.Fprintf(&sb, "Passes: %v\n", &s.Passes)
	fmt.Fprintf(&sb, "Pips left in hands: %v\n", &s.LeftoverPips)
	fmt.Fprintf(&sb, "Illegal choices replaced: %d\n", s.Repaired)
	if s.Games > 1 {
		sb.WriteString("Placements per game:\n")
		sb.WriteString(s.Placements.Histogram(histogramBins, 30))
	}
	return sb.String()
}

// Play runs opts.Games games over opts.Threads workers and waits for all of
// them. Cancelling ctx stops queueing games; the summary then covers the
// games that finished.
func Play(ctx context.Context, opts Options) (*Summary, error) {
	if !running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer running.Store(false)
	if opts.Seed == "" {
		opts.Seed = NewSeed()
	}
	threads := max(opts.Threads, 1)

	var logChan chan []string
	if opts.TurnLog != nil {
		logChan = make(chan []string, 100)
	}
	runner, err := NewGameRunner(opts.Rules, opts.Strategies, opts.Teams, opts.Seed, logChan)
	if err != nil {
		return nil, err
	}
	log.Info().Int("games", opts.Games).Int("threads", threads).Str("preset", opts.Rules.Preset.Name).
		Str("seed", opts.Seed).Msg("starting-games")

	CVCCounter.Set(0)
	summary := newSummary(opts.Rules.Preset.Name, opts.Seed)
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan store.Game, threads)

	g.Go(func() error {
		defer close(jobs)
		for i := range opts.Games {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
			if (i+1)%1000 == 0 {
				log.Info().Int("queued", i+1).Msg("queued-jobs")
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	workers.Add(threads)
	for range threads {
		g.Go(func() error {
			defer workers.Done()
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for i := range jobs {
				res, err := runner.PlayGame(gctx, i)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}
				CVCCounter.Add(1)
				results <- res
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(results)
		if logChan != nil {
			close(logChan)
		}
	}()

	var logErr error
	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		if logChan == nil {
			return
		}
		w := csv.NewWriter(opts.TurnLog)
		logErr = w.Write(LogHeader)
		for rec := range logChan {
			if logErr == nil {
				logErr = w.Write(rec)
			}
		}
		w.Flush()
		if logErr == nil {
			logErr = w.Error()
		}
		log.Debug().Msg("Exiting turn logger goroutine!")
	}()

	var saveErr error
	for res := range results {
		summary.Add(res)
		if opts.Saver != nil && saveErr == nil {
			// the run context may already be cancelled; keep what was played
			saveErr = opts.Saver.Save(context.WithoutCancel(ctx), res)
		}
	}
	<-logDone

	err = g.Wait()
	log.Info().Int("games", summary.Games).Msg("All games finished.")
	return summary, errors.Join(err, saveErr, logErr)
}
