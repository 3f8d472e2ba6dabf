package automatic

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/0mar-rivero/domino/rules"
	"github.com/0mar-rivero/domino/store"
)

func compiled(t *testing.T, name string) *rules.Rules {
	t.Helper()
	p, err := rules.Lookup(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := p.Compile()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

var lineup = []string{"greedy", "random", "smart", "first"}

func TestGameSeed(t *testing.T) {
	is := is.New(t)
	is.Equal(len(GameSeed("abc", 0)), 32)
	is.Equal(GameSeed("abc", 3), GameSeed("abc", 3))
	is.True(!bytes.Equal(GameSeed("abc", 3), GameSeed("abc", 4)))
	is.True(!bytes.Equal(GameSeed("abc", 3), GameSeed("abd", 3)))
	is.True(NewSeed() != NewSeed())
}

func TestNewGameRunner(t *testing.T) {
	is := is.New(t)
	r := compiled(t, "classic")
	_, err := NewGameRunner(r, []string{"greedy"}, 2, "s", nil)
	is.True(err != nil)
	_, err = NewGameRunner(r, []string{"greedy", "nope"}, 2, "s", nil)
	is.True(err != nil)
	// 5 players with 7 tiles each do not fit in a double-six set
	_, err = NewGameRunner(r, []string{"first", "first", "first", "first", "first"}, 5, "s", nil)
	is.True(err != nil)

	runner, err := NewGameRunner(r, lineup, 2, "s", nil)
	is.NoErr(err)
	m, err := runner.NewMatch(nil)
	is.NoErr(err)
	is.Equal(len(m.Teams()), 2)
	is.True(m.ArePartners(0, 2))
	is.True(!m.ArePartners(0, 1))
	is.Equal(m.TeamOf(3).Name, TeamName(1))
}

func TestPlayGameIsReproducible(t *testing.T) {
	is := is.New(t)
	runner, err := NewGameRunner(compiled(t, "classic"), lineup, 2, "fixed-seed", nil)
	is.NoErr(err)

	a, err := runner.PlayGame(context.Background(), 7)
	is.NoErr(err)
	b, err := runner.PlayGame(context.Background(), 7)
	is.NoErr(err)
	is.True(a.ID != b.ID)
	is.Equal(a.Fingerprint, b.Fingerprint)
	is.Equal(a.Board, b.Board)
	is.Equal(a.Ranking, b.Ranking)
	is.Equal(a.Placements, b.Placements)
	is.True(a.Placements > 0)
	is.Equal(a.Preset, "classic")
}

type memSaver struct {
	games []store.Game
}

func (s *memSaver) Save(_ context.Context, g store.Game) error {
	s.games = append(s.games, g)
	return nil
}

func TestPlay(t *testing.T) {
	is := is.New(t)
	var turnLog bytes.Buffer
	saver := &memSaver{}
	summary, err := Play(context.Background(), Options{
		Rules:      compiled(t, "longana"),
		Strategies: lineup,
		Teams:      2,
		Games:      20,
		Threads:    3,
		Seed:       "run",
		TurnLog:    &turnLog,
		Saver:      saver,
	})
	is.NoErr(err)
	is.Equal(summary.Games, 20)
	is.Equal(len(saver.games), 20)
	is.Equal(summary.Placements.Len(), 20)
	is.Equal(summary.Seed, "run")
	is.Equal(summary.Repaired, 0) // every strategy answers with a legal move
	wins := 0
	for _, w := range summary.Wins {
		wins += w
	}
	is.Equal(wins, 20)
	is.True(strings.Contains(summary.String(), "Placements per game"))

	recs, err := csv.NewReader(bytes.NewReader(turnLog.Bytes())).ReadAll()
	is.NoErr(err)
	is.Equal(recs[0], LogHeader)
	is.True(len(recs) > 20)

	out, err := AnalyzeLog(bytes.NewReader(turnLog.Bytes()))
	is.NoErr(err)
	is.True(bytes.Contains([]byte(out), []byte("Games played: 20")))
	is.True(bytes.Contains([]byte(out), []byte("p0-greedy")))
}

func TestPlayIntoStore(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "games.db"))
	is.NoErr(err)
	defer s.Close()

	_, err = Play(ctx, Options{
		Rules:      compiled(t, "parity"),
		Strategies: lineup,
		Teams:      2,
		Games:      5,
		Threads:    2,
		Saver:      s,
	})
	is.NoErr(err)
	n, err := s.Count(ctx)
	is.NoErr(err)
	is.Equal(n, 5)
}

func TestPlayCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := Play(ctx, Options{
		Rules:      compiled(t, "classic"),
		Strategies: lineup,
		Teams:      2,
		Games:      1000,
		Threads:    2,
	})
	is.NoErr(err)
	is.True(summary.Games < 1000)
}

// blockingSaver holds the first save until release is closed.
type blockingSaver struct {
	saving  chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSaver) Save(ctx context.Context, g store.Game) error {
	b.once.Do(func() { close(b.saving) })
	<-b.release
	return nil
}

func TestPlayRejectsConcurrentRuns(t *testing.T) {
	is := is.New(t)
	saver := &blockingSaver{saving: make(chan struct{}), release: make(chan struct{})}
	opts := Options{
		Rules:      compiled(t, "classic"),
		Strategies: lineup,
		Teams:      2,
		Games:      3,
		Threads:    1,
		Saver:      saver,
	}
	done := make(chan error, 1)
	go func() {
		_, err := Play(context.Background(), opts)
		done <- err
	}()
	<-saver.saving

	_, err := Play(context.Background(), opts)
	is.True(errors.Is(err, ErrAlreadyPlaying))

	close(saver.release)
	is.NoErr(<-done)

	opts.Saver = nil
	summary, err := Play(context.Background(), opts)
	is.NoErr(err)
	is.Equal(summary.Games, 3)
}

func TestAnalyzeLogRejectsOtherFiles(t *testing.T) {
	is := is.New(t)
	_, err := AnalyzeLog(bytes.NewBufferString("gameID,p1score,p2score\n1,2,3\n"))
	is.True(err != nil)
}
