package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	g := Game{
		ID:           "abc",
		Preset:       "classic",
		Index:        3,
		Seed:         "seed",
		Fingerprint:  0xfedcba9876543210,
		Placements:   20,
		Passes:       4,
		Repaired:     1,
		LeftoverPips: 17,
		Ranking:      []string{"team-0", "team-1"},
		Board:        "[6|6] [6|1]",
		CreatedAt:    time.UnixMilli(1700000000000),
	}
	require.NoError(t, s.Save(ctx, g))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, g.Fingerprint, got.Fingerprint)
	assert.Equal(t, g.Ranking, got.Ranking)
	assert.True(t, g.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, g.Board, got.Board)
	assert.Equal(t, 17, got.LeftoverPips)

	_, err = s.Get(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListAndWins(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	base := time.UnixMilli(1700000000000)
	for i, w := range [][]string{{"a", "b"}, {"b", "a"}, {"a", "b"}, nil} {
		preset := "classic"
		if i == 3 {
			preset = "longana"
		}
		require.NoError(t, s.Save(ctx, Game{
			ID: string(rune('w' + i)), Preset: preset, Index: i,
			Ranking: w, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	games, err := s.List(ctx, "classic", 0)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{games[0].Index, games[1].Index, games[2].Index})

	games, err = s.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, games, 2)

	wins, err := s.Wins(ctx, "classic")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, wins)

	games, err = s.List(ctx, "longana", 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Empty(t, games[0].Ranking)
}

func TestIsBusy(t *testing.T) {
	assert.False(t, IsBusy(nil))
	assert.False(t, IsBusy(errors.New("database is locked")))
	assert.False(t, IsBusy(ErrNotFound))
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	s := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Save(ctx, Game{ID: "x", Preset: "classic", Ranking: []string{"a"}})
	require.Error(t, err)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
