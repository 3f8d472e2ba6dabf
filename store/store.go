// Package store keeps finished self-play games in a sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var ErrNotFound = errors.New("game not found")

// saveAttempts bounds how often a write is retried while another process
// holds the database lock.
const saveAttempts = 5

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id            TEXT PRIMARY KEY,
	preset        TEXT NOT NULL,
	game_index    INTEGER NOT NULL,
	seed          TEXT NOT NULL,
	fingerprint   TEXT NOT NULL,
	placements    INTEGER NOT NULL,
	passes        INTEGER NOT NULL,
	repaired      INTEGER NOT NULL,
	leftover_pips INTEGER NOT NULL,
	ranking       TEXT NOT NULL,
	board         TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS games_preset ON games (preset);
`

// Game is the record of one finished match.
type Game struct {
	ID          string
	Preset      string
	Index       int
	Seed        string
	Fingerprint uint64
	Placements  int
	Passes      int
	Repaired    int
	// LeftoverPips is the pip total still in hands when the game ended.
	LeftoverPips int
	// Ranking lists the team names from winner to last.
	Ranking   []string
	Board     string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (and creates, if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened-store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a game, replacing any game with the same id.
func (s *Store) Save(ctx context.Context, g Game) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	err := retry.Do(
		func() error {
			_, err := s.db.ExecContext(ctx, `
				INSERT OR REPLACE INTO games
				(id, preset, game_index, seed, fingerprint, placements, passes, repaired,
				 leftover_pips, ranking, board, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				g.ID, g.Preset, g.Index, g.Seed, strconv.FormatUint(g.Fingerprint, 16),
				g.Placements, g.Passes, g.Repaired, g.LeftoverPips,
				strings.Join(g.Ranking, ","), g.Board, g.CreatedAt.UnixMilli())
			return err
		},
		retry.Context(ctx),
		retry.Attempts(saveAttempts),
		retry.Delay(20*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsBusy),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Uint("attempt", n).Str("game", g.ID).Err(err).Msg("store-busy-retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("saving game %s: %w", g.ID, err)
	}
	return nil
}

// IsBusy is true for errors caused by another connection holding the
// database lock.
func IsBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

const columns = `id, preset, game_index, seed, fingerprint, placements, passes,
	repaired, leftover_pips, ranking, board, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (Game, error) {
	var g Game
	var fp, ranking string
	var created int64
	err := row.Scan(&g.ID, &g.Preset, &g.Index, &g.Seed, &fp, &g.Placements,
		&g.Passes, &g.Repaired, &g.LeftoverPips, &ranking, &g.Board, &created)
	if err != nil {
		return g, err
	}
	if g.Fingerprint, err = strconv.ParseUint(fp, 16, 64); err != nil {
		return g, fmt.Errorf("bad fingerprint %q: %w", fp, err)
	}
	if ranking != "" {
		g.Ranking = strings.Split(ranking, ",")
	}
	g.CreatedAt = time.UnixMilli(created)
	return g, nil
}

func (s *Store) Get(ctx context.Context, id string) (Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return g, err
}

// List returns the games of a preset in the order they were played. An
// empty preset lists every game. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, preset string, limit int) ([]Game, error) {
	q := `SELECT ` + columns + ` FROM games`
	var args []any
	if preset != "" {
		q += ` WHERE preset = ?`
		args = append(args, preset)
	}
	q += ` ORDER BY created_at, game_index`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Wins counts how many stored games of the preset each team won.
func (s *Store) Wins(ctx context.Context, preset string) (map[string]int, error) {
	games, err := s.List(ctx, preset, 0)
	if err != nil {
		return nil, err
	}
	wins := map[string]int{}
	for _, g := range games {
		if len(g.Ranking) > 0 {
			wins[g.Ranking[0]]++
		}
	}
	return wins, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}
