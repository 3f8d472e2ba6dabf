// Package game contains the state of a single domino match and the contracts
// of the rule components that act on it.
package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/0mar-rivero/domino/board"
	"github.com/0mar-rivero/domino/move"
	"github.com/0mar-rivero/domino/tile"
)

// UnknownPlayer is returned by TileCountOf for a player id that is not part
// of the match.
const UnknownPlayer = -1

var (
	ErrTurnNotRecorded = errors.New("no valid turns recorded for that turn")
	ErrEmptyTeam       = errors.New("team has no players")
	ErrDuplicatePlayer = errors.New("player belongs to more than one team")
	ErrNoTeams         = errors.New("a match needs at least one team")
)

// Match is the state of one match: the board, the hand of every player,
// the team partition, and the history of valid turns recorded after each
// move. It is not safe for concurrent use; a match is driven by one
// goroutine.
type Match[T comparable] struct {
	uid     string
	board   *board.Board[T]
	teams   []*Team[T]
	players []*Player[T]

	playerIdx map[int]int
	teamIdx   map[int]int
	hands     map[int]tile.Hand[T]
	// validTurns[k] holds the positions that were open after the k-th
	// recorded move.
	validTurns [][]int
}

// NewMatch validates the team partition and creates an empty match.
func NewMatch[T comparable](teams ...*Team[T]) (*Match[T], error) {
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}
	m := &Match[T]{
		uid:       uuid.New().String(),
		board:     board.New[T](),
		teams:     slices.Clone(teams),
		playerIdx: make(map[int]int),
		teamIdx:   make(map[int]int),
		hands:     make(map[int]tile.Hand[T]),
	}
	for ti, t := range teams {
		if t == nil || len(t.Players) == 0 {
			return nil, fmt.Errorf("team %d: %w", ti, ErrEmptyTeam)
		}
		for _, p := range t.Players {
			if _, ok := m.playerIdx[p.ID]; ok {
				return nil, fmt.Errorf("player %d: %w", p.ID, ErrDuplicatePlayer)
			}
			m.playerIdx[p.ID] = len(m.players)
			m.teamIdx[p.ID] = ti
			m.players = append(m.players, p)
		}
	}
	log.Debug().Str("match", m.uid).Int("players", len(m.players)).
		Int("teams", len(teams)).Msg("created-match")
	return m, nil
}

// ID is a unique identifier for this match.
func (m *Match[T]) ID() string {
	return m.uid
}

func (m *Match[T]) Board() *board.Board[T] {
	return m.board
}

// Players returns every player, team by team. The slice is a copy.
func (m *Match[T]) Players() []*Player[T] {
	return slices.Clone(m.players)
}

// Teams returns the teams in match order. The slice is a copy.
func (m *Match[T]) Teams() []*Team[T] {
	return slices.Clone(m.teams)
}

// Player returns the player with the given id, or nil.
func (m *Match[T]) Player(id int) *Player[T] {
	idx, ok := m.playerIdx[id]
	if !ok {
		return nil
	}
	return m.players[idx]
}

// SetHand installs the dealt hand of a player. It keeps a copy.
func (m *Match[T]) SetHand(playerID int, h tile.Hand[T]) {
	m.hands[playerID] = h.Clone()
}

// RecordMove appends a move to the board.
func (m *Match[T]) RecordMove(mv move.Move[T]) {
	m.board.Append(mv)
}

// RemoveFromHand takes the tile out of the player's hand. It returns false
// if the player is unknown or does not hold the tile.
func (m *Match[T]) RemoveFromHand(playerID int, t tile.Tile[T]) bool {
	h, ok := m.hands[playerID]
	if !ok {
		return false
	}
	if !h.Remove(t) {
		return false
	}
	m.hands[playerID] = h
	return true
}

// RecordValidTurns appends a copy of the given positions to the valid turns
// history, under the next sequential counter.
func (m *Match[T]) RecordValidTurns(turns []int) {
	c := make([]int, len(turns))
	copy(c, turns)
	m.validTurns = append(m.validTurns, c)
}

// PassesInfo returns the positions recorded at the given turn counter.
func (m *Match[T]) PassesInfo(turn int) ([]int, error) {
	if turn < 0 || turn >= len(m.validTurns) {
		return nil, fmt.Errorf("turn %d: %w", turn, ErrTurnNotRecorded)
	}
	c := make([]int, len(m.validTurns[turn]))
	copy(c, m.validTurns[turn])
	return c, nil
}

// RecordedTurns is the number of valid-turn snapshots recorded so far.
func (m *Match[T]) RecordedTurns() int {
	return len(m.validTurns)
}

// HandOf returns a copy of the player's remaining tiles. It is empty for
// an unknown player.
func (m *Match[T]) HandOf(playerID int) tile.Hand[T] {
	return m.hands[playerID].Clone()
}

// TileCountOf returns how many tiles the player holds, or UnknownPlayer.
func (m *Match[T]) TileCountOf(playerID int) int {
	if _, ok := m.playerIdx[playerID]; !ok {
		return UnknownPlayer
	}
	return m.hands[playerID].Len()
}

// TeamOf returns the team of the player, or nil if the player is unknown.
func (m *Match[T]) TeamOf(playerID int) *Team[T] {
	ti, ok := m.teamIdx[playerID]
	if !ok {
		return nil
	}
	return m.teams[ti]
}

// ArePartners is true if both players are known and in the same team.
func (m *Match[T]) ArePartners(p1, p2 int) bool {
	t1, ok1 := m.teamIdx[p1]
	t2, ok2 := m.teamIdx[p2]
	return ok1 && ok2 && t1 == t2
}

// AllHands returns every tile still held, player by player in match
// order.
func (m *Match[T]) AllHands() []tile.Tile[T] {
	var all []tile.Tile[T]
	for _, p := range m.players {
		all = append(all, m.hands[p.ID]...)
	}
	return all
}

// TilesInHands is the total number of tiles still held by all players.
func (m *Match[T]) TilesInHands() int {
	ct := 0
	for _, h := range m.hands {
		ct += h.Len()
	}
	return ct
}

// TotalTiles is the number of tiles dealt in this match. It stays constant
// for the whole match: tiles only ever move from a hand to the board.
func (m *Match[T]) TotalTiles() int {
	return m.TilesInHands() + m.board.Placements()
}

// HasEmptyHand returns the first player, in match order, whose hand is empty.
func (m *Match[T]) HasEmptyHand() (*Player[T], bool) {
	if len(m.hands) == 0 {
		return nil, false
	}
	for _, p := range m.players {
		if m.hands[p.ID].IsEmpty() {
			return p, true
		}
	}
	return nil, false
}
