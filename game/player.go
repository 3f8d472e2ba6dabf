package game

import (
	"fmt"
	"strings"
)

// Player is a seat in a match. The Strategy is what actually picks moves;
// the Judge never trusts its answer blindly.
type Player[T comparable] struct {
	ID       int
	Nickname string
	Strategy Strategy[T]
}

// NewPlayer creates a player.
func NewPlayer[T comparable](id int, nickname string, strat Strategy[T]) *Player[T] {
	return &Player[T]{ID: id, Nickname: nickname, Strategy: strat}
}

func (p *Player[T]) String() string {
	return fmt.Sprintf("%s(%d)", p.Nickname, p.ID)
}

// Team is a non-empty group of partners.
type Team[T comparable] struct {
	Name    string
	Players []*Player[T]
}

// NewTeam creates a team with the given players.
func NewTeam[T comparable](name string, players ...*Player[T]) *Team[T] {
	return &Team[T]{Name: name, Players: players}
}

// Has returns true if the player with the given id belongs to the team.
func (t *Team[T]) Has(playerID int) bool {
	for _, p := range t.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func (t *Team[T]) String() string {
	names := make([]string, len(t.Players))
	for i, p := range t.Players {
		names[i] = p.String()
	}
	return fmt.Sprintf("%s{%s}", t.Name, strings.Join(names, ", "))
}
