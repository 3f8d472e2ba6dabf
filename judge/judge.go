// Package judge drives a match from the deal to the end, asking each rule
// component for its decision along the way.
package judge

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/0mar-rivero/domino/game"
	"github.com/0mar-rivero/domino/move"
)

// Phase is the state of the judge's state machine.
type Phase uint8

const (
	NotStarted Phase = iota
	Opening
	Steady
	Finished
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Opening:
		return "opening"
	case Steady:
		return "steady"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("phase(%d)", p)
}

var (
	ErrAlreadyStarted  = errors.New("match already started")
	ErrDealtToStranger = errors.New("dealer dealt to a player outside the match")
)

// Action is what a player just did.
type Action[T comparable] struct {
	Player *game.Player[T]
	Move   move.Move[T]
	// Repaired is set when the strategy picked an illegal move and the
	// judge replaced it.
	Repaired bool
	// Phase is the phase the move was played in.
	Phase Phase
}

// Judge runs one match. The components can be shared between judges; the
// matcher bookkeeping of the match lives in the judge.
type Judge[T comparable] struct {
	generator game.Generator[T]
	dealer    game.Dealer[T]
	turner    game.Turner[T]
	matcher   game.Matcher[T]
	scorer    game.Scorer[T]
	finisher  game.Finisher[T]

	match    *game.Match[T]
	legality game.Legality[T]
	phase    Phase
}

func New[T comparable](generator game.Generator[T], dealer game.Dealer[T], turner game.Turner[T],
	mt game.Matcher[T], scorer game.Scorer[T], finisher game.Finisher[T]) *Judge[T] {

	return &Judge[T]{
		generator: generator,
		dealer:    dealer,
		turner:    turner,
		matcher:   mt,
		scorer:    scorer,
		finisher:  finisher,
	}
}

func (j *Judge[T]) Phase() Phase {
	return j.phase
}

// Start deals the hands.
func (j *Judge[T]) Start(m *game.Match[T]) error {
	if j.phase != NotStarted {
		return ErrAlreadyStarted
	}
	hands := j.dealer.Deal(m, j.generator.Generate())
	for id := range hands {
		if m.Player(id) == nil {
			return fmt.Errorf("player %d: %w", id, ErrDealtToStranger)
		}
	}
	for _, p := range m.Players() {
		m.SetHand(p.ID, hands[p.ID])
	}
	j.match = m
	j.legality = j.matcher.Bind(m)
	j.phase = Opening
	log.Debug().Str("match", m.ID()).Int("tiles", m.TotalTiles()).Msg("dealt")
	return nil
}

// Play returns the sequence of turns. Nothing happens until the caller asks
// for the next turn, and the caller may stop at any point. Calling Play
// again resumes the match with a fresh sequence from the turner.
func (j *Judge[T]) Play(m *game.Match[T]) iter.Seq[Action[T]] {
	return func(yield func(Action[T]) bool) {
		if j.phase == NotStarted || j.match != m {
			log.Error().Str("match", m.ID()).Msg("play-on-a-match-that-was-not-started")
			return
		}
		if j.phase == Finished {
			return
		}
		if j.phase == Opening && !j.anyoneCanOpen() {
			log.Debug().Str("match", m.ID()).Msg("nobody-can-open")
			j.phase = Finished
			return
		}
		for p := range j.turner.Players(m) {
			var act Action[T]
			switch j.phase {
			case Finished:
				return
			case Opening:
				legal := j.legality.LegalMoves(j.openingMoves(p.ID), j.scorer.TileScore)
				if len(legal) == 0 {
					continue
				}
				act = j.act(p, legal)
				j.phase = Steady
			case Steady:
				if j.finisher.IsOver(m) {
					j.finish()
					return
				}
				legal := j.legality.LegalMoves(j.allMoves(p.ID), j.scorer.TileScore)
				if len(legal) == 0 {
					log.Error().Str("match", m.ID()).Int("player", p.ID).Str("matcher", fmt.Sprint(j.matcher)).
						Msg("matcher-returned-no-moves")
					panic("matcher returned no legal moves, not even a pass")
				}
				act = j.act(p, legal)
			}
			if !yield(act) {
				return
			}
		}
		log.Debug().Str("match", m.ID()).Msg("turner-exhausted")
		j.finish()
	}
}

func (j *Judge[T]) finish() {
	j.phase = Finished
	log.Debug().Str("match", j.match.ID()).Int("moves", j.match.Board().Len()).Msg("finished")
}

func (j *Judge[T]) anyoneCanOpen() bool {
	for _, p := range j.match.Players() {
		if len(j.legality.LegalMoves(j.openingMoves(p.ID), j.scorer.TileScore)) > 0 {
			return true
		}
	}
	return false
}

// openingMoves puts every tile of the hand on the entry slot, both ways
// round. Opening moves never include a pass.
func (j *Judge[T]) openingMoves(playerID int) []move.Move[T] {
	var cands []move.Move[T]
	for _, t := range j.match.HandOf(playerID) {
		cands = append(cands, move.NewPlacementMove(playerID, move.EntrySlot, t.A, t.B))
		if !t.IsDouble() {
			cands = append(cands, move.NewPlacementMove(playerID, move.EntrySlot, t.B, t.A))
		}
	}
	return cands
}

// allMoves is a pass, then every tile of the hand both ways round on the
// entry slot and on every placement of the board.
func (j *Judge[T]) allMoves(playerID int) []move.Move[T] {
	turns := append([]int{move.EntrySlot}, j.match.Board().NonPassIndices()...)
	hand := j.match.HandOf(playerID)
	cands := make([]move.Move[T], 0, 1+2*len(hand)*len(turns))
	cands = append(cands, move.NewPassMove[T](playerID))
	for _, t := range hand {
		for _, turn := range turns {
			cands = append(cands, move.NewPlacementMove(playerID, turn, t.A, t.B))
			if !t.IsDouble() {
				cands = append(cands, move.NewPlacementMove(playerID, turn, t.B, t.A))
			}
		}
	}
	return cands
}

// act asks the player's strategy for a move, replaces it with the first
// legal move if it is not legal, and commits it.
func (j *Judge[T]) act(p *game.Player[T], legal []move.Move[T]) Action[T] {
	act := Action[T]{Player: p, Phase: j.phase}
	if p.Strategy == nil {
		act.Move = legal[0]
	} else {
		v := game.ViewFor(j.match, p.ID, j.scorer)
		act.Move = p.Strategy.Choose(slices.Clone(legal), v)
		if !slices.Contains(legal, act.Move) {
			log.Debug().Int("player", p.ID).Str("chosen", act.Move.String()).Msg("illegal-choice-replaced")
			act.Move = legal[0]
			act.Repaired = true
		}
	}
	j.commit(act.Move)
	log.Debug().Str("match", j.match.ID()).Int("player", p.ID).Str("move", act.Move.ShortDescription()).
		Str("phase", act.Phase.String()).Msg("played")
	return act
}

func (j *Judge[T]) commit(mv move.Move[T]) {
	m := j.match
	m.RecordMove(mv)
	if !mv.Pass && !m.RemoveFromHand(mv.PlayerID, mv.Tile()) {
		log.Error().Int("player", mv.PlayerID).Str("tile", mv.Tile().String()).Msg("tile-not-in-hand")
	}
	m.RecordValidTurns(j.legality.OpenPositions(mv.PlayerID))
}

// OpenPositions is what the matcher currently lets the player extend.
func (j *Judge[T]) OpenPositions(playerID int) []int {
	if j.legality == nil {
		return nil
	}
	return j.legality.OpenPositions(playerID)
}

// Winners ranks the teams, best first.
func (j *Judge[T]) Winners(m *game.Match[T]) []*game.Team[T] {
	return j.scorer.Winners(m)
}
