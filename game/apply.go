package game

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var ErrIllegalAction = errors.New("illegal action")

// ActionIndex returns the index of a in the legal action list, or -1.
func (s *State) ActionIndex(a Action) int {
	return lo.IndexOf(s.Actions(), a)
}

// ApplyChecked applies a after verifying that it is currently legal.
func (s *State) ApplyChecked(a Action) error {
	if s.ActionIndex(a) < 0 {
		return fmt.Errorf("%w: %s", ErrIllegalAction, a)
	}
	s.Apply(a)
	return nil
}

// Apply plays a, which must come from the current legal action list, and re-derives everything that
// depends on the position.
func (s *State) Apply(a Action) {
	switch a.Kind {
	case Pass:
		s.turn = s.turn.Other()
		s.deriveActions()

	case Place:
		id := s.addPiece(s.turn, a.Piece, a.To)
		s.hands[s.turn][a.Piece]--
		if a.Piece == Queen {
			s.queens[s.turn] = id
		}
		s.addNeighborCount(a.To, s.turn, 1)
		s.turn = s.turn.Other()
		s.deriveCutPoints()
		// A placement beside a queen buried under the mover's beetle can finish the surround.
		s.deriveResult()
		s.deriveActions()

	case Move:
		s.move(a.From, a.To)
		s.turn = s.turn.Other()
		// The result decides whether the cut points are needed at all, and actions need current cut points.
		s.deriveResult()
		if s.result == NoResult {
			s.deriveCutPoints()
		}
		s.deriveActions()
	}
}

func (s *State) move(from, to Coords) {
	id := s.grid[from.Q][from.R]
	under := NoPiece
	for s.piece(id).Above != NoPiece {
		under = id
		id = s.piece(id).Above
	}

	mover := s.piece(id)
	mover.Coords = to
	s.addNeighborCount(from, mover.Player, -1)
	s.addNeighborCount(to, mover.Player, 1)

	if under != NoPiece {
		exposed := s.piece(under)
		exposed.Above = NoPiece
		s.addNeighborCount(from, exposed.Player, 1)
	} else {
		s.grid[from.Q][from.R] = NoPiece
	}

	if top := s.Top(to); top != NoPiece {
		buried := s.piece(top)
		buried.Above = id
		s.addNeighborCount(to, buried.Player, -1)
	} else {
		s.grid[to.Q][to.R] = id
	}
}
