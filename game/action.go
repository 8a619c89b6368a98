package game

import "fmt"

type ActionKind uint8

const (
	Pass ActionKind = iota
	Place
	Move
)

// Action is a pass, a placement of a piece type at To, or a move of the top piece at From to To.
type Action struct {
	Kind  ActionKind
	Piece PieceType
	From  Coords
	To    Coords
}

// PassString is the action string of a pass.
const PassString = "zzzz"

func PassAction() Action {
	return Action{Kind: Pass}
}

func PlaceAction(t PieceType, to Coords) Action {
	return Action{Kind: Place, Piece: t, To: to}
}

func MoveAction(from, to Coords) Action {
	return Action{Kind: Move, From: from, To: to}
}

func (a Action) IsPass() bool  { return a.Kind == Pass }
func (a Action) IsPlace() bool { return a.Kind == Place }
func (a Action) IsMove() bool  { return a.Kind == Move }

// String encodes a as four characters: "<from><to>" for moves, "+<type><to>" for placements and PassString
// for a pass. Coordinates are written as 'a'+value, so the state should be normalized first.
func (a Action) String() string {
	switch a.Kind {
	case Place:
		return string([]byte{'+', a.Piece.Letter(), coordChar(a.To.Q), coordChar(a.To.R)})
	case Move:
		return string([]byte{coordChar(a.From.Q), coordChar(a.From.R), coordChar(a.To.Q), coordChar(a.To.R)})
	}
	return PassString
}

// Translate shifts the coordinates of a move or placement.
func (a Action) Translate(dq, dr int) Action {
	switch a.Kind {
	case Move:
		a.From = a.From.Translate(dq, dr)
		a.To = a.To.Translate(dq, dr)
	case Place:
		a.To = a.To.Translate(dq, dr)
	}
	return a
}

func ParseAction(s string) (Action, error) {
	if len(s) != 4 {
		return Action{}, &ParseError{Input: s, Position: min(len(s), 4), Reason: "action must be 4 characters"}
	}
	if s == PassString {
		return PassAction(), nil
	}

	to, err := parseCoords(s, 2)
	if err != nil {
		return Action{}, err
	}
	if s[0] == '+' {
		t, ok := PieceTypeFromLetter(s[1])
		if !ok {
			return Action{}, &ParseError{Input: s, Position: 1, Reason: fmt.Sprintf("unknown piece type %q", s[1])}
		}
		return PlaceAction(t, to), nil
	}

	from, err := parseCoords(s, 0)
	if err != nil {
		return Action{}, err
	}
	return MoveAction(from, to), nil
}
