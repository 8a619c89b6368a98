package uhp

import (
	"errors"
	"fmt"
	"strings"

	"hive/game"
)

var ErrInvalidMove = errors.New("invalid move")

const PassMove = "pass"

var (
	playerChars = [game.NumPlayers]byte{'w', 'b'}
	typeChars   = [game.NumPieceTypes]byte{'A', 'B', 'G', 'S', 'Q'}
	// UHP draws pointy-top hexes while the board is flat-top, so the six directions collapse onto three
	// separators that appear after the reference piece for the northern half and before it otherwise.
	directionChars = [game.NumDirections]byte{'/', '-', '\\', '/', '-', '\\'}
)

func suffixDirection(d game.Direction) bool {
	return d == game.North || d == game.NorthEast || d == game.SouthEast
}

func pieceString(p game.Player, t game.PieceType, ordinal int) string {
	if t == game.Queen {
		return string([]byte{playerChars[p], typeChars[t]})
	}
	return fmt.Sprintf("%c%c%d", playerChars[p], typeChars[t], ordinal)
}

// ordinal is the 1-based position of id among its owner's pieces of the same type.
func ordinal(state *game.State, id game.PieceID) int {
	piece := state.Piece(id)
	n := 0
	for i, p := range state.Pieces(id.Player()) {
		if p.Type == piece.Type {
			n++
		}
		if i == id.Index() {
			break
		}
	}
	return n
}

func placed(state *game.State, p game.Player, t game.PieceType) int {
	n := 0
	for _, piece := range state.Pieces(p) {
		if piece.Type == t {
			n++
		}
	}
	return n
}

func topString(state *game.State, c game.Coords) string {
	id := state.Top(c)
	return pieceString(id.Player(), state.Piece(id).Type, ordinal(state, id))
}

// MoveString formats a legal action of state in UHP notation.
func MoveString(state *game.State, a game.Action) string {
	if a.IsPass() {
		return PassMove
	}

	var mover string
	if a.IsPlace() {
		mover = pieceString(state.Turn(), a.Piece, placed(state, state.Turn(), a.Piece)+1)
	} else {
		mover = topString(state, a.From)
	}

	if state.PieceCount(game.P1)+state.PieceCount(game.P2) == 0 {
		return mover
	}
	if state.Occupied(a.To) {
		return mover + " " + topString(state, a.To)
	}

	for d := game.Direction(0); d < game.NumDirections; d++ {
		ref := a.To.Step(d)
		if !state.Occupied(ref) || (a.IsMove() && ref == a.From && state.Height(ref) == 1) {
			continue
		}
		refString := topString(state, ref)
		if a.IsMove() && ref == a.From {
			// The mover is the top of this stack, so name the piece it leaves behind.
			id := underTop(state, ref)
			refString = pieceString(id.Player(), state.Piece(id).Type, ordinal(state, id))
		}
		if suffixDirection(d) {
			return mover + " " + refString + string(directionChars[d])
		}
		return mover + " " + string(directionChars[d]) + refString
	}
	return mover
}

// underTop returns the piece directly below the top of a stack of height two or more.
func underTop(state *game.State, c game.Coords) game.PieceID {
	id := state.Bottom(c)
	for {
		above := state.Piece(id).Above
		if state.Piece(above).Above == game.NoPiece {
			return id
		}
		id = above
	}
}

func parsePiece(s string) (game.Player, game.PieceType, int, error) {
	if len(s) < 2 || len(s) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: bad piece %q", ErrInvalidMove, s)
	}

	var p game.Player
	switch s[0] {
	case playerChars[game.P1]:
		p = game.P1
	case playerChars[game.P2]:
		p = game.P2
	default:
		return 0, 0, 0, fmt.Errorf("%w: bad color in %q", ErrInvalidMove, s)
	}

	t := game.PieceType(strings.IndexByte(string(typeChars[:]), s[1]))
	if t >= game.NumPieceTypes {
		return 0, 0, 0, fmt.Errorf("%w: bad bug in %q", ErrInvalidMove, s)
	}

	n := 1
	if t == game.Queen {
		if len(s) != 2 {
			return 0, 0, 0, fmt.Errorf("%w: numbered queen %q", ErrInvalidMove, s)
		}
	} else {
		if len(s) != 3 || s[2] < '1' || int(s[2]-'0') > game.PieceTypeCounts[t] {
			return 0, 0, 0, fmt.Errorf("%w: bad number in %q", ErrInvalidMove, s)
		}
		n = int(s[2] - '0')
	}
	return p, t, n, nil
}

func findPiece(state *game.State, p game.Player, t game.PieceType, n int) (game.Piece, bool) {
	for _, piece := range state.Pieces(p) {
		if piece.Type != t {
			continue
		}
		if n--; n == 0 {
			return piece, true
		}
	}
	return game.Piece{}, false
}

// ParseMoveString resolves a UHP move string to the legal action of state it names.
func ParseMoveString(state *game.State, s string) (game.Action, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, PassMove) {
		return findAction(state, game.PassAction(), s)
	}

	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return game.Action{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	p, t, n, err := parsePiece(fields[0])
	if err != nil {
		return game.Action{}, err
	}

	var a game.Action
	if piece, ok := findPiece(state, p, t, n); ok {
		if piece.Above != game.NoPiece {
			return game.Action{}, fmt.Errorf("%w: %s is covered", ErrInvalidMove, fields[0])
		}
		a = game.MoveAction(piece.Coords, game.Coords{})
	} else if p == state.Turn() && n == placed(state, p, t)+1 {
		a = game.PlaceAction(t, game.Coords{})
	} else {
		return game.Action{}, fmt.Errorf("%w: %s cannot move", ErrInvalidMove, fields[0])
	}

	if len(fields) == 1 {
		if state.PieceCount(game.P1)+state.PieceCount(game.P2) > 0 {
			return game.Action{}, fmt.Errorf("%w: %q needs a reference piece", ErrInvalidMove, s)
		}
		return findAction(state, a, s)
	}

	ref, d, err := parseReference(fields[1])
	if err != nil {
		return game.Action{}, err
	}
	rp, rt, rn, err := parsePiece(ref)
	if err != nil {
		return game.Action{}, err
	}
	refPiece, ok := findPiece(state, rp, rt, rn)
	if !ok {
		return game.Action{}, fmt.Errorf("%w: %s is not in play", ErrInvalidMove, ref)
	}

	a.To = refPiece.Coords
	if d >= 0 {
		a.To = refPiece.Coords.Step(d.Opposite())
	}
	return findAction(state, a, s)
}

// parseReference splits the separator off a reference, returning the direction from the destination to the
// reference piece, or -1 for a move on top of it.
func parseReference(s string) (string, game.Direction, error) {
	if s == "" {
		return "", 0, fmt.Errorf("%w: empty reference", ErrInvalidMove)
	}
	if i := strings.IndexByte("/-\\", s[0]); i >= 0 {
		return s[1:], game.Direction(i).Rotate(3), nil
	}
	if i := strings.IndexByte("/-\\", s[len(s)-1]); i >= 0 {
		return s[:len(s)-1], game.Direction(i), nil
	}
	return s, -1, nil
}

func findAction(state *game.State, a game.Action, s string) (game.Action, error) {
	for _, legal := range state.Actions() {
		if legal == a {
			return legal, nil
		}
	}
	return game.Action{}, fmt.Errorf("%w: %q is not legal", ErrInvalidMove, s)
}
