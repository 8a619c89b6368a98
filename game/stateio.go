package game

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// ParseError reports malformed state, action or piece strings.
type ParseError struct {
	Input    string
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at position %d: %s", e.Input, e.Position, e.Reason)
}

// coordLimit is the number of coordinate letters, 'a' to 'x'.
const coordLimit = 24

func coordChar(v uint8) byte {
	return 'a' + v
}

func parseCoords(s string, pos int) (Coords, error) {
	var v [2]uint8
	for i := range v {
		if pos+i >= len(s) {
			return Coords{}, &ParseError{Input: s, Position: pos + i, Reason: "missing coordinate"}
		}
		c := s[pos+i]
		if c < 'a' || c >= 'a'+coordLimit {
			return Coords{}, &ParseError{Input: s, Position: pos + i, Reason: fmt.Sprintf("bad coordinate %q", s[pos+i])}
		}
		v[i] = c - 'a'
	}
	return Coords{Q: v[0], R: v[1]}, nil
}

func pieceFromChar(b byte) (Player, PieceType, bool) {
	for p := P1; p < NumPlayers; p++ {
		for t, c := range pieceChars[p] {
			if c == b {
				return p, PieceType(t), true
			}
		}
	}
	return 0, 0, false
}

// Parse reads a state string: 3-character piece records followed by the turn, '1' or '2'. Pieces listed
// later on an occupied cell are stacked on top. The empty string is the initial position.
func Parse(s string) (*State, error) {
	st := &State{}
	if s == "" {
		st.derive()
		return st, nil
	}

	var placed [NumPlayers][NumPieceTypes]int
	i := 0
	for ; i < len(s) && s[i] != '1' && s[i] != '2'; i += 3 {
		p, t, ok := pieceFromChar(s[i])
		if !ok {
			return nil, &ParseError{Input: s, Position: i, Reason: fmt.Sprintf("unknown piece %q", s[i])}
		}
		c, err := parseCoords(s, i+1)
		if err != nil {
			return nil, err
		}
		if placed[p][t] == PieceTypeCounts[t] {
			return nil, &ParseError{Input: s, Position: i, Reason: fmt.Sprintf("too many %ss for player %s", t, p)}
		}
		if st.Occupied(c) && t != Beetle {
			return nil, &ParseError{Input: s, Position: i, Reason: fmt.Sprintf("%s stacked on an occupied cell", t)}
		}
		placed[p][t]++
		st.addPiece(p, t, c)
	}

	if i >= len(s) {
		return nil, &ParseError{Input: s, Position: len(s), Reason: "missing turn"}
	}
	if i != len(s)-1 {
		return nil, &ParseError{Input: s, Position: i + 1, Reason: "trailing characters after turn"}
	}
	st.turn = P1
	if s[i] == '2' {
		st.turn = P2
	}

	st.derive()
	return st, nil
}

// String serializes the normalized position.
func (s *State) String() string {
	return s.Normalize().encode()
}

func (s *State) encode() string {
	var b strings.Builder
	b.Grow(3*s.orderCount + 1)
	for _, id := range s.order[:s.orderCount] {
		c := s.piece(id).Coords
		if s.grid[c.Q][c.R] != id {
			continue
		}
		for ; id != NoPiece; id = s.piece(id).Above {
			p := s.piece(id)
			b.WriteByte(p.Char())
			b.WriteByte(coordChar(p.Coords.Q))
			b.WriteByte(coordChar(p.Coords.R))
		}
	}
	b.WriteString(s.turn.String())
	return b.String()
}

// normalizationGap is the number of empty rows and columns kept before the first piece, so that every
// neighbouring cell still has a coordinate letter.
const normalizationGap = 1

// NormalOffset returns the translation Normalize applies to s.
func (s *State) NormalOffset() (dq, dr int) {
	if s.orderCount == 0 {
		return 0, 0
	}
	var rows, cols [GridSize]bool
	for _, id := range s.order[:s.orderCount] {
		c := s.piece(id).Coords
		cols[c.Q] = true
		rows[c.R] = true
	}
	return normalizationGap - axisStart(cols), normalizationGap - axisStart(rows)
}

// Normalize returns a copy translated so that the occupied rows and columns start at normalizationGap with
// no wraparound.
func (s *State) Normalize() *State {
	dq, dr := s.NormalOffset()
	n := s.Clone()
	if dq == 0 && dr == 0 {
		return n
	}
	for p := P1; p < NumPlayers; p++ {
		for i := range n.pieces[p][:n.pieceCount[p]] {
			n.pieces[p][i].Coords = n.pieces[p][i].Coords.Translate(dq, dr)
		}
	}
	n.derive()
	return n
}

// NormalizeAction expresses a, an action of s, in the coordinates of s.Normalize().
func (s *State) NormalizeAction(a Action) Action {
	return a.Translate(s.NormalOffset())
}

// axisStart finds the first occupied value after the longest cyclic run of empty values.
func axisStart(occupied [GridSize]bool) int {
	best, bestLen := 0, -1
	for v := 0; v < GridSize; v++ {
		if !occupied[v] || occupied[(v+GridSize-1)%GridSize] {
			continue
		}
		gap := 0
		for g := (v + GridSize - 1) % GridSize; !occupied[g] && gap < GridSize; g = (g + GridSize - 1) % GridSize {
			gap++
		}
		if gap > bestLen {
			best, bestLen = v, gap
		}
	}
	return best
}

// Hash identifies the normalized position.
func (s *State) Hash() StateHash {
	return StateHash(xxhash.Sum64String(s.String()))
}
