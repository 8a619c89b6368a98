package game

type PieceType uint8

const (
	Ant PieceType = iota
	Beetle
	Grasshopper
	Spider
	Queen
	NumPieceTypes = 5
)

// PieceTypeCounts is the number of pieces of each type a player starts with.
var PieceTypeCounts = [NumPieceTypes]int{3, 2, 3, 2, 1}

const (
	PlayerPieces = 11
	MaxPieces    = 2 * PlayerPieces
)

var pieceNames = [NumPieceTypes]string{"ant", "beetle", "grasshopper", "spider", "queen"}

func (t PieceType) String() string {
	if t >= NumPieceTypes {
		return "unknown"
	}
	return pieceNames[t]
}

// Letter is the lowercase letter used for t in action strings.
func (t PieceType) Letter() byte {
	return pieceChars[P2][t]
}

func PieceTypeFromLetter(b byte) (PieceType, bool) {
	for p := P1; p < NumPlayers; p++ {
		for t, c := range pieceChars[p] {
			if c == b {
				return PieceType(t), true
			}
		}
	}
	return 0, false
}

type Player uint8

const (
	P1 Player = iota
	P2
	NumPlayers = 2
)

func (p Player) Other() Player {
	return 1 - p
}

func (p Player) String() string {
	if p == P1 {
		return "1"
	}
	return "2"
}

// Player one's pieces are uppercase, player two's lowercase.
var pieceChars = [NumPlayers][NumPieceTypes]byte{
	{'A', 'B', 'G', 'S', 'Q'},
	{'a', 'b', 'g', 's', 'q'},
}

// PieceID identifies a piece by its slot in its owner's piece list. The zero value means no piece, which
// keeps the zero grid empty.
type PieceID uint8

const NoPiece PieceID = 0

func pieceID(p Player, i int) PieceID {
	return PieceID(int(p)*PlayerPieces + i + 1)
}

func (id PieceID) Player() Player {
	return Player((int(id) - 1) / PlayerPieces)
}

func (id PieceID) Index() int {
	return (int(id) - 1) % PlayerPieces
}

type Piece struct {
	Type   PieceType
	Player Player
	Coords Coords
	// Above is the piece stacked directly on this one.
	Above PieceID
}

func (p Piece) Char() byte {
	return pieceChars[p.Player][p.Type]
}

type Result uint8

const (
	NoResult Result = iota
	P1Win
	P2Win
	Draw
)

var resultNames = [...]string{"none", "p1 win", "p2 win", "draw"}

func (r Result) String() string {
	if int(r) >= len(resultNames) {
		return "unknown"
	}
	return resultNames[r]
}

// Winner returns the winning player, if any.
func (r Result) Winner() (Player, bool) {
	switch r {
	case P1Win:
		return P1, true
	case P2Win:
		return P2, true
	}
	return 0, false
}
