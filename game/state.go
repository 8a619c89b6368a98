package game

// MaxActions bounds the number of legal actions in a single position.
const MaxActions = 512

// Sublist names a classification of the legal actions that search uses as a bias signal.
type Sublist int

const (
	QueenMoves Sublist = iota
	// QueenAwayMoves free a cell next to the mover's nearly surrounded queen.
	QueenAwayMoves
	// QueenAdjacentActions arrive next to the opponent queen from elsewhere.
	QueenAdjacentActions
	// QueenNearbyActions arrive within two cells of the opponent queen from further away.
	QueenNearbyActions
	// PinMoves go into a pocket touching exactly one opponent piece and none of the mover's.
	PinMoves
	// QueenPinMoves are pin moves whose pinned piece is a queen.
	QueenPinMoves
	// UnpinMoves leave a pocket touching exactly one of the mover's pieces and no opponent piece.
	UnpinMoves
	BeetleMoves
	numSublists
)

type indexList struct {
	n   int
	idx [MaxActions]uint16
}

func (l *indexList) add(i int) {
	l.idx[l.n] = uint16(i)
	l.n++
}

// State is a Hive position. Pieces are stored in fixed per-player lists and reference each other by
// PieceID, so a plain value copy is a complete independent copy.
type State struct {
	turn   Player
	result Result

	pieces     [NumPlayers][PlayerPieces]Piece
	pieceCount [NumPlayers]int
	// order lists pieces in the order they entered the state; serialization keeps it.
	order      [MaxPieces]PieceID
	orderCount int

	queens [NumPlayers]PieceID
	hands  [NumPlayers][NumPieceTypes]int

	// grid holds the bottom piece of every occupied cell; stacks continue through Piece.Above.
	grid          [GridSize][GridSize]PieceID
	neighbors     [NumPlayers][GridSize][GridSize]uint8
	cutPoints     [GridSize][GridSize]bool
	cutPointCount [NumPlayers]int

	actions     [MaxActions]Action
	actionCount int
	// winning is the index of the forced winning action plus one, or zero.
	winning  int
	sublists [numSublists]indexList
}

// New returns the initial position: no pieces, player one to move.
func New() *State {
	s := &State{}
	s.derive()
	return s
}

func (s *State) Clone() *State {
	c := *s
	return &c
}

func (s *State) Turn() Player   { return s.turn }
func (s *State) Result() Result { return s.result }

// Actions returns the legal actions. The slice aliases the state and is only valid until the next Apply.
func (s *State) Actions() []Action {
	return s.actions[:s.actionCount]
}

func (s *State) Action(i int) Action {
	return s.actions[i]
}

func (s *State) ActionCount() int {
	return s.actionCount
}

// WinningAction returns the index of an action that surrounds the opponent queen right away.
func (s *State) WinningAction() (int, bool) {
	return s.winning - 1, s.winning > 0
}

// Sublist returns the action indexes classified under l.
func (s *State) Sublist(l Sublist) []uint16 {
	list := &s.sublists[l]
	return list.idx[:list.n]
}

func (s *State) PieceCount(p Player) int {
	return s.pieceCount[p]
}

// Pieces returns p's placed pieces in placement order.
func (s *State) Pieces(p Player) []Piece {
	return s.pieces[p][:s.pieceCount[p]]
}

func (s *State) Piece(id PieceID) Piece {
	return *s.piece(id)
}

func (s *State) piece(id PieceID) *Piece {
	return &s.pieces[id.Player()][id.Index()]
}

// Queen returns p's queen if it has been placed.
func (s *State) Queen(p Player) (Piece, bool) {
	if s.queens[p] == NoPiece {
		return Piece{}, false
	}
	return *s.piece(s.queens[p]), true
}

func (s *State) Hand(p Player, t PieceType) int {
	return s.hands[p][t]
}

// Bottom returns the lowest piece at c.
func (s *State) Bottom(c Coords) PieceID {
	return s.grid[c.Q][c.R]
}

// Top returns the piece on top of the stack at c.
func (s *State) Top(c Coords) PieceID {
	id := s.grid[c.Q][c.R]
	if id == NoPiece {
		return NoPiece
	}
	for s.piece(id).Above != NoPiece {
		id = s.piece(id).Above
	}
	return id
}

// PieceAt returns the visible piece at c.
func (s *State) PieceAt(c Coords) (Piece, bool) {
	id := s.Top(c)
	if id == NoPiece {
		return Piece{}, false
	}
	return *s.piece(id), true
}

func (s *State) Occupied(c Coords) bool {
	return s.grid[c.Q][c.R] != NoPiece
}

// Height is the number of pieces stacked at c.
func (s *State) Height(c Coords) int {
	h := 0
	for id := s.grid[c.Q][c.R]; id != NoPiece; id = s.piece(id).Above {
		h++
	}
	return h
}

// NeighborCount is the number of cells around c whose top piece belongs to p.
func (s *State) NeighborCount(p Player, c Coords) int {
	return int(s.neighbors[p][c.Q][c.R])
}

// HexNeighborCount is the number of occupied cells around c.
func (s *State) HexNeighborCount(c Coords) int {
	return int(s.neighbors[P1][c.Q][c.R]) + int(s.neighbors[P2][c.Q][c.R])
}

func (s *State) CutPoint(c Coords) bool {
	return s.cutPoints[c.Q][c.R]
}

// CutPointCount is the number of cut point cells whose bottom piece belongs to p.
func (s *State) CutPointCount(p Player) int {
	return s.cutPointCount[p]
}

// addPiece appends a piece of type t for p at c, stacking it on top of whatever is there.
func (s *State) addPiece(p Player, t PieceType, c Coords) PieceID {
	id := pieceID(p, s.pieceCount[p])
	s.pieces[p][s.pieceCount[p]] = Piece{Type: t, Player: p, Coords: c}
	s.pieceCount[p]++
	s.order[s.orderCount] = id
	s.orderCount++

	if top := s.Top(c); top != NoPiece {
		s.piece(top).Above = id
	} else {
		s.grid[c.Q][c.R] = id
	}
	return id
}

// derive recomputes everything that follows from the piece lists and the turn.
func (s *State) derive() {
	s.deriveGrid()
	s.deriveCutPoints()
	s.deriveQueens()
	s.deriveHands()
	s.deriveNeighborCounts()
	s.deriveResult()
	s.deriveActions()
}

func (s *State) deriveGrid() {
	s.grid = [GridSize][GridSize]PieceID{}
	var covered [MaxPieces + 1]bool
	for p := P1; p < NumPlayers; p++ {
		for _, piece := range s.Pieces(p) {
			covered[piece.Above] = true
		}
	}
	for p := P1; p < NumPlayers; p++ {
		for i, piece := range s.Pieces(p) {
			if id := pieceID(p, i); !covered[id] {
				s.grid[piece.Coords.Q][piece.Coords.R] = id
			}
		}
	}
}

func (s *State) deriveQueens() {
	s.queens = [NumPlayers]PieceID{}
	for p := P1; p < NumPlayers; p++ {
		for i, piece := range s.Pieces(p) {
			if piece.Type == Queen {
				s.queens[p] = pieceID(p, i)
			}
		}
	}
}

func (s *State) deriveHands() {
	for p := P1; p < NumPlayers; p++ {
		s.hands[p] = PieceTypeCounts
		for _, piece := range s.Pieces(p) {
			s.hands[p][piece.Type]--
		}
	}
}

func (s *State) deriveNeighborCounts() {
	s.neighbors = [NumPlayers][GridSize][GridSize]uint8{}
	for p := P1; p < NumPlayers; p++ {
		for _, piece := range s.Pieces(p) {
			if piece.Above == NoPiece {
				s.addNeighborCount(piece.Coords, p, 1)
			}
		}
	}
}

func (s *State) addNeighborCount(c Coords, p Player, n int) {
	for _, nb := range c.Neighbors() {
		s.neighbors[p][nb.Q][nb.R] = uint8(int(s.neighbors[p][nb.Q][nb.R]) + n)
	}
}

func (s *State) deriveResult() {
	var surrounded [NumPlayers]bool
	for p := P1; p < NumPlayers; p++ {
		if q, ok := s.Queen(p); ok {
			surrounded[p] = s.HexNeighborCount(q.Coords) == NumDirections
		}
	}

	switch {
	case surrounded[P1] && surrounded[P2]:
		s.result = Draw
	case surrounded[P1]:
		s.result = P2Win
	case surrounded[P2]:
		s.result = P1Win
	default:
		s.result = NoResult
	}
}
