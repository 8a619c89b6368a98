package game

const spiderSteps = 3

type cellSet [GridSize][GridSize]bool

func (s *State) pushAction(a Action) int {
	if s.actionCount == MaxActions {
		panic("action buffer overflow")
	}
	s.actions[s.actionCount] = a
	s.actionCount++
	return s.actionCount - 1
}

func (s *State) deriveActions() {
	s.actionCount = 0
	s.winning = 0
	for i := range s.sublists {
		s.sublists[i].n = 0
	}

	if s.result != NoResult {
		return
	}

	// Opening placements skip all filtering; nothing can be surrounded yet.
	if s.pieceCount[P1] == 0 {
		for t := PieceType(0); t < NumPieceTypes; t++ {
			if t != Queen {
				s.pushAction(PlaceAction(t, Coords{}))
			}
		}
		return
	}
	if s.pieceCount[P2] == 0 {
		anchor := s.pieces[P1][0].Coords
		for t := PieceType(0); t < NumPieceTypes; t++ {
			if t == Queen {
				continue
			}
			for _, c := range anchor.Neighbors() {
				s.pushAction(PlaceAction(t, c))
			}
		}
		return
	}

	s.derivePlacements()

	// Nothing moves before its owner's queen is on the board.
	if s.hands[s.turn][Queen] == 0 {
		for i := 0; i < s.pieceCount[s.turn]; i++ {
			s.derivePieceMoves(pieceID(s.turn, i))
		}
	}

	if s.actionCount == 0 {
		s.pushAction(PassAction())
	}
}

func (s *State) derivePlacements() {
	turn, other := s.turn, s.turn.Other()

	inHand := false
	for _, n := range s.hands[turn] {
		if n > 0 {
			inHand = true
			break
		}
	}
	if !inHand {
		return
	}

	forceQueen := s.hands[turn][Queen] > 0 && s.pieceCount[turn] >= 3

	var buf [PlayerPieces * NumDirections]Coords
	spots := buf[:0]
	var seen cellSet
	for _, piece := range s.Pieces(turn) {
		for _, c := range piece.Coords.Neighbors() {
			if !s.Occupied(c) && s.neighbors[other][c.Q][c.R] == 0 && !seen[c.Q][c.R] {
				spots = append(spots, c)
				seen[c.Q][c.R] = true
			}
		}
	}

	for t := PieceType(0); t < NumPieceTypes; t++ {
		if s.hands[turn][t] == 0 || (forceQueen && t != Queen) {
			continue
		}
		for _, c := range spots {
			s.addAction(PlaceAction(t, c), NoPiece)
		}
	}
}

// occupiedExcept reports whether c is occupied once the cell excluded has been vacated.
func (s *State) occupiedExcept(c, excluded Coords) bool {
	return c != excluded && s.Occupied(c)
}

// slide returns the cell reached by sliding from c around the occupied neighbour in direction d, turning
// by side (+1 or -1). The slide needs both cells on that side of the neighbour to be free.
func (s *State) slide(c Coords, d Direction, side int, excluded Coords) (Coords, bool) {
	if s.occupiedExcept(c.Step(d.Rotate(2*side)), excluded) {
		return Coords{}, false
	}
	next := c.Step(d.Rotate(side))
	if s.occupiedExcept(next, excluded) {
		return Coords{}, false
	}
	return next, true
}

func (s *State) derivePieceMoves(id PieceID) {
	piece := s.piece(id)
	if piece.Above != NoPiece {
		return
	}
	from := piece.Coords
	onStack := s.grid[from.Q][from.R] != id

	if s.cutPoints[from.Q][from.R] && !(piece.Type == Beetle && onStack) {
		return
	}

	switch piece.Type {
	case Ant:
		var visited cellSet
		s.antWalk(id, from, from, &visited)

	case Spider:
		var path, reached cellSet
		s.spiderWalk(id, from, from, 0, &path, &reached)

	case Grasshopper:
		for d := Direction(0); d < NumDirections; d++ {
			c := from.Step(d)
			if !s.Occupied(c) {
				continue
			}
			for s.Occupied(c) {
				c = c.Step(d)
			}
			s.addAction(MoveAction(from, c), id)
		}

	case Queen:
		for d := Direction(0); d < NumDirections; d++ {
			if !s.Occupied(from.Step(d)) {
				continue
			}
			for _, side := range [2]int{1, -1} {
				if to, ok := s.slide(from, d, side, from); ok {
					s.addAction(MoveAction(from, to), id)
				}
			}
		}

	case Beetle:
		if onStack {
			s.deriveStackedBeetleMoves(id, from)
		} else {
			s.deriveGroundBeetleMoves(id, from)
		}
	}
}

func (s *State) antWalk(id PieceID, from, c Coords, visited *cellSet) {
	if visited[c.Q][c.R] {
		return
	}
	if c != from {
		s.addAction(MoveAction(from, c), id)
	}
	visited[c.Q][c.R] = true

	for d := Direction(0); d < NumDirections; d++ {
		if !s.occupiedExcept(c.Step(d), from) {
			continue
		}
		for _, side := range [2]int{1, -1} {
			if next, ok := s.slide(c, d, side, from); ok {
				s.antWalk(id, from, next, visited)
			}
		}
	}
}

// spiderWalk follows every path of exactly spiderSteps slides. path only holds the cells of the current
// path; reached keeps each destination from being added twice.
func (s *State) spiderWalk(id PieceID, from, c Coords, depth int, path, reached *cellSet) {
	if path[c.Q][c.R] {
		return
	}
	if depth == spiderSteps {
		if !reached[c.Q][c.R] {
			s.addAction(MoveAction(from, c), id)
			reached[c.Q][c.R] = true
		}
		return
	}

	path[c.Q][c.R] = true
	for d := Direction(0); d < NumDirections; d++ {
		if !s.occupiedExcept(c.Step(d), from) {
			continue
		}
		for _, side := range [2]int{1, -1} {
			if next, ok := s.slide(c, d, side, from); ok {
				s.spiderWalk(id, from, next, depth+1, path, reached)
			}
		}
	}
	path[c.Q][c.R] = false
}

// Beetle gates compare the height the beetle travels at against the stacks on either side of the gap.
func (s *State) beetleGateOpen(from Coords, d Direction, height int) bool {
	return height >= s.Height(from.Step(d.Rotate(1))) || height >= s.Height(from.Step(d.Rotate(-1)))
}

func (s *State) deriveStackedBeetleMoves(id PieceID, from Coords) {
	fromHeight := s.Height(from)
	for d := Direction(0); d < NumDirections; d++ {
		to := from.Step(d)
		if s.beetleGateOpen(from, d, max(fromHeight, s.Height(to))) {
			s.addAction(MoveAction(from, to), id)
		}
	}
}

func (s *State) deriveGroundBeetleMoves(id PieceID, from Coords) {
	for d := Direction(0); d < NumDirections; d++ {
		to := from.Step(d)
		if !s.Occupied(to) || !s.beetleGateOpen(from, d, s.Height(to)) {
			continue
		}
		s.addAction(MoveAction(from, to), id)

		for _, side := range [2]int{1, -1} {
			if next, ok := s.slide(from, d, side, from); ok {
				s.addAction(MoveAction(from, next), id)
			}
		}
	}
}

// seals reports whether a fills the last free cell around queen q.
func (s *State) seals(q PieceID, a Action, moverOnStack bool) bool {
	if q == NoPiece {
		return false
	}
	qc := s.piece(q).Coords
	return s.HexNeighborCount(qc) == NumDirections-1 &&
		Adjacent(qc, a.To) &&
		!s.Occupied(a.To) &&
		(a.IsPlace() || moverOnStack || !Adjacent(qc, a.From))
}

// neighborPiece returns the bottom piece of the first occupied neighbour of c.
func (s *State) neighborPiece(c Coords) PieceID {
	for _, n := range c.Neighbors() {
		if id := s.grid[n.Q][n.R]; id != NoPiece {
			return id
		}
	}
	return NoPiece
}

// addAction admits a candidate action unless it surrounds the mover's own queen without also
// surrounding the opponent's, then files it into the bias sublists.
func (s *State) addAction(a Action, mover PieceID) {
	turn, other := s.turn, s.turn.Other()

	var moverType PieceType
	moverOnStack := false
	if a.IsMove() {
		moverType = s.piece(mover).Type
		moverOnStack = moverType == Beetle && s.grid[a.From.Q][a.From.R] != mover
	}

	draw := false
	if s.seals(s.queens[turn], a, moverOnStack) {
		if !s.seals(s.queens[other], a, moverOnStack) {
			return
		}
		draw = true
	}

	i := s.pushAction(a)
	to := a.To

	if q := s.queens[other]; q != NoPiece {
		qc := s.piece(q).Coords
		if s.winning == 0 && !draw && s.seals(q, a, moverOnStack) {
			s.winning = i + 1
		}

		if Adjacent(to, qc) && (a.IsPlace() || !Adjacent(qc, a.From)) {
			s.sublists[QueenAdjacentActions].add(i)
		} else if Distance(to, qc) <= 2 && (a.IsPlace() || Distance(a.From, qc) > 2) {
			s.sublists[QueenNearbyActions].add(i)
		}
	}

	if !a.IsMove() {
		return
	}
	from := a.From

	switch moverType {
	case Queen:
		s.sublists[QueenMoves].add(i)
	case Beetle:
		s.sublists[BeetleMoves].add(i)
	}

	alreadyPinning := s.neighbors[other][from.Q][from.R] == 1 && s.neighbors[turn][from.Q][from.R] == 0
	if s.neighbors[other][to.Q][to.R] == 1 &&
		s.neighbors[turn][to.Q][to.R] == 0 &&
		!s.CutPointNeighbor(to) &&
		!alreadyPinning {
		s.sublists[PinMoves].add(i)
		if n := s.neighborPiece(to); n != NoPiece && s.piece(n).Type == Queen {
			s.sublists[QueenPinMoves].add(i)
		}
	}

	if s.neighbors[turn][from.Q][from.R] == 1 && s.neighbors[other][from.Q][from.R] == 0 {
		s.sublists[UnpinMoves].add(i)
	}

	if q := s.queens[turn]; q != NoPiece {
		qc := s.piece(q).Coords
		if s.HexNeighborCount(qc) == NumDirections-1 &&
			Adjacent(qc, from) &&
			(!Adjacent(qc, to) || s.Occupied(to)) {
			s.sublists[QueenAwayMoves].add(i)
		}
	}
}
