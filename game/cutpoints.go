package game

// deriveCutPoints marks the articulation points of the occupied-cell graph: cells whose pieces cannot
// leave without splitting the hive. It is Hopcroft and Tarjan's lowpoint search run iteratively over an
// explicit stack, which never grows beyond the number of occupied cells.
func (s *State) deriveCutPoints() {
	s.cutPoints = [GridSize][GridSize]bool{}
	s.cutPointCount = [NumPlayers]int{}

	if s.pieceCount[P1] <= 1 && s.pieceCount[P2] <= 1 {
		return
	}

	var (
		stack     [MaxPieces]Coords
		depth     [MaxPieces]int
		lowpoint  [MaxPieces]int
		next      [MaxPieces]Direction
		parentDir [MaxPieces]Direction
		// discovered holds the discovery depth plus one, zero for unvisited cells.
		discovered [GridSize][GridSize]int
	)

	sp := 0
	stack[0] = s.piece(s.order[0]).Coords
	parentDir[0] = -1
	discovered[stack[0].Q][stack[0].R] = 1
	rootChildren := 0

	for sp >= 0 {
		var head Coords
		var headDir Direction
		found := false
		for !found && next[sp] != NumDirections {
			d := next[sp]
			next[sp]++
			if d == parentDir[sp] {
				continue
			}
			head = stack[sp].Step(d)
			headDir = d
			found = s.Occupied(head)
		}

		if found {
			if seen := discovered[head.Q][head.R]; seen > 0 {
				if seen-1 < lowpoint[sp] {
					lowpoint[sp] = seen - 1
				}
				continue
			}

			if sp == 0 {
				rootChildren++
			}
			stack[sp+1] = head
			depth[sp+1] = depth[sp] + 1
			lowpoint[sp+1] = depth[sp]
			next[sp+1] = 0
			parentDir[sp+1] = headDir.Opposite()
			discovered[head.Q][head.R] = depth[sp+1] + 1
			sp++
			continue
		}

		if sp > 0 {
			if lowpoint[sp] == depth[sp-1] && sp-1 != 0 {
				s.markCutPoint(stack[sp-1])
			} else if lowpoint[sp] < lowpoint[sp-1] {
				lowpoint[sp-1] = lowpoint[sp]
			}
		}
		sp--
	}

	// A root with a single DFS child can always be walked around.
	if rootChildren > 1 {
		s.markCutPoint(stack[0])
	}
}

func (s *State) markCutPoint(c Coords) {
	if s.cutPoints[c.Q][c.R] {
		return
	}
	s.cutPoints[c.Q][c.R] = true
	s.cutPointCount[s.grid[c.Q][c.R].Player()]++
}

// CutPointNeighbor reports whether any neighbour of c is a cut point.
func (s *State) CutPointNeighbor(c Coords) bool {
	for _, n := range c.Neighbors() {
		if s.cutPoints[n.Q][n.R] {
			return true
		}
	}
	return false
}
