package game

// GridSize is the side of the modular board. Every coordinate wraps modulo GridSize, so stepping in a
// direction never needs bounds checks. It must stay a power of two (see wrap) and leave a margin around
// a hive of MaxPieces in a straight line.
const GridSize = 32

// Coords are axial coordinates on a flat-top hex grid.
type Coords struct {
	Q, R uint8
}

type Direction int

const (
	North Direction = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
	NumDirections = 6
)

var directionNames = [NumDirections]string{"N", "NE", "SE", "S", "SW", "NW"}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return "?"
	}
	return directionNames[d]
}

// Rotate turns d clockwise by n sixths of a turn; n may be negative.
func (d Direction) Rotate(n int) Direction {
	return Direction(((int(d)+n)%NumDirections + NumDirections) % NumDirections)
}

func (d Direction) Opposite() Direction {
	return d.Rotate(3)
}

func wrap(v int) uint8 {
	return uint8(v & (GridSize - 1))
}

// step moves c one hex towards d by direct arithmetic.
func step(c Coords, d Direction) Coords {
	q, r := int(c.Q), int(c.R)
	switch d {
	case North:
		r--
	case NorthEast:
		q++
		r--
	case SouthEast:
		q++
	case South:
		r++
	case SouthWest:
		q--
		r++
	case NorthWest:
		q--
	}
	return Coords{Q: wrap(q), R: wrap(r)}
}

var neighborTable [GridSize][GridSize][NumDirections]Coords

func init() {
	for q := 0; q < GridSize; q++ {
		for r := 0; r < GridSize; r++ {
			c := Coords{Q: uint8(q), R: uint8(r)}
			for d := Direction(0); d < NumDirections; d++ {
				neighborTable[q][r][d] = step(c, d)
			}
		}
	}
}

// Step returns the neighbouring coordinate in direction d.
func (c Coords) Step(d Direction) Coords {
	return neighborTable[c.Q&(GridSize-1)][c.R&(GridSize-1)][d]
}

// Neighbors returns the six neighbouring coordinates in direction order.
func (c Coords) Neighbors() [NumDirections]Coords {
	return neighborTable[c.Q&(GridSize-1)][c.R&(GridSize-1)]
}

// Translate shifts c by (dq, dr) with wraparound.
func (c Coords) Translate(dq, dr int) Coords {
	return Coords{Q: wrap(int(c.Q) + dq), R: wrap(int(c.R) + dr)}
}

// Adjacent reports whether a and b are exactly one step apart.
func Adjacent(a, b Coords) bool {
	_, ok := DirectionTo(a, b)
	return ok
}

// DirectionTo returns the direction leading from a to its neighbour b.
func DirectionTo(a, b Coords) (Direction, bool) {
	for d, n := range a.Neighbors() {
		if n == b {
			return Direction(d), true
		}
	}
	return 0, false
}

// delta is the signed shortest difference b-a on the wrapped axis.
func delta(a, b uint8) int {
	d := (int(b) - int(a)) & (GridSize - 1)
	if d >= GridSize/2 {
		d -= GridSize
	}
	return d
}

// Distance is the hex distance between a and b, measured the short way around the grid.
func Distance(a, b Coords) int {
	dq := delta(a.Q, b.Q)
	dr := delta(a.R, b.R)
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
