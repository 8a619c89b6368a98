package game

type StateHash uint64

// Evaluate scores a position from the point of view of the player to move; positive favours them.
type Evaluate func(*State) float64

// EvaluateNeutral is the placeholder leaf evaluation: every position is even.
func EvaluateNeutral(*State) float64 {
	return 0
}
