package searcher

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"hive/game"
)

const DefaultMinimaxDepth = 3

type Minimax struct {
	depth    int
	evaluate game.Evaluate
	stats    MinimaxStats
}

type MinimaxStats struct {
	Nodes    int
	Leaves   int
	Duration time.Duration
}

type MinimaxResult struct {
	Action game.Action
	// Score is from the point of view of the player to move; forced wins score depth+1 so sooner wins rank
	// higher.
	Score float64
	Stats MinimaxStats
}

type MinimaxOption func(m *Minimax)

func WithDepth(depth int) MinimaxOption {
	return func(m *Minimax) {
		if depth >= 0 {
			m.depth = depth
		}
	}
}

func WithEvaluator(evaluate game.Evaluate) MinimaxOption {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func NewMinimax(options ...MinimaxOption) *Minimax {
	m := &Minimax{depth: DefaultMinimaxDepth, evaluate: game.EvaluateNeutral}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs a fixed depth negamax from state. state is not modified.
func (m *Minimax) Search(state *game.State) (MinimaxResult, error) {
	if state.ActionCount() == 0 {
		return MinimaxResult{}, ErrNoActions
	}

	start := time.Now()
	m.stats = MinimaxStats{Nodes: 1}
	result := MinimaxResult{Score: math.Inf(-1)}

	if i, ok := state.WinningAction(); ok {
		m.stats.Leaves++
		result.Action, result.Score = state.Action(i), math.Inf(1)
	} else if m.depth == 0 {
		m.stats.Leaves++
		result.Action, result.Score = state.Action(0), m.evaluate(state)
	} else {
		for i := 0; i < state.ActionCount(); i++ {
			child := state.Clone()
			child.Apply(state.Action(i))
			if score := -m.search(child, m.depth-1); score > result.Score {
				result.Action, result.Score = state.Action(i), score
			}
		}
	}

	m.stats.Duration = time.Since(start)
	result.Stats = m.stats
	log.Debug().
		Int("depth", m.depth).
		Int("nodes", m.stats.Nodes).
		Int("leaves", m.stats.Leaves).
		Str("action", state.NormalizeAction(result.Action).String()).
		Float64("score", result.Score).
		Msg("minimax-search")
	return result, nil
}

func (m *Minimax) search(state *game.State, depth int) float64 {
	m.stats.Nodes++

	if result := state.Result(); result != game.NoResult {
		m.stats.Leaves++
		if result == game.Draw {
			return DRAW
		}
		if winner, _ := result.Winner(); winner == state.Turn() {
			return float64(depth + 1)
		}
		return -float64(depth + 1)
	}
	if _, ok := state.WinningAction(); ok {
		return float64(depth + 1)
	}
	if depth == 0 {
		m.stats.Leaves++
		return m.evaluate(state)
	}

	best := math.Inf(-1)
	for i := 0; i < state.ActionCount(); i++ {
		child := state.Clone()
		child.Apply(state.Action(i))
		best = max(best, -m.search(child, depth-1))
	}
	return best
}
