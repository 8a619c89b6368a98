package searcher

import (
	"time"

	"github.com/samber/lo"

	"hive/game"
)

type Stats struct {
	Iterations           int
	Nodes                int
	TreeDepth            int
	Simulations          int
	MeanSimDepth         float64
	DepthOuts            int
	CutPointTerminations int
	// ChangeIteration is the last iteration at which the preferred root action changed.
	ChangeIteration int
	Duration        time.Duration
	TreeReused      bool
}

func (s *Stats) addSimulation(depth int) {
	s.Simulations++
	s.MeanSimDepth += (float64(depth) - s.MeanSimDepth) / float64(s.Simulations)
}

// MergeStats combines the statistics of independent searches of the same position.
func MergeStats(stats ...Stats) Stats {
	simulations := lo.SumBy(stats, func(s Stats) int { return s.Simulations })
	merged := Stats{
		Iterations:           lo.SumBy(stats, func(s Stats) int { return s.Iterations }),
		Nodes:                lo.SumBy(stats, func(s Stats) int { return s.Nodes }),
		Simulations:          simulations,
		DepthOuts:            lo.SumBy(stats, func(s Stats) int { return s.DepthOuts }),
		CutPointTerminations: lo.SumBy(stats, func(s Stats) int { return s.CutPointTerminations }),
	}
	for _, s := range stats {
		merged.TreeDepth = max(merged.TreeDepth, s.TreeDepth)
		merged.ChangeIteration = max(merged.ChangeIteration, s.ChangeIteration)
		merged.Duration = max(merged.Duration, s.Duration)
		merged.TreeReused = merged.TreeReused || s.TreeReused
		if simulations > 0 {
			merged.MeanSimDepth += s.MeanSimDepth * float64(s.Simulations) / float64(simulations)
		}
	}
	return merged
}

// ChildStats are the root statistics of one legal action. Value is from the point of view of the player
// who moves after the action.
type ChildStats struct {
	Action game.Action
	Visits int
	Value  float64
}

// Mean is the average outcome of the action for the player choosing it.
func (c ChildStats) Mean() float64 {
	return -c.Value / float64(c.Visits)
}

// SumChildren adds up root statistics of independent searches of the same position.
func SumChildren(workers ...[]ChildStats) []ChildStats {
	if len(workers) == 0 {
		return nil
	}
	sum := make([]ChildStats, len(workers[0]))
	copy(sum, workers[0])
	for _, children := range workers[1:] {
		for i, c := range children {
			sum[i].Visits += c.Visits
			sum[i].Value += c.Value
		}
	}
	return sum
}

// BestChild returns the visited child with the best mean outcome; later children win ties.
func BestChild(children []ChildStats) (int, float64) {
	best, bestScore := -1, 0.0
	for i, c := range children {
		if c.Visits == 0 {
			continue
		}
		if score := c.Mean(); best < 0 || score >= bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}
