package agent

import (
	"math"

	"golang.org/x/exp/rand"

	"hive/game"
	"hive/searcher"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play. It samples actions in proportion to their root
// visits raised to 1/temperature, so self-play games differ even from equal positions.
func NewTrainingAgent(options searcher.Options, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1.0
	}
	return trainingAgent{
		mcts:        searcher.NewMCTS(searcher.WithOptions(options)),
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a trainingAgent) FindMove(state *game.State) (Decision, error) {
	if i, ok := state.WinningAction(); ok {
		return Decision{Action: state.Action(i), Reason: ReasonWin, Score: searcher.WIN}, nil
	}

	result, err := a.mcts.Search(state)
	if err != nil && result.ActionIndex < 0 {
		return Decision{}, err
	}
	policy := adjustTemperature(result.Children, a.temperature)
	i := sample(policy, a.rng.Float64())
	return Decision{
		Action:   result.Children[i].Action,
		Reason:   ReasonMCTS,
		Score:    result.Children[i].Mean(),
		Children: result.Children,
		Stats:    result.Stats,
	}, nil
}

func adjustTemperature(children []searcher.ChildStats, temperature float64) []float64 {
	// Compute temperature-adjusted action probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(children))
	for i, c := range children {
		adjusted[i] = math.Pow(float64(c.Visits), exponent)
		sum += adjusted[i]
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	last := 0
	for i, prob := range policy {
		if prob == 0 {
			continue
		}
		last = i
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return last // Fallback in case of rounding errors
}
