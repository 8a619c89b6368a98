package experiments

import (
	"time"

	"hive/experiments/metrics"
	"hive/searcher"
)

// WorkerScaling pairs equally configured agents with growing worker counts under a fixed time budget, so
// the move records show how iterations per move scale with workers.
func WorkerScaling(base searcher.Options, budget time.Duration, games int) Experiment {
	options := base
	options.Iterations = 0
	options.Duration = budget

	var configs []metrics.AgentConfig
	var matchUps [][2]metrics.AgentConfig
	for i, workers := range []int{1, 2, 4, 8} {
		config := metrics.AgentConfig{ID: i + 1, Workers: workers, Book: true, Options: options}
		configs = append(configs, config)
		// Same config for both players for the same playing strength and similar game length
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}
	return Experiment{Name: "worker_scaling", Configs: configs, MatchUps: matchUps, Games: games}
}

// BiasStrength pairs a baseline agent against variants of its queen-adjacent playout bias.
func BiasStrength(base searcher.Options, workers, games int) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Workers: workers, Book: true, Options: base}
	configs := []metrics.AgentConfig{baseline}
	var matchUps [][2]metrics.AgentConfig
	for i, bias := range []float64{0, 0.35, 0.9} {
		options := base
		options.Bias.QueenAdjacent = bias
		config := metrics.AgentConfig{ID: i + 1, Workers: workers, Book: true, Options: options}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{Name: "bias_strength", Configs: configs, MatchUps: matchUps, Games: games}
}
