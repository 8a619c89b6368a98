package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"hive/engine"
	"hive/experiments/metrics"
	"hive/searcher/agent"
)

// Experiment is a set of agent match ups, each played a number of times.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int
	MaxTurns int
}

type Report struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	// Wins counts decided games per AgentConfig.ID.
	Wins  map[int]int
	Draws int
}

// Run plays every match up and returns the records. Agents alternate the first move between games.
func Run(e Experiment) (Report, error) {
	count := 0
	report := Report{Wins: map[int]int{}}

	log.Info().Msgf("starting %s experiment...", e.Name)

	for mi, matchup := range e.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent%d and agent%d...", mi+1, len(e.MatchUps), matchup[0].ID, matchup[1].ID)

		for i := 0; i < e.Games; i++ {
			first, second := matchup[0], matchup[1]
			if i%2 == 1 {
				first, second = second, first
			}

			eng := engine.LocalEngine([]agent.Agent{newAgent(first), newAgent(second)}, metrics.NewCollector())
			if e.MaxTurns > 0 {
				eng.MaxTurns = e.MaxTurns
			}
			result, gameMetric, moveMetrics, err := eng.Run()
			if err != nil {
				return report, fmt.Errorf("failed to play matchup %d game %d: %w", mi+1, i+1, err)
			}

			count++
			report.Games = append(report.Games, metrics.GameRecord{
				ID:         count,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				report.Moves = append(report.Moves, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			if winner, ok := result.Winner(); ok {
				report.Wins[[2]int{first.ID, second.ID}[winner]]++
			} else {
				report.Draws++
			}

			log.Info().Msgf("completed matchup %d of %d game %d with result: %s", mi+1, len(e.MatchUps), i+1, result)
		}
	}

	log.Info().Msgf("completed %s experiment", e.Name)
	return report, nil
}

// Store writes the configs and records of an experiment below root.
func Store(root string, e Experiment, report Report) (string, error) {
	writer, err := metrics.NewWriter(root, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

func newAgent(config metrics.AgentConfig) agent.Agent {
	return agent.NewEvaluationAgent(config.Options, agent.WithWorkers(config.Workers), agent.WithBook(config.Book))
}
