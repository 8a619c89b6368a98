package experiments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hive/experiments/metrics"
	"hive/searcher"
)

func TestRun(t *testing.T) {
	options := searcher.DefaultOptions()
	options.Iterations = 30
	options.Seed = 8
	a := metrics.AgentConfig{ID: 1, Workers: 1, Book: true, Options: options}
	b := metrics.AgentConfig{ID: 2, Workers: 2, Options: options}
	e := Experiment{
		Name:     "smoke",
		Configs:  []metrics.AgentConfig{a, b},
		MatchUps: [][2]metrics.AgentConfig{{a, b}},
		Games:    2,
		MaxTurns: 8,
	}

	report, err := Run(e)
	require.NoError(t, err)
	require.Len(t, report.Games, 2)
	require.Equal(t, 1, report.Games[0].Agent1)
	require.Equal(t, 2, report.Games[1].Agent1)

	decided := 0
	for _, wins := range report.Wins {
		decided += wins
	}
	require.Equal(t, 2, decided+report.Draws)

	dir, err := Store(t.TempDir(), e, report)
	require.NoError(t, err)
	for _, name := range []string{"agent_configs.csv", "agent_configs.yaml", "game_records.csv", "move_records.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}

func TestExperimentSetups(t *testing.T) {
	t.Run("worker scaling is time bound", func(t *testing.T) {
		e := WorkerScaling(searcher.DefaultOptions(), 0, 1)
		require.Len(t, e.MatchUps, 4)
		for _, c := range e.Configs {
			require.Zero(t, c.Options.Iterations)
		}
	})

	t.Run("bias strength keeps a baseline", func(t *testing.T) {
		e := BiasStrength(searcher.DefaultOptions(), 1, 1)
		require.Len(t, e.Configs, 4)
		for _, m := range e.MatchUps {
			require.Equal(t, 0, m[0].ID)
		}
	})
}
