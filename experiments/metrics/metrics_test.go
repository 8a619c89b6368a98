package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"hive/game"
	"hive/searcher"
	"hive/searcher/agent"
)

func TestCollector(t *testing.T) {
	t.Run("records moves in order", func(t *testing.T) {
		c := NewCollector()
		c.Start(game.P1)
		opening := game.PlaceAction(game.Spider, game.Coords{})
		c.AddMove(game.P1, agent.Decision{Action: opening, Reason: agent.ReasonBook}, time.Millisecond)
		c.AddMove(game.P2, agent.Decision{
			Action: game.PassAction(),
			Reason: agent.ReasonMCTS,
			Stats:  searcher.Stats{Iterations: 10, TreeReused: true},
		}, 2*time.Millisecond)

		gameMetric, moves := c.Complete(game.Draw)
		require.Equal(t, game.Draw, gameMetric.Result)
		require.Equal(t, 2, gameMetric.TotalMoves)
		require.Equal(t, game.P1, gameMetric.StartingPlayer)
		require.Len(t, moves, 2)
		require.Equal(t, 1, moves[0].Step)
		require.Equal(t, opening.String(), moves[0].Action)
		require.Equal(t, agent.ReasonBook, moves[0].Reason)
		require.Equal(t, 2, moves[1].Step)
		require.Equal(t, 10, moves[1].Iterations)
		require.True(t, moves[1].IsTreeReused)
	})

	t.Run("dummy collects nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(game.P1)
		c.AddMove(game.P1, agent.Decision{}, time.Second)
		gameMetric, moves := c.Complete(game.P2Win)
		require.Equal(t, game.P2Win, gameMetric.Result)
		require.Empty(t, moves)
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "selfplay")
	require.NoError(t, err)

	configs := []AgentConfig{{ID: 1, Workers: 2, Options: searcher.DefaultOptions()}}
	require.NoError(t, w.WriteAgentConfigs(configs))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Agent1: 1, Agent2: 1, GameMetric: GameMetric{Result: game.P1Win}}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{Game: 1, MoveMetric: MoveMetric{Step: 1, Action: "Saaaa"}}}))

	t.Run("csv files", func(t *testing.T) {
		for name, rows := range map[string]int{"agent_configs.csv": 2, "game_records.csv": 2, "move_records.csv": 2} {
			f, err := os.Open(filepath.Join(w.Dir(), name))
			require.NoError(t, err)
			records, err := csv.NewReader(f).ReadAll()
			f.Close()
			require.NoError(t, err)
			require.Len(t, records, rows, name)
		}
	})

	t.Run("yaml options", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(w.Dir(), "agent_configs.yaml"))
		require.NoError(t, err)
		var decoded []AgentConfig
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		require.Equal(t, configs, decoded)
	})
}
