package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"hive/searcher"
)

// AgentConfig describes one contestant of a self-play experiment.
type AgentConfig struct {
	ID      int              `yaml:"id"`
	Workers int              `yaml:"workers"`
	Book    bool             `yaml:"book"`
	Options searcher.Options `yaml:"options"`
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	path := filepath.Join(w.baseDir, "agent_configs.csv")
	err := writeCSV(path, []string{
		"id", "workers", "book", "iterations", "duration", "exploration", "max_sim_depth", "queen_adjacent",
		"queen_sidestep", "cut_point_diff_terminate",
	}, len(configs), func(i int) []string {
		config := configs[i]
		return []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Workers),
			strconv.FormatBool(config.Book),
			strconv.Itoa(config.Options.Iterations),
			config.Options.Duration.String(),
			formatFloat(config.Options.Exploration),
			strconv.Itoa(config.Options.MaxSimDepth),
			formatFloat(config.Options.Bias.QueenAdjacent),
			formatFloat(config.Options.Bias.QueenSidestep),
			strconv.Itoa(config.Options.CutPointDiffTerminate),
		}
	})
	if err != nil {
		return fmt.Errorf("failed to write agent configs: %w", err)
	}

	// The full options, biases included, are kept next to the CSV summary
	f, err := os.Create(filepath.Join(w.baseDir, "agent_configs.yaml"))
	if err != nil {
		return fmt.Errorf("failed to create agent configs file: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	defer encoder.Close()
	if err := encoder.Encode(configs); err != nil {
		return fmt.Errorf("failed to encode agent configs: %w", err)
	}
	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	err := writeCSV(path, []string{
		"id", "agent1", "agent2", "starting_player", "result", "start_time", "end_time", "duration", "total_moves",
	}, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer.String(),
			record.Result.String(),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		}
	})
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	path := filepath.Join(w.baseDir, "move_records.csv")
	err := writeCSV(path, []string{
		"game", "step", "player", "action", "reason", "duration", "iterations", "nodes", "simulations",
		"mean_sim_depth", "depth_outs", "cut_point_terminations", "change_iteration", "score", "is_tree_reused",
	}, len(records), func(i int) []string {
		record := records[i]
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Action,
			string(record.Reason),
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Simulations),
			formatFloat(record.MeanSimDepth),
			strconv.Itoa(record.DepthOuts),
			strconv.Itoa(record.CutPointTerminations),
			strconv.Itoa(record.ChangeIteration),
			formatFloat(record.Score),
			strconv.FormatBool(record.IsTreeReused),
		}
	})
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func writeCSV(path string, header []string, rows int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < rows; i++ {
		err = writer.Write(row(i))
		if err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
