package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"hive/config"
	"hive/experiments"
	"hive/experiments/metrics"
	"hive/meta"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	name := flag.String("experiment", "matchup", "matchup, worker_scaling or bias_strength")
	games := flag.Int("games", meta.GAMES, "games per match up")
	budget := flag.Duration("budget", 500*time.Millisecond, "time per move for worker_scaling")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.ConfigureLogging()

	e, err := experiment(*name, cfg, *games, *budget)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	report, err := experiments.Run(e)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	dir, err := experiments.Store(cfg.ExperimentDir, e, report)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to store experiment")
	}

	for _, c := range e.Configs {
		fmt.Printf("agent%d: %d wins\n", c.ID, report.Wins[c.ID])
	}
	fmt.Printf("draws: %d\nrecords: %s\n", report.Draws, dir)
}

func experiment(name string, cfg config.Config, games int, budget time.Duration) (experiments.Experiment, error) {
	switch name {
	case "worker_scaling":
		return experiments.WorkerScaling(cfg.Search, budget, games), nil
	case "bias_strength":
		return experiments.BiasStrength(cfg.Search, cfg.Workers, games), nil
	case "matchup":
		options := cfg.Search
		options.Iterations, options.Duration = meta.ITERATIONS, 0
		// Same config for both players for the same playing strength
		c := metrics.AgentConfig{ID: 1, Workers: meta.WORKERS, Book: cfg.Book, Options: options}
		return experiments.Experiment{
			Name:     name,
			Configs:  []metrics.AgentConfig{c},
			MatchUps: [][2]metrics.AgentConfig{{c, c}},
			Games:    games,
			MaxTurns: meta.MAX_TURNS,
		}, nil
	}
	return experiments.Experiment{}, fmt.Errorf("unknown experiment %q", name)
}
