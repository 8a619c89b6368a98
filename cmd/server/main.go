package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"hive/communication/server"
	"hive/config"
	"hive/searcher/agent"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "", "listen address, overriding the config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.ConfigureLogging()
	if *addr != "" {
		cfg.Addr = *addr
	}

	opts := []agent.ThinkerOption{agent.WithWorkers(cfg.Workers), agent.WithBook(cfg.Book)}
	if cfg.MinimaxDepth > 0 {
		opts = append(opts, agent.WithMinimax(cfg.MinimaxDepth, nil))
	}
	sc := server.NewServerCommunicator(agent.NewEvaluationAgent(cfg.Search, opts...))
	if err := sc.Start(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
