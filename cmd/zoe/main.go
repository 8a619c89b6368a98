package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"hive/communication"
	"hive/config"
	"hive/game"
	"hive/searcher"
	"hive/searcher/agent"
)

const (
	exitNoState = iota + 2
	exitNoCommand
	exitBadState
	exitFailed
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	normalize := flag.Bool("n", false, "print the normalized state")
	list := flag.Bool("l", false, "list the legal actions")
	act := flag.String("a", "", "apply an action and print the resulting state")
	think := flag.Bool("t", false, "choose an action with MCTS")
	search := flag.Bool("s", false, "choose an action with minimax")
	random := flag.Bool("r", false, "choose a random action")
	iterations := flag.Int("i", 0, "MCTS iterations, or minimax depth with -s")
	exploration := flag.Float64("c", 0, "UCT exploration constant")
	queenAdjacent := flag.Float64("j", -1, "queen adjacent action bias")
	queenSidestep := flag.Float64("z", -1, "queen sidestep bias")
	workers := flag.Int("w", 0, "MCTS workers")
	seed := flag.Uint64("seed", 0, "random seed; 0 picks one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailed)
	}
	cfg.ConfigureLogging()

	options := cfg.Search
	if *iterations > 0 && !*search {
		options.Iterations, options.Duration = *iterations, 0
	}
	if *exploration > 0 {
		options.Exploration = *exploration
	}
	if *queenAdjacent >= 0 {
		options.Bias.QueenAdjacent = *queenAdjacent
	}
	if *queenSidestep >= 0 {
		options.Bias.QueenSidestep = *queenSidestep
	}
	if *seed != 0 {
		options.Seed = *seed
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	if flag.NArg() == 0 {
		log.Error().Msg("no state provided")
		os.Exit(exitNoState)
	}
	// Action strings only cover the normalized coordinates, which DecodeState switches to.
	state, err := communication.DecodeState(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("bad state")
		os.Exit(exitBadState)
	}
	log.Info().Str("input", flag.Arg(0)).Str("state", state.String()).Msg("zoe")

	switch {
	case *normalize:
		fmt.Println(state.String())
	case *list:
		for _, a := range state.Actions() {
			fmt.Println(a)
		}
	case *act != "":
		a, err := game.ParseAction(*act)
		if err == nil {
			err = state.ApplyChecked(a)
		}
		if err != nil {
			log.Error().Err(err).Str("action", *act).Msg("cannot apply")
			os.Exit(exitFailed)
		}
		fmt.Println(state.String())
	case *think, *search, *random:
		var thinker agent.Agent
		switch {
		case *random:
			s := options.Seed
			if s == 0 {
				s = frand.Uint64n(1 << 62)
			}
			thinker = agent.NewRandomAgent(s)
		case *search:
			depth := searcher.DefaultMinimaxDepth
			if *iterations > 0 {
				depth = *iterations
			}
			thinker = agent.NewEvaluationAgent(options, agent.WithBook(false), agent.WithMinimax(depth, nil))
		default:
			thinker = agent.NewEvaluationAgent(options, agent.WithWorkers(cfg.Workers), agent.WithBook(cfg.Book))
		}

		decision, err := thinker.FindMove(state)
		if err != nil {
			log.Error().Err(err).Msg("no action")
			os.Exit(exitFailed)
		}
		fmt.Println(decision.Action)
	default:
		log.Error().Msg("no command given")
		os.Exit(exitNoCommand)
	}
}
