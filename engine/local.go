package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hive/experiments/metrics"
	"hive/game"
	"hive/meta"
	"hive/searcher/agent"
)

// advancer is implemented by agents that keep a search tree between moves.
type advancer interface {
	Advance(actions ...game.Action)
}

type Local struct {
	State     *game.State
	Agents    [game.NumPlayers]agent.Agent
	MaxTurns  int
	Collector metrics.Collector
}

// LocalEngine sets up a game between two in-process agents, agents[0] playing first.
func LocalEngine(agents []agent.Agent, collector metrics.Collector) *Local {
	if len(agents) != int(game.NumPlayers) {
		panic("need exactly two agents")
	}
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}
	return &Local{
		State:     game.New(),
		Agents:    [game.NumPlayers]agent.Agent{agents[0], agents[1]},
		MaxTurns:  meta.MAX_TURNS,
		Collector: collector,
	}
}

// Run executes the game loop until the game ends or MaxTurns actions have been played.
func (e *Local) Run() (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	log.Info().Msgf("player %s is starting", e.State.Turn())
	e.Collector.Start(e.State.Turn())

	for turn := 1; e.State.Result() == game.NoResult && turn <= e.MaxTurns; turn++ {
		player := e.State.Turn()

		start := time.Now()
		decision, err := e.Agents[player].FindMove(e.State)
		if err != nil {
			return game.NoResult, metrics.GameMetric{}, nil, fmt.Errorf("player %s failed to move on turn %d: %w", player, turn, err)
		}
		elapsed := time.Since(start)

		// Records use the coordinates of the normalized position the action was chosen in.
		recorded := decision
		recorded.Action = e.State.NormalizeAction(decision.Action)
		if err := e.State.ApplyChecked(decision.Action); err != nil {
			return game.NoResult, metrics.GameMetric{}, nil, fmt.Errorf("player %s chose %s on turn %d: %w", player, recorded.Action, turn, err)
		}
		e.Collector.AddMove(player, recorded, elapsed)

		for _, a := range e.Agents {
			if tree, ok := a.(advancer); ok {
				tree.Advance(decision.Action)
			}
		}

		log.Debug().
			Int("turn", turn).
			Str("player", player.String()).
			Str("action", recorded.Action.String()).
			Str("reason", string(decision.Reason)).
			Str("state", e.State.String()).
			Msg("selfplay-move")
	}

	if e.State.Result() == game.NoResult {
		log.Info().Msgf("stopped after %d turns (no result yet)", e.MaxTurns)
	} else {
		log.Info().Msgf("game ended with result: %s", e.State.Result())
	}

	gameMetric, moveMetrics := e.Collector.Complete(e.State.Result())
	return e.State.Result(), gameMetric, moveMetrics, nil
}
