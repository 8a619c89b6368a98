package metrics

import (
	"time"

	"hive/game"
	"hive/searcher/agent"
)

type SearchMetric struct {
	Reason               agent.Reason
	Duration             time.Duration
	Iterations           int
	Nodes                int
	Simulations          int
	MeanSimDepth         float64
	DepthOuts            int
	CutPointTerminations int
	ChangeIteration      int
	Score                float64
	IsTreeReused         bool
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Action string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Result         game.Result
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers the metrics of one game as it is played.
type Collector interface {
	Start(starting game.Player)
	AddMove(player game.Player, decision agent.Decision, elapsed time.Duration)
	Complete(result game.Result) (GameMetric, []MoveMetric)
}

type collector struct {
	game  GameMetric
	moves []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(starting game.Player) {
	c.game = GameMetric{StartingPlayer: starting, StartTime: time.Now()}
	c.moves = nil
}

func (c *collector) AddMove(player game.Player, decision agent.Decision, elapsed time.Duration) {
	c.moves = append(c.moves, MoveMetric{
		Step:         len(c.moves) + 1,
		Player:       player,
		Action:       decision.Action.String(),
		SearchMetric: searchMetric(decision, elapsed),
	})
}

func (c *collector) Complete(result game.Result) (GameMetric, []MoveMetric) {
	c.game.Result = result
	c.game.EndTime = time.Now()
	c.game.Duration = c.game.EndTime.Sub(c.game.StartTime)
	c.game.TotalMoves = len(c.moves)
	return c.game, c.moves
}

func searchMetric(decision agent.Decision, elapsed time.Duration) SearchMetric {
	stats := decision.Stats
	return SearchMetric{
		Reason:               decision.Reason,
		Duration:             elapsed,
		Iterations:           stats.Iterations,
		Nodes:                stats.Nodes + decision.Minimax.Nodes,
		Simulations:          stats.Simulations,
		MeanSimDepth:         stats.MeanSimDepth,
		DepthOuts:            stats.DepthOuts,
		CutPointTerminations: stats.CutPointTerminations,
		ChangeIteration:      stats.ChangeIteration,
		Score:                decision.Score,
		IsTreeReused:         stats.TreeReused,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start(game.Player)                                      {}
func (c *dummyCollector) AddMove(game.Player, agent.Decision, time.Duration)     {}
func (c *dummyCollector) Complete(result game.Result) (GameMetric, []MoveMetric) { return GameMetric{Result: result}, nil }
