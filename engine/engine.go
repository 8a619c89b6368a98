package engine

import (
	"hive/experiments/metrics"
	"hive/game"
)

type Engine interface {
	// Run plays a game till there's a result or a max number of turns is reached
	Run() (result game.Result, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
