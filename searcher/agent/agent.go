package agent

import (
	"hive/game"
	"hive/searcher"
)

// Reason records how an agent arrived at its action.
type Reason string

const (
	ReasonWin     Reason = "win"
	ReasonSingle  Reason = "single"
	ReasonBook    Reason = "book"
	ReasonMCTS    Reason = "mcts"
	ReasonMinimax Reason = "minimax"
	ReasonRandom  Reason = "random"
	ReasonRemote  Reason = "remote"
)

type Decision struct {
	Action game.Action
	Reason Reason
	// Score is the expected outcome for the player to move, when the agent searched.
	Score    float64
	Children []searcher.ChildStats
	Stats    searcher.Stats
	Minimax  searcher.MinimaxStats
}

type Agent interface {
	// FindMove returns the chosen action and the search statistics (if collected) behind it
	FindMove(state *game.State) (Decision, error)
}
