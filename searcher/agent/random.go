package agent

import (
	"golang.org/x/exp/rand"

	"hive/game"
	"hive/searcher"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays uniformly random legal actions.
func NewRandomAgent(seed uint64) Agent {
	return randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a randomAgent) FindMove(state *game.State) (Decision, error) {
	if state.ActionCount() == 0 {
		return Decision{}, searcher.ErrNoActions
	}
	return Decision{Action: state.Action(a.rng.Intn(state.ActionCount())), Reason: ReasonRandom}, nil
}
