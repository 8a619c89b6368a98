package searcher

import (
	"github.com/samber/lo"

	"hive/game"
)

// maxRetries bounds how often the retry filters may reject a chosen action in one turn of a playout.
const maxRetries = 8

type candidateFunc func(state *game.State) []uint16

// playoutRule is one biased choice of the playout policy. Rules are tried in order and fire with
// probability bias when they have candidates.
type playoutRule struct {
	name       string
	bias       float64
	candidates candidateFunc
}

func sublist(l game.Sublist) candidateFunc {
	return func(state *game.State) []uint16 {
		return state.Sublist(l)
	}
}

func newPlayoutRules(bias Bias) []playoutRule {
	rules := []playoutRule{
		{"queen-sidestep", bias.QueenSidestep, queenSidesteps},
		{"queen-escape", bias.QueenEscape, sublist(game.QueenAwayMoves)},
		{"queen-pin", bias.QueenPin, sublist(game.QueenPinMoves)},
		{"beetle-seek", bias.BeetleSeek, beetleSeekMoves},
		{"pin", bias.Pin, sublist(game.PinMoves)},
		{"queen-adjacent", bias.QueenAdjacent, sublist(game.QueenAdjacentActions)},
		{"unpin", bias.Unpin, sublist(game.UnpinMoves)},
		{"queen-nearby", bias.QueenNearby, sublist(game.QueenNearbyActions)},
		{"beetle", bias.Beetle, sublist(game.BeetleMoves)},
	}
	return lo.Filter(rules, func(r playoutRule, _ int) bool { return r.bias > 0 })
}

// queenSidesteps are queen moves into a pocket touching exactly one piece of each player, unless the
// queen already sits in such a pocket.
func queenSidesteps(state *game.State) []uint16 {
	turn, other := state.Turn(), state.Turn().Other()
	return lo.Filter(state.Sublist(game.QueenMoves), func(i uint16, _ int) bool {
		a := state.Action(int(i))
		return state.NeighborCount(other, a.To) == 1 &&
			state.NeighborCount(turn, a.To) == 1 &&
			state.HexNeighborCount(a.From) > 1
	})
}

// beetleSeekMoves are beetle moves that shorten the beetle's path to the opponent queen, measured by a
// breadth-first search from the queen over the hive and its border.
func beetleSeekMoves(state *game.State) []uint16 {
	beetles := state.Sublist(game.BeetleMoves)
	if len(beetles) == 0 {
		return nil
	}
	queen, ok := state.Queen(state.Turn().Other())
	if !ok {
		return nil
	}

	var dist [game.GridSize][game.GridSize]int16
	for q := range dist {
		for r := range dist[q] {
			dist[q][r] = -1
		}
	}
	dist[queen.Coords.Q][queen.Coords.R] = 0
	queue := []game.Coords{queen.Coords}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range c.Neighbors() {
			if dist[n.Q][n.R] >= 0 || (!state.Occupied(n) && state.HexNeighborCount(n) == 0) {
				continue
			}
			dist[n.Q][n.R] = dist[c.Q][c.R] + 1
			queue = append(queue, n)
		}
	}

	return lo.Filter(beetles, func(i uint16, _ int) bool {
		a := state.Action(int(i))
		to, from := dist[a.To.Q][a.To.R], dist[a.From.Q][a.From.R]
		return to >= 0 && (from < 0 || to < from)
	})
}

// simulate plays state out in place and scores the result for the player who was to move at the start:
// 1 for a win, -1 for a loss and 0 for a draw or a depth out.
func (m *MCTS) simulate(state *game.State) float64 {
	original := state.Turn()
	cutPointDiff := func() int {
		return state.CutPointCount(original.Other()) - state.CutPointCount(original)
	}
	startDiff := cutPointDiff()

	depth := 0
	for state.Result() == game.NoResult {
		if i, ok := state.WinningAction(); ok {
			state.Apply(state.Action(i))
			continue
		}

		if threshold := m.options.CutPointDiffTerminate; threshold > 0 {
			// Cut point pieces cannot move, so the side holding fewer of them is ahead: the opponent gaining
			// cut points scores WIN for the starting player, losing them scores LOSS.
			change := cutPointDiff() - startDiff
			if change >= threshold {
				m.stats.CutPointTerminations++
				m.stats.addSimulation(depth)
				return WIN
			} else if change <= -threshold {
				m.stats.CutPointTerminations++
				m.stats.addSimulation(depth)
				return LOSS
			}
		}

		if depth > m.options.MaxSimDepth {
			m.stats.DepthOuts++
			m.stats.addSimulation(depth)
			return DRAW
		}
		depth++

		state.Apply(m.playoutAction(state))
	}

	m.stats.addSimulation(depth)
	if state.Result() == game.Draw {
		return DRAW
	}
	if winner, _ := state.Result().Winner(); winner == original {
		return WIN
	}
	return LOSS
}

func (m *MCTS) playoutAction(state *game.State) game.Action {
	var a game.Action
	for retry := 0; retry <= maxRetries; retry++ {
		a = m.chooseAction(state)
		if retry == maxRetries || !m.rejected(state, a) {
			break
		}
	}
	return a
}

func (m *MCTS) chooseAction(state *game.State) game.Action {
	for _, rule := range m.rules {
		candidates := rule.candidates(state)
		if len(candidates) == 0 {
			continue
		}
		if m.rng.Float64() < rule.bias {
			return state.Action(int(candidates[m.rng.Intn(len(candidates))]))
		}
	}
	return state.Action(m.rng.Intn(state.ActionCount()))
}

// rejected applies the retry filters to a chosen action.
func (m *MCTS) rejected(state *game.State, a game.Action) bool {
	bias := m.options.Bias
	turn, other := state.Turn(), state.Turn().Other()

	if bias.FromQueenPass > 0 && a.IsMove() {
		if queen, ok := state.Queen(other); ok && game.Adjacent(a.From, queen.Coords) &&
			m.rng.Float64() < bias.FromQueenPass {
			return true
		}
	}

	if bias.OwnPinPass > 0 && !a.IsPass() &&
		state.NeighborCount(turn, a.To) == 1 &&
		state.NeighborCount(other, a.To) == 0 &&
		!state.CutPointNeighbor(a.To) &&
		!state.Occupied(a.To) &&
		m.rng.Float64() < bias.OwnPinPass {
		return true
	}
	return false
}
