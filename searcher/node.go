package searcher

import "hive/game"

// node values are from the point of view of the player to move at the node. children line up with the
// node's legal action list.
type node struct {
	expanded bool
	visits   int
	value    float64
	children []node
	depth    int
}

func (m *MCTS) expand(n *node, state *game.State) {
	n.children = make([]node, state.ActionCount())
	for i := range n.children {
		n.children[i].depth = n.depth + 1
	}
	n.expanded = true

	m.stats.Nodes += len(n.children)
	if len(n.children) > 0 && n.depth+1 > m.stats.TreeDepth {
		m.stats.TreeDepth = n.depth + 1
	}
}

// size counts n and every node below it.
func (n *node) size() int {
	total := 1
	for i := range n.children {
		total += n.children[i].size()
	}
	return total
}

// selectChild returns the first unvisited child, or else the child with the best UCT score. Later children
// win ties.
func (m *MCTS) selectChild(n *node) int {
	for i := range n.children {
		if n.children[i].visits == 0 {
			return i
		}
	}

	policy := newUCT(m.options.Exploration*m.options.Exploration, float64(n.visits))
	best, bestScore := 0, 0.0
	for i := range n.children {
		child := &n.children[i]
		// A child's value belongs to the opponent, hence the negation.
		score := policy.evaluate(-child.value, float64(child.visits))
		if i == 0 || score >= bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// leafScore scores positions that need no expansion: finished games and positions with a forced win.
func leafScore(state *game.State) (float64, bool) {
	if result := state.Result(); result != game.NoResult {
		if result == game.Draw {
			return DRAW, true
		}
		if winner, _ := result.Winner(); winner == state.Turn() {
			return WIN, true
		}
		return LOSS, true
	}
	if _, ok := state.WinningAction(); ok {
		return WIN, true
	}
	return 0, false
}
