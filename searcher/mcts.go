package searcher

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"hive/game"
)

var (
	ErrNoActions  = errors.New("position has no legal actions")
	ErrTreeLimit  = errors.New("search tree reached its node limit")
	ErrNoSubtree  = errors.New("no retained subtree for action")
	errNotVisited = errors.New("root has no visited children")
)

type MCTS struct {
	options Options
	rng     *rand.Rand
	rules   []playoutRule
	stats   Stats
	path    []*node

	// Retained tree, valid while rootState is non-nil.
	root      *node
	rootState *game.State
	rootHash  game.StateHash
}

type Result struct {
	ActionIndex int
	Action      game.Action
	// Score is the mean outcome of the chosen action for the player to move.
	Score    float64
	Children []ChildStats
	Stats    Stats
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{options: DefaultOptions()}
	for _, option := range options {
		option(m)
	}
	if m.options.Iterations <= 0 && m.options.Duration <= 0 {
		panic("Must specify search iterations or duration")
	}

	seed := m.options.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64) + 1
	}
	m.rng = rand.New(rand.NewSource(seed))
	m.rules = newPlayoutRules(m.options.Bias)
	return m
}

func (m *MCTS) Options() Options {
	return m.options
}

// Search runs the configured budget from state and recommends an action. state is not modified. When the
// node limit is hit the best result so far is returned together with ErrTreeLimit.
func (m *MCTS) Search(state *game.State) (Result, error) {
	if state.ActionCount() == 0 {
		return Result{}, ErrNoActions
	}

	start := time.Now()
	m.stats = Stats{}
	if i, ok := state.WinningAction(); ok {
		m.Reset()
		m.stats.Duration = time.Since(start)
		return Result{ActionIndex: i, Action: state.Action(i), Score: WIN, Stats: m.stats}, nil
	}
	root := m.findRoot(state)
	if !root.expanded {
		m.expand(root, state)
	}

	var err error
	best := -1
	for i := 0; m.withinBudget(i, start); i++ {
		if m.options.MaxNodes > 0 && m.stats.Nodes >= m.options.MaxNodes {
			err = ErrTreeLimit
			log.Warn().Int("nodes", m.stats.Nodes).Int("iterations", i).Msg("mcts-tree-limit")
			break
		}

		m.iterate(root, state.Clone())
		m.stats.Iterations++

		if b := bestChildIndex(root); b != best {
			best = b
			m.stats.ChangeIteration = i
		}
	}
	m.stats.Duration = time.Since(start)

	result := Result{Children: make([]ChildStats, len(root.children)), Stats: m.stats}
	for i := range root.children {
		result.Children[i] = ChildStats{
			Action: state.Action(i),
			Visits: root.children[i].visits,
			Value:  root.children[i].value,
		}
	}
	result.ActionIndex, result.Score = BestChild(result.Children)
	if result.ActionIndex < 0 {
		if err == nil {
			err = errNotVisited
		}
		return result, err
	}
	result.Action = state.Action(result.ActionIndex)

	if m.options.RetainTree {
		m.root, m.rootState, m.rootHash = root, state.Clone(), state.Hash()
	} else {
		m.Reset()
	}

	log.Debug().
		Int("iterations", m.stats.Iterations).
		Int("nodes", m.stats.Nodes).
		Int("tree_depth", m.stats.TreeDepth).
		Float64("mean_sim_depth", m.stats.MeanSimDepth).
		Str("action", state.NormalizeAction(result.Action).String()).
		Float64("score", result.Score).
		Dur("duration", m.stats.Duration).
		Msg("mcts-search")
	return result, err
}

func (m *MCTS) withinBudget(iteration int, start time.Time) bool {
	if m.options.Iterations > 0 && iteration >= m.options.Iterations {
		return false
	}
	if m.options.Duration > 0 && time.Since(start) >= m.options.Duration {
		return false
	}
	return true
}

// Reset drops any retained tree.
func (m *MCTS) Reset() {
	m.root, m.rootState = nil, nil
}

// Advance moves the retained root along the given actions, so a later search of the resulting position
// continues with the statistics gathered so far.
func (m *MCTS) Advance(actions ...game.Action) error {
	for _, a := range actions {
		if m.rootState == nil {
			return ErrNoSubtree
		}
		i := m.rootState.ActionIndex(a)
		if i < 0 || !m.root.expanded {
			m.Reset()
			return ErrNoSubtree
		}
		m.root = &m.root.children[i]
		m.rootState.Apply(a)
	}
	if m.rootState != nil {
		m.rootHash = m.rootState.Hash()
	}
	return nil
}

// findRoot reuses the retained subtree when state is the same position with its actions in the same order,
// since children line up with the action list.
func (m *MCTS) findRoot(state *game.State) *node {
	if m.rootState != nil {
		if state.Hash() == m.rootHash && sameActions(state, m.rootState) {
			m.stats.TreeReused = true
			m.stats.Nodes = m.root.size()
			return m.root
		}
		log.Debug().Uint64("root_hash", uint64(m.rootHash)).Msg("mcts-tree-discarded")
	}
	m.Reset()
	m.stats.Nodes++
	return &node{}
}

// sameActions compares the action lists of a and b in normalized coordinates.
func sameActions(a, b *game.State) bool {
	if a.ActionCount() != b.ActionCount() {
		return false
	}
	adq, adr := a.NormalOffset()
	bdq, bdr := b.NormalOffset()
	for i := 0; i < a.ActionCount(); i++ {
		if a.Action(i).Translate(adq, adr) != b.Action(i).Translate(bdq, bdr) {
			return false
		}
	}
	return true
}

func (m *MCTS) iterate(root *node, state *game.State) {
	path := m.path[:0]
	n := root
	var score float64
	for {
		path = append(path, n)
		if s, ok := leafScore(state); ok {
			score = s
			break
		}
		if !n.expanded {
			m.expand(n, state)
		}
		if n.visits == 0 {
			score = m.simulate(state)
			break
		}

		i := m.selectChild(n)
		state.Apply(state.Action(i))
		n = &n.children[i]
	}

	for i := len(path) - 1; i >= 0; i-- {
		path[i].visits++
		path[i].value += score
		score = -score
	}
	m.path = path
}

func bestChildIndex(root *node) int {
	best, bestScore := -1, 0.0
	for i := range root.children {
		c := &root.children[i]
		if c.visits == 0 {
			continue
		}
		if score := -c.value / float64(c.visits); best < 0 || score >= bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
