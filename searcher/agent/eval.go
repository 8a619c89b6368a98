package agent

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"hive/game"
	"hive/searcher"
)

const topActions = 10

// Thinker is the agent used for actual play: it takes forced wins, single actions and book openings
// without searching, and otherwise sums the root statistics of independent MCTS workers.
type Thinker struct {
	options      searcher.Options
	workerCount  int
	book         bool
	minimaxDepth int
	evaluate     game.Evaluate

	workers []*searcher.MCTS
}

type ThinkerOption func(t *Thinker)

func WithWorkers(n int) ThinkerOption {
	return func(t *Thinker) {
		if n > 0 {
			t.workerCount = n
		}
	}
}

func WithBook(enabled bool) ThinkerOption {
	return func(t *Thinker) {
		t.book = enabled
	}
}

// WithMinimax replaces MCTS with a fixed depth negamax search.
func WithMinimax(depth int, evaluate game.Evaluate) ThinkerOption {
	return func(t *Thinker) {
		t.minimaxDepth = depth
		t.evaluate = evaluate
	}
}

// NewEvaluationAgent returns a new agent for actual game play.
func NewEvaluationAgent(options searcher.Options, opts ...ThinkerOption) *Thinker {
	t := &Thinker{options: options, workerCount: 1, book: true, minimaxDepth: -1}
	for _, opt := range opts {
		opt(t)
	}

	t.workers = make([]*searcher.MCTS, t.workerCount)
	for i := range t.workers {
		seed := options.Seed
		if seed != 0 {
			seed += uint64(i)
		} else {
			seed = frand.Uint64n(math.MaxUint64) + 1
		}
		t.workers[i] = searcher.NewMCTS(searcher.WithOptions(options), searcher.WithSeed(seed))
	}
	return t
}

func (t *Thinker) FindMove(state *game.State) (Decision, error) {
	if decision, ok := t.shortcut(state); ok {
		log.Info().
			Str("action", state.NormalizeAction(decision.Action).String()).
			Str("reason", string(decision.Reason)).
			Str("next", next(state, decision.Action)).
			Msg("think-shortcut")
		return decision, nil
	}
	if t.minimaxDepth >= 0 {
		return t.findMinimax(state)
	}
	return t.findMCTS(state)
}

func (t *Thinker) shortcut(state *game.State) (Decision, bool) {
	if state.ActionCount() == 0 {
		return Decision{}, false
	}
	if i, ok := state.WinningAction(); ok {
		return Decision{Action: state.Action(i), Reason: ReasonWin, Score: searcher.WIN}, true
	}
	if state.ActionCount() == 1 {
		return Decision{Action: state.Action(0), Reason: ReasonSingle}, true
	}
	if t.book {
		if a, ok := openingAction(state); ok {
			return Decision{Action: a, Reason: ReasonBook}, true
		}
	}
	return Decision{}, false
}

func (t *Thinker) findMinimax(state *game.State) (Decision, error) {
	m := searcher.NewMinimax(searcher.WithDepth(t.minimaxDepth), searcher.WithEvaluator(t.evaluate))
	result, err := m.Search(state)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Action: result.Action, Reason: ReasonMinimax, Score: result.Score, Minimax: result.Stats}, nil
}

func (t *Thinker) findMCTS(state *game.State) (Decision, error) {
	log.Debug().
		Int("iterations", t.options.Iterations).
		Int("workers", len(t.workers)).
		Float64("exploration", t.options.Exploration).
		Int("max_sim_depth", t.options.MaxSimDepth).
		Float64("queen_adjacent_bias", t.options.Bias.QueenAdjacent).
		Float64("queen_sidestep_bias", t.options.Bias.QueenSidestep).
		Int("cut_point_diff_terminate", t.options.CutPointDiffTerminate).
		Msg("think-options")

	results := make([]searcher.Result, len(t.workers))
	var mu sync.Mutex
	var limited bool
	g := errgroup.Group{}
	for i, worker := range t.workers {
		g.Go(func() error {
			result, err := worker.Search(state)
			if errors.Is(err, searcher.ErrTreeLimit) {
				mu.Lock()
				limited = true
				mu.Unlock()
			} else if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Decision{}, err
	}

	children := searcher.SumChildren(lo.Map(results, func(r searcher.Result, _ int) []searcher.ChildStats {
		return r.Children
	})...)
	stats := searcher.MergeStats(lo.Map(results, func(r searcher.Result, _ int) searcher.Stats { return r.Stats })...)
	best, score := searcher.BestChild(children)
	if best < 0 {
		return Decision{}, searcher.ErrTreeLimit
	}

	decision := Decision{
		Action:   children[best].Action,
		Reason:   ReasonMCTS,
		Score:    score,
		Children: children,
		Stats:    stats,
	}
	logSearch(state, decision, limited)
	return decision, nil
}

// Advance moves every worker's retained tree along actions played since the last search.
func (t *Thinker) Advance(actions ...game.Action) {
	for _, worker := range t.workers {
		if err := worker.Advance(actions...); err != nil {
			log.Debug().Err(err).Msg("think-advance")
		}
	}
}

func logSearch(state *game.State, decision Decision, limited bool) {
	stats := decision.Stats
	after := state.Clone()
	after.Apply(decision.Action)

	event := log.Info().
		Str("action", state.NormalizeAction(decision.Action).String()).
		Float64("score", decision.Score).
		Int("iterations", stats.Iterations).
		Int("change_iteration", stats.ChangeIteration).
		Dur("duration", stats.Duration).
		Int("actions", state.ActionCount()).
		Int("cut_point_diff", after.CutPointCount(game.P2)-after.CutPointCount(game.P1)).
		Int("queen_adjacent_actions", len(state.Sublist(game.QueenAdjacentActions))).
		Int("queen_nearby_actions", len(state.Sublist(game.QueenNearbyActions))).
		Int("pin_moves", len(state.Sublist(game.PinMoves))).
		Float64("mean_sim_depth", stats.MeanSimDepth).
		Int("depth_outs", stats.DepthOuts).
		Int("cut_point_terminations", stats.CutPointTerminations).
		Int("nodes", stats.Nodes).
		Bool("tree_reused", stats.TreeReused).
		Bool("tree_limited", limited)
	if stats.Duration > 0 {
		event = event.Float64("iterations_per_second", float64(stats.Iterations)/stats.Duration.Seconds())
	}
	event.Str("next", after.String()).Msg("think")

	for _, c := range topChildren(decision.Children, topActions) {
		log.Debug().Msgf("%.2f\t%s\t%d", c.Mean(), state.NormalizeAction(c.Action), c.Visits)
	}
}

// topChildren returns up to n visited children, most visited first.
func topChildren(children []searcher.ChildStats, n int) []searcher.ChildStats {
	visited := lo.Filter(children, func(c searcher.ChildStats, _ int) bool { return c.Visits > 0 })
	sort.SliceStable(visited, func(i, j int) bool { return visited[i].Visits > visited[j].Visits })
	if len(visited) > n {
		visited = visited[:n]
	}
	return visited
}

func next(state *game.State, a game.Action) string {
	after := state.Clone()
	after.Apply(a)
	return after.String()
}
