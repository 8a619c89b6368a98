package searcher

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"hive/game"
)

// winningFixture is a position where player two can surround the opposing queen.
const winningFixture = "Qbbbbaacaacbgbcgacqbdaae2"

func mustParse(t *testing.T, s string) *game.State {
	t.Helper()
	state, err := game.Parse(s)
	require.NoError(t, err)
	return state
}

func TestNewMCTS(t *testing.T) {
	t.Run("panics without a budget", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS(WithOptions(Options{Exploration: 1}))
		})
	})

	t.Run("duration replaces the iteration budget", func(t *testing.T) {
		m := NewMCTS(WithDuration(time.Second))
		require.Zero(t, m.Options().Iterations)
		require.Equal(t, time.Second, m.Options().Duration)
	})

	t.Run("defaults", func(t *testing.T) {
		m := NewMCTS()
		require.Equal(t, DefaultIterations, m.Options().Iterations)
		require.Equal(t, DefaultExploration, m.Options().Exploration)
		require.Equal(t, DefaultMaxSimDepth, m.Options().MaxSimDepth)
		require.Equal(t, 0.65, m.Options().Bias.QueenAdjacent)
	})
}

func TestSearch(t *testing.T) {
	t.Run("visits every iteration below the root", func(t *testing.T) {
		m := NewMCTS(WithIterations(300), WithSeed(7))
		state := game.New()
		result, err := m.Search(state)
		require.NoError(t, err)

		visits := lo.SumBy(result.Children, func(c ChildStats) int { return c.Visits })
		// The first iteration plays out from the root itself.
		require.Equal(t, 299, visits)
		require.Equal(t, 300, result.Stats.Iterations)
		require.Len(t, result.Children, state.ActionCount())
		require.Equal(t, state.Action(result.ActionIndex), result.Action)
		require.GreaterOrEqual(t, result.Stats.Simulations, 1)
	})

	t.Run("same seed gives the same search", func(t *testing.T) {
		state := game.New()
		state.Apply(state.Action(1))

		first, err := NewMCTS(WithIterations(500), WithSeed(42)).Search(state)
		require.NoError(t, err)
		second, err := NewMCTS(WithIterations(500), WithSeed(42)).Search(state)
		require.NoError(t, err)
		require.Equal(t, first.Children, second.Children)
		require.Equal(t, first.Action, second.Action)
	})

	t.Run("leaves the searched state untouched", func(t *testing.T) {
		state := game.New()
		before := state.String()
		_, err := NewMCTS(WithIterations(100), WithSeed(3)).Search(state)
		require.NoError(t, err)
		require.Equal(t, before, state.String())
	})

	t.Run("takes a forced win immediately", func(t *testing.T) {
		state := mustParse(t, winningFixture)
		i, ok := state.WinningAction()
		require.True(t, ok)

		result, err := NewMCTS(WithIterations(1000), WithSeed(1)).Search(state)
		require.NoError(t, err)
		require.Equal(t, i, result.ActionIndex)
		require.Equal(t, WIN, result.Score)
		require.Zero(t, result.Stats.Iterations)
	})

	t.Run("finished games have no actions", func(t *testing.T) {
		state := mustParse(t, winningFixture)
		i, _ := state.WinningAction()
		state.Apply(state.Action(i))
		require.Equal(t, game.P2Win, state.Result())

		_, err := NewMCTS(WithIterations(10)).Search(state)
		require.ErrorIs(t, err, ErrNoActions)
	})

	t.Run("stops at the node limit", func(t *testing.T) {
		// The root has 4 children and each of them 24.
		m := NewMCTS(WithIterations(1000), WithMaxNodes(30), WithSeed(5))
		result, err := m.Search(game.New())
		require.ErrorIs(t, err, ErrTreeLimit)
		require.Equal(t, 3, result.Stats.Iterations)
		require.GreaterOrEqual(t, result.ActionIndex, 0)
		require.GreaterOrEqual(t, result.Stats.Nodes, 30)
	})

	t.Run("duration budget", func(t *testing.T) {
		m := NewMCTS(WithDuration(50*time.Millisecond), WithSeed(11))
		result, err := m.Search(game.New())
		require.NoError(t, err)
		require.Positive(t, result.Stats.Iterations)
		require.GreaterOrEqual(t, result.Stats.Duration, 50*time.Millisecond)
	})

	t.Run("change iteration stays within the budget", func(t *testing.T) {
		result, err := NewMCTS(WithIterations(200), WithSeed(9)).Search(game.New())
		require.NoError(t, err)
		require.Less(t, result.Stats.ChangeIteration, 200)
	})
}

func TestTreeReuse(t *testing.T) {
	t.Run("advancing keeps the subtree", func(t *testing.T) {
		m := NewMCTS(WithIterations(400), WithSeed(13), WithRetainTree(true))
		state := game.New()
		result, err := m.Search(state)
		require.NoError(t, err)
		require.False(t, result.Stats.TreeReused)

		require.NoError(t, m.Advance(result.Action))
		state.Apply(result.Action)

		result, err = m.Search(state)
		require.NoError(t, err)
		require.True(t, result.Stats.TreeReused)
	})

	t.Run("unrelated positions start a fresh tree", func(t *testing.T) {
		m := NewMCTS(WithIterations(100), WithSeed(13), WithRetainTree(true))
		_, err := m.Search(game.New())
		require.NoError(t, err)

		result, err := m.Search(mustParse(t, "Qaaqba1"))
		require.NoError(t, err)
		require.False(t, result.Stats.TreeReused)
	})

	t.Run("reused nodes count towards the tree size", func(t *testing.T) {
		m := NewMCTS(WithIterations(300), WithSeed(13), WithRetainTree(true))
		state := game.New()
		result, err := m.Search(state)
		require.NoError(t, err)
		require.NoError(t, m.Advance(result.Action))
		state.Apply(result.Action)

		size := m.root.size()
		require.Greater(t, size, 1)
		m.stats = Stats{}
		m.findRoot(state)
		require.True(t, m.stats.TreeReused)
		require.Equal(t, size, m.stats.Nodes)
	})

	t.Run("a translated position keeps the tree", func(t *testing.T) {
		m := NewMCTS(WithIterations(100), WithSeed(4), WithRetainTree(true))
		state := game.New()
		state.Apply(game.PlaceAction(game.Spider, game.Coords{}))
		_, err := m.Search(state)
		require.NoError(t, err)

		result, err := m.Search(state.Normalize())
		require.NoError(t, err)
		require.True(t, result.Stats.TreeReused)
	})

	t.Run("same position with reordered actions starts a fresh tree", func(t *testing.T) {
		state := game.New()
		for _, a := range []game.Action{
			game.PlaceAction(game.Beetle, game.Coords{Q: 0, R: 0}),
			game.PlaceAction(game.Ant, game.Coords{Q: 0, R: 1}),
			game.PlaceAction(game.Ant, game.Coords{Q: 0, R: 31}),
			game.PlaceAction(game.Queen, game.Coords{Q: 0, R: 2}),
			game.PlaceAction(game.Queen, game.Coords{Q: 31, R: 0}),
			game.PlaceAction(game.Ant, game.Coords{Q: 0, R: 3}),
			game.PlaceAction(game.Grasshopper, game.Coords{Q: 0, R: 30}),
			game.MoveAction(game.Coords{Q: 0, R: 3}, game.Coords{Q: 31, R: 1}),
			// The first piece climbs onto a later one, so a re-parsed string lists them the other way round.
			game.MoveAction(game.Coords{Q: 0, R: 0}, game.Coords{Q: 31, R: 0}),
		} {
			require.NoError(t, state.ApplyChecked(a), "Setup action %s", a)
		}
		state.Apply(state.Action(0))

		reparsed := mustParse(t, state.String())
		require.Equal(t, state.Hash(), reparsed.Hash())
		require.False(t, sameActions(state, reparsed), "Re-parsing should reorder the actions")

		m := NewMCTS(WithIterations(50), WithSeed(3), WithRetainTree(true))
		_, err := m.Search(state)
		require.NoError(t, err)
		result, err := m.Search(reparsed)
		require.NoError(t, err)
		require.False(t, result.Stats.TreeReused)
		require.Len(t, result.Children, reparsed.ActionCount())
	})

	t.Run("advance without a tree", func(t *testing.T) {
		m := NewMCTS(WithIterations(10))
		require.ErrorIs(t, m.Advance(game.PassAction()), ErrNoSubtree)
	})

	t.Run("trees are dropped unless retained", func(t *testing.T) {
		m := NewMCTS(WithIterations(50), WithSeed(2))
		result, err := m.Search(game.New())
		require.NoError(t, err)
		require.ErrorIs(t, m.Advance(result.Action), ErrNoSubtree)
	})
}

func TestSimulate(t *testing.T) {
	t.Run("depth out scores a draw", func(t *testing.T) {
		m := NewMCTS(WithIterations(1), WithMaxSimDepth(1), WithSeed(1))
		score := m.simulate(game.New())
		require.Equal(t, DRAW, score)
		require.Equal(t, 1, m.stats.DepthOuts)
		require.Equal(t, 1, m.stats.Simulations)
		require.Equal(t, 2.0, m.stats.MeanSimDepth)
	})

	t.Run("scores from the starting player", func(t *testing.T) {
		m := NewMCTS(WithIterations(1), WithSeed(1))
		state := mustParse(t, winningFixture)
		score := m.simulate(state)
		require.Equal(t, WIN, score)
		require.Equal(t, game.P2Win, state.Result())
	})

	t.Run("biased playouts finish", func(t *testing.T) {
		bias := Bias{
			QueenSidestep: 0.5,
			QueenEscape:   0.5,
			QueenPin:      0.5,
			BeetleSeek:    0.5,
			Pin:           0.5,
			QueenAdjacent: 0.65,
			Unpin:         0.5,
			QueenNearby:   0.5,
			Beetle:        0.5,
			FromQueenPass: 0.5,
			OwnPinPass:    0.5,
		}
		m := NewMCTS(WithIterations(1), WithBias(bias), WithCutPointDiffTerminate(3), WithSeed(21))
		require.Len(t, m.rules, 9)
		for i := 0; i < 20; i++ {
			score := m.simulate(game.New())
			require.Contains(t, []float64{WIN, DRAW, LOSS}, score)
		}
		require.Equal(t, 20, m.stats.Simulations)
	})

	t.Run("rules without probability are skipped", func(t *testing.T) {
		rules := newPlayoutRules(DefaultOptions().Bias)
		require.Len(t, rules, 1)
		require.Equal(t, "queen-adjacent", rules[0].name)
	})
}

func TestPlayoutCandidates(t *testing.T) {
	t.Run("beetle seek moves are beetle moves", func(t *testing.T) {
		state := mustParse(t, "QaaBbaqcaBcb2")
		beetles := state.Sublist(game.BeetleMoves)
		for _, i := range beetleSeekMoves(state) {
			require.Contains(t, beetles, i)
		}
	})

	t.Run("queen sidesteps leave the pocket", func(t *testing.T) {
		state := mustParse(t, "Qabaacabcacbgcagba1")
		for _, i := range queenSidesteps(state) {
			a := state.Action(int(i))
			require.Equal(t, 1, state.NeighborCount(game.P1, a.To))
			require.Equal(t, 1, state.NeighborCount(game.P2, a.To))
		}
	})
}

func TestMergeStats(t *testing.T) {
	merged := MergeStats(
		Stats{Iterations: 10, Nodes: 5, TreeDepth: 3, Simulations: 2, MeanSimDepth: 10},
		Stats{Iterations: 20, Nodes: 7, TreeDepth: 4, Simulations: 6, MeanSimDepth: 20, TreeReused: true},
	)
	require.Equal(t, 30, merged.Iterations)
	require.Equal(t, 12, merged.Nodes)
	require.Equal(t, 4, merged.TreeDepth)
	require.Equal(t, 8, merged.Simulations)
	require.InDelta(t, 17.5, merged.MeanSimDepth, 1e-9)
	require.True(t, merged.TreeReused)
}

func TestBestChild(t *testing.T) {
	t.Run("skips unvisited children", func(t *testing.T) {
		i, score := BestChild([]ChildStats{{Visits: 0}, {Visits: 4, Value: 2}})
		require.Equal(t, 1, i)
		require.Equal(t, -0.5, score)
	})

	t.Run("later children win ties", func(t *testing.T) {
		i, _ := BestChild([]ChildStats{{Visits: 2, Value: -2}, {Visits: 1, Value: -1}})
		require.Equal(t, 1, i)
	})

	t.Run("no visits", func(t *testing.T) {
		i, _ := BestChild([]ChildStats{{}, {}})
		require.Equal(t, -1, i)
	})

	t.Run("sums workers", func(t *testing.T) {
		sum := SumChildren(
			[]ChildStats{{Visits: 1, Value: 1}, {Visits: 2, Value: -2}},
			[]ChildStats{{Visits: 3, Value: 1}, {Visits: 4, Value: 0}},
		)
		require.Equal(t, []ChildStats{{Visits: 4, Value: 2}, {Visits: 6, Value: -2}}, sum)
	})
}
