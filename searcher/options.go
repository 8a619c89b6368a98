package searcher

import (
	"time"
)

// Bias holds the probability of each playout heuristic. A heuristic only fires when it has candidates,
// and the rules are tried in the order of the fields below before falling back to a uniform choice.
type Bias struct {
	QueenSidestep float64 `yaml:"queen_sidestep" mapstructure:"queen_sidestep"`
	QueenEscape   float64 `yaml:"queen_escape" mapstructure:"queen_escape"`
	QueenPin      float64 `yaml:"queen_pin" mapstructure:"queen_pin"`
	BeetleSeek    float64 `yaml:"beetle_seek" mapstructure:"beetle_seek"`
	Pin           float64 `yaml:"pin" mapstructure:"pin"`
	QueenAdjacent float64 `yaml:"queen_adjacent" mapstructure:"queen_adjacent"`
	Unpin         float64 `yaml:"unpin" mapstructure:"unpin"`
	QueenNearby   float64 `yaml:"queen_nearby" mapstructure:"queen_nearby"`
	Beetle        float64 `yaml:"beetle" mapstructure:"beetle"`

	// FromQueenPass re-selects moves that take a piece away from the opponent queen.
	FromQueenPass float64 `yaml:"from_queen_pass" mapstructure:"from_queen_pass"`
	// OwnPinPass re-selects actions into a cell where the mover would hang on a single own piece.
	OwnPinPass float64 `yaml:"own_pin_pass" mapstructure:"own_pin_pass"`
}

type Options struct {
	// Iterations and Duration bound the search; zero means unbounded, but one of them must be set.
	Iterations  int           `yaml:"iterations" mapstructure:"iterations"`
	Duration    time.Duration `yaml:"duration" mapstructure:"duration"`
	Exploration float64       `yaml:"exploration" mapstructure:"exploration"`
	MaxSimDepth int           `yaml:"max_sim_depth" mapstructure:"max_sim_depth"`
	RetainTree  bool          `yaml:"retain_tree" mapstructure:"retain_tree"`
	// MaxNodes caps the tree size; zero means no cap.
	MaxNodes int `yaml:"max_nodes" mapstructure:"max_nodes"`
	// Seed fixes the random sequence; zero draws a fresh seed.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
	Bias Bias   `yaml:"bias" mapstructure:"bias"`
	// CutPointDiffTerminate ends a playout once the cut point balance moves this far; zero disables it.
	CutPointDiffTerminate int `yaml:"cut_point_diff_terminate" mapstructure:"cut_point_diff_terminate"`
}

const (
	DefaultIterations  = 100000
	DefaultExploration = 0.3
	DefaultMaxSimDepth = 300
)

func DefaultOptions() Options {
	return Options{
		Iterations:  DefaultIterations,
		Exploration: DefaultExploration,
		MaxSimDepth: DefaultMaxSimDepth,
		Bias: Bias{
			QueenAdjacent: 0.65,
		},
	}
}

type Option func(m *MCTS)

// WithOptions replaces every setting at once.
func WithOptions(options Options) Option {
	return func(m *MCTS) {
		m.options = options
	}
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.options.Iterations = iterations
		}
	}
}

// WithDuration makes time the only budget.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.options.Duration = duration
			m.options.Iterations = 0
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.options.Exploration = c
		}
	}
}

func WithMaxSimDepth(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.options.MaxSimDepth = depth
		}
	}
}

func WithRetainTree(retain bool) Option {
	return func(m *MCTS) {
		m.options.RetainTree = retain
	}
}

func WithMaxNodes(nodes int) Option {
	return func(m *MCTS) {
		if nodes > 0 {
			m.options.MaxNodes = nodes
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.options.Seed = seed
	}
}

func WithBias(bias Bias) Option {
	return func(m *MCTS) {
		m.options.Bias = bias
	}
}

func WithCutPointDiffTerminate(threshold int) Option {
	return func(m *MCTS) {
		if threshold > 0 {
			m.options.CutPointDiffTerminate = threshold
		}
	}
}
