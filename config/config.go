package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"hive/searcher"
)

const EnvPrefix = "HIVE"

type Config struct {
	Search  searcher.Options `mapstructure:"search" yaml:"search"`
	Workers int              `mapstructure:"workers" yaml:"workers"`
	Book    bool             `mapstructure:"book" yaml:"book"`
	// MinimaxDepth switches thinking to minimax when positive.
	MinimaxDepth  int    `mapstructure:"minimax_depth" yaml:"minimax_depth"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	Addr          string `mapstructure:"addr" yaml:"addr"`
	ExperimentDir string `mapstructure:"experiment_dir" yaml:"experiment_dir"`
}

func setDefaults(v *viper.Viper) {
	search := searcher.DefaultOptions()
	v.SetDefault("search.iterations", search.Iterations)
	v.SetDefault("search.duration", search.Duration)
	v.SetDefault("search.exploration", search.Exploration)
	v.SetDefault("search.max_sim_depth", search.MaxSimDepth)
	v.SetDefault("search.retain_tree", search.RetainTree)
	v.SetDefault("search.max_nodes", search.MaxNodes)
	v.SetDefault("search.seed", search.Seed)
	v.SetDefault("search.cut_point_diff_terminate", search.CutPointDiffTerminate)
	v.SetDefault("search.bias.queen_sidestep", search.Bias.QueenSidestep)
	v.SetDefault("search.bias.queen_escape", search.Bias.QueenEscape)
	v.SetDefault("search.bias.queen_pin", search.Bias.QueenPin)
	v.SetDefault("search.bias.beetle_seek", search.Bias.BeetleSeek)
	v.SetDefault("search.bias.pin", search.Bias.Pin)
	v.SetDefault("search.bias.queen_adjacent", search.Bias.QueenAdjacent)
	v.SetDefault("search.bias.unpin", search.Bias.Unpin)
	v.SetDefault("search.bias.queen_nearby", search.Bias.QueenNearby)
	v.SetDefault("search.bias.beetle", search.Bias.Beetle)
	v.SetDefault("search.bias.from_queen_pass", search.Bias.FromQueenPass)
	v.SetDefault("search.bias.own_pin_pass", search.Bias.OwnPinPass)

	v.SetDefault("workers", 1)
	v.SetDefault("book", true)
	v.SetDefault("minimax_depth", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("addr", ":8000")
	v.SetDefault("experiment_dir", "experiments")
}

// Load reads the defaults, then the YAML file at path if one is given, then HIVE_ environment variables
// such as HIVE_SEARCH_ITERATIONS or HIVE_WORKERS.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Search.Iterations <= 0 && c.Search.Duration <= 0 {
		return errors.New("search needs an iteration or duration budget")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Level is the configured log level, defaulting to info.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Write dumps the effective configuration as YAML.
func (c Config) Write(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return encoder.Close()
}

// ConfigureLogging points the global zerolog logger at stderr with the configured level.
func (c Config) ConfigureLogging() {
	zerolog.SetGlobalLevel(c.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
