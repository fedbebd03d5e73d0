package statecheck

import (
	"time"

	"github.com/rs/zerolog"
)

type config struct {
	minSize        int
	maxSize        int
	shrinkCommands bool
	seed           int64
	maxTrials      int
	maxShrinkIters int
	numConcurrent  int
	logger         zerolog.Logger
}

func newConfig(opts ...Option) config {
	cfg := config{
		minSize:        1,
		maxSize:        100,
		shrinkCommands: false,
		seed:           time.Now().UnixNano(),
		maxTrials:      100,
		maxShrinkIters: 1000,
		numConcurrent:  1,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		switch t := opt.(type) {
		case sequenceSizeOption:
			cfg.minSize = t.min
			cfg.maxSize = t.max
		case shrinkCommandsOption:
			cfg.shrinkCommands = true
		case seedOption:
			cfg.seed = t.seed
		case maxTrialsOption:
			cfg.maxTrials = t.n
		case maxShrinkItersOption:
			cfg.maxShrinkIters = t.n
		case numConcurrentOption:
			cfg.numConcurrent = t.n
		case loggerOption:
			cfg.logger = t.logger
		}
	}
	return cfg
}

// Option configures a test plan.
type Option interface{}

type sequenceSizeOption struct{ min, max int }

// SequenceSize bounds the number of commands in a generated sequence. The
// length of each sequence is drawn uniformly from [min, max]. The bounds
// apply to generation only; shrinking may reduce a failing sequence further,
// but never below one retained command.
//
// Default is [1, 100].
func SequenceSize(min, max int) Option {
	return sequenceSizeOption{min: min, max: max}
}

type shrinkCommandsOption struct{}

// ShrinkCommands enables the second shrink phase: once the failing sequence
// cannot be shortened any further, also attempt to simplify the individual
// commands that remain.
//
// Off by default.
func ShrinkCommands() Option {
	return shrinkCommandsOption{}
}

type seedOption struct{ seed int64 }

// Seed fixes the seed of the random source, making the generated sequences
// reproducible. Each trial derives its own seed from this value and the trial
// index.
//
// Default is the current wall-clock time. The effective seed of a failing
// trial is always recorded in the reported TestError.
func Seed(seed int64) Option {
	return seedOption{seed: seed}
}

type maxTrialsOption struct{ n int }

// MaxTrials configures the number of independent generate-and-run trials.
//
// Default is 100.
func MaxTrials(n int) Option {
	return maxTrialsOption{n: n}
}

type maxShrinkItersOption struct{ n int }

// MaxShrinkIters bounds the number of candidate sequences executed while
// searching for a minimal counterexample.
//
// Default is 1000.
func MaxShrinkIters(n int) Option {
	return maxShrinkItersOption{n: n}
}

type numConcurrentOption struct{ n int }

// NumConcurrent configures how many trials run at the same time. Trials are
// independent: each owns its model, its system instance and its derived seed,
// so any reported failure stays reproducible. With more than one worker the
// trial that reports first wins, which may differ between runs.
//
// Default is 1.
func NumConcurrent(n int) Option {
	return numConcurrentOption{n: n}
}

type loggerOption struct{ logger zerolog.Logger }

// WithLogger configures a logger for trial and shrink progress.
//
// Default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return loggerOption{logger: logger}
}
