package statecheck

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/sync/errgroup"
)

// TestError is the failure report of a plan: the minimal failing command
// sequence found by the shrink search, the seed that regenerates the original
// sequence, and the error that the minimal sequence triggers.
type TestError[C, R any] struct {
	Sequence *CommandSequence[C, R]
	Seed     int64
	Trial    int
	Err      error
}

func (e *TestError[C, R]) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "found minimal failing case (trial %d, seed %d, %d commands): %v\n",
		e.Trial, e.Seed, e.Sequence.Len(), e.Err)
	b.WriteString(e.Sequence.String())
	return strings.TrimRight(b.String(), "\n")
}

func (e *TestError[C, R]) Unwrap() error { return e.Err }

// ExecutePlan runs up to MaxTrials independent trials. Each trial builds a
// fresh model and a fresh system instance, generates a random command
// sequence and replays it. When a replay fails, the shrink search reduces the
// sequence to a minimal counterexample, which is reported as a *TestError.
// A nil return means every trial passed.
//
// Two sharp edges for test authors. During shrinking, any failure of a
// candidate counts as a reproduction, not only the error kind that failed the
// original sequence; the reported root cause can therefore differ from the
// first one observed. And when a command is deleted, the surviving commands
// were generated against the undeleted trajectory; they are replayed without
// re-checking that they are still legal for the shorter history.
func ExecutePlan[C, R any](newModel func() StateMachine[C, R], newSystem func() SystemUnderTest[C, R], opts ...Option) error {
	cfg := newConfig(opts...)
	if cfg.minSize < 1 || cfg.maxSize < cfg.minSize {
		return fmt.Errorf("statecheck: invalid sequence size bounds [%d, %d]", cfg.minSize, cfg.maxSize)
	}
	p := &plan[C, R]{cfg: cfg, newModel: newModel, newSystem: newSystem}
	if cfg.numConcurrent > 1 {
		return p.runConcurrent()
	}
	return p.runSequential()
}

type plan[C, R any] struct {
	cfg       config
	newModel  func() StateMachine[C, R]
	newSystem func() SystemUnderTest[C, R]
}

func (p *plan[C, R]) runSequential() error {
	for trial := 0; trial < p.cfg.maxTrials; trial++ {
		if err := p.runTrial(trial); err != nil {
			return err
		}
	}
	return nil
}

// Trials share no mutable state, so they fan out over a worker group. The
// first trial to report a failure cancels the rest.
func (p *plan[C, R]) runConcurrent() error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.cfg.numConcurrent)
	for trial := 0; trial < p.cfg.maxTrials; trial++ {
		trial := trial
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return p.runTrial(trial)
		})
	}
	return g.Wait()
}

func (p *plan[C, R]) runTrial(trial int) error {
	seed := p.cfg.seed + int64(trial)
	rng := rand.New(rand.NewSource(seed))
	logger := p.cfg.logger.With().Int("trial", trial).Int64("seed", seed).Logger()

	model := p.newModel()
	tree, err := newSequenceTree(rng, model, p.cfg)
	if err != nil {
		return err
	}

	seq := tree.Current()
	logger.Debug().Str("event", "trial.run").Int("commands", seq.Len()).Msg("running trial")
	runErr := seq.Run(p.newSystem())
	if runErr == nil {
		return nil
	}
	logger.Info().Err(runErr).Str("event", "trial.fail").Int("commands", seq.Len()).Msg("failure found, shrinking")

	minimal, iters, cause := p.shrink(tree, seq, runErr)
	logger.Info().Str("event", "shrink.done").Int("iterations", iters).Int("commands", minimal.Len()).Msg("minimal failing sequence")

	return &TestError[C, R]{Sequence: minimal, Seed: seed, Trial: trial, Err: cause}
}

// shrink drives the sequence tree to a minimal failing candidate. Every
// candidate runs against a freshly built system instance. A candidate that
// still fails keeps its reduction; one that passes was reduced too far and is
// reverted via Complicate before the next reduction is tried. The search
// stops when Simplify is exhausted or the iteration budget is spent; the last
// failing candidate seen is always the one reported.
func (p *plan[C, R]) shrink(tree *sequenceTree[C, R], original *CommandSequence[C, R], firstErr error) (*CommandSequence[C, R], int, error) {
	best := original
	cause := firstErr
	iters := 0
	for iters < p.cfg.maxShrinkIters && tree.Simplify() {
		for iters < p.cfg.maxShrinkIters {
			iters++
			candidate := tree.Current()
			if err := candidate.Run(p.newSystem()); err != nil {
				best, cause = candidate, err
				break
			}
			if !tree.Complicate() {
				return best, iters, cause
			}
		}
	}
	return best, iters, cause
}
