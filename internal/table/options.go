package table

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-table/internal/policy"
	"github.com/lox/holdem-table/poker"
)

// Option configures a Session
type Option func(*Session)

// WithClock sets the clock used to schedule opponent turns and stamp logs
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithRand sets the shared random source. Without it the session seeds
// one from the configured seed.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithPolicy replaces the configured opponent strategy
func WithPolicy(p policy.Policy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithEvaluator replaces the cached evaluator
func WithEvaluator(evaluate poker.EvaluateFunc) Option {
	return func(s *Session) {
		s.evaluate = evaluate
	}
}
