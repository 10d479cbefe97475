// Package resolve runs fetch strategies in priority order until one yields
// an account. Strategies are tried sequentially; the first success wins and
// the remaining strategies are never touched. When every strategy fails, the
// caller gets the full failure trail in attempt order.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fraudlens/fraudlens/profile"
)

// Strategy is one way of obtaining an account. Fetch returns the account or
// an error wrapping one of the profile sentinel errors.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, username string) (*profile.Account, error)
}

// Result carries a resolved account and the strategy that produced it.
type Result struct {
	Account  *profile.Account
	Strategy string
}

// Attempt records one failed strategy attempt.
type Attempt struct {
	Strategy string
	Err      error
}

// ExhaustedError reports that every strategy failed, keeping the per-strategy
// reasons in the order they were attempted.
type ExhaustedError struct {
	Username string
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		reasons = append(reasons, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return fmt.Sprintf("all strategies failed for %q: %s", e.Username, strings.Join(reasons, "; "))
}

// Resolver tries strategies in the order given.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver over the given strategies. Order matters: it is the
// priority order.
func New(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{strategies: strategies, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve normalizes the username and runs the strategies until one
// succeeds. An empty username after normalization is terminal; no strategy
// is attempted. Exhaustion returns *ExhaustedError.
func (r *Resolver) Resolve(ctx context.Context, username string) (*Result, error) {
	name := profile.NormalizeUsername(username)
	if name == "" {
		return nil, fmt.Errorf("%w: empty username", profile.ErrInvalidInput)
	}

	r.logger.InfoContext(ctx, "resolving account", "username", name, "strategy_count", len(r.strategies))

	var attempts []Attempt
	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolution canceled: %w", err)
		}

		account, err := s.Fetch(ctx, name)
		if err == nil {
			r.logger.InfoContext(ctx, "account resolved", "username", name, "strategy", s.Name())
			return &Result{Account: account, Strategy: s.Name()}, nil
		}

		r.logger.Debug("strategy failed", "strategy", s.Name(), "username", name, "error", err)
		attempts = append(attempts, Attempt{Strategy: s.Name(), Err: err})
	}

	return nil, &ExhaustedError{Username: name, Attempts: attempts}
}
