// Package composite provides a strategy built by nesting other strategies
package composite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jzx17/goresilience/pkg/types"
)

// Strategy folds an ordered list of strategies into a single nested
// execution chain. The first strategy in the list is the innermost wrapper
// and receives the real operation; each subsequent strategy wraps the chain
// built so far, so the last strategy is the outermost and its result is the
// overall result.
//
// For the common (timeout, retry, circuit breaker) triple this places the
// per-attempt deadline innermost, so each individual attempt is
// time-bounded while timeouts still count toward the breaker state. Listing
// retry before timeout instead would put a single deadline around the whole
// retry sequence.
//
// The composite adds no locking and no error translation; it is safe for
// concurrent use exactly when every strategy in the chain is.
type Strategy struct {
	name       string
	strategies []types.Strategy
}

// New creates a composite from an ordered, non-empty strategy list
func New(strategies ...types.Strategy) (*Strategy, error) {
	if len(strategies) == 0 {
		return nil, errors.New("composite: at least one strategy is required")
	}

	names := make([]string, len(strategies))
	for i, s := range strategies {
		if s == nil {
			return nil, fmt.Errorf("composite: strategy at index %d is nil", i)
		}
		names[i] = s.Name()
	}

	return &Strategy{
		name:       "composite(" + strings.Join(names, ",") + ")",
		strategies: append([]types.Strategy(nil), strategies...),
	}, nil
}

// Name returns the composite name listing the chain innermost-first
func (c *Strategy) Name() string {
	return c.name
}

// Run executes op through the nested chain, outermost strategy first
func (c *Strategy) Run(ctx context.Context, op types.Operation) error {
	wrapped := op
	for _, s := range c.strategies {
		s, inner := s, wrapped
		wrapped = func(ctx context.Context) error {
			return s.Run(ctx, inner)
		}
	}
	return wrapped(ctx)
}

// Strategies returns the chain in construction order, innermost first
func (c *Strategy) Strategies() []types.Strategy {
	return append([]types.Strategy(nil), c.strategies...)
}
