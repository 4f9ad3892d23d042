package horizon

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/mogreeks/currency"
)

// Batch runs calc over every request with at most workers in flight. Results
// are index-aligned with reqs; a failed request leaves a zero amount in its
// slot and contributes its error to the combined error. One failure does not
// stop the others. Cancelling ctx stops requests that have not yet started.
func Batch[D, M, A any](ctx context.Context, calc Calculator[D, M, A], reqs []Request[D, M, A], workers int) ([]currency.MultipleAmount, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]currency.MultipleAmount, len(reqs))
	failures := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = fmt.Errorf("request %d: %w", i, err)
				return nil
			}
			theta, err := calc.Theta(reqs[i])
			if err != nil {
				failures[i] = fmt.Errorf("request %d: %w", i, err)
				return nil
			}
			out[i] = theta
			return nil
		})
	}
	// every worker returns nil; the group only bounds concurrency
	_ = g.Wait()
	return out, multierr.Combine(failures...)
}
