package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ItemError records the failure of one item of a chunked run.
type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e ItemError) Unwrap() error { return e.Err }

// RunChunked calls fn for every index in [0, n) in chunks of maxConcurrent: the
// members of a chunk run concurrently and the next chunk starts only after the
// whole chunk has finished. A failing item does not stop the others; its error is
// collected and returned in index order. Cancelling ctx stops further chunks.
func RunChunked(ctx context.Context, n, maxConcurrent int, fn func(ctx context.Context, i int) error) ([]ItemError, error) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	errs := make([]error, n)

	for start := 0; start < n; start += maxConcurrent {
		if err := ctx.Err(); err != nil {
			return collect(errs), err
		}
		end := min(start+maxConcurrent, n)

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				errs[i] = fn(ctx, i)
				return nil
			})
		}
		_ = g.Wait()
	}
	return collect(errs), nil
}

func collect(errs []error) []ItemError {
	var out []ItemError
	for i, err := range errs {
		if err != nil {
			out = append(out, ItemError{Index: i, Err: err})
		}
	}
	return out
}
