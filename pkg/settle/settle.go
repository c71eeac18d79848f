package settle

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrPanic is wrapped by the error of a task that panicked.
var ErrPanic = errors.New("settle: task panicked")

// Result is the outcome of a single task.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task completed without error.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Func is a task. i is the task's position in [0, n).
type Func[T any] func(ctx context.Context, i int) (T, error)

// Option configures All.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit caps the number of tasks running at once.
// Zero or negative means no limit (the default).
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// All runs fn for every index in [0, n) and blocks until all of them have
// returned. The returned slice has length n and result i belongs to task i,
// regardless of completion order. ctx is passed through to every task as is;
// All never cancels it.
func All[T any](ctx context.Context, n int, fn Func[T], opts ...Option) []Result[T] {
	if n <= 0 {
		return []Result[T]{}
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	results := make([]Result[T], n)

	var g errgroup.Group
	if o.limit > 0 {
		g.SetLimit(o.limit)
	}

	for i := range n {
		g.Go(func() error {
			results[i] = run(ctx, i, fn)
			// Outcomes live in results; returning nil keeps errgroup from
			// reporting only the first failure.
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// run executes a single task and converts a panic into a failed Result.
func run[T any](ctx context.Context, i int, fn Func[T]) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()

	v, err := fn(ctx, i)
	return Result[T]{Value: v, Err: err}
}

// Errors returns the non-nil errors from results, in index order.
func Errors[T any](results []Result[T]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
