package async

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by AwaitWithTimeout when the task does not settle
// in time. The task itself keeps running.
var ErrTimeout = errors.New("async: await timed out")

// Future is the observable handle of a detached background task.
type Future struct {
	err  error
	done chan struct{}
}

// Run executes fn in a new goroutine and returns immediately.
// A pre-canceled context short-circuits without invoking fn.
func Run(ctx context.Context, fn func(context.Context) error) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx)
	}()

	return f
}

// Done returns a channel closed when the task settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the task settles and returns its error.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout blocks until the task settles or the timeout elapses.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports whether the task has settled, without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
