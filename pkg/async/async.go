package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

// complete stores the outcome exactly once and releases every waiter.
func (f *Future[U]) complete(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
	})
}

// Await waits for the asynchronous function to complete and returns its result and error.
// It blocks the calling goroutine with no way to abort; prefer AwaitContext.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever happens first.
// When ctx wins the race the context error is returned and the computation keeps
// running in the background until its own context observes the cancellation.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		// Early exit prevents running work for an already abandoned caller
		if err := ctx.Err(); err != nil {
			var zero U
			f.complete(zero, err)
			return
		}

		res, err := fn(ctx, param)
		f.complete(res, err)
	}()

	return f
}

// Resolved returns an already completed Future holding v.
// Useful for asynchronous contracts whose answer is known without suspending.
func Resolved[U any](v U) *Future[U] {
	f := newFuture[U]()
	f.complete(v, nil)
	return f
}

// Failed returns an already completed Future holding err.
func Failed[U any](err error) *Future[U] {
	f := newFuture[U]()
	var zero U
	f.complete(zero, err)
	return f
}

// Promise returns a pending Future together with the function that settles it.
// Only the first call to settle has an effect.
func Promise[U any]() (*Future[U], func(U, error)) {
	f := newFuture[U]()
	return f, f.complete
}
