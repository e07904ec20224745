// Package async provides a small generic Future used to model suspendable work.
//
// A Future can be obtained by calling Async, which starts the supplied function in its
// own goroutine and immediately returns a *Future. Already settled futures are built with
// Resolved and Failed, and Promise hands out a pending future plus its settle function for
// callers that complete work from their own goroutines.
//
// The validation engine treats Future as the single suspension point of an asynchronous
// rule: it calls AwaitContext so that cancellation is observed exactly where the caller
// yields.
//
// # Usage
//
//	future := async.Async(ctx, email, func(ctx context.Context, v string) (bool, error) {
//	    return directory.Exists(ctx, v)
//	})
//
//	ok, err := future.AwaitContext(ctx)
//	if err != nil {
//	    // either the lookup failed or ctx was cancelled
//	}
//
// # Error Handling
//
// Functions return the error produced by the user callback, the context error when waiting
// is abandoned, or ErrTimeout from AwaitWithTimeout.
//
// # Performance Considerations
//
// Futures are lightweight wrappers around goroutines and channels. Resolved and Failed do
// not spawn goroutines at all.
package async
