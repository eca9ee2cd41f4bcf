// Package async provides a small generic Future type for fire-and-forget
// work whose result may still be observed later.
//
// The dispatch queue uses it to run flushes in the background: Enqueue
// returns immediately while the flush proceeds, and callers that care about
// the outcome (explicit Flush, shutdown) can Await the returned Future.
//
// # Usage
//
//	future := async.Async(ctx, batch, func(ctx context.Context, b Batch) (Result, error) {
//	    return deliver(ctx, b)
//	})
//
//	// ... later, if the outcome matters:
//	result, err := future.Await()
//
// If the provided context is cancelled before the computation starts, the
// goroutine aborts early and the Future completes with the context error.
package async
