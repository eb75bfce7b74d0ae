// Package retry provides bounded exponential backoff retry for transient
// remote-fetch failures.
//
// # Overview
//
// The package wraps a single asynchronous remote operation with a bounded
// retry loop: exponential backoff doubling from InitialBackoffDelay up to
// MaxBackoffDelay, a jitter factor uniform in [1.0, 1.1) applied to every
// delay, and finalization of the last failure into a
// *errors.StructuredError when the budget is exhausted.
//
// # Core Functions
//
//   - Do: execute an operation with retry and exponential backoff
//   - DoWithResult: same loop, returns the operation's typed result
//   - BackoffDelay: the jittered delay for a given 0-indexed attempt
//   - HandleSyncError: normalize a one-shot failure without retrying
//
// # Usage Examples
//
// Basic retry with defaults (3 retries, 1s initial delay):
//
//	page, err := retry.DoWithResult(ctx, "events", func() (docstore.Page, error) {
//	    return store.Query(ctx, "events", q)
//	}, retry.DefaultOptions())
//
// Observing the sequence through callbacks:
//
//	opts := retry.DefaultOptions()
//	opts.OnRetry = func(err error, attempt int) {
//	    logger.Warn("fetch failed, backing off", "attempt", attempt, "error", err)
//	}
//	opts.OnError = func(serr *errors.StructuredError) {
//	    logger.Error("fetch gave up", "code", serr.Code, "retries", serr.RetryCount)
//	}
//	err := retry.Do(ctx, "events", operation, opts)
//
// Marking a failure as not worth retrying:
//
//	return retry.NonRetryable(errors.ErrInvalidConfig)
//
// # Limitations
//
// Cancellation of an in-flight attempt is not supported: ctx is only
// consulted between attempts, during the backoff wait. An attempt against a
// hung remote with no timeout of its own will block indefinitely; supply an
// operation that enforces its own deadline if bounded latency is required.
// The engine imposes no cross-call locking: concurrent invocations against
// the same path run independently.
package retry
