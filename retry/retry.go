// Package retry provides bounded exponential backoff retry with jitter and
// structured error finalization for remote fetch operations.
package retry

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/c360/fetchkit/errors"
)

var (
	// Thread-safe random source for jitter
	randMu     sync.Mutex
	randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NonRetryableError wraps errors that should not be retried
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable wraps an error to indicate it should not be retried
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable checks if an error is marked as non-retryable
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return stderrors.As(err, &nre)
}

// Options configures a single retry sequence. It is treated as immutable
// for the duration of the call.
type Options struct {
	// MaxRetries is the number of retry attempts after the initial try
	// (0 = run once, never retry).
	MaxRetries int
	// InitialBackoffDelay is the delay before the first retry.
	InitialBackoffDelay time.Duration
	// MaxBackoffDelay caps the unjittered backoff base. Must be >=
	// InitialBackoffDelay.
	MaxBackoffDelay time.Duration

	// OnRetry is invoked before each backoff wait with the failure and
	// the 0-indexed attempt number.
	OnRetry func(err error, attempt int)
	// OnSuccess is invoked with the operation's result on success.
	OnSuccess func(result any)
	// OnError is invoked with the finalized structured error when the
	// retry budget is exhausted or the failure is non-retryable.
	OnError func(serr *errors.StructuredError)
	// OnBackoff is invoked after OnRetry with the actual jittered delay
	// about to be waited. Intended for instrumentation.
	OnBackoff func(attempt int, delay time.Duration)

	// Jitter returns a uniform value in [0, 1). Nil uses the package's
	// shared seeded source. Injectable so tests can pin delays.
	Jitter func() float64
}

// DefaultOptions returns the default retry configuration: 3 retries,
// 1s initial delay, and a 16 minute cap so long-running background sync
// can back off without giving up quickly.
func DefaultOptions() Options {
	return Options{
		MaxRetries:          3,
		InitialBackoffDelay: 1 * time.Second,
		MaxBackoffDelay:     16 * time.Minute,
	}
}

// validate checks option invariants, applying defaults for zero values.
func (o Options) validate() (Options, error) {
	if o.MaxRetries < 0 {
		return o, errors.WrapInvalid(
			fmt.Errorf("maxRetries %d", o.MaxRetries),
			"retry", "validate", "maxRetries cannot be negative")
	}
	if o.InitialBackoffDelay < 0 || o.MaxBackoffDelay < 0 {
		return o, errors.WrapInvalid(
			fmt.Errorf("initial %v, max %v", o.InitialBackoffDelay, o.MaxBackoffDelay),
			"retry", "validate", "backoff delays cannot be negative")
	}
	if o.InitialBackoffDelay == 0 {
		o.InitialBackoffDelay = DefaultOptions().InitialBackoffDelay
	}
	if o.MaxBackoffDelay == 0 {
		o.MaxBackoffDelay = DefaultOptions().MaxBackoffDelay
	}
	if o.MaxBackoffDelay < o.InitialBackoffDelay {
		return o, errors.WrapInvalid(
			fmt.Errorf("initial %v, max %v", o.InitialBackoffDelay, o.MaxBackoffDelay),
			"retry", "validate", "maxBackoffDelay must be >= initialBackoffDelay")
	}
	return o, nil
}

// BackoffDelay computes the jittered delay before retry attempt (0-indexed).
// The unjittered base doubles each attempt from InitialBackoffDelay, capped
// at MaxBackoffDelay, then a jitter factor uniform in [1.0, 1.1) is applied:
// the jitter only ever lengthens the delay, up to +10%.
func BackoffDelay(attempt int, opts Options) time.Duration {
	base := opts.InitialBackoffDelay
	// Shift with overflow protection: past 62 doublings any positive
	// initial delay exceeds the cap anyway.
	if attempt >= 62 || base > opts.MaxBackoffDelay>>uint(attempt) {
		base = opts.MaxBackoffDelay
	} else {
		base <<= uint(attempt)
		if base > opts.MaxBackoffDelay {
			base = opts.MaxBackoffDelay
		}
	}

	jitter := opts.Jitter
	if jitter == nil {
		jitter = func() float64 {
			randMu.Lock()
			defer randMu.Unlock()
			return randSource.Float64()
		}
	}
	factor := 1.0 + 0.1*jitter()
	return time.Duration(float64(base) * factor)
}

// Do executes op with exponential backoff retry. The path identifies the
// logical resource the operation targets and is carried into the finalized
// StructuredError for diagnostics.
//
// The operation is called 1 + MaxRetries times at most; a success at any
// point stops the loop and fires OnSuccess with a nil result. On exhaustion
// the last failure is finalized into a *errors.StructuredError with
// RetryCount equal to MaxRetries, OnError fires, and the structured error
// is returned. Errors wrapped with NonRetryable short-circuit the loop and
// are finalized immediately with the retries consumed so far.
//
// Each invocation is independent: no cross-call locking, no deduplication
// per path. Cancellation is honored at every backoff wait via ctx; the
// underlying operation must enforce its own timeout if bounded latency per
// attempt is required.
func Do(ctx context.Context, path string, op func() error, opts Options) error {
	_, err := DoWithResult(ctx, path, func() (any, error) {
		return nil, op()
	}, opts)
	return err
}

// DoWithResult executes op with retry and returns its result.
// See Do for the retry contract.
func DoWithResult[T any](ctx context.Context, path string, op func() (T, error), opts Options) (T, error) {
	var zero T

	opts, verr := opts.validate()
	if verr != nil {
		return zero, verr
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := op()
		if err == nil {
			if opts.OnSuccess != nil {
				opts.OnSuccess(result)
			}
			return result, nil
		}
		lastErr = err

		// Non-retryable failures and exhaustion finalize immediately.
		if IsNonRetryable(err) || attempt >= opts.MaxRetries {
			return zero, finalize(lastErr, path, attempt, opts)
		}

		if opts.OnRetry != nil {
			opts.OnRetry(err, attempt)
		}

		delay := BackoffDelay(attempt, opts)
		if opts.OnBackoff != nil {
			opts.OnBackoff(attempt, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			cancelErr := fmt.Errorf("retry cancelled during backoff for attempt %d: %w", attempt+1, ctx.Err())
			return zero, finalize(cancelErr, path, attempt, opts)
		case <-timer.C:
		}
	}
}

// HandleSyncError normalizes a one-shot failure into a StructuredError
// without retrying, firing OnError if configured. It is used standalone by
// callers that want a classified error outside the retry loop.
func HandleSyncError(err error, path string, retryCount int, opts Options) *errors.StructuredError {
	if err == nil {
		return nil
	}
	return finalize(err, path, retryCount, opts)
}

func finalize(err error, path string, retryCount int, opts Options) *errors.StructuredError {
	// Unwrap the non-retryable marker so classification sees the cause.
	var nre *NonRetryableError
	if stderrors.As(err, &nre) {
		err = nre.Err
	}
	serr := errors.NewStructured(err, path, retryCount)
	if opts.OnError != nil {
		opts.OnError(serr)
	}
	return serr
}
