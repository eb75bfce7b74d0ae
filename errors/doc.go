// Package errors provides standardized error handling patterns for fetchkit.
//
// # Overview
//
// The errors package implements a three-class error classification system
// for remote-fetch operations: Transient (temporary, retryable), Invalid
// (bad input, non-retryable), and Fatal (unrecoverable, stop processing).
// On top of it sits StructuredError, the terminal error the retry engine
// produces when an operation exhausts its retry budget.
//
// This classification enables intelligent error handling strategies without
// hardcoded error string matching at call sites, supporting errors.Is(),
// errors.As(), and error wrapping chains throughout.
//
// # Error Classification
//
// Errors are classified based on their type or content:
//
//   - Transient: network timeouts, connection issues, temporary unavailability (retry recommended)
//   - Invalid: malformed input, validation failures, bad configuration (do not retry)
//   - Fatal: resource exhaustion, unrecoverable states (stop processing)
//
// # Structured Errors
//
// When the retry engine gives up it finalizes the last failure into a
// StructuredError carrying the classification code, the logical path the
// operation targeted, and the number of retries consumed:
//
//	var se *errors.StructuredError
//	if stderrors.As(err, &se) {
//	    log.Error("fetch failed", "code", se.Code, "path", se.Path, "retries", se.RetryCount)
//	}
//
// The code is taken from the underlying error's own classification tag when
// it implements the Coder interface; otherwise it is CodeUnknown.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if !serviceAvailable {
//	    return errors.ErrConnectionTimeout
//	}
//
// Wrap errors with component context for debugging:
//
//	if err := store.Query(ctx, resource, q); err != nil {
//	    return errors.WrapTransient(err, "sqlstore", "Query", "select documents")
//	}
//
// Check classification for retry logic:
//
//	if errors.IsTransient(err) {
//	    // safe to retry
//	}
package errors
