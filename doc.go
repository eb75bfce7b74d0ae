// Package fetchkit provides a vendor-agnostic resilient remote-fetch layer:
// bounded exponential-backoff retry and cursor-based pagination over a
// pluggable remote document store.
//
// # Architecture
//
// Two independent, composable components sit at the core:
//
//   - retry: wraps a single asynchronous remote operation with bounded
//     exponential-backoff retry, jitter, and structured error
//     classification. Failures surface as *errors.StructuredError.
//   - pager: wraps a cursor-shaped query with forward/backward page
//     navigation, dangling-cursor recovery, and out-of-bounds recovery.
//     Failures surface as result codes, never as thrown errors.
//
// The retry engine has no dependency on the pager; the pager optionally
// routes its remote queries through the retry engine. Both consume the
// abstract store interface in the docstore package, so the concrete backend
// (in-memory, SQLite, NATS JetStream KV) is an implementation detail.
//
// # Package Layout
//
//   - errors: classification, wrap helpers, StructuredError
//   - retry: the retry engine
//   - pager: the paginator and its state/result types
//   - docstore: the consumed store interface and invalid-cursor sentinel
//   - docstore/memstore: in-memory backend (tests, examples)
//   - docstore/sqlstore: SQLite backend with keyset pagination
//   - docstore/natskv: NATS JetStream KV backend
//   - metric: Prometheus instrumentation for both engines
//   - config: YAML-loadable defaults
//   - cmd/fetchctl: demo CLI
//
// # Error Handling Asymmetry
//
// Retry is a low-level primitive: it returns errors, so it composes. The
// pager is a UI-facing primitive: it always resolves to a PageResult whose
// Code field communicates failure, so callers can render list state without
// wrapping navigation in error-handling control flow. This asymmetry is
// intentional.
//
// # What fetchkit Does Not Do
//
// No cross-call deduplication (two concurrent fetches for the same path
// both run), no timeouts on the underlying store call (supply an operation
// that enforces its own deadline), no cross-session persistence of
// pagination state (callers may serialize PaginationState themselves).
package fetchkit
