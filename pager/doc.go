// Package pager provides cursor-based pagination over a pluggable remote
// document store.
//
// # Overview
//
// A Pager is bound to one docstore.Store and one ordering (a single sort
// key in a fixed direction, configured once, never per call). Navigation is
// driven by a small caller-persisted PaginationState record: every call
// takes the current state and returns a PageResult carrying the fetched
// documents, a replacement state, and an error code when something needed
// recovering.
//
// The pager never returns a Go error from its fetch entry points. Failures
// are communicated through PageResult.Code, so UI-facing callers can render
// from the result directly. Three codes exist:
//
//   - CodeInvalidCursor: the cursor document vanished. The returned state is
//     reset to page 1 with no data; re-issue FetchPage from scratch and
//     surface a brief "list was refreshed" notice.
//   - CodeOutOfBounds: the requested page fell beyond the end of the data.
//     The result already carries page 1's data with a reset state; accept it.
//   - CodeGeneralError: anything else. The passed-in state is returned
//     unchanged, so offering a plain retry is safe.
//
// # Usage
//
//	p, err := pager.New(store, pager.Options{PageSize: 20, OrderBy: "created_at"})
//	if err != nil { ... }
//
//	first := p.FetchPage(ctx, "events", nil)
//	next := p.FetchNextPage(ctx, "events", first.State)
//	prev := p.FetchPrevPage(ctx, "events", next.State)
//
// Requests that cannot advance (no next page, already on page 1) return
// without issuing a remote call and leave the state untouched.
//
// # Concurrency
//
// A Pager holds no mutable state and may serve concurrent callers. The
// caller owns state persistence: two navigation calls racing on the same
// state value produce an undefined winner, so disable navigation controls
// while a fetch is in flight.
package pager
