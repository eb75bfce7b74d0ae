// Package pager provides cursor-based page navigation over a remote
// document store, with recovery policies for dangling cursors and
// out-of-bounds pages.
package pager

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/fetchkit/docstore"
	"github.com/c360/fetchkit/errors"
	"github.com/c360/fetchkit/metric"
	"github.com/c360/fetchkit/retry"
)

// ErrCode classifies a failed page fetch. Exactly three codes exist, each
// mapped to one recovery policy; anything that is not a dangling cursor or
// an out-of-bounds page collapses into CodeGeneralError.
type ErrCode string

const (
	// CodeInvalidCursor: the cursor document no longer exists. The pager
	// resets to page 1 and discards the cursor; the caller re-issues
	// FetchPage from scratch.
	CodeInvalidCursor ErrCode = "invalid-cursor"
	// CodeOutOfBounds: the requested page lies beyond the data set. The
	// pager falls back to page 1 and returns that page's data.
	CodeOutOfBounds ErrCode = "out-of-bounds"
	// CodeGeneralError: any other remote failure. State is passed through
	// unchanged so the caller can safely retry.
	CodeGeneralError ErrCode = "general-error"
)

// PaginationState is the caller-persisted record of pagination position.
// It is replaced, never mutated, on every successful or recovered fetch.
// The cursor is only meaningful together with the CurrentPage and PageSize
// that produced it; stale combinations are detected and recovered.
type PaginationState struct {
	CurrentPage   int       // 1-based page number
	PageSize      int       // items per page
	HasNextPage   bool      // false means a forward request is a no-op
	HasPrevPage   bool      // false means a backward request is a no-op
	LastVisibleID string    // opaque cursor: ID of the current page's last item
	Timestamp     time.Time // when this state was produced
}

// PageResult is the return value of every pager operation. The pager never
// returns a Go error from its fetch entry points; failures ride in Code so
// UI-facing callers can render state without wrapping navigation in
// error-handling control flow.
type PageResult struct {
	Data  []docstore.Document
	State PaginationState
	Code  ErrCode // empty on success
}

// Options configures a Pager. The sort key and direction are fixed per
// pager, not per call; results are never reordered within a page.
type Options struct {
	// OrderBy names the sort field passed to the store.
	OrderBy string
	// Descending reverses the sort direction.
	Descending bool
	// PageSize is the number of items per page. Defaults to 10.
	PageSize int
	// Retry, when set, runs every remote query through the retry engine.
	// Dangling-cursor failures are marked non-retryable so recovery stays
	// immediate.
	Retry *retry.Options
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics, when set, records pages fetched, no-ops, recoveries, and
	// retry activity.
	Metrics *metric.Metrics
}

// DefaultOptions returns the default pager configuration.
func DefaultOptions() Options {
	return Options{PageSize: 10}
}

// Pager navigates one store's resources page by page. It holds no mutable
// state of its own: each call receives and returns its own PaginationState,
// so a single Pager may serve concurrent callers. Concurrent navigation
// against the same state value is a caller error (undefined which result
// wins); callers should serialize updates to a given logical state.
type Pager struct {
	store   docstore.Store
	opts    Options
	logger  *slog.Logger
	metrics *metric.Metrics
}

// New creates a Pager over the given store.
func New(store docstore.Store, opts Options) (*Pager, error) {
	if store == nil {
		return nil, errors.WrapInvalid(stderrors.New("nil store"), "pager", "New", "validate store")
	}
	if opts.PageSize == 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.PageSize < 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("pageSize %d", opts.PageSize), "pager", "New", "validate pageSize")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager{
		store:   store,
		opts:    opts,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// FetchPage fetches the first page of resource, or, when existing carries a
// cursor, the page after it. It is the primitive underneath FetchNextPage
// and FetchPrevPage, and is also used directly to resume from a remembered
// state or to start over after a CodeInvalidCursor recovery.
func (p *Pager) FetchPage(ctx context.Context, resource string, existing *PaginationState) PageResult {
	targetPage := 1
	cursor := ""
	if existing != nil && existing.LastVisibleID != "" {
		targetPage = existing.CurrentPage + 1
		cursor = existing.LastVisibleID
	}

	page, err := p.query(ctx, resource, cursor)
	if err != nil {
		return p.recover(resource, existing, err)
	}

	// Zero rows beyond page 1 means the target page fell off the end of
	// the data set: fall back to page 1 and say so, one extra call.
	if len(page.Items) == 0 && targetPage > 1 {
		first, ferr := p.query(ctx, resource, "")
		if ferr != nil {
			return p.recover(resource, existing, ferr)
		}
		p.metrics.ObserveRecovery(resource, string(CodeOutOfBounds))
		p.logger.Warn("page out of bounds, fell back to page 1",
			"resource", resource, "requested_page", targetPage)
		return PageResult{
			Data:  first.Items,
			State: p.newState(1, first),
			Code:  CodeOutOfBounds,
		}
	}

	direction := "initial"
	if cursor != "" {
		direction = "forward"
	}
	p.metrics.ObservePage(resource, direction)

	return PageResult{
		Data:  page.Items,
		State: p.newState(targetPage, page),
	}
}

// FetchNextPage fetches the page after state. When state reports no next
// page the call is a pure no-op: no remote call is issued and the state is
// returned unchanged.
func (p *Pager) FetchNextPage(ctx context.Context, resource string, state PaginationState) PageResult {
	if !state.HasNextPage {
		p.metrics.ObserveNoOp(resource, "forward")
		return PageResult{State: state}
	}
	return p.FetchPage(ctx, resource, &state)
}

// FetchPrevPage fetches the page before state. When state is already on
// page 1 or reports no previous page the call is a pure no-op.
//
// Backward navigation restarts from page 1 and re-fetches forward to the
// target page, so its cost is proportional to the target page number rather
// than O(1). This is an intentional trade-off: the cursor identifies only
// the end of a page, and keeping a backward cursor stack inside
// caller-persisted state is not worth the complexity for shallow lists.
func (p *Pager) FetchPrevPage(ctx context.Context, resource string, state PaginationState) PageResult {
	if state.CurrentPage <= 1 || !state.HasPrevPage {
		p.metrics.ObserveNoOp(resource, "backward")
		return PageResult{State: state}
	}

	target := state.CurrentPage - 1
	result := p.FetchPage(ctx, resource, nil)
	if result.Code != "" || target == 1 {
		return result
	}

	for page := 2; page <= target; page++ {
		// The data set shrank underneath us; settle for the deepest
		// page still available.
		if !result.State.HasNextPage {
			break
		}
		result = p.FetchPage(ctx, resource, &result.State)
		if result.Code != "" {
			return result
		}
	}
	return result
}

// newState builds the replacement state for a successfully fetched page.
func (p *Pager) newState(pageNum int, page docstore.Page) PaginationState {
	state := PaginationState{
		CurrentPage: pageNum,
		PageSize:    p.opts.PageSize,
		HasPrevPage: pageNum > 1,
		HasNextPage: len(page.Items) == p.opts.PageSize && !page.IsLastPage,
		Timestamp:   time.Now(),
	}
	if len(page.Items) > 0 {
		state.LastVisibleID = page.Items[len(page.Items)-1].ID
	}
	return state
}

// resetState is the page-1 skeleton returned by cursor recovery.
func (p *Pager) resetState() PaginationState {
	return PaginationState{
		CurrentPage: 1,
		PageSize:    p.opts.PageSize,
		Timestamp:   time.Now(),
	}
}

// recover maps a failed query onto the error taxonomy.
func (p *Pager) recover(resource string, existing *PaginationState, err error) PageResult {
	if docstore.IsInvalidCursor(err) {
		p.metrics.ObserveRecovery(resource, string(CodeInvalidCursor))
		p.logger.Warn("pagination cursor no longer exists, resetting to page 1",
			"resource", resource, "error", err)
		return PageResult{
			State: p.resetState(),
			Code:  CodeInvalidCursor,
		}
	}

	p.metrics.ObserveRecovery(resource, string(CodeGeneralError))
	p.logger.Error("page fetch failed", "resource", resource, "error", err)

	// No forced reset: the caller may retry with the same state.
	state := p.resetState()
	if existing != nil {
		state = *existing
	}
	return PageResult{
		State: state,
		Code:  CodeGeneralError,
	}
}

// query issues one page-shaped read, optionally through the retry engine.
func (p *Pager) query(ctx context.Context, resource, cursor string) (docstore.Page, error) {
	q := docstore.Query{
		OrderBy:    p.opts.OrderBy,
		Descending: p.opts.Descending,
		Limit:      p.opts.PageSize,
		StartAfter: cursor,
	}

	if p.opts.Retry == nil {
		return p.store.Query(ctx, resource, q)
	}

	ropts := *p.opts.Retry
	prevBackoff := ropts.OnBackoff
	ropts.OnBackoff = func(attempt int, delay time.Duration) {
		p.metrics.ObserveRetry(resource, delay)
		if prevBackoff != nil {
			prevBackoff(attempt, delay)
		}
	}
	prevError := ropts.OnError
	ropts.OnError = func(serr *errors.StructuredError) {
		p.metrics.ObserveExhausted(resource, serr.Code)
		if prevError != nil {
			prevError(serr)
		}
	}

	return retry.DoWithResult(ctx, resource, func() (docstore.Page, error) {
		page, err := p.store.Query(ctx, resource, q)
		if err != nil && docstore.IsInvalidCursor(err) {
			// Recovery must be immediate, not delayed by backoff.
			return page, retry.NonRetryable(err)
		}
		return page, err
	}, ropts)
}
