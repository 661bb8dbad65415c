// Package table is a generic paginated table backed by a server-side fetch.
//
// The table owns the paging state: current page, total pages and the rows of
// the current page. Navigation changes the page and then fetches it; each
// fetch fully replaces the displayed rows. Fetches carry a generation number
// so a slow response for an old page cannot overwrite a newer one.
package table

import (
	"context"
	"errors"
	"sync"

	"github.com/me/heroconsole/pkg/model"
)

// ErrStale is returned by a fetch whose response was superseded by a newer
// fetch or a Reset. The table state is left untouched.
var ErrStale = errors.New("stale page response")

// FetchFunc loads one page. Page numbers start at 1.
type FetchFunc[Row any] func(ctx context.Context, pageNumber, pageSize int) (model.Page[Row], error)

// Option configures a Table.
type Option[Row any] func(*Table[Row])

// WithErrorHandler sets a hook that receives every non-stale fetch error.
func WithErrorHandler[Row any](fn func(error)) Option[Row] {
	return func(t *Table[Row]) {
		t.onError = fn
	}
}

// Table is a paginated, server-fetched table.
type Table[Row any] struct {
	fetch   FetchFunc[Row]
	columns []Column[Row]
	onError func(error)

	mu          sync.Mutex
	pageSize    int
	currentPage int
	totalPages  int
	totalCount  int
	items       []Row
	loaded      bool
	generation  uint64
}

// New creates a table in its initial state: page 1 of 1, no rows.
// A non-positive pageSize uses model.DefaultPageSize.
func New[Row any](fetch FetchFunc[Row], columns []Column[Row], pageSize int, opts ...Option[Row]) *Table[Row] {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	t := &Table[Row]{
		fetch:       fetch,
		columns:     columns,
		pageSize:    pageSize,
		currentPage: 1,
		totalPages:  1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load fetches the current page. Front ends call it once on mount.
func (t *Table[Row]) Load(ctx context.Context) error {
	t.mu.Lock()
	page := t.currentPage
	t.mu.Unlock()
	return t.fetchPage(ctx, page)
}

// Next moves one page forward and fetches it. It does nothing on the last page.
func (t *Table[Row]) Next(ctx context.Context) error {
	t.mu.Lock()
	if t.currentPage >= t.totalPages {
		t.mu.Unlock()
		return nil
	}
	t.currentPage++
	page := t.currentPage
	t.mu.Unlock()
	return t.fetchPage(ctx, page)
}

// Prev moves one page back and fetches it. It does nothing on page 1.
func (t *Table[Row]) Prev(ctx context.Context) error {
	t.mu.Lock()
	if t.currentPage <= 1 {
		t.mu.Unlock()
		return nil
	}
	t.currentPage--
	page := t.currentPage
	t.mu.Unlock()
	return t.fetchPage(ctx, page)
}

// Goto jumps to page n and fetches it. n is clamped to 1 and, once a page has
// been loaded, to the known total.
func (t *Table[Row]) Goto(ctx context.Context, n int) error {
	t.mu.Lock()
	if n < 1 {
		n = 1
	}
	if t.loaded && n > t.totalPages {
		n = t.totalPages
	}
	t.currentPage = n
	t.mu.Unlock()
	return t.fetchPage(ctx, n)
}

// Open jumps to page n of a fresh listing. When n lies past the last page the
// listing reports, the last page is fetched instead.
func (t *Table[Row]) Open(ctx context.Context, n int) error {
	if err := t.Goto(ctx, n); err != nil {
		return err
	}
	if last := t.TotalPages(); t.CurrentPage() > last {
		return t.Goto(ctx, last)
	}
	return nil
}

// Reset starts a new paging session: page 1, no rows, and any in-flight
// response is dropped. Callers reset when their filter criteria change.
func (t *Table[Row]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentPage = 1
	t.totalPages = 1
	t.totalCount = 0
	t.items = nil
	t.loaded = false
	t.generation++
}

// SetPageSize changes the page size and resets the table.
func (t *Table[Row]) SetPageSize(n int) {
	if n <= 0 {
		n = model.DefaultPageSize
	}
	t.mu.Lock()
	t.pageSize = n
	t.mu.Unlock()
	t.Reset()
}

func (t *Table[Row]) fetchPage(ctx context.Context, page int) error {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	size := t.pageSize
	t.mu.Unlock()

	res, err := t.fetch(ctx, page, size)

	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		t.mu.Unlock()
		if t.onError != nil {
			t.onError(err)
		}
		return err
	}
	t.items = res.Items
	t.totalPages = max(res.TotalPages, 1)
	t.totalCount = res.TotalCount
	t.loaded = true
	t.mu.Unlock()
	return nil
}

// Columns returns the column definitions.
func (t *Table[Row]) Columns() []Column[Row] {
	return t.columns
}

// CurrentPage returns the page being shown (1-based).
func (t *Table[Row]) CurrentPage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentPage
}

// TotalPages returns the last known page count (at least 1).
func (t *Table[Row]) TotalPages() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalPages
}

// PageSize returns the page size.
func (t *Table[Row]) PageSize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageSize
}

// Items returns a copy of the current rows.
func (t *Table[Row]) Items() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Row(nil), t.items...)
}

// View is a render-ready copy of the table.
type View struct {
	Headers    []string
	Keys       []string
	Rows       [][]string
	Page       int
	TotalPages int
	TotalCount int
	PageSize   int
	HasPrev    bool
	HasNext    bool
}

// Snapshot renders every cell of the current page.
func (t *Table[Row]) Snapshot() View {
	t.mu.Lock()
	items := append([]Row(nil), t.items...)
	v := View{
		Page:       t.currentPage,
		TotalPages: t.totalPages,
		TotalCount: t.totalCount,
		PageSize:   t.pageSize,
		HasPrev:    t.currentPage > 1,
		HasNext:    t.currentPage < t.totalPages,
	}
	t.mu.Unlock()

	v.Headers = make([]string, len(t.columns))
	v.Keys = make([]string, len(t.columns))
	for i, c := range t.columns {
		v.Headers[i] = c.Header
		v.Keys[i] = c.Key
	}
	v.Rows = make([][]string, len(items))
	for i, row := range items {
		cells := make([]string, len(t.columns))
		for j, c := range t.columns {
			cells[j] = c.Cell(row)
		}
		v.Rows[i] = cells
	}
	return v
}
