package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/heroconsole/pkg/model"
)

type row struct {
	ID    int
	Name  string
	Count int
}

// fakeSource serves totalPages pages of rows and records every call.
type fakeSource struct {
	mu         sync.Mutex
	totalPages int
	calls      []int
	err        error
}

func (f *fakeSource) fetch(_ context.Context, page, size int) (model.Page[row], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if f.err != nil {
		return model.Page[row]{}, f.err
	}
	items := make([]row, 0, size)
	for i := 0; i < size; i++ {
		items = append(items, row{ID: (page-1)*size + i + 1})
	}
	return model.NewPage(items, page, f.totalPages, f.totalPages*size), nil
}

func (f *fakeSource) callLog() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func idColumns() []Column[row] {
	return []Column[row]{Field("ID", "id", func(r row) any { return r.ID })}
}

func TestTable_InitialState(t *testing.T) {
	src := &fakeSource{totalPages: 3}
	tbl := New(src.fetch, idColumns(), 2)

	assert.Equal(t, 1, tbl.CurrentPage())
	assert.Equal(t, 1, tbl.TotalPages())
	assert.Empty(t, tbl.Items())
	assert.Empty(t, src.callLog(), "nothing is fetched before Load")
}

func TestTable_LoadFetchesCurrentPage(t *testing.T) {
	src := &fakeSource{totalPages: 3}
	tbl := New(src.fetch, idColumns(), 2)

	require.NoError(t, tbl.Load(context.Background()))
	assert.Equal(t, []int{1}, src.callLog())
	assert.Equal(t, 3, tbl.TotalPages())
	assert.Len(t, tbl.Items(), 2)
}

func TestTable_PrevIsNoOpOnFirstPage(t *testing.T) {
	src := &fakeSource{totalPages: 3}
	tbl := New(src.fetch, idColumns(), 2)
	require.NoError(t, tbl.Load(context.Background()))

	require.NoError(t, tbl.Prev(context.Background()))
	assert.Equal(t, 1, tbl.CurrentPage())
	assert.Equal(t, []int{1}, src.callLog())
}

func TestTable_NextIsNoOpOnLastPage(t *testing.T) {
	src := &fakeSource{totalPages: 2}
	tbl := New(src.fetch, idColumns(), 2)
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))
	require.NoError(t, tbl.Next(ctx))

	require.NoError(t, tbl.Next(ctx))
	assert.Equal(t, 2, tbl.CurrentPage())
	assert.Equal(t, []int{1, 2}, src.callLog())
}

func TestTable_NavigationStepsByOneWithOneFetch(t *testing.T) {
	src := &fakeSource{totalPages: 3}
	tbl := New(src.fetch, idColumns(), 2)
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))

	require.NoError(t, tbl.Next(ctx))
	assert.Equal(t, 2, tbl.CurrentPage())
	require.NoError(t, tbl.Next(ctx))
	assert.Equal(t, 3, tbl.CurrentPage())
	require.NoError(t, tbl.Prev(ctx))
	assert.Equal(t, 2, tbl.CurrentPage())

	assert.Equal(t, []int{1, 2, 3, 2}, src.callLog())
	assert.Equal(t, 3, tbl.Items()[0].ID, "rows are replaced by the fetched page")
}

func TestTable_SinglePageDisablesBothDirections(t *testing.T) {
	src := &fakeSource{totalPages: 1}
	tbl := New(src.fetch, idColumns(), 2)
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))

	require.NoError(t, tbl.Next(ctx))
	require.NoError(t, tbl.Prev(ctx))
	v := tbl.Snapshot()
	assert.False(t, v.HasPrev)
	assert.False(t, v.HasNext)
	assert.Equal(t, []int{1}, src.callLog())
}

func TestTable_ZeroTotalPagesTreatedAsOne(t *testing.T) {
	tbl := New(func(context.Context, int, int) (model.Page[row], error) {
		return model.NewPage[row](nil, 1, 0, 0), nil
	}, idColumns(), 10)

	require.NoError(t, tbl.Load(context.Background()))
	assert.Equal(t, 1, tbl.TotalPages())
	assert.False(t, tbl.Snapshot().HasNext)
}

func TestTable_RendererWinsOverFalsyValues(t *testing.T) {
	cols := []Column[row]{
		Rendered("Count", "count", func(r row) any { return r.Count }, func(v any, _ row) string {
			if v.(int) == 0 {
				return "none"
			}
			return fmt.Sprint(v)
		}),
		Rendered("Name", "name", func(r row) any { return r.Name }, func(v any, _ row) string {
			return "[" + v.(string) + "]"
		}),
		Field("Raw", "raw", func(r row) any { return r.Count }),
		Action("Actions", "actions", func(r row) string { return "delete" }),
	}
	tbl := New(func(context.Context, int, int) (model.Page[row], error) {
		return model.NewPage([]row{{ID: 1, Count: 0, Name: ""}}, 1, 1, 1), nil
	}, cols, 10)
	require.NoError(t, tbl.Load(context.Background()))

	v := tbl.Snapshot()
	assert.Equal(t, []string{"Count", "Name", "Raw", "Actions"}, v.Headers)
	assert.Equal(t, [][]string{{"none", "[]", "0", "delete"}}, v.Rows)
}

func TestTable_NilValueRendersEmpty(t *testing.T) {
	col := Field("Comment", "commentUrl", func(r *string) any {
		if r == nil {
			return nil
		}
		return *r
	})
	assert.Equal(t, "", col.Cell(nil))
}

func TestTable_FetchErrorGoesToHandlerAndCaller(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSource{totalPages: 3, err: boom}
	var handled []error
	tbl := New(src.fetch, idColumns(), 2, WithErrorHandler[row](func(err error) { handled = append(handled, err) }))

	err := tbl.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []error{boom}, handled)
	assert.Empty(t, tbl.Items())
}

func TestTable_StaleResponseIsDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	tbl := New(func(ctx context.Context, page, size int) (model.Page[row], error) {
		if page == 2 {
			once.Do(func() { close(started) })
			<-release
		}
		return model.NewPage([]row{{ID: page * 100}}, page, 5, 5), nil
	}, idColumns(), 1)
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))

	slow := make(chan error, 1)
	go func() { slow <- tbl.Next(ctx) }() // page 2, blocks
	<-started

	require.NoError(t, tbl.Next(ctx)) // page 3 resolves first
	close(release)

	assert.ErrorIs(t, <-slow, ErrStale)
	assert.Equal(t, 3, tbl.CurrentPage())
	assert.Equal(t, 300, tbl.Items()[0].ID)
}

func TestTable_ResetInvalidatesSession(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls sync.WaitGroup

	tbl := New(func(ctx context.Context, page, size int) (model.Page[row], error) {
		if page == 2 {
			once.Do(func() { close(started) })
			<-release
		}
		return model.NewPage([]row{{ID: page}}, page, 4, 4), nil
	}, idColumns(), 1)
	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))

	calls.Add(1)
	var slowErr error
	go func() {
		defer calls.Done()
		slowErr = tbl.Next(ctx)
	}()
	<-started

	tbl.Reset()
	assert.Equal(t, 1, tbl.CurrentPage())
	assert.Equal(t, 1, tbl.TotalPages())
	assert.Empty(t, tbl.Items())

	close(release)
	calls.Wait()
	assert.ErrorIs(t, slowErr, ErrStale)
	assert.Empty(t, tbl.Items(), "response from the old session must not land")
}

func TestTable_Goto(t *testing.T) {
	src := &fakeSource{totalPages: 4}
	tbl := New(src.fetch, idColumns(), 1)
	ctx := context.Background()

	require.NoError(t, tbl.Goto(ctx, 3))
	assert.Equal(t, 3, tbl.CurrentPage())

	require.NoError(t, tbl.Goto(ctx, 99))
	assert.Equal(t, 4, tbl.CurrentPage())

	require.NoError(t, tbl.Goto(ctx, -2))
	assert.Equal(t, 1, tbl.CurrentPage())
	assert.Equal(t, []int{3, 4, 1}, src.callLog())
}

func TestTable_SetPageSize(t *testing.T) {
	src := &fakeSource{totalPages: 2}
	tbl := New(src.fetch, idColumns(), 0)
	assert.Equal(t, model.DefaultPageSize, tbl.PageSize())

	ctx := context.Background()
	require.NoError(t, tbl.Load(ctx))
	require.NoError(t, tbl.Next(ctx))

	tbl.SetPageSize(25)
	assert.Equal(t, 25, tbl.PageSize())
	assert.Equal(t, 1, tbl.CurrentPage())
	require.NoError(t, tbl.Load(ctx))
	assert.Len(t, tbl.Items(), 25)
}

func TestTable_OpenPastLastPageFallsBack(t *testing.T) {
	src := &fakeSource{totalPages: 3}
	tbl := New(src.fetch, idColumns(), 2)

	require.NoError(t, tbl.Open(context.Background(), 9))
	assert.Equal(t, []int{9, 3}, src.callLog())
	assert.Equal(t, 3, tbl.CurrentPage())
	assert.Equal(t, 5, tbl.Items()[0].ID)
}

func TestTable_OpenWithinRangeFetchesOnce(t *testing.T) {
	src := &fakeSource{totalPages: 3}
	tbl := New(src.fetch, idColumns(), 2)

	require.NoError(t, tbl.Open(context.Background(), 2))
	assert.Equal(t, []int{2}, src.callLog())
}
