package browse

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 { return &v }

func itemsNamed(ids ...int64) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, Item{ID: id, Title: "Product", Price: id * 10})
	}
	return out
}

// gateFetcher serves canned pages keyed by query text (plus cursor), and can
// hold a response until its gate is released.
type gateFetcher struct {
	mu        sync.Mutex
	pages     map[string]*Page
	errs      map[string]error
	gates     map[string]chan struct{}
	contexts  map[string]context.Context
	completed int64
}

func newGateFetcher() *gateFetcher {
	return &gateFetcher{
		pages:    map[string]*Page{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
		contexts: map[string]context.Context{},
	}
}

func fetchKey(q Query) string {
	key := q.Text
	if q.Cursor != nil {
		key += "#cursor"
	}
	return key
}

func (f *gateFetcher) FetchPage(ctx context.Context, q Query) (*Page, error) {
	key := fetchKey(q)
	f.mu.Lock()
	gate := f.gates[key]
	page := f.pages[key]
	err := f.errs[key]
	f.contexts[key] = ctx
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	atomic.AddInt64(&f.completed, 1)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (f *gateFetcher) waitCompleted(t *testing.T, n int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&f.completed) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d completed fetches", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitUntil(t *testing.T, c *Controller, cond func(View) bool) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v := c.View()
		if cond(v) {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for controller state, last view: %+v", v)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSetQuery_LoadsFirstPage(t *testing.T) {
	f := newGateFetcher()
	f.pages["apples"] = &Page{Items: itemsNamed(3, 2, 1), NextCursor: nil}

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "  apples  ", false, SortRelevance)

	v := waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.Equal(t, itemsNamed(3, 2, 1), v.Items)
	assert.Nil(t, v.NextCursor)
	assert.NoError(t, v.Err)
}

func TestSetQuery_StaleResponseNeverApplied_OldResolvesLast(t *testing.T) {
	f := newGateFetcher()
	f.gates["q1"] = make(chan struct{})
	f.pages["q1"] = &Page{Items: itemsNamed(1)}
	f.pages["q2"] = &Page{Items: itemsNamed(2)}

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "q1", false, SortRelevance)
	c.SetQuery("hash-mart", "q2", false, SortRelevance)

	// The fresh query resolves immediately.
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	// Now let the abandoned request finish; its result must be dropped.
	close(f.gates["q1"])
	f.waitCompleted(t, 2)

	v := c.View()
	assert.Equal(t, itemsNamed(2), v.Items)
}

func TestSetQuery_StaleResponseNeverApplied_OldResolvesFirst(t *testing.T) {
	f := newGateFetcher()
	f.gates["q1"] = make(chan struct{})
	f.gates["q2"] = make(chan struct{})
	f.pages["q1"] = &Page{Items: itemsNamed(1)}
	f.pages["q2"] = &Page{Items: itemsNamed(2)}

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "q1", false, SortRelevance)
	c.SetQuery("hash-mart", "q2", false, SortRelevance)

	close(f.gates["q1"])
	f.waitCompleted(t, 1)
	close(f.gates["q2"])

	v := waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.Equal(t, itemsNamed(2), v.Items)
}

func TestSetQuery_CancelsSupersededRequestContext(t *testing.T) {
	f := newGateFetcher()
	f.gates["q1"] = make(chan struct{})
	f.pages["q1"] = &Page{Items: itemsNamed(1)}
	f.pages["q2"] = &Page{Items: itemsNamed(2)}

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "q1", false, SortRelevance)

	waitUntil(t, c, func(View) bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.contexts["q1"] != nil
	})

	c.SetQuery("hash-mart", "q2", false, SortRelevance)

	f.mu.Lock()
	ctx := f.contexts["q1"]
	f.mu.Unlock()
	require.NotNil(t, ctx)
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("superseded request context was not cancelled")
	}
	close(f.gates["q1"])
}

func TestSetQuery_ResetsItemsAndCursor(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(5, 4), NextCursor: i64(3)}
	f.pages["q2"] = &Page{Items: itemsNamed(9)}

	c := NewController(f, 2)
	c.SetQuery("hash-mart", "q1", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	c.SetQuery("hash-mart", "q2", false, SortNewest)
	v := waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.Equal(t, itemsNamed(9), v.Items)
	assert.Nil(t, v.NextCursor)
}

func TestLoadMore_AppendsNextPage(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(5, 4), NextCursor: i64(3)}
	f.pages["q1#cursor"] = &Page{Items: itemsNamed(3, 2), NextCursor: i64(1)}

	c := NewController(f, 2)
	c.SetQuery("hash-mart", "q1", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	c.LoadMore()
	v := waitUntil(t, c, func(v View) bool { return !v.LoadingMore && len(v.Items) == 4 })
	assert.Equal(t, itemsNamed(5, 4, 3, 2), v.Items)
	require.NotNil(t, v.NextCursor)
	assert.Equal(t, int64(1), *v.NextCursor)
}

func TestLoadMore_NoOpWithoutCursor(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(1)}

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "q1", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	c.LoadMore()
	time.Sleep(10 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt64(&f.completed))
}

func TestLoadMore_SingleFlight(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(5, 4), NextCursor: i64(3)}
	f.gates["q1#cursor"] = make(chan struct{})
	f.pages["q1#cursor"] = &Page{Items: itemsNamed(3)}

	c := NewController(f, 2)
	c.SetQuery("hash-mart", "q1", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	c.LoadMore()
	c.LoadMore()
	c.LoadMore()
	close(f.gates["q1#cursor"])
	waitUntil(t, c, func(v View) bool { return !v.LoadingMore })

	// First page plus exactly one load-more.
	assert.EqualValues(t, 2, atomic.LoadInt64(&f.completed))
}

func TestLoadMore_FailureKeepsLoadedItems(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(5, 4), NextCursor: i64(3)}
	f.errs["q1#cursor"] = errors.New("upstream unavailable")

	c := NewController(f, 2)
	c.SetQuery("hash-mart", "q1", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	c.LoadMore()
	v := waitUntil(t, c, func(v View) bool { return v.Err != nil })
	assert.Equal(t, itemsNamed(5, 4), v.Items, "prior results are preserved")
	require.NotNil(t, v.NextCursor, "cursor stays usable for an explicit retry")
	assert.False(t, v.LoadingMore)
}

func TestLoadMore_ResultFromSupersededQueryDropped(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(5, 4), NextCursor: i64(3)}
	f.gates["q1#cursor"] = make(chan struct{})
	f.pages["q1#cursor"] = &Page{Items: itemsNamed(3, 2)}
	f.pages["q2"] = &Page{Items: itemsNamed(9)}

	c := NewController(f, 2)
	c.SetQuery("hash-mart", "q1", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })
	c.LoadMore()

	// Query changes while the load-more is still in flight.
	c.SetQuery("hash-mart", "q2", false, SortNewest)
	waitUntil(t, c, func(v View) bool { return !v.Loading })

	close(f.gates["q1#cursor"])
	f.waitCompleted(t, 3)

	v := c.View()
	assert.Equal(t, itemsNamed(9), v.Items)
	assert.Nil(t, v.NextCursor)
}

func TestFirstPageFailureSetsError(t *testing.T) {
	f := newGateFetcher()
	f.errs["q1"] = errors.New("boom")

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "q1", false, SortRelevance)

	v := waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.Error(t, v.Err)
	assert.Empty(t, v.Items)
}

func TestRetryAfterErrorClearsIt(t *testing.T) {
	f := newGateFetcher()
	f.errs["q1"] = errors.New("boom")
	f.pages["q2"] = &Page{Items: itemsNamed(1)}

	c := NewController(f, 24)
	c.SetQuery("hash-mart", "q1", false, SortRelevance)
	waitUntil(t, c, func(v View) bool { return v.Err != nil })

	c.SetQuery("hash-mart", "q2", false, SortRelevance)
	v := waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.NoError(t, v.Err)
	assert.Equal(t, itemsNamed(1), v.Items)
}

func TestSubscribeNotifiesOnStateChanges(t *testing.T) {
	f := newGateFetcher()
	f.pages["q1"] = &Page{Items: itemsNamed(1)}

	c := NewController(f, 24)
	var notified int64
	unsubscribe := c.Subscribe(func() { atomic.AddInt64(&notified, 1) })

	c.SetQuery("hash-mart", "q1", false, SortRelevance)
	waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.GreaterOrEqual(t, atomic.LoadInt64(&notified), int64(2), "loading and loaded transitions")

	before := atomic.LoadInt64(&notified)
	unsubscribe()
	c.SetQuery("hash-mart", "q1", false, SortRelevance)
	waitUntil(t, c, func(v View) bool { return !v.Loading })
	assert.Equal(t, before, atomic.LoadInt64(&notified))
}
