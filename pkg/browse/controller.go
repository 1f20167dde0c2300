package browse

import (
	"context"
	"strings"
	"sync"
)

// Sort keys accepted by the products listing.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

const DefaultLimit = 24

// Item is one product summary row of a listing page.
type Item struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Price            int64   `json:"price"`
	Currency         string  `json:"currency"`
	InStock          bool    `json:"inStock"`
	IsLessThan10     bool    `json:"isLessThan10"`
	ReviewCount      int     `json:"reviewCount"`
	AverageRating    float64 `json:"averageRating"`
	PrimaryImagePath *string `json:"primaryImagePath"`
	PrimaryImageURL  *string `json:"primaryImageUrl"`
	Brand            *Brand  `json:"brand"`
}

type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is one fetched slice of a listing. NextCursor is non-nil iff more
// rows exist past this page.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor *int64 `json:"nextCursor"`
}

// Query is one immutable listing request. A fresh Query with a nil Cursor
// is built whenever any other field changes.
type Query struct {
	StoreSlug   string
	Text        string
	InStockOnly bool
	Sort        string
	Cursor      *int64
	Limit       int
}

// Fetcher answers listing queries. Implementations must honor ctx
// cancellation; the controller cancels the context of superseded requests.
type Fetcher interface {
	FetchPage(ctx context.Context, q Query) (*Page, error)
}

// View is a copy of the controller's observable state.
type View struct {
	Items       []Item
	NextCursor  *int64
	Loading     bool
	LoadingMore bool
	Err         error
}

// Controller drives cursor-paginated product browsing for one store
// section. Changing the query (store, text, stock filter or sort) abandons
// any in-flight request, resets the item list and starts over; LoadMore
// appends the next page.
//
// Overlapping requests are resolved with a generation counter: every query
// change bumps the generation, and a response is applied only if its
// generation still matches. A stale response from an abandoned query is
// dropped, never merged.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	limit   int

	base   Query // current query, cursor always nil
	gen    uint64
	cancel context.CancelFunc

	items       []Item
	nextCursor  *int64
	loading     bool
	loadingMore bool
	err         error

	listeners map[int]func()
	nextID    int
}

// NewController returns an idle controller. limit <= 0 falls back to
// DefaultLimit.
func NewController(fetcher Fetcher, limit int) *Controller {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Controller{
		fetcher:   fetcher,
		limit:     limit,
		listeners: map[int]func(){},
	}
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe func.
func (c *Controller) Subscribe(fn func()) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// View returns a copy of the observable state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return View{
		Items:       items,
		NextCursor:  c.nextCursor,
		Loading:     c.loading,
		LoadingMore: c.loadingMore,
		Err:         c.err,
	}
}

// SetQuery starts a fresh first-page load for the given filters. The text
// is trimmed; an in-flight request for the previous query is cancelled and
// its eventual result ignored.
func (c *Controller) SetQuery(storeSlug, text string, inStockOnly bool, sort string) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	gen := c.gen
	c.base = Query{
		StoreSlug:   storeSlug,
		Text:        strings.TrimSpace(text),
		InStockOnly: inStockOnly,
		Sort:        sort,
		Limit:       c.limit,
	}
	c.items = nil
	c.nextCursor = nil
	c.loading = true
	c.loadingMore = false
	c.err = nil
	q := c.base

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()
	c.notify()

	go c.fetch(ctx, q, gen, false)
}

// LoadMore fetches the page after the current cursor. It is a no-op when
// there is no next page, a first page is still loading, or a load-more is
// already in flight. A failed load keeps the rows already on screen.
func (c *Controller) LoadMore() {
	c.mu.Lock()
	if c.nextCursor == nil || c.loading || c.loadingMore {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	q := c.base
	q.Cursor = c.nextCursor
	c.loadingMore = true
	c.err = nil
	c.mu.Unlock()
	c.notify()

	go c.fetch(context.Background(), q, gen, true)
}

func (c *Controller) fetch(ctx context.Context, q Query, gen uint64, more bool) {
	page, err := c.fetcher.FetchPage(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		// Superseded while in flight; drop the result.
		c.mu.Unlock()
		return
	}
	if more {
		c.loadingMore = false
	} else {
		c.loading = false
	}
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.notify()
		return
	}
	if more {
		c.items = append(c.items, page.Items...)
	} else {
		c.items = page.Items
	}
	c.nextCursor = page.NextCursor
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
