package cart

import (
	"encoding/json"
	"sync"
)

// Item is one line of the cart. Items are owned by the Store and never
// handed out by reference: Snapshot copies them.
type Item struct {
	ProductID        int64   `json:"productId"`
	Title            string  `json:"title"`
	Price            int64   `json:"price"`
	PrimaryImagePath *string `json:"primaryImagePath"`
	PrimaryImageURL  *string `json:"primaryImageUrl"`
	BrandName        *string `json:"brandName"`
	Qty              int     `json:"qty"`
}

// AddItemInput identifies the product being added. Quantity is implicit:
// every AddItem adds exactly one unit.
type AddItemInput struct {
	ProductID        int64
	Title            string
	Price            int64
	PrimaryImagePath *string
	PrimaryImageURL  *string
	BrandName        *string
}

// State is a read-only view of the cart. TotalItems and Subtotal are
// recomputed wholesale on every mutation, never adjusted incrementally.
type State struct {
	StoreSlug   *string
	StoreName   *string
	Items       map[int64]Item
	TotalItems  int
	Subtotal    int64
	IsOpen      bool
	HasHydrated bool
}

// snapshot is the persisted document. Its JSON shape is shared with the web
// client, so the field names are fixed.
type snapshot struct {
	StoreSlug  *string        `json:"storeSlug"`
	StoreName  *string        `json:"storeName"`
	Items      map[int64]Item `json:"items"`
	TotalItems int            `json:"totalItems"`
	Subtotal   int64          `json:"subtotal"`
}

// Store holds the authoritative in-memory cart. A cart belongs to at most
// one grocery store at a time; adding a product from a different store
// discards the current contents first. Every mutation persists the new
// snapshot and then notifies subscribers, so subscribers never observe a
// partially updated state.
type Store struct {
	mu        sync.Mutex
	storage   Storage
	state     State
	listeners map[int]func()
	nextID    int
}

// New returns an empty, closed cart backed by storage. A nil storage
// disables persistence; the cart still works in memory.
func New(storage Storage) *Store {
	return &Store{
		storage:   storage,
		state:     State{Items: map[int64]Item{}},
		listeners: map[int]func(){},
	}
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe func. Callbacks run outside the store's lock, so they may call
// back into the store.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

func (s *Store) copyStateLocked() State {
	out := s.state
	out.Items = make(map[int64]Item, len(s.state.Items))
	for id, item := range s.state.Items {
		out.Items[id] = item
	}
	return out
}

// AddItem inserts product or increments its quantity by one. If the cart is
// empty or currently holds another store's items, it is cleared and adopts
// storeSlug/storeName before the insert. The cart panel is opened.
func (s *Store) AddItem(product AddItemInput, storeSlug, storeName string) {
	s.mu.Lock()
	if s.state.StoreSlug == nil || *s.state.StoreSlug != storeSlug {
		s.state.Items = map[int64]Item{}
		s.state.StoreSlug = &storeSlug
		if storeName != "" {
			s.state.StoreName = &storeName
		} else {
			s.state.StoreName = nil
		}
	} else if storeName != "" && s.state.StoreName == nil {
		s.state.StoreName = &storeName
	}

	qty := 1
	if existing, ok := s.state.Items[product.ProductID]; ok {
		qty = existing.Qty + 1
	}
	s.state.Items[product.ProductID] = Item{
		ProductID:        product.ProductID,
		Title:            product.Title,
		Price:            product.Price,
		PrimaryImagePath: product.PrimaryImagePath,
		PrimaryImageURL:  product.PrimaryImageURL,
		BrandName:        product.BrandName,
		Qty:              qty,
	}
	s.state.IsOpen = true
	s.finishMutationLocked()
}

// Inc increments the quantity of productId. Absent ids are a no-op.
func (s *Store) Inc(productID int64) {
	s.mu.Lock()
	existing, ok := s.state.Items[productID]
	if !ok {
		s.mu.Unlock()
		return
	}
	existing.Qty++
	s.state.Items[productID] = existing
	s.finishMutationLocked()
}

// Dec decrements the quantity of productId, removing the item when it would
// fall below one. Absent ids are a no-op.
func (s *Store) Dec(productID int64) {
	s.mu.Lock()
	existing, ok := s.state.Items[productID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if existing.Qty <= 1 {
		delete(s.state.Items, productID)
	} else {
		existing.Qty--
		s.state.Items[productID] = existing
	}
	s.finishMutationLocked()
}

// Remove deletes the item regardless of quantity. Absent ids are a no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	if _, ok := s.state.Items[productID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.state.Items, productID)
	s.finishMutationLocked()
}

// Clear resets the cart to its empty initial state, keeping HasHydrated.
func (s *Store) Clear() {
	s.mu.Lock()
	hydrated := s.state.HasHydrated
	s.state = State{Items: map[int64]Item{}, HasHydrated: hydrated}
	s.finishMutationLocked()
}

// Open, Close and Toggle flip the cart panel flag only; totals are left
// untouched and nothing is persisted.
func (s *Store) Open()  { s.setOpen(func(bool) bool { return true }) }
func (s *Store) Close() { s.setOpen(func(bool) bool { return false }) }
func (s *Store) Toggle() {
	s.setOpen(func(open bool) bool { return !open })
}

func (s *Store) setOpen(next func(bool) bool) {
	s.mu.Lock()
	s.state.IsOpen = next(s.state.IsOpen)
	s.mu.Unlock()
	s.notify()
}

// Hydrate loads the persisted snapshot into memory. A missing or corrupt
// snapshot leaves the defaults in place. Either way HasHydrated becomes
// true, the panel is forced closed, and totals are recomputed from the
// loaded items. Safe to call more than once.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer func() {
		s.enforceStoreInvariantLocked()
		s.recomputeTotalsLocked()
		s.state.IsOpen = false
		s.state.HasHydrated = true
		s.mu.Unlock()
		s.notify()
	}()

	if s.storage == nil {
		return
	}
	raw, err := s.storage.Load()
	if err != nil || len(raw) == 0 {
		return
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return
	}
	items := map[int64]Item{}
	for id, item := range snap.Items {
		if item.Qty < 1 {
			continue
		}
		items[id] = item
	}
	s.state.StoreSlug = snap.StoreSlug
	s.state.StoreName = snap.StoreName
	s.state.Items = items
}

// finishMutationLocked completes every item mutation: the single-store
// invariant is re-checked, totals recomputed, the snapshot persisted, and
// subscribers notified. Expects s.mu held; releases it.
func (s *Store) finishMutationLocked() {
	s.enforceStoreInvariantLocked()
	s.recomputeTotalsLocked()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// enforceStoreInvariantLocked keeps StoreSlug non-nil iff items exist.
func (s *Store) enforceStoreInvariantLocked() {
	if len(s.state.Items) == 0 {
		s.state.StoreSlug = nil
		s.state.StoreName = nil
	}
}

func (s *Store) recomputeTotalsLocked() {
	totalItems := 0
	var subtotal int64
	for _, item := range s.state.Items {
		totalItems += item.Qty
		subtotal += item.Price * int64(item.Qty)
	}
	s.state.TotalItems = totalItems
	s.state.Subtotal = subtotal
}

// persistLocked writes the snapshot. Storage failures are swallowed: the
// in-memory state stays authoritative.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	snap := snapshot{
		StoreSlug:  s.state.StoreSlug,
		StoreName:  s.state.StoreName,
		Items:      s.state.Items,
		TotalItems: s.state.TotalItems,
		Subtotal:   s.state.Subtotal,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = s.storage.Save(raw)
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
