package catalog

import "sync"

// LookupCache maps record ids to books seen during this process. It never
// evicts and is never persisted. Writes are last-writer-wins per id.
// The zero value is not usable; call NewLookupCache.
type LookupCache struct {
	mu    sync.RWMutex
	books map[string]Book
}

// NewLookupCache returns an empty cache.
func NewLookupCache() *LookupCache {
	return &LookupCache{books: make(map[string]Book)}
}

// Get returns the cached book for id.
func (c *LookupCache) Get(id string) (Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.books[id]
	return b, ok
}

// Put stores b under its own id. Books without an id are ignored.
func (c *LookupCache) Put(b Book) {
	if b.ID == "" {
		return
	}
	c.mu.Lock()
	c.books[b.ID] = b
	c.mu.Unlock()
}

// PutAll stores every book in the slice.
func (c *LookupCache) PutAll(books []Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range books {
		if b.ID != "" {
			c.books[b.ID] = b
		}
	}
}

// Len returns the number of cached records.
func (c *LookupCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}
