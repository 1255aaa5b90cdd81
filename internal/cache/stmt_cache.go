// Package cache provides an LRU cache of prepared statements keyed by the
// rendered SQL text.
package cache

import (
	"container/list"
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultStmtCacheCapacity is the default maximum number of cached prepared statements.
const DefaultStmtCacheCapacity = 1000

// PrepareFunc prepares query on a live connection.
type PrepareFunc func(ctx context.Context, query string) (*sql.Stmt, error)

// StmtCache stores prepared statements with LRU eviction.
//
// Statements returned by GetOrPrepare are pinned until their release func is
// called. A pinned statement that is evicted, replaced or cleared leaves the
// cache at once but is closed only when its last holder releases it.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lruList  *list.List

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key     string
	stmt    *sql.Stmt
	pins    int
	retired bool
}

// NewStmtCache creates a new prepared statement cache with default capacity.
func NewStmtCache() *StmtCache {
	return NewStmtCacheWithCapacity(DefaultStmtCacheCapacity)
}

// NewStmtCacheWithCapacity creates a cache holding at most capacity statements.
// Non-positive values select DefaultStmtCacheCapacity.
func NewStmtCacheWithCapacity(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultStmtCacheCapacity
	}
	return &StmtCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		lruList:  list.New(),
	}
}

// Get returns the statement cached for query and marks it most recently used.
// The statement is not pinned; use GetOrPrepare to hold it across a call.
func (sc *StmtCache) Get(query string) (*sql.Stmt, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	elem, exists := sc.items[query]
	if !exists {
		sc.misses.Add(1)
		return nil, false
	}

	sc.lruList.MoveToFront(elem)
	sc.hits.Add(1)
	return elem.Value.(*cacheEntry).stmt, true
}

// GetOrPrepare returns the pinned statement for query, preparing and caching
// it on a miss, and a func that releases the pin. The release func must be
// called once the statement and any rows read from it are done with; extra
// calls are no-ops. Prepare errors are returned as is and nothing is cached.
//
// When concurrent callers miss on the same query, the first to insert wins
// and the others close their own statement and use the cached one.
func (sc *StmtCache) GetOrPrepare(ctx context.Context, query string, prepare PrepareFunc) (*sql.Stmt, func(), error) {
	sc.mu.Lock()
	if elem, exists := sc.items[query]; exists {
		sc.hits.Add(1)
		entry := sc.pinLocked(elem)
		sc.mu.Unlock()
		return entry.stmt, sc.releaser(entry), nil
	}
	sc.misses.Add(1)
	sc.mu.Unlock()

	stmt, err := prepare(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if elem, exists := sc.items[query]; exists {
		// Another caller inserted first; ours was never handed out.
		_ = stmt.Close()
		entry := sc.pinLocked(elem)
		return entry.stmt, sc.releaser(entry), nil
	}

	entry := sc.pinLocked(sc.insertLocked(query, stmt))
	return entry.stmt, sc.releaser(entry), nil
}

// pinLocked marks elem most recently used and pins it.
// Must be called with lock held.
func (sc *StmtCache) pinLocked(elem *list.Element) *cacheEntry {
	sc.lruList.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry)
	entry.pins++
	return entry
}

func (sc *StmtCache) releaser(entry *cacheEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			sc.mu.Lock()
			defer sc.mu.Unlock()
			entry.pins--
			if entry.retired && entry.pins == 0 {
				_ = entry.stmt.Close()
			}
		})
	}
}

// Set stores stmt under query. A different statement previously cached under
// query is retired. When the cache is full the least recently used statement
// is evicted.
func (sc *StmtCache) Set(query string, stmt *sql.Stmt) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if elem, exists := sc.items[query]; exists {
		entry := elem.Value.(*cacheEntry)
		if entry.stmt == stmt {
			sc.lruList.MoveToFront(elem)
			return
		}
		sc.removeLocked(elem)
	}

	sc.insertLocked(query, stmt)
}

// insertLocked adds a new front entry, evicting first if the cache is full.
// Must be called with lock held.
func (sc *StmtCache) insertLocked(query string, stmt *sql.Stmt) *list.Element {
	if sc.lruList.Len() >= sc.capacity {
		sc.evictOldest()
	}
	elem := sc.lruList.PushFront(&cacheEntry{key: query, stmt: stmt})
	sc.items[query] = elem
	return elem
}

// Remove drops the statement cached for query, if any. It is closed now or,
// if pinned, on its last release.
func (sc *StmtCache) Remove(query string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	elem, exists := sc.items[query]
	if !exists {
		return false
	}
	sc.removeLocked(elem)
	return true
}

// IsPinned reports whether the statement cached for query is held by a caller.
func (sc *StmtCache) IsPinned(query string) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	elem, exists := sc.items[query]
	return exists && elem.Value.(*cacheEntry).pins > 0
}

// evictOldest removes the least recently used statement.
// Must be called with lock held.
func (sc *StmtCache) evictOldest() {
	elem := sc.lruList.Back()
	if elem == nil {
		return
	}
	sc.removeLocked(elem)
	sc.evictions.Add(1)
}

// removeLocked unlinks elem and retires its statement.
// Must be called with lock held.
func (sc *StmtCache) removeLocked(elem *list.Element) {
	sc.lruList.Remove(elem)
	entry := elem.Value.(*cacheEntry)
	delete(sc.items, entry.key)

	entry.retired = true
	if entry.pins == 0 {
		_ = entry.stmt.Close()
	}
}

// Clear removes all cached statements. Unpinned ones are closed now, pinned
// ones on their last release. Counters are kept.
func (sc *StmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for elem := sc.lruList.Front(); elem != nil; {
		next := elem.Next()
		sc.removeLocked(elem)
		elem = next
	}

	sc.items = make(map[string]*list.Element, sc.capacity)
	sc.lruList.Init()
}

// Stats holds cache performance metrics.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64 // hits / (hits + misses)
}

// Stats returns cache statistics.
func (sc *StmtCache) Stats() Stats {
	sc.mu.Lock()
	size := sc.lruList.Len()
	sc.mu.Unlock()

	hits := sc.hits.Load()
	misses := sc.misses.Load()

	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:      size,
		Capacity:  sc.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: sc.evictions.Load(),
		HitRate:   hitRate,
	}
}
