package cache

import (
	"container/list"
	"database/sql"
	"sync"
)

// DefaultStmtCapacity bounds the prepared-statement cache. The app's query
// shapes number in the dozens, so this is generous.
const DefaultStmtCapacity = 256

// StmtCache keeps prepared statements keyed by SQL text with LRU eviction.
// Evicted and replaced statements are closed best effort.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

type stmtEntry struct {
	sql  string
	stmt *sql.Stmt
}

// NewStmtCache creates a statement cache. Non-positive capacity falls back to
// DefaultStmtCapacity.
func NewStmtCache(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultStmtCapacity
	}
	return &StmtCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached statement for the SQL text, refreshing its LRU
// position.
func (sc *StmtCache) Get(sqlText string) (*sql.Stmt, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	elem, ok := sc.items[sqlText]
	if !ok {
		return nil, false
	}
	sc.order.MoveToFront(elem)
	return elem.Value.(*stmtEntry).stmt, true
}

// Put stores a prepared statement, evicting the least recently used one when
// at capacity.
func (sc *StmtCache) Put(sqlText string, stmt *sql.Stmt) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if elem, ok := sc.items[sqlText]; ok {
		sc.order.MoveToFront(elem)
		e := elem.Value.(*stmtEntry)
		_ = e.stmt.Close()
		e.stmt = stmt
		return
	}

	if sc.order.Len() >= sc.capacity {
		oldest := sc.order.Back()
		if oldest != nil {
			sc.order.Remove(oldest)
			e := oldest.Value.(*stmtEntry)
			delete(sc.items, e.sql)
			_ = e.stmt.Close()
		}
	}

	sc.items[sqlText] = sc.order.PushFront(&stmtEntry{sql: sqlText, stmt: stmt})
}

// Len returns the number of cached statements.
func (sc *StmtCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.order.Len()
}

// Close closes and drops every cached statement.
func (sc *StmtCache) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for elem := sc.order.Front(); elem != nil; elem = elem.Next() {
		_ = elem.Value.(*stmtEntry).stmt.Close()
	}
	sc.items = make(map[string]*list.Element, sc.capacity)
	sc.order.Init()
}
