package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/tidybase/tidybase/internal/cache"
	"github.com/tidybase/tidybase/internal/query"
	"github.com/tidybase/tidybase/internal/schema"
	"github.com/tidybase/tidybase/internal/tracer"
)

// Builder is any statement builder: the write builders feed Exec, SELECT
// builders feed NewCachedQuery.
type Builder interface {
	Build() (query.Statement, error)
	Table() string
}

// CachedQuery pairs a built SELECT statement with its mechanically derived
// cache key. Deriving the key from the statement itself means the cache and
// the builder cannot drift apart: two builders producing the same SQL and
// parameters always share a key, and invalidation by table prefix reaches
// every read of that table.
type CachedQuery struct {
	stmt  query.Statement
	table string
	key   string
}

// NewCachedQuery builds the SELECT and derives its cache key.
func NewCachedQuery(sq *query.SelectQuery) (CachedQuery, error) {
	stmt, err := sq.Build()
	if err != nil {
		return CachedQuery{}, err
	}
	key := cache.QueryKey(sq.Table(), "select", map[string]any{
		"sql":    stmt.SQL,
		"params": stmt.Params,
	})
	return CachedQuery{stmt: stmt, table: sq.Table(), key: key}, nil
}

// Key returns the derived cache key.
func (cq CachedQuery) Key() string { return cq.key }

// Statement returns the built statement.
func (cq CachedQuery) Statement() query.Statement { return cq.stmt }

// Table returns the table the read targets.
func (cq CachedQuery) Table() string { return cq.table }

// Store composes the database handle with the TTL result cache. Reads go
// through QueryCached; writes go through Exec, which invalidates the written
// table's cached reads.
type Store struct {
	db      *DB
	results *cache.Cache[[]Row]
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	cacheOpts []cache.Option
}

// WithResultTTL sets the default lifetime of cached query results.
func WithResultTTL(d time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.cacheOpts = append(c.cacheOpts, cache.WithDefaultTTL(d))
	}
}

// WithResultCacheSize bounds the number of cached result sets.
func WithResultCacheSize(n int) StoreOption {
	return func(c *storeConfig) {
		c.cacheOpts = append(c.cacheOpts, cache.WithMaxEntries(n))
	}
}

// New creates a Store over an open DB.
func New(db *DB, opts ...StoreOption) *Store {
	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{
		db:      db,
		results: cache.New[[]Row](cfg.cacheOpts...),
	}
}

// DB exposes the underlying handle for raw access.
func (s *Store) DB() *DB { return s.db }

// Close closes the underlying database.
func (s *Store) Close() error {
	s.results.Clear()
	return s.db.Close()
}

// EnsureSchema creates any missing tables and records the schema version.
// Idempotent; safe to run on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schema.DDL() {
		if _, err := s.db.sqlDB.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	_, err := s.db.sqlDB.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schema.Version)
	return err
}

// QueryCached executes a cached read. On a miss the statement runs against
// the database and the rows are stored under the query's key; overlapping
// misses for the same key share one execution. ttl 0 uses the cache default.
func (s *Store) QueryCached(ctx context.Context, cq CachedQuery, ttl time.Duration) ([]Row, error) {
	ctx, span := s.db.tracer.StartSpan(ctx, "store.query_cached")
	defer span.End()

	hit := s.results.Has(cq.key)
	tracer.AddCacheAttributes(span, cq.key, hit)

	return s.results.GetOrSet(ctx, cq.key, ttl, func(ctx context.Context) ([]Row, error) {
		return s.db.Query(ctx, cq.stmt)
	})
}

// Query executes a read directly, bypassing the result cache.
func (s *Store) Query(ctx context.Context, sq *query.SelectQuery) ([]Row, error) {
	stmt, err := sq.Build()
	if err != nil {
		return nil, err
	}
	return s.db.Query(ctx, stmt)
}

// Exec builds and runs a write, then invalidates every cached read of the
// written table.
func (s *Store) Exec(ctx context.Context, b Builder) (sql.Result, error) {
	stmt, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := s.db.Exec(ctx, stmt)
	if err != nil {
		return nil, err
	}
	s.InvalidateTable(b.Table())
	return result, nil
}

// InvalidateTable drops every cached read of table and returns the count.
func (s *Store) InvalidateTable(table string) int {
	return s.results.DeletePattern("query:" + table + ":*")
}

// InvalidateKey drops one cached read by exact key.
func (s *Store) InvalidateKey(key string) bool {
	return s.results.Delete(key)
}

// CacheStats returns the result cache counters.
func (s *Store) CacheStats() cache.Stats {
	return s.results.Stats()
}

// ResetCacheStats zeroes the result cache counters.
func (s *Store) ResetCacheStats() {
	s.results.ResetStats()
}
