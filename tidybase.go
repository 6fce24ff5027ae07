// Package tidybase is the local data-access core of the Tidybase desktop
// file organizer: an allowlist-validated SQL builder and a TTL result cache
// over an embedded SQLite database. Identifiers are checked against the
// schema catalog, values always travel through bound parameters, and cached
// reads are invalidated per table after writes.
package tidybase

import (
	"github.com/tidybase/tidybase/internal/cache"
	"github.com/tidybase/tidybase/internal/logger"
	"github.com/tidybase/tidybase/internal/query"
	"github.com/tidybase/tidybase/internal/schema"
	"github.com/tidybase/tidybase/internal/store"
	"github.com/tidybase/tidybase/internal/tracer"
)

type (
	// Statement is a finished SQL statement with bound parameters.
	Statement = query.Statement
	// SelectQuery builds a SELECT statement.
	SelectQuery = query.SelectQuery
	// InsertQuery builds an INSERT statement.
	InsertQuery = query.InsertQuery
	// UpdateQuery builds an UPDATE statement.
	UpdateQuery = query.UpdateQuery
	// DeleteQuery builds a DELETE statement.
	DeleteQuery = query.DeleteQuery

	// DB is the embedded database handle.
	DB = store.DB
	// Store composes the database with the TTL result cache.
	Store = store.Store
	// Row is one result row keyed by column name.
	Row = store.Row
	// CachedQuery pairs a built SELECT with its derived cache key.
	CachedQuery = store.CachedQuery
	// Option configures a DB.
	Option = store.Option
	// StoreOption configures a Store.
	StoreOption = store.StoreOption

	// Cache is the generic TTL result cache.
	Cache[V any] = cache.Cache[V]
	// CacheOption configures a Cache.
	CacheOption = cache.Option
	// CacheStats holds the cache counters.
	CacheStats = cache.Stats
	// CacheMetadata is a debugging view of one cache entry.
	CacheMetadata = cache.Metadata

	// Logger is the structured logging interface.
	Logger = logger.Logger
	// Tracer starts spans around store operations.
	Tracer = tracer.Tracer
)

// Statement builders.
var (
	Select     = query.Select
	InsertInto = query.InsertInto
	Update     = query.Update
	DeleteFrom = query.DeleteFrom
)

// Store construction and configuration.
var (
	Open                  = store.Open
	NewStore              = store.New
	NewCachedQuery        = store.NewCachedQuery
	WithLogger            = store.WithLogger
	WithTracer            = store.WithTracer
	WithStmtCacheCapacity = store.WithStmtCacheCapacity
	WithResultTTL         = store.WithResultTTL
	WithResultCacheSize   = store.WithResultCacheSize
)

// Cache key helpers and options.
var (
	CacheKey      = cache.Key
	QueryCacheKey = cache.QueryKey
	WithCacheTTL  = cache.WithDefaultTTL
	WithCacheSize = cache.WithMaxEntries
	WithStats     = cache.WithStats
)

// Observability adapters.
var (
	NewSlogAdapter = logger.NewSlogAdapter
	NewOtelTracer  = tracer.NewOtelTracer
)

// Schema catalog.
var (
	Tables            = schema.Tables
	ValidateTable     = schema.ValidateTable
	ValidateColumn    = schema.ValidateColumn
	ValidateDirection = schema.ValidateDirection
)

// Validation and builder errors. All are programmer errors, never transient.
var (
	ErrMissingTable       = schema.ErrMissingTable
	ErrInvalidTable       = schema.ErrInvalidTable
	ErrInvalidColumn      = schema.ErrInvalidColumn
	ErrInvalidDirection   = schema.ErrInvalidDirection
	ErrNoTable            = query.ErrNoTable
	ErrValueCountMismatch = query.ErrValueCountMismatch
	ErrNoSetClause        = query.ErrNoSetClause
	ErrInvalidLimitOffset = query.ErrInvalidLimitOffset
)

// NewCache creates a standalone TTL cache. The Store already carries one for
// query results; this is for callers caching derived values of their own.
func NewCache[V any](opts ...CacheOption) *Cache[V] {
	return cache.New[V](opts...)
}
