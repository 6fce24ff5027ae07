// Package store is the execution boundary of the data layer. DB wraps the
// embedded SQLite database with prepared-statement reuse, structured logging,
// and tracing; Store layers the TTL result cache over reads and invalidates
// per-table key families after writes.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tidybase/tidybase/internal/cache"
	"github.com/tidybase/tidybase/internal/logger"
	"github.com/tidybase/tidybase/internal/query"
	"github.com/tidybase/tidybase/internal/tracer"
)

// DB is the embedded database handle. The app is single-process
// single-writer; SQLite owns durability and transactions.
type DB struct {
	sqlDB     *sql.DB
	stmts     *cache.StmtCache
	log       logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the structured logger for query execution.
func WithLogger(l logger.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.log = l
		}
	}
}

// WithTracer sets the tracer for query spans.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		if t != nil {
			db.tracer = t
		}
	}
}

// WithStmtCacheCapacity sets the prepared-statement cache capacity.
func WithStmtCacheCapacity(n int) Option {
	return func(db *DB) {
		db.stmts = cache.NewStmtCache(n)
	}
}

// Open opens (or creates) the database at path. Use ":memory:" for an
// ephemeral database in tests.
func Open(path string, opts ...Option) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db := &DB{
		sqlDB:     sqlDB,
		stmts:     cache.NewStmtCache(cache.DefaultStmtCapacity),
		log:       logger.Noop{},
		sanitizer: logger.NewSanitizer(),
		tracer:    tracer.Noop{},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close releases cached statements and the underlying connection.
func (db *DB) Close() error {
	db.stmts.Close()
	return db.sqlDB.Close()
}

// prepare returns a prepared statement for the SQL text, reusing the cache.
func (db *DB) prepare(ctx context.Context, sqlText string) (*sql.Stmt, error) {
	if stmt, ok := db.stmts.Get(sqlText); ok {
		return stmt, nil
	}
	stmt, err := db.sqlDB.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	db.stmts.Put(sqlText, stmt)
	return stmt, nil
}

// Exec runs a write statement and returns the driver result.
func (db *DB) Exec(ctx context.Context, stmt query.Statement) (sql.Result, error) {
	ctx, span := db.tracer.StartSpan(ctx, "db.exec")
	defer span.End()

	start := time.Now()
	prepared, err := db.prepare(ctx, stmt.SQL)
	if err != nil {
		db.logFailure("statement preparation failed", stmt, err, time.Since(start))
		return nil, err
	}

	result, err := prepared.ExecContext(ctx, stmt.Params...)
	elapsed := time.Since(start)

	var rowsAffected int64
	if result != nil {
		rowsAffected, _ = result.RowsAffected()
	}
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:          stmt.SQL,
		Operation:    operationOf(stmt.SQL),
		Duration:     elapsed,
		RowsAffected: rowsAffected,
		Error:        err,
	})

	if err != nil {
		db.logFailure("statement execution failed", stmt, err, elapsed)
		return nil, err
	}
	db.log.Info("statement executed",
		"sql", stmt.SQL,
		"params", db.sanitizer.FormatParams(db.sanitizer.MaskParams(stmt.SQL, stmt.Params)),
		"duration_ms", elapsed.Milliseconds(),
		"rows_affected", rowsAffected,
	)
	return result, nil
}

// Query runs a read statement and scans every row into column-keyed maps.
func (db *DB) Query(ctx context.Context, stmt query.Statement) ([]Row, error) {
	ctx, span := db.tracer.StartSpan(ctx, "db.query")
	defer span.End()

	start := time.Now()
	prepared, err := db.prepare(ctx, stmt.SQL)
	if err != nil {
		db.logFailure("statement preparation failed", stmt, err, time.Since(start))
		return nil, err
	}

	rows, err := prepared.QueryContext(ctx, stmt.Params...)
	if err != nil {
		elapsed := time.Since(start)
		tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
			SQL:       stmt.SQL,
			Operation: "SELECT",
			Duration:  elapsed,
			Error:     err,
		})
		db.logFailure("query execution failed", stmt, err, elapsed)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	scanned, err := scanRows(rows)
	elapsed := time.Since(start)
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:       stmt.SQL,
		Operation: "SELECT",
		Duration:  elapsed,
		Error:     err,
	})
	if err != nil {
		db.logFailure("row scanning failed", stmt, err, elapsed)
		return nil, err
	}

	db.log.Debug("query executed",
		"sql", stmt.SQL,
		"params", db.sanitizer.FormatParams(db.sanitizer.MaskParams(stmt.SQL, stmt.Params)),
		"duration_ms", elapsed.Milliseconds(),
		"rows", len(scanned),
	)
	return scanned, nil
}

func (db *DB) logFailure(msg string, stmt query.Statement, err error, elapsed time.Duration) {
	db.log.Error(msg,
		"sql", stmt.SQL,
		"params", db.sanitizer.FormatParams(db.sanitizer.MaskParams(stmt.SQL, stmt.Params)),
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	)
}

// operationOf detects the statement kind from its leading keyword.
func operationOf(sqlText string) string {
	head := strings.ToUpper(strings.TrimSpace(sqlText))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(head, op) {
			return op
		}
	}
	return "UNKNOWN"
}
