package query

import (
	"strings"

	"github.com/tidybase/tidybase/internal/schema"
)

// SelectQuery builds a SELECT statement. Construct with Select, finish with
// Build. The first validation failure in the chain is remembered and returned
// by Build; the chain stays callable so errors surface in one place.
type SelectQuery struct {
	columns []string
	table   string
	wheres  []whereClause
	orderBy []orderClause
	limit   *int
	offset  *int
	err     error
}

// Select starts a SELECT for the given column expressions. With no arguments
// it selects *. Each column is validated against the identifier rules.
func Select(cols ...string) *SelectQuery {
	sq := &SelectQuery{}
	if len(cols) == 0 {
		sq.columns = []string{"*"}
		return sq
	}
	for _, col := range cols {
		if err := schema.ValidateColumn(col); err != nil {
			sq.fail(err)
			break
		}
	}
	sq.columns = cols
	return sq
}

func (sq *SelectQuery) fail(err error) {
	if sq.err == nil {
		sq.err = err
	}
}

// From sets the table, validated against the allowlist.
func (sq *SelectQuery) From(table string) *SelectQuery {
	canonical, err := schema.ValidateTable(table)
	if err != nil {
		sq.fail(err)
		return sq
	}
	sq.table = canonical
	return sq
}

// Where adds a condition. cond is a SQL fragment with ? placeholders; params
// supplies the bound values. Equivalent to AndWhere except on the first call,
// where the connector is ignored.
func (sq *SelectQuery) Where(cond string, params ...any) *SelectQuery {
	sq.wheres = appendWhere(sq.wheres, cond, params, "AND")
	return sq
}

// AndWhere adds a condition joined with AND.
func (sq *SelectQuery) AndWhere(cond string, params ...any) *SelectQuery {
	return sq.Where(cond, params...)
}

// OrWhere adds a condition joined with OR against the accumulated chain.
func (sq *SelectQuery) OrWhere(cond string, params ...any) *SelectQuery {
	sq.wheres = appendWhere(sq.wheres, cond, params, "OR")
	return sq
}

// OrderBy appends an ORDER BY term. Direction must be ASC or DESC, any case.
func (sq *SelectQuery) OrderBy(column, direction string) *SelectQuery {
	if err := schema.ValidateColumn(column); err != nil {
		sq.fail(err)
		return sq
	}
	dir, err := schema.ValidateDirection(direction)
	if err != nil {
		sq.fail(err)
		return sq
	}
	sq.orderBy = append(sq.orderBy, orderClause{column: column, direction: dir})
	return sq
}

// Limit sets a non-negative row limit.
func (sq *SelectQuery) Limit(n int) *SelectQuery {
	if n < 0 {
		sq.fail(ErrInvalidLimitOffset)
		return sq
	}
	sq.limit = &n
	return sq
}

// Offset sets a non-negative row offset.
func (sq *SelectQuery) Offset(n int) *SelectQuery {
	if n < 0 {
		sq.fail(ErrInvalidLimitOffset)
		return sq
	}
	sq.offset = &n
	return sq
}

// Table returns the validated table name, or "" before From.
func (sq *SelectQuery) Table() string {
	return sq.table
}

// Build assembles the statement. Idempotent: repeated calls return equal
// results.
func (sq *SelectQuery) Build() (Statement, error) {
	if sq.err != nil {
		return Statement{}, sq.err
	}
	if sq.table == "" {
		return Statement{}, ErrNoTable
	}

	whereSQL, whereParams := buildWhere(sq.wheres)
	sql := "SELECT " + strings.Join(sq.columns, ", ") +
		" FROM " + sq.table +
		whereSQL +
		buildOrderBy(sq.orderBy) +
		buildLimitOffset(sq.limit, sq.offset)

	return Statement{SQL: sql, Params: whereParams}, nil
}
