// Package query builds parameterized SQL statements for the embedded
// database. Identifiers are checked against the schema allowlist before they
// reach SQL text; every value travels through bound parameters, never string
// concatenation. Each statement kind has its own builder type, so "wrong
// method for this statement" is a compile error rather than a runtime check.
package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTable is returned by Build when no table was set.
	ErrNoTable = errors.New("no table specified")
	// ErrValueCountMismatch is returned when INSERT values do not match the
	// declared column count.
	ErrValueCountMismatch = errors.New("value count does not match column count")
	// ErrNoSetClause is returned when an UPDATE is built without any Set calls.
	ErrNoSetClause = errors.New("update requires at least one set clause")
	// ErrInvalidLimitOffset is returned for a negative LIMIT or OFFSET.
	ErrInvalidLimitOffset = errors.New("limit and offset must be non-negative")
)

// Statement is a finished SQL statement with its bound parameters, ready for
// the executor. Params are in placeholder order.
type Statement struct {
	SQL    string
	Params []any
}

// whereClause is one condition in a flat connector chain. The first clause's
// connector is never emitted; later clauses join with their own connector.
// There is no grouping support: chains read strictly left to right.
type whereClause struct {
	cond      string
	params    []any
	connector string
}

func appendWhere(list []whereClause, cond string, params []any, connector string) []whereClause {
	return append(list, whereClause{cond: cond, params: params, connector: connector})
}

// buildWhere assembles the WHERE clause and its parameters. Returns an empty
// string when no conditions were added.
func buildWhere(list []whereClause) (string, []any) {
	if len(list) == 0 {
		return "", nil
	}
	var sb strings.Builder
	var params []any
	sb.WriteString(" WHERE ")
	for i, w := range list {
		if i > 0 {
			sb.WriteString(" " + w.connector + " ")
		}
		sb.WriteString(w.cond)
		params = append(params, w.params...)
	}
	return sb.String(), params
}

// orderClause is one validated ORDER BY term.
type orderClause struct {
	column    string
	direction string
}

func buildOrderBy(list []orderClause) string {
	if len(list) == 0 {
		return ""
	}
	terms := make([]string, len(list))
	for i, o := range list {
		terms[i] = o.column + " " + o.direction
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// buildLimitOffset inlines LIMIT/OFFSET as integers. Safe without binding:
// the values are range-checked ints, never arbitrary strings.
func buildLimitOffset(limit, offset *int) string {
	var sb strings.Builder
	if limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *limit)
	}
	if offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *offset)
	}
	return sb.String()
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
