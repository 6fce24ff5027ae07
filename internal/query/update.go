package query

import (
	"sort"
	"strings"

	"github.com/tidybase/tidybase/internal/schema"
)

// setClause is one column assignment. Repeated Set calls for the same column
// all appear in the SQL; the engine applies them left to right, so the last
// one wins.
type setClause struct {
	column string
	value  any
}

// UpdateQuery builds an UPDATE statement.
type UpdateQuery struct {
	table  string
	sets   []setClause
	wheres []whereClause
	err    error
}

// Update starts an UPDATE of the given table.
func Update(table string) *UpdateQuery {
	uq := &UpdateQuery{}
	canonical, err := schema.ValidateTable(table)
	if err != nil {
		uq.err = err
		return uq
	}
	uq.table = canonical
	return uq
}

func (uq *UpdateQuery) fail(err error) {
	if uq.err == nil {
		uq.err = err
	}
}

// Set appends a column assignment.
func (uq *UpdateQuery) Set(column string, value any) *UpdateQuery {
	if err := schema.ValidateColumn(column); err != nil {
		uq.fail(err)
		return uq
	}
	uq.sets = append(uq.sets, setClause{column: column, value: value})
	return uq
}

// SetMany appends an assignment per map entry, in sorted key order so the
// generated SQL is deterministic.
func (uq *UpdateQuery) SetMany(values map[string]any) *UpdateQuery {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		uq.Set(k, values[k])
	}
	return uq
}

// Where adds a condition joined with AND.
func (uq *UpdateQuery) Where(cond string, params ...any) *UpdateQuery {
	uq.wheres = appendWhere(uq.wheres, cond, params, "AND")
	return uq
}

// AndWhere adds a condition joined with AND.
func (uq *UpdateQuery) AndWhere(cond string, params ...any) *UpdateQuery {
	return uq.Where(cond, params...)
}

// OrWhere adds a condition joined with OR.
func (uq *UpdateQuery) OrWhere(cond string, params ...any) *UpdateQuery {
	uq.wheres = appendWhere(uq.wheres, cond, params, "OR")
	return uq
}

// Table returns the validated table name.
func (uq *UpdateQuery) Table() string {
	return uq.table
}

// Build assembles the statement. Params are the set values followed by the
// where parameters.
func (uq *UpdateQuery) Build() (Statement, error) {
	if uq.err != nil {
		return Statement{}, uq.err
	}
	if uq.table == "" {
		return Statement{}, ErrNoTable
	}
	if len(uq.sets) == 0 {
		return Statement{}, ErrNoSetClause
	}

	assignments := make([]string, len(uq.sets))
	params := make([]any, 0, len(uq.sets))
	for i, s := range uq.sets {
		assignments[i] = s.column + " = ?"
		params = append(params, s.value)
	}

	whereSQL, whereParams := buildWhere(uq.wheres)
	sql := "UPDATE " + uq.table + " SET " + strings.Join(assignments, ", ") + whereSQL

	return Statement{SQL: sql, Params: append(params, whereParams...)}, nil
}
