package query

import (
	"github.com/tidybase/tidybase/internal/schema"
)

// DeleteQuery builds a DELETE statement.
type DeleteQuery struct {
	table  string
	wheres []whereClause
	err    error
}

// DeleteFrom starts a DELETE from the given table. A DELETE with no Where
// removes every row; callers wanting that should mean it.
func DeleteFrom(table string) *DeleteQuery {
	dq := &DeleteQuery{}
	canonical, err := schema.ValidateTable(table)
	if err != nil {
		dq.err = err
		return dq
	}
	dq.table = canonical
	return dq
}

// Where adds a condition joined with AND.
func (dq *DeleteQuery) Where(cond string, params ...any) *DeleteQuery {
	dq.wheres = appendWhere(dq.wheres, cond, params, "AND")
	return dq
}

// AndWhere adds a condition joined with AND.
func (dq *DeleteQuery) AndWhere(cond string, params ...any) *DeleteQuery {
	return dq.Where(cond, params...)
}

// OrWhere adds a condition joined with OR.
func (dq *DeleteQuery) OrWhere(cond string, params ...any) *DeleteQuery {
	dq.wheres = appendWhere(dq.wheres, cond, params, "OR")
	return dq
}

// Table returns the validated table name.
func (dq *DeleteQuery) Table() string {
	return dq.table
}

// Build assembles the statement. Params are the where parameters.
func (dq *DeleteQuery) Build() (Statement, error) {
	if dq.err != nil {
		return Statement{}, dq.err
	}
	if dq.table == "" {
		return Statement{}, ErrNoTable
	}
	whereSQL, whereParams := buildWhere(dq.wheres)
	return Statement{SQL: "DELETE FROM " + dq.table + whereSQL, Params: whereParams}, nil
}
