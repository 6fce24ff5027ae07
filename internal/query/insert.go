package query

import (
	"strings"

	"github.com/tidybase/tidybase/internal/schema"
)

// InsertQuery builds an INSERT statement.
type InsertQuery struct {
	table   string
	columns []string
	values  []any
	err     error
}

// InsertInto starts an INSERT into the given table. Columns are optional;
// when declared, Values must supply exactly one value per column.
func InsertInto(table string, cols ...string) *InsertQuery {
	iq := &InsertQuery{}
	canonical, err := schema.ValidateTable(table)
	if err != nil {
		iq.err = err
		return iq
	}
	iq.table = canonical
	for _, col := range cols {
		if err := schema.ValidateColumn(col); err != nil {
			iq.fail(err)
			return iq
		}
	}
	iq.columns = cols
	return iq
}

func (iq *InsertQuery) fail(err error) {
	if iq.err == nil {
		iq.err = err
	}
}

// Values sets the positional values for the row.
func (iq *InsertQuery) Values(vals ...any) *InsertQuery {
	if len(iq.columns) > 0 && len(vals) != len(iq.columns) {
		iq.fail(ErrValueCountMismatch)
		return iq
	}
	iq.values = vals
	return iq
}

// Table returns the validated table name.
func (iq *InsertQuery) Table() string {
	return iq.table
}

// Build assembles the statement. Params are the inserted values in order.
// With neither columns nor values the statement inserts a row of defaults.
func (iq *InsertQuery) Build() (Statement, error) {
	if iq.err != nil {
		return Statement{}, iq.err
	}
	if iq.table == "" {
		return Statement{}, ErrNoTable
	}
	if len(iq.columns) > 0 && len(iq.values) != len(iq.columns) {
		return Statement{}, ErrValueCountMismatch
	}
	if len(iq.values) == 0 {
		return Statement{SQL: "INSERT INTO " + iq.table + " DEFAULT VALUES"}, nil
	}

	sql := "INSERT INTO " + iq.table
	if len(iq.columns) > 0 {
		sql += " (" + strings.Join(iq.columns, ", ") + ")"
	}
	sql += " VALUES (" + placeholders(len(iq.values)) + ")"

	return Statement{SQL: sql, Params: append([]any(nil), iq.values...)}, nil
}
