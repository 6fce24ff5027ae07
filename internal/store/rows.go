package store

import "database/sql"

// Row is one result row keyed by column name. The app's read paths feed rows
// straight into the UI layer, so a generic representation beats per-table
// structs here.
type Row map[string]any

// scanRows drains rows into column-keyed maps. []byte values are copied to
// strings because the driver may reuse its buffers between Next calls.
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			default:
				row[col] = v
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
