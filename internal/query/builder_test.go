package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidybase/tidybase/internal/schema"
)

func TestSelect_RoundTrip(t *testing.T) {
	stmt, err := Select("id", "name").From("areas").Where("id = ?", 5).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM areas WHERE id = ?", stmt.SQL)
	assert.Equal(t, []any{5}, stmt.Params)
}

func TestSelect_DefaultStar(t *testing.T) {
	stmt, err := Select().From("folders").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM folders", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestSelect_ConnectorChain(t *testing.T) {
	stmt, err := Select().
		From("items").
		Where("folder_id = ?", 1).
		AndWhere("size > ?", 1024).
		OrWhere("mime_type = ?", "image/png").
		Build()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM items WHERE folder_id = ? AND size > ? OR mime_type = ?",
		stmt.SQL)
	assert.Equal(t, []any{1, 1024, "image/png"}, stmt.Params)
}

func TestSelect_OrderLimitOffset(t *testing.T) {
	stmt, err := Select("name").
		From("areas").
		OrderBy("sort_order", "asc").
		OrderBy("name", "DESC").
		Limit(10).
		Offset(20).
		Build()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT name FROM areas ORDER BY sort_order ASC, name DESC LIMIT 10 OFFSET 20",
		stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestSelect_TableNormalizedToLowercase(t *testing.T) {
	stmt, err := Select().From("AREAS").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM areas", stmt.SQL)
}

func TestSelect_Errors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (Statement, error)
		wantErr error
	}{
		{
			"no table",
			func() (Statement, error) { return Select("id").Build() },
			ErrNoTable,
		},
		{
			"table not allowlisted",
			func() (Statement, error) { return Select().From("users").Build() },
			schema.ErrInvalidTable,
		},
		{
			"injection in table",
			func() (Statement, error) {
				return Select().From("areas; DROP TABLE areas").Build()
			},
			schema.ErrInvalidTable,
		},
		{
			"bad column",
			func() (Statement, error) {
				return Select("id; DROP TABLE areas").From("areas").Build()
			},
			schema.ErrInvalidColumn,
		},
		{
			"bad order column",
			func() (Statement, error) {
				return Select().From("areas").OrderBy("name'--", "ASC").Build()
			},
			schema.ErrInvalidColumn,
		},
		{
			"bad direction",
			func() (Statement, error) {
				return Select().From("areas").OrderBy("name", "SIDEWAYS").Build()
			},
			schema.ErrInvalidDirection,
		},
		{
			"negative limit",
			func() (Statement, error) {
				return Select().From("areas").Limit(-1).Build()
			},
			ErrInvalidLimitOffset,
		},
		{
			"negative offset",
			func() (Statement, error) {
				return Select().From("areas").Offset(-5).Build()
			},
			ErrInvalidLimitOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInsert_ParamOrder(t *testing.T) {
	stmt, err := InsertInto("areas", "name", "color").
		Values("Finance", "#fff").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO areas (name, color) VALUES (?, ?)", stmt.SQL)
	assert.Equal(t, []any{"Finance", "#fff"}, stmt.Params)
}

func TestInsert_WithoutColumns(t *testing.T) {
	stmt, err := InsertInto("statistics").Values("total_files", "42").Build()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO statistics VALUES (?, ?)", stmt.SQL)
	assert.Equal(t, []any{"total_files", "42"}, stmt.Params)
}

func TestInsert_DefaultValues(t *testing.T) {
	stmt, err := InsertInto("activity_log").Build()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO activity_log DEFAULT VALUES", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestInsert_ValueCountMismatch(t *testing.T) {
	_, err := InsertInto("areas", "name", "color").Values("Finance").Build()
	assert.ErrorIs(t, err, ErrValueCountMismatch)
}

func TestUpdate_ParamOrder(t *testing.T) {
	stmt, err := Update("folders").Set("name", "X").Where("id = ?", 3).Build()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE folders SET name = ? WHERE id = ?", stmt.SQL)
	assert.Equal(t, []any{"X", 3}, stmt.Params)
}

func TestUpdate_SetManySortedKeys(t *testing.T) {
	stmt, err := Update("areas").
		SetMany(map[string]any{"sort_order": 2, "color": "#000", "name": "Work"}).
		Where("id = ?", 7).
		Build()
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE areas SET color = ?, name = ?, sort_order = ? WHERE id = ?",
		stmt.SQL)
	assert.Equal(t, []any{"#000", "Work", 2, 7}, stmt.Params)
}

func TestUpdate_DuplicateSetAppends(t *testing.T) {
	stmt, err := Update("areas").Set("name", "A").Set("name", "B").Build()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE areas SET name = ?, name = ?", stmt.SQL)
	assert.Equal(t, []any{"A", "B"}, stmt.Params)
}

func TestUpdate_NoSetClause(t *testing.T) {
	_, err := Update("areas").Where("id = ?", 1).Build()
	assert.ErrorIs(t, err, ErrNoSetClause)
}

func TestDelete_Build(t *testing.T) {
	stmt, err := DeleteFrom("scanned_files").Where("path = ?", "/tmp/x").Build()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM scanned_files WHERE path = ?", stmt.SQL)
	assert.Equal(t, []any{"/tmp/x"}, stmt.Params)
}

func TestDelete_NoWhereDeletesAll(t *testing.T) {
	stmt, err := DeleteFrom("watch_activity").Build()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM watch_activity", stmt.SQL)
}

func TestBuild_Idempotent(t *testing.T) {
	sq := Select("id", "name").From("areas").Where("id = ?", 5).OrderBy("name", "ASC").Limit(1)
	first, err := sq.Build()
	require.NoError(t, err)
	second, err := sq.Build()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Hostile strings passed as values must never reach SQL text.
func TestInjection_ValuesStayBound(t *testing.T) {
	hostile := []string{
		"'; DROP TABLE areas; --",
		"Robert'); DELETE FROM items",
		"x' OR '1'='1",
		"a -- comment",
	}

	for _, value := range hostile {
		stmt, err := Select().From("areas").Where("name = ?", value).Build()
		require.NoError(t, err)
		assert.NotContains(t, stmt.SQL, value)
		assert.Equal(t, []any{value}, stmt.Params)

		stmt, err = Update("areas").Set("name", value).Where("id = ?", 1).Build()
		require.NoError(t, err)
		assert.NotContains(t, stmt.SQL, value)
		assert.Equal(t, []any{value, 1}, stmt.Params)

		stmt, err = InsertInto("areas", "name").Values(value).Build()
		require.NoError(t, err)
		assert.NotContains(t, stmt.SQL, value)
		assert.Equal(t, []any{value}, stmt.Params)
	}
}
