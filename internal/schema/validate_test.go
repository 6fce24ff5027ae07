package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTable_Allowlist(t *testing.T) {
	for _, name := range Tables() {
		canonical, err := ValidateTable(name)
		require.NoError(t, err, "table %q should be allowlisted", name)
		assert.Equal(t, name, canonical)
	}
}

func TestValidateTable_CaseInsensitive(t *testing.T) {
	canonical, err := ValidateTable("AREAS")
	require.NoError(t, err)
	assert.Equal(t, "areas", canonical)

	canonical, err = ValidateTable("Watched_Folders")
	require.NoError(t, err)
	assert.Equal(t, "watched_folders", canonical)
}

func TestValidateTable_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr error
	}{
		{"empty", "", ErrMissingTable},
		{"whitespace only", "   ", ErrMissingTable},
		{"unknown table", "users", ErrInvalidTable},
		{"stacked statement", "users; DROP TABLE areas", ErrInvalidTable},
		{"quoted injection", "areas'--", ErrInvalidTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateTable(tt.table)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateColumn(t *testing.T) {
	tests := []struct {
		name string
		expr string
		ok   bool
	}{
		{"star", "*", true},
		{"plain identifier", "name", true},
		{"underscore prefix", "_hidden", true},
		{"qualified", "areas.name", true},
		{"count star", "COUNT(*)", true},
		{"max column", "MAX(size)", true},
		{"lowercase func", "count(id)", true},
		{"alias", "name AS label", true},
		{"alias lowercase as", "name as label", true},
		{"func alias", "COUNT(*) AS total", true},
		{"empty", "", false},
		{"leading digit", "1name", false},
		{"quote", "name'", false},
		{"semicolon", "name; DROP TABLE areas", false},
		{"comment", "name --", false},
		{"alias bad right side", "name AS 'label'", false},
		{"space in identifier", "na me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumn(tt.expr)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidColumn)
			}
		})
	}
}

func TestValidateDirection(t *testing.T) {
	for _, dir := range []string{"ASC", "asc", "Desc", "DESC"} {
		canonical, err := ValidateDirection(dir)
		require.NoError(t, err)
		assert.Contains(t, []string{"ASC", "DESC"}, canonical)
	}

	_, err := ValidateDirection("SIDEWAYS")
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = ValidateDirection("ASC; DROP TABLE areas")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestTables_Complete(t *testing.T) {
	names := Tables()
	assert.Len(t, names, 14)
	assert.True(t, Known("schema_version"))
	assert.False(t, Known("not_a_table"))
}

func TestDDL_CoversAllTables(t *testing.T) {
	stmts := DDL()
	require.NotEmpty(t, stmts)
	joined := ""
	for _, s := range stmts {
		joined += s + "\n"
	}
	for _, name := range Tables() {
		assert.Contains(t, joined, name)
	}
}
