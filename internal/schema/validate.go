package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation failures are programmer errors, never transient. Callers should
// treat them as fatal for the statement being built.
var (
	// ErrMissingTable is returned when no table name was provided.
	ErrMissingTable = errors.New("missing table name")
	// ErrInvalidTable is returned when a table is not in the allowlist.
	ErrInvalidTable = errors.New("table not allowlisted")
	// ErrInvalidColumn is returned when a column fails the identifier checks.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrInvalidDirection is returned when an ORDER BY direction is not ASC or DESC.
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// identPattern matches a bare column identifier, optionally dot-qualified.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// funcPattern matches a function-call column expression such as COUNT(*) or
// MAX(size). The argument list is deliberately unchecked; function expressions
// are a documented trust boundary for internal callers only.
var funcPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\(.*\)$`)

// aliasSplit matches the AS keyword of an aliased expression, ignoring case.
var aliasSplit = regexp.MustCompile(`(?i)\s+AS\s+`)

// ValidateTable checks name against the table allowlist, ignoring case, and
// returns the canonical lowercase spelling for use in emitted SQL.
func ValidateTable(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrMissingTable
	}
	canonical := strings.ToLower(name)
	if _, ok := tables[canonical]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTable, name)
	}
	return canonical, nil
}

// ValidateColumn checks a column expression. Accepted shapes:
//
//	*                    star select
//	name, t.name         identifier, optionally qualified
//	COUNT(*), MAX(size)  function call (argument list unchecked)
//	expr AS alias        both sides re-validated
func ValidateColumn(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidColumn)
	}
	if expr == "*" {
		return nil
	}
	if parts := aliasSplit.Split(expr, 2); len(parts) == 2 {
		if err := validateBare(parts[0]); err != nil {
			return err
		}
		return validateBare(parts[1])
	}
	return validateBare(expr)
}

func validateBare(expr string) error {
	expr = strings.TrimSpace(expr)
	if funcPattern.MatchString(expr) {
		return nil
	}
	if !identPattern.MatchString(expr) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, expr)
	}
	return nil
}

// ValidateDirection checks an ORDER BY direction and returns its uppercase
// canonical form.
func ValidateDirection(dir string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "ASC":
		return "ASC", nil
	case "DESC":
		return "DESC", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
}
