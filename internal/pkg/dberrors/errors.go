package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	codeNotNullViolation = "23502"
	codeUndefinedTable   = "42P01"
)

// NotNullViolationColumn reports whether err is a PostgreSQL not_null_violation
// and returns the offending column.
func NotNullViolationColumn(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeNotNullViolation {
		return pgErr.ColumnName, true
	}
	return "", false
}

// IsUndefinedTable reports whether err is a PostgreSQL undefined_table error
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUndefinedTable
}
