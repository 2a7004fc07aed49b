package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL error codes the KV store reacts to
const (
	codeInvalidTextRepresentation = "22P02"
	codeInvalidJSONText           = "22032"
	codeUndefinedTable            = "42P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsInvalidJSON reports whether postgres refused a value because it is not valid JSON
func IsInvalidJSON(err error) bool {
	code := pgCode(err)
	return code == codeInvalidTextRepresentation || code == codeInvalidJSONText
}

// IsUndefinedTable reports whether the statement hit a table that does not
// exist, which for the KV store means migrations were never applied
func IsUndefinedTable(err error) bool {
	return pgCode(err) == codeUndefinedTable
}
