package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifiesWrappedPgErrors(t *testing.T) {
	invalid := fmt.Errorf("postgres set k: %w", &pgconn.PgError{Code: "22P02"})
	missing := fmt.Errorf("postgres get k: %w", &pgconn.PgError{Code: "42P01"})

	assert.True(t, IsInvalidJSON(invalid))
	assert.True(t, IsInvalidJSON(&pgconn.PgError{Code: "22032"}))
	assert.False(t, IsInvalidJSON(missing))

	assert.True(t, IsUndefinedTable(missing))
	assert.False(t, IsUndefinedTable(invalid))
}

func TestPlainErrorsAreNotClassified(t *testing.T) {
	err := errors.New("connection refused")
	assert.False(t, IsInvalidJSON(err))
	assert.False(t, IsUndefinedTable(err))
	assert.False(t, IsUndefinedTable(nil))
}
