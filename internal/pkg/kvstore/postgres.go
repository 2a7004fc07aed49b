package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yigit/mindcare/internal/db"
	"github.com/yigit/mindcare/internal/pkg/dberrors"
)

// ErrInvalidValue is returned by the postgres store for values that are not JSON
var ErrInvalidValue = errors.New("kvstore: value is not valid JSON")

// pgError maps postgres failures of op on key to store errors
func pgError(op, key string, err error) error {
	switch {
	case dberrors.IsInvalidJSON(err):
		return fmt.Errorf("postgres %s %s: %w", op, key, ErrInvalidValue)
	case dberrors.IsUndefinedTable(err):
		return fmt.Errorf("postgres %s %s: kv_store table missing, apply migrations: %w", op, key, err)
	}
	return fmt.Errorf("postgres %s %s: %w", op, key, err)
}

// PostgresStore keeps values in the kv_store table (see migrations/). Values must be valid JSON.
type PostgresStore struct {
	db *db.PostgresDB
}

// NewPostgresStore creates a store on top of an open connection pool
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{db: database}
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.Pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, pgError("get", key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.Pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	if err != nil {
		return pgError("set", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return pgError("delete", key, err)
	}
	return nil
}

func (p *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := p.db.Pool.Query(ctx,
		`SELECT key, value FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%")
	if err != nil {
		return nil, pgError("scan", prefix, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("postgres scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
	}
	return entries, nil
}

// Update locks the row for the duration of the transaction. A missing key is
// first inserted as a placeholder so that concurrent creators serialise on it.
func (p *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	err := p.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var inserted string
		err := tx.QueryRow(ctx, `
			INSERT INTO kv_store (key, value) VALUES ($1, 'null'::jsonb)
			ON CONFLICT (key) DO NOTHING RETURNING key`, key).Scan(&inserted)
		exists := true
		if err == nil {
			exists = false
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return pgError("reserve", key, err)
		}

		var current []byte
		if err := tx.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1 FOR UPDATE`, key).Scan(&current); err != nil {
			return fmt.Errorf("postgres lock %s: %w", key, err)
		}
		if !exists {
			current = nil
		}

		next, err := fn(current, exists)
		if err != nil {
			// rolls back the placeholder too
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE kv_store SET value = $2, updated_at = NOW() WHERE key = $1`, key, next); err != nil {
			return pgError("update", key, err)
		}
		return nil
	})
	if errors.Is(err, ErrSkipWrite) {
		return nil
	}
	return err
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Pool.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
