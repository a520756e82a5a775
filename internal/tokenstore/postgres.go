package tokenstore

import (
	"context"
	"database/sql"
	"fmt"

	// registers the "postgres" sql.DB driver.
	_ "github.com/lib/pq"
)

// PostgresStore backs a Store with a flat key/value table, for deployments
// where several processes need to share a cache (e.g. a pool of worker
// processes refreshing the same service account's session). The table is
// expected to already exist; PostgresStore issues no DDL.
//
//	CREATE TABLE cogauth_tokens (
//		key   text PRIMARY KEY,
//		value text NOT NULL
//	);
type PostgresStore struct {
	db        *sql.DB
	tableName string
}

// NewPostgresStore wraps an already-opened *sql.DB. tableName defaults to
// "cogauth_tokens" when empty.
func NewPostgresStore(db *sql.DB, tableName string) *PostgresStore {
	if tableName == "" {
		tableName = "cogauth_tokens"
	}
	return &PostgresStore{db: db, tableName: tableName}
}

func (p *PostgresStore) Put(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, p.tableName)

	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("tokenstore: upsert %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, p.tableName)

	var value string
	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tokenstore: select %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresStore) Remove(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.tableName)

	if _, err := p.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("tokenstore: delete %s: %w", key, err)
	}
	return nil
}
