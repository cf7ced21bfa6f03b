package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresTier stores one slot (primary or mirror) in the kv_slots table.
type PostgresTier struct {
	db   *sql.DB
	slot string
}

func NewPostgresTier(db *sql.DB, slot string) *PostgresTier {
	return &PostgresTier{db: db, slot: slot}
}

func (t *PostgresTier) Name() string {
	return "postgres:" + t.slot
}

func (t *PostgresTier) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_slots WHERE slot = $1 AND key = $2`
	var value []byte
	err := t.db.QueryRowContext(ctx, query, t.slot, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s key %s: %w", t.slot, key, err)
	}
	return value, nil
}

func (t *PostgresTier) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_slots (slot, key, value, updated_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (slot, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := t.db.ExecContext(ctx, query, t.slot, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("write slot %s key %s: %w", t.slot, key, err)
	}
	return nil
}

// PostgresBackupTier keeps timestamped historical values in kv_backups,
// pruned to the newest `keep` rows per key on every write.
type PostgresBackupTier struct {
	db   *sql.DB
	keep int
}

func NewPostgresBackupTier(db *sql.DB, keep int) *PostgresBackupTier {
	if keep <= 0 {
		keep = 20
	}
	return &PostgresBackupTier{db: db, keep: keep}
}

func (t *PostgresBackupTier) Name() string {
	return "postgres:backup"
}

func (t *PostgresBackupTier) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_backups WHERE key = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	var value []byte
	err := t.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read backup key %s: %w", key, err)
	}
	return value, nil
}

func (t *PostgresBackupTier) Put(ctx context.Context, key string, value []byte) error {
	insert := `INSERT INTO kv_backups (key, value, created_at) VALUES ($1, $2, $3)`
	if _, err := t.db.ExecContext(ctx, insert, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("write backup key %s: %w", key, err)
	}

	prune := `DELETE FROM kv_backups
              WHERE key = $1 AND id NOT IN (
                  SELECT id FROM kv_backups WHERE key = $1 ORDER BY created_at DESC, id DESC LIMIT $2
              )`
	if _, err := t.db.ExecContext(ctx, prune, key, t.keep); err != nil {
		return fmt.Errorf("prune backups for key %s: %w", key, err)
	}
	return nil
}

func (t *PostgresBackupTier) Versions(ctx context.Context, key string, limit int) ([][]byte, error) {
	query := `SELECT value FROM kv_backups WHERE key = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := t.db.QueryContext(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list backups for key %s: %w", key, err)
	}
	defer rows.Close()

	var versions [][]byte
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan backup for key %s: %w", key, err)
		}
		versions = append(versions, value)
	}
	return versions, rows.Err()
}

// EnsureSchema creates the KV tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS kv_slots (
            slot       TEXT        NOT NULL,
            key        TEXT        NOT NULL,
            value      BYTEA       NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (slot, key)
        )`,
		`CREATE TABLE IF NOT EXISTS kv_backups (
            id         BIGSERIAL   PRIMARY KEY,
            key        TEXT        NOT NULL,
            value      BYTEA       NOT NULL,
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS kv_backups_key_idx ON kv_backups (key, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure kv schema: %w", err)
		}
	}
	return nil
}
