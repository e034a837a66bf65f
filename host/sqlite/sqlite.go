// Package sqlite provides a durable host.Storage in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/verstore/host"
)

const schema = `CREATE TABLE IF NOT EXISTS host_storage (
	item_key   TEXT PRIMARY KEY,
	item_value TEXT NOT NULL
)`

// Store is a host.Storage backed by one SQLite table.
type Store struct {
	sqlDB   *sql.DB
	timeout time.Duration
}

var _ host.Storage = (*Store)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	return OpenWithTimeout(path, 0)
}

// OpenWithTimeout is Open with a per-call deadline; 0 disables it.
func OpenWithTimeout(path string, timeout time.Duration) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, timeout: timeout}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(context.Background(), s.timeout)
	}
	return context.WithCancel(context.Background())
}

func (s *Store) GetItem(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var v string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT item_value FROM host_storage WHERE item_key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item: %w", err)
	}
	return v, true, nil
}

func (s *Store) SetItem(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO host_storage (item_key, item_value) VALUES (?, ?)
		 ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

func (s *Store) RemoveItem(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM host_storage WHERE item_key = ?`, key); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}

// Keys returns every key in ascending order.
func (s *Store) Keys() ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT item_key FROM host_storage ORDER BY item_key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return out, nil
}
