package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/comisapo/liverapp-go/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded-database backend, the default for
// device-local deploys.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewStoreError("failed to create store directory", "open", path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStoreError("failed to open database", "open", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("failed to configure database", "open", path, err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("SQLite store opened", zap.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS reviewed_livers (
	  liver_id TEXT PRIMARY KEY,
	  created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS search_history (
	  term TEXT PRIMARY KEY,
	  used_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_search_history_used ON search_history(used_at);
	`)
	if err != nil {
		return errors.NewStoreError("migration failed", "migrate", "", err)
	}
	return nil
}

func (s *SQLiteStore) HasReviewed(ctx context.Context, liverID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM reviewed_livers WHERE liver_id = ?`, liverID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStoreError("query failed", "has_reviewed", liverID, err)
	}
	return true, nil
}

func (s *SQLiteStore) MarkReviewed(ctx context.Context, liverID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reviewed_livers(liver_id, created_at) VALUES(?, ?)`,
		liverID, time.Now().Unix())
	if err != nil {
		return errors.NewStoreError("insert failed", "mark_reviewed", liverID, err)
	}
	return nil
}

func (s *SQLiteStore) SearchHistory(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term FROM search_history ORDER BY used_at DESC LIMIT ?`, SearchHistoryLimit)
	if err != nil {
		return nil, errors.NewStoreError("query failed", "search_history", "", err)
	}
	defer rows.Close()

	var history []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, errors.NewStoreError("scan failed", "search_history", "", err)
		}
		history = append(history, term)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) AddSearchTerm(ctx context.Context, term string) error {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return nil
	}
	// UnixNano keeps MRU order even for back-to-back inserts.
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_history(term, used_at) VALUES(?, ?)`,
		trimmed, time.Now().UnixNano())
	if err != nil {
		return errors.NewStoreError("insert failed", "add_search_term", trimmed, err)
	}
	_, err = s.db.ExecContext(ctx, `
	DELETE FROM search_history WHERE term NOT IN (
	  SELECT term FROM search_history ORDER BY used_at DESC LIMIT ?
	)`, SearchHistoryLimit)
	if err != nil {
		return errors.NewStoreError("trim failed", "add_search_term", trimmed, err)
	}
	return nil
}

func (s *SQLiteStore) RemoveSearchTerm(ctx context.Context, term string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE term = ?`, term)
	if err != nil {
		return errors.NewStoreError("delete failed", "remove_search_term", term, err)
	}
	return nil
}

func (s *SQLiteStore) ClearSearchHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM search_history`)
	if err != nil {
		return errors.NewStoreError("delete failed", "clear_search_history", "", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
