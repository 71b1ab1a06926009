package kbstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cyberguard/phishing-engine/internal/chatbot"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore persists the knowledge base in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if needed initializes) the knowledge base at
// dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kb_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// List returns every entry ordered by insertion.
func (s *SQLiteStore) List(ctx context.Context) ([]chatbot.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer FROM kb_entries ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge base: %w", err)
	}
	defer rows.Close()

	var entries []chatbot.Entry
	for rows.Next() {
		var e chatbot.Entry
		if err := rows.Scan(&e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge base row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Seed imports entries into an empty knowledge base. A populated store is
// left untouched.
func (s *SQLiteStore) Seed(ctx context.Context, entries []chatbot.Entry) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kb_entries`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count knowledge base entries: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kb_entries (question, answer) VALUES (?, ?)
		`, e.Question, e.Answer); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert knowledge base entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Info("Seeded knowledge base", zap.Int("entries", len(entries)))
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
