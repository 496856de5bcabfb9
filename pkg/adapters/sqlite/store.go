// Package sqlite provides a SQLite-backed ResultStore.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ports.ResultStore on a single SQLite database.
// Summary columns are denormalized so List never decodes traces.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// one writer; avoids SQLITE_BUSY between pooled connections
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{conn: conn, path: dbPath}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Save inserts or replaces the result.
func (s *Store) Save(ctx context.Context, result *domain.Result) error {
	if result.ID == "" {
		return errors.New("result id cannot be empty")
	}

	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (id, machine, input, accepted, depth, transitions, created_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Machine, result.Input, result.Accepted,
		result.FinalDepth(), result.Transitions, result.CreatedAt.UnixNano(), body,
	)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// Load retrieves a result by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.Result, error) {
	var body []byte
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM results WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying result: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	return &result, nil
}

// Delete removes a result.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting result: %w", err)
	}
	return nil
}

// List returns result summaries, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Summary, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, machine, input, accepted, depth, transitions, created_at
		 FROM results ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	out := []domain.Summary{}
	for rows.Next() {
		var (
			sum     domain.Summary
			created int64
		)
		if err := rows.Scan(&sum.ID, &sum.Machine, &sum.Input, &sum.Accepted, &sum.Depth, &sum.Transitions, &created); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}
