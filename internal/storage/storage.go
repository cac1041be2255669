package storage

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

	_ "github.com/mattn/go-sqlite3"

	"wedding-rsvp/internal/models"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Storage keeps RSVP documents in SQLite. Each row holds one JSON document so
// partial writes can merge field by field.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// NewStorage creates or opens the database at path
func NewStorage(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetRSVPs returns every household recorded for a place identifier, ordered
// by household. Unknown identifiers yield an empty slice.
func (s *Storage) GetRSVPs(ctx context.Context, id string) ([]models.RSVP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM rsvps WHERE id = ? ORDER BY household`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	return scanRSVPs(rows)
}

// UpsertRSVP merges the fields set on p into the stored record, creating it if
// absent, and returns the merged record. Fields p leaves nil are untouched.
func (s *Storage) UpsertRSVP(ctx context.Context, p models.PartialRSVP) (*models.RSVP, error) {
	fields, err := p.Fields()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	doc := map[string]any{}
	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM rsvps WHERE id = ? AND household = ?`, p.ID, p.Household).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to query rsvp: %w", err)
	default:
		if err := json.Unmarshal([]byte(existing), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored rsvp: %w", err)
		}
	}

	Merge(doc, fields)
	doc["id"] = p.ID
	if p.Household != 0 {
		doc["household"] = p.Household
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rsvp: %w", err)
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rsvps (id, household, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id, household) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.ID, p.Household, string(data), now, now); err != nil {
		return nil, fmt.Errorf("failed to write rsvp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rsvp: %w", err)
	}
	return decode(string(data))
}

// GetAllRSVPs returns all records
func (s *Storage) GetAllRSVPs(ctx context.Context) ([]models.RSVP, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM rsvps ORDER BY id, household`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	return scanRSVPs(rows)
}

// GetRSVPsByStatus returns records filtered by RSVP status
func (s *Storage) GetRSVPsByStatus(ctx context.Context, status models.RSVPStatus) ([]models.RSVP, error) {
	all, err := s.GetAllRSVPs(ctx)
	if err != nil {
		return nil, err
	}
	var result []models.RSVP
	for _, r := range all {
		if r.Status == status {
			result = append(result, r)
		}
	}
	return result, nil
}

func scanRSVPs(rows *sql.Rows) ([]models.RSVP, error) {
	defer rows.Close()

	rsvps := make([]models.RSVP, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		r, err := decode(data)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rsvps: %w", err)
	}
	return rsvps, nil
}

// decode fills in the defaults for fields a partial write never set.
func decode(data string) (*models.RSVP, error) {
	var r models.RSVP
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rsvp: %w", err)
	}
	if r.Status == "" {
		r.Status = models.RSVPPending
	}
	if r.Guests == nil {
		r.Guests = []models.Guest{}
	}
	return &r, nil
}

// Merge writes src into dst. Nested objects merge recursively; every other
// value, arrays included, replaces what was there.
func Merge(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = map[string]any{}
			dst[k] = existing
		}
		Merge(existing, sub)
	}
}
