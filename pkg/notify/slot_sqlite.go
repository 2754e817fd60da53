package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteSlot persists the notification list as a JSON document in a named
// row of a local SQLite database. It is the on-device durable storage for
// desktop and server-side hosts.
type SQLiteSlot struct {
	db   *sqlx.DB
	name string
}

// NewSQLiteSlot opens (or creates) the database at dbPath and prepares the
// slot table. The name identifies the slot row; separate stores can share a
// database under different names.
func NewSQLiteSlot(dbPath, name string) (*SQLiteSlot, error) {
	if name == "" {
		return nil, ErrEmptySlotName
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// WAL mode keeps reads cheap while the ingestion path writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS notification_slots (
			name       TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating slot table: %w", err)
	}

	return &SQLiteSlot{db: db, name: name}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlot) Save(ctx context.Context, notifications []Notification) error {
	payload, err := json.Marshal(notifications)
	if err != nil {
		return fmt.Errorf("marshaling notification list: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notification_slots (name, payload, updated_at)
		VALUES (?, ?, ?)`,
		s.name, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", s.name, err)
	}

	return nil
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]Notification, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM notification_slots WHERE name = ?", s.name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", s.name, err)
	}

	var notifications []Notification
	if err := json.Unmarshal([]byte(payload), &notifications); err != nil {
		return nil, fmt.Errorf("unmarshaling slot %s: %w", s.name, err)
	}

	return notifications, nil
}
