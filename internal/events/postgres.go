package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertTimeout = 2 * time.Second

const schemaSQL = `CREATE TABLE IF NOT EXISTS session_events (
    id          BIGSERIAL PRIMARY KEY,
    kind        TEXT        NOT NULL,
    phone       TEXT        NOT NULL,
    user_id     TEXT        NOT NULL,
    token_fp    TEXT        NOT NULL,
    request_id  TEXT        NOT NULL DEFAULT '',
    occurred_at TIMESTAMPTZ NOT NULL
)`

const insertSQL = `INSERT INTO session_events (kind, phone, user_id, token_fp, request_id, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

// Execer is the subset of *pgxpool.Pool the sink needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSink appends events to the session_events table.
type PostgresSink struct {
	db Execer
}

// NewPostgresSink builds a sink writing through db.
func NewPostgresSink(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the session_events table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create session_events: %w", err)
	}
	return nil
}

// Record inserts the event.
func (s *PostgresSink) Record(ctx context.Context, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()
	_, err := s.db.Exec(ctx, insertSQL, event.Kind, event.Phone, event.UserID, event.TokenFingerprint, event.RequestID, event.At.UTC())
	if err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}
	return nil
}
