package events

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// KindLogin marks a login that issued a new session.
	KindLogin = "session.login"
	// KindLoginReused marks a login answered with an already live token.
	KindLoginReused = "session.login_reused"
	// KindLogout marks a session removed by logout.
	KindLogout = "session.logout"
)

// Event describes a session lifecycle change. Tokens only ever appear as fingerprints.
type Event struct {
	Kind             string    `json:"kind"`
	Phone            string    `json:"phone"`
	UserID           string    `json:"user_id"`
	TokenFingerprint string    `json:"token_fingerprint"`
	RequestID        string    `json:"request_id,omitempty"`
	At               time.Time `json:"at"`
}

// Sink records session events to a downstream system.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// LoggerSink writes events to the structured logger.
type LoggerSink struct {
	logger *slog.Logger
}

// NewLoggerSink constructs a logging sink.
func NewLoggerSink(logger *slog.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Record writes the event as a single log line.
func (s *LoggerSink) Record(_ context.Context, event Event) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("session event",
		slog.String("kind", event.Kind),
		slog.String("phone", event.Phone),
		slog.String("user_id", event.UserID),
		slog.String("token_fp", event.TokenFingerprint),
		slog.String("request_id", event.RequestID),
	)
	return nil
}

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

// Record delivers to all sinks even when some fail.
func (m Multi) Record(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
