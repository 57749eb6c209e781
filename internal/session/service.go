package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/ecy-service/ecy_service/internal/events"
)

type requestIDKey struct{}

// WithRequestID attaches a request identifier that is copied onto recorded events.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Service exposes login, user info and logout over a Registry.
type Service struct {
	registry *Registry
	sink     events.Sink
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a session service. sink may be nil.
func NewService(registry *Registry, sink events.Sink, logger *slog.Logger) *Service {
	return &Service{registry: registry, sink: sink, logger: logger, now: time.Now}
}

// Login returns the live token for phone or issues a new one.
func (s *Service) Login(ctx context.Context, phone string) (string, error) {
	token, profile, created, err := s.registry.Login(phone)
	if err != nil {
		return "", err
	}
	kind := events.KindLoginReused
	if created {
		kind = events.KindLogin
		s.logger.Info("session created", slog.String("phone", phone), slog.String("user_id", profile.ID), slog.String("token_fp", Fingerprint(token)))
	} else {
		s.logger.Info("session reused", slog.String("phone", phone), slog.String("token_fp", Fingerprint(token)))
	}
	s.record(ctx, kind, profile, token)
	return token, nil
}

// UserInfo resolves the profile for a session token.
func (s *Service) UserInfo(_ context.Context, token string) (Profile, error) {
	return s.registry.Lookup(token)
}

// Logout ends the session for token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	profile, ok := s.registry.Logout(token)
	if !ok {
		s.logger.Debug("logout for unknown token", slog.String("token_fp", Fingerprint(token)))
		return nil
	}
	s.logger.Info("session ended", slog.String("phone", profile.Phone), slog.String("token_fp", Fingerprint(token)))
	s.record(ctx, events.KindLogout, profile, token)
	return nil
}

// Sessions reports how many sessions are live.
func (s *Service) Sessions() int {
	return s.registry.Len()
}

func (s *Service) record(ctx context.Context, kind string, profile Profile, token string) {
	if s.sink == nil {
		return
	}
	event := events.Event{
		Kind:             kind,
		Phone:            profile.Phone,
		UserID:           profile.ID,
		TokenFingerprint: Fingerprint(token),
		RequestID:        requestIDFrom(ctx),
		At:               s.now().UTC(),
	}
	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Warn("record session event", slog.String("kind", kind), slog.Any("error", err))
	}
}
