package routes

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ecy-service/ecy_service/internal/config"
	"github.com/ecy-service/ecy_service/internal/events"
	"github.com/ecy-service/ecy_service/internal/middleware"
	"github.com/ecy-service/ecy_service/internal/session"
)

const schemaTimeout = 5 * time.Second

// Deps aggregates shared dependencies required to wire routes. DB and Cache are
// optional; without them session events only go to the logger.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Logger    *slog.Logger
	Generator session.Generator
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.SessionToken())

	sink, err := buildSink(d)
	if err != nil {
		return err
	}

	gen := d.Generator
	if gen == nil {
		gen = session.NewRandomGenerator(d.Cfg.AvatarURL)
	}
	registry := session.NewRegistry(gen)
	sessionSvc := session.NewService(registry, sink, d.Logger)

	RegisterHealthRoutes(app, d, sessionSvc)
	RegisterSessionRoutes(app, session.NewHandler(sessionSvc))

	return nil
}

func buildSink(d Deps) (events.Sink, error) {
	sinks := events.Multi{events.NewLoggerSink(d.Logger)}
	if d.Cache != nil {
		sinks = append(sinks, events.NewRedisSink(d.Cache, d.Cfg.EventsChannel))
	}
	if d.DB != nil {
		pg := events.NewPostgresSink(d.DB)
		ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, pg)
	}
	return sinks, nil
}
