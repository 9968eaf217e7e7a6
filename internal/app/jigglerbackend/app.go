// Package jigglerbackend assembles the backend: storage, migrations,
// the optional newsletter broker, the domain services and the HTTP
// server with its routes.
package jigglerbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/mousejiggler/jiggler-backend/internal/config"
	"github.com/mousejiggler/jiggler-backend/internal/lib/jwt"
	"github.com/mousejiggler/jiggler-backend/internal/lib/rabbitmq"
	"github.com/mousejiggler/jiggler-backend/internal/lib/sl"
	"github.com/mousejiggler/jiggler-backend/internal/migrations"
	activationservice "github.com/mousejiggler/jiggler-backend/internal/services/activationkey"
	authservice "github.com/mousejiggler/jiggler-backend/internal/services/auth"
	newsletterservice "github.com/mousejiggler/jiggler-backend/internal/services/newsletter"
	subscriptionservice "github.com/mousejiggler/jiggler-backend/internal/services/subscription"
	"github.com/mousejiggler/jiggler-backend/internal/storage/repository"
)

// App owns the HTTP server and the connections it serves from.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New builds the application from config: opens storage, runs the
// migrations, connects to the broker when configured, wires services
// to handlers, and prepares the HTTP server.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	// The broker is optional: without it newsletter events are skipped
	// but every endpoint still works.
	var amqpConn *amqp.Connection
	var amqpChannel *amqp.Channel
	if cfg.AmqpConnectionString != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AmqpConnectionString, 5, 3*time.Second)
		if err != nil {
			return nil, err
		}
		amqpChannel, err = rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNewsletterQueues())
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("amqp connection string not set, newsletter events disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TokenTTL)

	newsletterService := newsletterservice.NewNewsletterService(db, amqpChannel, logger)
	authService := authservice.NewAuthService(db, jwtMaker, newsletterService, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	activationService := activationservice.NewActivationKeyService(db, subscriptionService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker,
		authService, activationService, subscriptionService, newsletterService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and closes the storage and broker connections.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close storage", sl.Err(cerr))
		}
		if a.amqpConn != nil {
			if cerr := a.amqpConn.Close(); cerr != nil {
				a.logger.Error("failed to close amqp connection", sl.Err(cerr))
			}
		}
		return err
	}
}
