package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/account"
	"github.com/pawmark/auth-service/internal/auth"
	"github.com/pawmark/auth-service/internal/database"
	"github.com/pawmark/auth-service/internal/migration"
	"github.com/pawmark/auth-service/internal/notify"
	"github.com/pawmark/auth-service/internal/server"
	"github.com/pawmark/auth-service/internal/session"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Logger
		fx.Provide(newLogger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Storage
		database.Module(),
		migration.Module(),

		// Domain modules
		account.NewModule(),
		session.NewModule(),
		notify.NewModule(),
		auth.NewModule(),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	env := os.Getenv("APP_ENV")
	return server.NewLogger(env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			return srv.Stop(ctx)
		},
	})
}
