package auth

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/account"
	"github.com/pawmark/auth-service/internal/config"
	"github.com/pawmark/auth-service/internal/notify"
	"github.com/pawmark/auth-service/internal/session"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			// Provide service
			fx.Annotate(
				func(
					config *config.AppConfig,
					log *zap.Logger,
					repo account.Repository,
					guard *account.Guard,
					sessions *session.Manager,
					notifier notify.Notifier,
				) *Service {
					return NewService(&config.Auth, log, repo, guard, sessions, notifier)
				},
			),
			// Provide handler
			fx.Annotate(
				func(svc *Service, guard *account.Guard, log *zap.Logger) *Handler {
					return NewHandler(svc, guard, log)
				},
			),
			// Provide admin middleware
			fx.Annotate(
				func(svc *Service) *AdminMiddleware {
					return NewAdminMiddleware(svc)
				},
			),
			// Provide login rate limiter
			fx.Annotate(
				func(config *config.AppConfig) *RateLimiter {
					return NewRateLimiter(config.RateLimit.MaxHits, config.RateLimit.Window)
				},
			),
		),
	)
}
