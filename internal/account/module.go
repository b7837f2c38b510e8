package account

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawmark/auth-service/internal/config"
	"github.com/pawmark/auth-service/internal/database"
)

// NewModule returns the account module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(manager *database.Manager) *gorm.DB {
					return manager.DB()
				},
			),
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, repo Repository) *Guard {
					return NewGuard(repo, config.Lockout.MaxAttempts, log)
				},
			),
		),
	)
}
