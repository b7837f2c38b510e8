package session

import (
	"go.uber.org/fx"

	"github.com/pawmark/auth-service/internal/config"
)

// NewModule returns the session module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig) *Manager {
					return NewManager(config.Session.IdleTimeout)
				},
			),
		),
	)
}
