package notify

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawmark/auth-service/internal/config"
)

// NewModule returns the notify module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger) Notifier {
					if config.SMTP.Server == "" {
						return NewLogNotifier(log)
					}
					return NewSMTPNotifier(&config.SMTP, log)
				},
			),
		),
	)
}
