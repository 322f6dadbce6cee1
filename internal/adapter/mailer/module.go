package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ezla-online/portal/internal/config"
)

// Module provides the patient mailer.
var Module = fx.Provide(newMailer)

func newMailer(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTP.Host == "" {
		return Noop{Logger: logger}
	}
	return NewSMTPMailer(cfg.SMTP, logger)
}
