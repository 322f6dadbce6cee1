package archive

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ezla-online/portal/internal/config"
)

// Module provides the summary archive.
var Module = fx.Provide(newArchive)

type archiveParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newArchive(p archiveParams) (Archive, error) {
	if p.Config.S3.Endpoint == "" {
		p.Logger.Info("summary archive disabled: no s3 endpoint configured")
		return Noop{}, nil
	}
	return NewS3Archive(p.Config.S3, p.Logger)
}
