package med24

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ezla-online/portal/internal/config"
)

// Module exposes Med24 client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	m := p.Config.Med24
	return NewHTTPClient(m.BaseURL, Options{
		APIToken:      m.APIToken,
		ServiceID:     m.ServiceID,
		ChannelKind:   m.ChannelKind,
		BookingIntent: m.BookingIntent,
		Timeout:       m.Timeout,
	}, p.Logger)
}
