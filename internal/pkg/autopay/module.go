package autopay

import (
	"go.uber.org/fx"

	"github.com/ezla-online/portal/internal/config"
)

// Module provides gateway verification and link building.
var Module = fx.Provide(newVerifier, newLinkBuilder)

func newVerifier(cfg *config.Config) *Verifier {
	return NewVerifier(cfg.Autopay.ServiceID, cfg.Autopay.SharedKey)
}

func newLinkBuilder(cfg *config.Config, v *Verifier) (*LinkBuilder, error) {
	return NewLinkBuilder(v, cfg.Autopay.GatewayURL)
}
