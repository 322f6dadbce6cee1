package di

import (
	"go.uber.org/fx"

	"github.com/ezla-online/portal/internal/adapter/archive"
	"github.com/ezla-online/portal/internal/adapter/mailer"
	"github.com/ezla-online/portal/internal/adapter/med24"
	"github.com/ezla-online/portal/internal/app"
	"github.com/ezla-online/portal/internal/config"
	"github.com/ezla-online/portal/internal/logger"
	"github.com/ezla-online/portal/internal/pkg/auth"
	"github.com/ezla-online/portal/internal/pkg/autopay"
	"github.com/ezla-online/portal/internal/server/http/router"
	"github.com/ezla-online/portal/internal/storage/postgres"
	"github.com/ezla-online/portal/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		autopay.Module,
		postgres.Module,
		med24.Module,
		archive.Module,
		mailer.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
