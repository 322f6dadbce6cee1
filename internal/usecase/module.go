package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/ezla-online/portal/internal/adapter/archive"
	"github.com/ezla-online/portal/internal/adapter/mailer"
	"github.com/ezla-online/portal/internal/adapter/med24"
	"github.com/ezla-online/portal/internal/config"
	"github.com/ezla-online/portal/internal/domain/repository"
	"github.com/ezla-online/portal/internal/pkg/autopay"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewAccountUseCase,
	newCaseUseCase,
	newPaymentUseCase,
	newVisitUseCase,
)

type caseParams struct {
	fx.In

	Config   *config.Config
	Cases    repository.CaseRepository
	Profiles repository.ProfileRepository
	Links    *autopay.LinkBuilder
}

func newCaseUseCase(p caseParams) *CaseUseCase {
	return NewCaseUseCase(p.Cases, p.Profiles, p.Links, Pricing{
		Amount:   p.Config.Autopay.Price,
		Currency: p.Config.Autopay.Currency,
	})
}

type paymentParams struct {
	fx.In

	Config    *config.Config
	Verifier  *autopay.Verifier
	Cases     repository.CaseRepository
	Scheduler VisitScheduler
	Logger    *slog.Logger
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Verifier, p.Cases, p.Scheduler, p.Config.Visits.Lease, p.Logger)
}

type visitParams struct {
	fx.In

	Config   *config.Config
	Cases    repository.CaseRepository
	Profiles repository.ProfileRepository
	Client   med24.Client
	Archive  archive.Archive
	Mailer   mailer.Mailer
	Logger   *slog.Logger
}

func newVisitUseCase(p visitParams) *VisitUseCase {
	return NewVisitUseCase(p.Cases, p.Profiles, p.Client, p.Archive, p.Mailer, p.Config.Visits, p.Logger)
}
