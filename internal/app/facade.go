package app

import (
	"context"

	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/usecase"
)

// PortalFacade exposes the use cases to the HTTP layer.
type PortalFacade struct {
	auth     *usecase.AuthUseCase
	cases    *usecase.CaseUseCase
	payments *usecase.PaymentUseCase
	accounts *usecase.AccountUseCase
}

func NewPortalFacade(auth *usecase.AuthUseCase, cases *usecase.CaseUseCase, payments *usecase.PaymentUseCase, accounts *usecase.AccountUseCase) *PortalFacade {
	return &PortalFacade{auth: auth, cases: cases, payments: payments, accounts: accounts}
}

func (f *PortalFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *PortalFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *PortalFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *PortalFacade) HandleNotification(ctx context.Context, n model.PaymentNotification) error {
	_, err := f.payments.HandleNotification(ctx, n)
	return err
}

func (f *PortalFacade) ResolveReturn(ctx context.Context, p model.ReturnParams) (*model.ReturnResult, error) {
	return f.payments.ResolveReturn(ctx, p)
}

func (f *PortalFacade) CreateCase(ctx context.Context, userID *int64, in model.CaseInput) (*model.Case, error) {
	return f.cases.Create(ctx, userID, in)
}

func (f *PortalFacade) Case(ctx context.Context, requester *int64, id string) (*model.Case, error) {
	return f.cases.Get(ctx, requester, id)
}

func (f *PortalFacade) UserCases(ctx context.Context, userID int64) ([]model.Case, error) {
	return f.cases.ListByUser(ctx, userID)
}

func (f *PortalFacade) PaymentLink(ctx context.Context, requester *int64, id string) (*model.PaymentLink, error) {
	return f.cases.PaymentLink(ctx, requester, id)
}

func (f *PortalFacade) CaseSummary(ctx context.Context, requester *int64, id string) (*model.Case, []byte, error) {
	return f.cases.Summary(ctx, requester, id)
}

func (f *PortalFacade) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	return f.accounts.Profile(ctx, userID)
}

func (f *PortalFacade) SaveProfile(ctx context.Context, userID int64, p model.Profile) (*model.Profile, error) {
	return f.accounts.SaveProfile(ctx, userID, p)
}

func (f *PortalFacade) DeleteAccount(ctx context.Context, userID int64) error {
	return f.accounts.DeleteAccount(ctx, userID)
}
