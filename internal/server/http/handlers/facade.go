package handlers

import (
	"context"

	"github.com/ezla-online/portal/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// PaymentFacade handles gateway callbacks.
type PaymentFacade interface {
	HandleNotification(ctx context.Context, n model.PaymentNotification) error
	ResolveReturn(ctx context.Context, p model.ReturnParams) (*model.ReturnResult, error)
}

// CaseFacade exposes the wizard and case views. A nil requester is a guest.
type CaseFacade interface {
	CreateCase(ctx context.Context, userID *int64, in model.CaseInput) (*model.Case, error)
	Case(ctx context.Context, requester *int64, id string) (*model.Case, error)
	UserCases(ctx context.Context, userID int64) ([]model.Case, error)
	PaymentLink(ctx context.Context, requester *int64, id string) (*model.PaymentLink, error)
	CaseSummary(ctx context.Context, requester *int64, id string) (*model.Case, []byte, error)
}

// AccountFacade manages the signed in account.
type AccountFacade interface {
	Profile(ctx context.Context, userID int64) (*model.Profile, error)
	SaveProfile(ctx context.Context, userID int64, p model.Profile) (*model.Profile, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

// PortalFacade aggregates the full set of operations used across handlers.
type PortalFacade interface {
	AuthFacade
	PaymentFacade
	CaseFacade
	AccountFacade
}
