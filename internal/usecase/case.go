package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/domain/repository"
	"github.com/ezla-online/portal/internal/pkg/summary"
)

const (
	caseNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	caseNumberAttempts = 3
)

// PaymentLinker signs gateway payment links.
type PaymentLinker interface {
	StartLink(orderID, amount, currency, email string) (*model.PaymentLink, error)
}

// Pricing is the fee charged per case.
type Pricing struct {
	Amount   string
	Currency string
}

// CaseUseCase drives the request wizard from draft to payment.
type CaseUseCase struct {
	cases    repository.CaseRepository
	profiles repository.ProfileRepository
	links    PaymentLinker
	pricing  Pricing
	now      func() time.Time
}

// NewCaseUseCase constructs CaseUseCase.
func NewCaseUseCase(cases repository.CaseRepository, profiles repository.ProfileRepository, links PaymentLinker, pricing Pricing) *CaseUseCase {
	return &CaseUseCase{cases: cases, profiles: profiles, links: links, pricing: pricing, now: time.Now}
}

// Create validates the wizard input and stores a draft case awaiting payment.
// userID is nil for guest submissions.
func (u *CaseUseCase) Create(ctx context.Context, userID *int64, in model.CaseInput) (*model.Case, error) {
	if err := ValidateCase(&in, u.now()); err != nil {
		return nil, err
	}

	profile, err := u.resolveProfile(ctx, userID, in.Profile)
	if err != nil {
		return nil, err
	}

	c := &model.Case{
		ID:            uuid.NewString(),
		ProfileID:     profile.ID,
		UserID:        userID,
		IllnessFrom:   in.IllnessFrom,
		IllnessTo:     in.IllnessTo,
		LeaveType:     in.LeaveType,
		Interview:     in.Interview,
		Symptoms:      in.Symptoms,
		Amount:        u.pricing.Amount,
		Currency:      u.pricing.Currency,
		PaymentStatus: model.PaymentStatusPending,
		Status:        model.CaseStatusDraft,
	}

	for attempt := 0; ; attempt++ {
		c.CaseNumber, err = newCaseNumber(u.now())
		if err != nil {
			return nil, err
		}
		err = u.cases.Create(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domainErrors.ErrAlreadyExists) || attempt+1 >= caseNumberAttempts {
			return nil, fmt.Errorf("create case: %w", err)
		}
	}
}

func (u *CaseUseCase) resolveProfile(ctx context.Context, userID *int64, inline *model.Profile) (*model.Profile, error) {
	if userID != nil {
		stored, err := u.profiles.GetByUser(ctx, *userID)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}

	if inline == nil {
		return nil, domainErrors.Invalid("profile", "is required")
	}
	p := *inline
	if err := ValidateProfile(&p); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.UserID = userID
	if err := u.profiles.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &p, nil
}

// Get returns a case visible to the requester. Cases owned by an account are
// hidden from everyone else.
func (u *CaseUseCase) Get(ctx context.Context, requester *int64, id string) (*model.Case, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domainErrors.ErrNotFound
	}
	c, err := u.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != nil && (requester == nil || *requester != *c.UserID) {
		return nil, domainErrors.ErrNotFound
	}
	return c, nil
}

// ListByUser returns the account's cases, newest first.
func (u *CaseUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Case, error) {
	return u.cases.ListByUser(ctx, userID)
}

// PaymentLink prepares the gateway redirect for a draft case.
func (u *CaseUseCase) PaymentLink(ctx context.Context, requester *int64, id string) (*model.PaymentLink, error) {
	c, err := u.Get(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CaseStatusDraft || c.PaymentStatus != model.PaymentStatusPending {
		return nil, domainErrors.ErrCaseNotPayable
	}
	p, err := u.profiles.GetByID(ctx, c.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return u.links.StartLink(c.OrderID(), c.Amount, c.Currency, p.Email)
}

// Summary renders the PDF summary of a case.
func (u *CaseUseCase) Summary(ctx context.Context, requester *int64, id string) (*model.Case, []byte, error) {
	c, err := u.Get(ctx, requester, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := u.profiles.GetByID(ctx, c.ProfileID)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	pdf, err := summary.Render(c, p, u.now())
	if err != nil {
		return nil, nil, err
	}
	return c, pdf, nil
}

// newCaseNumber returns a display number like EZ-261014-K7Q2MX.
func newCaseNumber(now time.Time) (string, error) {
	var raw [6]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate case number: %w", err)
	}
	suffix := make([]byte, len(raw))
	for i, b := range raw {
		suffix[i] = caseNumberAlphabet[int(b)%len(caseNumberAlphabet)]
	}
	return "EZ-" + now.Format("060102") + "-" + string(suffix), nil
}
