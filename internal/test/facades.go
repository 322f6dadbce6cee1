package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ezla-online/portal/internal/domain/model"
)

// AuthFacadeStub mimics authentication facade behaviour for handler tests.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register delegates to override or returns a fixed token.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate delegates to override or returns a fixed token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken delegates to override or resolves every token to user 1.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// PaymentFacadeStub provides controllable gateway callback behaviour.
type PaymentFacadeStub struct {
	NotifyFn func(context.Context, model.PaymentNotification) error
	ReturnFn func(context.Context, model.ReturnParams) (*model.ReturnResult, error)
}

// HandleNotification delegates to override or accepts the message.
func (s PaymentFacadeStub) HandleNotification(ctx context.Context, n model.PaymentNotification) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, n)
	}
	return nil
}

// ResolveReturn delegates to override or reports a pending verified payment.
func (s PaymentFacadeStub) ResolveReturn(ctx context.Context, p model.ReturnParams) (*model.ReturnResult, error) {
	if s.ReturnFn != nil {
		return s.ReturnFn(ctx, p)
	}
	return &model.ReturnResult{
		Verified:      true,
		Source:        model.ReturnSourceHash,
		PaymentStatus: model.PaymentStatusPending,
		CaseStatus:    model.CaseStatusDraft,
	}, nil
}

// CaseFacadeStub simulates wizard operations.
type CaseFacadeStub struct {
	CreateFn  func(context.Context, *int64, model.CaseInput) (*model.Case, error)
	GetFn     func(context.Context, *int64, string) (*model.Case, error)
	ListFn    func(context.Context, int64) ([]model.Case, error)
	LinkFn    func(context.Context, *int64, string) (*model.PaymentLink, error)
	SummaryFn func(context.Context, *int64, string) (*model.Case, []byte, error)
}

// CreateCase delegates to override or echoes a draft case.
func (s CaseFacadeStub) CreateCase(ctx context.Context, userID *int64, in model.CaseInput) (*model.Case, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, in)
	}
	return &model.Case{
		ID:            "0b5f6c7e-8a9b-4c1d-9e2f-3a4b5c6d7e8f",
		CaseNumber:    "EZ-261014-ABC123",
		UserID:        userID,
		IllnessFrom:   in.IllnessFrom,
		IllnessTo:     in.IllnessTo,
		LeaveType:     in.LeaveType,
		Status:        model.CaseStatusDraft,
		PaymentStatus: model.PaymentStatusPending,
		CreatedAt:     time.Unix(0, 0).UTC(),
	}, nil
}

// Case delegates to override or returns a draft case with the given id.
func (s CaseFacadeStub) Case(ctx context.Context, requester *int64, id string) (*model.Case, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, requester, id)
	}
	return &model.Case{ID: id, Status: model.CaseStatusDraft, PaymentStatus: model.PaymentStatusPending}, nil
}

// UserCases delegates to override or returns one case.
func (s CaseFacadeStub) UserCases(ctx context.Context, userID int64) ([]model.Case, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return []model.Case{{ID: "c1", UserID: &userID}}, nil
}

// PaymentLink delegates to override or returns a fixed redirect.
func (s CaseFacadeStub) PaymentLink(ctx context.Context, requester *int64, id string) (*model.PaymentLink, error) {
	if s.LinkFn != nil {
		return s.LinkFn(ctx, requester, id)
	}
	return &model.PaymentLink{OrderID: model.CompactID(id), RedirectURL: "https://pay.example.com/payment"}, nil
}

// CaseSummary delegates to override or returns a tiny PDF stand-in.
func (s CaseFacadeStub) CaseSummary(ctx context.Context, requester *int64, id string) (*model.Case, []byte, error) {
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, requester, id)
	}
	return &model.Case{ID: id, CaseNumber: "EZ-261014-ABC123"}, []byte("%PDF-1.3"), nil
}

// AccountFacadeStub simulates account operations.
type AccountFacadeStub struct {
	ProfileFn func(context.Context, int64) (*model.Profile, error)
	SaveFn    func(context.Context, int64, model.Profile) (*model.Profile, error)
	DeleteFn  func(context.Context, int64) error
}

// Profile delegates to override or returns a minimal profile.
func (s AccountFacadeStub) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.Profile{ID: "p1", UserID: &userID, FirstName: "Jan"}, nil
}

// SaveProfile delegates to override or echoes the profile.
func (s AccountFacadeStub) SaveProfile(ctx context.Context, userID int64, p model.Profile) (*model.Profile, error) {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, userID, p)
	}
	p.ID = "p1"
	p.UserID = &userID
	return &p, nil
}

// DeleteAccount delegates to override or succeeds.
func (s AccountFacadeStub) DeleteAccount(ctx context.Context, userID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, userID)
	}
	return nil
}

// PortalFacadeStub combines all facade stubs.
type PortalFacadeStub struct {
	AuthFacadeStub
	PaymentFacadeStub
	CaseFacadeStub
	AccountFacadeStub
}

// VisitBookerStub mimics worker interactions with the visit use case.
type VisitBookerStub struct {
	Batches   [][]model.Case
	PendingFn func(context.Context, int) ([]model.Case, error)
	BookFn    func(context.Context, string) error
	Booked    []string
	mu        sync.Mutex
	calls     int32
}

// Lock exposes internal mutex for external synchronization.
func (s *VisitBookerStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *VisitBookerStub) Unlock() { s.mu.Unlock() }

// PendingVisits returns batches from the configured queue.
func (s *VisitBookerStub) PendingVisits(ctx context.Context, limit int) ([]model.Case, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// Book records booking requests.
func (s *VisitBookerStub) Book(ctx context.Context, caseID string) error {
	s.mu.Lock()
	s.Booked = append(s.Booked, caseID)
	s.mu.Unlock()
	if s.BookFn != nil {
		return s.BookFn(ctx, caseID)
	}
	return nil
}

// BookedCount returns the number of booking calls.
func (s *VisitBookerStub) BookedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Booked)
}
