package test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error

	DeleteFn func(context.Context, int64) ([]string, error)
	Deleted  []int64
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Delete removes the user and records the call.
func (s *UserRepositoryStub) Delete(ctx context.Context, id int64) ([]string, error) {
	s.Deleted = append(s.Deleted, id)
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	delete(s.ByID, id)
	delete(s.Users, user.Login)
	return nil, nil
}

// ProfileRepositoryStub keeps profiles in memory.
type ProfileRepositoryStub struct {
	mu       sync.Mutex
	Profiles map[string]*model.Profile
	Err      error
}

// NewProfileRepositoryStub constructs an empty stub.
func NewProfileRepositoryStub(profiles ...*model.Profile) *ProfileRepositoryStub {
	s := &ProfileRepositoryStub{Profiles: make(map[string]*model.Profile)}
	for _, p := range profiles {
		s.Profiles[p.ID] = p
	}
	return s
}

func (s *ProfileRepositoryStub) Create(ctx context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Profiles[p.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	if p.UserID != nil {
		for _, existing := range s.Profiles {
			if existing.UserID != nil && *existing.UserID == *p.UserID {
				return domainErrors.ErrAlreadyExists
			}
		}
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	s.Profiles[p.ID] = &stored
	return nil
}

func (s *ProfileRepositoryStub) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Profiles[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *ProfileRepositoryStub) GetByUser(ctx context.Context, userID int64) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Profiles {
		if p.UserID != nil && *p.UserID == userID {
			out := *p
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ProfileRepositoryStub) Update(ctx context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Profiles[p.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	stored := *p
	s.Profiles[p.ID] = &stored
	return nil
}

// VisitFailure records a MarkVisitFailed call.
type VisitFailure struct {
	CaseID  string
	Reason  string
	RetryAt *time.Time
}

// CaseRepositoryStub is an in-memory case store with the same conditional
// update semantics as the database.
type CaseRepositoryStub struct {
	mu    sync.Mutex
	Cases map[string]*model.Case

	Err           error
	GetByIDFn     func(context.Context, string) (*model.Case, error)
	CreateFn      func(context.Context, *model.Case) error
	SelectBatchFn func(context.Context, int, time.Duration) ([]model.Case, error)

	Transitions int
	Failures    []VisitFailure

	locks map[string]time.Time
}

// NewCaseRepositoryStub seeds the stub with copies of cases.
func NewCaseRepositoryStub(cases ...*model.Case) *CaseRepositoryStub {
	s := &CaseRepositoryStub{Cases: make(map[string]*model.Case)}
	for _, c := range cases {
		copied := *c
		s.Cases[c.ID] = &copied
	}
	return s
}

// Snapshot returns a copy of the stored case.
func (s *CaseRepositoryStub) Snapshot(id string) (model.Case, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Cases[id]
	if !ok {
		return model.Case{}, false
	}
	return *c, true
}

func (s *CaseRepositoryStub) Create(ctx context.Context, c *model.Case) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Cases == nil {
		s.Cases = make(map[string]*model.Case)
	}
	for _, existing := range s.Cases {
		if existing.ID == c.ID || existing.CaseNumber == c.CaseNumber {
			return domainErrors.ErrAlreadyExists
		}
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	s.Cases[c.ID] = &stored
	return nil
}

func (s *CaseRepositoryStub) GetByID(ctx context.Context, id string) (*model.Case, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Cases[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *CaseRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.Cases {
		if c.CaseNumber == number {
			out := *c
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CaseRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Case
	for _, c := range s.Cases {
		if c.UserID != nil && *c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *CaseRepositoryStub) UpdatePayment(ctx context.Context, id string, status model.PaymentStatus, pspRef string) (*model.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Cases[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if c.PaymentStatus != model.PaymentStatusPending && c.PaymentStatus != status {
		return nil, domainErrors.ErrPaymentFinalized
	}
	now := time.Now()
	c.PaymentStatus = status
	if pspRef != "" {
		ref := pspRef
		c.PaymentPSPRef = &ref
	}
	c.PaymentUpdatedAt = &now
	out := *c
	return &out, nil
}

func (s *CaseRepositoryStub) MarkSubmitted(ctx context.Context, id string, lease time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	c, ok := s.Cases[id]
	if !ok || c.Status != model.CaseStatusDraft || c.PaymentStatus != model.PaymentStatusSuccess {
		return false, nil
	}
	now := time.Now()
	next := now.Add(lease)
	c.Status = model.CaseStatusSubmitted
	c.SubmittedAt = &now
	c.VisitNextAttemptAt = &next
	s.Transitions++
	return true, nil
}

func (s *CaseRepositoryStub) SelectBatchForVisitBooking(ctx context.Context, limit int, lease time.Duration) ([]model.Case, error) {
	if s.SelectBatchFn != nil {
		return s.SelectBatchFn(ctx, limit, lease)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	now := time.Now()
	var out []model.Case
	for _, c := range s.Cases {
		if len(out) >= limit {
			break
		}
		if c.Status != model.CaseStatusSubmitted || c.VisitID != nil || c.VisitNextAttemptAt == nil || c.VisitNextAttemptAt.After(now) {
			continue
		}
		if until, locked := s.locks[c.ID]; locked && until.After(now) {
			continue
		}
		next := now.Add(lease)
		c.VisitNextAttemptAt = &next
		out = append(out, *c)
	}
	return out, nil
}

func (s *CaseRepositoryStub) ClaimVisit(ctx context.Context, id string, lease time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	c, ok := s.Cases[id]
	if !ok || c.Status != model.CaseStatusSubmitted || c.VisitID != nil {
		return false, nil
	}
	now := time.Now()
	if until, locked := s.locks[id]; locked && until.After(now) {
		return false, nil
	}
	if s.locks == nil {
		s.locks = make(map[string]time.Time)
	}
	s.locks[id] = now.Add(lease)
	return true, nil
}

// Locked reports whether a booking attempt currently holds the case.
func (s *CaseRepositoryStub) Locked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.locks[id]
	return ok && until.After(time.Now())
}

func (s *CaseRepositoryStub) SetVisit(ctx context.Context, id string, visit model.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c, ok := s.Cases[id]
	if !ok || c.VisitID != nil {
		return domainErrors.ErrNotFound
	}
	visitID := visit.ID
	c.VisitID = &visitID
	c.VisitStatus = json.RawMessage(append([]byte(nil), visit.Status...))
	c.VisitLastError = nil
	c.VisitNextAttemptAt = nil
	delete(s.locks, id)
	return nil
}

func (s *CaseRepositoryStub) MarkVisitFailed(ctx context.Context, id string, reason string, retryAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c, ok := s.Cases[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	c.VisitAttempts++
	msg := reason
	c.VisitLastError = &msg
	c.VisitNextAttemptAt = retryAt
	s.Failures = append(s.Failures, VisitFailure{CaseID: id, Reason: reason, RetryAt: retryAt})
	return nil
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.ProfileRepository = (*ProfileRepositoryStub)(nil)
	_ repository.CaseRepository    = (*CaseRepositoryStub)(nil)
)
