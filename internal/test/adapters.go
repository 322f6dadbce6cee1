package test

import (
	"context"
	"sync"

	"github.com/ezla-online/portal/internal/domain/model"
)

// Med24ClientStub returns configured visits and records requests.
type Med24ClientStub struct {
	mu       sync.Mutex
	CreateFn func(context.Context, model.VisitRequest) (*model.Visit, error)
	Requests []model.VisitRequest
}

func (s *Med24ClientStub) CreateVisit(ctx context.Context, req model.VisitRequest) (*model.Visit, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.Visit{ID: "visit-" + req.ExternalTag, Status: []byte(`{"state":"new"}`)}, nil
}

// Calls returns the number of booking requests seen so far.
func (s *Med24ClientStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// ArchiveStub records uploaded and removed summaries.
type ArchiveStub struct {
	mu      sync.Mutex
	PutErr  error
	Uploads map[string][]byte
	Removed []string
}

func (s *ArchiveStub) Put(ctx context.Context, caseID string, pdf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	if s.Uploads == nil {
		s.Uploads = make(map[string][]byte)
	}
	s.Uploads[caseID] = pdf
	return nil
}

func (s *ArchiveStub) Remove(ctx context.Context, caseIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, caseIDs...)
	return nil
}

// Stored reports whether a summary was uploaded for the case.
func (s *ArchiveStub) Stored(caseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Uploads[caseID]
	return ok
}

// SentMail is a message captured by MailerStub.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MailerStub captures outgoing mail.
type MailerStub struct {
	mu   sync.Mutex
	Err  error
	Sent []SentMail
}

func (s *MailerStub) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Messages returns a copy of captured mail.
func (s *MailerStub) Messages() []SentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMail(nil), s.Sent...)
}

// SchedulerStub records scheduled visit bookings.
type SchedulerStub struct {
	mu        sync.Mutex
	Reject    bool
	Scheduled []string
}

func (s *SchedulerStub) Schedule(caseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Reject {
		return false
	}
	s.Scheduled = append(s.Scheduled, caseID)
	return true
}

// Count returns how many bookings were scheduled.
func (s *SchedulerStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Scheduled)
}
