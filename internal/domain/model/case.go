package model

import (
	"encoding/json"
	"strings"
	"time"
)

// CaseStatus describes the review workflow of a sick-leave request.
type CaseStatus string

const (
	CaseStatusDraft     CaseStatus = "draft"
	CaseStatusSubmitted CaseStatus = "submitted"
	CaseStatusInReview  CaseStatus = "in_review"
	CaseStatusCompleted CaseStatus = "completed"
	CaseStatusRejected  CaseStatus = "rejected"
)

// LeaveType tells whom the certificate is issued for.
type LeaveType string

const (
	LeaveTypeSelf       LeaveType = "self"
	LeaveTypeChildCare  LeaveType = "child_care"
	LeaveTypeFamilyCare LeaveType = "family_care"
)

// Valid reports whether the leave type is one of the supported kinds.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSelf, LeaveTypeChildCare, LeaveTypeFamilyCare:
		return true
	}
	return false
}

// CaseInput is the wizard payload for a new case.
type CaseInput struct {
	IllnessFrom time.Time
	IllnessTo   time.Time
	LeaveType   LeaveType
	Interview   map[string]string
	Symptoms    []string
	Profile     *Profile
}

// Case is a single sick-leave request tracked through payment and review.
type Case struct {
	ID         string
	CaseNumber string
	ProfileID  string
	UserID     *int64

	IllnessFrom time.Time
	IllnessTo   time.Time
	LeaveType   LeaveType
	Interview   map[string]string
	Symptoms    []string
	Amount      string
	Currency    string

	PaymentStatus    PaymentStatus
	PaymentPSPRef    *string
	PaymentUpdatedAt *time.Time

	Status      CaseStatus
	SubmittedAt *time.Time

	VisitID            *string
	VisitStatus        json.RawMessage
	VisitAttempts      int
	VisitLastError     *string
	VisitNextAttemptAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderID returns the gateway order identifier: the case id without dashes.
func (c *Case) OrderID() string {
	return CompactID(c.ID)
}

// CompactID strips dashes from a UUID so that it fits gateway order id limits.
func CompactID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// ExpandID restores dashed UUID form from a compact 32 character id.
// Values of any other shape are returned unchanged.
func ExpandID(id string) string {
	if len(id) != 32 || strings.Contains(id, "-") {
		return id
	}
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:32]
}
