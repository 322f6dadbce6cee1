package dto

import "time"

// CaseRequest is the final wizard step. Profile may be omitted by signed in
// users with a stored profile.
type CaseRequest struct {
	IllnessFrom string            `json:"illness_from" binding:"required,datetime=2006-01-02"`
	IllnessTo   string            `json:"illness_to" binding:"required,datetime=2006-01-02"`
	LeaveType   string            `json:"leave_type" binding:"required,oneof=self child_care family_care"`
	Interview   map[string]string `json:"interview" binding:"required"`
	Symptoms    []string          `json:"symptoms" binding:"required,min=1,dive,required"`
	Profile     *ProfileRequest   `json:"profile"`
}

// CaseResponse is the public view of a case.
type CaseResponse struct {
	ID            string     `json:"id"`
	CaseNumber    string     `json:"case_number"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	LeaveType     string     `json:"leave_type"`
	IllnessFrom   string     `json:"illness_from"`
	IllnessTo     string     `json:"illness_to"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	VisitBooked   bool       `json:"visit_booked"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
