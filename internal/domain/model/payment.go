package model

// PaymentStatus is the application side view of a gateway transaction.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFail    PaymentStatus = "fail"
)

// Terminal reports whether no further transition is permitted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFail
}

// PaymentNotification is an inbound gateway message (ITN). It is never persisted.
type PaymentNotification struct {
	ServiceID     string
	OrderID       string
	RemoteID      string
	Amount        string
	Currency      string
	PaymentStatus string
	Hash          string
}

// PaymentLink is a prepared redirect to the gateway payment page.
type PaymentLink struct {
	OrderID     string
	RedirectURL string
}

// ReturnParams carries whatever the browser brought back from the gateway redirect.
type ReturnParams struct {
	ServiceID    string
	OrderID      string
	Hash         string
	CaseNumber   string
	CompactID    string
	CachedCaseID string
}

// ReturnSource names the identifier that resolved a return redirect.
type ReturnSource string

const (
	ReturnSourceHash       ReturnSource = "hash"
	ReturnSourceCaseNumber ReturnSource = "case_number"
	ReturnSourceCompactID  ReturnSource = "compact_id"
	ReturnSourceCachedID   ReturnSource = "cached_case_id"
)

// ReturnResult is the best-effort status view shown on the confirmation page.
// An empty PaymentStatus means the status is unknown.
type ReturnResult struct {
	Verified      bool
	Source        ReturnSource
	CaseNumber    string
	PaymentStatus PaymentStatus
	CaseStatus    CaseStatus
	ClearCache    bool
}
