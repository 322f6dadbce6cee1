package dto

// NotificationRequest is the gateway ITN payload, accepted as a form or JSON.
type NotificationRequest struct {
	ServiceID     string `form:"serviceID" json:"serviceID" binding:"required"`
	OrderID       string `form:"orderID" json:"orderID" binding:"required"`
	RemoteID      string `form:"remoteID" json:"remoteID" binding:"required"`
	Amount        string `form:"amount" json:"amount" binding:"required"`
	Currency      string `form:"currency" json:"currency" binding:"required"`
	PaymentStatus string `form:"paymentStatus" json:"paymentStatus" binding:"required"`
	Hash          string `form:"hash" json:"hash" binding:"required"`
}

// ReturnRequest carries the parameters of the browser return redirect.
type ReturnRequest struct {
	ServiceID    string `json:"ServiceID"`
	OrderID      string `json:"OrderID"`
	Hash         string `json:"Hash"`
	CaseNumber   string `json:"case_number"`
	CompactID    string `json:"cid"`
	CachedCaseID string `json:"cached_case_id"`
}

// ReturnResponse is the confirmation page status view.
type ReturnResponse struct {
	Valid         bool   `json:"valid"`
	Verified      bool   `json:"verified"`
	Source        string `json:"source,omitempty"`
	CaseNumber    string `json:"case_number,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	CaseStatus    string `json:"case_status,omitempty"`
	ClearCache    bool   `json:"clear_cache"`
	Error         string `json:"error,omitempty"`
}

// PaymentLinkResponse points the browser at the gateway.
type PaymentLinkResponse struct {
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
}
