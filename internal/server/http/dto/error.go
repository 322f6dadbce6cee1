package dto

// ErrorResponse reports a rejected request. Field is set for input errors.
type ErrorResponse struct {
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}
