package model

import "encoding/json"

// Visit is a consultation registered on the telemedicine platform.
type Visit struct {
	ID     string
	Status json.RawMessage
}

// VisitRequest describes a booking sent to the telemedicine platform.
type VisitRequest struct {
	ExternalTag string
	Patient     Profile
}
