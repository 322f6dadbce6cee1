// Package autopay authenticates Autopay gateway messages and builds payment links.
//
// Every digest is SHA-256 over the message fields joined with "|" and terminated
// by the shared key, rendered as lowercase hex. The return redirect and the ITN
// notification sign different field sets and must not be mixed up.
package autopay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
)

const separator = "|"

// Verifier checks gateway digests using the shared key.
type Verifier struct {
	serviceID string
	secret    []byte
}

// NewVerifier builds a Verifier for the registered service.
func NewVerifier(serviceID, secret string) *Verifier {
	return &Verifier{serviceID: serviceID, secret: []byte(secret)}
}

// ServiceID returns the registered gateway service identifier.
func (v *Verifier) ServiceID() string {
	return v.serviceID
}

// VerifyReturnHash authenticates the browser redirect parameters.
func (v *Verifier) VerifyReturnHash(serviceID, orderID, hash string) error {
	if err := v.ready(); err != nil {
		return err
	}
	return v.check(serviceID, hash, serviceID, orderID)
}

// VerifyWebhookHash authenticates an ITN notification.
func (v *Verifier) VerifyWebhookHash(n model.PaymentNotification) error {
	if err := v.ready(); err != nil {
		return err
	}
	return v.check(n.ServiceID, n.Hash,
		n.ServiceID, n.OrderID, n.RemoteID, n.Amount, n.Currency, n.PaymentStatus)
}

// Sign computes the digest for fields in gateway order.
func (v *Verifier) Sign(fields ...string) string {
	payload := strings.Join(append(fields, string(v.secret)), separator)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func (v *Verifier) ready() error {
	if v == nil || v.serviceID == "" || len(v.secret) == 0 {
		return domainErrors.ErrGatewayNotConfigured
	}
	return nil
}

func (v *Verifier) check(serviceID, hash string, fields ...string) error {
	expected := v.Sign(fields...)
	got := strings.ToLower(strings.TrimSpace(hash))
	if !hmac.Equal([]byte(expected), []byte(got)) {
		return domainErrors.ErrHashMismatch
	}
	if serviceID != v.serviceID {
		return domainErrors.ErrHashMismatch
	}
	return nil
}
