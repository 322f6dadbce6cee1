package autopay

import (
	"fmt"
	"net/url"

	"github.com/ezla-online/portal/internal/domain/model"
)

// LinkBuilder prepares redirects to the gateway payment page.
type LinkBuilder struct {
	verifier   *Verifier
	gatewayURL *url.URL
}

// NewLinkBuilder validates the gateway URL and returns a LinkBuilder.
func NewLinkBuilder(verifier *Verifier, gatewayURL string) (*LinkBuilder, error) {
	parsed, err := url.Parse(gatewayURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &LinkBuilder{verifier: verifier, gatewayURL: parsed}, nil
}

// StartLink returns the signed payment start URL for an order.
func (b *LinkBuilder) StartLink(orderID, amount, currency, email string) (*model.PaymentLink, error) {
	if err := b.verifier.ready(); err != nil {
		return nil, err
	}
	serviceID := b.verifier.ServiceID()

	query := url.Values{}
	query.Set("ServiceID", serviceID)
	query.Set("OrderID", orderID)
	query.Set("Amount", amount)
	query.Set("Currency", currency)
	query.Set("CustomerEmail", email)
	query.Set("Hash", b.verifier.Sign(serviceID, orderID, amount, currency, email))

	target := *b.gatewayURL
	target.RawQuery = query.Encode()
	return &model.PaymentLink{OrderID: orderID, RedirectURL: target.String()}, nil
}
