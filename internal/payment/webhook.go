package payment

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var ErrSignatureInvalid = errors.New("webhook signature verification failed")

// WebhookVerifier authenticates inbound payment notifications. The signature
// is computed over the exact raw request bytes, so callers must hand over
// the body as read off the wire, never a re-serialized copy.
type WebhookVerifier struct {
	endpointSecret string
}

func NewWebhookVerifier(endpointSecret string) *WebhookVerifier {
	return &WebhookVerifier{endpointSecret: endpointSecret}
}

// Verify checks rawBody against the Stripe-Signature header and returns the
// parsed event only on a match. Every failure mode (missing header, missing
// secret, stale timestamp, signature mismatch, malformed body) collapses to
// ErrSignatureInvalid so the caller rejects without side effects.
func (v *WebhookVerifier) Verify(rawBody []byte, signatureHeader string) (stripe.Event, error) {
	if v.endpointSecret == "" {
		return stripe.Event{}, fmt.Errorf("%w: no endpoint secret configured", ErrSignatureInvalid)
	}
	event, err := webhook.ConstructEventWithOptions(rawBody, signatureHeader, v.endpointSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return event, nil
}
