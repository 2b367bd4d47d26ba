package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stripe/stripe-go/v82"

	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
	"github.com/AltaAIConsult/90-minutes-site/internal/fulfillment"
	"github.com/AltaAIConsult/90-minutes-site/internal/metrics"
	"github.com/AltaAIConsult/90-minutes-site/internal/payment"
)

// GatewayMock implements payment.Gateway for testing
type GatewayMock struct {
	createCalls   int
	lastRequest   *domain.CheckoutSessionRequest
	session       *stripe.CheckoutSession
	createErr     error
	lineItemCalls int
	lineItems     []*stripe.LineItem
	lineItemsErr  error
}

func (m *GatewayMock) CreateCheckoutSession(_ context.Context, req *domain.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
	m.createCalls++
	m.lastRequest = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *GatewayMock) SessionLineItems(_ context.Context, _ string) ([]*stripe.LineItem, error) {
	m.lineItemCalls++
	if m.lineItemsErr != nil {
		return nil, m.lineItemsErr
	}
	return m.lineItems, nil
}

type SubmitterMock struct {
	calls     int
	lastOrder *domain.FulfillmentOrder
	receipt   *fulfillment.Receipt
	err       error
}

func (m *SubmitterMock) CreateOrder(_ context.Context, order *domain.FulfillmentOrder) (*fulfillment.Receipt, error) {
	m.calls++
	m.lastOrder = order
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

type ProcessedMock struct {
	seen    map[string]bool
	marked  []string
	seenErr error
	markErr error
}

func (m *ProcessedMock) Seen(_ context.Context, sessionID string) (bool, error) {
	if m.seenErr != nil {
		return false, m.seenErr
	}
	return m.seen[sessionID], nil
}

func (m *ProcessedMock) Mark(_ context.Context, sessionID string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, sessionID)
	return nil
}

type publishedEvent struct {
	eventType string
	sessionID string
}

type EventSinkMock struct {
	published []publishedEvent
	err       error
}

func (m *EventSinkMock) Publish(_ context.Context, eventType, sessionID string, _ any) error {
	m.published = append(m.published, publishedEvent{eventType: eventType, sessionID: sessionID})
	return m.err
}

func newTestMetrics() *metrics.PipelineMetrics {
	return metrics.NewPipelineMetrics(prometheus.NewRegistry())
}

// lineItem builds a stripe line item carrying variant metadata the way the
// checkout builder attaches it.
func lineItem(variantID string, qty int64) *stripe.LineItem {
	return &stripe.LineItem{
		Quantity: qty,
		Price: &stripe.Price{
			Product: &stripe.Product{
				Metadata: map[string]string{payment.VariantIDMetadataKey: variantID},
			},
		},
	}
}

func completedSessionEvent(sessionID string) stripe.Event {
	raw := fmt.Sprintf(`{
		"id": %q,
		"collected_information": {
			"shipping_details": {
				"name": "Jane Doe",
				"address": {
					"line1": "1 Main St",
					"line2": "Apt 4",
					"city": "Springfield",
					"state": "IL",
					"country": "US",
					"postal_code": "62701"
				}
			}
		},
		"customer_details": {"email": "jane@example.com"}
	}`, sessionID)
	return stripe.Event{
		ID:   "evt_test_1",
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}
