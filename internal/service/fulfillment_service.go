package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/stripe/stripe-go/v82"

	"github.com/AltaAIConsult/90-minutes-site/internal/cache"
	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
	"github.com/AltaAIConsult/90-minutes-site/internal/fulfillment"
	"github.com/AltaAIConsult/90-minutes-site/internal/metrics"
	"github.com/AltaAIConsult/90-minutes-site/internal/payment"
	"github.com/AltaAIConsult/90-minutes-site/internal/publisher"
)

// Submitter sends a translated order to the fulfillment provider.
type Submitter interface {
	CreateOrder(ctx context.Context, order *domain.FulfillmentOrder) (*fulfillment.Receipt, error)
}

// EventSink receives fulfillment outcome events for ops remediation.
type EventSink interface {
	Publish(ctx context.Context, eventType, sessionID string, payload any) error
}

type FulfillmentService interface {
	ProcessEvent(ctx context.Context, event stripe.Event) error
}

type FulfillmentServiceImpl struct {
	gateway   payment.Gateway
	submitter Submitter
	processed cache.ProcessedSessions // optional, nil disables local dedupe
	events    EventSink               // optional
	metrics   *metrics.PipelineMetrics
}

func NewFulfillmentService(
	gateway payment.Gateway,
	submitter Submitter,
	processed cache.ProcessedSessions,
	events EventSink,
	m *metrics.PipelineMetrics,
) *FulfillmentServiceImpl {
	return &FulfillmentServiceImpl{
		gateway:   gateway,
		submitter: submitter,
		processed: processed,
		events:    events,
		metrics:   m,
	}
}

// Translate maps a verified payment event into a fulfillment order. Events
// other than checkout.session.completed return (nil, nil): acknowledged,
// nothing to do. Translation is a pure function of the event and the
// session's stored line items, so redeliveries of the same event always
// produce the same order.
func (s *FulfillmentServiceImpl) Translate(ctx context.Context, event stripe.Event) (*domain.FulfillmentOrder, error) {
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	if event.Data == nil {
		return nil, fmt.Errorf("event %s carries no payload", event.ID)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session from event %s: %w", event.ID, err)
	}

	lineItems, err := s.gateway.SessionLineItems(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(lineItems))
	for _, li := range lineItems {
		variantID, err := variantIDOf(li)
		if err != nil {
			// One bad line item aborts the whole order; a
			// partially-specified fulfillment must never ship.
			return nil, fmt.Errorf("session %s: %w", sess.ID, err)
		}
		items = append(items, domain.OrderItem{
			VariantID: variantID,
			Quantity:  li.Quantity,
		})
	}

	return &domain.FulfillmentOrder{
		Recipient:  recipientOf(&sess),
		Items:      items,
		ExternalID: sess.ID,
	}, nil
}

// ProcessEvent runs translation and submission for one verified event.
// Errors returned here are for logging and metrics only; the webhook
// handler acknowledges every verified event regardless, because redelivery
// cannot fix a downstream fulfillment outage.
func (s *FulfillmentServiceImpl) ProcessEvent(ctx context.Context, event stripe.Event) error {
	order, err := s.Translate(ctx, event)
	if err != nil {
		if errors.Is(err, ErrMetadataMissing) {
			s.metrics.InvariantViolations.Inc()
			s.publish(ctx, publisher.EventInvariantViolation, sessionIDOf(event), map[string]string{"error": err.Error()})
		} else {
			// Translate-stage upstream failures leave the same ops
			// trail as submission failures.
			s.metrics.Fulfillments.WithLabelValues("failed").Inc()
			s.publish(ctx, publisher.EventOrderFailed, sessionIDOf(event), map[string]string{"error": err.Error()})
		}
		return err
	}
	if order == nil {
		s.metrics.Fulfillments.WithLabelValues("ignored").Inc()
		return nil
	}

	if s.processed != nil {
		seen, err := s.processed.Seen(ctx, order.ExternalID)
		if err != nil {
			// Dedupe store outage is not fatal: the provider still
			// dedupes by external reference.
			log.Printf("dedupe check failed for session %s: %v", order.ExternalID, err)
		} else if seen {
			log.Printf("session %s already fulfilled, skipping resubmission", order.ExternalID)
			s.metrics.Fulfillments.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	receipt, err := s.submitter.CreateOrder(ctx, order)
	if err != nil {
		s.metrics.Fulfillments.WithLabelValues("failed").Inc()
		s.publish(ctx, publisher.EventOrderFailed, order.ExternalID, map[string]string{"error": err.Error()})
		return fmt.Errorf("submit fulfillment order for session %s: %w", order.ExternalID, err)
	}

	if s.processed != nil {
		if err := s.processed.Mark(ctx, order.ExternalID); err != nil {
			log.Printf("failed to mark session %s as fulfilled: %v", order.ExternalID, err)
		}
	}

	s.metrics.Fulfillments.WithLabelValues("submitted").Inc()
	s.publish(ctx, publisher.EventOrderSubmitted, order.ExternalID, receipt)
	log.Printf("submitted fulfillment order %d (status %s) for session %s", receipt.OrderID, receipt.Status, order.ExternalID)
	return nil
}

func (s *FulfillmentServiceImpl) publish(ctx context.Context, eventType, sessionID string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, sessionID, payload); err != nil {
		log.Printf("failed to publish %s for session %s: %v", eventType, sessionID, err)
	}
}

func variantIDOf(li *stripe.LineItem) (int64, error) {
	if li.Price == nil || li.Price.Product == nil {
		return 0, ErrMetadataMissing
	}
	raw, ok := li.Price.Product.Metadata[payment.VariantIDMetadataKey]
	if !ok || raw == "" {
		return 0, ErrMetadataMissing
	}
	variantID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed value %q", ErrMetadataMissing, raw)
	}
	return variantID, nil
}

// recipientOf maps the session's collected shipping address and contact
// email field-for-field onto the provider's recipient shape.
func recipientOf(sess *stripe.CheckoutSession) domain.Recipient {
	var r domain.Recipient
	if sess.CollectedInformation != nil && sess.CollectedInformation.ShippingDetails != nil {
		details := sess.CollectedInformation.ShippingDetails
		r.Name = details.Name
		if details.Address != nil {
			r.Address1 = details.Address.Line1
			r.Address2 = details.Address.Line2
			r.City = details.Address.City
			r.StateCode = details.Address.State
			r.CountryCode = details.Address.Country
			r.Zip = details.Address.PostalCode
		}
	}
	if sess.CustomerDetails != nil {
		r.Email = sess.CustomerDetails.Email
	}
	return r
}

func sessionIDOf(event stripe.Event) string {
	var sess struct {
		ID string `json:"id"`
	}
	if event.Data == nil || json.Unmarshal(event.Data.Raw, &sess) != nil {
		return ""
	}
	return sess.ID
}
