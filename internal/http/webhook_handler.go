package http

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"

	"github.com/AltaAIConsult/90-minutes-site/internal/metrics"
)

// Verifier authenticates a raw webhook body against its signature header.
type Verifier interface {
	Verify(rawBody []byte, signatureHeader string) (stripe.Event, error)
}

// EventProcessor runs the fulfillment pipeline for one verified event.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, event stripe.Event) error
}

type WebhookHandler struct {
	verifier    Verifier
	processor   EventProcessor
	metrics     *metrics.PipelineMetrics
	timeout     time.Duration
	maxBodySize int64
}

func NewWebhookHandler(verifier Verifier, processor EventProcessor, m *metrics.PipelineMetrics, timeout time.Duration, maxBodySize int64) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		processor:   processor,
		metrics:     m,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type WebhookAckDTO struct {
	Received bool `json:"received"`
}

// POST /payment-webhook
//
// The body must be read raw and verified before any parsing: the signature
// covers the exact bytes on the wire. A signature failure is a client error
// so the processor stops retrying a request that can never succeed. Once an
// event is verified it is always acknowledged with 200, even when the
// fulfillment submission downstream fails; an error response here would
// only make the processor redeliver an event we have already accepted.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	event, err := h.verifier.Verify(rawBody, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		log.Printf("request %s: webhook rejected: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
		return
	}
	h.metrics.WebhookEvents.WithLabelValues("verified").Inc()

	if err := h.processor.ProcessEvent(ctx, event); err != nil {
		log.Printf("request %s: fulfillment pipeline failed for event %s: %v", getRequestID(r.Context()), event.ID, err)
	}

	respondJSON(w, http.StatusOK, WebhookAckDTO{Received: true})
}
