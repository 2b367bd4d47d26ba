package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
	"github.com/AltaAIConsult/90-minutes-site/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

// maxItemQuantity caps how many units of one variant a single request may
// order. Anything above it is a typo or abuse, not a real storefront order.
const maxItemQuantity = 99

type CheckoutRequestDTO struct {
	Cart []domain.CartItem `json:"cart"`
}

type CheckoutResponseDTO struct {
	RedirectURL string `json:"redirectUrl"`
}

// POST /checkout
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	for _, item := range req.Cart {
		if item.VariantID <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_variant_id", "variant_id must be positive")
			return
		}
		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
			return
		}
		if item.UnitPrice.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid_price", "unit_price must not be negative")
			return
		}
	}

	cart := domain.CartFromItems(req.Cart)
	redirectURL, err := h.checkout.BuildSession(ctx, cart)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
			return
		}
		log.Printf("request %s: checkout session creation failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "upstream_error", "failed to create checkout session")
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{RedirectURL: redirectURL})
}
