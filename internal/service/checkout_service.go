package service

import (
	"context"
	"fmt"

	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
	"github.com/AltaAIConsult/90-minutes-site/internal/payment"
)

type CheckoutService interface {
	BuildSession(ctx context.Context, cart *domain.Cart) (string, error)
}

type CheckoutServiceImpl struct {
	gateway  payment.Gateway
	currency string
}

func NewCheckoutService(gateway payment.Gateway, currency string) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		gateway:  gateway,
		currency: currency,
	}
}

// BuildSession snapshots the cart into a checkout session request and
// returns the processor-issued redirect URL. An empty cart is rejected
// before any network call. Failures are never retried here: a duplicate
// session means a possible duplicate charge, and the buyer can simply
// click checkout again.
func (s *CheckoutServiceImpl) BuildSession(ctx context.Context, cart *domain.Cart) (string, error) {
	if cart == nil || cart.TotalItemCount() == 0 {
		return "", ErrEmptyCart
	}

	req := &domain.CheckoutSessionRequest{Currency: s.currency}
	for _, item := range cart.Items() {
		req.Items = append(req.Items, domain.SessionLineItem{
			Name:            item.Name,
			ImageURL:        item.ImageURL,
			UnitAmountMinor: domain.MinorUnits(item.UnitPrice),
			Quantity:        item.Quantity,
			VariantID:       item.VariantID,
		})
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}
