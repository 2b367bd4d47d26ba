package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
)

// VariantIDMetadataKey is the product-data metadata key that carries the
// fulfillment variant id through Stripe. The webhook pipeline reads the same
// key back from the stored session, so it must never change without a
// migration of in-flight sessions.
const VariantIDMetadataKey = "printful_variant_id"

// Gateway is the payment-processor surface the pipeline depends on. The
// processor must store and return line-item metadata verbatim; Stripe does.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *domain.CheckoutSessionRequest) (*stripe.CheckoutSession, error)
	SessionLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)
}

type StripeGateway struct {
	successURL       string
	cancelURL        string
	allowedCountries []string
}

// NewStripeGateway configures the Stripe SDK with the account secret key.
// Success and cancel redirect targets hang off the public site URL.
func NewStripeGateway(secretKey, siteURL string, allowedCountries []string) *StripeGateway {
	stripe.Key = secretKey
	siteURL = strings.TrimRight(siteURL, "/")
	return &StripeGateway{
		successURL:       siteURL + "/payment-success.html",
		cancelURL:        siteURL + "/payment-cancelled.html",
		allowedCountries: allowedCountries,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *domain.CheckoutSessionRequest) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(req.Items))
	for i, item := range req.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
			Metadata: map[string]string{
				VariantIDMetadataKey: strconv.FormatInt(item.VariantID, 10),
			},
		}
		if item.ImageURL != "" {
			productData.Images = []*string{stripe.String(item.ImageURL)}
		}
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				UnitAmount:  stripe.Int64(item.UnitAmountMinor),
				ProductData: productData,
			},
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(g.allowedCountries),
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe session create: %w", err)
	}
	return sess, nil
}

// SessionLineItems fetches the full line-item listing for a session. The
// webhook envelope only references the session, so this round trip is what
// recovers the variant metadata attached at session creation.
func (g *StripeGateway) SessionLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	var items []*stripe.LineItem
	iter := session.ListLineItems(params)
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe line items for session %s: %w", sessionID, err)
	}
	return items, nil
}
