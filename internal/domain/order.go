package domain

// SessionLineItem is one line of a checkout session request: the price
// already converted to minor units and the fulfillment variant id that must
// round-trip through the payment processor's metadata.
type SessionLineItem struct {
	Name            string
	ImageURL        string
	UnitAmountMinor int64
	Quantity        int64
	VariantID       int64
}

// CheckoutSessionRequest is the one-shot snapshot of a cart handed to the
// payment processor. It is built once at submission time and never mutated.
type CheckoutSessionRequest struct {
	Currency string
	Items    []SessionLineItem
}

// Recipient is the shipping destination for a fulfillment order. The JSON
// tags are the fulfillment provider's order-creation wire format.
type Recipient struct {
	Name        string `json:"name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
	Email       string `json:"email"`
}

type OrderItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

// FulfillmentOrder is the request submitted to the print-on-demand provider
// once payment is confirmed. ExternalID carries the originating payment
// session id so the provider can deduplicate redelivered webhooks.
type FulfillmentOrder struct {
	Recipient  Recipient   `json:"recipient"`
	Items      []OrderItem `json:"items"`
	ExternalID string      `json:"external_id"`
}
