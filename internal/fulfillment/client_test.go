package fulfillment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
)

func testOrder() *domain.FulfillmentOrder {
	return &domain.FulfillmentOrder{
		Recipient: domain.Recipient{
			Name:        "Jane Doe",
			Address1:    "1 Main St",
			City:        "Springfield",
			StateCode:   "IL",
			CountryCode: "US",
			Zip:         "62701",
			Email:       "jane@example.com",
		},
		Items:      []domain.OrderItem{{VariantID: 501, Quantity: 2}},
		ExternalID: "cs_test_123",
	}
}

func TestCreateOrder_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": {"id": 4242, "status": "draft"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "pf_test_key")
	receipt, err := client.CreateOrder(context.Background(), testOrder())

	require.NoError(t, err)
	assert.Equal(t, int64(4242), receipt.OrderID)
	assert.Equal(t, "draft", receipt.Status)
	assert.Equal(t, "Bearer pf_test_key", gotAuth)

	// The dedupe reference must reach the provider.
	assert.Equal(t, "cs_test_123", gotBody["external_id"])
	recipient, ok := gotBody["recipient"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", recipient["name"])
	assert.Equal(t, "IL", recipient["state_code"])
}

func TestCreateOrder_UpstreamFailureCapturesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Invalid variant 501"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "pf_test_key")
	_, err := client.CreateOrder(context.Background(), testOrder())

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "Invalid variant 501")
}

func TestStoreProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/store/products", r.URL.Path)
		w.Write([]byte(`{"result": [
			{"id": 1, "name": "Tour Shirt", "thumbnail_url": "https://img/1.jpg", "variants": [{"id": 501, "price": "25.00"}]},
			{"id": 2, "name": "Sticker", "thumbnail_url": "https://img/2.jpg", "variants": []}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "pf_test_key")
	products, err := client.StoreProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Tour Shirt", products[0].Name)
	require.Len(t, products[0].Variants, 1)
	assert.Equal(t, "25.00", products[0].Variants[0].Price)
	assert.Empty(t, products[1].Variants)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("", "pf_test_key")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
