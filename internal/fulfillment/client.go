package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AltaAIConsult/90-minutes-site/internal/domain"
)

const DefaultBaseURL = "https://api.printful.com"

// UpstreamError carries the provider's HTTP status and response body so a
// failed submission can be diagnosed instead of silently swallowed.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fulfillment provider returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Printful API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Receipt is the provider's acknowledgment of a submitted order.
type Receipt struct {
	OrderID int64
	Status  string
}

type orderResponse struct {
	Result struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"result"`
}

// CreateOrder submits a fulfillment order. The order's ExternalID rides
// along so the provider can deduplicate if the same payment is reported
// twice; submitting the same reference again is safe on their side.
func (c *Client) CreateOrder(ctx context.Context, order *domain.FulfillmentOrder) (*Receipt, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders", order)
	if err != nil {
		return nil, err
	}

	var parsed orderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	return &Receipt{OrderID: parsed.Result.ID, Status: parsed.Result.Status}, nil
}

// StoreVariant is one purchasable configuration of a store product.
type StoreVariant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

type StoreProduct struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	ThumbnailURL string         `json:"thumbnail_url"`
	Variants     []StoreVariant `json:"variants"`
}

type productsResponse struct {
	Result []StoreProduct `json:"result"`
}

// StoreProducts lists the products configured in the connected store.
func (c *Client) StoreProducts(ctx context.Context) ([]StoreProduct, error) {
	body, err := c.do(ctx, http.MethodGet, "/store/products", nil)
	if err != nil {
		return nil, err
	}

	var parsed productsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}
	return parsed.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call fulfillment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
