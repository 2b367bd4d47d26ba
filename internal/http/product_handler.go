package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/AltaAIConsult/90-minutes-site/internal/catalog"
)

// Catalog is the product read path the shop page renders from.
type Catalog interface {
	Products(ctx context.Context) ([]catalog.Product, error)
}

type ProductHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewProductHandler(c Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []catalog.Product `json:"products"`
}

// GET /products
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Products(ctx)
	if err != nil {
		log.Printf("request %s: product fetch failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "upstream_error", "failed to fetch products")
		return
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}
