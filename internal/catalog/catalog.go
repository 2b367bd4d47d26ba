package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/AltaAIConsult/90-minutes-site/internal/fulfillment"
)

// Provider is the slice of the fulfillment API the catalog needs.
type Provider interface {
	StoreProducts(ctx context.Context) ([]fulfillment.StoreProduct, error)
}

// Product is the display shape the storefront consumes: the first variant's
// price stands in for the product price, matching how the shop renders it.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"image_url"`
	Price    decimal.Decimal `json:"price"`
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) Products(ctx context.Context) ([]Product, error) {
	raw, err := s.provider.StoreProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch store products: %w", err)
	}

	products := make([]Product, 0, len(raw))
	for _, p := range raw {
		// A product without a usable price is not sellable; hiding it
		// beats rendering it at zero.
		if len(p.Variants) == 0 {
			log.Printf("catalog: product %d has no variants, skipping", p.ID)
			continue
		}
		price, err := decimal.NewFromString(p.Variants[0].Price)
		if err != nil {
			log.Printf("catalog: unparseable price %q for product %d, skipping", p.Variants[0].Price, p.ID)
			continue
		}
		products = append(products, Product{
			ID:       p.ID,
			Name:     p.Name,
			ImageURL: p.ThumbnailURL,
			Price:    price,
		})
	}
	return products, nil
}
