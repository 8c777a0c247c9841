package services

import (
	"context"

	domain "github.com/noithatviet/api/internal/domain"
)

// SearchResult is the assembled page handed back to the HTTP layer.
type SearchResult struct {
	Products   []domain.Product
	Breadcrumb []string
	Page       domain.PageInfo
}

// ProductDetail bundles a product with its purchasable variations.
type ProductDetail struct {
	Product    domain.Product
	Variations []domain.ProductVariation
}

// CatalogService is the read-only faceted search surface over the product
// catalog.
type CatalogService interface {
	Search(ctx context.Context, criteria SearchCriteria) (SearchResult, error)
	ProductDetail(ctx context.Context, productID string) (ProductDetail, error)
	Breadcrumb(ctx context.Context, categoryID string) ([]string, error)
}
