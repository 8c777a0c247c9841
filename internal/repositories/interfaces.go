package repositories

import (
	"context"

	domain "github.com/noithatviet/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Products() ProductRepository
	Variations() VariationRepository
	Materials() MaterialRepository
	Categories() CategoryRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// ProductQuery carries the compiled product constraints together with ordering and paging.
type ProductQuery struct {
	Predicate domain.Predicate
	OrderBy   string
	Desc      bool
	Skip      int
	Limit     int
}

// ProductRepository reads the product catalog.
type ProductRepository interface {
	FindByID(ctx context.Context, productID string) (domain.Product, error)
	FindPage(ctx context.Context, query ProductQuery) ([]domain.Product, error)
	Count(ctx context.Context, query ProductQuery) (int64, error)
}

// VariationRepository reads SKU-level variation documents.
type VariationRepository interface {
	ProductIDs(ctx context.Context, predicate domain.Predicate) ([]string, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.ProductVariation, error)
}

// MaterialRepository resolves material documents by identifier or display name.
type MaterialRepository interface {
	FindByID(ctx context.Context, materialID string) (domain.Material, error)
	FindByName(ctx context.Context, name string) (domain.Material, error)
}

// CategoryRepository reads the category tree.
type CategoryRepository interface {
	FindByID(ctx context.Context, categoryID string) (domain.Category, error)
	FindByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error)
	AncestorChain(ctx context.Context, categoryID string) ([]domain.Category, error)
}

// HealthRepository verifies datastore connectivity for readiness probes.
type HealthRepository interface {
	Ping(ctx context.Context) error
}
