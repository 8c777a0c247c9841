package firestore

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/iterator"

	pfirestore "github.com/noithatviet/api/internal/platform/firestore"
	"github.com/noithatviet/api/internal/repositories"
)

// Registry wires the Firestore-backed repository set behind the
// repositories.Registry contract.
type Registry struct {
	provider   *pfirestore.Provider
	products   *ProductRepository
	variations *VariationRepository
	materials  *MaterialRepository
	categories *CategoryRepository
	health     *HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry constructs the full Firestore repository registry.
func NewRegistry(provider *pfirestore.Provider) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("firestore registry: provider is required")
	}

	products, err := NewProductRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: %w", err)
	}
	variations, err := NewVariationRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: %w", err)
	}
	materials, err := NewMaterialRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: %w", err)
	}
	categories, err := NewCategoryRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: %w", err)
	}

	return &Registry{
		provider:   provider,
		products:   products,
		variations: variations,
		materials:  materials,
		categories: categories,
		health:     &HealthRepository{provider: provider},
	}, nil
}

// Close releases the shared Firestore client.
func (r *Registry) Close(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Close(ctx)
}

func (r *Registry) Products() repositories.ProductRepository     { return r.products }
func (r *Registry) Variations() repositories.VariationRepository { return r.variations }
func (r *Registry) Materials() repositories.MaterialRepository   { return r.materials }
func (r *Registry) Categories() repositories.CategoryRepository  { return r.categories }
func (r *Registry) Health() repositories.HealthRepository        { return r.health }

// HealthRepository probes Firestore connectivity with a shallow read.
type HealthRepository struct {
	provider *pfirestore.Provider
}

// Ping issues a single-document query against the product catalog.
func (r *HealthRepository) Ping(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return errors.New("health repository not initialised")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}
	iter := client.Collection(productsCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return pfirestore.WrapError("health.ping", err)
	}
	return nil
}
