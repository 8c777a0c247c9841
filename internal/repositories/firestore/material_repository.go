package firestore

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/noithatviet/api/internal/domain"
	pfirestore "github.com/noithatviet/api/internal/platform/firestore"
)

const materialsCollection = "materials"

type materialDocument struct {
	Name string `firestore:"name"`
}

// MaterialRepository resolves material documents from Firestore.
type MaterialRepository struct {
	base *pfirestore.BaseRepository[materialDocument]
}

// NewMaterialRepository constructs a Firestore-backed material repository.
func NewMaterialRepository(provider *pfirestore.Provider) (*MaterialRepository, error) {
	if provider == nil {
		return nil, errors.New("material repository: firestore provider is required")
	}
	base := pfirestore.NewBaseRepository[materialDocument](provider, materialsCollection, nil)
	return &MaterialRepository{base: base}, nil
}

// FindByID fetches a single material.
func (r *MaterialRepository) FindByID(ctx context.Context, materialID string) (domain.Material, error) {
	if r == nil || r.base == nil {
		return domain.Material{}, errors.New("material repository not initialised")
	}
	materialID = strings.TrimSpace(materialID)
	if materialID == "" {
		return domain.Material{}, errors.New("material repository: material id is required")
	}
	doc, err := r.base.Get(ctx, materialID)
	if err != nil {
		return domain.Material{}, err
	}
	return domain.Material{ID: doc.ID, Name: doc.Data.Name}, nil
}

// FindByName resolves a material by case-folded display name. Firestore has
// no caseless comparison, so the collection is scanned; material catalogs
// stay small enough for that to be cheap.
func (r *MaterialRepository) FindByName(ctx context.Context, name string) (domain.Material, error) {
	if r == nil || r.base == nil {
		return domain.Material{}, errors.New("material repository not initialised")
	}
	folded := domain.Fold(name)
	if folded == "" {
		return domain.Material{}, pfirestore.WrapError("materials.find_by_name", status.Error(codes.NotFound, "material name is empty"))
	}

	docs, err := r.base.Query(ctx, nil)
	if err != nil {
		return domain.Material{}, err
	}
	for _, doc := range docs {
		if domain.Fold(doc.Data.Name) == folded {
			return domain.Material{ID: doc.ID, Name: doc.Data.Name}, nil
		}
	}
	return domain.Material{}, pfirestore.WrapError("materials.find_by_name", status.Error(codes.NotFound, "material not found"))
}
