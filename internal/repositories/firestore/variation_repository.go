package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"

	domain "github.com/noithatviet/api/internal/domain"
	pfirestore "github.com/noithatviet/api/internal/platform/firestore"
)

const variationsCollection = "variations"

type variationDocument struct {
	ProductID  string   `firestore:"productId"`
	ColorName  string   `firestore:"colorName"`
	Dimensions string   `firestore:"dimensions"`
	MaterialID string   `firestore:"materialId"`
	FinalPrice float64  `firestore:"finalPrice"`
	SalePrice  *float64 `firestore:"salePrice"`
}

func (d variationDocument) lookupField(id, field string) (any, bool) {
	switch field {
	case domain.FieldID:
		return id, true
	case "productId":
		return d.ProductID, true
	case "colorName":
		return d.ColorName, true
	case "dimensions":
		return d.Dimensions, true
	case "materialId":
		return d.MaterialID, true
	case "finalPrice":
		return d.FinalPrice, true
	case "salePrice":
		if d.SalePrice == nil {
			return nil, false
		}
		return *d.SalePrice, true
	}
	return nil, false
}

func decodeVariationDocument(id string, doc variationDocument) domain.ProductVariation {
	return domain.ProductVariation{
		ID:         id,
		ProductID:  doc.ProductID,
		ColorName:  doc.ColorName,
		Dimensions: doc.Dimensions,
		MaterialID: doc.MaterialID,
		FinalPrice: doc.FinalPrice,
		SalePrice:  doc.SalePrice,
	}
}

// VariationRepository reads SKU-level variation documents from Firestore.
type VariationRepository struct {
	base *pfirestore.BaseRepository[variationDocument]
}

// NewVariationRepository constructs a Firestore-backed variation repository.
func NewVariationRepository(provider *pfirestore.Provider) (*VariationRepository, error) {
	if provider == nil {
		return nil, errors.New("variation repository: firestore provider is required")
	}
	base := pfirestore.NewBaseRepository[variationDocument](provider, variationsCollection, nil)
	return &VariationRepository{base: base}, nil
}

// ProductIDs returns the distinct parent product ids of variations matching
// the predicate. The id set is sorted so callers get deterministic chunking.
func (r *VariationRepository) ProductIDs(ctx context.Context, predicate domain.Predicate) ([]string, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("variation repository not initialised")
	}

	plan := planPredicate(predicate)
	chunks := plan.chunks
	if len(chunks) == 0 {
		chunks = [][]string{nil}
	}

	seen := make(map[string]struct{})
	for _, chunk := range chunks {
		chunk := chunk
		docs, err := r.base.Query(ctx, func(fq firestore.Query) firestore.Query {
			return plan.apply(fq, chunk)
		})
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			data := doc.Data
			id := doc.ID
			if !plan.residual.Matches(func(field string) (any, bool) {
				return data.lookupField(id, field)
			}) {
				continue
			}
			productID := strings.TrimSpace(data.ProductID)
			if productID == "" {
				continue
			}
			seen[productID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ListByProduct returns every variation belonging to the product.
func (r *VariationRepository) ListByProduct(ctx context.Context, productID string) ([]domain.ProductVariation, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("variation repository not initialised")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, errors.New("variation repository: product id is required")
	}

	docs, err := r.base.Query(ctx, func(fq firestore.Query) firestore.Query {
		return fq.Where("productId", "==", productID)
	})
	if err != nil {
		return nil, err
	}

	variations := make([]domain.ProductVariation, 0, len(docs))
	for _, doc := range docs {
		variations = append(variations, decodeVariationDocument(doc.ID, doc.Data))
	}
	return variations, nil
}
