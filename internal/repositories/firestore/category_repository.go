package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	domain "github.com/noithatviet/api/internal/domain"
	pfirestore "github.com/noithatviet/api/internal/platform/firestore"
)

const categoriesCollection = "categories"

// maxAncestorDepth bounds the parent walk so a corrupted tree with a cycle
// cannot hang a request.
const maxAncestorDepth = 16

type categoryDocument struct {
	Name     string `firestore:"name"`
	ParentID string `firestore:"parentId"`
}

// CategoryRepository reads the category tree from Firestore.
type CategoryRepository struct {
	base *pfirestore.BaseRepository[categoryDocument]
}

// NewCategoryRepository constructs a Firestore-backed category repository.
func NewCategoryRepository(provider *pfirestore.Provider) (*CategoryRepository, error) {
	if provider == nil {
		return nil, errors.New("category repository: firestore provider is required")
	}
	base := pfirestore.NewBaseRepository[categoryDocument](provider, categoriesCollection, nil)
	return &CategoryRepository{base: base}, nil
}

// FindByID fetches a single category.
func (r *CategoryRepository) FindByID(ctx context.Context, categoryID string) (domain.Category, error) {
	if r == nil || r.base == nil {
		return domain.Category{}, errors.New("category repository not initialised")
	}
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return domain.Category{}, errors.New("category repository: category id is required")
	}
	doc, err := r.base.Get(ctx, categoryID)
	if err != nil {
		return domain.Category{}, err
	}
	return decodeCategoryDocument(doc.ID, doc.Data), nil
}

// FindByIDs fetches the named categories in bulk. Missing ids are simply
// absent from the result map.
func (r *CategoryRepository) FindByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("category repository not initialised")
	}

	unique := make([]string, 0, len(categoryIDs))
	seen := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	categories := make(map[string]domain.Category, len(unique))
	for _, chunk := range chunkValues(unique, maxDisjunctionValues) {
		values := make([]any, len(chunk))
		for i, id := range chunk {
			values[i] = id
		}
		docs, err := r.base.Query(ctx, func(fq firestore.Query) firestore.Query {
			return fq.Where(firestore.DocumentID, "in", values)
		})
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			categories[doc.ID] = decodeCategoryDocument(doc.ID, doc.Data)
		}
	}
	return categories, nil
}

// AncestorChain walks parent links from the category up to the root and
// returns the chain ordered root first.
func (r *CategoryRepository) AncestorChain(ctx context.Context, categoryID string) ([]domain.Category, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("category repository not initialised")
	}
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, errors.New("category repository: category id is required")
	}

	var chain []domain.Category
	visited := make(map[string]struct{})
	current := categoryID
	for current != "" {
		if _, cycle := visited[current]; cycle {
			return nil, fmt.Errorf("category repository: parent cycle at %s", current)
		}
		if len(chain) >= maxAncestorDepth {
			return nil, fmt.Errorf("category repository: ancestor chain exceeds depth %d", maxAncestorDepth)
		}
		visited[current] = struct{}{}

		doc, err := r.base.Get(ctx, current)
		if err != nil {
			return nil, err
		}
		category := decodeCategoryDocument(doc.ID, doc.Data)
		chain = append([]domain.Category{category}, chain...)
		current = strings.TrimSpace(category.ParentID)
	}
	return chain, nil
}

func decodeCategoryDocument(id string, doc categoryDocument) domain.Category {
	return domain.Category{ID: id, Name: doc.Name, ParentID: doc.ParentID}
}
