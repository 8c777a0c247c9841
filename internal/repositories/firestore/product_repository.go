package firestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/noithatviet/api/internal/domain"
	pfirestore "github.com/noithatviet/api/internal/platform/firestore"
	"github.com/noithatviet/api/internal/repositories"
)

const productsCollection = "products"

type productDocument struct {
	Name           string                  `firestore:"name"`
	Thumbnail      string                  `firestore:"thumbnail"`
	CategoryID     string                  `firestore:"categoryId"`
	Category       productCategoryDocument `firestore:"category"`
	Status         string                  `firestore:"status"`
	IsDeleted      bool                    `firestore:"isDeleted"`
	TotalPurchased int64                   `firestore:"totalPurchased"`
	SalePrice      *float64                `firestore:"salePrice"`
	FlashSale      *flashSaleDocument      `firestore:"flashSale"`
	CreatedAt      time.Time               `firestore:"createdAt"`
	UpdatedAt      time.Time               `firestore:"updatedAt"`
}

type productCategoryDocument struct {
	ID   string `firestore:"id"`
	Name string `firestore:"name"`
}

type flashSaleDocument struct {
	DiscountedPrice float64   `firestore:"discountedPrice"`
	StartTime       time.Time `firestore:"startTime"`
	EndTime         time.Time `firestore:"endTime"`
}

// lookupField resolves a document field path for application-side clause
// evaluation. Absent optional fields report false so range fallbacks apply.
func (d productDocument) lookupField(id, field string) (any, bool) {
	switch field {
	case domain.FieldID:
		return id, true
	case "name":
		return d.Name, true
	case "categoryId":
		return d.CategoryID, true
	case "status":
		return d.Status, true
	case "isDeleted":
		return d.IsDeleted, true
	case "totalPurchased":
		return d.TotalPurchased, true
	case "salePrice":
		if d.SalePrice == nil {
			return nil, false
		}
		return *d.SalePrice, true
	case "createdAt":
		return d.CreatedAt, true
	case "flashSale.discountedPrice":
		if d.FlashSale == nil {
			return nil, false
		}
		return d.FlashSale.DiscountedPrice, true
	case "flashSale.startTime":
		if d.FlashSale == nil || d.FlashSale.StartTime.IsZero() {
			return nil, false
		}
		return d.FlashSale.StartTime, true
	case "flashSale.endTime":
		if d.FlashSale == nil || d.FlashSale.EndTime.IsZero() {
			return nil, false
		}
		return d.FlashSale.EndTime, true
	}
	return nil, false
}

func decodeProductDocument(id string, doc productDocument) domain.Product {
	product := domain.Product{
		ID:             id,
		Name:           doc.Name,
		Thumbnail:      doc.Thumbnail,
		CategoryID:     doc.CategoryID,
		Category:       domain.CategoryRef{ID: doc.Category.ID, Name: doc.Category.Name},
		Status:         domain.ProductStatus(doc.Status),
		IsDeleted:      doc.IsDeleted,
		TotalPurchased: doc.TotalPurchased,
		SalePrice:      doc.SalePrice,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
	if doc.FlashSale != nil {
		product.FlashSale = &domain.FlashSale{
			DiscountedPrice: doc.FlashSale.DiscountedPrice,
			Start:           doc.FlashSale.StartTime,
			End:             doc.FlashSale.EndTime,
		}
	}
	return product
}

// ProductRepository reads the product catalog from Firestore.
type ProductRepository struct {
	base *pfirestore.BaseRepository[productDocument]
}

// NewProductRepository constructs a Firestore-backed product repository.
func NewProductRepository(provider *pfirestore.Provider) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository: firestore provider is required")
	}
	base := pfirestore.NewBaseRepository[productDocument](provider, productsCollection, nil)
	return &ProductRepository{base: base}, nil
}

// FindByID fetches a single product.
func (r *ProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if r == nil || r.base == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.Product{}, errors.New("product repository: product id is required")
	}
	doc, err := r.base.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	return decodeProductDocument(doc.ID, doc.Data), nil
}

// FindPage returns the requested page of products matching the query.
//
// When the whole predicate pushes down to a single Firestore query the page
// is served with Offset/Limit. Otherwise every candidate is fetched, the
// residual clauses are evaluated application-side, and ordering plus paging
// happen in memory.
func (r *ProductRepository) FindPage(ctx context.Context, query repositories.ProductQuery) ([]domain.Product, error) {
	if r == nil || r.base == nil {
		return nil, errors.New("product repository not initialised")
	}

	plan := planPredicate(query.Predicate)
	if indexedPageServable(plan, query.OrderBy) {
		docs, err := r.base.Query(ctx, func(fq firestore.Query) firestore.Query {
			fq = plan.apply(fq, firstChunk(plan))
			fq = applyOrder(fq, query.OrderBy, query.Desc)
			if query.Skip > 0 {
				fq = fq.Offset(query.Skip)
			}
			if query.Limit > 0 {
				fq = fq.Limit(query.Limit)
			}
			return fq
		})
		if err != nil {
			return nil, err
		}
		products := make([]domain.Product, 0, len(docs))
		for _, doc := range docs {
			products = append(products, decodeProductDocument(doc.ID, doc.Data))
		}
		return products, nil
	}

	products, err := r.fetchMatching(ctx, plan)
	if err != nil {
		return nil, err
	}
	sortProducts(products, query.OrderBy, query.Desc)
	return pageSlice(products, query.Skip, query.Limit), nil
}

// Count returns the number of products matching the query, using a
// server-side aggregation when the predicate is fully indexed.
func (r *ProductRepository) Count(ctx context.Context, query repositories.ProductQuery) (int64, error) {
	if r == nil || r.base == nil {
		return 0, errors.New("product repository not initialised")
	}

	plan := planPredicate(query.Predicate)
	if plan.indexed() {
		return r.base.Count(ctx, func(fq firestore.Query) firestore.Query {
			return plan.apply(fq, firstChunk(plan))
		})
	}

	products, err := r.fetchMatching(ctx, plan)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (r *ProductRepository) fetchMatching(ctx context.Context, plan queryPlan) ([]domain.Product, error) {
	chunks := plan.chunks
	if len(chunks) == 0 {
		chunks = [][]string{nil}
	}

	seen := make(map[string]struct{})
	var products []domain.Product
	for _, chunk := range chunks {
		chunk := chunk
		docs, err := r.base.Query(ctx, func(fq firestore.Query) firestore.Query {
			return plan.apply(fq, chunk)
		})
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if _, dup := seen[doc.ID]; dup {
				continue
			}
			data := doc.Data
			id := doc.ID
			if !plan.residual.Matches(func(field string) (any, bool) {
				return data.lookupField(id, field)
			}) {
				continue
			}
			seen[id] = struct{}{}
			products = append(products, decodeProductDocument(id, data))
		}
	}
	return products, nil
}

// indexedPageServable reports whether a page can be served straight from a
// Firestore Offset/Limit query. Ordering on salePrice is excluded even when
// the plan is fully indexed: the field is optional on product documents and
// Firestore's OrderBy silently drops documents that lack the ordered field,
// which would make the page disagree with the aggregation count. Those pages
// are assembled in memory, where a missing salePrice sorts as zero.
func indexedPageServable(plan queryPlan, orderBy string) bool {
	return plan.indexed() && orderBy != "salePrice"
}

func firstChunk(plan queryPlan) []string {
	if len(plan.chunks) > 0 {
		return plan.chunks[0]
	}
	return nil
}

func applyOrder(fq firestore.Query, orderBy string, desc bool) firestore.Query {
	if orderBy == "" {
		return fq
	}
	direction := firestore.Asc
	if desc {
		direction = firestore.Desc
	}
	return fq.OrderBy(orderBy, direction)
}

func sortProducts(products []domain.Product, orderBy string, desc bool) {
	if orderBy == "" {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		cmp := compareProducts(products[i], products[j], orderBy)
		if cmp == 0 {
			return products[i].ID < products[j].ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareProducts(a, b domain.Product, orderBy string) int {
	switch orderBy {
	case "totalPurchased":
		switch {
		case a.TotalPurchased < b.TotalPurchased:
			return -1
		case a.TotalPurchased > b.TotalPurchased:
			return 1
		}
		return 0
	case "salePrice":
		av, bv := priceOrZero(a.SalePrice), priceOrZero(b.SalePrice)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	}
}

func priceOrZero(price *float64) float64 {
	if price == nil {
		return 0
	}
	return *price
}

func pageSlice(products []domain.Product, skip, limit int) []domain.Product {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(products) {
		return nil
	}
	products = products[skip:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products
}
