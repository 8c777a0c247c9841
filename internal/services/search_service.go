package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/noithatviet/api/internal/domain"
	"github.com/noithatviet/api/internal/platform/observability"
	"github.com/noithatviet/api/internal/repositories"
)

// breadcrumbRoot is the literal first element of every breadcrumb trail.
const breadcrumbRoot = "Home"

// Size bucket patterns over the "AxBxC cm" dimensions string. The first two
// dimensions are bounded per bucket; only the small bucket constrains the
// trailing dimension (two digits at most). Dimensions like "201x50x50 cm"
// fall between buckets by construction of these bounds.
var (
	sizePatternSmall  = regexp.MustCompile(`(?i)^\s*(1?\d{1,2}|200)\s*x\s*(1?\d{1,2}|200)\s*x\s*\d{1,2}\s*cm`)
	sizePatternMedium = regexp.MustCompile(`(?i)^\s*([12]?\d{1,2}|300)\s*x\s*([12]?\d{1,2}|300)\s*x\s*\d+\s*cm`)
	sizePatternLarge  = regexp.MustCompile(`(?i)^\s*([1-4]?\d{1,2}|500)\s*x\s*([1-4]?\d{1,2}|500)\s*x\s*\d+\s*cm`)
)

var sizeBuckets = map[string]*regexp.Regexp{
	domain.Fold("nhỏ"): sizePatternSmall,
	domain.Fold("vừa"): sizePatternMedium,
	domain.Fold("lớn"): sizePatternLarge,
}

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Products   repositories.ProductRepository
	Variations repositories.VariationRepository
	Materials  repositories.MaterialRepository
	Categories repositories.CategoryRepository
	Clock      func() time.Time
}

type catalogService struct {
	products   repositories.ProductRepository
	variations repositories.VariationRepository
	materials  repositories.MaterialRepository
	categories repositories.CategoryRepository
	clock      func() time.Time
}

// NewCatalogService constructs the catalog search service.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("catalog service: product repository is required")
	}
	if deps.Variations == nil {
		return nil, errors.New("catalog service: variation repository is required")
	}
	if deps.Materials == nil {
		return nil, errors.New("catalog service: material repository is required")
	}
	if deps.Categories == nil {
		return nil, errors.New("catalog service: category repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &catalogService{
		products:   deps.Products,
		variations: deps.Variations,
		materials:  deps.Materials,
		categories: deps.Categories,
		clock:      func() time.Time { return clock().UTC() },
	}, nil
}

// Search runs the faceted search: variation facets reduce to a candidate
// product id set, the product filter is composed and executed with its count
// concurrently, and the page is assembled with an inline category reference
// and the breadcrumb trail.
func (s *catalogService) Search(ctx context.Context, criteria SearchCriteria) (SearchResult, error) {
	candidates, restricted, err := s.resolveCandidateIDs(ctx, criteria)
	if err != nil {
		return SearchResult{}, err
	}
	if restricted && len(candidates) == 0 {
		return s.emptyResult(ctx, criteria), nil
	}

	predicate := composeProductPredicate(criteria, candidates, restricted, s.clock())
	orderBy, desc := resolveOrdering(criteria)
	query := repositories.ProductQuery{
		Predicate: predicate,
		OrderBy:   orderBy,
		Desc:      desc,
		Skip:      criteria.Skip(),
		Limit:     criteria.Limit,
	}

	var (
		page  []domain.Product
		total int64
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := s.products.FindPage(groupCtx, query)
		if err != nil {
			return fmt.Errorf("fetch product page: %w", err)
		}
		page = found
		return nil
	})
	group.Go(func() error {
		count, err := s.products.Count(groupCtx, query)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		total = count
		return nil
	})
	if err := group.Wait(); err != nil {
		return SearchResult{}, err
	}

	if err := s.hydrateCategories(ctx, page); err != nil {
		return SearchResult{}, fmt.Errorf("resolve category references: %w", err)
	}

	return SearchResult{
		Products:   page,
		Breadcrumb: s.breadcrumbFor(ctx, criteria.CategoryID),
		Page:       domain.NewPageInfo(criteria.Page, criteria.Limit, total),
	}, nil
}

// ProductDetail fetches one product with its variations and category
// reference resolved.
func (s *catalogService) ProductDetail(ctx context.Context, productID string) (ProductDetail, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return ProductDetail{}, err
	}

	variations, err := s.variations.ListByProduct(ctx, product.ID)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("list variations: %w", err)
	}

	page := []domain.Product{product}
	if err := s.hydrateCategories(ctx, page); err != nil {
		return ProductDetail{}, fmt.Errorf("resolve category reference: %w", err)
	}

	return ProductDetail{Product: page[0], Variations: variations}, nil
}

// Breadcrumb derives the trail for a category on its own. Chain resolution
// failures degrade to the bare root label, matching the search path.
func (s *catalogService) Breadcrumb(ctx context.Context, categoryID string) ([]string, error) {
	return s.breadcrumbFor(ctx, categoryID), nil
}

// resolveCandidateIDs runs the variation phase. The second return reports
// whether variation facets restrict the product set at all; an empty id set
// with restricted=true means no product can match.
func (s *catalogService) resolveCandidateIDs(ctx context.Context, criteria SearchCriteria) ([]string, bool, error) {
	if !criteria.HasVariationFacet() {
		return nil, false, nil
	}

	predicate, materialMiss, err := s.variationPredicate(ctx, criteria)
	if err != nil {
		return nil, false, err
	}
	if materialMiss {
		return nil, true, nil
	}

	ids, err := s.variations.ProductIDs(ctx, predicate)
	if err != nil {
		return nil, false, fmt.Errorf("resolve candidate products: %w", err)
	}
	return ids, true, nil
}

// variationPredicate builds the conjunctive clause set over variations. The
// materialMiss return is true when the material facet names nothing known,
// which short-circuits the search to an empty page.
func (s *catalogService) variationPredicate(ctx context.Context, criteria SearchCriteria) (domain.Predicate, bool, error) {
	var predicate domain.Predicate

	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		clause := domain.RangeClause{Field: "salePrice", FallbackField: "finalPrice"}
		if criteria.MinPrice != nil {
			clause.Min = *criteria.MinPrice
		}
		if criteria.MaxPrice != nil {
			clause.Max = *criteria.MaxPrice
		}
		predicate = append(predicate, clause)
	}

	if criteria.Color != "" {
		predicate = append(predicate, domain.NewSubstringClause("colorName", criteria.Color))
	}

	if criteria.Size != "" {
		if pattern, ok := sizeBuckets[domain.Fold(criteria.Size)]; ok {
			predicate = append(predicate, domain.PatternClause{Field: "dimensions", Expr: pattern})
		} else {
			// Unrecognised size tokens fall back to a raw substring match.
			predicate = append(predicate, domain.NewSubstringClause("dimensions", criteria.Size))
		}
	}

	if criteria.Material != "" {
		clause, miss, err := s.materialClause(ctx, criteria.Material)
		if err != nil {
			return nil, false, err
		}
		if miss {
			return nil, true, nil
		}
		predicate = append(predicate, clause)
	}

	return predicate, false, nil
}

// materialClause resolves the material facet: a syntactically valid entity
// id is used directly, anything else goes through the case-insensitive name
// lookup. A lookup miss is not an error.
func (s *catalogService) materialClause(ctx context.Context, value string) (domain.Clause, bool, error) {
	if _, err := ulid.ParseStrict(value); err == nil {
		return domain.EqualityClause{Field: "materialId", Value: value}, false, nil
	}

	material, err := s.materials.FindByName(ctx, value)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("resolve material %q: %w", value, err)
	}
	return domain.EqualityClause{Field: "materialId", Value: material.ID}, false, nil
}

func composeProductPredicate(criteria SearchCriteria, candidates []string, restricted bool, now time.Time) domain.Predicate {
	predicate := domain.Predicate{
		domain.EqualityClause{Field: "isDeleted", Value: false},
	}
	if criteria.Status != "" {
		predicate = append(predicate, domain.EqualityClause{Field: "status", Value: string(criteria.Status)})
	}
	if criteria.CategoryID != "" {
		predicate = append(predicate, domain.EqualityClause{Field: "categoryId", Value: criteria.CategoryID})
	}
	if restricted {
		predicate = append(predicate, domain.SetMembershipClause{Field: domain.FieldID, Values: candidates})
	}
	if criteria.FlashSaleOnly {
		predicate = append(predicate,
			domain.RangeClause{Field: "flashSale.discountedPrice", Min: float64(0), MinExclusive: true},
			domain.RangeClause{Field: "flashSale.startTime", Max: now},
			domain.RangeClause{Field: "flashSale.endTime", Min: now},
		)
	}
	return predicate
}

// resolveOrdering applies the ranking precedence: the filter modes win over
// any sort value, then the sort dispatch applies, and everything else falls
// back to newest-first.
func resolveOrdering(criteria SearchCriteria) (string, bool) {
	switch criteria.Filter {
	case FilterHot:
		return "totalPurchased", true
	case FilterNew:
		return "createdAt", true
	}
	switch criteria.Sort {
	case SortPriceAsc:
		return "salePrice", false
	case SortPriceDesc:
		return "salePrice", true
	case SortBestseller:
		return "totalPurchased", true
	}
	return "createdAt", true
}

// hydrateCategories resolves the inline category reference for every product
// on the page. A failure here is fatal for the request.
func (s *catalogService) hydrateCategories(ctx context.Context, products []domain.Product) error {
	ids := make([]string, 0, len(products))
	for _, product := range products {
		if product.CategoryID != "" {
			ids = append(ids, product.CategoryID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range products {
		if category, ok := categories[products[i].CategoryID]; ok {
			products[i].Category = domain.CategoryRef{ID: category.ID, Name: category.Name}
		}
	}
	return nil
}

// breadcrumbFor walks the ancestor chain for the category. Any failure
// degrades to the bare root label with a warning; the request still
// succeeds.
func (s *catalogService) breadcrumbFor(ctx context.Context, categoryID string) []string {
	breadcrumb := []string{breadcrumbRoot}
	if categoryID == "" {
		return breadcrumb
	}

	chain, err := s.categories.AncestorChain(ctx, categoryID)
	if err != nil {
		observability.FromContext(ctx).Warn("breadcrumb degraded",
			zap.String("category_id", categoryID),
			zap.Error(err),
		)
		return breadcrumb
	}
	for _, category := range chain {
		breadcrumb = append(breadcrumb, category.Name)
	}
	return breadcrumb
}

func (s *catalogService) emptyResult(ctx context.Context, criteria SearchCriteria) SearchResult {
	return SearchResult{
		Products:   []domain.Product{},
		Breadcrumb: s.breadcrumbFor(ctx, criteria.CategoryID),
		Page:       domain.NewPageInfo(criteria.Page, criteria.Limit, 0),
	}
}
