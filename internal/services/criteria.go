package services

import (
	"net/url"
	"strconv"
	"strings"

	domain "github.com/noithatviet/api/internal/domain"
	"github.com/noithatviet/api/internal/platform/pagination"
)

const (
	// SortCreatedAt is the default ordering: newest products first.
	SortCreatedAt = "created_at"
	// SortPriceAsc orders by the product-level sale price ascending.
	SortPriceAsc = "price_asc"
	// SortPriceDesc orders by the product-level sale price descending.
	SortPriceDesc = "price_desc"
	// SortBestseller orders by purchase count descending.
	SortBestseller = "bestseller"

	// FilterHot ranks by purchase count and overrides any sort value.
	FilterHot = "hot"
	// FilterNew ranks by creation time and overrides any sort value.
	FilterNew = "new"
)

// SearchCriteria is the normalized, typed form of the search query
// parameters. Build it with NormalizeCriteria; zero values mean "facet not
// supplied".
type SearchCriteria struct {
	Page          int
	Limit         int
	Sort          string
	Filter        string
	CategoryID    string
	Color         string
	Size          string
	Material      string
	MinPrice      *float64
	MaxPrice      *float64
	Status        domain.ProductStatus
	FlashSaleOnly bool
}

// HasVariationFacet reports whether any criterion targets the variation
// entity, requiring the candidate-id resolution phase.
func (c SearchCriteria) HasVariationFacet() bool {
	return c.Color != "" || c.Size != "" || c.Material != "" ||
		c.MinPrice != nil || c.MaxPrice != nil
}

// Skip is the offset handed to the product store.
func (c SearchCriteria) Skip() int {
	if c.Page <= 1 {
		return 0
	}
	return (c.Page - 1) * c.Limit
}

// NormalizeCriteria parses the flat query parameters into SearchCriteria.
// Defaults: page=1, limit per opts (clamped to the max), sort=created_at,
// status=active. Unparsable numeric values are dropped silently; an
// unrecognised status falls back to active rather than erroring.
func NormalizeCriteria(values url.Values, opts pagination.Options) SearchCriteria {
	if values == nil {
		values = url.Values{}
	}

	params := pagination.Parse(values, opts)
	criteria := SearchCriteria{
		Page:       params.Page,
		Limit:      params.Limit,
		Sort:       SortCreatedAt,
		Filter:     strings.ToLower(strings.TrimSpace(values.Get("filter"))),
		CategoryID: strings.TrimSpace(values.Get("category")),
		Color:      strings.TrimSpace(values.Get("color")),
		Size:       strings.TrimSpace(values.Get("size")),
		Material:   strings.TrimSpace(values.Get("material")),
		Status:     domain.ProductStatusActive,
	}

	if sort := strings.ToLower(strings.TrimSpace(values.Get("sort"))); sort != "" {
		criteria.Sort = sort
	}
	if status, ok := domain.ParseProductStatus(values.Get("status")); ok {
		criteria.Status = status
	}
	criteria.MinPrice = parsePrice(values.Get("minPrice"))
	criteria.MaxPrice = parsePrice(values.Get("maxPrice"))
	criteria.FlashSaleOnly = parseBool(values.Get("flashSaleOnly")) || parseBool(values.Get("flashSale"))

	return criteria
}

func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
