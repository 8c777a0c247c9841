package services

import (
	"net/url"
	"testing"

	domain "github.com/noithatviet/api/internal/domain"
	"github.com/noithatviet/api/internal/platform/pagination"
)

func TestNormalizeCriteriaDefaults(t *testing.T) {
	criteria := NormalizeCriteria(url.Values{}, pagination.Options{})

	if criteria.Page != 1 {
		t.Fatalf("expected default page 1, got %d", criteria.Page)
	}
	if criteria.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", pagination.DefaultLimit, criteria.Limit)
	}
	if criteria.Sort != SortCreatedAt {
		t.Fatalf("expected default sort %q, got %q", SortCreatedAt, criteria.Sort)
	}
	if criteria.Status != domain.ProductStatusActive {
		t.Fatalf("expected default status active, got %q", criteria.Status)
	}
	if criteria.FlashSaleOnly {
		t.Fatalf("expected flash sale filter off by default")
	}
	if criteria.HasVariationFacet() {
		t.Fatalf("empty criteria must not require variation resolution")
	}
}

func TestNormalizeCriteriaFlashSaleParamNames(t *testing.T) {
	cases := []struct {
		name   string
		values url.Values
		want   bool
	}{
		{"flashSaleOnly", url.Values{"flashSaleOnly": {"true"}}, true},
		{"flashSale alias", url.Values{"flashSale": {"1"}}, true},
		{"flashSaleOnly false", url.Values{"flashSaleOnly": {"false"}}, false},
		{"absent", url.Values{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			criteria := NormalizeCriteria(tc.values, pagination.Options{})
			if criteria.FlashSaleOnly != tc.want {
				t.Fatalf("FlashSaleOnly = %v, want %v for %v", criteria.FlashSaleOnly, tc.want, tc.values)
			}
		})
	}
}

func TestNormalizeCriteriaDropsUnparsableNumbers(t *testing.T) {
	values := url.Values{
		"minPrice": {"abc"},
		"maxPrice": {"12,5"},
	}
	criteria := NormalizeCriteria(values, pagination.Options{})
	if criteria.MinPrice != nil || criteria.MaxPrice != nil {
		t.Fatalf("unparsable prices must be dropped, got min=%v max=%v", criteria.MinPrice, criteria.MaxPrice)
	}
}

func TestNormalizeCriteriaParsesFacets(t *testing.T) {
	values := url.Values{
		"category":  {" cat-1 "},
		"color":     {"đỏ"},
		"size":      {"lớn"},
		"material":  {"gỗ sồi"},
		"minPrice":  {"1000000"},
		"maxPrice":  {"5000000.5"},
		"sort":      {"PRICE_ASC"},
		"filter":    {"Hot"},
		"status":    {"sold_out"},
		"flashSale": {"true"},
		"page":      {"3"},
		"limit":     {"20"},
	}
	criteria := NormalizeCriteria(values, pagination.Options{})

	if criteria.CategoryID != "cat-1" {
		t.Fatalf("expected trimmed category, got %q", criteria.CategoryID)
	}
	if criteria.Color != "đỏ" || criteria.Size != "lớn" || criteria.Material != "gỗ sồi" {
		t.Fatalf("unexpected facet parsing: %+v", criteria)
	}
	if criteria.MinPrice == nil || *criteria.MinPrice != 1000000 {
		t.Fatalf("expected minPrice 1000000, got %v", criteria.MinPrice)
	}
	if criteria.MaxPrice == nil || *criteria.MaxPrice != 5000000.5 {
		t.Fatalf("expected maxPrice 5000000.5, got %v", criteria.MaxPrice)
	}
	if criteria.Sort != SortPriceAsc {
		t.Fatalf("expected lowercased sort, got %q", criteria.Sort)
	}
	if criteria.Filter != FilterHot {
		t.Fatalf("expected lowercased filter, got %q", criteria.Filter)
	}
	if criteria.Status != domain.ProductStatusSoldOut {
		t.Fatalf("expected sold_out status, got %q", criteria.Status)
	}
	if !criteria.FlashSaleOnly {
		t.Fatalf("expected flash sale filter on")
	}
	if criteria.Page != 3 || criteria.Limit != 20 {
		t.Fatalf("unexpected paging: page=%d limit=%d", criteria.Page, criteria.Limit)
	}
	if !criteria.HasVariationFacet() {
		t.Fatalf("variation facets present, resolver must run")
	}
	if criteria.Skip() != 40 {
		t.Fatalf("expected skip 40, got %d", criteria.Skip())
	}
}

func TestNormalizeCriteriaUnknownStatusFallsBack(t *testing.T) {
	values := url.Values{"status": {"archived"}}
	criteria := NormalizeCriteria(values, pagination.Options{})
	if criteria.Status != domain.ProductStatusActive {
		t.Fatalf("unknown status must fall back to active, got %q", criteria.Status)
	}
}
