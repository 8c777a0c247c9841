package domain

import (
	"math"
	"strings"
	"time"
)

// ProductStatus enumerates the lifecycle states a product can be listed under.
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "active"
	ProductStatusHidden  ProductStatus = "hidden"
	ProductStatusSoldOut ProductStatus = "sold_out"
)

// CategoryRef is the denormalised category reference carried inline on
// products returned to clients.
type CategoryRef struct {
	ID   string
	Name string
}

// FlashSale captures the time-bounded discount window on a product.
type FlashSale struct {
	DiscountedPrice float64
	Start           time.Time
	End             time.Time
}

// ActiveAt reports whether the flash sale applies at the given instant. Both
// window bounds are inclusive and a non-positive discounted price disables
// the sale entirely.
func (f FlashSale) ActiveAt(now time.Time) bool {
	if f.DiscountedPrice <= 0 {
		return false
	}
	if f.Start.IsZero() || f.End.IsZero() {
		return false
	}
	return !now.Before(f.Start) && !now.After(f.End)
}

// Product is the catalog entity this service reads. It is created and
// mutated elsewhere; every field here is read-only to the search core.
type Product struct {
	ID             string
	Name           string
	Thumbnail      string
	CategoryID     string
	Category       CategoryRef
	Status         ProductStatus
	IsDeleted      bool
	TotalPurchased int64
	SalePrice      *float64
	FlashSale      *FlashSale
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProductVariation is a purchasable SKU belonging to a product.
type ProductVariation struct {
	ID         string
	ProductID  string
	ColorName  string
	Dimensions string
	MaterialID string
	FinalPrice float64
	SalePrice  *float64
}

// Material is a named material referenced by variations.
type Material struct {
	ID   string
	Name string
}

// Category is a node in the category tree. ParentID is empty at the root.
type Category struct {
	ID       string
	Name     string
	ParentID string
}

// PageInfo describes offset pagination metadata for a result set.
type PageInfo struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int64
}

// NewPageInfo derives the pagination block for a total row count and an
// effective limit. A zero total yields zero pages.
func NewPageInfo(page, limit int, total int64) PageInfo {
	info := PageInfo{Page: page, Limit: limit, Total: total}
	if limit > 0 && total > 0 {
		info.TotalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}
	return info
}

// ParseProductStatus normalises a raw status token, returning false for
// values outside the known set.
func ParseProductStatus(raw string) (ProductStatus, bool) {
	switch ProductStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ProductStatusActive:
		return ProductStatusActive, true
	case ProductStatusHidden:
		return ProductStatusHidden, true
	case ProductStatusSoldOut:
		return ProductStatusSoldOut, true
	}
	return "", false
}
