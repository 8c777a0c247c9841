package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/noithatviet/api/internal/domain"
	"github.com/noithatviet/api/internal/platform/httpx"
	"github.com/noithatviet/api/internal/platform/pagination"
	"github.com/noithatviet/api/internal/repositories"
	"github.com/noithatviet/api/internal/services"
)

// CatalogHandlers exposes the read-only catalog search endpoints.
type CatalogHandlers struct {
	catalog  services.CatalogService
	pageOpts pagination.Options
}

// CatalogOption customises construction of CatalogHandlers.
type CatalogOption func(*CatalogHandlers)

// WithCatalogService injects the catalog service dependency.
func WithCatalogService(svc services.CatalogService) CatalogOption {
	return func(h *CatalogHandlers) {
		h.catalog = svc
	}
}

// WithCatalogPagination overrides the default and maximum page sizes.
func WithCatalogPagination(opts pagination.Options) CatalogOption {
	return func(h *CatalogHandlers) {
		h.pageOpts = opts
	}
}

// NewCatalogHandlers constructs handlers for the catalog endpoints.
func NewCatalogHandlers(opts ...CatalogOption) *CatalogHandlers {
	handler := &CatalogHandlers{
		pageOpts: pagination.Options{
			DefaultLimit: pagination.DefaultLimit,
			MaxLimit:     pagination.DefaultMaxLimit,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Routes registers the catalog endpoints on the provided router group.
func (h *CatalogHandlers) Routes(r chi.Router) {
	r.Get("/products", h.SearchProducts)
	r.Get("/products/{productID}", h.GetProduct)
	r.Get("/categories/{categoryID}/breadcrumb", h.GetBreadcrumb)
}

// SearchProducts handles the faceted search request.
func (h *CatalogHandlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service not configured", http.StatusServiceUnavailable))
		return
	}

	criteria := services.NormalizeCriteria(r.URL.Query(), h.pageOpts)
	result, err := h.catalog.Search(ctx, criteria)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"data":       productPayloads(result.Products),
		"breadcrumb": result.Breadcrumb,
		"pagination": paginationPayload(result.Page),
	})
}

// GetProduct handles the product detail request.
func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service not configured", http.StatusServiceUnavailable))
		return
	}

	detail, err := h.catalog.ProductDetail(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	payload := productPayload(detail.Product)
	payload["variations"] = variationPayloads(detail.Variations)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    payload,
	})
}

// GetBreadcrumb returns the breadcrumb trail for a category.
func (h *CatalogHandlers) GetBreadcrumb(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service not configured", http.StatusServiceUnavailable))
		return
	}

	breadcrumb, err := h.catalog.Breadcrumb(ctx, chi.URLParam(r, "categoryID"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"breadcrumb": breadcrumb,
	})
}

func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			httpx.WriteError(ctx, w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
			return
		case repoErr.IsUnavailable():
			httpx.WriteError(ctx, w, httpx.NewError("store_unavailable", "catalog store unavailable", http.StatusServiceUnavailable))
			return
		}
	}
	httpx.WriteError(ctx, w, httpx.NewError("internal_error", err.Error(), http.StatusInternalServerError))
}

func productPayloads(products []domain.Product) []map[string]any {
	payloads := make([]map[string]any, 0, len(products))
	for _, product := range products {
		payloads = append(payloads, productPayload(product))
	}
	return payloads
}

func productPayload(product domain.Product) map[string]any {
	payload := map[string]any{
		"id":             product.ID,
		"name":           product.Name,
		"thumbnail":      product.Thumbnail,
		"status":         string(product.Status),
		"totalPurchased": product.TotalPurchased,
		"createdAt":      product.CreatedAt.UTC().Format(time.RFC3339),
		"updatedAt":      product.UpdatedAt.UTC().Format(time.RFC3339),
		"category": map[string]any{
			"id":   product.Category.ID,
			"name": product.Category.Name,
		},
	}
	if product.SalePrice != nil {
		payload["salePrice"] = *product.SalePrice
	}
	if product.FlashSale != nil {
		payload["flashSale"] = map[string]any{
			"discountedPrice": product.FlashSale.DiscountedPrice,
			"startTime":       product.FlashSale.Start.UTC().Format(time.RFC3339),
			"endTime":         product.FlashSale.End.UTC().Format(time.RFC3339),
		}
	}
	return payload
}

func variationPayloads(variations []domain.ProductVariation) []map[string]any {
	payloads := make([]map[string]any, 0, len(variations))
	for _, variation := range variations {
		payload := map[string]any{
			"id":         variation.ID,
			"productId":  variation.ProductID,
			"colorName":  variation.ColorName,
			"dimensions": variation.Dimensions,
			"materialId": variation.MaterialID,
			"finalPrice": variation.FinalPrice,
		}
		if variation.SalePrice != nil {
			payload["salePrice"] = *variation.SalePrice
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

func paginationPayload(page domain.PageInfo) map[string]any {
	return map[string]any{
		"page":       page.Page,
		"limit":      page.Limit,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
