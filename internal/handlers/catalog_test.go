package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/noithatviet/api/internal/domain"
	"github.com/noithatviet/api/internal/services"
)

type stubCatalogService struct {
	searchResult services.SearchResult
	searchErr    error
	detail       services.ProductDetail
	detailErr    error
	breadcrumb   []string
	lastCriteria services.SearchCriteria
}

func (s *stubCatalogService) Search(_ context.Context, criteria services.SearchCriteria) (services.SearchResult, error) {
	s.lastCriteria = criteria
	if s.searchErr != nil {
		return services.SearchResult{}, s.searchErr
	}
	return s.searchResult, nil
}

func (s *stubCatalogService) ProductDetail(context.Context, string) (services.ProductDetail, error) {
	if s.detailErr != nil {
		return services.ProductDetail{}, s.detailErr
	}
	return s.detail, nil
}

func (s *stubCatalogService) Breadcrumb(context.Context, string) ([]string, error) {
	return s.breadcrumb, nil
}

type stubNotFoundError struct{}

func (stubNotFoundError) Error() string       { return "not found" }
func (stubNotFoundError) IsNotFound() bool    { return true }
func (stubNotFoundError) IsConflict() bool    { return false }
func (stubNotFoundError) IsUnavailable() bool { return false }

func newTestRouter(svc services.CatalogService) http.Handler {
	catalog := NewCatalogHandlers(WithCatalogService(svc))
	return NewRouter(WithCatalogRoutes(catalog.Routes))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestSearchProductsEnvelope(t *testing.T) {
	price := 1500000.0
	svc := &stubCatalogService{
		searchResult: services.SearchResult{
			Products: []domain.Product{
				{
					ID:        "p1",
					Name:      "Ghế sofa da",
					Status:    domain.ProductStatusActive,
					SalePrice: &price,
					Category:  domain.CategoryRef{ID: "C1", Name: "Ghế sofa"},
				},
			},
			Breadcrumb: []string{"Home", "Ghế sofa"},
			Page:       domain.NewPageInfo(1, 10, 1),
		},
	}

	router := newTestRouter(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?color=%C4%91%E1%BB%8F&page=2&limit=5", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one product, got %v", body["data"])
	}
	product := data[0].(map[string]any)
	if product["id"] != "p1" || product["salePrice"] != 1500000.0 {
		t.Fatalf("unexpected product payload: %v", product)
	}
	category := product["category"].(map[string]any)
	if category["name"] != "Ghế sofa" {
		t.Fatalf("expected inline category name, got %v", category)
	}
	pageInfo := body["pagination"].(map[string]any)
	if pageInfo["total"] != 1.0 || pageInfo["totalPages"] != 1.0 {
		t.Fatalf("unexpected pagination: %v", pageInfo)
	}
	if svc.lastCriteria.Color != "đỏ" || svc.lastCriteria.Page != 2 || svc.lastCriteria.Limit != 5 {
		t.Fatalf("criteria not passed through: %+v", svc.lastCriteria)
	}
}

func TestSearchProductsFailureEnvelope(t *testing.T) {
	svc := &stubCatalogService{searchErr: errors.New("product store down")}

	router := newTestRouter(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["message"] == "" || body["message"] == nil {
		t.Fatalf("expected failure message, got %v", body)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubCatalogService{detailErr: stubNotFoundError{}}

	router := newTestRouter(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/missing", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestGetProductDetailPayload(t *testing.T) {
	svc := &stubCatalogService{
		detail: services.ProductDetail{
			Product: domain.Product{ID: "p1", Name: "Bàn ăn gỗ"},
			Variations: []domain.ProductVariation{
				{ID: "v1", ProductID: "p1", ColorName: "nâu", FinalPrice: 2500000},
			},
		},
	}

	router := newTestRouter(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/p1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	variations, ok := data["variations"].([]any)
	if !ok || len(variations) != 1 {
		t.Fatalf("expected variations in detail payload, got %v", data)
	}
}

func TestGetBreadcrumb(t *testing.T) {
	svc := &stubCatalogService{breadcrumb: []string{"Home", "Nội thất", "Ghế sofa"}}

	router := newTestRouter(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/categories/C1/breadcrumb", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	crumbs, ok := body["breadcrumb"].([]any)
	if !ok || len(crumbs) != 3 || crumbs[0] != "Home" {
		t.Fatalf("unexpected breadcrumb: %v", body["breadcrumb"])
	}
}

func TestRouterNotFoundEnvelope(t *testing.T) {
	router := newTestRouter(&stubCatalogService{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected success=false envelope, got %v", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := NewRouter(
		WithCatalogRoutes(NewCatalogHandlers(WithCatalogService(&stubCatalogService{})).Routes),
		WithHealthHandlers(NewHealthHandlers(func(context.Context) error { return nil })),
	)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	failing := NewRouter(
		WithHealthHandlers(NewHealthHandlers(func(context.Context) error { return errors.New("firestore unreachable") })),
	)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	failing.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when readiness check fails, got %d", rec.Code)
	}
}
