package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lumera/internal/domain"
	"lumera/internal/service/catalog"
)

func TestListProducts_OK(t *testing.T) {
	page := &catalog.Page{
		Products: []domain.Product{{Ref: "LUM-001", NameEN: "Gentle Foaming Cleanser"}},
		Page:     1,
		PageSize: 20,
		HasMore:  false,
	}
	catalogSvc := &stubCatalogSvc{page: page}
	router := newTestRouter(t, testDeps{catalog: catalogSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/products?search=cleanser&line=pure&page=2&pageSize=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ref":"LUM-001"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if catalogSvc.lastIn.Search != "cleanser" || catalogSvc.lastIn.Line != "pure" {
		t.Fatalf("filters not forwarded: %+v", catalogSvc.lastIn)
	}
	if catalogSvc.lastIn.Page != 2 || catalogSvc.lastIn.PageSize != 10 {
		t.Fatalf("pagination not forwarded: %+v", catalogSvc.lastIn)
	}
}

func TestListProducts_FetchFailureIsRetriable(t *testing.T) {
	catalogSvc := &stubCatalogSvc{searchErr: errors.New("db down")}
	router := newTestRouter(t, testDeps{catalog: catalogSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"retriable":true`) {
		t.Fatalf("expected retriable error body, got %s", rec.Body.String())
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	catalogSvc := &stubCatalogSvc{getErr: domain.ErrNotFound}
	router := newTestRouter(t, testDeps{catalog: catalogSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/products/NOPE", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetProduct_WithPrice(t *testing.T) {
	price := 24.50
	catalogSvc := &stubCatalogSvc{
		product: &domain.Product{Ref: "LUM-002", NameEN: "Hydra Day Cream"},
		price:   &domain.PriceInfo{UnitPrice: price, Currency: "EUR"},
	}
	router := newTestRouter(t, testDeps{catalog: catalogSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/products/LUM-002", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"unitPrice":24.5`) {
		t.Fatalf("expected price in body: %s", rec.Body.String())
	}
}

func TestPriceAccess_Anonymous(t *testing.T) {
	router := newTestRouter(t, testDeps{})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/access", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"state":"denied"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPriceLookup_EmptyMapWhenDenied(t *testing.T) {
	pricingSvc := &stubPricingSvc{prices: nil}
	router := newTestRouter(t, testDeps{pricing: pricingSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/prices", strings.NewReader(`{"refs":["LUM-001"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"prices":{}`) {
		t.Fatalf("expected empty price map, got %s", rec.Body.String())
	}
}
