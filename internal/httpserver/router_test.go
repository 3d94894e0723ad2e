package httpserver

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/gin-gonic/gin"

	"lumera/internal/domain"
	productrepo "lumera/internal/repository/product"
	cartsvc "lumera/internal/service/cart"
	"lumera/internal/service/catalog"
	customersvc "lumera/internal/service/customer"
	ordersvc "lumera/internal/service/order"
	paymentsvc "lumera/internal/service/payment"
	"lumera/internal/service/pricing"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCatalogSvc struct {
	page      *catalog.Page
	product   *domain.Product
	price     *domain.PriceInfo
	searchErr error
	getErr    error
	lastIn    productrepo.SearchInput
}

func (s *stubCatalogSvc) Search(_ context.Context, _ string, in productrepo.SearchInput) (*catalog.Page, error) {
	s.lastIn = in
	return s.page, s.searchErr
}

func (s *stubCatalogSvc) Get(_ context.Context, _ string, _ string) (*domain.Product, *domain.PriceInfo, error) {
	return s.product, s.price, s.getErr
}

type stubCartSvc struct {
	cart domain.Cart
}

func (s *stubCartSvc) Get(context.Context, string) domain.Cart { return s.cart }
func (s *stubCartSvc) AddItem(_ context.Context, _ string, _ cartsvc.AddInput) domain.Cart {
	return s.cart
}
func (s *stubCartSvc) UpdateItem(_ context.Context, _, _ string, _ int, _ *string) domain.Cart {
	return s.cart
}
func (s *stubCartSvc) UpdateItemPrice(_ context.Context, _, _ string, _ float64) domain.Cart {
	return s.cart
}
func (s *stubCartSvc) ApplyPrices(_ context.Context, _ string, _ map[string]domain.PriceInfo) domain.Cart {
	return s.cart
}
func (s *stubCartSvc) RemoveItem(_ context.Context, _, _ string) domain.Cart { return s.cart }
func (s *stubCartSvc) Clear(_ context.Context, _ string) domain.Cart         { return s.cart }

type stubPricingSvc struct {
	state  pricing.AccessState
	prices map[string]domain.PriceInfo
	calls  int
}

func (s *stubPricingSvc) Check(context.Context, string) pricing.AccessState { return s.state }

func (s *stubPricingSvc) LoadPrices(_ context.Context, _ string, _ []string) map[string]domain.PriceInfo {
	s.calls++
	return s.prices
}

type stubOrderSvc struct {
	order     *domain.Order
	submitErr error
	getErr    error
	patchErr  error
}

func (s *stubOrderSvc) Submit(_ context.Context, _ ordersvc.SubmitInput) (*domain.Order, error) {
	return s.order, s.submitErr
}

func (s *stubOrderSvc) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderSvc) Patch(_ context.Context, _ string, _ domain.OrderPatch) (*domain.Order, error) {
	return s.order, s.patchErr
}

type stubPaymentSvc struct {
	order *domain.Order
	err   error
	last  paymentsvc.Notification
}

func (s *stubPaymentSvc) HandleNotification(_ context.Context, n paymentsvc.Notification) (*domain.Order, error) {
	s.last = n
	return s.order, s.err
}

type stubCustomerSvc struct {
	customer  *domain.Customer
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubCustomerSvc) Signup(_ context.Context, _ customersvc.SignupInput) (*domain.Customer, error) {
	return s.customer, s.signupErr
}

func (s *stubCustomerSvc) Login(_ context.Context, _, _ string) (*domain.Customer, string, string, error) {
	return s.customer, "access", "refresh", s.loginErr
}

func (s *stubCustomerSvc) LookupByToken(_ context.Context, _ string) (*domain.Customer, error) {
	return s.customer, s.lookupErr
}

func (s *stubCustomerSvc) AccessTTLSeconds() int { return 3600 }

type testDeps struct {
	catalog  *stubCatalogSvc
	cart     CartService
	pricing  *stubPricingSvc
	order    *stubOrderSvc
	payment  *stubPaymentSvc
	customer *stubCustomerSvc
	secret   string
}

func newTestRouter(t *testing.T, deps testDeps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if deps.catalog == nil {
		deps.catalog = &stubCatalogSvc{page: &catalog.Page{Products: []domain.Product{}}}
	}
	if deps.cart == nil {
		deps.cart = &stubCartSvc{}
	}
	if deps.pricing == nil {
		deps.pricing = &stubPricingSvc{state: pricing.AccessDenied}
	}
	if deps.order == nil {
		deps.order = &stubOrderSvc{}
	}
	if deps.payment == nil {
		deps.payment = &stubPaymentSvc{}
	}
	if deps.customer == nil {
		deps.customer = &stubCustomerSvc{lookupErr: customersvc.ErrInvalidToken}
	}

	router, err := buildRouter(logDiscard(), nil, Deps{
		CatalogSvc:    deps.catalog,
		CartSvc:       deps.cart,
		PricingSvc:    deps.pricing,
		OrderSvc:      deps.order,
		PaymentSvc:    deps.payment,
		CustomerSvc:   deps.customer,
		WebhookSecret: deps.secret,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestBuildRouterRequiresServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatal("expected error for missing services")
	}
}
