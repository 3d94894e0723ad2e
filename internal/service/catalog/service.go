package catalog

import (
	"context"
	"io"
	"log"

	"github.com/cenkalti/backoff/v4"

	"lumera/internal/domain"
	productrepo "lumera/internal/repository/product"
	"lumera/internal/service/pricing"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is one catalog page. Prices holds the gate-fetched rows for the refs
// on this page and is empty when the caller is not entitled; the UI treats a
// missing price as "not shown", never as zero.
type Page struct {
	Products []domain.Product            `json:"products"`
	Prices   map[string]domain.PriceInfo `json:"prices,omitempty"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"pageSize"`
	HasMore  bool                        `json:"hasMore"`
}

type Service struct {
	repo   productrepo.Repository
	gate   *pricing.Gate
	logger *log.Logger
	// retryPolicy builds a fresh backoff for each catalog fetch.
	retryPolicy func() backoff.BackOff
}

func New(repo productrepo.Repository, gate *pricing.Gate, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:   repo,
		gate:   gate,
		logger: logger,
		retryPolicy: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
		},
	}
}

// Search fetches a filtered catalog page. Price decoration is a separate
// post-step: a pricing failure never fails the product fetch.
func (s *Service) Search(ctx context.Context, customerID string, in productrepo.SearchInput) (*Page, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 {
		in.PageSize = defaultPageSize
	}
	if in.PageSize > maxPageSize {
		in.PageSize = maxPageSize
	}

	var products []domain.Product
	fetch := func() error {
		var err error
		products, err = s.repo.Search(ctx, in)
		return err
	}
	// Unlike prices, an exhausted catalog fetch is surfaced: the caller gets
	// an error it can retry, not an empty shelf.
	if err := backoff.Retry(fetch, backoff.WithContext(s.retryPolicy(), ctx)); err != nil {
		return nil, err
	}

	page := &Page{
		Products: products,
		Page:     in.Page,
		PageSize: in.PageSize,
		// Full-page heuristic: an exactly full page means more may follow.
		HasMore: len(products) == in.PageSize,
	}

	if s.gate != nil && len(products) > 0 {
		refs := make([]string, 0, len(products))
		for _, p := range products {
			refs = append(refs, p.Ref)
		}
		if prices := s.gate.LoadPrices(ctx, customerID, refs); len(prices) > 0 {
			page.Prices = prices
		}
	}

	return page, nil
}

// Get returns a single product with its price when the caller is entitled.
func (s *Service) Get(ctx context.Context, customerID, ref string) (*domain.Product, *domain.PriceInfo, error) {
	p, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		return nil, nil, err
	}

	var priceInfo *domain.PriceInfo
	if s.gate != nil {
		if prices := s.gate.LoadPrices(ctx, customerID, []string{ref}); len(prices) > 0 {
			if info, ok := prices[ref]; ok {
				priceInfo = &info
			}
		}
	}
	return p, priceInfo, nil
}
