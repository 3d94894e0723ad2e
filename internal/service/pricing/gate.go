package pricing

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"lumera/internal/domain"
	pricerepo "lumera/internal/repository/price"
)

// Access states for a customer's price visibility.
type AccessState string

const (
	AccessUnknown  AccessState = "unknown"
	AccessChecking AccessState = "checking"
	AccessGranted  AccessState = "granted"
	AccessDenied   AccessState = "denied"
)

const defaultAccessTTL = 5 * time.Minute

// accessChecker resolves whether an account may see prices. The anonymous
// caller (empty customer id) is always denied.
type accessChecker interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type decision struct {
	state     AccessState
	expiresAt time.Time
}

// Gate decides price visibility per customer and fetches price rows only for
// entitled callers. Decisions are cached for a bounded window so the catalog
// does not hammer the customer table on every page.
type Gate struct {
	prices    pricerepo.Repository
	customers accessChecker
	logger    *log.Logger
	accessTTL time.Duration
	now       func() time.Time
	// retryPolicy builds a fresh backoff for each price fetch.
	retryPolicy func() backoff.BackOff

	mu        sync.Mutex
	decisions map[string]decision
}

func NewGate(prices pricerepo.Repository, customers accessChecker, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Gate{
		prices:    prices,
		customers: customers,
		logger:    logger,
		accessTTL: defaultAccessTTL,
		now:       time.Now,
		retryPolicy: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
		},
		decisions: make(map[string]decision),
	}
}

// SetAccessTTL overrides the decision cache window.
func (g *Gate) SetAccessTTL(ttl time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accessTTL = ttl
}

// Check resolves the access state for the customer, consulting the cache
// first. Any authorization error resolves to denied for the rest of the
// cache window; granted requires an explicit positive lookup.
func (g *Gate) Check(ctx context.Context, customerID string) AccessState {
	if customerID == "" {
		return AccessDenied
	}

	g.mu.Lock()
	if d, ok := g.decisions[customerID]; ok && g.now().Before(d.expiresAt) {
		state := d.state
		g.mu.Unlock()
		return state
	}
	// Mark as checking so a concurrent caller sees the in-flight state.
	g.decisions[customerID] = decision{state: AccessChecking, expiresAt: g.now().Add(g.accessTTL)}
	ttl := g.accessTTL
	g.mu.Unlock()

	state := AccessDenied
	c, err := g.customers.GetByID(ctx, customerID)
	switch {
	case err == nil && c.PriceEntitled():
		state = AccessGranted
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		g.logger.Printf("pricing gate: access check customer=%s error=%v", customerID, err)
	}

	g.mu.Lock()
	g.decisions[customerID] = decision{state: state, expiresAt: g.now().Add(ttl)}
	g.mu.Unlock()

	g.logger.Printf("pricing gate: customer=%s state=%s", customerID, state)
	return state
}

// LoadPrices returns price rows for the given refs, keyed by ref. The fetch
// is skipped at the source unless the gate resolves to granted; in every
// degraded case the result is an empty map, never an error, so the catalog
// still renders without prices.
func (g *Gate) LoadPrices(ctx context.Context, customerID string, refs []string) map[string]domain.PriceInfo {
	if len(refs) == 0 {
		return map[string]domain.PriceInfo{}
	}
	if g.Check(ctx, customerID) != AccessGranted {
		return map[string]domain.PriceInfo{}
	}

	var result map[string]domain.PriceInfo
	fetch := func() error {
		m, err := g.prices.ListByRefs(ctx, refs)
		if err != nil {
			// An authorization failure is not transient; retrying won't help.
			if errors.Is(err, domain.ErrAccessDenied) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = m
		return nil
	}

	policy := backoff.WithContext(g.retryPolicy(), ctx)
	if err := backoff.Retry(fetch, policy); err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			g.deny(customerID)
			g.logger.Printf("pricing gate: access revoked customer=%s", customerID)
		} else {
			g.logger.Printf("pricing gate: price fetch refs=%d error=%v", len(refs), err)
		}
		return map[string]domain.PriceInfo{}
	}
	return result
}

// deny overrides the cached decision, used when the price source itself
// reports the caller unauthorized after an earlier positive check.
func (g *Gate) deny(customerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.decisions[customerID] = decision{state: AccessDenied, expiresAt: g.now().Add(g.accessTTL)}
}
