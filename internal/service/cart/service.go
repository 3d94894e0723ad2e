package cart

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"lumera/internal/domain"
	"lumera/internal/repository/cartstore"
)

const defaultDebounce = 300 * time.Millisecond

// Service holds the authoritative in-memory carts, one per session, and
// mirrors them to the cart store after a debounce window so rapid quantity
// clicks collapse into a single write. Persistence is best-effort: a failed
// write is logged and the in-memory cart remains the source of truth.
type Service struct {
	store    cartstore.Store
	logger   *log.Logger
	debounce time.Duration

	mu     sync.Mutex
	carts  map[string]*domain.Cart
	timers map[string]*time.Timer
}

func New(store cartstore.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		store:    store,
		logger:   logger,
		debounce: defaultDebounce,
		carts:    make(map[string]*domain.Cart),
		timers:   make(map[string]*time.Timer),
	}
}

// SetDebounce overrides the save quiet period. Used by tests and wiring.
func (s *Service) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// AddInput carries one add-to-cart request.
type AddInput struct {
	ProductRef string
	Quantity   int
	UnitPrice  float64
	UnitType   string
	Notes      string
	Snapshot   *domain.ProductSnapshot
}

// Get returns the session's cart, rehydrating it from the store on first
// touch. A missing, corrupt or version-mismatched record yields an empty cart.
func (s *Service) Get(ctx context.Context, sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(s.ensureLocked(ctx, sessionID))
}

// AddItem appends a new line or, when the ref is already present, accumulates
// its quantity (overwriting notes only when provided).
func (s *Service) AddItem(ctx context.Context, sessionID string, in AddInput) domain.Cart {
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ensureLocked(ctx, sessionID)

	if existing := c.Find(in.ProductRef); existing != nil {
		existing.Quantity += in.Quantity
		if in.Notes != "" {
			existing.Notes = in.Notes
		}
	} else {
		c.Items = append(c.Items, domain.CartItem{
			ProductRef: in.ProductRef,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			UnitType:   in.UnitType,
			Notes:      in.Notes,
			Snapshot:   in.Snapshot,
		})
	}

	s.commitLocked(sessionID, c)
	return cloneCart(c)
}

// UpdateItem replaces quantity/notes in place. A quantity of zero or less
// removes the line. An unknown ref is logged and leaves the cart untouched
// rather than failing the caller.
func (s *Service) UpdateItem(ctx context.Context, sessionID, ref string, quantity int, notes *string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ensureLocked(ctx, sessionID)

	if quantity <= 0 {
		s.removeLocked(sessionID, c, ref)
		return cloneCart(c)
	}

	item := c.Find(ref)
	if item == nil {
		s.logger.Printf("cart: update session=%s ref=%s not in cart", sessionID, ref)
		return cloneCart(c)
	}
	item.Quantity = quantity
	if notes != nil {
		item.Notes = *notes
	}

	s.commitLocked(sessionID, c)
	return cloneCart(c)
}

// UpdateItemPrice patches the price fields of an existing line, typically
// after the pricing gate resolves prices that were unknown at add time.
func (s *Service) UpdateItemPrice(ctx context.Context, sessionID, ref string, unitPrice float64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ensureLocked(ctx, sessionID)

	item := c.Find(ref)
	if item == nil {
		s.logger.Printf("cart: price update session=%s ref=%s not in cart", sessionID, ref)
		return cloneCart(c)
	}
	if unitPrice < 0 {
		unitPrice = 0
	}
	item.UnitPrice = unitPrice

	s.commitLocked(sessionID, c)
	return cloneCart(c)
}

// ApplyPrices patches every line present in the price map. Lines without a
// price row keep their last known price.
func (s *Service) ApplyPrices(ctx context.Context, sessionID string, prices map[string]domain.PriceInfo) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ensureLocked(ctx, sessionID)

	changed := false
	for i := range c.Items {
		info, ok := prices[c.Items[i].ProductRef]
		if !ok {
			continue
		}
		price := info.UnitPrice
		if info.DiscountPrice != nil {
			price = *info.DiscountPrice
		}
		c.Items[i].UnitPrice = price
		changed = true
	}
	if changed {
		s.commitLocked(sessionID, c)
	}
	return cloneCart(c)
}

// RemoveItem drops the line with the given ref.
func (s *Service) RemoveItem(ctx context.Context, sessionID, ref string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ensureLocked(ctx, sessionID)
	s.removeLocked(sessionID, c, ref)
	return cloneCart(c)
}

// Clear resets the session to an empty cart.
func (s *Service) Clear(ctx context.Context, sessionID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &domain.Cart{Items: []domain.CartItem{}}
	c.Recompute()
	c.LastUpdated = time.Now().UTC()
	s.carts[sessionID] = c
	s.scheduleSaveLocked(sessionID)
	return cloneCart(c)
}

// Flush cancels pending debounce timers and writes every dirty cart now.
// Called on shutdown.
func (s *Service) Flush(ctx context.Context) {
	s.mu.Lock()
	sessions := make([]string, 0, len(s.timers))
	for id, timer := range s.timers {
		timer.Stop()
		sessions = append(sessions, id)
	}
	s.timers = make(map[string]*time.Timer)
	s.mu.Unlock()

	for _, id := range sessions {
		s.persist(ctx, id)
	}
}

func (s *Service) ensureLocked(ctx context.Context, sessionID string) *domain.Cart {
	if c, ok := s.carts[sessionID]; ok {
		return c
	}

	c := &domain.Cart{Items: []domain.CartItem{}}
	if s.store != nil {
		if rec, err := s.store.Load(ctx, sessionID); err == nil && rec != nil {
			c.Items = rec.Items
			c.LastUpdated = rec.LastUpdated
		}
	}
	c.Recompute()
	s.carts[sessionID] = c
	return c
}

func (s *Service) removeLocked(sessionID string, c *domain.Cart, ref string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductRef != ref {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	s.commitLocked(sessionID, c)
}

func (s *Service) commitLocked(sessionID string, c *domain.Cart) {
	c.Recompute()
	c.LastUpdated = time.Now().UTC()
	s.scheduleSaveLocked(sessionID)
}

func (s *Service) scheduleSaveLocked(sessionID string) {
	if s.store == nil {
		return
	}
	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
	}
	s.timers[sessionID] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, sessionID)
		s.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.persist(ctx, sessionID)
	})
}

// cloneCart detaches the returned cart from the service's internal state.
// Callers marshal the result outside the lock, so the items (and their
// snapshots) must not share backing memory with later mutations.
func cloneCart(c *domain.Cart) domain.Cart {
	out := *c
	out.Items = make([]domain.CartItem, len(c.Items))
	copy(out.Items, c.Items)
	for i := range out.Items {
		if out.Items[i].Snapshot != nil {
			snap := *out.Items[i].Snapshot
			out.Items[i].Snapshot = &snap
		}
	}
	return out
}

func (s *Service) persist(ctx context.Context, sessionID string) {
	s.mu.Lock()
	c, ok := s.carts[sessionID]
	var rec cartstore.Record
	if ok {
		rec = cartstore.Record{
			Items:       append([]domain.CartItem(nil), c.Items...),
			LastUpdated: c.LastUpdated,
			Version:     cartstore.SchemaVersion,
		}
	}
	s.mu.Unlock()
	if !ok || s.store == nil {
		return
	}

	if err := s.store.Save(ctx, sessionID, rec); err != nil {
		s.logger.Printf("cart: save session=%s error=%v", sessionID, err)
	}
}
