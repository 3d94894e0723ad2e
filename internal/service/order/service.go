package order

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"lumera/internal/domain"
	"lumera/internal/events"
	orderrepo "lumera/internal/repository/order"
)

type Service struct {
	repo      orderrepo.Repository
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo orderrepo.Repository, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

// SubmitInput is the order submission payload.
type SubmitInput struct {
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	CustomerPhone string             `json:"customerPhone"`
	Items         []domain.OrderItem `json:"items"`
}

// Submit validates the payload, computes the total server-side and persists
// the order. The submitted id is always generated here, never by the client.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, errors.New("customer name required")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, errors.New("customer email required")
	}
	if len(in.Items) == 0 {
		return nil, errors.New("items required")
	}

	var total float64
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductRef) == "" {
			return nil, errors.New("item product ref required")
		}
		if it.Quantity < 1 {
			return nil, errors.New("item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			in.Items[i].UnitPrice = 0
			it.UnitPrice = 0
		}
		total += it.UnitPrice * float64(it.Quantity)
	}
	total = math.Round(total*100) / 100

	o := domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(strings.ToLower(in.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Items:         in.Items,
		Total:         total,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(events.TypeOrderCreated, created); err != nil {
			s.logger.Printf("order: publish created id=%s error=%v", created.ID, err)
		}
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Patch applies a partial update. Status values are validated before they
// reach the database.
func (s *Service) Patch(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error) {
	if patch.Status == nil && patch.PaymentStatus == nil && patch.Items == nil {
		return nil, errors.New("empty patch")
	}
	if patch.Status != nil && !validOrderStatus(*patch.Status) {
		return nil, errors.New("unknown order status")
	}
	if patch.PaymentStatus != nil && !validPaymentStatus(*patch.PaymentStatus) {
		return nil, errors.New("unknown payment status")
	}
	return s.repo.Patch(ctx, id, patch)
}

func validOrderStatus(status string) bool {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusShipped,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		return true
	}
	return false
}

func validPaymentStatus(status string) bool {
	switch status {
	case domain.PaymentStatusUnpaid, domain.PaymentStatusPending, domain.PaymentStatusPaid,
		domain.PaymentStatusFailed, domain.PaymentStatusRefunded:
		return true
	}
	return false
}
