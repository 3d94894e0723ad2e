package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"lumera/internal/domain"
	"lumera/internal/events"
	orderrepo "lumera/internal/repository/order"
)

// ErrUnknownState is returned for gateway states outside the session model.
var ErrUnknownState = errors.New("unknown payment session state")

// Notification is a gateway webhook payload: one session state change bound
// to an order.
type Notification struct {
	OrderID      string `json:"orderId"`
	SessionID    string `json:"sessionId"`
	SessionState string `json:"state"`
	Reference    string `json:"reference,omitempty"`
}

type Service struct {
	orders    orderrepo.Repository
	publisher events.Publisher
	logger    *log.Logger
}

func New(orders orderrepo.Repository, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, publisher: publisher, logger: logger}
}

// HandleNotification maps the session state onto the order's payment_status
// (and order status for terminal outcomes), persists the patch and publishes
// a payment.updated event.
func (s *Service) HandleNotification(ctx context.Context, n Notification) (*domain.Order, error) {
	if n.OrderID == "" {
		return nil, errors.New("order id required")
	}
	if !domain.ValidPaymentSessionState(n.SessionState) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, n.SessionState)
	}

	current, err := s.orders.GetByID(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}

	patch := patchForState(n.SessionState)
	if patch.PaymentStatus == nil && patch.Status == nil {
		// created/expired carry no order-side change; ack and move on.
		s.logger.Printf("payment: session=%s state=%s no order change", n.SessionID, n.SessionState)
		return current, nil
	}
	if patch.PaymentStatus != nil && !paymentTransitionAllowed(current.PaymentStatus, *patch.PaymentStatus) {
		// Stale or replayed notification; the order already reached a state
		// this change would regress.
		s.logger.Printf("payment: order=%s state=%s ignored payment_status=%s", current.ID, n.SessionState, current.PaymentStatus)
		return current, nil
	}

	updated, err := s.orders.Patch(ctx, n.OrderID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("payment: order=%s session_state=%s payment_status=%s", updated.ID, n.SessionState, updated.PaymentStatus)

	if s.publisher != nil {
		if err := s.publisher.Publish(events.TypePaymentUpdated, updated); err != nil {
			s.logger.Printf("payment: publish updated order=%s error=%v", updated.ID, err)
		}
	}
	return updated, nil
}

// paymentTransitionAllowed reports whether the payment status may move to
// next. paid and refunded are protected against out-of-order notifications;
// everything below them may still progress (a failed payment can be retried).
func paymentTransitionAllowed(current, next string) bool {
	switch current {
	case domain.PaymentStatusRefunded:
		return false
	case domain.PaymentStatusPaid:
		return next == domain.PaymentStatusRefunded
	default:
		return true
	}
}

func patchForState(state string) domain.OrderPatch {
	strPtr := func(v string) *string { return &v }
	switch state {
	case domain.PaymentSessionProcessing:
		return domain.OrderPatch{PaymentStatus: strPtr(domain.PaymentStatusPending)}
	case domain.PaymentSessionCompleted:
		return domain.OrderPatch{
			PaymentStatus: strPtr(domain.PaymentStatusPaid),
			Status:        strPtr(domain.OrderStatusConfirmed),
		}
	case domain.PaymentSessionFailed:
		return domain.OrderPatch{PaymentStatus: strPtr(domain.PaymentStatusFailed)}
	case domain.PaymentSessionCancelled:
		return domain.OrderPatch{
			PaymentStatus: strPtr(domain.PaymentStatusFailed),
			Status:        strPtr(domain.OrderStatusCancelled),
		}
	case domain.PaymentSessionRefunded:
		return domain.OrderPatch{PaymentStatus: strPtr(domain.PaymentStatusRefunded)}
	}
	// created and expired leave the order untouched.
	return domain.OrderPatch{}
}
