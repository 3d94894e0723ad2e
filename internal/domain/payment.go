package domain

// Payment session states reported by the gateway.
const (
	PaymentSessionCreated    = "created"
	PaymentSessionProcessing = "processing"
	PaymentSessionCompleted  = "completed"
	PaymentSessionFailed     = "failed"
	PaymentSessionCancelled  = "cancelled"
	PaymentSessionRefunded   = "refunded"
	PaymentSessionExpired    = "expired"
)

// ValidPaymentSessionState reports whether the gateway state is one we know.
func ValidPaymentSessionState(state string) bool {
	switch state {
	case PaymentSessionCreated, PaymentSessionProcessing, PaymentSessionCompleted,
		PaymentSessionFailed, PaymentSessionCancelled, PaymentSessionRefunded,
		PaymentSessionExpired:
		return true
	}
	return false
}
