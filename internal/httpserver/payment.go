package httpserver

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumera/internal/domain"
	paymentsvc "lumera/internal/service/payment"
)

const webhookSecretHeader = "X-Webhook-Secret"

// paymentWebhookHandler receives gateway session notifications. The route is
// unauthenticated except for the shared secret; when no secret is configured
// the check is skipped, which is only acceptable in local setups.
func paymentWebhookHandler(svc PaymentService, secret string, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" {
			got := c.GetHeader(webhookSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
				return
			}
		}

		var n paymentsvc.Notification
		if err := c.ShouldBindJSON(&n); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		order, err := svc.HandleNotification(c.Request.Context(), n)
		switch {
		case errors.Is(err, paymentsvc.ErrUnknownState):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown session state"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case err != nil:
			logger.Printf("payment: webhook failed order=%s state=%s: %v", n.OrderID, n.SessionState, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "notification not applied"})
		default:
			c.JSON(http.StatusOK, gin.H{"order": order})
		}
	}
}
