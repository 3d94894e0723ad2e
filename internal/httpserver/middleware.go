package httpserver

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lumera/internal/domain"
)

const (
	sessionHeader      = "X-Session-ID"
	customerContextKey = "currentCustomer"
	sessionContextKey  = "sessionID"
)

// sessionMiddleware resolves the cart session. Clients that do not send a
// session header get a fresh id back and are expected to echo it on the next
// request.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.GetHeader(sessionHeader))
		if sid == "" {
			sid = uuid.NewString()
		}
		c.Set(sessionContextKey, sid)
		c.Header(sessionHeader, sid)
		c.Next()
	}
}

// authMiddleware resolves an optional bearer token to a customer. A missing
// or invalid token leaves the request anonymous rather than rejecting it;
// endpoints that need entitlement check the resolved customer themselves.
func authMiddleware(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if cust, err := customers.LookupByToken(c.Request.Context(), strings.TrimSpace(token)); err == nil && cust != nil {
				c.Set(customerContextKey, cust)
			}
		}
		c.Next()
	}
}

func currentCustomer(c *gin.Context) *domain.Customer {
	v, ok := c.Get(customerContextKey)
	if !ok {
		return nil
	}
	cust, ok := v.(*domain.Customer)
	if !ok {
		return nil
	}
	return cust
}

func currentCustomerID(c *gin.Context) string {
	if cust := currentCustomer(c); cust != nil {
		return cust.ID
	}
	return ""
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
