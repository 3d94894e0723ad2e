package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lumera/internal/domain"
)

type priceLookupRequest struct {
	Refs []string `json:"refs"`
}

func priceAccessHandler(svc PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := svc.Check(c.Request.Context(), currentCustomerID(c))
		c.JSON(http.StatusOK, gin.H{"state": state})
	}
}

// priceLookupHandler returns prices for the requested refs. Callers without
// entitlement get an empty map, not an error: price absence is a display
// state, not a failure.
func priceLookupHandler(svc PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req priceLookupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		prices := svc.LoadPrices(c.Request.Context(), currentCustomerID(c), req.Refs)
		if prices == nil {
			prices = map[string]domain.PriceInfo{}
		}
		c.JSON(http.StatusOK, gin.H{"prices": prices})
	}
}
