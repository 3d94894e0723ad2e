package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lumera/internal/domain"
	cartsvc "lumera/internal/service/cart"
)

type addCartItemRequest struct {
	ProductRef string                  `json:"product_id"`
	Quantity   int                     `json:"quantity"`
	UnitPrice  float64                 `json:"unit_price"`
	UnitType   string                  `json:"unit_type"`
	Notes      string                  `json:"notes"`
	Snapshot   *domain.ProductSnapshot `json:"product"`
}

type updateCartItemRequest struct {
	Quantity  *int     `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Notes     *string  `json:"notes"`
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := svc.Get(c.Request.Context(), sessionID(c))
		c.JSON(http.StatusOK, cart)
	}
}

func addCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if strings.TrimSpace(req.ProductRef) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id required"})
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}

		cart := svc.AddItem(c.Request.Context(), sessionID(c), cartsvc.AddInput{
			ProductRef: req.ProductRef,
			Quantity:   req.Quantity,
			UnitPrice:  req.UnitPrice,
			UnitType:   req.UnitType,
			Notes:      req.Notes,
			Snapshot:   req.Snapshot,
		})
		c.JSON(http.StatusOK, cart)
	}
}

// updateCartItemHandler patches a single line. Quantity and unit price are
// independent: a price-only patch leaves the quantity alone, and a quantity
// of zero or less removes the line.
func updateCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if req.Quantity == nil && req.UnitPrice == nil && req.Notes == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		ctx := c.Request.Context()
		sid := sessionID(c)
		ref := c.Param("ref")

		var cart domain.Cart
		if req.UnitPrice != nil {
			cart = svc.UpdateItemPrice(ctx, sid, ref, *req.UnitPrice)
		}
		if req.Quantity != nil || req.Notes != nil {
			qty := 1
			if req.Quantity != nil {
				qty = *req.Quantity
			} else if item := foundQuantity(svc.Get(ctx, sid), ref); item > 0 {
				qty = item
			}
			cart = svc.UpdateItem(ctx, sid, ref, qty, req.Notes)
		}
		c.JSON(http.StatusOK, cart)
	}
}

func foundQuantity(cart domain.Cart, ref string) int {
	if item := cart.Find(ref); item != nil {
		return item.Quantity
	}
	return 0
}

func removeCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := svc.RemoveItem(c.Request.Context(), sessionID(c), c.Param("ref"))
		c.JSON(http.StatusOK, cart)
	}
}

func clearCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := svc.Clear(c.Request.Context(), sessionID(c))
		c.JSON(http.StatusOK, cart)
	}
}

// refreshCartPricesHandler re-resolves prices for everything in the cart
// through the pricing gate. Without entitlement the lookup comes back empty
// and the cart keeps its last known prices.
func refreshCartPricesHandler(svc CartService, prices PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := sessionID(c)

		cart := svc.Get(ctx, sid)
		refs := make([]string, 0, len(cart.Items))
		for _, item := range cart.Items {
			refs = append(refs, item.ProductRef)
		}
		if len(refs) == 0 {
			c.JSON(http.StatusOK, cart)
			return
		}

		loaded := prices.LoadPrices(ctx, currentCustomerID(c), refs)
		if len(loaded) > 0 {
			cart = svc.ApplyPrices(ctx, sid, loaded)
		}
		c.JSON(http.StatusOK, cart)
	}
}
