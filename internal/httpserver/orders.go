package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lumera/internal/domain"
	ordersvc "lumera/internal/service/order"
)

func submitOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.SubmitInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		order, err := svc.Submit(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order lookup failed"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func patchOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.OrderPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		order, err := svc.Patch(c.Request.Context(), c.Param("id"), patch)
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
