package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lumera/internal/domain"
	productrepo "lumera/internal/repository/product"
)

// listProductsHandler serves the filtered, paginated catalog. A catalog
// fetch failure is surfaced as 502 with a retriable error body so the
// storefront can offer a retry instead of rendering an empty shelf.
func listProductsHandler(svc CatalogService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := productrepo.SearchInput{
			Search:   c.Query("search"),
			Line:     c.Query("line"),
			Type:     c.Query("type"),
			SkinType: c.Query("skinType"),
			Page:     intQuery(c, "page", 1),
			PageSize: intQuery(c, "pageSize", 0),
		}

		page, err := svc.Search(c.Request.Context(), currentCustomerID(c), in)
		if err != nil {
			logger.Printf("catalog: search failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "catalog temporarily unavailable",
				"retriable": true,
			})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, price, err := svc.Get(c.Request.Context(), currentCustomerID(c), c.Param("ref"))
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "catalog temporarily unavailable",
				"retriable": true,
			})
			return
		}

		resp := gin.H{"product": product}
		if price != nil {
			resp["price"] = price
		}
		c.JSON(http.StatusOK, resp)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
