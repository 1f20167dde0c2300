package handlers

import (
	"errors"
	"log"
	"net/http"

	"lootmart-backend/internal/repositories"
	"lootmart-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService CheckoutServiceInterface
}

func NewCheckoutHandler(checkoutService CheckoutServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Quote reprices a cart server-side and applies the store's delivery rule:
// POST /checkout/quote. Quotes are never cached.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrProductNotInStore):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("POST /checkout/quote failed (storeSlug=%s): %v", req.StoreSlug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}

// RegisterRoutes wires the checkout routes. limiter is optional request
// throttling for the quote route.
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	checkoutGroup := router.Group("/checkout")
	{
		if limiter != nil {
			checkoutGroup.POST("/quote", limiter, h.Quote)
		} else {
			checkoutGroup.POST("/quote", h.Quote)
		}
	}
}
