package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"lootmart-backend/internal/repositories"
	"lootmart-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalogService CatalogServiceInterface
}

func NewProductHandler(catalogService CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// BrowseProducts serves one page of a store's catalog:
// GET /products?storeSlug&q&limit&cursor&inStock&sort
// Malformed parameters are rejected before the catalog is touched.
func (h *ProductHandler) BrowseProducts(c *gin.Context) {
	storeSlug := strings.TrimSpace(c.Query("storeSlug"))
	if storeSlug == "" {
		respondError(c, http.StatusBadRequest, "Missing storeSlug")
		return
	}

	query := strings.TrimSpace(c.Query("q"))

	limit := services.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > services.MaxLimit {
			respondError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	var cursor *int64
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "Invalid cursor")
			return
		}
		cursor = &parsed
	}

	var inStock *bool
	if raw := c.Query("inStock"); raw != "" {
		switch raw {
		case "1":
			value := true
			inStock = &value
		case "0":
			value := false
			inStock = &value
		default:
			respondError(c, http.StatusBadRequest, "Invalid inStock")
			return
		}
	}

	sort := strings.TrimSpace(c.Query("sort"))
	if sort == "" {
		sort = repositories.SortRelevance
	} else if !repositories.ValidSort(sort) {
		respondError(c, http.StatusBadRequest, "Invalid sort")
		return
	}

	response, err := h.catalogService.BrowseProducts(c.Request.Context(), services.BrowseRequest{
		StoreSlug: storeSlug,
		Query:     query,
		InStock:   inStock,
		Sort:      sort,
		Cursor:    cursor,
		Limit:     limit,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		log.Printf("GET /products failed (storeSlug=%s q=%q sort=%s): %v", storeSlug, query, sort, err)
		respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondCachedETag(c, response)
}

// GetProduct serves the full product detail: GET /products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("GET /products/%d failed: %v", id, err)
		respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondCachedETag(c, product)
}

// RegisterRoutes wires the product routes. limiter is optional request
// throttling for the listing route.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	products := router.Group("/products")
	{
		if limiter != nil {
			products.GET("", limiter, h.BrowseProducts)
		} else {
			products.GET("", h.BrowseProducts)
		}
		products.GET("/:id", h.GetProduct)
	}
}
