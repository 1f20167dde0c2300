package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"lootmart-backend/configs"
	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeService StoreServiceInterface
}

func NewStoreHandler(storeService StoreServiceInterface) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// storeDetail is a store row plus its configured opening windows, the shape
// store cards and the store page render.
type storeDetail struct {
	*models.Store
	Hours configs.StoreHours `json:"hours"`
}

// ListStores returns every store, sorted by name ascending.
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.storeService.ListStores(c.Request.Context())
	if err != nil {
		log.Printf("GET /stores failed: %v", err)
		respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	details := make([]storeDetail, 0, len(stores))
	for i := range stores {
		details = append(details, storeDetail{
			Store: &stores[i],
			Hours: configs.GetStoreHours(stores[i].Slug),
		})
	}
	respondCached(c, http.StatusOK, details)
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, http.StatusBadRequest, "Invalid slug")
		return
	}

	store, err := h.storeService.GetStoreBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		log.Printf("GET /stores/%s failed: %v", slug, err)
		respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondCached(c, http.StatusOK, storeDetail{
		Store: store,
		Hours: configs.GetStoreHours(store.Slug),
	})
}

// GetStoreCategories returns the store's top categories ranked by product
// count.
func (h *StoreHandler) GetStoreCategories(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, http.StatusBadRequest, "Invalid slug")
		return
	}

	categories, err := h.storeService.GetTopCategories(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Store not found")
			return
		}
		log.Printf("GET /stores/%s/categories failed: %v", slug, err)
		respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondCached(c, http.StatusOK, categories)
}

// GetLocations returns the configured delivery locations and the store
// slugs serving each.
func (h *StoreHandler) GetLocations(c *gin.Context) {
	respondCached(c, http.StatusOK, gin.H{
		"locations":   configs.Locations,
		"default":     configs.DefaultLocation,
		"deliverable": configs.DeliverableByLocation,
	})
}

func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	stores := router.Group("/stores")
	{
		stores.GET("", h.ListStores)
		stores.GET("/:slug", h.GetStore)
		stores.GET("/:slug/categories", h.GetStoreCategories)
	}
	router.GET("/locations", h.GetLocations)
}
