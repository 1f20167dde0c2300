package handlers

import (
	"context"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/services"
)

// CatalogServiceInterface defines the catalog service operations used by handlers
type CatalogServiceInterface interface {
	BrowseProducts(ctx context.Context, req services.BrowseRequest) (*services.BrowseResponse, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// CheckoutServiceInterface defines the checkout service operations used by handlers
type CheckoutServiceInterface interface {
	Quote(ctx context.Context, req *services.QuoteRequest) (*services.QuoteResponse, error)
}
