package handlers

import (
	"context"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
)

// StoreServiceInterface defines the store service operations used by handlers
type StoreServiceInterface interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error)
	GetTopCategories(ctx context.Context, slug string) ([]repositories.CategoryCount, error)
}
