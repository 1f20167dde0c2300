package services

import (
	"context"
	"time"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
	"lootmart-backend/pkg/cache"
)

// Stores and their category rankings change only on re-import, so both are
// safe to cache for a while.
const (
	storeCacheTTL      = 10 * time.Minute
	topCategoriesLimit = 12
)

type StoreService struct {
	storeRepo repositories.StoreRepository
	cache     *cache.RedisCache
}

func NewStoreService(storeRepo repositories.StoreRepository, cache *cache.RedisCache) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		cache:     cache,
	}
}

// ListStores returns every store, name ascending.
func (s *StoreService) ListStores(ctx context.Context) ([]models.Store, error) {
	cacheKey := "stores:all"
	if s.cache != nil {
		var cached []models.Store
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, stores, storeCacheTTL)
	}
	return stores, nil
}

func (s *StoreService) GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error) {
	cacheKey := "stores:slug:" + slug
	if s.cache != nil {
		var cached models.Store
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	store, err := s.storeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, store, storeCacheTTL)
	}
	return store, nil
}

// GetTopCategories ranks a store's categories by product count descending,
// capped at twelve.
func (s *StoreService) GetTopCategories(ctx context.Context, slug string) ([]repositories.CategoryCount, error) {
	store, err := s.storeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	cacheKey := "stores:categories:" + slug
	if s.cache != nil {
		var cached []repositories.CategoryCount
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.storeRepo.TopCategories(ctx, store.ID, topCategoriesLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, categories, storeCacheTTL)
	}
	return categories, nil
}
