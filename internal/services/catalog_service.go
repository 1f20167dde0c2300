package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
	"lootmart-backend/pkg/cache"
	"lootmart-backend/pkg/messaging"
)

const (
	DefaultLimit = 24
	MaxLimit     = 60

	productCacheTTL = 10 * time.Minute
	listingCacheTTL = time.Minute
)

// BrowseRequest is one validated listing query. Handlers are responsible
// for rejecting malformed parameters before building one.
type BrowseRequest struct {
	StoreSlug string
	Query     string
	InStock   *bool
	Sort      string
	Cursor    *int64
	Limit     int
}

type StoreSummary struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type BrowseResponse struct {
	Store      StoreSummary     `json:"store"`
	Items      []models.Product `json:"items"`
	NextCursor *int64           `json:"nextCursor"`
}

type CatalogService struct {
	storeRepo     repositories.StoreRepository
	productRepo   repositories.ProductRepository
	cache         *cache.RedisCache
	kafkaProducer *messaging.KafkaProducer
}

func NewCatalogService(
	storeRepo repositories.StoreRepository,
	productRepo repositories.ProductRepository,
	cache *cache.RedisCache,
	kafkaProducer *messaging.KafkaProducer,
) *CatalogService {
	return &CatalogService{
		storeRepo:     storeRepo,
		productRepo:   productRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// BrowseProducts answers one page of a store's catalog. It asks the
// repository for limit+1 rows: an extra row means more pages exist, and
// that row's id becomes the next cursor while the row itself is held back.
func (s *CatalogService) BrowseProducts(ctx context.Context, req BrowseRequest) (*BrowseResponse, error) {
	store, err := s.storeRepo.GetBySlug(ctx, req.StoreSlug)
	if err != nil {
		return nil, err
	}

	cacheKey := ""
	if req.Query == "" && req.Cursor == nil && s.cache != nil {
		cacheKey = fmt.Sprintf("products:%s:%v:%s:%d", req.StoreSlug, req.InStock != nil && *req.InStock, req.Sort, req.Limit)
		var cached BrowseResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	products, err := s.productRepo.List(ctx, repositories.ListProductsParams{
		StoreID:  store.ID,
		Query:    req.Query,
		InStock:  req.InStock,
		Sort:     req.Sort,
		CursorID: req.Cursor,
		Limit:    req.Limit + 1,
	})
	if err != nil {
		return nil, err
	}

	var nextCursor *int64
	if len(products) > req.Limit {
		probe := products[req.Limit]
		nextCursor = &probe.ID
		products = products[:req.Limit]
	}

	response := &BrowseResponse{
		Store:      StoreSummary{ID: store.ID, Slug: store.Slug, Name: store.Name},
		Items:      products,
		NextCursor: nextCursor,
	}

	if cacheKey != "" {
		s.cache.Set(ctx, cacheKey, response, listingCacheTTL)
	}

	if req.Query != "" && s.kafkaProducer != nil {
		event := messaging.SearchEvent{
			StoreSlug:   req.StoreSlug,
			Query:       req.Query,
			Sort:        req.Sort,
			InStockOnly: req.InStock != nil && *req.InStock,
			ResultCount: len(response.Items),
			OccurredAt:  time.Now().UTC(),
		}
		go func() {
			if err := s.kafkaProducer.SendMessage(messaging.SearchEventsTopic, req.StoreSlug, event); err != nil {
				log.Printf("Failed to publish search event: %v", err)
			}
		}()
	}

	return response, nil
}

// GetProduct returns the full product detail: brand, ordered images and the
// category chain.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	cacheKey := fmt.Sprintf("product:%d", id)
	if s.cache != nil {
		var cached models.Product
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, product, productCacheTTL)
	}
	return product, nil
}
