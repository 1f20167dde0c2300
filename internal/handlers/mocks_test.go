package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
	"lootmart-backend/internal/services"
)

type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) ListStores(ctx context.Context) ([]models.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreService) GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreService) GetTopCategories(ctx context.Context, slug string) ([]repositories.CategoryCount, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.CategoryCount), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) BrowseProducts(ctx context.Context, req services.BrowseRequest) (*services.BrowseResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BrowseResponse), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, req *services.QuoteRequest) (*services.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QuoteResponse), args.Error(1)
}
