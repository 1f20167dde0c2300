package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
)

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) List(ctx context.Context) ([]models.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Store), args.Error(1)
}

func (m *MockStoreRepository) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) TopCategories(ctx context.Context, storeID int64, limit int) ([]repositories.CategoryCount, error) {
	args := m.Called(ctx, storeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.CategoryCount), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, params repositories.ListProductsParams) ([]models.Product, error) {
	args := m.Called(ctx, params)
	if fn, ok := args.Get(0).(func(context.Context, repositories.ListProductsParams) []models.Product); ok {
		return fn(ctx, params), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
