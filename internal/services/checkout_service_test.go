package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lootmart-backend/internal/models"
	"lootmart-backend/internal/repositories"
)

func TestQuote_RepricesFromCatalog(t *testing.T) {
	storeRepo := new(MockStoreRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(storeRepo, productRepo)

	charge := int64(100)
	threshold := int64(1000)
	store := &models.Store{ID: 1, Slug: "hash-mart", Name: "Hash Mart", DeliveryCharges: &charge, FreeDeliveryThreshold: &threshold}
	storeRepo.On("GetBySlug", mock.Anything, "hash-mart").Return(store, nil)
	productRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Product{ID: 10, StoreID: 1, Title: "Milk 1L", Price: 250}, nil)
	productRepo.On("GetByID", mock.Anything, int64(11)).Return(&models.Product{ID: 11, StoreID: 1, Title: "Bread", Price: 120}, nil)

	resp, err := service.Quote(context.Background(), &QuoteRequest{
		StoreSlug: "hash-mart",
		Items: []QuoteItemRequest{
			{ProductID: 10, Qty: 2},
			{ProductID: 11, Qty: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(620), resp.Subtotal)
	assert.Equal(t, int64(100), resp.DeliveryApplied, "below threshold, full charge applies")
	assert.Equal(t, int64(720), resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, QuoteLine{ProductID: 10, Title: "Milk 1L", UnitPrice: 250, Qty: 2, LineTotal: 500}, resp.Items[0])
}

func TestQuote_FreeDeliveryAtThreshold(t *testing.T) {
	storeRepo := new(MockStoreRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(storeRepo, productRepo)

	charge := int64(150)
	threshold := int64(1000)
	store := &models.Store{ID: 1, Slug: "hash-mart", Name: "Hash Mart", DeliveryCharges: &charge, FreeDeliveryThreshold: &threshold}
	storeRepo.On("GetBySlug", mock.Anything, "hash-mart").Return(store, nil)
	productRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Product{ID: 10, StoreID: 1, Title: "Rice 5kg", Price: 500}, nil)

	resp, err := service.Quote(context.Background(), &QuoteRequest{
		StoreSlug: "hash-mart",
		Items:     []QuoteItemRequest{{ProductID: 10, Qty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.Subtotal)
	assert.Zero(t, resp.DeliveryApplied, "subtotal meeting the threshold waives delivery")
	assert.Equal(t, int64(1000), resp.Total)
}

func TestQuote_UnknownStore(t *testing.T) {
	storeRepo := new(MockStoreRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(storeRepo, productRepo)

	storeRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, repositories.ErrNotFound)

	resp, err := service.Quote(context.Background(), &QuoteRequest{
		StoreSlug: "nope",
		Items:     []QuoteItemRequest{{ProductID: 10, Qty: 1}},
	})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	productRepo.AssertNotCalled(t, "GetByID")
}

func TestQuote_UnknownProduct(t *testing.T) {
	storeRepo := new(MockStoreRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(storeRepo, productRepo)

	store := &models.Store{ID: 1, Slug: "hash-mart", Name: "Hash Mart"}
	storeRepo.On("GetBySlug", mock.Anything, "hash-mart").Return(store, nil)
	productRepo.On("GetByID", mock.Anything, int64(999)).Return(nil, repositories.ErrNotFound)

	resp, err := service.Quote(context.Background(), &QuoteRequest{
		StoreSlug: "hash-mart",
		Items:     []QuoteItemRequest{{ProductID: 999, Qty: 1}},
	})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Contains(t, err.Error(), "999")
}

func TestQuote_ProductFromAnotherStore(t *testing.T) {
	storeRepo := new(MockStoreRepository)
	productRepo := new(MockProductRepository)
	service := NewCheckoutService(storeRepo, productRepo)

	store := &models.Store{ID: 1, Slug: "hash-mart", Name: "Hash Mart"}
	storeRepo.On("GetBySlug", mock.Anything, "hash-mart").Return(store, nil)
	productRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Product{ID: 10, StoreID: 2, Title: "Milk 1L", Price: 250}, nil)

	resp, err := service.Quote(context.Background(), &QuoteRequest{
		StoreSlug: "hash-mart",
		Items:     []QuoteItemRequest{{ProductID: 10, Qty: 1}},
	})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrProductNotInStore)
}
