package services

import (
	"context"
	"errors"
	"fmt"

	"lootmart-backend/internal/repositories"
	"lootmart-backend/pkg/checkout"
)

// ErrProductNotInStore is returned when a quoted product belongs to a
// different store than the cart claims.
var ErrProductNotInStore = errors.New("product does not belong to store")

type QuoteItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Qty       int   `json:"qty" binding:"required,gt=0"`
}

type QuoteRequest struct {
	StoreSlug string             `json:"storeSlug" binding:"required"`
	Items     []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

type QuoteLine struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"lineTotal"`
}

type QuoteResponse struct {
	Store           StoreSummary `json:"store"`
	Items           []QuoteLine  `json:"items"`
	Subtotal        int64        `json:"subtotal"`
	DeliveryApplied int64        `json:"deliveryApplied"`
	Total           int64        `json:"total"`
}

type CheckoutService struct {
	storeRepo   repositories.StoreRepository
	productRepo repositories.ProductRepository
}

func NewCheckoutService(storeRepo repositories.StoreRepository, productRepo repositories.ProductRepository) *CheckoutService {
	return &CheckoutService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
	}
}

// Quote reprices a cart against the catalog and applies the store's
// delivery rule. Client-supplied prices are never trusted; each line is
// repriced from current catalog data.
func (s *CheckoutService) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	store, err := s.storeRepo.GetBySlug(ctx, req.StoreSlug)
	if err != nil {
		return nil, err
	}

	lines := make([]QuoteLine, 0, len(req.Items))
	var subtotal int64
	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("product %d: %w", item.ProductID, repositories.ErrNotFound)
			}
			return nil, err
		}
		if product.StoreID != store.ID {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, ErrProductNotInStore)
		}

		lineTotal := product.Price * int64(item.Qty)
		lines = append(lines, QuoteLine{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Qty:       item.Qty,
			LineTotal: lineTotal,
		})
		subtotal += lineTotal
	}

	summary := checkout.ComputeTotal(subtotal, store.DeliveryCharges, store.FreeDeliveryThreshold)

	return &QuoteResponse{
		Store:           StoreSummary{ID: store.ID, Slug: store.Slug, Name: store.Name},
		Items:           lines,
		Subtotal:        subtotal,
		DeliveryApplied: summary.DeliveryApplied,
		Total:           summary.Total,
	}, nil
}
