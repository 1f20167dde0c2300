package repositories

import (
	"context"
	"errors"

	"lootmart-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// CategoryCount is one row of the per-store category ranking.
type CategoryCount struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ListProductsParams describes one page of a store's catalog.
//
// CursorID is an opaque product id; results are strictly after that row in
// the requested sort order. Limit is the raw number of rows to fetch -
// callers pass limit+1 when they want to probe for a next page.
type ListProductsParams struct {
	StoreID  int64
	Query    string
	InStock  *bool
	Sort     string
	CursorID *int64
	Limit    int
}

// StoreRepository interface for PostgreSQL store operations
type StoreRepository interface {
	List(ctx context.Context) ([]models.Store, error)
	GetBySlug(ctx context.Context, slug string) (*models.Store, error)
	TopCategories(ctx context.Context, storeID int64, limit int) ([]CategoryCount, error)
}

// ProductRepository interface for PostgreSQL product operations
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, params ListProductsParams) ([]models.Product, error)
}
