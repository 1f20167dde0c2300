package repositories

import (
	"context"
	"errors"

	"lootmart-backend/internal/models"

	"gorm.io/gorm"
)

// Sort keys accepted by ProductRepository.List.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error
	return stores, err
}

func (r *storeRepository) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) TopCategories(ctx context.Context, storeID int64, limit int) ([]CategoryCount, error) {
	rows := []CategoryCount{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.name, COUNT(*) AS count
		FROM product_categories pc
		JOIN products p ON p.id = pc.product_id
		JOIN categories c ON c.id = pc.category_id
		WHERE p.store_id = ?
		GROUP BY c.id, c.name
		ORDER BY count DESC, c.id ASC
		LIMIT ?`, storeID, limit).Scan(&rows).Error
	return rows, err
}

// Product Repository
type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Categories.Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, params ListProductsParams) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("store_id = ?", params.StoreID)
	if params.Query != "" {
		query = query.Where("title ILIKE ?", "%"+params.Query+"%")
	}
	if params.InStock != nil {
		query = query.Where("in_stock = ?", *params.InStock)
	}

	if params.CursorID != nil {
		var cursorRow models.Product
		err := r.db.WithContext(ctx).
			Select("id", "price", "title").
			Where("id = ? AND store_id = ?", *params.CursorID, params.StoreID).
			First(&cursorRow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Cursor row deleted between pages; nothing after it.
				return []models.Product{}, nil
			}
			return nil, err
		}
		cond, args := cursorCondition(params.Sort, params.Query != "", &cursorRow)
		query = query.Where(cond, args...)
	}

	products := []models.Product{}
	err := query.
		Select("id", "store_id", "title", "price", "currency", "in_stock",
			"is_less_than_10", "review_count", "average_rating", "brand_id",
			"primary_image_path", "primary_image_url").
		Order(orderClause(params.Sort, params.Query != "")).
		Limit(params.Limit).
		Preload("Brand").
		Find(&products).Error
	return products, err
}

// orderClause maps a sort key to a strict total order. The id tie-break is
// load-bearing: cursor pagination over a non-strict order can skip or
// duplicate rows.
func orderClause(sort string, hasQuery bool) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC, id DESC"
	case SortPriceDesc:
		return "price DESC, id DESC"
	case SortNewest:
		return "id DESC"
	default:
		if hasQuery {
			return "title ASC, id DESC"
		}
		return "id DESC"
	}
}

// cursorCondition returns the keyset predicate selecting the cursor row and
// everything after it in the order produced by orderClause. The cursor is the
// first row of the page being requested (the probe row held back from the
// previous page), so the predicate is inclusive at the cursor.
func cursorCondition(sort string, hasQuery bool, cursor *models.Product) (string, []interface{}) {
	switch sort {
	case SortPriceAsc:
		return "(price > ?) OR (price = ? AND id <= ?)",
			[]interface{}{cursor.Price, cursor.Price, cursor.ID}
	case SortPriceDesc:
		return "(price < ?) OR (price = ? AND id <= ?)",
			[]interface{}{cursor.Price, cursor.Price, cursor.ID}
	case SortNewest:
		return "id <= ?", []interface{}{cursor.ID}
	default:
		if hasQuery {
			return "(title > ?) OR (title = ? AND id <= ?)",
				[]interface{}{cursor.Title, cursor.Title, cursor.ID}
		}
		return "id <= ?", []interface{}{cursor.ID}
	}
}

// ValidSort reports whether sort is one of the accepted sort keys.
func ValidSort(sort string) bool {
	switch sort {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	}
	return false
}
