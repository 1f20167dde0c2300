package models

// Store model - PostgreSQL
// Delivery fields drive the checkout summary: delivery is waived when
// FreeDeliveryThreshold is set and the cart subtotal reaches it.
type Store struct {
	ID                    int64  `gorm:"primaryKey" json:"id"`
	Slug                  string `gorm:"uniqueIndex;not null" json:"slug"`
	Name                  string `gorm:"not null" json:"name"`
	Description           string `json:"description"`
	StoreType             string `json:"storeType"`
	SameDayDelivery       bool   `gorm:"default:false" json:"sameDayDelivery"`
	DeliveryCharges       *int64 `json:"deliveryCharges"`
	MinOrderValue         *int64 `json:"minOrderValue"`
	FreeDeliveryThreshold *int64 `json:"freeDeliveryThreshold"`
}

// Brand model - PostgreSQL
type Brand struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// Category model - PostgreSQL
// ExternalID/ParentExt carry the upstream category chain from the import feed.
type Category struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	ExternalID *int64 `gorm:"uniqueIndex" json:"externalId"`
	ParentExt  *int64 `json:"parentExt"`
}

// Product model - PostgreSQL
// Prices are integral currency units (rupees), no fractional paise in the feed.
type Product struct {
	ID               int64            `gorm:"primaryKey" json:"id"`
	StoreID          int64            `gorm:"index;not null" json:"-"`
	Store            *Store           `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Title            string           `gorm:"not null;index" json:"title"`
	Description      *string          `json:"description,omitempty"`
	Price            int64            `gorm:"not null;index" json:"price"`
	Currency         string           `gorm:"default:PKR" json:"currency"`
	InStock          bool             `gorm:"default:true;index" json:"inStock"`
	EffectiveStock   *int64           `json:"-"`
	IsLessThan10     bool             `gorm:"column:is_less_than_10;default:false" json:"isLessThan10"`
	ReviewCount      int              `gorm:"default:0" json:"reviewCount"`
	AverageRating    float64          `gorm:"default:0" json:"averageRating"`
	BrandID          *int64           `gorm:"index" json:"-"`
	Brand            *Brand           `gorm:"foreignKey:BrandID" json:"brand"`
	PrimaryImagePath *string          `json:"primaryImagePath"`
	PrimaryImageURL  *string          `json:"primaryImageUrl"`
	Images           []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Categories       []ProductCategory `gorm:"foreignKey:ProductID" json:"categories,omitempty"`
}

// ProductImage model - PostgreSQL
type ProductImage struct {
	ID        int64   `gorm:"primaryKey" json:"id"`
	ProductID int64   `gorm:"index;not null" json:"-"`
	Src       string  `gorm:"not null" json:"src"`
	Alt       *string `json:"alt"`
	Width     *int    `json:"width"`
	Height    *int    `json:"height"`
	SortOrder int     `gorm:"default:0" json:"sortOrder"`
}

// ProductCategory is the product/category join row.
type ProductCategory struct {
	ProductID  int64     `gorm:"primaryKey" json:"-"`
	CategoryID int64     `gorm:"primaryKey" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}
