// Command seed wipes and reloads the catalog from the JSON export files in
// seed/input/.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lootmart-backend/configs"
	"lootmart-backend/internal/models"
	"lootmart-backend/pkg/database"
)

type storeIn struct {
	ID                    int64  `json:"id"`
	Slug                  string `json:"slug"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	StoreType             string `json:"store_type"`
	SameDayDelivery       bool   `json:"same_day_delivery"`
	DeliveryCharges       *int64 `json:"delivery_charges"`
	MinOrderValue         *int64 `json:"min_order_value"`
	FreeDeliveryThreshold *int64 `json:"free_delivery_threshold"`
}

type brandIn struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

type categoryIn struct {
	ID       *int64  `json:"id"`
	Name     *string `json:"name"`
	ParentID *int64  `json:"parent_id"`
}

type imageIn struct {
	Src       *string `json:"src"`
	Alt       *string `json:"alt"`
	Width     *int    `json:"width"`
	Height    *int    `json:"height"`
	SortOrder *int    `json:"sort_order"`
}

type productIn struct {
	ID                    int64        `json:"id"`
	StoreID               int64        `json:"store_id"`
	StoreSlug             string       `json:"store_slug"`
	Title                 string       `json:"title"`
	Description           *string      `json:"description"`
	Price                 int64        `json:"price"`
	Currency              string       `json:"currency"`
	InStock               *bool        `json:"in_stock"`
	EffectiveStock        *int64       `json:"effective_stock"`
	IsLessThan10          bool         `json:"is_less_than_10"`
	ReviewCount           int          `json:"review_count"`
	AverageRating         float64      `json:"average_rating"`
	Brand                 *brandIn     `json:"brand"`
	CategoryChain         []categoryIn `json:"category_chain"`
	Images                []imageIn    `json:"images"`
	PrimaryImageURL       *string      `json:"primary_image_url"`
	PrimaryImageLocalPath *string      `json:"primary_image_local_path"`
}

func main() {
	inputDir := flag.String("input", "seed/input", "directory containing stores.json and products.json")
	flag.Parse()

	config := configs.LoadConfig()

	db, err := database.NewDatabase(config.Database.PostgresURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Postgres.AutoMigrate(
		&models.Store{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductCategory{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	var stores []storeIn
	if err := readJSON(filepath.Join(*inputDir, "stores.json"), &stores); err != nil {
		log.Fatal(err)
	}
	var products []productIn
	if err := readJSON(filepath.Join(*inputDir, "products.json"), &products); err != nil {
		log.Fatal(err)
	}

	if err := seed(db, stores, products); err != nil {
		log.Fatal(err)
	}

	log.Printf("Seed complete: %d stores, %d products", len(stores), len(products))
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("missing seed input: %v", err)
	}
	return json.Unmarshal(data, dest)
}

func seed(db *database.Database, stores []storeIn, products []productIn) error {
	gdb := db.Postgres

	// Reset (dev-safe); children first
	for _, table := range []interface{}{
		&models.ProductCategory{}, &models.ProductImage{}, &models.Product{},
		&models.Brand{}, &models.Category{}, &models.Store{},
	} {
		if err := gdb.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}

	// Stores
	storeRows := make([]models.Store, 0, len(stores))
	for _, s := range stores {
		storeRows = append(storeRows, models.Store{
			ID:                    s.ID,
			Slug:                  s.Slug,
			Name:                  s.Name,
			Description:           s.Description,
			StoreType:             s.StoreType,
			SameDayDelivery:       s.SameDayDelivery,
			DeliveryCharges:       s.DeliveryCharges,
			MinOrderValue:         s.MinOrderValue,
			FreeDeliveryThreshold: s.FreeDeliveryThreshold,
		})
	}
	if len(storeRows) > 0 {
		if err := gdb.CreateInBatches(storeRows, 100).Error; err != nil {
			return err
		}
	}

	// Brands (dedupe by name)
	brandIDByName := map[string]int64{}
	for _, p := range products {
		name := brandName(p.Brand)
		if name == "" {
			continue
		}
		if _, ok := brandIDByName[name]; ok {
			continue
		}
		brand := models.Brand{Name: name}
		if err := gdb.Create(&brand).Error; err != nil {
			return err
		}
		brandIDByName[name] = brand.ID
	}

	// Categories (dedupe by externalId+name+parentExt)
	catIDByKey := map[string]int64{}
	for _, p := range products {
		for _, c := range p.CategoryChain {
			if c.Name == nil || *c.Name == "" {
				continue
			}
			key := categoryKey(c.ID, *c.Name, c.ParentID)
			if _, ok := catIDByKey[key]; ok {
				continue
			}
			category := models.Category{Name: *c.Name, ExternalID: c.ID, ParentExt: c.ParentID}
			if err := gdb.Create(&category).Error; err != nil {
				return err
			}
			catIDByKey[key] = category.ID
		}
	}

	// Products + images + category links
	for _, p := range products {
		var brandID *int64
		if name := brandName(p.Brand); name != "" {
			if id, ok := brandIDByName[name]; ok {
				brandID = &id
			}
		}

		currency := p.Currency
		if currency == "" {
			currency = "PKR"
		}
		inStock := true
		if p.InStock != nil {
			inStock = *p.InStock
		}

		product := models.Product{
			ID:               p.ID,
			StoreID:          p.StoreID,
			Title:            p.Title,
			Description:      p.Description,
			Price:            p.Price,
			Currency:         currency,
			InStock:          inStock,
			EffectiveStock:   p.EffectiveStock,
			IsLessThan10:     p.IsLessThan10,
			ReviewCount:      p.ReviewCount,
			AverageRating:    p.AverageRating,
			BrandID:          brandID,
			PrimaryImageURL:  cleanURL(p.PrimaryImageURL),
			PrimaryImagePath: p.PrimaryImageLocalPath,
		}
		if err := gdb.Create(&product).Error; err != nil {
			return err
		}

		seenSrc := map[string]bool{}
		for _, im := range p.Images {
			src := cleanURL(im.Src)
			if src == nil || seenSrc[*src] {
				continue
			}
			seenSrc[*src] = true
			sortOrder := 0
			if im.SortOrder != nil {
				sortOrder = *im.SortOrder
			}
			image := models.ProductImage{
				ProductID: p.ID,
				Src:       *src,
				Alt:       im.Alt,
				Width:     im.Width,
				Height:    im.Height,
				SortOrder: sortOrder,
			}
			if err := gdb.Create(&image).Error; err != nil {
				return err
			}
		}

		for _, c := range p.CategoryChain {
			if c.Name == nil || *c.Name == "" {
				continue
			}
			categoryID, ok := catIDByKey[categoryKey(c.ID, *c.Name, c.ParentID)]
			if !ok {
				continue
			}
			link := models.ProductCategory{ProductID: p.ID, CategoryID: categoryID}
			if err := gdb.Create(&link).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func brandName(b *brandIn) string {
	if b == nil || b.Name == nil {
		return ""
	}
	return strings.TrimSpace(*b.Name)
}

func categoryKey(extID *int64, name string, parentExt *int64) string {
	ext := "null"
	if extID != nil {
		ext = fmt.Sprintf("%d", *extID)
	}
	parent := "null"
	if parentExt != nil {
		parent = fmt.Sprintf("%d", *parentExt)
	}
	return ext + "::" + name + "::" + parent
}

func cleanURL(u *string) *string {
	if u == nil {
		return nil
	}
	s := strings.TrimSpace(*u)
	s = strings.TrimSuffix(s, "?")
	if s == "" {
		return nil
	}
	return &s
}
