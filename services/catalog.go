package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/models"
	"github.com/Kariqs/farmers-market-api/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CatalogService struct {
	db      *gorm.DB
	objects storage.Uploader
	now     func() time.Time
}

func NewCatalogService(db *gorm.DB, objects storage.Uploader) *CatalogService {
	return &CatalogService{db: db, objects: objects, now: time.Now}
}

type ProductQuery struct {
	Search string
	Page   int
	Limit  int
}

type ProductPage struct {
	Products []models.StockItem `json:"products"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

func (q ProductQuery) normalize() ProductQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (ProductPage, error) {
	q = q.normalize()

	query := s.db.WithContext(ctx).Model(&models.StockItem{})
	if q.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ProductPage{}, apperr.Internal("unable to count products", err)
	}

	products := []models.StockItem{}
	err := query.Preload("Category").
		Order("id DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&products).Error
	if err != nil {
		return ProductPage{}, apperr.Internal("unable to fetch products", err)
	}

	return ProductPage{Products: products, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (models.StockItem, error) {
	var item models.StockItem
	if err := s.db.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		return models.StockItem{}, lookupError("product", err)
	}
	return item, nil
}

// ListSellerProducts returns the newest items first.
func (s *CatalogService) ListSellerProducts(ctx context.Context, sellerID uint) ([]models.StockItem, error) {
	db := s.db.WithContext(ctx)
	if err := ensureSeller(db, sellerID); err != nil {
		return nil, err
	}

	items := []models.StockItem{}
	err := db.Preload("Category").
		Where("seller_id = ?", sellerID).
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Internal("unable to fetch seller products", err)
	}
	return items, nil
}

func (s *CatalogService) GetSellerProduct(ctx context.Context, sellerID, productID uint) (models.StockItem, error) {
	var item models.StockItem
	err := s.db.WithContext(ctx).Preload("Category").
		Where("id = ? AND seller_id = ?", productID, sellerID).
		First(&item).Error
	if err != nil {
		return models.StockItem{}, lookupError("product", err)
	}
	return item, nil
}

func (s *CatalogService) AddProduct(ctx context.Context, sellerID uint, in models.NewStockItem) (models.StockItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return models.StockItem{}, apperr.New(apperr.ErrValidation, "stock item name is required")
	case in.Quantity < 0:
		return models.StockItem{}, apperr.New(apperr.ErrValidation, "quantity cannot be negative")
	case in.Price <= 0:
		return models.StockItem{}, apperr.New(apperr.ErrValidation, "price must be greater than zero")
	case strings.TrimSpace(in.CategoryName) == "":
		return models.StockItem{}, apperr.New(apperr.ErrValidation, "category name is required")
	}

	var item models.StockItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSeller(tx, sellerID); err != nil {
			return err
		}
		category, err := findOrCreateCategory(tx, in.CategoryName)
		if err != nil {
			return err
		}

		item = models.StockItem{
			SellerID:   sellerID,
			CategoryID: category.ID,
			Name:       in.Name,
			Quantity:   in.Quantity,
			Price:      in.Price,
			ImagePath:  in.ImagePath,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return apperr.Internal("failed to create product", err)
		}
		item.Category = category
		return nil
	})
	if err != nil {
		return models.StockItem{}, passThrough("failed to create product", err)
	}
	return item, nil
}

// UpdateProduct overwrites only the fields present in the update. An
// ownerID of zero skips the ownership check.
func (s *CatalogService) UpdateProduct(ctx context.Context, ownerID, productID uint, in models.StockItemUpdate) (models.StockItem, error) {
	var item models.StockItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if item, err = ownedProduct(tx, ownerID, productID); err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.New(apperr.ErrValidation, "stock item name cannot be empty")
			}
			item.Name = name
		}
		if in.Quantity != nil {
			if *in.Quantity < 0 {
				return apperr.New(apperr.ErrValidation, "quantity cannot be negative")
			}
			item.Quantity = *in.Quantity
		}
		if in.Price != nil {
			if *in.Price <= 0 {
				return apperr.New(apperr.ErrValidation, "price must be greater than zero")
			}
			item.Price = *in.Price
		}
		if in.ImagePath != nil {
			item.ImagePath = *in.ImagePath
		}
		if in.CategoryName != nil {
			category, err := findOrCreateCategory(tx, *in.CategoryName)
			if err != nil {
				return err
			}
			item.CategoryID = category.ID
			item.Category = category
		}

		if err := tx.Omit(clause.Associations).Save(&item).Error; err != nil {
			return apperr.Internal("failed to update product", err)
		}
		return nil
	})
	if err != nil {
		return models.StockItem{}, passThrough("failed to update product", err)
	}
	return item, nil
}

// DeleteProduct removes the row for good. Order lines keep their copies.
func (s *CatalogService) DeleteProduct(ctx context.Context, ownerID, productID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", productID)
		if ownerID != 0 {
			query = query.Where("seller_id = ?", ownerID)
		}
		result := query.Delete(&models.StockItem{})
		if result.Error != nil {
			return apperr.Internal("failed to delete product", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.New(apperr.ErrNotFound, "product not found")
		}
		return nil
	})
}

// SetProductImage uploads the image and points the product at its URL.
func (s *CatalogService) SetProductImage(ctx context.Context, ownerID, productID uint, filename, contentType string, body io.Reader) (models.StockItem, error) {
	db := s.db.WithContext(ctx)
	item, err := ownedProduct(db, ownerID, productID)
	if err != nil {
		return models.StockItem{}, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.StockItem{}, apperr.New(apperr.ErrValidation, "file must be an image")
	}

	key := fmt.Sprintf("products/%d/%s-%s", item.ID, s.now().Format("20060102150405"), path.Base(filename))
	location, err := s.objects.Upload(ctx, key, contentType, body)
	if err != nil {
		return models.StockItem{}, apperr.Internal("failed to upload product image", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.StockItem{}).Where("id = ?", item.ID).Update("image_path", location).Error
	})
	if err != nil {
		return models.StockItem{}, apperr.Internal("failed to save product image", err)
	}
	item.ImagePath = location
	return item, nil
}

func (s *CatalogService) FindOrCreateCategory(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = findOrCreateCategory(tx, name)
		return err
	})
	if err != nil {
		return models.Category{}, passThrough("failed to resolve category", err)
	}
	return category, nil
}

// CreateCategory fails with Conflict when the name is taken.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	category := models.Category{Name: strings.TrimSpace(name)}
	if category.Name == "" {
		return models.Category{}, apperr.New(apperr.ErrValidation, "category name is required")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&category).Error
	})
	if apperr.IsDuplicateKey(err) {
		return models.Category{}, apperr.New(apperr.ErrConflict, "category already exists")
	}
	if err != nil {
		return models.Category{}, apperr.Internal("failed to create category", err)
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperr.Internal("unable to fetch categories", err)
	}
	return categories, nil
}

func (s *CatalogService) ListSellers(ctx context.Context) ([]models.Seller, error) {
	sellers := []models.Seller{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&sellers).Error; err != nil {
		return nil, apperr.Internal("unable to fetch sellers", err)
	}
	return sellers, nil
}

func (s *CatalogService) GetSeller(ctx context.Context, id uint) (models.Seller, error) {
	var seller models.Seller
	if err := s.db.WithContext(ctx).First(&seller, id).Error; err != nil {
		return models.Seller{}, lookupError("seller", err)
	}
	return seller, nil
}

func (s *CatalogService) GetSellerByEmail(ctx context.Context, email string) (models.Seller, error) {
	var seller models.Seller
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&seller).Error; err != nil {
		return models.Seller{}, lookupError("seller", err)
	}
	return seller, nil
}

func (s *CatalogService) UpdateSellerProfile(ctx context.Context, id uint, in models.SellerProfileUpdate) (models.Seller, error) {
	var seller models.Seller
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&seller, id).Error; err != nil {
			return lookupError("seller", err)
		}

		if in.Firstname != nil {
			name := strings.TrimSpace(*in.Firstname)
			if name == "" {
				return apperr.New(apperr.ErrValidation, "first name cannot be empty")
			}
			seller.Firstname = name
		}
		if in.Lastname != nil {
			seller.Lastname = strings.TrimSpace(*in.Lastname)
		}
		if in.PhoneNo != nil {
			seller.PhoneNo = *in.PhoneNo
		}
		if in.Address != nil {
			seller.Address = *in.Address
		}
		if in.Email != nil {
			email := normalizeEmail(*in.Email)
			if email == "" || !strings.Contains(email, "@") {
				return apperr.New(apperr.ErrValidation, "a valid email is required")
			}
			var taken int64
			if err := tx.Model(&models.Seller{}).Where("email = ? AND id <> ?", email, id).Count(&taken).Error; err != nil {
				return apperr.Internal("failed to check seller email", err)
			}
			if taken > 0 {
				return apperr.New(apperr.ErrConflict, "a seller with this email already exists")
			}
			seller.Email = email
		}

		if err := tx.Omit(clause.Associations).Save(&seller).Error; err != nil {
			if apperr.IsDuplicateKey(err) {
				return apperr.New(apperr.ErrConflict, "a seller with this email already exists")
			}
			return apperr.Internal("failed to update seller", err)
		}
		return nil
	})
	if err != nil {
		return models.Seller{}, passThrough("failed to update seller", err)
	}
	return seller, nil
}

func (s *CatalogService) SellerStats(ctx context.Context, sellerID uint) (models.SellerStats, error) {
	db := s.db.WithContext(ctx)
	if err := ensureSeller(db, sellerID); err != nil {
		return models.SellerStats{}, err
	}

	var stats models.SellerStats
	if err := db.Model(&models.StockItem{}).Where("seller_id = ?", sellerID).Count(&stats.TotalProducts).Error; err != nil {
		return models.SellerStats{}, apperr.Internal("failed to count products", err)
	}

	var sums struct {
		TotalOrders       int64
		TotalQuantitySold int64
		TotalRevenue      float64
	}
	err := db.Model(&models.OrderLine{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(quantity), 0) AS total_quantity_sold, COALESCE(SUM(amount), 0) AS total_revenue").
		Where("seller_id = ?", sellerID).
		Scan(&sums).Error
	if err != nil {
		return models.SellerStats{}, apperr.Internal("failed to aggregate sales", err)
	}
	stats.TotalOrders = sums.TotalOrders
	stats.TotalQuantitySold = sums.TotalQuantitySold
	stats.TotalRevenue = models.RoundMoney(sums.TotalRevenue)

	err = db.Model(&models.OrderLine{}).
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.seller_id = ?", sellerID).
		Distinct("orders.account_id").
		Count(&stats.UniqueBuyers).Error
	if err != nil {
		return models.SellerStats{}, apperr.Internal("failed to count buyers", err)
	}
	return stats, nil
}

// SellerSales lists the seller's order lines, newest order first.
func (s *CatalogService) SellerSales(ctx context.Context, sellerID uint) ([]models.SaleLine, error) {
	db := s.db.WithContext(ctx)
	if err := ensureSeller(db, sellerID); err != nil {
		return nil, err
	}

	sales := []models.SaleLine{}
	err := db.Model(&models.OrderLine{}).
		Select("order_lines.id, order_lines.order_id, orders.reference AS order_reference, order_lines.product_id, " +
			"order_lines.item, order_lines.quantity, order_lines.amount, orders.account_id AS buyer_id, " +
			"orders.placed_at, orders.delivery_status").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("order_lines.seller_id = ?", sellerID).
		Order("orders.placed_at DESC, order_lines.id DESC").
		Scan(&sales).Error
	if err != nil {
		return nil, apperr.Internal("failed to fetch sales", err)
	}
	return sales, nil
}

func ensureSeller(db *gorm.DB, sellerID uint) error {
	var count int64
	if err := db.Model(&models.Seller{}).Where("id = ?", sellerID).Count(&count).Error; err != nil {
		return apperr.Internal("failed to load seller", err)
	}
	if count == 0 {
		return apperr.New(apperr.ErrNotFound, "seller not found")
	}
	return nil
}

func ownedProduct(db *gorm.DB, ownerID, productID uint) (models.StockItem, error) {
	query := db.Preload("Category").Where("id = ?", productID)
	if ownerID != 0 {
		query = query.Where("seller_id = ?", ownerID)
	}
	var item models.StockItem
	if err := query.First(&item).Error; err != nil {
		return models.StockItem{}, lookupError("product", err)
	}
	return item, nil
}

// findOrCreateCategory leans on the unique index on name. Losing a race to
// another writer shows up as a skipped insert or a duplicate key, and both
// end in reading the winner's row.
func findOrCreateCategory(tx *gorm.DB, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, apperr.New(apperr.ErrValidation, "category name is required")
	}

	candidate := models.Category{Name: name}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil && !apperr.IsDuplicateKey(err) {
		return models.Category{}, apperr.Internal("failed to create category", err)
	}

	var category models.Category
	if err := tx.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, apperr.Internal("category vanished after insert", err)
		}
		return models.Category{}, apperr.Internal("failed to load category", err)
	}
	return category, nil
}
