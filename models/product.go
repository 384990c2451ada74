package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
	"gorm.io/gorm"
)

const DefaultMinStockAlert = 5

type Product struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:150;not null;index" json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"price"`
	StockQty      int             `gorm:"not null;default:0" json:"stock_qty"`
	MinStockAlert int             `gorm:"not null;default:0" json:"min_stock_alert"`
	Barcode       string          `gorm:"size:64;not null;uniqueIndex" json:"barcode"`
	BarcodeUrl    string          `gorm:"size:255" json:"barcode_url"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsLowStock reports stock at or below the alert threshold.
func (p Product) IsLowStock() bool {
	return p.StockQty <= p.MinStockAlert
}

type NewProduct struct {
	Name          string          `json:"name" binding:"required"`
	Price         decimal.Decimal `json:"price"`
	StockQty      int             `json:"stock_qty"`
	MinStockAlert *int            `json:"min_stock_alert"`
}

func (input *NewProduct) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return inputErrorf("product name is required")
	}
	if input.Price.IsNegative() {
		return inputErrorf("price cannot be negative")
	}
	if input.StockQty < 0 {
		return inputErrorf("stock quantity cannot be negative")
	}
	if input.MinStockAlert != nil && *input.MinStockAlert < 0 {
		return inputErrorf("minimum stock alert cannot be negative")
	}
	return nil
}

// UpdateProduct holds a partial update; nil fields keep their stored values.
type UpdateProduct struct {
	Name          *string
	Price         *decimal.Decimal
	StockQty      *int
	MinStockAlert *int
}

func (input *UpdateProduct) validate() error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return inputErrorf("product name is required")
		}
		input.Name = &name
	}
	if input.Price != nil && input.Price.IsNegative() {
		return inputErrorf("price cannot be negative")
	}
	if input.StockQty != nil && *input.StockQty < 0 {
		return inputErrorf("stock quantity cannot be negative")
	}
	if input.MinStockAlert != nil && *input.MinStockAlert < 0 {
		return inputErrorf("minimum stock alert cannot be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()

	// serialize code generation with concurrent creates when redis is around
	release := obtainLock(ctx, "ProductBarcodeLock", 10*time.Second)
	defer release()

	var existing []string
	if err := db.WithContext(ctx).Model(&Product{}).Pluck("barcode", &existing).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, code := range existing {
		taken[code] = struct{}{}
	}
	code := utils.GenerateUniqueCode(taken)

	barcodeUrl, err := utils.SaveObject(ctx, utils.BarcodeObjectKey(code), utils.BarcodeSVGOrPlaceholder(code), "image/svg+xml")
	if err != nil {
		return nil, fmt.Errorf("save barcode image: %w", err)
	}

	product := Product{
		Name:          input.Name,
		Price:         input.Price,
		StockQty:      input.StockQty,
		MinStockAlert: utils.DereferencePtr(input.MinStockAlert, DefaultMinStockAlert),
		Barcode:       code,
		BarcodeUrl:    barcodeUrl,
	}

	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		removeBarcodeImage(ctx, code)
		return nil, err
	}
	if err := logStockChange(tx, product.ID, product.StockQty, "opening stock"); err != nil {
		tx.Rollback()
		removeBarcodeImage(ctx, code)
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		removeBarcodeImage(ctx, code)
		return nil, err
	}
	return &product, nil
}

// removeBarcodeImage drops the stored image of a product that was never committed.
func removeBarcodeImage(ctx context.Context, code string) {
	if err := utils.DeleteObject(ctx, utils.BarcodeObjectKey(code)); err != nil {
		config.LogError(config.GetLogger(), "models", "CreateProduct", "removing orphan barcode image", code, err)
	}
}

func UpdateProductById(ctx context.Context, id int, input *UpdateProduct) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()
	var product Product
	if err := tx.First(&product, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	oldStock := product.StockQty
	product.Name = utils.DereferencePtr(input.Name, product.Name)
	product.Price = utils.DereferencePtr(input.Price, product.Price)
	product.StockQty = utils.DereferencePtr(input.StockQty, product.StockQty)
	product.MinStockAlert = utils.DereferencePtr(input.MinStockAlert, product.MinStockAlert)

	// map so zero values are written too
	if err := tx.Model(&product).Updates(map[string]interface{}{
		"name":            product.Name,
		"price":           product.Price,
		"stock_qty":       product.StockQty,
		"min_stock_alert": product.MinStockAlert,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := logStockChange(tx, product.ID, product.StockQty-oldStock, "manual stock edit"); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the row; sale and invoice lines keep their own name and price.
func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()
	var product Product
	if err := tx.First(&product, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if err := tx.Delete(&product).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id)
}

// ListProducts returns all products newest first.
func ListProducts(ctx context.Context) ([]*Product, error) {
	return utils.FetchLatestModels[Product](ctx, "created_at", 0)
}

func ListProductsByName(ctx context.Context) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product
	err := db.WithContext(ctx).Order("name").Order("id").Find(&results).Error
	return results, err
}

// SearchProducts matches q case-insensitively against name or barcode, at most SearchLimit rows.
func SearchProducts(ctx context.Context, q string) ([]*Product, error) {
	db := config.GetDB()
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	var results []*Product
	err := db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(barcode) LIKE ?", pattern, pattern).
		Order("name").Order("id").
		Limit(config.SearchLimit).
		Find(&results).Error
	return results, err
}

// ListLowStockProducts returns products at or below their alert threshold, zero stock included.
func ListLowStockProducts(ctx context.Context) ([]*Product, error) {
	db := config.GetDB()
	var results []*Product
	err := db.WithContext(ctx).Where("stock_qty <= min_stock_alert").Order("stock_qty").Order("name").Find(&results).Error
	return results, err
}

type InventoryOverview struct {
	LowStock  []*Product
	ZeroStock []*Product
	Movements []*InventoryMovement
}

func GetInventoryOverview(ctx context.Context, movementLimit int) (*InventoryOverview, error) {
	db := config.GetDB()
	var overview InventoryOverview
	if err := db.WithContext(ctx).
		Where("stock_qty > 0 AND stock_qty <= min_stock_alert").
		Order("stock_qty").Order("name").
		Find(&overview.LowStock).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).
		Where("stock_qty <= 0").
		Order("name").
		Find(&overview.ZeroStock).Error; err != nil {
		return nil, err
	}
	movements, err := ListInventoryMovements(ctx, movementLimit)
	if err != nil {
		return nil, err
	}
	overview.Movements = movements
	return &overview, nil
}
