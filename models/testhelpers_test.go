package models

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) context.Context {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_PROVIDER", "local")
	t.Setenv("STATIC_DIR", filepath.Join(dir, "static"))

	if err := config.ConnectDatabase("sqlite:///" + filepath.Join(dir, "test.db")); err != nil {
		t.Fatalf("connect: %v", err)
	}
	MigrateTable()
	t.Cleanup(func() {
		if sqlDB, err := config.GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return utils.SetUsernameInContext(context.Background(), "cashier1")
}

func mustCreateProduct(t *testing.T, ctx context.Context, name string, price int64, stock int) *Product {
	t.Helper()
	product, err := CreateProduct(ctx, &NewProduct{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		StockQty: stock,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return product
}

func reloadProduct(t *testing.T, ctx context.Context, id int) *Product {
	t.Helper()
	product, err := GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("reload product %d: %v", id, err)
	}
	return product
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// failInventoryLogWrites makes every later insert into inventory_logs fail, so a
// transaction breaks after its earlier writes went through.
func failInventoryLogWrites(t *testing.T) {
	t.Helper()
	err := config.GetDB().Callback().Create().Before("gorm:create").
		Register("test:fail_inventory_logs", func(tx *gorm.DB) {
			if tx.Statement.Table == "inventory_logs" {
				_ = tx.AddError(errors.New("inventory log unavailable"))
			}
		})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func sumStockLog(t *testing.T, productId int) int {
	t.Helper()
	var total int
	err := config.GetDB().Model(&InventoryLog{}).
		Where("product_id = ?", productId).
		Select("COALESCE(SUM(change_qty), 0)").
		Scan(&total).Error
	if err != nil {
		t.Fatalf("sum inventory log: %v", err)
	}
	return total
}
