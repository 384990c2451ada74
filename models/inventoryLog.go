package models

import (
	"context"
	"time"

	"github.com/verdipos/verdi_backend/config"
)

// InventoryLog records one signed stock movement.
type InventoryLog struct {
	ID        int       `gorm:"primary_key" json:"id"`
	ProductId int       `gorm:"index;not null" json:"product_id"`
	ChangeQty int       `gorm:"not null" json:"change_qty"`
	Note      string    `gorm:"size:255" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

type InventoryMovement struct {
	ID          int       `json:"id"`
	ProductId   int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	ChangeQty   int       `json:"change_qty"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListInventoryMovements returns the latest movements; deleted products show an empty name.
func ListInventoryMovements(ctx context.Context, limit int) ([]*InventoryMovement, error) {
	db := config.GetDB()
	var results []*InventoryMovement
	query := db.WithContext(ctx).Model(&InventoryLog{}).
		Select("inventory_logs.id, inventory_logs.product_id, COALESCE(products.name, '') AS product_name, " +
			"inventory_logs.change_qty, inventory_logs.note, inventory_logs.created_at").
		Joins("LEFT JOIN products ON products.id = inventory_logs.product_id").
		Order("inventory_logs.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&results).Error
	return results, err
}
