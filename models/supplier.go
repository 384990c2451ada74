package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
	"gorm.io/gorm"
)

// Supplier.Balance is what the shop still owes the supplier.
type Supplier struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:150;not null" json:"name"`
	Phone     string          `gorm:"size:50" json:"phone"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewSupplier struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (input *NewSupplier) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return inputErrorf("supplier name is required")
	}
	input.Phone = utils.NormalizePhone(input.Phone)
	return nil
}

type UpdateSupplier struct {
	Name  *string
	Phone *string
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()
	supplier := Supplier{Name: input.Name, Phone: input.Phone}
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplierById(ctx context.Context, id int, input *UpdateSupplier) (*Supplier, error) {
	db := config.GetDB()

	var supplier Supplier
	if err := db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, inputErrorf("supplier name is required")
		}
		supplier.Name = name
	}
	if input.Phone != nil {
		supplier.Phone = utils.NormalizePhone(*input.Phone)
	}
	if err := db.WithContext(ctx).Model(&supplier).Updates(map[string]interface{}{
		"name":  supplier.Name,
		"phone": supplier.Phone,
	}).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// DeleteSupplier refuses while invoices still reference the supplier.
func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()
	var supplier Supplier
	if err := tx.First(&supplier, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	count, err := utils.ResourceCountWhere[SupplierInvoice](ctx, tx, "supplier_id = ?", id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if count > 0 {
		tx.Rollback()
		return nil, ErrSupplierHasInvoices
	}
	if err := tx.Delete(&supplier).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	db := config.GetDB()
	var results []*Supplier
	err := db.WithContext(ctx).Order("name").Order("id").Find(&results).Error
	return results, err
}
