package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
	"gorm.io/gorm"
)

// SupplierInvoice records received goods. Remaining = max(0, Total - Paid).
type SupplierInvoice struct {
	ID         int                   `gorm:"primary_key" json:"id"`
	SupplierId int                   `gorm:"index;not null" json:"supplier_id"`
	Supplier   *Supplier             `gorm:"foreignKey:SupplierId" json:"supplier,omitempty"`
	Total      decimal.Decimal       `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
	Paid       decimal.Decimal       `gorm:"type:decimal(20,4);not null;default:0" json:"paid"`
	Remaining  decimal.Decimal       `gorm:"type:decimal(20,4);not null;default:0" json:"remaining"`
	Items      []SupplierInvoiceItem `gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time             `gorm:"autoCreateTime;index" json:"created_at"`
}

type SupplierInvoiceItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	ProductId   *int            `gorm:"index" json:"product_id"`
	ProductName string          `gorm:"size:150;not null" json:"product_name"`
	Qty         int             `gorm:"not null" json:"qty"`
	Cost        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cost"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
}

type NewSupplierInvoiceItem struct {
	Id   utils.FlexInt   `json:"id"`
	Name string          `json:"name"`
	Qty  utils.FlexInt   `json:"qty"`
	Cost decimal.Decimal `json:"cost"`
}

type NewSupplierInvoice struct {
	SupplierId int
	Paid       decimal.Decimal
	Items      []NewSupplierInvoiceItem
}

func (input *NewSupplierInvoice) validate(ctx context.Context, tx *gorm.DB) error {
	if len(input.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range input.Items {
		if item.Qty < 0 {
			return inputErrorf("item %d: quantity cannot be negative", i+1)
		}
		if item.Cost.IsNegative() {
			return inputErrorf("item %d: cost cannot be negative", i+1)
		}
	}
	if input.Paid.IsNegative() {
		return inputErrorf("paid amount cannot be negative")
	}
	return utils.ValidateResourceId[Supplier](ctx, tx, input.SupplierId)
}

// CreateSupplierInvoice stores the invoice, restocks products and adds the unpaid
// remainder to the supplier balance, all in one transaction.
func CreateSupplierInvoice(ctx context.Context, input *NewSupplierInvoice) (*SupplierInvoice, error) {
	ctx, span := tracer.Start(ctx, "CreateSupplierInvoice")
	defer span.End()

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := input.validate(ctx, tx); err != nil {
		tx.Rollback()
		return nil, err
	}

	var productIds []int
	for _, it := range input.Items {
		if id := it.Id.Ptr(); id != nil {
			productIds = append(productIds, *id)
		}
	}
	names, err := productNames(tx, productIds)
	if err != nil {
		tx.Rollback()
		span.RecordError(err)
		return nil, err
	}

	total := decimal.Zero
	items := make([]SupplierInvoiceItem, 0, len(input.Items))
	for _, it := range input.Items {
		lineTotal := it.Cost.Mul(decimal.NewFromInt(int64(it.Qty)))
		total = total.Add(lineTotal)

		productId := it.Id.Ptr()
		name := strings.TrimSpace(it.Name)
		if productId != nil {
			if productName, ok := names[*productId]; ok {
				name = productName
			}
		}
		if name == "" {
			name = DefaultItemName
		}
		items = append(items, SupplierInvoiceItem{
			ProductId:   productId,
			ProductName: name,
			Qty:         int(it.Qty),
			Cost:        it.Cost,
			Total:       lineTotal,
		})
	}
	remaining := decimal.Max(decimal.Zero, total.Sub(input.Paid))

	invoice := SupplierInvoice{
		SupplierId: input.SupplierId,
		Total:      total,
		Paid:       input.Paid,
		Remaining:  remaining,
		Items:      items,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		span.RecordError(err)
		return nil, err
	}

	note := fmt.Sprintf("supplier invoice #%d", invoice.ID)
	for _, item := range invoice.Items {
		if item.ProductId == nil || item.Qty == 0 {
			continue
		}
		if err := incrementStock(tx, *item.ProductId, item.Qty, note); err != nil {
			tx.Rollback()
			span.RecordError(err)
			return nil, err
		}
	}

	if err := tx.Model(&Supplier{}).Where("id = ?", input.SupplierId).
		Update("balance", gorm.Expr("balance + ?", remaining)).Error; err != nil {
		tx.Rollback()
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &invoice, nil
}

func GetSupplierInvoice(ctx context.Context, id int) (*SupplierInvoice, error) {
	return utils.FetchModel[SupplierInvoice](ctx, id, "Items", "Supplier")
}

func ListSupplierInvoices(ctx context.Context, limit int) ([]*SupplierInvoice, error) {
	return utils.FetchLatestModels[SupplierInvoice](ctx, "created_at", limit, "Supplier")
}
