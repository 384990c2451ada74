package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
)

// Sale is immutable once written. NetTotal = Total - Discount + Tax.
type Sale struct {
	ID         int             `gorm:"primary_key" json:"id"`
	CustomerId *int            `gorm:"index" json:"customer_id"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
	Discount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"discount"`
	Tax        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"tax"`
	NetTotal   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"net_total"`
	Cashier    string          `gorm:"size:100" json:"cashier"`
	Items      []SaleItem      `gorm:"foreignKey:SaleId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// AmountDue is the charged amount, falling back to the subtotal for rows without a net total.
func (s Sale) AmountDue() decimal.Decimal {
	if s.NetTotal.IsZero() {
		return s.Total
	}
	return s.NetTotal
}

// SaleItem is a snapshot of the product line at sale time.
type SaleItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SaleId      int             `gorm:"index;not null" json:"sale_id"`
	ProductId   *int            `gorm:"index" json:"product_id"`
	ProductName string          `gorm:"size:150;not null" json:"product_name"`
	Qty         int             `gorm:"not null" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"price"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
}

type NewSaleItem struct {
	Id    utils.FlexInt   `json:"id"`
	Name  string          `json:"name"`
	Qty   utils.FlexInt   `json:"qty" binding:"gte=0"`
	Price decimal.Decimal `json:"price"`
}

type NewSale struct {
	Items         []NewSaleItem   `json:"items" binding:"dive"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
}

func (input *NewSale) validate() error {
	for i, item := range input.Items {
		if item.Qty < 0 {
			return inputErrorf("item %d: quantity cannot be negative", i+1)
		}
		if item.Price.IsNegative() {
			return inputErrorf("item %d: price cannot be negative", i+1)
		}
	}
	if input.Discount.IsNegative() {
		return inputErrorf("discount cannot be negative")
	}
	if input.Tax.IsNegative() {
		return inputErrorf("tax cannot be negative")
	}
	return nil
}

// CreateSale records a checkout in one transaction: customer total, sale header,
// item snapshots and stock decrements (floored at zero, overselling is not rejected).
func CreateSale(ctx context.Context, input *NewSale) (*Sale, error) {
	ctx, span := tracer.Start(ctx, "CreateSale")
	defer span.End()

	if err := input.validate(); err != nil {
		return nil, err
	}
	cashier, _ := utils.GetUsernameFromContext(ctx)

	subtotal := decimal.Zero
	items := make([]SaleItem, 0, len(input.Items))
	var unnamed []int
	for _, it := range input.Items {
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
		subtotal = subtotal.Add(lineTotal)
		item := SaleItem{
			ProductId:   it.Id.Ptr(),
			ProductName: strings.TrimSpace(it.Name),
			Qty:         int(it.Qty),
			Price:       it.Price,
			Total:       lineTotal,
		}
		if item.ProductName == "" && item.ProductId != nil {
			unnamed = append(unnamed, *item.ProductId)
		}
		items = append(items, item)
	}
	netTotal := subtotal.Sub(input.Discount).Add(input.Tax)

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	if len(unnamed) > 0 {
		names, err := productNames(tx, unnamed)
		if err != nil {
			tx.Rollback()
			span.RecordError(err)
			return nil, err
		}
		for i := range items {
			if items[i].ProductName == "" && items[i].ProductId != nil {
				items[i].ProductName = names[*items[i].ProductId]
			}
		}
	}
	for i := range items {
		if items[i].ProductName == "" {
			items[i].ProductName = DefaultItemName
		}
	}

	customerId, err := resolveSaleCustomer(tx, input.CustomerName, input.CustomerPhone, netTotal)
	if err != nil {
		tx.Rollback()
		span.RecordError(err)
		return nil, err
	}

	sale := Sale{
		CustomerId: customerId,
		Total:      subtotal,
		Discount:   input.Discount,
		Tax:        input.Tax,
		NetTotal:   netTotal,
		Cashier:    cashier,
		Items:      items,
	}
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		span.RecordError(err)
		return nil, err
	}

	note := fmt.Sprintf("sale #%d", sale.ID)
	for _, item := range sale.Items {
		if item.ProductId == nil || item.Qty == 0 {
			continue
		}
		if err := decrementStock(tx, *item.ProductId, item.Qty, note); err != nil {
			tx.Rollback()
			span.RecordError(err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &sale, nil
}

func GetSale(ctx context.Context, id int) (*Sale, error) {
	return utils.FetchModel[Sale](ctx, id, "Items")
}

// ListSales returns the latest sales, newest first.
func ListSales(ctx context.Context, limit int) ([]*Sale, error) {
	return utils.FetchLatestModels[Sale](ctx, "created_at", limit)
}
