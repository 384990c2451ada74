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

type SalesReturn struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SaleId      *int            `gorm:"index" json:"sale_id"`
	RefundTotal decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"refund_total"`
	Note        string          `gorm:"size:255" json:"note"`
	Items       []ReturnItem    `gorm:"foreignKey:ReturnId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (SalesReturn) TableName() string {
	return "returns"
}

type ReturnItem struct {
	ID           int             `gorm:"primary_key" json:"id"`
	ReturnId     int             `gorm:"index;not null" json:"return_id"`
	ProductId    *int            `gorm:"index" json:"product_id"`
	ProductName  string          `gorm:"size:150;not null" json:"product_name"`
	Qty          int             `gorm:"not null" json:"qty"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"refund_amount"`
}

type NewReturnItem struct {
	Id     utils.FlexInt   `json:"id"`
	Name   string          `json:"name"`
	Qty    utils.FlexInt   `json:"qty"`
	Refund decimal.Decimal `json:"refund"`
}

type NewReturn struct {
	SaleId *int
	Note   string
	Items  []NewReturnItem
}

func (input *NewReturn) validate(ctx context.Context) error {
	if len(input.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range input.Items {
		if item.Qty < 0 {
			return inputErrorf("item %d: quantity cannot be negative", i+1)
		}
		if item.Refund.IsNegative() {
			return inputErrorf("item %d: refund cannot be negative", i+1)
		}
	}
	input.Note = strings.TrimSpace(input.Note)
	if input.SaleId != nil {
		return utils.ValidateResourceId[Sale](ctx, config.GetDB(), *input.SaleId)
	}
	return nil
}

// CreateReturn stores refunded lines and puts the returned quantities back in stock.
func CreateReturn(ctx context.Context, input *NewReturn) (*SalesReturn, error) {
	ctx, span := tracer.Start(ctx, "CreateReturn")
	defer span.End()

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

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

	refundTotal := decimal.Zero
	items := make([]ReturnItem, 0, len(input.Items))
	for _, it := range input.Items {
		refundTotal = refundTotal.Add(it.Refund)

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
		items = append(items, ReturnItem{
			ProductId:    productId,
			ProductName:  name,
			Qty:          int(it.Qty),
			RefundAmount: it.Refund,
		})
	}

	salesReturn := SalesReturn{
		SaleId:      input.SaleId,
		RefundTotal: refundTotal,
		Note:        input.Note,
		Items:       items,
	}
	if err := tx.Create(&salesReturn).Error; err != nil {
		tx.Rollback()
		span.RecordError(err)
		return nil, err
	}

	note := fmt.Sprintf("return #%d", salesReturn.ID)
	for _, item := range salesReturn.Items {
		if item.ProductId == nil || item.Qty == 0 {
			continue
		}
		if err := incrementStock(tx, *item.ProductId, item.Qty, note); err != nil {
			tx.Rollback()
			span.RecordError(err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &salesReturn, nil
}

func ListReturns(ctx context.Context, limit int) ([]*SalesReturn, error) {
	return utils.FetchLatestModels[SalesReturn](ctx, "created_at", limit, "Items")
}
