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

// Shift is a cashier's drawer session. DiffCash is the over (+) or short (-) amount.
type Shift struct {
	ID          int             `gorm:"primary_key" json:"id"`
	CashierName string          `gorm:"size:100;not null" json:"cashier_name"`
	OpeningCash decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"opening_cash"`
	ClosingCash decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"closing_cash"`
	SalesTotal  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"sales_total"`
	NetCash     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"net_cash"`
	DiffCash    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"diff_cash"`
	StartTime   time.Time       `gorm:"not null;index" json:"start_time"`
	EndTime     *time.Time      `json:"end_time"`
}

func (s Shift) IsOpen() bool {
	return s.EndTime == nil
}

func OpenShift(ctx context.Context, openingCash decimal.Decimal) (*Shift, error) {
	if openingCash.IsNegative() {
		return nil, inputErrorf("opening cash cannot be negative")
	}
	cashier, _ := utils.GetUsernameFromContext(ctx)
	if strings.TrimSpace(cashier) == "" {
		return nil, inputErrorf("cashier is required")
	}

	db := config.GetDB()
	shift := Shift{
		CashierName: cashier,
		OpeningCash: openingCash,
		StartTime:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&shift).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// CloseShift stamps the end time, then reconciles against the declared figures:
// diff = closing - opening - salesTotal. A shift closes once.
func CloseShift(ctx context.Context, id int, closingCash decimal.Decimal, salesTotal decimal.Decimal) (*Shift, error) {
	if closingCash.IsNegative() || salesTotal.IsNegative() {
		return nil, inputErrorf("amounts cannot be negative")
	}
	db := config.GetDB()

	tx := db.WithContext(ctx).Begin()
	var shift Shift
	if err := tx.First(&shift, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if !shift.IsOpen() {
		tx.Rollback()
		return nil, ErrShiftClosed
	}

	now := time.Now().UTC()
	shift.EndTime = &now
	shift.ClosingCash = closingCash
	shift.SalesTotal = salesTotal
	shift.NetCash = salesTotal
	shift.DiffCash = closingCash.Sub(shift.OpeningCash).Sub(salesTotal)

	// end_time IS NULL keeps two concurrent closes from both winning
	result := tx.Model(&Shift{}).Where("id = ? AND end_time IS NULL", id).Updates(map[string]interface{}{
		"end_time":     now,
		"closing_cash": shift.ClosingCash,
		"sales_total":  shift.SalesTotal,
		"net_cash":     shift.NetCash,
		"diff_cash":    shift.DiffCash,
	})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrShiftClosed
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// ListShifts returns shifts newest first; limit <= 0 means all.
func ListShifts(ctx context.Context, limit int) ([]*Shift, error) {
	return utils.FetchLatestModels[Shift](ctx, "start_time", limit)
}
