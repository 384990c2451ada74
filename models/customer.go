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

type Customer struct {
	ID             int             `gorm:"primary_key" json:"id"`
	Name           string          `gorm:"size:150;not null;index" json:"name"`
	Phone          string          `gorm:"size:50" json:"phone"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_purchases"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewCustomer struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (input *NewCustomer) validate() error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return inputErrorf("customer name is required")
	}
	input.Phone = utils.NormalizePhone(input.Phone)
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()
	customer := Customer{
		Name:  input.Name,
		Phone: input.Phone,
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers orders by lifetime purchases, biggest first.
func ListCustomers(ctx context.Context) ([]*Customer, error) {
	db := config.GetDB()
	var results []*Customer
	err := db.WithContext(ctx).Order("total_purchases DESC").Order("name").Find(&results).Error
	return results, err
}

func ListCustomersByName(ctx context.Context) ([]*Customer, error) {
	db := config.GetDB()
	var results []*Customer
	err := db.WithContext(ctx).Order("name").Order("id").Find(&results).Error
	return results, err
}

func GetCustomersByIds(ctx context.Context, ids []int) ([]*Customer, error) {
	db := config.GetDB()
	var results []*Customer
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	return results, err
}

// resolveSaleCustomer finds the customer by exact name or creates one, and adds amount
// to the running total. A blank name means a walk-in sale.
func resolveSaleCustomer(tx *gorm.DB, name string, phone string, amount decimal.Decimal) (*int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var customer Customer
	err := tx.Where("name = ?", name).Order("id").Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = Customer{
			Name:           name,
			Phone:          utils.NormalizePhone(phone),
			TotalPurchases: amount,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer.ID, nil
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Model(&Customer{}).Where("id = ?", customer.ID).
		Update("total_purchases", gorm.Expr("total_purchases + ?", amount)).Error; err != nil {
		return nil, err
	}
	return &customer.ID, nil
}

// RebuildCustomerTotals recomputes every total_purchases from the sales table.
func RebuildCustomerTotals(ctx context.Context) (int64, error) {
	db := config.GetDB()
	result := db.WithContext(ctx).Exec(
		"UPDATE customers SET total_purchases = COALESCE((SELECT SUM(sales.net_total) FROM sales WHERE sales.customer_id = customers.id), 0)",
	)
	return result.RowsAffected, result.Error
}
