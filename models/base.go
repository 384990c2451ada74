package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer = otel.Tracer("verdi-pos")

var (
	ErrEmptyItems          = errors.New("no items were submitted")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrSupplierHasInvoices = errors.New("supplier has invoices and cannot be deleted")
	ErrShiftClosed         = errors.New("shift is already closed")
)

// InputError is a value the client got wrong, as opposed to a storage failure.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func inputErrorf(format string, args ...interface{}) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err should be shown back to the user rather than logged.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr) ||
		errors.Is(err, ErrEmptyItems) ||
		errors.Is(err, ErrShiftClosed) ||
		errors.Is(err, ErrSupplierHasInvoices)
}

// DefaultItemName is used when a line item names neither a known product nor itself.
const DefaultItemName = "Product"

func init() {
	// money renders as JSON numbers, the POS page does arithmetic on them
	decimal.MarshalJSONWithoutQuotes = true
}

// obtainLock takes a best-effort redis lock. Without redis, or when the lock cannot
// be obtained, the returned release is a no-op and the caller proceeds unlocked.
func obtainLock(ctx context.Context, key string, ttl time.Duration) func() {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}
	}
	logger := config.GetLogger()
	lock, err := locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "obtainLock",
			"key":   key,
		}).Warn("could not obtain redis lock; proceeding without redis lock: " + err.Error())
		return func() {}
	}
	return func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil {
			logger.WithFields(logrus.Fields{
				"field": "obtainLock",
				"key":   key,
			}).Warn("failed to release redis lock: " + releaseErr.Error())
		}
	}
}

// decrementStock lowers stock by qty, flooring at zero. The logged change is the
// quantity actually removed, so the log still sums to the stock after a clamp.
func decrementStock(tx *gorm.DB, productId int, qty int, note string) error {
	var product Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "stock_qty").
		First(&product, productId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	moved := min(qty, max(product.StockQty, 0))

	result := tx.Model(&Product{}).Where("id = ?", productId).
		Update("stock_qty", gorm.Expr("CASE WHEN stock_qty > ? THEN stock_qty - ? ELSE 0 END", qty, qty))
	if result.Error != nil {
		return result.Error
	}
	return logStockChange(tx, productId, -moved, note)
}

// incrementStock adds qty to stock of an existing product; unknown ids are skipped.
func incrementStock(tx *gorm.DB, productId int, qty int, note string) error {
	result := tx.Model(&Product{}).Where("id = ?", productId).
		Update("stock_qty", gorm.Expr("stock_qty + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return logStockChange(tx, productId, qty, note)
}

func logStockChange(tx *gorm.DB, productId int, changeQty int, note string) error {
	if changeQty == 0 {
		return nil
	}
	entry := InventoryLog{ProductId: productId, ChangeQty: changeQty, Note: note}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("inventory log: %w", err)
	}
	return nil
}

// productNames maps ids to current product names for the given ids, read inside tx.
func productNames(tx *gorm.DB, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var products []Product
	if err := tx.Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}
