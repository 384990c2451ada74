package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
)

func TestCreateSaleTotalsAndStock(t *testing.T) {
	ctx := setupTestDB(t)
	product := mustCreateProduct(t, ctx, "Tea", 10, 50)

	sale, err := CreateSale(ctx, &NewSale{
		Items:    []NewSaleItem{{Id: utils.FlexInt(product.ID), Name: "Tea", Qty: 2, Price: dec("10")}},
		Discount: dec("5"),
		Tax:      dec("1"),
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if !sale.Total.Equal(dec("20")) || !sale.NetTotal.Equal(dec("16")) {
		t.Fatalf("expected subtotal 20 net 16, got %s %s", sale.Total, sale.NetTotal)
	}
	if sale.Cashier != "cashier1" {
		t.Fatalf("expected cashier from session, got %q", sale.Cashier)
	}
	if sale.CustomerId != nil {
		t.Fatalf("walk-in sale should have no customer")
	}
	if got := reloadProduct(t, ctx, product.ID).StockQty; got != 48 {
		t.Fatalf("expected stock 48, got %d", got)
	}

	stored, err := GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].ProductName != "Tea" || !stored.Items[0].Total.Equal(dec("20")) {
		t.Fatalf("unexpected items: %+v", stored.Items)
	}
}

func TestCreateSaleClampsStockAtZero(t *testing.T) {
	ctx := setupTestDB(t)
	product := mustCreateProduct(t, ctx, "Sugar", 3, 1)

	if _, err := CreateSale(ctx, &NewSale{
		Items: []NewSaleItem{{Id: utils.FlexInt(product.ID), Qty: 5, Price: dec("3")}},
	}); err != nil {
		t.Fatalf("oversell should be accepted: %v", err)
	}
	reloaded := reloadProduct(t, ctx, product.ID)
	if reloaded.StockQty != 0 {
		t.Fatalf("expected stock clamped to 0, got %d", reloaded.StockQty)
	}

	sale, err := ListSales(ctx, 1)
	if err != nil || len(sale) != 1 {
		t.Fatalf("list sales: %v", err)
	}
	full, _ := GetSale(ctx, sale[0].ID)
	if full.Items[0].ProductName != "Sugar" {
		t.Fatalf("blank item name should fall back to product name, got %q", full.Items[0].ProductName)
	}

	// only the unit that was on the shelf left it
	var logs []InventoryLog
	config.GetDB().Where("product_id = ?", product.ID).Order("id").Find(&logs)
	if len(logs) != 2 || logs[1].ChangeQty != -1 {
		t.Fatalf("expected opening +1 and sale -1, got %+v", logs)
	}
	if got := sumStockLog(t, product.ID); got != reloaded.StockQty {
		t.Fatalf("log sums to %d, stock is %d", got, reloaded.StockQty)
	}

	// selling from an empty shelf moves nothing and writes no log row
	if _, err := CreateSale(ctx, &NewSale{
		Items: []NewSaleItem{{Id: utils.FlexInt(product.ID), Qty: 2, Price: dec("3")}},
	}); err != nil {
		t.Fatalf("second oversell: %v", err)
	}
	var count int64
	config.GetDB().Model(&InventoryLog{}).Where("product_id = ?", product.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected no movement for empty stock, got %d log rows", count)
	}
}

func TestCreateSaleRollsBackOnLateFailure(t *testing.T) {
	ctx := setupTestDB(t)
	product := mustCreateProduct(t, ctx, "Rice", 4, 10)
	if _, err := CreateSale(ctx, &NewSale{
		Items:        []NewSaleItem{{Name: "Bag", Qty: 1, Price: dec("2")}},
		CustomerName: "Mona",
	}); err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	failInventoryLogWrites(t)

	cases := []struct {
		name     string
		customer string
	}{
		{"existing customer", "Mona"},
		{"new customer", "Nour"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateSale(ctx, &NewSale{
				Items:        []NewSaleItem{{Id: utils.FlexInt(product.ID), Qty: 3, Price: dec("4")}},
				CustomerName: tc.customer,
			})
			if err == nil {
				t.Fatalf("expected the inventory log failure to surface")
			}
		})
	}

	db := config.GetDB()
	var sales, items, customers int64
	db.Model(&Sale{}).Count(&sales)
	db.Model(&SaleItem{}).Count(&items)
	db.Model(&Customer{}).Count(&customers)
	if sales != 1 || items != 1 || customers != 1 {
		t.Fatalf("expected only the seed sale, got sales=%d items=%d customers=%d", sales, items, customers)
	}
	if got := reloadProduct(t, ctx, product.ID).StockQty; got != 10 {
		t.Fatalf("expected stock 10 after rollback, got %d", got)
	}
	list, _ := ListCustomers(ctx)
	if !list[0].TotalPurchases.Equal(dec("2")) {
		t.Fatalf("customer total changed to %s", list[0].TotalPurchases)
	}
}

func TestCreateSaleAccumulatesCustomerTotal(t *testing.T) {
	ctx := setupTestDB(t)

	for _, price := range []string{"10", "7.5"} {
		if _, err := CreateSale(ctx, &NewSale{
			Items:        []NewSaleItem{{Name: "Loose item", Qty: 1, Price: dec(price)}},
			CustomerName: "Mona",
		}); err != nil {
			t.Fatalf("create sale: %v", err)
		}
	}

	customers, err := ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("expected one customer reused by name, got %d", len(customers))
	}
	if !customers[0].TotalPurchases.Equal(dec("17.5")) {
		t.Fatalf("expected total 17.5, got %s", customers[0].TotalPurchases)
	}

	// rebuilding from sales keeps the same figure
	if _, err := RebuildCustomerTotals(ctx); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	customers, _ = ListCustomers(ctx)
	if !customers[0].TotalPurchases.Equal(dec("17.5")) {
		t.Fatalf("rebuild changed total to %s", customers[0].TotalPurchases)
	}
}

func TestCreateSaleRejectsNegativeValues(t *testing.T) {
	ctx := setupTestDB(t)
	cases := []struct {
		name  string
		input NewSale
	}{
		{"negative qty", NewSale{Items: []NewSaleItem{{Name: "x", Qty: -1, Price: dec("1")}}}},
		{"negative price", NewSale{Items: []NewSaleItem{{Name: "x", Qty: 1, Price: dec("-1")}}}},
		{"negative discount", NewSale{Discount: dec("-2")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateSale(ctx, &tc.input)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !IsInputError(err) {
				t.Fatalf("expected an input error, got %T %v", err, err)
			}
		})
	}
	var count int64
	config.GetDB().Model(&Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no sales written, got %d", count)
	}
}

func TestSaleAmountDue(t *testing.T) {
	if got := (Sale{Total: dec("12"), NetTotal: decimal.Zero}).AmountDue(); !got.Equal(dec("12")) {
		t.Fatalf("expected fallback to total, got %s", got)
	}
	if got := (Sale{Total: dec("12"), NetTotal: dec("10")}).AmountDue(); !got.Equal(dec("10")) {
		t.Fatalf("expected net total, got %s", got)
	}
}

func TestGetSaleNotFound(t *testing.T) {
	ctx := setupTestDB(t)
	if _, err := GetSale(ctx, 999); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
