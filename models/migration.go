package models

import (
	"log"

	"github.com/verdipos/verdi_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Product{}, &InventoryLog{},
		&Customer{}, &Supplier{},
		&Sale{}, &SaleItem{},
		&SupplierInvoice{}, &SupplierInvoiceItem{},
		&SalesReturn{}, &ReturnItem{},
		&Shift{},
		&Setting{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
