package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

const recentDocumentsLimit = 20

func supplierInvoicesPageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := models.ListProductsByName(ctx)
	if err != nil {
		renderServerError(c, "supplierInvoicesPageHandler", err)
		return
	}
	suppliers, err := models.ListSuppliers(ctx)
	if err != nil {
		renderServerError(c, "supplierInvoicesPageHandler", err)
		return
	}
	invoices, err := models.ListSupplierInvoices(ctx, recentDocumentsLimit)
	if err != nil {
		renderServerError(c, "supplierInvoicesPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "supplier_invoices.html", gin.H{
		"Title":     "Supplier Invoices",
		"Products":  products,
		"Suppliers": suppliers,
		"Invoices":  invoices,
	})
}

func createSupplierInvoiceHandler(c *gin.Context) {
	supplierId, err := strconv.Atoi(strings.TrimSpace(c.PostForm("supplier_id")))
	if err != nil || supplierId <= 0 {
		redirectWithFlash(c, "/supplier-invoices", middlewares.FlashError, "choose a supplier")
		return
	}
	paid, err := formDecimal(c, "paid")
	if err != nil {
		redirectWithFlash(c, "/supplier-invoices", middlewares.FlashError, "invalid paid amount")
		return
	}

	invoice, err := models.CreateSupplierInvoice(c.Request.Context(), &models.NewSupplierInvoice{
		SupplierId: supplierId,
		Paid:       paid,
		Items:      utils.ParseItemsJSON[models.NewSupplierInvoiceItem](c.PostForm("items_json")),
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyItems):
			redirectWithFlash(c, "/supplier-invoices", middlewares.FlashError, "Add items to the invoice")
		case errors.Is(err, utils.ErrorRecordNotFound):
			redirectWithFlash(c, "/supplier-invoices", middlewares.FlashError, "supplier not found")
		case models.IsInputError(err):
			redirectWithFlash(c, "/supplier-invoices", middlewares.FlashError, err.Error())
		default:
			renderServerError(c, "createSupplierInvoiceHandler", err)
		}
		return
	}
	redirectWithFlash(c, "/supplier-invoices", middlewares.FlashSuccess,
		fmt.Sprintf("Supplier invoice #%d recorded", invoice.ID))
}

func supplierInvoicePageHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		renderNotFound(c)
		return
	}
	invoice, err := models.GetSupplierInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			renderNotFound(c)
			return
		}
		renderServerError(c, "supplierInvoicePageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "supplier_invoice_view.html", gin.H{
		"Title":   fmt.Sprintf("Supplier Invoice #%d", invoice.ID),
		"Invoice": invoice,
	})
}
