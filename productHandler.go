package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

const inventoryMovementLimit = 50

func productsPageHandler(c *gin.Context) {
	products, err := models.ListProducts(c.Request.Context())
	if err != nil {
		renderServerError(c, "productsPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "products.html", gin.H{
		"Title":                "Products",
		"Products":             products,
		"DefaultMinStockAlert": models.DefaultMinStockAlert,
	})
}

func createProductHandler(c *gin.Context) {
	price, err := formDecimal(c, "price")
	if err != nil {
		redirectWithFlash(c, "/products", middlewares.FlashError, "invalid price")
		return
	}
	stock, err := formInt(c, "stock_qty")
	if err != nil {
		redirectWithFlash(c, "/products", middlewares.FlashError, "invalid stock quantity")
		return
	}
	minStock, err := formIntPtr(c, "min_stock_alert")
	if err != nil {
		redirectWithFlash(c, "/products", middlewares.FlashError, "invalid minimum stock alert")
		return
	}

	product, err := models.CreateProduct(c.Request.Context(), &models.NewProduct{
		Name:          c.PostForm("name"),
		Price:         price,
		StockQty:      stock,
		MinStockAlert: minStock,
	})
	if err != nil {
		if models.IsInputError(err) {
			redirectWithFlash(c, "/products", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "createProductHandler", err)
		return
	}
	redirectWithFlash(c, "/products", middlewares.FlashSuccess,
		fmt.Sprintf("Product %q added with barcode %s", product.Name, product.Barcode))
}

func updateProductHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		renderNotFound(c)
		return
	}
	price, err := formDecimalPtr(c, "price")
	if err != nil {
		redirectWithFlash(c, "/products", middlewares.FlashError, "invalid price")
		return
	}
	stock, err := formIntPtr(c, "stock_qty")
	if err != nil {
		redirectWithFlash(c, "/products", middlewares.FlashError, "invalid stock quantity")
		return
	}
	minStock, err := formIntPtr(c, "min_stock_alert")
	if err != nil {
		redirectWithFlash(c, "/products", middlewares.FlashError, "invalid minimum stock alert")
		return
	}

	_, err = models.UpdateProductById(c.Request.Context(), id, &models.UpdateProduct{
		Name:          formStringPtr(c, "name"),
		Price:         price,
		StockQty:      stock,
		MinStockAlert: minStock,
	})
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			renderNotFound(c)
			return
		}
		if models.IsInputError(err) {
			redirectWithFlash(c, "/products", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "updateProductHandler", err)
		return
	}
	redirectWithFlash(c, "/products", middlewares.FlashSuccess, "Product updated")
}

func deleteProductHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		renderNotFound(c)
		return
	}
	product, err := models.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			renderNotFound(c)
			return
		}
		renderServerError(c, "deleteProductHandler", err)
		return
	}
	redirectWithFlash(c, "/products", middlewares.FlashSuccess, fmt.Sprintf("Product %q deleted", product.Name))
}

func inventoryPageHandler(c *gin.Context) {
	overview, err := models.GetInventoryOverview(c.Request.Context(), inventoryMovementLimit)
	if err != nil {
		renderServerError(c, "inventoryPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "inventory.html", gin.H{
		"Title":     "Inventory",
		"LowStock":  overview.LowStock,
		"ZeroStock": overview.ZeroStock,
		"Movements": overview.Movements,
	})
}

func printBarcodesPageHandler(c *gin.Context) {
	products, err := models.ListProductsByName(c.Request.Context())
	if err != nil {
		renderServerError(c, "printBarcodesPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "print_barcodes.html", gin.H{
		"Title":    "Print Barcodes",
		"Products": products,
	})
}
