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

func suppliersPageHandler(c *gin.Context) {
	suppliers, err := models.ListSuppliers(c.Request.Context())
	if err != nil {
		renderServerError(c, "suppliersPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "suppliers.html", gin.H{
		"Title":     "Suppliers",
		"Suppliers": suppliers,
	})
}

func createSupplierHandler(c *gin.Context) {
	_, err := models.CreateSupplier(c.Request.Context(), &models.NewSupplier{
		Name:  c.PostForm("name"),
		Phone: c.PostForm("phone"),
	})
	if err != nil {
		if models.IsInputError(err) {
			redirectWithFlash(c, "/suppliers", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "createSupplierHandler", err)
		return
	}
	redirectWithFlash(c, "/suppliers", middlewares.FlashSuccess, "Supplier added")
}

func updateSupplierHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		renderNotFound(c)
		return
	}
	_, err := models.UpdateSupplierById(c.Request.Context(), id, &models.UpdateSupplier{
		Name:  formStringPtr(c, "name"),
		Phone: formPresentPtr(c, "phone"),
	})
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			renderNotFound(c)
			return
		}
		if models.IsInputError(err) {
			redirectWithFlash(c, "/suppliers", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "updateSupplierHandler", err)
		return
	}
	redirectWithFlash(c, "/suppliers", middlewares.FlashSuccess, "Supplier updated")
}

func deleteSupplierHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		renderNotFound(c)
		return
	}
	supplier, err := models.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			renderNotFound(c)
			return
		}
		if models.IsInputError(err) {
			redirectWithFlash(c, "/suppliers", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "deleteSupplierHandler", err)
		return
	}
	redirectWithFlash(c, "/suppliers", middlewares.FlashSuccess, fmt.Sprintf("Supplier %q deleted", supplier.Name))
}
