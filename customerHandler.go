package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/models/reports"
)

func customersPageHandler(c *gin.Context) {
	customers, err := models.ListCustomers(c.Request.Context())
	if err != nil {
		renderServerError(c, "customersPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "customers.html", gin.H{
		"Title":     "Customers",
		"Customers": customers,
	})
}

func createCustomerHandler(c *gin.Context) {
	_, err := models.CreateCustomer(c.Request.Context(), &models.NewCustomer{
		Name:  c.PostForm("name"),
		Phone: c.PostForm("phone"),
	})
	if err != nil {
		if models.IsInputError(err) {
			redirectWithFlash(c, "/customers", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "createCustomerHandler", err)
		return
	}
	redirectWithFlash(c, "/customers", middlewares.FlashSuccess, "Customer added")
}

func exportCustomersHandler(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.ms-excel; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=customers.csv")
	c.Status(http.StatusOK)
	if err := reports.WriteCustomersCSV(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}
