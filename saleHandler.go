package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

const salesPageLimit = 50

type productSearchResult struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	StockQty int             `json:"stock_qty"`
	Barcode  string          `json:"barcode"`
}

type saleItemResponse struct {
	ProductId   *int            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

type saleDetailResponse struct {
	ID        int                `json:"id"`
	Customer  string             `json:"customer"`
	Total     decimal.Decimal    `json:"total"`
	Discount  decimal.Decimal    `json:"discount"`
	Tax       decimal.Decimal    `json:"tax"`
	CreatedAt string             `json:"created_at"`
	Items     []saleItemResponse `json:"items"`
}

func posPageHandler(c *gin.Context) {
	renderPage(c, http.StatusOK, "pos.html", gin.H{"Title": "Point of Sale"})
}

func searchProductsHandler(c *gin.Context) {
	products, err := models.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		jsonError(c, http.StatusInternalServerError, "search failed")
		return
	}
	results := make([]productSearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, productSearchResult{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			StockQty: p.StockQty,
			Barcode:  p.Barcode,
		})
	}
	c.JSON(http.StatusOK, results)
}

func createSaleHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSale
		if err := c.ShouldBindJSON(&input); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":  "invalid sale",
					"fields": utils.ProcessValidationErrors(err),
				})
				return
			}
			jsonError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		sale, err := models.CreateSale(c.Request.Context(), &input)
		if err != nil {
			if models.IsInputError(err) {
				jsonError(c, http.StatusBadRequest, err.Error())
				return
			}
			config.RequestLogger(c.Request.Context(), logger).WithFields(logrus.Fields{
				"field": "createSaleHandler",
				"items": len(input.Items),
			}).Error("sale failed: " + err.Error())
			jsonError(c, http.StatusInternalServerError, "could not save the sale")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sale saved", "sale_id": sale.ID})
	}
}

func customerName(c *gin.Context, id *int) (string, error) {
	if id == nil {
		return "", nil
	}
	customer, err := middlewares.GetCustomer(c.Request.Context(), *id)
	if err != nil || customer == nil {
		return "", err
	}
	return customer.Name, nil
}

func saleDetailHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		jsonNotFound(c)
		return
	}
	sale, err := models.GetSale(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			jsonNotFound(c)
			return
		}
		_ = c.Error(err)
		jsonError(c, http.StatusInternalServerError, "could not load the sale")
		return
	}
	name, err := customerName(c, sale.CustomerId)
	if err != nil {
		_ = c.Error(err)
	}

	response := saleDetailResponse{
		ID:        sale.ID,
		Customer:  name,
		Total:     sale.AmountDue(),
		Discount:  sale.Discount,
		Tax:       sale.Tax,
		CreatedAt: sale.CreatedAt.Format(dateTimeLayout),
		Items:     make([]saleItemResponse, 0, len(sale.Items)),
	}
	for _, it := range sale.Items {
		response.Items = append(response.Items, saleItemResponse{
			ProductId:   it.ProductId,
			ProductName: it.ProductName,
			Qty:         it.Qty,
			Price:       it.Price,
			Total:       it.Total,
		})
	}
	c.JSON(http.StatusOK, response)
}

func invoicePageHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		renderNotFound(c)
		return
	}
	sale, err := models.GetSale(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			renderNotFound(c)
			return
		}
		renderServerError(c, "invoicePageHandler", err)
		return
	}
	name, err := customerName(c, sale.CustomerId)
	if err != nil {
		_ = c.Error(err)
	}
	renderPage(c, http.StatusOK, "invoice.html", gin.H{
		"Title":    "Invoice",
		"Sale":     sale,
		"Customer": name,
	})
}

type saleRow struct {
	*models.Sale
	Customer string
}

func salesPageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sales, err := models.ListSales(ctx, salesPageLimit)
	if err != nil {
		renderServerError(c, "salesPageHandler", err)
		return
	}
	ids := make([]*int, 0, len(sales))
	for _, s := range sales {
		ids = append(ids, s.CustomerId)
	}
	names, err := middlewares.CustomerNames(ctx, ids)
	if err != nil {
		config.LogError(config.GetLogger(), "server", "salesPageHandler", "middlewares.CustomerNames", nil, err)
		names = map[int]string{}
	}

	rows := make([]saleRow, 0, len(sales))
	for _, s := range sales {
		row := saleRow{Sale: s}
		if s.CustomerId != nil {
			row.Customer = names[*s.CustomerId]
		}
		rows = append(rows, row)
	}
	renderPage(c, http.StatusOK, "sales.html", gin.H{
		"Title": "Sales",
		"Sales": rows,
	})
}

func barcodeImageHandler(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	image, err := utils.BarcodeDataURI(code)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "image": "", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": image != "", "image": image})
}
