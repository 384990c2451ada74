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

func returnsPageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := models.ListProductsByName(ctx)
	if err != nil {
		renderServerError(c, "returnsPageHandler", err)
		return
	}
	returns, err := models.ListReturns(ctx, recentDocumentsLimit)
	if err != nil {
		renderServerError(c, "returnsPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "returns.html", gin.H{
		"Title":    "Returns",
		"Products": products,
		"Returns":  returns,
	})
}

func createReturnHandler(c *gin.Context) {
	saleId, err := formIntPtr(c, "sale_id")
	if err != nil {
		redirectWithFlash(c, "/returns", middlewares.FlashError, "invalid sale number")
		return
	}

	salesReturn, err := models.CreateReturn(c.Request.Context(), &models.NewReturn{
		SaleId: saleId,
		Note:   c.PostForm("note"),
		Items:  utils.ParseItemsJSON[models.NewReturnItem](c.PostForm("items_json")),
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyItems):
			redirectWithFlash(c, "/returns", middlewares.FlashError, "Add items to the return")
		case errors.Is(err, utils.ErrorRecordNotFound):
			redirectWithFlash(c, "/returns", middlewares.FlashError, "sale not found")
		case models.IsInputError(err):
			redirectWithFlash(c, "/returns", middlewares.FlashError, err.Error())
		default:
			renderServerError(c, "createReturnHandler", err)
		}
		return
	}
	redirectWithFlash(c, "/returns", middlewares.FlashSuccess,
		fmt.Sprintf("Return #%d recorded, refund %s", salesReturn.ID, salesReturn.RefundTotal.StringFixed(2)))
}
