package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

func shiftsPageHandler(c *gin.Context) {
	shifts, err := models.ListShifts(c.Request.Context(), 0)
	if err != nil {
		renderServerError(c, "shiftsPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "shifts.html", gin.H{
		"Title":  "Shifts",
		"Shifts": shifts,
	})
}

// shiftActionHandler serves the single-form variant: action=open|close with shift_id.
func shiftActionHandler(c *gin.Context) {
	switch c.PostForm("action") {
	case "open":
		openShiftHandler(c)
	case "close":
		id, err := strconv.Atoi(strings.TrimSpace(c.PostForm("shift_id")))
		if err != nil || id <= 0 {
			redirectWithFlash(c, "/shifts", middlewares.FlashError, "shift not found")
			return
		}
		closeShift(c, id)
	default:
		redirectWithFlash(c, "/shifts", middlewares.FlashError, "unknown shift action")
	}
}

func openShiftHandler(c *gin.Context) {
	openingCash, err := formDecimal(c, "opening_cash")
	if err != nil {
		redirectWithFlash(c, "/shifts", middlewares.FlashError, "invalid opening cash")
		return
	}
	if _, err := models.OpenShift(c.Request.Context(), openingCash); err != nil {
		if models.IsInputError(err) {
			redirectWithFlash(c, "/shifts", middlewares.FlashError, err.Error())
			return
		}
		renderServerError(c, "openShiftHandler", err)
		return
	}
	redirectWithFlash(c, "/shifts", middlewares.FlashSuccess, "Shift opened")
}

func closeShiftHandler(c *gin.Context) {
	id, ok := paramId(c)
	if !ok {
		redirectWithFlash(c, "/shifts", middlewares.FlashError, "shift not found")
		return
	}
	closeShift(c, id)
}

func closeShift(c *gin.Context, id int) {
	closingCash, err := formDecimal(c, "closing_cash")
	if err != nil {
		redirectWithFlash(c, "/shifts", middlewares.FlashError, "invalid closing cash")
		return
	}
	salesTotal, err := formDecimal(c, "sales_total")
	if err != nil {
		redirectWithFlash(c, "/shifts", middlewares.FlashError, "invalid sales total")
		return
	}

	shift, err := models.CloseShift(c.Request.Context(), id, closingCash, salesTotal)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrorRecordNotFound):
			redirectWithFlash(c, "/shifts", middlewares.FlashError, "shift not found")
		case models.IsInputError(err):
			redirectWithFlash(c, "/shifts", middlewares.FlashError, err.Error())
		default:
			renderServerError(c, "closeShift", err)
		}
		return
	}
	redirectWithFlash(c, "/shifts", middlewares.FlashSuccess, "Shift closed, difference "+shift.DiffCash.StringFixed(2))
}
