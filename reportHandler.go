package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/verdipos/verdi_backend/models/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func reportsPageHandler(c *gin.Context) {
	report, err := reports.GetSalesSummaryReport(c.Request.Context(), time.Now())
	if err != nil {
		renderServerError(c, "reportsPageHandler", err)
		return
	}
	renderPage(c, http.StatusOK, "reports.html", gin.H{
		"Title":  "Reports",
		"Report": report,
	})
}

func exportReportHandler(c *gin.Context) {
	report, err := reports.GetSalesSummaryReport(c.Request.Context(), time.Now())
	if err != nil {
		renderServerError(c, "exportReportHandler", err)
		return
	}
	f, err := reports.BuildSalesSummaryWorkbook(report)
	if err != nil {
		renderServerError(c, "exportReportHandler", err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("report-%s.xlsx", report.GeneratedAt.Format("2006-01-02"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
