package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// BuildSalesSummaryWorkbook lays the report out on three sheets: revenue, best sellers and low stock.
func BuildSalesSummaryWorkbook(report *SalesSummaryResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"Generated at", report.GeneratedAt.Format("2006-01-02 15:04")},
		{"Today", report.DailyRevenue.InexactFloat64()},
		{"Last 7 days", report.WeeklyRevenue.InexactFloat64()},
		{"Last 30 days", report.MonthlyRevenue.InexactFloat64()},
	}
	if err := writeRows(f, summarySheet, []interface{}{"Period", "Revenue"}, rows); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, b := range report.BestSellers {
		rows = append(rows, []interface{}{b.ProductName, b.Qty})
	}
	if _, err := f.NewSheet("Best Sellers"); err != nil {
		return nil, err
	}
	if err := writeRows(f, "Best Sellers", []interface{}{"Product", "Qty Sold"}, rows); err != nil {
		return nil, err
	}

	rows = nil
	for _, p := range report.LowStock {
		rows = append(rows, []interface{}{p.Name, p.Barcode, p.StockQty, p.MinStockAlert})
	}
	if _, err := f.NewSheet("Low Stock"); err != nil {
		return nil, err
	}
	if err := writeRows(f, "Low Stock", []interface{}{"Product", "Barcode", "Stock", "Alert At"}, rows); err != nil {
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
