package reports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/verdipos/verdi_backend/models"
)

const utf8BOM = "\ufeff"

// WriteCustomersCSV writes id,name,phone,total_purchases ordered by name, prefixed with a
// UTF-8 BOM so spreadsheet apps pick the right encoding for Arabic names.
func WriteCustomersCSV(ctx context.Context, w io.Writer) error {
	customers, err := models.ListCustomersByName(ctx)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "phone", "total_purchases"}); err != nil {
		return err
	}
	for _, c := range customers {
		record := []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Phone,
			c.TotalPurchases.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
