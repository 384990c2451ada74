// rebuild-customer-totals recomputes every customer's total_purchases from the sales table.
// Run it after editing sales or customers by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/models"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "only report how many customers would be touched")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	if *dryRun {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to count customers: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("dry run: %d customers would be recomputed\n", count)
		return
	}

	updated, err := models.RebuildCustomerTotals(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to rebuild customer totals: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("rebuilt total_purchases for %d customers\n", updated)
}
