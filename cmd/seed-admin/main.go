// seed-admin creates a user or resets an existing user's password and role.
//
// Usage:
//
//	DATABASE_URL=sqlite:///instance/verdi.db go run ./cmd/seed-admin -username admin -password 's3cret'
//	go run ./cmd/seed-admin -username sara -password 'pw' -role cashier
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

func main() {
	username := flag.String("username", "admin", "username to create or reset")
	password := flag.String("password", "", "new password (required)")
	role := flag.String("role", string(models.UserRoleAdmin), "admin or cashier")
	flag.Parse()

	if strings.TrimSpace(*password) == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(2)
	}
	userRole := models.UserRole(strings.ToLower(strings.TrimSpace(*role)))
	if !userRole.IsValid() {
		fmt.Fprintln(os.Stderr, "-role must be admin or cashier")
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DATABASE_URL.")
		os.Exit(1)
	}
	models.MigrateTable()

	user, err := models.ResetPassword(ctx, *username, *password, userRole)
	if err == nil {
		fmt.Printf("Updated user: username=%q role=%s\n", user.Username, user.Role)
		return
	}
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		fmt.Fprintf(os.Stderr, "failed to update user: %v\n", err)
		os.Exit(1)
	}

	user, err = models.CreateUser(ctx, &models.NewUser{
		Username: *username,
		Password: *password,
		Role:     userRole,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created user: username=%q role=%s\n", user.Username, user.Role)
}
