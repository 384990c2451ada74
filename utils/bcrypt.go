package utils

import (
	"errors"

	"github.com/verdipos/verdi_backend/config"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password is required")

// PasswordCost is BCRYPT_COST clamped to the range bcrypt accepts.
func PasswordCost() int {
	cost := config.GetEnvInt("BCRYPT_COST", bcrypt.DefaultCost)
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	return bcrypt.GenerateFromPassword([]byte(password), PasswordCost())
}

// ComparePassword fails for a wrong password and for a stored value that is not a bcrypt hash.
func ComparePassword(hashed string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
