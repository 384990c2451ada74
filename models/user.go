package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleCashier UserRole = "cashier"

	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleCashier
}

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"size:20;not null;default:cashier" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewUser struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role"`
}

func (input *NewUser) validate(ctx context.Context, tx *gorm.DB) error {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return inputErrorf("username is required")
	}
	if input.Password == "" {
		return inputErrorf("password is required")
	}
	if input.Role == "" {
		input.Role = UserRoleCashier
	}
	if !input.Role.IsValid() {
		return inputErrorf("role must be admin or cashier")
	}
	return utils.ValidateUnique[User](ctx, tx, "username", input.Username, nil)
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()
	if err := input.validate(ctx, db); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := User{
		Username: input.Username,
		Password: string(hashed),
		Role:     input.Role,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword sets a new password (and role, when given) for an existing user.
func ResetPassword(ctx context.Context, username string, password string, role UserRole) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"password": string(hashed)}
	if role != "" {
		if !role.IsValid() {
			return nil, inputErrorf("role must be admin or cashier")
		}
		updates["role"] = role
		user.Role = role
	}
	if err := db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the credentials. Unknown user and wrong password fail the same way.
func Login(ctx context.Context, username string, password string) (*User, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}

// EnsureDefaultAdmin creates admin/admin123 when the users table is empty.
func EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := CreateUser(ctx, &NewUser{
		Username: defaultAdminUsername,
		Password: defaultAdminPassword,
		Role:     UserRoleAdmin,
	}); err != nil {
		return false, err
	}
	config.GetLogger().WithFields(logrus.Fields{
		"field":    "EnsureDefaultAdmin",
		"username": defaultAdminUsername,
	}).Warn("created default admin account; change its password")
	return true, nil
}
