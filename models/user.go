package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID         int       `gorm:"primary_key" json:"id"`
	LandlordId string    `gorm:"index;not null" json:"landlord_id"`
	Username   string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      *string   `gorm:"size:100;unique" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Password   string    `gorm:"size:255;not null" json:"password"`
	IsActive   *bool     `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	LandlordId string `json:"landlord_id"`
	Username   string `json:"username" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" binding:"required"`
	IsActive   *bool  `json:"is_active"`
}

type LoginInfo struct {
	Token      string `json:"token"`
	Name       string `json:"name"`
	LandlordId string `json:"landlord_id"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return nil, errors.New("invalid username or password")
	}

	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, user.LandlordId)
	if err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:      token,
		Name:       user.Username,
		LandlordId: user.LandlordId,
	}, nil
}

// Logout denylists the current token until it would have expired on its own.
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}

	lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || lifespan <= 0 {
		lifespan = 24
	}
	if err := config.SetRedisValue("TokenDenylist:"+token, "1", time.Duration(lifespan)*time.Hour); err != nil {
		return false, err
	}
	return true, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	input.Username = utils.Sanitize(input.Username)
	input.Name = utils.Sanitize(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = utils.FormatPhone(input.Phone)

	if input.Email != "" {
		if err := utils.ValidateEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, err
		}
	}

	// usernames and emails are unique across all landlords, so the
	// duplicate check must not be scoped to the caller's landlord
	var count int64
	dupCtx := utils.SetSkipLandlordScopeInContext(ctx, true)
	err := db.WithContext(dupCtx).Model(&User{}).
		Where("username = ?", input.Username).Or("email = ?", input.Email).
		Count(&count).Error
	if err != nil {
		return nil, utils.WrapStoreError("count users", err)
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	if input.IsActive == nil {
		input.IsActive = utils.NewTrue()
	}

	user := User{
		LandlordId: input.LandlordId,
		Username:   input.Username,
		Name:       input.Name,
		Email:      utils.NilIfEmpty(input.Email),
		Phone:      input.Phone,
		Password:   string(hashedPassword),
		IsActive:   input.IsActive,
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, utils.WrapStoreError("create user", err)
	}
	user.PrepareGive()
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()

	var result User
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	result.PrepareGive()
	return &result, nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, errors.New("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&user).
		UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		return nil, utils.WrapStoreError("change password", err)
	}

	user.PrepareGive()
	return &user, nil
}
