package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/mlazarev/tracknest/internal/config"
	"github.com/mlazarev/tracknest/internal/models"
	"github.com/mlazarev/tracknest/internal/utils"
	"github.com/mlazarev/tracknest/pkg/cache"
	"gorm.io/gorm"
)

const passwordRules = "password must have 8-32 characters, at least one uppercase and " +
	"lowercase letter, one digit and one special character"

type AuthService struct {
	db     *gorm.DB
	jwtCfg *config.JWTConfig
	cache  *cache.Cache
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, c *cache.Cache) *AuthService {
	return &AuthService{db: db, jwtCfg: jwtCfg, cache: c}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=100"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// UpdateMeRequest uses pointers so field presence is explicit.
type UpdateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Username *string `json:"username" binding:"omitempty,alphanum,min=3,max=100"`
	Password *string `json:"password"`
}

// Register creates an account. Email and username collisions surface as
// field-specific conflicts through the shared translator.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if !passwordStrongEnough(req.Password) {
		return nil, &ValidationError{Field: "password", Reason: passwordRules}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: hash,
		IsActive:       true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return translateUnique(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(req.Password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Username, s.jwtCfg.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		User:     &user,
		ExpireAt: time.Now().Add(time.Duration(s.jwtCfg.ExpireHour) * time.Hour),
	}, nil
}

// Me returns the authenticated user's account.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe applies only the supplied fields to the account.
func (s *AuthService) UpdateMe(ctx context.Context, userID uint, req *UpdateMeRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Password != nil {
		if !passwordStrongEnough(*req.Password) {
			return nil, &ValidationError{Field: "password", Reason: passwordRules}
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["hashed_password"] = hash
	}

	if len(updates) == 0 {
		return s.Me(ctx, userID)
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return translateUnique(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteMe removes the account; projects and issues go with it via the
// store's FK cascade.
func (s *AuthService) DeleteMe(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, fmt.Sprintf("projects:u%d:*", userID))
	s.cache.Invalidate(ctx, fmt.Sprintf("issues:u%d:*", userID))
	return nil
}

func passwordStrongEnough(password string) bool {
	if len(password) < 8 || len(password) > 32 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
