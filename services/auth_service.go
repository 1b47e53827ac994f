package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hotel-manager/models"
	"hotel-manager/utils"

	"gorm.io/gorm"
)

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	BcryptCost int
}

// AuthService handles staff accounts and their access tokens.
type AuthService struct {
	DB       *gorm.DB
	Config   AuthConfig
	Sessions SessionStore
}

func NewAuthService(db *gorm.DB, cfg AuthConfig, sessions SessionStore) *AuthService {
	if sessions == nil {
		sessions = NoopSessionStore{}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 12 * time.Hour
	}
	return &AuthService{DB: db, Config: cfg, Sessions: sessions}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		return nil, invalid("username", "username is required")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, invalid("email", "a valid email is required")
	}
	if in.Password == "" {
		return nil, invalid("password", "password is required")
	}

	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return nil, conflict("username taken")
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return nil, conflict("email taken")
	}

	hash, err := utils.HashPassword(in.Password, s.Config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Email: email, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, conflict("username or email taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

type LoginResult struct {
	Token utils.AccessToken `json:"access_token"`
	User  models.User       `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("", "username and password required")
	}

	ok, err := s.Sessions.AllowLogin(ctx, strings.ToLower(username))
	if err != nil {
		log.Printf("warning: login limiter unavailable: %v", err)
	} else if !ok {
		return nil, &PermissionError{Message: "too many login attempts, try again later", Unauthenticated: true}
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &PermissionError{Message: "invalid credentials", Unauthenticated: true}
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return nil, &PermissionError{Message: "invalid credentials", Unauthenticated: true}
	}

	tok, err := utils.NewAccessToken(s.Config.JWTSecret, user.ID, user.Username, user.IsAdmin, s.Config.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: tok, User: user}, nil
}

// Authenticate turns a raw bearer token into the caller's Actor.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (Actor, time.Time, error) {
	claims, err := utils.ParseAccessToken(s.Config.JWTSecret, raw)
	if err != nil {
		return Actor{}, time.Time{}, &PermissionError{Message: "invalid token", Unauthenticated: true}
	}
	id, err := claims.UserID()
	if err != nil || id == 0 {
		return Actor{}, time.Time{}, &PermissionError{Message: "invalid token subject", Unauthenticated: true}
	}

	// Like the login limiter, an unreachable session store is logged and skipped.
	revoked, err := s.Sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Printf("warning: revocation check unavailable: %v", err)
	} else if revoked {
		return Actor{}, time.Time{}, &PermissionError{Message: "token revoked", Unauthenticated: true}
	}

	// The account must still exist; the admin flag comes from the database, not the token.
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, time.Time{}, &PermissionError{Message: "unknown user", Unauthenticated: true}
		}
		return Actor{}, time.Time{}, fmt.Errorf("load user %d: %w", id, err)
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return Actor{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin, TokenID: claims.ID}, exp, nil
}

// Logout revokes the caller's current token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, until time.Time) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if actor.TokenID == "" {
		return nil
	}
	return s.Sessions.Revoke(ctx, actor.TokenID, until)
}

// ListUsers is restricted to administrators.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
