package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid admin id or password")
	ErrAdminLoginDisabled   = errors.New("admin login is not configured")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AdminService authenticates operators of the admin API against the allow-list.
type AdminService struct {
	store        *Store
	passwordHash string
}

func NewAdminService(store *Store, passwordHash string) *AdminService {
	return &AdminService{
		store:        store,
		passwordHash: passwordHash,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	UserID   string
	Password string
}

// Login checks that the id is an admin and that the password matches the configured hash.
func (s *AdminService) Login(ctx context.Context, input LoginInput) (string, error) {
	if s.passwordHash == "" {
		return "", ErrAdminLoginDisabled
	}

	userID := strings.TrimSpace(input.UserID)
	var admin bool
	err := s.store.View(ctx, func(doc *models.Document) error {
		admin = doc.IsAdmin(userID)
		return nil
	})
	if err != nil {
		return "", err
	}
	if !admin {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(input.Password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return userID, nil
}

// HashPassword produces the value for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < constants.MinAdminPasswordLength {
		return "", ErrPasswordTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}
