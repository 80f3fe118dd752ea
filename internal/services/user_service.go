package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/progress-bot/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserService keeps chat users and their report preferences.
type UserService struct {
	store *Store
}

func NewUserService(store *Store) *UserService {
	return &UserService{store: store}
}

// Register creates the user or refreshes its username and admin flag. New users receive reports.
func (s *UserService) Register(ctx context.Context, id, username string) (*models.User, error) {
	var user models.User
	err := s.store.Update(ctx, func(doc *models.Document) error {
		if existing := doc.FindUser(id); existing != nil {
			if username != "" {
				existing.Username = username
			}
			existing.IsAdmin = doc.IsAdmin(id)
			user = *existing
			return nil
		}

		if username == "" {
			username = fmt.Sprintf("User_%s", id)
		}
		user = models.User{
			ID:             id,
			Username:       username,
			ReceiveReports: true,
			IsAdmin:        doc.IsAdmin(id),
			Timezone:       "UTC",
		}
		doc.UpsertUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetReceiveReports toggles the daily report for a known user.
func (s *UserService) SetReceiveReports(ctx context.Context, id string, enabled bool) error {
	return s.store.Update(ctx, func(doc *models.Document) error {
		user := doc.FindUser(id)
		if user == nil {
			return ErrUserNotFound
		}
		user.ReceiveReports = enabled
		return nil
	})
}

func (s *UserService) IsAdmin(ctx context.Context, id string) (bool, error) {
	var admin bool
	err := s.store.View(ctx, func(doc *models.Document) error {
		admin = doc.IsAdmin(id)
		return nil
	})
	return admin, err
}
