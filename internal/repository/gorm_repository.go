package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/progress-bot/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrLoadDocument is returned when reading any table of the document fails.
	ErrLoadDocument = errors.New("document repository: load failed")
	// ErrSaveDocument is returned when the replace transaction fails.
	ErrSaveDocument = errors.New("document repository: save failed")
)

// GormDocumentRepository stores the document across the users, entities and admin_ids tables.
type GormDocumentRepository struct {
	db *gorm.DB
}

func NewGormDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) Load(ctx context.Context) (*models.Document, error) {
	db := r.db.WithContext(ctx)
	doc := models.NewDocument()

	if err := db.Order("position").Find(&doc.Users).Error; err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrLoadDocument, err)
	}

	var entities []models.Entity
	if err := db.Order("position").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("%w: entities: %v", ErrLoadDocument, err)
	}
	for _, e := range entities {
		doc.AddEntity(e)
	}

	var admins []models.AdminID
	if err := db.Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("%w: admin ids: %v", ErrLoadDocument, err)
	}
	for _, a := range admins {
		doc.Config.AdminIDs = append(doc.Config.AdminIDs, a.UserID)
	}

	return doc, nil
}

// Save rewrites every table inside one transaction. Position records slice order so Load
// returns projects and tasks in insertion order.
func (r *GormDocumentRepository) Save(ctx context.Context, doc *models.Document) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Entity{}).Error; err != nil {
			return fmt.Errorf("clear entities: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&models.AdminID{}).Error; err != nil {
			return fmt.Errorf("clear admin ids: %w", err)
		}

		users := make([]models.User, len(doc.Users))
		for i, u := range doc.Users {
			u.Position = i
			users[i] = u
		}

		entities := make([]models.Entity, 0, len(doc.Projects)+len(doc.Tasks))
		for i, p := range doc.Projects {
			p.Kind = models.KindProject
			p.Position = i
			entities = append(entities, p)
		}
		for i, t := range doc.Tasks {
			t.Kind = models.KindTask
			t.Position = i
			entities = append(entities, t)
		}

		admins := make([]models.AdminID, 0, len(doc.Config.AdminIDs))
		for _, id := range doc.Config.AdminIDs {
			admins = append(admins, models.AdminID{UserID: id})
		}

		// gorm rejects creating an empty slice
		if len(users) > 0 {
			if err := tx.Create(&users).Error; err != nil {
				return fmt.Errorf("create users: %w", err)
			}
		}
		if len(entities) > 0 {
			if err := tx.Create(&entities).Error; err != nil {
				return fmt.Errorf("create entities: %w", err)
			}
		}
		if len(admins) > 0 {
			if err := tx.Create(&admins).Error; err != nil {
				return fmt.Errorf("create admin ids: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveDocument, err)
	}
	return nil
}
