package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/progress-bot/internal/constants"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/utils"
)

var (
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidTotalUnits = errors.New("total units must not be negative")
)

// EntityService creates and looks up projects and tasks.
type EntityService struct {
	store *Store
	now   func() time.Time
}

func NewEntityService(store *Store) *EntityService {
	return &EntityService{
		store: store,
		now:   time.Now,
	}
}

// CreateEntityInput represents input for creating a project or a task
type CreateEntityInput struct {
	Kind       models.EntityKind
	Name       string
	OwnerID    string
	Deadline   *time.Time
	TotalUnits int
	ProjectID  *string
	IsPublic   bool
}

// Create stores a new active entity with zero progress.
func (s *EntityService) Create(ctx context.Context, input CreateEntityInput) (*models.Entity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.TotalUnits < 0 {
		return nil, ErrInvalidTotalUnits
	}

	prefix := constants.TaskIDPrefix
	if input.Kind == models.KindProject {
		prefix = constants.ProjectIDPrefix
		input.ProjectID = nil
	}

	entity := models.Entity{
		ID:         utils.GenerateID(prefix),
		Kind:       input.Kind,
		Name:       name,
		OwnerID:    input.OwnerID,
		Deadline:   input.Deadline,
		CreatedAt:  s.now().UTC(),
		Status:     models.StatusActive,
		TotalUnits: input.TotalUnits,
		IsPublic:   input.IsPublic,
		ProjectID:  input.ProjectID,
	}

	err := s.store.Update(ctx, func(doc *models.Document) error {
		if entity.ProjectID != nil && doc.FindProject(*entity.ProjectID) == nil {
			return ErrEntityNotFound
		}
		doc.AddEntity(entity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Resolve returns a copy of the entity matching the hint.
func (s *EntityService) Resolve(ctx context.Context, query string, hint models.EntityKind) (*models.Entity, error) {
	var found models.Entity
	err := s.store.View(ctx, func(doc *models.Document) error {
		e, err := Resolve(doc, query, hint)
		if err != nil {
			return err
		}
		found = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Suggest returns the closest entity name for a failed lookup.
func (s *EntityService) Suggest(ctx context.Context, query string, hint models.EntityKind) (string, bool) {
	var (
		name string
		ok   bool
	)
	_ = s.store.View(ctx, func(doc *models.Document) error {
		name, ok = Suggest(doc, query, hint)
		return nil
	})
	return name, ok
}

// Get returns a copy of the entity with the exact ID.
func (s *EntityService) Get(ctx context.Context, kind models.EntityKind, id string) (*models.Entity, error) {
	var found models.Entity
	err := s.store.View(ctx, func(doc *models.Document) error {
		e := doc.FindEntity(kind, id)
		if e == nil {
			return ErrEntityNotFound
		}
		found = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// List returns every entity of a kind in store order.
func (s *EntityService) List(ctx context.Context, kind models.EntityKind) ([]models.Entity, error) {
	var out []models.Entity
	err := s.store.View(ctx, func(doc *models.Document) error {
		out = append(out, doc.Pool(kind)...)
		return nil
	})
	return out, err
}

// ListActive returns the owner's active entities of a kind, sorted by deadline then name.
// Entities without a deadline sort last.
func (s *EntityService) ListActive(ctx context.Context, ownerID string, kind models.EntityKind) ([]models.Entity, error) {
	var out []models.Entity
	err := s.store.View(ctx, func(doc *models.Document) error {
		for _, e := range doc.Pool(kind) {
			if e.OwnerID == ownerID && !e.IsCompleted() {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortByDeadline(out)
	return out, nil
}

// SortByDeadline orders entities by deadline, then case-insensitive name.
func SortByDeadline(entities []models.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		switch {
		case a.Deadline == nil && b.Deadline != nil:
			return false
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
