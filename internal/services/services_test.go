package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-bot/internal/models"
	"github.com/yukikurage/progress-bot/internal/repository"
)

// memoryRepository keeps the document in memory and can be told to fail.
type memoryRepository struct {
	doc     *models.Document
	loadErr error
	saveErr error
	saves   int
}

func (r *memoryRepository) Load(ctx context.Context) (*models.Document, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.doc == nil {
		return models.NewDocument(), nil
	}
	// hand out a deep enough copy that callers cannot alias saved slices
	copied := *r.doc
	copied.Users = append([]models.User(nil), r.doc.Users...)
	copied.Projects = append([]models.Entity(nil), r.doc.Projects...)
	copied.Tasks = append([]models.Entity(nil), r.doc.Tasks...)
	copied.Config.AdminIDs = append([]string(nil), r.doc.Config.AdminIDs...)
	return &copied, nil
}

func (r *memoryRepository) Save(ctx context.Context, doc *models.Document) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.doc = doc
	return nil
}

func newFileStore(t *testing.T, seed *models.Document, adminIDs ...string) *Store {
	t.Helper()

	repo := repository.NewFileDocumentRepository(filepath.Join(t.TempDir(), "data.json"))
	if seed != nil {
		require.NoError(t, repo.Save(context.Background(), seed))
	}
	return NewStore(repo, adminIDs)
}

func strPtr(s string) *string {
	return &s
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func entity(kind models.EntityKind, id, name string, current, total int) models.Entity {
	return models.Entity{
		ID:           id,
		Kind:         kind,
		Name:         name,
		OwnerID:      "100",
		CreatedAt:    time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.StatusActive,
		CurrentUnits: current,
		TotalUnits:   total,
	}
}

func loadDoc(t *testing.T, store *Store) *models.Document {
	t.Helper()

	var out *models.Document
	require.NoError(t, store.View(context.Background(), func(doc *models.Document) error {
		out = doc
		return nil
	}))
	return out
}

var errBoom = errors.New("boom")
