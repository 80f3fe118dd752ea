package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-bot/internal/models"
)

func TestStore_UpdateSavesOnSuccess(t *testing.T) {
	repo := &memoryRepository{}
	store := NewStore(repo, nil)

	err := store.Update(context.Background(), func(doc *models.Document) error {
		doc.AddEntity(entity(models.KindProject, "proj_1", "Book", 0, 10))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.saves)
	require.Len(t, repo.doc.Projects, 1)
}

func TestStore_UpdateSkipsSaveOnError(t *testing.T) {
	repo := &memoryRepository{}
	store := NewStore(repo, nil)

	err := store.Update(context.Background(), func(doc *models.Document) error {
		doc.AddEntity(entity(models.KindProject, "proj_1", "Book", 0, 10))
		return ErrEntityNotFound
	})
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.Zero(t, repo.saves)
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	repo := &memoryRepository{saveErr: errBoom}
	store := NewStore(repo, nil)

	err := store.Update(context.Background(), func(doc *models.Document) error {
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
}

func TestStore_LoadFailurePropagates(t *testing.T) {
	store := NewStore(&memoryRepository{loadErr: errBoom}, nil)

	called := false
	err := store.View(context.Background(), func(doc *models.Document) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, called)
}

func TestStore_MergesConfiguredAdmins(t *testing.T) {
	seed := models.NewDocument()
	seed.Config.AdminIDs = []string{"1"}
	store := NewStore(&memoryRepository{doc: seed}, []string{"1", "2", "0", ""})

	doc := loadDoc(t, store)
	assert.Equal(t, []string{"1", "2"}, doc.Config.AdminIDs)
}
