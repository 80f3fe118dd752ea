package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/progress-bot/internal/models"
)

func TestEntityService_Create(t *testing.T) {
	store := newFileStore(t, nil)
	service := NewEntityService(store)
	service.now = func() time.Time { return time.Date(2025, time.October, 15, 12, 0, 0, 0, time.FixedZone("X", 3600)) }
	ctx := context.Background()

	project, err := service.Create(ctx, CreateEntityInput{Kind: models.KindProject, Name: "  Album ", OwnerID: "100", TotalUnits: 100})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(project.ID, "proj_"))
	assert.Equal(t, "Album", project.Name)
	assert.Equal(t, models.StatusActive, project.Status)
	assert.Equal(t, time.UTC, project.CreatedAt.Location())

	task, err := service.Create(ctx, CreateEntityInput{Kind: models.KindTask, Name: "Mixing", OwnerID: "100", ProjectID: &project.ID})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(task.ID, "task_"))
	assert.Equal(t, project.ID, *task.ProjectID)

	doc := loadDoc(t, store)
	assert.Len(t, doc.Projects, 1)
	assert.Len(t, doc.Tasks, 1)
	assert.Len(t, doc.TasksOfProject(project.ID), 1)
}

func TestEntityService_CreateValidation(t *testing.T) {
	service := NewEntityService(newFileStore(t, nil))
	ctx := context.Background()

	_, err := service.Create(ctx, CreateEntityInput{Kind: models.KindProject, Name: " "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = service.Create(ctx, CreateEntityInput{Kind: models.KindProject, Name: "X", TotalUnits: -1})
	assert.ErrorIs(t, err, ErrInvalidTotalUnits)

	_, err = service.Create(ctx, CreateEntityInput{Kind: models.KindTask, Name: "X", ProjectID: strPtr("proj_missing")})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityService_ListActive(t *testing.T) {
	seed := models.NewDocument()
	a := entity(models.KindTask, "t1", "beta", 0, 0)
	b := entity(models.KindTask, "t2", "Alpha", 0, 0)
	c := entity(models.KindTask, "t3", "gamma", 0, 0)
	c.Deadline = datePtr(2025, time.November, 1)
	d := entity(models.KindTask, "t4", "delta", 0, 0)
	d.Deadline = datePtr(2025, time.October, 20)
	done := entity(models.KindTask, "t5", "done", 1, 1)
	done.Status = models.StatusCompleted
	other := entity(models.KindTask, "t6", "someone else's", 0, 0)
	other.OwnerID = "200"
	seed.Tasks = []models.Entity{a, b, c, d, done, other}

	service := NewEntityService(newFileStore(t, seed))
	list, err := service.ListActive(context.Background(), "100", models.KindTask)
	require.NoError(t, err)

	var ids []string
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"t4", "t3", "t2", "t1"}, ids)
}

func TestEntityService_ResolveReturnsCopy(t *testing.T) {
	seed := models.NewDocument()
	seed.Projects = []models.Entity{entity(models.KindProject, "proj_1", "Album", 0, 0)}
	service := NewEntityService(newFileStore(t, seed))
	ctx := context.Background()

	e, err := service.Resolve(ctx, "alb", "")
	require.NoError(t, err)
	assert.Equal(t, "proj_1", e.ID)

	_, err = service.Get(ctx, models.KindTask, "proj_1")
	assert.ErrorIs(t, err, ErrEntityNotFound)

	name, ok := service.Suggest(ctx, "albun", models.KindProject)
	assert.True(t, ok)
	assert.Equal(t, "Album", name)
}

func TestUserService(t *testing.T) {
	store := newFileStore(t, nil, "1")
	service := NewUserService(store)
	ctx := context.Background()

	admin, err := service.Register(ctx, "1", "root")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.ReceiveReports)

	user, err := service.Register(ctx, "2", "")
	require.NoError(t, err)
	assert.Equal(t, "User_2", user.Username)
	assert.False(t, user.IsAdmin)

	require.NoError(t, service.SetReceiveReports(ctx, "2", false))
	user, err = service.Register(ctx, "2", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.False(t, user.ReceiveReports)

	assert.ErrorIs(t, service.SetReceiveReports(ctx, "3", true), ErrUserNotFound)

	isAdmin, err := service.IsAdmin(ctx, "1")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}
