package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivedesk/internal/models"
	"hivedesk/internal/repositories/memory"
)

func newContentServices() (CategoryService, NoteService) {
	store := memory.NewStore()
	return NewCategoryService(store.Categories(), store.Notes()),
		NewNoteService(store.Notes(), store.Categories())
}

func TestCategoryService_CreateValidatesAndNormalizes(t *testing.T) {
	ctx := context.Background()
	cats, _ := newContentServices()
	userID := uuid.New()

	c, err := cats.Create(ctx, userID, models.CategoryRequest{Name: "  Reading ", Color: "#a1b2c3"})
	require.NoError(t, err)
	assert.Equal(t, "Reading", c.Name)
	assert.Equal(t, "#A1B2C3", c.Color)

	_, err = cats.Create(ctx, userID, models.CategoryRequest{Name: "Reading", Color: "#000000"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = cats.Create(ctx, userID, models.CategoryRequest{Name: "Bad", Color: "red"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryService_DeleteRefusedWhileInUse(t *testing.T) {
	ctx := context.Background()
	cats, notes := newContentServices()
	userID := uuid.New()

	c, err := cats.Create(ctx, userID, models.CategoryRequest{Name: "Work", Color: "#10B981"})
	require.NoError(t, err)
	n, err := notes.Create(ctx, userID, models.NoteRequest{Title: "t", Content: "c", Category: c.ID.String()})
	require.NoError(t, err)

	err = cats.Delete(ctx, userID, c.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Contains(t, err.Error(), "1 notes")

	require.NoError(t, notes.Delete(ctx, userID, n.ID))
	require.NoError(t, cats.Delete(ctx, userID, c.ID))
	assert.ErrorIs(t, cats.Delete(ctx, userID, c.ID), ErrNotFound)
}

func TestCategoryService_ProvisionDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cats, _ := newContentServices()
	userID := uuid.New()

	n, err := cats.ProvisionDefaults(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = cats.ProvisionDefaults(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := cats.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestNoteService_CreateRequiresOwnedCategory(t *testing.T) {
	ctx := context.Background()
	cats, notes := newContentServices()
	owner, other := uuid.New(), uuid.New()

	c, err := cats.Create(ctx, owner, models.CategoryRequest{Name: "Work", Color: "#10B981"})
	require.NoError(t, err)

	_, err = notes.Create(ctx, other, models.NoteRequest{Title: "t", Content: "c", Category: c.ID.String()})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = notes.Create(ctx, owner, models.NoteRequest{Title: "t", Content: "c", Category: "not-a-uuid"})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	n, err := notes.Create(ctx, owner, models.NoteRequest{
		Title: " Plan ", Content: "ship", Category: c.ID.String(), Tags: []string{" Go", "", "DB "}, IsPinned: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Plan", n.Title)
	assert.Equal(t, []string{"go", "db"}, n.Tags)
	assert.Equal(t, "Work", n.Category.Name)
	assert.True(t, n.IsPinned)
}

func TestNoteService_UpdateAndScope(t *testing.T) {
	ctx := context.Background()
	cats, notes := newContentServices()
	userID := uuid.New()

	work, err := cats.Create(ctx, userID, models.CategoryRequest{Name: "Work", Color: "#10B981"})
	require.NoError(t, err)
	ideas, err := cats.Create(ctx, userID, models.CategoryRequest{Name: "Ideas", Color: "#F59E0B"})
	require.NoError(t, err)

	n, err := notes.Create(ctx, userID, models.NoteRequest{Title: "t", Content: "c", Category: work.ID.String()})
	require.NoError(t, err)

	updated, err := notes.Update(ctx, userID, n.ID, models.NoteRequest{Title: "t2", Content: "c2", Category: ideas.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Ideas", updated.Category.Name)

	got, err := notes.Get(ctx, userID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Equal(t, "Ideas", got.Category.Name)

	_, err = notes.Get(ctx, uuid.New(), n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteService_SearchRequiresQuery(t *testing.T) {
	_, notes := newContentServices()
	_, err := notes.Search(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteService_Validation(t *testing.T) {
	_, notes := newContentServices()
	_, err := notes.Create(context.Background(), uuid.New(), models.NoteRequest{Title: "", Content: "c", Category: uuid.NewString()})
	assert.ErrorIs(t, err, ErrValidation)
}
