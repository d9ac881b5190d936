package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hivedesk/internal/models"
	"hivedesk/internal/repositories"
)

type CategoryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, userID uuid.UUID, req models.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, req models.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) ([]models.CategoryStat, error)
	// ProvisionDefaults creates the default set for a user owning no
	// categories and reports how many were inserted.
	ProvisionDefaults(ctx context.Context, userID uuid.UUID) (int, error)
}

type categoryService struct {
	repo  repositories.CategoryRepository
	notes repositories.NoteRepository
	now   func() time.Time
}

func NewCategoryService(repo repositories.CategoryRepository, notes repositories.NoteRepository) CategoryService {
	return &categoryService{repo: repo, notes: notes, now: time.Now}
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.repo.List(ctx, userID)
}

func (s *categoryService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateCategory(name, req.Color); err != nil {
		return nil, err
	}
	now := s.now()
	c := &models.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     strings.ToUpper(req.Color),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, userID, id uuid.UUID, req models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateCategory(name, req.Color); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Color = strings.ToUpper(req.Color)
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while notes still reference the category.
func (s *categoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, userID, id); err != nil {
		return err
	}
	n, err := s.notes.CountByCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &CategoryInUseError{Notes: n}
	}
	return s.repo.Delete(ctx, userID, id)
}

func (s *categoryService) Stats(ctx context.Context, userID uuid.UUID) ([]models.CategoryStat, error) {
	return s.repo.Stats(ctx, userID)
}

func (s *categoryService) ProvisionDefaults(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	now := s.now()
	cs := make([]models.Category, 0, len(models.DefaultCategories))
	for _, d := range models.DefaultCategories {
		cs = append(cs, models.Category{
			ID:        uuid.New(),
			UserID:    userID,
			Name:      d.Name,
			Color:     d.Color,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.repo.CreateMany(ctx, cs); err != nil {
		return 0, err
	}
	return len(cs), nil
}

// CategoryInUseError matches ErrCategoryInUse.
type CategoryInUseError struct {
	Notes int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("Cannot delete category. It has %d notes. Please move or delete the notes first.", e.Notes)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrCategoryInUse }

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
