package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hivedesk/internal/models"
	"hivedesk/internal/repositories"
)

type NoteService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Note, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Note, error)
	Create(ctx context.Context, userID uuid.UUID, req models.NoteRequest) (*models.Note, error)
	Update(ctx context.Context, userID, id uuid.UUID, req models.NoteRequest) (*models.Note, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type noteService struct {
	repo       repositories.NoteRepository
	categories repositories.CategoryRepository
	now        func() time.Time
}

func NewNoteService(repo repositories.NoteRepository, categories repositories.CategoryRepository) NoteService {
	return &noteService{repo: repo, categories: categories, now: time.Now}
}

func (s *noteService) List(ctx context.Context, userID uuid.UUID) ([]models.Note, error) {
	return s.repo.List(ctx, userID)
}

func (s *noteService) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("Search query is required")
	}
	return s.repo.Search(ctx, userID, query)
}

func (s *noteService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Note, error) {
	return s.repo.FindByID(ctx, userID, id)
}

// resolveCategory checks the category exists and belongs to userID.
func (s *noteService) resolveCategory(ctx context.Context, userID uuid.UUID, raw string) (*models.Category, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, ErrInvalidCategory
	}
	c, err := s.categories.FindByID(ctx, userID, id)
	if isNotFound(err) {
		return nil, ErrInvalidCategory
	}
	return c, err
}

func (s *noteService) Create(ctx context.Context, userID uuid.UUID, req models.NoteRequest) (*models.Note, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateNote(title, req.Content); err != nil {
		return nil, err
	}
	c, err := s.resolveCategory(ctx, userID, req.Category)
	if err != nil {
		return nil, err
	}
	now := s.now()
	n := &models.Note{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: c.ID,
		Category:   models.CategoryRef{ID: c.ID, Name: c.Name, Color: c.Color},
		Title:      title,
		Content:    req.Content,
		Tags:       normalizeTags(req.Tags),
		IsPinned:   req.IsPinned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *noteService) Update(ctx context.Context, userID, id uuid.UUID, req models.NoteRequest) (*models.Note, error) {
	title := strings.TrimSpace(req.Title)
	if err := validateNote(title, req.Content); err != nil {
		return nil, err
	}
	n, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c, err := s.resolveCategory(ctx, userID, req.Category)
	if err != nil {
		return nil, err
	}
	n.CategoryID = c.ID
	n.Category = models.CategoryRef{ID: c.ID, Name: c.Name, Color: c.Color}
	n.Title = title
	n.Content = req.Content
	n.Tags = normalizeTags(req.Tags)
	n.IsPinned = req.IsPinned
	n.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *noteService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
