// Package memory is an in-process implementation of the repository
// interfaces, used when no database URL is configured and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hivedesk/internal/models"
	"hivedesk/internal/repositories"
)

// Store keeps every table behind a single lock.
type Store struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	categories map[uuid.UUID]models.Category
	notes      map[uuid.UUID]models.Note
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]models.User),
		categories: make(map[uuid.UUID]models.Category),
		notes:      make(map[uuid.UUID]models.Note),
	}
}

func (s *Store) Users() repositories.UserRepository { return userRepo{s} }
func (s *Store) Categories() repositories.CategoryRepository { return categoryRepo{s} }
func (s *Store) Notes() repositories.NoteRepository { return noteRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
			return repositories.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r userRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return repositories.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

type categoryRepo struct{ s *Store }

// noteCount must be called with the lock held.
func (s *Store) noteCount(categoryID uuid.UUID) (total, pinned int) {
	for _, n := range s.notes {
		if n.CategoryID == categoryID {
			total++
			if n.IsPinned {
				pinned++
			}
		}
	}
	return total, pinned
}

func (r categoryRepo) List(_ context.Context, userID uuid.UUID) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Category{}
	for _, c := range r.s.categories {
		if c.UserID == userID {
			c.NoteCount, _ = r.s.noteCount(c.ID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok || c.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	c.NoteCount, _ = r.s.noteCount(c.ID)
	return &c, nil
}

// nameTaken must be called with the lock held.
func (s *Store) nameTaken(userID, exceptID uuid.UUID, name string) bool {
	for _, c := range s.categories {
		if c.UserID == userID && c.ID != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (r categoryRepo) Create(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; ok || r.s.nameTaken(c.UserID, uuid.Nil, c.Name) {
		return repositories.ErrDuplicate
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) CreateMany(_ context.Context, cs []models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range cs {
		if r.s.nameTaken(c.UserID, uuid.Nil, c.Name) {
			continue
		}
		r.s.categories[c.ID] = c
	}
	return nil
}

func (r categoryRepo) Update(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.categories[c.ID]
	if !ok || existing.UserID != c.UserID {
		return repositories.ErrNotFound
	}
	if r.s.nameTaken(c.UserID, c.ID, c.Name) {
		return repositories.ErrDuplicate
	}
	existing.Name = c.Name
	existing.Color = c.Color
	existing.UpdatedAt = c.UpdatedAt
	r.s.categories[c.ID] = existing
	return nil
}

func (r categoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r categoryRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, c := range r.s.categories {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r categoryRepo) Stats(_ context.Context, userID uuid.UUID) ([]models.CategoryStat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.CategoryStat{}
	for _, c := range r.s.categories {
		if c.UserID != userID {
			continue
		}
		total, pinned := r.s.noteCount(c.ID)
		if total == 0 {
			continue
		}
		out = append(out, models.CategoryStat{ID: c.ID, Name: c.Name, Color: c.Color, Count: total, PinnedCount: pinned})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type noteRepo struct{ s *Store }

// withCategory must be called with the lock held.
func (s *Store) withCategory(n models.Note) models.Note {
	c := s.categories[n.CategoryID]
	n.Category = models.CategoryRef{ID: n.CategoryID, Name: c.Name, Color: c.Color}
	n.Tags = append([]string{}, n.Tags...)
	return n
}

func noteOrder(a, b models.Note) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

func (r noteRepo) List(_ context.Context, userID uuid.UUID) ([]models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Note{}
	for _, n := range r.s.notes {
		if n.UserID == userID {
			out = append(out, r.s.withCategory(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return noteOrder(out[i], out[j]) })
	return out, nil
}

// Search scores a note by how many query words appear in its title, content
// or tags.
func (r noteRepo) Search(_ context.Context, userID uuid.UUID, query string) ([]models.Note, error) {
	terms := strings.Fields(strings.ToLower(query))
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type hit struct {
		note  models.Note
		score int
	}
	var hits []hit
	for _, n := range r.s.notes {
		if n.UserID != userID {
			continue
		}
		doc := strings.ToLower(n.Title + " " + n.Content + " " + strings.Join(n.Tags, " "))
		score := 0
		for _, t := range terms {
			if strings.Contains(doc, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{r.s.withCategory(n), score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return noteOrder(hits[i].note, hits[j].note)
	})
	out := make([]models.Note, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.note)
	}
	return out, nil
}

func (r noteRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	n = r.s.withCategory(n)
	return &n, nil
}

func (r noteRepo) Create(_ context.Context, n *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notes[n.ID]; ok {
		return repositories.ErrDuplicate
	}
	r.s.notes[n.ID] = *n
	return nil
}

func (r noteRepo) Update(_ context.Context, n *models.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.notes[n.ID]
	if !ok || existing.UserID != n.UserID {
		return repositories.ErrNotFound
	}
	n.CreatedAt = existing.CreatedAt
	r.s.notes[n.ID] = *n
	return nil
}

func (r noteRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.s.notes, id)
	return nil
}

func (r noteRepo) CountByCategory(_ context.Context, userID, categoryID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, note := range r.s.notes {
		if note.UserID == userID && note.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}
