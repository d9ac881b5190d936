package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hivedesk/internal/models"
)

type NoteRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Note, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Note, error)
	Create(ctx context.Context, n *models.Note) error
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int, error)
}

type noteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

const noteSelect = `
	SELECT n.id, n.user_id, n.category_id, c.name, c.color,
	       n.title, n.content, n.tags, n.is_pinned, n.created_at, n.updated_at
	FROM notes n
	JOIN categories c ON c.id = n.category_id`

// noteDocument must match the expression of the notes_search_idx index.
const noteDocument = `to_tsvector('english', n.title || ' ' || n.content)`

func (r *noteRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Note, error) {
	q := noteSelect + `
	WHERE n.user_id = $1
	ORDER BY n.is_pinned DESC, n.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, wrapErr("note list", err)
	}
	return scanNotes(rows)
}

// Search ranks by the title/content document; tags match by exact word.
func (r *noteRepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]models.Note, error) {
	q := noteSelect + `,
	     plainto_tsquery('english', $2) query
	WHERE n.user_id = $1
	  AND (` + noteDocument + ` @@ query
	       OR n.tags && string_to_array(lower($2), ' '))
	ORDER BY ts_rank(` + noteDocument + `, query) DESC, n.is_pinned DESC, n.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, query)
	if err != nil {
		return nil, wrapErr("note search", err)
	}
	return scanNotes(rows)
}

func (r *noteRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Note, error) {
	q := noteSelect + `
	WHERE n.id = $1 AND n.user_id = $2`
	n, err := scanNote(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		return nil, wrapErr("note find", err)
	}
	return n, nil
}

func (r *noteRepository) Create(ctx context.Context, n *models.Note) error {
	const q = `
		INSERT INTO notes (id, user_id, category_id, title, content, tags, is_pinned, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.db.ExecContext(ctx, q,
		n.ID, n.UserID, n.CategoryID, n.Title, n.Content, pq.Array(n.Tags), n.IsPinned, n.CreatedAt, n.UpdatedAt,
	)
	return wrapErr("note create", err)
}

func (r *noteRepository) Update(ctx context.Context, n *models.Note) error {
	const q = `
		UPDATE notes
		SET category_id=$1, title=$2, content=$3, tags=$4, is_pinned=$5, updated_at=$6
		WHERE id=$7 AND user_id=$8`
	res, err := r.db.ExecContext(ctx, q,
		n.CategoryID, n.Title, n.Content, pq.Array(n.Tags), n.IsPinned, n.UpdatedAt, n.ID, n.UserID,
	)
	if err != nil {
		return wrapErr("note update", err)
	}
	return expectRow(res)
}

func (r *noteRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return wrapErr("note delete", err)
	}
	return expectRow(res)
}

func (r *noteRepository) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE user_id=$1 AND category_id=$2`, userID, categoryID,
	).Scan(&n)
	if err != nil {
		return 0, wrapErr("note count", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	n := &models.Note{}
	var tags pq.StringArray
	err := row.Scan(
		&n.ID, &n.UserID, &n.CategoryID, &n.Category.Name, &n.Category.Color,
		&n.Title, &n.Content, &tags, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Category.ID = n.CategoryID
	n.Tags = []string(tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n, nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, wrapErr("note scan", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("note rows", err)
	}
	return out, nil
}
