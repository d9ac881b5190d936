package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"hivedesk/internal/models"
)

type CategoryRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	// CreateMany inserts categories, skipping names the user already owns.
	CreateMany(ctx context.Context, cs []models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Stats(ctx context.Context, userID uuid.UUID) ([]models.CategoryStat, error)
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	const q = `
		SELECT c.id, c.user_id, c.name, c.color, COUNT(n.id), c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN notes n ON n.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, wrapErr("category list", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.NoteCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, wrapErr("category list scan", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("category list rows", err)
	}
	return out, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	const q = `
		SELECT c.id, c.user_id, c.name, c.color,
		       (SELECT COUNT(*) FROM notes n WHERE n.category_id = c.id),
		       c.created_at, c.updated_at
		FROM categories c
		WHERE c.id = $1 AND c.user_id = $2`
	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.NoteCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr("category find", err)
	}
	return c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	const q = `
		INSERT INTO categories (id, user_id, name, color, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.UserID, c.Name, c.Color, c.CreatedAt, c.UpdatedAt)
	return wrapErr("category create", err)
}

func (r *categoryRepository) CreateMany(ctx context.Context, cs []models.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("category create many", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const q = `
		INSERT INTO categories (id, user_id, name, color, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, name) DO NOTHING`
	for _, c := range cs {
		if _, err := tx.ExecContext(ctx, q, c.ID, c.UserID, c.Name, c.Color, c.CreatedAt, c.UpdatedAt); err != nil {
			return wrapErr(fmt.Sprintf("category create %q", c.Name), err)
		}
	}
	return wrapErr("category create many commit", tx.Commit())
}

func (r *categoryRepository) Update(ctx context.Context, c *models.Category) error {
	const q = `
		UPDATE categories
		SET name=$1, color=$2, updated_at=$3
		WHERE id=$4 AND user_id=$5`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Color, c.UpdatedAt, c.ID, c.UserID)
	if err != nil {
		return wrapErr("category update", err)
	}
	return expectRow(res)
}

func (r *categoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return wrapErr("category delete", err)
	}
	return expectRow(res)
}

func (r *categoryRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id=$1`, userID).Scan(&n)
	if err != nil {
		return 0, wrapErr("category count", err)
	}
	return n, nil
}

func (r *categoryRepository) Stats(ctx context.Context, userID uuid.UUID) ([]models.CategoryStat, error) {
	const q = `
		SELECT c.id, c.name, c.color,
		       COUNT(n.id),
		       COUNT(n.id) FILTER (WHERE n.is_pinned)
		FROM categories c
		JOIN notes n ON n.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, wrapErr("category stats", err)
	}
	defer rows.Close()

	out := []models.CategoryStat{}
	for rows.Next() {
		var s models.CategoryStat
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.Count, &s.PinnedCount); err != nil {
			return nil, wrapErr("category stats scan", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("category stats rows", err)
	}
	return out, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
