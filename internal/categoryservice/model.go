package categoryservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrDuplicateCategory = errors.New("duplicate category")
)

func newCategoryModel(db *sql.DB) *CategoryModel {
	return &CategoryModel{db: db}
}

func duplicateError(err error) error {
	switch {
	case common.UniqueViolationError(err, "categories_name_key"), common.UniqueViolationError(err, "categories_slug_key"):
		return ErrDuplicateCategory
	default:
		return err
	}
}

func (m *CategoryModel) insert(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return duplicateError(err)
	}

	return nil
}

func (m *CategoryModel) getAll(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories
		ORDER BY name ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (m *CategoryModel) getByID(ctx context.Context, id string) (*Category, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var c Category
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

// update applies the present fields; slug is only passed when the name changes.
func (m *CategoryModel) update(ctx context.Context, id string, name, slug, description *string) (*Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
			slug = COALESCE($3, slug),
			description = COALESCE($4, description),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, slug, description, created_at, updated_at`

	var c Category
	err := m.db.QueryRowContext(ctx, query, id, name, slug, description).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, duplicateError(err)
		}
	}

	return &c, nil
}

func (m *CategoryModel) delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM categories
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
