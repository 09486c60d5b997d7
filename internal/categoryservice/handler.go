package categoryservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/slug"
)

func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{m: newCategoryModel(db)}
}

func duplicateValidationError(err error) error {
	if errors.Is(err, ErrDuplicateCategory) {
		return common.NewValidationError("name", "a category with this name already exists")
	}

	return err
}

// ListCategories returns every category ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]Category, error) {
	return s.m.getAll(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*Category, error) {
	if id == "" {
		return nil, common.ErrRecordNotFound
	}

	return s.m.getByID(ctx, id)
}

// CreateCategory derives the slug from the name.
func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	c := Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	c.Slug = slug.Generate(c.Name)

	v := common.NewValidator()
	validateName(v, c.Name)
	validateSlug(v, c.Slug)
	validateDescription(v, c.Description)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.m.insert(ctx, &c); err != nil {
		return nil, duplicateValidationError(err)
	}

	return &c, nil
}

// UpdateCategory re-derives the slug when a new name is supplied.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*Category, error) {
	if id == "" {
		return nil, common.ErrRecordNotFound
	}

	var name, newSlug *string

	v := common.NewValidator()
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		sl := slug.Generate(n)
		validateName(v, n)
		validateSlug(v, sl)
		name, newSlug = &n, &sl
	}
	validateDescription(v, req.Description)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c, err := s.m.update(ctx, id, name, newSlug, req.Description)
	if err != nil {
		return nil, duplicateValidationError(err)
	}

	return c, nil
}

// DeleteCategory removes the category; posts referencing it lose their category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return common.ErrRecordNotFound
	}

	return s.m.delete(ctx, id)
}
