package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/inkwell/internal/categoryservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

var (
	ErrDuplicateSlug      = errors.New("duplicate slug")
	ErrCategoryForeignKey = errors.New("category_id does not exist")
	ErrAuthorForeignKey   = errors.New("author_id does not exist")
	ErrNotPostAuthor      = errors.New("post belongs to another author")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

func writeError(err error) error {
	switch {
	case common.UniqueViolationError(err, "posts_slug_key"):
		return ErrDuplicateSlug
	case common.ForeignKeyError(err, "posts_category_id_fkey"):
		return ErrCategoryForeignKey
	case common.ForeignKeyError(err, "posts_author_id_fkey"):
		return ErrAuthorForeignKey
	default:
		return err
	}
}

const selectPostWithAuthorAndCategory = `
	SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.featured_image, p.status, p.category_id, p.author_id,
		p.read_time, p.views, p.published_at, p.created_at, p.updated_at,
		u.id, u.email, u.first_name, u.last_name, u.profile_image_url, u.created_at, u.updated_at,
		c.id, c.name, c.slug, c.description, c.created_at, c.updated_at
	FROM posts p
	LEFT JOIN users u ON p.author_id = u.id
	LEFT JOIN categories c ON p.category_id = c.id`

const orderPosts = `ORDER BY p.published_at DESC NULLS FIRST, p.created_at DESC`

// scanPost reads one row of selectPostWithAuthorAndCategory. The joined
// columns are nullable, so author and category are only set when present.
func scanPost(row interface{ Scan(...any) error }) (*PostWithAuthorAndCategory, error) {
	var (
		p PostWithAuthorAndCategory

		authorID, authorEmail, authorFirst, authorLast sql.NullString
		authorImage                                    *string
		authorCreated, authorUpdated                   sql.NullTime

		categoryID, categoryName, categorySlug sql.NullString
		categoryDescription                    *string
		categoryCreated, categoryUpdated       sql.NullTime
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage, &p.Status, &p.CategoryID, &p.AuthorID,
		&p.ReadTime, &p.Views, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&authorID, &authorEmail, &authorFirst, &authorLast, &authorImage, &authorCreated, &authorUpdated,
		&categoryID, &categoryName, &categorySlug, &categoryDescription, &categoryCreated, &categoryUpdated,
	)
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		p.Author = &userservice.User{
			ID:              authorID.String,
			Email:           authorEmail.String,
			FirstName:       authorFirst.String,
			LastName:        authorLast.String,
			ProfileImageURL: authorImage,
			CreatedAt:       authorCreated.Time,
			UpdatedAt:       authorUpdated.Time,
		}
	}

	if categoryID.Valid {
		p.Category = &categoryservice.Category{
			ID:          categoryID.String,
			Name:        categoryName.String,
			Slug:        categorySlug.String,
			Description: categoryDescription,
			CreatedAt:   categoryCreated.Time,
			UpdatedAt:   categoryUpdated.Time,
		}
	}

	return &p, nil
}

func (m *PostModel) insert(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (title, slug, excerpt, content, featured_image, status, category_id, author_id, read_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, views, created_at, updated_at`

	args := []any{
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Content,
		p.FeaturedImage,
		string(p.Status),
		p.CategoryID,
		p.AuthorID,
		p.ReadTime,
		p.PublishedAt,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return writeError(err)
	}

	return nil
}

// postChanges holds the columns of a partial update. Nil pointers keep the stored value.
type postChanges struct {
	title         *string
	slug          *string
	excerpt       *string
	content       *string
	featuredImage *string
	status        *string
	setCategory   bool
	categoryID    *string
	readTime      *int
}

// update writes the changes in a single statement. published_at is stamped
// only on the transition into published and is otherwise kept as is.
func (m *PostModel) update(ctx context.Context, id, authorID string, c postChanges) (*Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($3, title),
			slug = COALESCE($4, slug),
			excerpt = COALESCE($5, excerpt),
			content = COALESCE($6, content),
			featured_image = COALESCE($7, featured_image),
			status = COALESCE($8, status),
			category_id = CASE WHEN $9::boolean THEN $10::text ELSE category_id END,
			read_time = COALESCE($11, read_time),
			published_at = CASE
				WHEN COALESCE($8, status) = 'published' AND status <> 'published' THEN NOW()
				ELSE published_at
			END,
			updated_at = NOW()
		WHERE id = $1 AND author_id = $2
		RETURNING id, title, slug, excerpt, content, featured_image, status, category_id, author_id,
			read_time, views, published_at, created_at, updated_at`

	args := []any{
		id,
		authorID,
		c.title,
		c.slug,
		c.excerpt,
		c.content,
		c.featuredImage,
		c.status,
		c.setCategory,
		c.categoryID,
		c.readTime,
	}

	var p Post
	err := m.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImage, &p.Status, &p.CategoryID, &p.AuthorID,
		&p.ReadTime, &p.Views, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, writeError(err)
		}
	}

	return &p, nil
}

func (m *PostModel) delete(ctx context.Context, id, authorID string) error {
	query := `
		DELETE FROM posts
		WHERE id = $1 AND author_id = $2`

	res, err := m.db.ExecContext(ctx, query, id, authorID)
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

func (m *PostModel) getOne(ctx context.Context, column, value string) (*PostWithAuthorAndCategory, error) {
	query := selectPostWithAuthorAndCategory + `
		WHERE p.` + column + ` = $1`

	p, err := scanPost(m.db.QueryRowContext(ctx, query, value))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return p, nil
}

func (m *PostModel) getByID(ctx context.Context, id string) (*PostWithAuthorAndCategory, error) {
	return m.getOne(ctx, "id", id)
}

func (m *PostModel) getBySlug(ctx context.Context, slug string) (*PostWithAuthorAndCategory, error) {
	return m.getOne(ctx, "slug", slug)
}

// getAll runs the filtered listing. The filter must already be normalized.
func (m *PostModel) getAll(ctx context.Context, f PostFilter) ([]PostWithAuthorAndCategory, error) {
	where, args := whereClause(f.predicates())

	query := fmt.Sprintf(`%s
		%s
		%s
		LIMIT $%d OFFSET $%d`, selectPostWithAuthorAndCategory, where, orderPosts, len(args)+1, len(args)+2)

	args = append(args, f.Limit, f.Offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []PostWithAuthorAndCategory{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// incrementViews bumps the counter in the database so concurrent readers never lose an update.
func (m *PostModel) incrementViews(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE posts
		SET views = views + 1
		WHERE id = $1 AND status = 'published'
		RETURNING views`

	var views int
	err := m.db.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return views, nil
}

// aggregate evaluates one scalar aggregate over the posts matching f.
func (m *PostModel) aggregate(ctx context.Context, expr string, f PostFilter) (int, error) {
	where, args := whereClause(f.predicates())
	query := `SELECT ` + expr + ` FROM posts p ` + where

	var n int
	err := m.db.QueryRowContext(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (m *PostModel) getStats(ctx context.Context, authorID string) (*Stats, error) {
	var s Stats

	steps := []struct {
		dest   *int
		expr   string
		status Status
	}{
		{&s.TotalPosts, "COUNT(*)", ""},
		{&s.TotalViews, "COALESCE(SUM(p.views), 0)", ""},
		{&s.PublishedPosts, "COUNT(*)", StatusPublished},
		{&s.DraftPosts, "COUNT(*)", StatusDraft},
		{&s.ScheduledPosts, "COUNT(*)", StatusScheduled},
	}

	for _, step := range steps {
		n, err := m.aggregate(ctx, step.expr, PostFilter{AuthorID: authorID, Status: string(step.status)})
		if err != nil {
			return nil, err
		}
		*step.dest = n
	}

	return &s, nil
}
