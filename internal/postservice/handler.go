package postservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/slug"
)

func NewPostService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *PostService {
	return &PostService{
		m:      newPostModel(db),
		mb:     mb,
		logger: logger,
	}
}

// fieldError turns write failures caused by client input into validation errors.
func fieldError(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateSlug):
		return common.NewValidationError("title", "a post with this title already exists")
	case errors.Is(err, ErrCategoryForeignKey):
		return common.NewValidationError("categoryId", "category does not exist")
	case errors.Is(err, ErrAuthorForeignKey):
		return common.NewValidationError("authorId", "author does not exist")
	default:
		return err
	}
}

// emptyToNil treats an empty category id as no category.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// ListPosts returns one page of posts matching the filter, newest published first.
func (s *PostService) ListPosts(ctx context.Context, f PostFilter) ([]PostWithAuthorAndCategory, error) {
	v := common.NewValidator()
	validateFilter(v, f)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	f.normalize()

	return s.m.getAll(ctx, f)
}

// GetFeaturedPost returns the first published post in listing order, or nil when none exists.
func (s *PostService) GetFeaturedPost(ctx context.Context) (*PostWithAuthorAndCategory, error) {
	posts, err := s.ListPosts(ctx, PostFilter{Status: string(StatusPublished), Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(posts) == 0 {
		return nil, nil
	}

	return &posts[0], nil
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*PostWithAuthorAndCategory, error) {
	if id == "" {
		return nil, common.ErrRecordNotFound
	}

	return s.m.getByID(ctx, id)
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*PostWithAuthorAndCategory, error) {
	if slug == "" {
		return nil, common.ErrRecordNotFound
	}

	return s.m.getBySlug(ctx, slug)
}

// GetAuthorPost returns the post only if it belongs to authorID.
func (s *PostService) GetAuthorPost(ctx context.Context, id, authorID string) (*PostWithAuthorAndCategory, error) {
	p, err := s.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.AuthorID != authorID {
		return nil, ErrNotPostAuthor
	}

	return p, nil
}

// ViewPostBySlug fetches a post for a reader and counts the view when the post is published.
func (s *PostService) ViewPostBySlug(ctx context.Context, slug string) (*PostWithAuthorAndCategory, error) {
	p, err := s.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusPublished {
		return p, nil
	}

	views, err := s.m.incrementViews(ctx, p.ID)
	if err != nil {
		switch {
		// unpublished or deleted between the read and the increment
		case errors.Is(err, common.ErrRecordNotFound):
			return p, nil
		default:
			return nil, err
		}
	}
	p.Views = views

	return p, nil
}

// IncrementViews adds one view to a published post and returns the new count.
func (s *PostService) IncrementViews(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, common.ErrRecordNotFound
	}

	return s.m.incrementViews(ctx, id)
}

// CreatePost derives slug and read time from the request and stamps
// publishedAt when the post is created as published.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (*PostWithAuthorAndCategory, error) {
	if req.Status == "" {
		req.Status = StatusDraft
	}

	p := Post{
		Title:         strings.TrimSpace(req.Title),
		Excerpt:       req.Excerpt,
		Content:       sanitizeContent(req.Content),
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
		CategoryID:    emptyToNil(req.CategoryID),
		AuthorID:      req.AuthorID,
	}
	p.Slug = slug.Generate(p.Title)
	p.ReadTime = ReadTime(p.Content)

	v := common.NewValidator()
	validateTitle(v, p.Title)
	validateSlug(v, p.Slug)
	validateContent(v, p.Content)
	validateStatus(v, p.Status)
	validateOptional(v, p.Excerpt, "excerpt", 1000)
	validateOptional(v, p.FeaturedImage, "featuredImage", 2048)
	v.Check(p.AuthorID != "", "authorId", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if p.Status == StatusPublished {
		now := time.Now()
		p.PublishedAt = &now
	}

	if err := s.m.insert(ctx, &p); err != nil {
		return nil, fieldError(err)
	}

	created, err := s.m.getByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if created.Status == StatusPublished {
		s.publishPostPublished(ctx, created)
	}

	return created, nil
}

// UpdatePost applies a partial update to a post owned by authorID.
func (s *PostService) UpdatePost(ctx context.Context, id, authorID string, req UpdatePostRequest) (*PostWithAuthorAndCategory, error) {
	existing, err := s.GetAuthorPost(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	var c postChanges

	v := common.NewValidator()
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		sl := slug.Generate(title)
		validateTitle(v, title)
		validateSlug(v, sl)
		c.title, c.slug = &title, &sl
	}
	if req.Content != nil {
		content := sanitizeContent(*req.Content)
		readTime := ReadTime(content)
		validateContent(v, content)
		c.content, c.readTime = &content, &readTime
	}
	if req.Status != nil {
		validateStatus(v, *req.Status)
		status := string(*req.Status)
		c.status = &status
	}
	if req.CategoryID != nil {
		c.setCategory = true
		c.categoryID = emptyToNil(req.CategoryID)
	}
	validateOptional(v, req.Excerpt, "excerpt", 1000)
	validateOptional(v, req.FeaturedImage, "featuredImage", 2048)
	c.excerpt = req.Excerpt
	c.featuredImage = req.FeaturedImage
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if _, err := s.m.update(ctx, id, authorID, c); err != nil {
		return nil, fieldError(err)
	}

	updated, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Status != StatusPublished && updated.Status == StatusPublished {
		s.publishPostPublished(ctx, updated)
	}

	return updated, nil
}

// DeletePost removes a post owned by authorID.
func (s *PostService) DeletePost(ctx context.Context, id, authorID string) error {
	if _, err := s.GetAuthorPost(ctx, id, authorID); err != nil {
		return err
	}

	return s.m.delete(ctx, id, authorID)
}

// GetStats summarises the posts of authorID, or of every author when authorID is empty.
func (s *PostService) GetStats(ctx context.Context, authorID string) (*Stats, error) {
	return s.m.getStats(ctx, authorID)
}

// publishPostPublished emits the post.published event. Broker failures are logged, not returned.
func (s *PostService) publishPostPublished(ctx context.Context, p *PostWithAuthorAndCategory) {
	event := PostPublishedEvent{
		PostID: p.ID,
		Title:  p.Title,
		Slug:   p.Slug,
	}
	if p.Author != nil {
		event.AuthorEmail = p.Author.Email
		event.AuthorName = p.Author.FullName()
	}

	msg, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("could not marshal post published event", slog.String("error", err.Error()))
		return
	}

	if err := s.mb.Publish(ctx, msg, common.PostPublishedKey, common.BlogExchange); err != nil {
		s.logger.Error("could not publish post published event", slog.String("post_id", p.ID), slog.String("error", err.Error()))
	}
}
