package postservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/inkwell/internal/categoryservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

const (
	// DefaultLimit applies when a filter carries no usable limit.
	DefaultLimit = 50
	MaxLimit     = 100

	// WordsPerMinute is the reading rate behind ReadTime.
	WordsPerMinute = 200
)

type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage *string    `json:"featuredImage"`
	Status        Status     `json:"status"`
	CategoryID    *string    `json:"categoryId"`
	AuthorID      string     `json:"authorId"`
	ReadTime      int        `json:"readTime"`
	Views         int        `json:"views"`
	PublishedAt   *time.Time `json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PostWithAuthorAndCategory is the read model served by every post endpoint.
// Author is nil only if the author row cannot be resolved.
type PostWithAuthorAndCategory struct {
	Post
	Author   *userservice.User         `json:"author"`
	Category *categoryservice.Category `json:"category"`
}

// PostFilter narrows a listing. Empty strings impose no constraint.
type PostFilter struct {
	Status     string
	CategoryID string
	AuthorID   string
	Search     string
	Limit      int
	Offset     int
}

type CreatePostRequest struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Excerpt       *string `json:"excerpt"`
	FeaturedImage *string `json:"featuredImage"`
	Status        Status  `json:"status"`
	CategoryID    *string `json:"categoryId"`
	AuthorID      string  `json:"-"`
}

// UpdatePostRequest carries a partial update; nil fields are left untouched.
// An empty CategoryID clears the category.
type UpdatePostRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	FeaturedImage *string `json:"featuredImage"`
	Status        *Status `json:"status"`
	CategoryID    *string `json:"categoryId"`
}

type Stats struct {
	TotalPosts     int `json:"totalPosts"`
	TotalViews     int `json:"totalViews"`
	PublishedPosts int `json:"publishedPosts"`
	DraftPosts     int `json:"draftPosts"`
	ScheduledPosts int `json:"scheduledPosts"`
}

// PostPublishedEvent is published on common.PostPublishedKey whenever a post enters the published state.
type PostPublishedEvent struct {
	PostID      string `json:"postId"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	AuthorEmail string `json:"authorEmail"`
	AuthorName  string `json:"authorName"`
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m      *PostModel
	mb     common.MessageProducer
	logger *slog.Logger
}
