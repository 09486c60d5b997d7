// Command seed loads sample categories and posts into the database.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sushihentaime/inkwell/internal/categoryservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/postservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type config struct {
	DBHost      string `mapstructure:"POSTGRES_HOST"`
	DBPort      string `mapstructure:"POSTGRES_PORT"`
	DBUser      string `mapstructure:"POSTGRES_USER"`
	DBPassword  string `mapstructure:"POSTGRES_PASSWORD"`
	DBName      string `mapstructure:"POSTGRES_DB"`
	AuthorID    string `mapstructure:"SEED_AUTHOR_ID"`
	AuthorEmail string `mapstructure:"SEED_AUTHOR_EMAIL"`
}

func loadConfig(path string) (*config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_DB", "")
	v.SetDefault("SEED_AUTHOR_ID", "seed-author")
	v.SetDefault("SEED_AUTHOR_EMAIL", "editor@inkwell.local")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type samplePost struct {
	title    string
	excerpt  string
	content  string
	category string
	status   postservice.Status
}

var sampleCategories = []struct {
	name        string
	description string
}{
	{"Technology", "News and opinion about the tools we build with"},
	{"Programming", "Languages, patterns and practical code"},
	{"Design", "Interfaces, typography and visual craft"},
	{"Productivity", "Working deliberately and getting things done"},
	{"Business", "Products, teams and the economics behind them"},
	{"AI & Machine Learning", "Models, data and what they are good for"},
}

var samplePosts = []samplePost{
	{
		title:    "Getting Started with Go Services",
		excerpt:  "A tour of the small decisions that keep a Go service maintainable.",
		content:  "<p>Start with a clear package layout. Keep handlers thin and push decisions into services.</p><p>Return errors, wrap them with context and decide at the edge how they map to responses.</p>",
		category: "Programming",
		status:   postservice.StatusPublished,
	},
	{
		title:    "Designing Readable Interfaces",
		excerpt:  "Whitespace, hierarchy and contrast do most of the work.",
		content:  "<p>Readable interfaces rely on a consistent rhythm. Pick a type scale and stick to it.</p>",
		category: "Design",
		status:   postservice.StatusPublished,
	},
	{
		title:    "Deep Work for Engineers",
		excerpt:  "Protecting long stretches of focus in a noisy week.",
		content:  "<p>Block your calendar, batch your messages and measure the hours you actually spend building.</p>",
		category: "Productivity",
		status:   postservice.StatusPublished,
	},
	{
		title:    "What Language Models Are Good At",
		excerpt:  "Notes on where models help and where they still fall short.",
		content:  "<p>Models are strong at drafting and summarising. They are weaker when the answer depends on facts they never saw.</p>",
		category: "AI & Machine Learning",
		status:   postservice.StatusDraft,
	},
	{
		title:    "Pricing Your First Product",
		excerpt:  "Charge earlier than feels comfortable.",
		content:  "<p>Talk to customers, pick a number and change it once you learn something.</p>",
		category: "Business",
		status:   postservice.StatusScheduled,
	},
}

func main() {
	configPath := flag.String("config", ".env", "path to the dotenv configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(*configPath, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed")
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 5, 5, time.Minute)
	if err != nil {
		return err
	}
	defer common.CloseDB(db)

	if err := common.Migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := userservice.NewUserService(db, common.DiscardProducer{}, common.NewCache(time.Minute, time.Minute))
	categories := categoryservice.NewCategoryService(db)
	posts := postservice.NewPostService(db, common.DiscardProducer{}, logger)

	author, err := users.UpsertUser(ctx, userservice.UpsertUserRequest{
		ID:        cfg.AuthorID,
		Email:     cfg.AuthorEmail,
		FirstName: "Inkwell",
		LastName:  "Editor",
	})
	if err != nil {
		return err
	}

	categoryIDs, err := seedCategories(ctx, categories, logger)
	if err != nil {
		return err
	}

	for _, p := range samplePosts {
		req := postservice.CreatePostRequest{
			Title:    p.title,
			Content:  p.content,
			Excerpt:  &p.excerpt,
			Status:   p.status,
			AuthorID: author.ID,
		}
		if id, ok := categoryIDs[p.category]; ok {
			req.CategoryID = &id
		}

		created, err := posts.CreatePost(ctx, req)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("post already exists, skipping", slog.String("title", p.title))
				continue
			}
			return err
		}

		logger.Info("post created", slog.String("slug", created.Slug), slog.String("status", string(created.Status)))
	}

	return nil
}

// seedCategories creates the sample categories and returns every category id keyed by name.
func seedCategories(ctx context.Context, s *categoryservice.CategoryService, logger *slog.Logger) (map[string]string, error) {
	for _, c := range sampleCategories {
		description := c.description

		_, err := s.CreateCategory(ctx, categoryservice.CreateCategoryRequest{Name: c.name, Description: &description})
		if err != nil {
			if isDuplicate(err) {
				logger.Info("category already exists, skipping", slog.String("name", c.name))
				continue
			}
			return nil, err
		}

		logger.Info("category created", slog.String("name", c.name))
	}

	all, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(all))
	for _, c := range all {
		ids[c.Name] = c.ID
	}

	return ids, nil
}

func isDuplicate(err error) bool {
	var vErr common.ValidationError
	if !errors.As(err, &vErr) {
		return false
	}

	for _, msg := range vErr.Errors {
		if strings.Contains(msg, "already exists") {
			return true
		}
	}

	return false
}
