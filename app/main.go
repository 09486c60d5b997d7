package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/inkwell/internal/categoryservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/mailservice"
	"github.com/sushihentaime/inkwell/internal/postservice"
	"github.com/sushihentaime/inkwell/internal/uploadservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type application struct {
	config          *Config
	logger          *slog.Logger
	userService     *userservice.UserService
	postService     *postservice.PostService
	categoryService *categoryservice.CategoryService
	uploadService   *uploadservice.UploadService
	mailService     *mailservice.MailService
	// uploadDir is served under /uploads when images are stored on disk.
	uploadDir string
}

func main() {
	configPath := flag.String("config", ".env", "path to the dotenv configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	if err := common.Migrate(db); err != nil {
		logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var producer common.MessageProducer = common.DiscardProducer{}
	var broker *common.MessageBroker

	if cfg.MQHost != "" {
		URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
		broker, err = common.NewMessageBroker(URI)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		if err := common.SetupBlogExchange(broker); err != nil {
			logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		producer = broker
	} else {
		logger.Warn("RABBITMQ_HOST is not set, events will not be published")
	}

	store, uploadDir, err := newStorage(cfg)
	if err != nil {
		logger.Error("failed to setup upload storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		config:          cfg,
		logger:          logger,
		userService:     userservice.NewUserService(db, producer, common.NewCache(5*time.Minute, 10*time.Minute)),
		postService:     postservice.NewPostService(db, producer, logger),
		categoryService: categoryservice.NewCategoryService(db),
		uploadService:   uploadservice.NewUploadService(store),
		uploadDir:       uploadDir,
	}

	if broker != nil {
		app.mailService = mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, cfg.SiteURL, logger)
		app.mailService.SendWelcomeEmail()
		app.mailService.SendPostPublishedEmail()
		defer app.mailService.Close()
	}

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newStorage builds the configured upload backend. The returned directory is
// non-empty only for disk storage.
func newStorage(cfg *Config) (uploadservice.Storage, string, error) {
	switch cfg.UploadDriver {
	case "disk", "":
		store, err := uploadservice.NewDiskStorage(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := uploadservice.NewMinioStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("unknown upload driver %q", cfg.UploadDriver)
	}
}
