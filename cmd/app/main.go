package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/blogdeck/internal/blogservice"
	"github.com/sushihentaime/blogdeck/internal/commentservice"
	"github.com/sushihentaime/blogdeck/internal/common"
	"github.com/sushihentaime/blogdeck/internal/searchservice"
	"github.com/sushihentaime/blogdeck/internal/store"
	"github.com/sushihentaime/blogdeck/internal/tagservice"
	"github.com/sushihentaime/blogdeck/internal/viewservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	blogService    *blogservice.BlogService
	searchService  *searchservice.SearchService
	tagService     *tagservice.TagService
	commentService *commentservice.CommentService
	viewService    *viewservice.ViewService
	broker         *common.MessageBroker
	limiter        *rateLimiter
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the blog and comment stores
	var (
		s  store.Store
		cs store.CommentStore
	)
	switch cfg.Store {
	case storeMemory:
		ms := store.NewMemoryStore()
		s, cs = ms, ms
	default:
		dsn := common.PostgresURI(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)

		m, err := common.Migrate(cfg.MigrationsPath, dsn)
		if err != nil {
			logger.Error("failed to migrate the database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		m.Close()

		db, err := common.NewDB(dsn, 10, 5, 15*time.Minute)
		if err != nil {
			logger.Error("failed to connect to the database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer common.CloseDB(db)

		ps := store.NewPostgresStore(db)
		s, cs = ps, ps
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		limiter: newRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
	}

	// The message broker is optional: without it reads are not counted.
	var producer common.MessageProducer
	if cfg.RabbitMQ.Host != "" {
		URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		broker, err := common.DialMessageBroker(context.Background(), URI, cfg.RabbitMQ.MaxRetries, logger)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		// Setup the exchange, queue, and binding key
		err = common.SetupBlogExchange(broker)
		if err != nil {
			logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		app.viewService = viewservice.NewViewService(broker, s, logger)
		producer = broker
	}

	app.blogService = blogservice.NewBlogService(s, common.NewCache(common.NoExpiration), producer, logger, cfg.Blog.PageSize)
	app.searchService = searchservice.NewSearchService(s, common.NewCache(cfg.Blog.SearchCacheTTL), logger, cfg.Blog.PageSize)
	app.tagService = tagservice.NewTagService(s, common.NewCache(cfg.Blog.TagCacheTTL), logger)
	app.commentService = commentservice.NewCommentService(s, cs, logger)

	// Initialize the consumer
	if app.viewService != nil {
		app.viewService.CountViews()
		defer app.viewService.Close()
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
