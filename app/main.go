package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/blogspot/internal/common"
	"github.com/sushihentaime/blogspot/internal/engagementservice"
	"github.com/sushihentaime/blogspot/internal/feedservice"
	"github.com/sushihentaime/blogspot/internal/mailservice"
	"github.com/sushihentaime/blogspot/internal/notificationservice"
	"github.com/sushihentaime/blogspot/internal/postservice"
	"github.com/sushihentaime/blogspot/internal/userservice"
)

const trendingCacheCleanup = 10 * time.Minute

type application struct {
	config              *Config
	logger              *slog.Logger
	userService         *userservice.UserService
	postService         *postservice.PostService
	feedService         *feedservice.FeedService
	engagementService   *engagementservice.EngagementService
	notificationService *notificationservice.NotificationService
	mailService         *mailservice.MailService
	broker              *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(common.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Name:         cfg.DB.Name,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxIdleTime:  15 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupUserExchange(broker)
	if err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = common.SetupNotificationExchange(broker)
	if err != nil {
		logger.Error("failed to setup the notification exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notificationService := notificationservice.NewNotificationService(db, broker, logger)
	defer notificationService.Close()

	cache := common.NewCache(feedservice.TrendingTTL, trendingCacheCleanup)
	postService := postservice.NewPostService(db, notificationService)

	app := &application{
		config:              cfg,
		logger:              logger,
		userService:         userservice.NewUserService(db, broker, notificationService, logger),
		postService:         postService,
		feedService:         feedservice.NewFeedService(postService.Model(), cache),
		engagementService:   engagementservice.NewEngagementService(db, notificationService),
		notificationService: notificationService,
		mailService:         mailservice.NewMailService(broker, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Port, logger),
		broker:              broker,
	}

	app.mailService.SendWelcomeEmail()
	defer app.mailService.Close()

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
