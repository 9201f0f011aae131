package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/koyasong/bloghive/internal/blogservice"
	"github.com/koyasong/bloghive/internal/common"
	"github.com/koyasong/bloghive/internal/interactionservice"
	"github.com/koyasong/bloghive/internal/notifyservice"
	"github.com/koyasong/bloghive/internal/postservice"
	"github.com/koyasong/bloghive/internal/userservice"
)

type application struct {
	config             *Config
	logger             *slog.Logger
	userService        *userservice.UserService
	blogService        *blogservice.BlogService
	postService        *postservice.PostService
	interactionService *interactionservice.InteractionService
	notifyService      *notifyservice.NotifyService
	broker             *common.MessageBroker
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

	err = common.SetupInteractionExchange(broker)
	if err != nil {
		logger.Error("failed to setup the interaction exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:             cfg,
		logger:             logger,
		userService:        userservice.NewUserService(db, cache),
		blogService:        blogservice.NewBlogService(db),
		postService:        postservice.NewPostService(db),
		interactionService: interactionservice.NewInteractionService(db, broker),
		notifyService:      notifyservice.NewNotifyService(broker, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Port, logger),
		broker:             broker,
	}

	// Start the comment notification consumer.
	app.notifyService.SendCommentEmail()
	defer app.notifyService.Close()

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
