package api

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/AmonKats-dev/action-log-app/config"
	"github.com/AmonKats-dev/action-log-app/infra/queue"
	"github.com/AmonKats-dev/action-log-app/internal/api/rest/handlers"
	"github.com/AmonKats-dev/action-log-app/internal/api/rest/middleware"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/AmonKats-dev/action-log-app/internal/helper/utils"
	"github.com/AmonKats-dev/action-log-app/internal/interfaces"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/AmonKats-dev/action-log-app/internal/services"
	"github.com/AmonKats-dev/action-log-app/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the collaborators of the HTTP API. Producer and Uploader may be
// nil when Kafka or uploads are not configured.
type Deps struct {
	DB       *gorm.DB
	Auth     helper.Auth
	Producer interfaces.ProducerHandler
	Uploader interfaces.Uploader
	Logger   *slog.Logger
	BaseURL  string
	Options  []services.Option
}

func NewApp(d Deps) *fiber.App {
	if d.Logger == nil {
		d.Logger = logging.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "action-log-api",
		BodyLimit:    services.MaxAttachmentSize + 1024*1024,
		ErrorHandler: errorHandler,
	})

	// ---------- Middleware ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Logger))

	corsCfg := cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}
	if d.BaseURL != "" {
		corsCfg.AllowOrigins = d.BaseURL
		corsCfg.AllowCredentials = true
	}
	app.Use(cors.New(corsCfg))

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(d.DB)
	deptRepo := repository.NewDepartmentRepository(d.DB)
	logRepo := repository.NewActionLogRepository(d.DB)
	commentRepo := repository.NewCommentRepository(d.DB)
	historyRepo := repository.NewAssignmentHistoryRepository(d.DB)
	attachmentRepo := repository.NewAttachmentRepository(d.DB)
	auditRepo := repository.NewAuditRepository(d.DB)
	notificationRepo := repository.NewNotificationRepository(d.DB)

	// ---------- Services ----------
	logSvc := services.NewActionLogService(logRepo, userRepo, deptRepo, historyRepo, auditRepo, d.Producer, d.Options...)
	commentSvc := services.NewCommentService(logRepo, commentRepo, d.Producer, d.Options...)
	attachmentSvc := services.NewAttachmentService(logRepo, attachmentRepo, d.Uploader)
	notificationSvc := services.NewNotificationService(notificationRepo)

	// ---------- Handlers ----------
	auth := middleware.AuthMiddleware(d.Auth, userRepo)
	handlers.NewActionLogHandler(logSvc, commentSvc, attachmentSvc).SetupRoutes(app, auth)
	handlers.NewNotificationHandler(notificationSvc).SetupRoutes(app, auth)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logging.From(ctx.UserContext()).Error("unhandled error", "error", err)
		return utils.ResponseError(ctx, code, "internal server error")
	}
	return utils.ResponseError(ctx, code, err.Error())
}

// StartServer runs the HTTP API until ctx is cancelled or a signal arrives.
func StartServer(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger := logging.From(ctx)

	// ---------- DB ----------
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	logger.Info("database connected", "driver", cfg.DatabaseDriver)

	// ---------- MIGRATION + SEED ----------
	if err := Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("migration successful")

	// ---------- Infra ----------
	deps := Deps{
		DB:      db,
		Auth:    helper.SetupAuth(cfg.AccessSecret),
		Logger:  logger,
		BaseURL: cfg.BaseURL,
	}
	deps.Auth.TTL = time.Duration(cfg.AccessTokenTTL) * time.Hour

	if cfg.KafkaEnabled() {
		producer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword)
		defer producer.Close()
		deps.Producer = producer
		logger.Info("kafka producer ready", "topic", cfg.KafkaTopic)
	} else {
		logger.Warn("kafka not configured, events are disabled")
	}

	if cfg.CloudinaryUrl != "" {
		cld, err := cloudinary.New(cfg.CloudinaryUrl)
		if err != nil {
			return err
		}
		deps.Uploader = cloudinary.NewCloudinaryUploader(cld)
	} else {
		logger.Warn("cloudinary not configured, attachment uploads are disabled")
	}

	app := NewApp(deps)

	// ---------- Listen ----------
	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("listening", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}
