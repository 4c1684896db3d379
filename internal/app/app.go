package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialchat/internal/config"
	"socialchat/internal/database"
	"socialchat/internal/handlers"
	"socialchat/internal/middleware"
	"socialchat/internal/pdf"
	"socialchat/internal/realtime"
	"socialchat/internal/repositories"
	"socialchat/internal/routes"
	"socialchat/internal/services"

	_ "socialchat/docs"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Hour
)

// App owns every long-lived component of the server.
type App struct {
	cfg           *config.Config
	log           *zap.Logger
	db            *gorm.DB
	router        *gin.Engine
	registry      *realtime.Registry
	auth          services.AuthService
	notifications services.NotificationService
	tokens        repositories.RefreshTokenRepository
}

// New opens the database and wires repositories, services and routes.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		log.Info("[db] migrated")
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	postRepo := repositories.NewPostRepository(db)
	officeRepo := repositories.NewOfficeRepository(db)

	// === Side channels ===
	var email services.EmailSender
	if cfg.Email.Enabled {
		email = services.WithEmailBreaker(services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		), log)
	}
	var telegram services.TelegramSender
	if cfg.Telegram.BotToken != "" {
		tg, err := services.NewTelegramService(cfg.Telegram.BotToken, log)
		if err != nil {
			// без телеги сервер всё равно поднимаем
			log.Warn("[tg] disabled", zap.Error(err))
		} else {
			telegram = services.WithTelegramBreaker(tg, log)
		}
	}

	// === Realtime ===
	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, log)

	// === Services ===
	issuer := services.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	authService := services.NewAuthService(userRepo, tokenRepo, issuer, cfg.Auth.RefreshTTL, email, log)
	userService := services.NewUserService(userRepo, tokenRepo, log)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, dispatcher, email, telegram, log)
	groupService := services.NewGroupService(groupRepo, userRepo, notificationService, log)
	chatService := services.NewChatService(chatRepo, userRepo, dispatcher, pdf.NewTranscriptGenerator(cfg.Files.FontPath), log)
	contactService := services.NewContactService(contactRepo, userRepo, notificationService, log)
	postService := services.NewPostService(postRepo, groupRepo, userRepo, notificationService, log)
	officeService := services.NewOfficeService(officeRepo)

	// === Handlers ===
	handlers.RegisterValidators()
	clientCfg := realtime.ClientConfig{
		SendBuffer:     cfg.Realtime.SendBuffer,
		MaxMessageSize: cfg.Realtime.MaxMessageSize,
		RatePerSecond:  cfg.Realtime.RatePerSecond,
		RateBurst:      cfg.Realtime.RateBurst,
	}
	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, log),
		User:         handlers.NewUserHandler(userService, log),
		Group:        handlers.NewGroupHandler(groupService, log),
		Contact:      handlers.NewContactHandler(contactService, log),
		Notification: handlers.NewNotificationHandler(notificationService, log),
		Chat:         handlers.NewChatHandler(chatService, registry, realtime.NewUpgrader(cfg.Realtime.AllowedOrigins), clientCfg, log),
		Post:         handlers.NewPostHandler(postService, log),
		Office:       handlers.NewOfficeHandler(officeService, log),
		Health:       handlers.NewHealthHandler(db, registry),
	}

	// === Gin ===
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())
	routes.SetupRoutes(router, h, authService)

	return &App{
		cfg:           cfg,
		log:           log,
		db:            db,
		router:        router,
		registry:      registry,
		auth:          authService,
		notifications: notificationService,
		tokens:        tokenRepo,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then drains connections and pending
// notification sends before closing the database.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go a.sweepRefreshTokens(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("[http] listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("[http] shutting down")
	case err := <-errCh:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// websocket-соединения hijacked, Shutdown их не ждёт
	a.registry.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("[http] shutdown", zap.Error(err))
	}
	a.auth.Wait()
	a.notifications.Wait()
	if err := database.Close(a.db); err != nil {
		a.log.Warn("[db] close", zap.Error(err))
	}
	return runErr
}

func (a *App) sweepRefreshTokens(ctx context.Context) {
	t := time.NewTicker(janitorInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := a.tokens.DeleteExpired(ctx, now)
			if err != nil {
				a.log.Warn("[auth][janitor] sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				a.log.Info("[auth][janitor] expired refresh tokens removed", zap.Int64("count", n))
			}
		}
	}
}
