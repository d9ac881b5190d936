package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "hivedesk/docs"
	"hivedesk/internal/config"
	"hivedesk/internal/handlers"
	"hivedesk/internal/logger"
	"hivedesk/internal/middleware"
	"hivedesk/internal/migrations"
	"hivedesk/internal/pdf"
	"hivedesk/internal/repositories"
	"hivedesk/internal/repositories/memory"
	"hivedesk/internal/routes"
	"hivedesk/internal/services"
)

// Stores groups the repositories the services run on.
type Stores struct {
	Users      repositories.UserRepository
	Categories repositories.CategoryRepository
	Notes      repositories.NoteRepository
}

// Run loads configuration from configPath, serves HTTP until SIGINT or
// SIGTERM, then shuts down gracefully.
func Run(configPath string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level)
	gin.SetMode(cfg.Server.Mode)

	stores, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", "error", err)
	}
	defer closeStores()

	router := NewRouter(cfg, stores, newEmailService(cfg, log), log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("[app] server listening", "addr", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("[app] received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("[app] shutdown error", "error", err)
	}
	log.Info("[app] shutdown complete")
}

// openStores connects to postgres and migrates it, or falls back to the
// in-memory store when no database URL is configured.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (Stores, func(), error) {
	if cfg.Database.DSN == "" {
		log.Warn("[app] database.url is empty, using in-memory store; data is lost on restart")
		return NewMemoryStores(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return Stores{}, nil, fmt.Errorf("db open: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("[app] db close", "error", err)
		}
	}
	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return Stores{}, nil, fmt.Errorf("db ping: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		closeDB()
		return Stores{}, nil, fmt.Errorf("migrations: %w", err)
	}

	return Stores{
		Users:      repositories.NewUserRepository(db),
		Categories: repositories.NewCategoryRepository(db),
		Notes:      repositories.NewNoteRepository(db),
	}, closeDB, nil
}

func NewMemoryStores() Stores {
	m := memory.NewStore()
	return Stores{Users: m.Users(), Categories: m.Categories(), Notes: m.Notes()}
}

func newEmailService(cfg *config.Config, log *logger.Logger) services.EmailService {
	if cfg.Email.DryRun || cfg.Email.SMTPHost == "" {
		log.Warn("[app] email dry-run: OTP codes are written to the log")
		return services.NewDryRunEmailService(log)
	}
	return services.NewEmailService(services.EmailOptions{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUser:     cfg.Email.SMTPUser,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		AppURL:       cfg.Server.CORSOrigin,
		OTPTTLText:   humanizeTTL(cfg.OTP.TTL),
	}, log)
}

func humanizeTTL(d time.Duration) string {
	if m := int(d / time.Minute); m > 0 && d%time.Minute == 0 {
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}

// NewRouter wires services, handlers and middleware onto a gin engine.
func NewRouter(cfg *config.Config, stores Stores, email services.EmailService, log *logger.Logger) *gin.Engine {
	hasher := services.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := services.NewTokenService(sessionSecret(cfg, log), cfg.JWT.TTL, cfg.JWT.ExtendedTTL)

	categoryService := services.NewCategoryService(stores.Categories, stores.Notes)
	noteService := services.NewNoteService(stores.Notes, stores.Categories)
	authService := services.NewAuthService(stores.Users, categoryService, hasher, tokens, email, cfg.OTP.TTL, log)

	authHandler := handlers.NewAuthHandler(authService, log)
	categoryHandler := handlers.NewCategoryHandler(categoryService, log)
	noteHandler := handlers.NewNoteHandler(noteService, pdf.NewNoteRenderer(cfg.Files.FontPath), log)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSOrigin))
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiMiddleware := []gin.HandlerFunc{middleware.SecureHeaders()}
	if rl := cfg.Server.RateLimit; rl.Requests > 0 && rl.Window > 0 {
		apiMiddleware = append(apiMiddleware, middleware.NewRateLimiter(rl.Requests, rl.Window).Middleware())
	}

	return routes.SetupRoutes(
		router,
		authHandler,
		categoryHandler,
		noteHandler,
		middleware.AuthMiddleware(authService, log),
		apiMiddleware...,
	)
}

// sessionSecret returns the configured JWT secret. Without one (allowed in
// debug and test mode only) a random per-process secret is generated, so
// tokens do not survive a restart.
func sessionSecret(cfg *config.Config, log *logger.Logger) string {
	if cfg.JWT.Secret != "" {
		return cfg.JWT.Secret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal("[app] failed to generate session secret", "error", err)
	}
	log.Warn("[app] jwt.secret is empty, using a random per-process secret")
	return hex.EncodeToString(buf)
}
