package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	_ "civicwatch/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"civicwatch/internal/auth"
	"civicwatch/internal/cache"
	"civicwatch/internal/config"
	"civicwatch/internal/db"
	"civicwatch/internal/email"
	"civicwatch/internal/handler"
	"civicwatch/internal/media"
	"civicwatch/internal/repository"
	"civicwatch/internal/router"
	"civicwatch/internal/service"
)

// @title CivicWatch API
// @version 1.0
// @description Civic issue reporting API with posts, votes, comments, and an administrator triage workflow.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an access token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("%v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("Warning: redis unreachable, caching and refresh tokens degraded: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	voteRepo := repository.NewVoteRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	resolver := auth.NewResolver(userRepo, jwtService, cfg.DemoToken, cfg.AdminToken)
	gate := auth.Gate{StrictDelete: cfg.StrictPostDelete}

	mailer := email.New(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		BaseURL:  cfg.AppBaseURL,
	})
	encoder := media.NewEncoder(cacheClient, time.Hour)

	// Initialize services
	assembler := service.NewAssembler(userRepo, commentRepo, encoder, cacheClient)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, mailer)
	postService := service.NewPostService(postRepo, commentRepo, voteRepo, assembler, gate)
	userService := service.NewUserService(userRepo, cacheClient, encoder)
	seedService := service.NewSeedService(userRepo, postRepo, cfg.SeedPassword)

	// Register routes
	router.Register(e, cfg, resolver, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		Posts: handler.NewPostHandler(postService, cfg.PostMediaMaxBytes),
		Users: handler.NewUserHandler(userService, cfg.ProfilePictureMaxBytes),
		Seed:  handler.NewSeedHandler(seedService),
	})

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		swaggerURL = host + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
