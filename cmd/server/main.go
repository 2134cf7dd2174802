package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formdesk/internal/cache"
	"formdesk/internal/config"
	"formdesk/internal/repository"
	"formdesk/internal/service"
	"formdesk/internal/transport/rest"
	"formdesk/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Google Sheets export is optional; without credentials submissions
	// still persist and sync is skipped
	var sheetWriter service.SheetWriter
	if cfg.SheetsCredentialsFile != "" {
		writer, err := service.NewGoogleSheetsWriter(ctx, cfg.SheetsCredentialsFile)
		if err != nil {
			log.Printf("Warning: Google Sheets client not available: %v", err)
		} else {
			sheetWriter = writer
			log.Println("Google Sheets export enabled")
		}
	} else {
		log.Println("Warning: GOOGLE_SHEETS_CREDENTIALS_FILE not set, sheet export disabled")
	}
	sheetSync := service.NewSheetSync(sheetWriter, cfg.SheetsSyncTimeout)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	userRepo := repository.NewUserRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	// Initialize caches
	settingsCache := cache.NewSettingsCache(rdb)

	// Initialize services
	tokenSvc := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authSvc := service.NewAuthService(userRepo, tokenSvc)
	formSvc := service.NewFormService(formRepo)
	responseSvc := service.NewResponseService(responseRepo, formRepo, userRepo, sheetSync)
	userSvc := service.NewUserService(userRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, settingsCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	responseSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		TokenService:    tokenSvc,
		AuthService:     authSvc,
		FormService:     formSvc,
		ResponseService: responseSvc,
		UserService:     userSvc,
		SettingsService: settingsSvc,
		WSHub:           wsHub,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/auth/refresh")
		log.Println("  POST/GET /v1/forms")
		log.Println("  GET  /v1/forms/{formId}/public")
		log.Println("  POST /v1/responses")
		log.Println("  GET  /v1/responses/my")
		log.Println("  GET  /v1/responses/form/{formId}")
		log.Println("  GET/PUT /v1/system-settings")
		log.Println("  WS   /v1/ws/forms/{formId}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
