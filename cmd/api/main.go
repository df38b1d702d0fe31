package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tutorsworld/tutors-world-api/internal/handler"
	"github.com/tutorsworld/tutors-world-api/internal/middleware"
	"github.com/tutorsworld/tutors-world-api/internal/repository"
	"github.com/tutorsworld/tutors-world-api/internal/service"
	"github.com/tutorsworld/tutors-world-api/pkg/cache"
	"github.com/tutorsworld/tutors-world-api/pkg/config"
	"github.com/tutorsworld/tutors-world-api/pkg/database"
	"github.com/tutorsworld/tutors-world-api/pkg/logger"
	"github.com/tutorsworld/tutors-world-api/pkg/middleware/cors"
	"github.com/tutorsworld/tutors-world-api/pkg/middleware/requestid"
	"github.com/tutorsworld/tutors-world-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	blobs, err := storage.NewBlobStore(cfg.Uploads.Dir)
	if err != nil {
		zapLogger.Fatal("init blob store", zap.Error(err))
	}

	metrics := service.NewMetricsService()

	// The cache is optional: when Redis is down or disabled the
	// directory serves straight from the store.
	var cacheRepo service.CacheRepository
	if cfg.Directory.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			zapLogger.Warn("redis unavailable, directory cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(redisClient, zapLogger)
			defer repo.Close()
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, zapLogger, cacheRepo != nil)

	accountRepo := repository.NewAccountRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	guardianRepo := repository.NewGuardianRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	hireRepo := repository.NewHireRepository(db)

	authSvc := service.NewAuthService(accountRepo, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	registrationSvc := service.NewRegistrationService(db, accountRepo, studentRepo, guardianRepo, zapLogger)
	directorySvc := service.NewDirectoryService(tutorRepo, cacheSvc, blobs, zapLogger, service.DirectoryOptions{
		DefaultPageSize: cfg.Directory.DefaultPageSize,
		MaxPageSize:     cfg.Directory.MaxPageSize,
		SlidingTTL:      cfg.Directory.SlidingTTL,
		FilteredTTL:     cfg.Directory.FilteredTTL,
	})
	onboardingSvc := service.NewOnboardingService(db, tutorRepo, accountRepo, blobs, cacheSvc, zapLogger)
	profileSvc := service.NewProfileService(studentRepo, guardianRepo, blobs, zapLogger)
	hireSvc := service.NewHireService(hireRepo, zapLogger)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(registrationSvc, profileSvc)
	tutorHandler := handler.NewTutorHandler(directorySvc, onboardingSvc)
	hireHandler := handler.NewHireHandler(hireSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(logger.GinMiddleware(zapLogger))
	router.Use(cors.New(cfg.CORS.AllowedOrigins))
	router.Use(middleware.Metrics(metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/students/register", studentHandler.Register)

		api.GET("/tutors", tutorHandler.List)
		api.POST("/tutors/search", tutorHandler.Search)
		api.POST("/tutors", tutorHandler.Save)
		api.GET("/tutors/export", tutorHandler.Export)
		api.GET("/tutors/:id", tutorHandler.Detail)

		protected := api.Group("")
		protected.Use(middleware.Auth(authSvc))
		{
			protected.GET("/students/:id", studentHandler.Detail)
			protected.GET("/guardians/:id", studentHandler.GuardianDetail)
			protected.POST("/hires", hireHandler.Hire)
			protected.GET("/connections/:role/:id", hireHandler.Connections)
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("server listening", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
