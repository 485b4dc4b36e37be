package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Vijayaa21/blabber/config"
	"github.com/Vijayaa21/blabber/internal/api/handlers"
	"github.com/Vijayaa21/blabber/internal/api/middleware"
	"github.com/Vijayaa21/blabber/internal/api/routes"
	"github.com/Vijayaa21/blabber/internal/cache"
	"github.com/Vijayaa21/blabber/internal/logger"
	"github.com/Vijayaa21/blabber/internal/models"
	"github.com/Vijayaa21/blabber/internal/providers/stt"
	mongorepo "github.com/Vijayaa21/blabber/internal/repositories/mongo"
	pgrepo "github.com/Vijayaa21/blabber/internal/repositories/postgres"
	"github.com/Vijayaa21/blabber/internal/services"
	"github.com/Vijayaa21/blabber/internal/storage"
	"github.com/Vijayaa21/blabber/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	log.Info("MongoDB connected")
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")
	if err := config.PostgresDB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.TranscriptRecord{},
		&models.Notification{},
	); err != nil {
		log.WithError(err).Fatal("PostgreSQL migrate error")
	}

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	// External providers
	uploader, err := storage.NewGCSUploader(ctx, os.Getenv("GCS_BUCKET"))
	if err != nil {
		log.WithError(err).Fatal("GCS init error")
	}
	defer uploader.Close()

	speech, err := stt.NewGoogleSpeech(ctx)
	if err != nil {
		log.WithError(err).Fatal("Speech init error")
	}
	defer speech.Close()

	// Repositories
	mongoDB := config.MongoDatabase()
	transcriptRepo := pgrepo.NewTranscriptRepo(config.PostgresDB)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	postRepo := pgrepo.NewPostRepo(config.PostgresDB)
	notifRepo := pgrepo.NewNotificationRepo(config.PostgresDB)
	sessionRepo := mongorepo.NewLiveSessionRepo(mongoDB)
	segmentRepo := mongorepo.NewLiveSegmentRepo(mongoDB)

	// Services
	redisCache := cache.NewRedisCache(config.RedisClient)
	transcriptSvc := services.NewTranscriptService(transcriptRepo, speech, uploader)
	userSvc := services.NewUserService(userRepo, notifRepo)
	postSvc := services.NewPostService(postRepo, userRepo, notifRepo, uploader, redisCache)
	notifSvc := services.NewNotificationService(notifRepo)
	liveSvc := services.NewLiveService(sessionRepo, segmentRepo, transcriptSvc, 2*time.Hour)

	// Live transcription workers
	pool := &workers.TranscribeWorkerPool{
		Redis:  config.RedisClient,
		Live:   liveSvc,
		STT:    speech,
		Logger: log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("worker pool start error")
	}

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Transcript:   handlers.NewTranscriptHandler(transcriptSvc),
		Post:         handlers.NewPostHandler(postSvc),
		User:         handlers.NewUserHandler(userSvc),
		Notification: handlers.NewNotificationHandler(notifSvc),
		Live:         handlers.NewLiveHandler(liveSvc, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.WithField("port", port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
