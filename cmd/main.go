package main

import (
	"chatpulse/backend/internal/api/handler"
	"chatpulse/backend/internal/chathub"
	"chatpulse/backend/internal/config"
	applog "chatpulse/backend/internal/log"
	"chatpulse/backend/internal/metrics"
	"chatpulse/backend/internal/models"
	"chatpulse/backend/internal/mw"
	"chatpulse/backend/internal/retention"
	"chatpulse/backend/internal/storage"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatGroup{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	log.Info().Msg("database and Redis connections established, migrations complete")
	return db, rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file loaded")
	}

	cfg := config.Load()
	applog.Init(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting ChatPulse relay")

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewManagerService(s)
	go hub.Run()

	sweeper := retention.NewSweeper(s, config.RetentionDays)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(config.CleanupSchedule, sweeper.Run); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule cleanup job")
	}
	scheduler.Start()
	log.Info().Str("schedule", config.CleanupSchedule).Msg("chat group cleanup job scheduled")

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(mw.CORS(cfg.Env))
	r.Use(metrics.GinMiddleware())

	h := handler.NewHandler(hub, cfg.JWTSecret)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info().Str("port", cfg.Port).Msg("server is running")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
