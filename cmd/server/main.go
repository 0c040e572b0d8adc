// @title                       WoundaShare Report API
// @version                     1.0
// @description                 Wound report submission and clinical review.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/woundashare/report-service/docs"
	"github.com/woundashare/report-service/internal/api"
	"github.com/woundashare/report-service/internal/api/metrics"
	"github.com/woundashare/report-service/internal/api/middleware"
	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
	"github.com/woundashare/report-service/internal/core/service"
	"github.com/woundashare/report-service/internal/core/session"
	mongodb "github.com/woundashare/report-service/internal/infrastructure/db/mongo"
	redisdb "github.com/woundashare/report-service/internal/infrastructure/db/redis"
	"github.com/woundashare/report-service/internal/infrastructure/memory"
	"github.com/woundashare/report-service/internal/infrastructure/queue"
	"github.com/woundashare/report-service/internal/infrastructure/storage"
	"github.com/woundashare/report-service/internal/pkg/config"
	"github.com/woundashare/report-service/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	devJWTSecret    = "woundashare-dev-secret"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "woundashare",
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Optional backends ---
	var (
		mongoClient *mongo.Client
		mongoDB     *mongo.Database
		rdb         *redis.Client
		err         error
	)
	if cfg.AuditBackend == config.BackendMongo {
		mongoClient, mongoDB, err = mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "woundashare",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
	}
	if cfg.SessionBackend == config.BackendRedis {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// --- Audit trail ---
	var sink ports.AuditSink = queue.NewLogSink(log)
	if mongoDB != nil {
		auditRepo := mongodb.NewAuditRepository(mongoDB)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create audit indexes")
		}
		sink = auditRepo
	}
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, sink, metrics.AuditRecorder{}, log)
	dispatcher.Start(ctx)

	// --- Report store ---
	var seed []*domain.Report
	if cfg.SeedData {
		seed = memory.SeedReports(time.Now())
	}
	uploader := newUploader(ctx, cfg, log)
	latency := service.Latency{
		List:   cfg.Latency.List,
		Get:    cfg.Latency.Get,
		Create: cfg.Latency.Create,
		Attach: cfg.Latency.Attach,
		Upload: cfg.Latency.Upload,
		Auth:   cfg.Latency.Auth,
	}
	reports := service.NewReportService(memory.NewReportRepository(seed...), uploader, dispatcher, latency, log)

	// --- Sessions ---
	directory, err := service.NewAuthService(service.DefaultDemoAccounts())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build demo accounts")
	}
	var sessionStorage session.StorageFactory = memory.NewSessionStore()
	var loginLimiter middleware.Limiter
	if rdb != nil {
		sessionStorage = redisdb.NewSessionStore(rdb, cfg.TokenTTL)
		loginLimiter = redisdb.NewRateLimiter(rdb, cfg.LoginRate.Limit, cfg.LoginRate.Window)
	}
	sessions := session.NewManager(sessionStorage, directory, latency.Auth, log)

	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}

	e := api.NewRouter(api.Dependencies{
		Reports:      reports,
		Sessions:     sessions,
		Tokens:       service.NewTokenService(secret, cfg.TokenTTL),
		TokenTTL:     cfg.TokenTTL,
		LoginLimiter: loginLimiter,
		Mongo:        mongoDB,
		Redis:        rdb,
		Logger:       log,
		UploadLimit:  cfg.UploadLimit,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}

	dispatcher.Close()
	stop()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
	log.Info().Msg("server stopped gracefully")
}

// newUploader picks the S3 uploader when a bucket is configured and the
// placeholder otherwise.
func newUploader(ctx context.Context, cfg *config.Config, log zerolog.Logger) ports.ImageUploader {
	if cfg.S3.Bucket == "" {
		return storage.NewPlaceholderUploader()
	}
	uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
		Bucket:        cfg.S3.Bucket,
		Prefix:        cfg.S3.Prefix,
		PublicBaseURL: cfg.S3.PublicBaseURL,
		Endpoint:      cfg.S3.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure s3 uploader")
	}
	log.Info().Str("bucket", cfg.S3.Bucket).Msg("s3 uploads enabled")
	return uploader
}
