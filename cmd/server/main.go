// Command server runs the HR service HTTP API.
//
// @title                       HR Service API
// @version                     1.0
// @description                 Employees, attendance, leaves and candidates.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/peoplehub/hr-service/internal/api"
	"github.com/peoplehub/hr-service/internal/api/handler"
	"github.com/peoplehub/hr-service/internal/core/ports"
	"github.com/peoplehub/hr-service/internal/core/service"
	"github.com/peoplehub/hr-service/internal/infrastructure/blob/s3"
	"github.com/peoplehub/hr-service/internal/infrastructure/config"
	mongodb "github.com/peoplehub/hr-service/internal/infrastructure/db/mongo"
	redisdb "github.com/peoplehub/hr-service/internal/infrastructure/db/redis"
	"github.com/peoplehub/hr-service/internal/infrastructure/queue"
	"github.com/peoplehub/hr-service/internal/pkg/token"
	"github.com/peoplehub/hr-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "hr-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Retries:  cfg.ConnectRetries,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Retries:  cfg.ConnectRetries,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	blobs, err := s3.New(ctx, s3.Config{
		Endpoint:   cfg.S3.Endpoint,
		Region:     cfg.S3.Region,
		Bucket:     cfg.S3.Bucket,
		AccessKey:  cfg.S3.AccessKey,
		SecretKey:  cfg.S3.SecretKey,
		PathStyle:  cfg.S3.PathStyle,
		PresignTTL: cfg.S3.PresignTTL,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("mongo_db", cfg.Mongo.Database).
		Str("redis", cfg.Redis.Addr).
		Str("bucket", cfg.S3.Bucket).
		Msg("dependencies connected")

	// --- Background release of orphaned blobs ---
	releaser := queue.NewDispatcher(cfg.ReleaseWorkers, blobs, logger.Component("release-queue"))
	releaser.Start(ctx)
	defer releaser.Stop()

	// --- Core ---
	users := mongodb.NewUserRepository(db)
	employees := mongodb.NewEmployeeRepository(db)
	leaves := mongodb.NewLeaveRepository(db)
	candidates := mongodb.NewCandidateRepository(db)

	access := token.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	refresh := token.NewIssuer(cfg.Auth.RefreshSecret, cfg.Auth.RefreshTTL)

	authSvc := service.NewAuthService(users, redisdb.NewSessionStore(rdb), access, refresh, logger.Component("auth"))
	employeeSvc := service.NewEmployeeService(employees, blobs, releaser, logger.Component("employees"))
	attendanceSvc := service.NewAttendanceService(employees, logger.Component("attendance"))
	leaveSvc := service.NewLeaveService(leaves, employees, blobs, releaser, ports.LeavePolicy{
		RequireApproverRole: cfg.Leave.RequireApproverRole,
		LockDecided:         cfg.Leave.LockDecided,
	}, logger.Component("leaves"))
	candidateSvc := service.NewCandidateService(candidates, employees, blobs, releaser, logger.Component("candidates"))

	// --- HTTP ---
	uploads, err := handler.NewUploader(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.RouterConfig{
		CORSOrigin: cfg.CORSOrigin,
		BodyLimit:  fmt.Sprintf("%dK", cfg.Upload.MaxBytes>>10+1024),
		AuthRate:   rate.Limit(cfg.AuthRateLimit),
	}, api.Handlers{
		Users:      handler.NewUserHandler(authSvc, !cfg.IsDevelopment(), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		Employees:  handler.NewEmployeeHandler(employeeSvc, attendanceSvc, uploads),
		Leaves:     handler.NewLeaveHandler(leaveSvc, uploads),
		Candidates: handler.NewCandidateHandler(candidateSvc, uploads),
		Health: handler.NewHealthHandler(
			handler.Check{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			handler.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
			handler.Check{Name: "s3", Ping: blobs.Ping},
		),
	}, access, logger.Component("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
