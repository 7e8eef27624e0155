package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	"github.com/lilpaf/Super-Barber-sub000/internal/config"
	dbpkg "github.com/lilpaf/Super-Barber-sub000/internal/db"
	domainBooking "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/lock"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/storage"
	"github.com/lilpaf/Super-Barber-sub000/internal/logger"
	"github.com/lilpaf/Super-Barber-sub000/internal/notify"
	"github.com/lilpaf/Super-Barber-sub000/internal/observability"
	"github.com/lilpaf/Super-Barber-sub000/internal/routes"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// ======================================================
	// TRACING
	// ======================================================
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OtelEndpoint)
	if err != nil {
		zl.Warn("tracing disabled", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				zl.Warn("tracing shutdown failed", zap.Error(err))
			}
		}()
	}

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}

	// ======================================================
	// COLLABORATORS
	// ======================================================
	locker := slotLocker(ctx, cfg, zl)

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.MailEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}
	mail := notify.NewDispatcher(mailer)
	defer mail.Close()

	var images storage.ImageStore = storage.NewMemoryImageStore()
	if cfg.ImagesEnabled() {
		images = storage.NewS3ImageStore(storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		zl.Warn("S3_BUCKET not set, shop images are kept in memory")
	}

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)
	defer auditDispatcher.Close()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   zl,
		Locker:   locker,
		Images:   images,
		Audit:    auditDispatcher,
		AuditLog: auditLogger,
		Mail:     mail,
		Clock:    timezone.SystemClock,
		Location: timezone.Location(cfg.Timezone),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

// slotLocker shares locks through Redis when it is configured and reachable,
// and falls back to an in-process lock otherwise. The partial unique index on
// orders still holds across instances either way.
func slotLocker(ctx context.Context, cfg *config.Config, zl *zap.Logger) domainBooking.SlotLocker {
	if cfg.RedisAddr == "" {
		zl.Info("REDIS_ADDR not set, using in-process slot locks")
		return lock.NewLocalLocker()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := lock.Connect(pingCtx, cfg.RedisAddr)
	if err != nil {
		zl.Warn("redis unavailable, using in-process slot locks", zap.Error(err))
		return lock.NewLocalLocker()
	}
	return lock.NewRedisLocker(client, 0)
}
