package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/5w1tchy/library-api/internal/api/router"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/googlebooks"
	"github.com/5w1tchy/library-api/internal/logger"
	"github.com/5w1tchy/library-api/internal/migrations"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
	"github.com/5w1tchy/library-api/internal/storage/s3"
	"github.com/5w1tchy/library-api/internal/validate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(start(os.Stderr))
}

// start returns the process exit code so deferred cleanup runs before exit.
func start(stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg config.Config, log *zap.Logger) error {
	if err := validate.Config(cfg); err != nil {
		return errors.Wrap(err, "config")
	}
	for _, w := range validate.HardeningWarnings(cfg) {
		log.Warn("config hardening", zap.String("warning", w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlconnect.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to postgres")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			return err
		}
	}

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to redis")

	deps := router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Provider: googlebooks.New(cfg.GoogleBooks, log),
		Log:      log,
	}
	if cfg.S3.Enabled() {
		covers, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return err
		}
		deps.Covers = covers
		log.Info("cover storage enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.Router(deps),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          zap.NewStdLog(log.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.Bool("tls", cfg.HTTP.TLSCert != ""))
		var err error
		if cfg.HTTP.TLSCert != "" {
			err = srv.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
	})
	return g.Wait()
}

// connectRedis prefers a full URL (Upstash style) over split address fields.
func connectRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	var opt *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid UPSTASH_REDIS_URL")
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: cfg.Addr, Username: cfg.User, Password: cfg.Password}
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = time.Second
	opt.WriteTimeout = time.Second

	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return rdb, nil
}
