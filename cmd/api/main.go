package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bosk-dev/work-hours/backend/internal/config"
	"github.com/bosk-dev/work-hours/backend/internal/formpdf"
	"github.com/bosk-dev/work-hours/backend/internal/handler"
	"github.com/bosk-dev/work-hours/backend/internal/logging"
	"github.com/bosk-dev/work-hours/backend/internal/notify"
	"github.com/bosk-dev/work-hours/backend/internal/repository"
	"github.com/bosk-dev/work-hours/backend/internal/storage"
	"github.com/bosk-dev/work-hours/backend/internal/submission"
	"github.com/bosk-dev/work-hours/backend/internal/workhours"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "s3":
		store, err := storage.NewS3Store(ctx, &cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "supabase":
		store, err := storage.NewSupabaseStore(&cfg.Storage.Supabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func main() {
	/**********************************************
	 * Configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * Logger
	 **********************************************/
	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		logger.Warn("invalid log settings, using defaults", "error", err)
	}
	slog.SetDefault(logger)

	/**********************************************
	 * Database
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	if cfg.Database.MigrateOnStart {
		if err := repository.RunMigrations(dbpool); err != nil {
			logger.Error("failed to run migrations", "error", err)
			return
		}
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * PDF template
	 **********************************************/
	template, err := os.ReadFile(cfg.Template.Path)
	if err != nil {
		logger.Error("failed to read form template", "path", cfg.Template.Path, "error", err)
		return
	}

	renderer := formpdf.NewRenderer(formpdf.DefaultLayout)
	if err := renderer.CheckTemplate(template, time.Duration(cfg.Template.CheckTimeout)*time.Second); err != nil {
		logger.Error("unusable form template", "path", cfg.Template.Path, "error", err)
		return
	}

	/**********************************************
	 * Object storage
	 **********************************************/
	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to create object store", "driver", cfg.Storage.Driver, "error", err)
		return
	}

	/**********************************************
	 * Redis
	 **********************************************/
	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			return
		}

		objects = storage.NewPresignCache(objects, rdb)
	}

	/**********************************************
	 * RabbitMQ
	 **********************************************/
	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Error("failed to open channel", "error", err)
			return
		}
		defer ch.Close()

		publisher, err = notify.NewAMQPPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
		if err != nil {
			logger.Error("failed to declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
			return
		}
	} else {
		logger.Info("rabbitmq is not configured, form events are not published")
	}

	/**********************************************
	 * Handler
	 **********************************************/
	forms := submission.NewService(submission.Deps{
		Normalizer:    workhours.NewNormalizer(logger),
		Renderer:      renderer,
		Template:      template,
		Store:         repo,
		Objects:       objects,
		Publisher:     publisher,
		Logger:        logger,
		Prefix:        cfg.Storage.Prefix,
		UploadTimeout: time.Duration(cfg.Storage.UploadTimeout) * time.Second,
	})

	handler, err := handler.NewHandler(cfg, repo, forms, objects)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}
	logger.Info("server stopped")
}
