package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphags/alphags/service/internal/auth"
	"github.com/alphags/alphags/service/internal/cache"
	"github.com/alphags/alphags/service/internal/config"
	"github.com/alphags/alphags/service/internal/database"
	"github.com/alphags/alphags/service/internal/handlers"
	"github.com/sirupsen/logrus"
)

var envFile = flag.String("env", ".env", "optional env file")

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration.")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issuer, err := auth.NewIssuer(cfg.JWTSecret, 0)
	if err != nil {
		log.WithError(err).Fatal("Invalid JWT secret.")
	}
	srv := handlers.NewServer(cfg.Rules, issuer, log)
	srv.TurnDuration = cfg.TurnDuration

	if cfg.RedisAddr != "" {
		c, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to redis.")
		}
		defer c.Close()
		srv.Publisher = c
		srv.Snapshots = c
		srv.Resume = c
		log.Infof("Using redis at %s.", cfg.RedisAddr)
	} else {
		log.Warn("ALPHAGS_REDIS_ADDR not set; actions and checkpoints are not stored.")
	}

	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to postgres.")
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.WithError(err).Fatal("Failed to migrate database.")
		}
		srv.Results = db
		srv.History = db
	} else {
		log.Warn("ALPHAGS_DATABASE_URL not set; results are not stored.")
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Listening on %s.", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed.")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed.")
	}
}
