package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"breakroom/config"
	"breakroom/internal/clock"
	"breakroom/internal/database"
	"breakroom/internal/router"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	if cfg.Server.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("migrate")
	}
	database.SeedAdmin(db)

	engine, sw := router.Setup(cfg, db, clock.Real{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sw.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("server shutdown")
	}
	logrus.Info("server stopped")
}
