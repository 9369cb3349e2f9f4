package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sulaymani-library/go-library-backend/config"
	"github.com/sulaymani-library/go-library-backend/internal/bootstrap"
	"github.com/sulaymani-library/go-library-backend/internal/library/cache"
	"github.com/sulaymani-library/go-library-backend/internal/library/store"
	"github.com/sulaymani-library/go-library-backend/internal/library/sync"
	profilerepo "github.com/sulaymani-library/go-library-backend/internal/profile/repository"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "library-api",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "err", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authClient, fsClient, err := bootstrap.InitFirebase(ctx, &cfg.Firebase)
	if err != nil {
		logger.Fatal("firebase", "err", err)
	}
	defer fsClient.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("redis", "err", err)
	}
	defer redisClient.Close()

	feedCache := cache.NewFeedCache(redisClient)

	mirror := sync.NewMirror(sync.NewFirestoreSources(fsClient), sync.Options{
		Timeout: cfg.App.SyncTimeout,
		Cache:   feedCache,
	})
	mirror.Start(ctx)
	defer mirror.Close()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "library-api",
		Version:     cfg.App.Version,
		AdminEmail:  cfg.App.AdminEmail,
		WebAPIKey:   cfg.Firebase.WebAPIKey,
		AuthClient:  authClient,
		Mirror:      mirror,
		Cache:       feedCache,
		Content:     store.NewContentStore(fsClient),
		Categories:  store.NewCategoryStore(fsClient),
		Settings:    store.NewSettingsStore(fsClient),
		Profiles:    profilerepo.NewRepo(fsClient),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", "port", cfg.Server.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
