// The worker keeps the Redis snapshot cache warm and runs the nightly
// referential-integrity audit. It holds its own mirror so the API can be
// restarted without losing the warm cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/sulaymani-library/go-library-backend/config"
	"github.com/sulaymani-library/go-library-backend/internal/bootstrap"
	"github.com/sulaymani-library/go-library-backend/internal/library/audit"
	"github.com/sulaymani-library/go-library-backend/internal/library/cache"
	"github.com/sulaymani-library/go-library-backend/internal/library/sync"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "library-worker",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, fsClient, err := bootstrap.InitFirebase(ctx, &cfg.Firebase)
	if err != nil {
		logger.Fatal("firebase", "err", err)
	}
	defer fsClient.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("redis", "err", err)
	}
	defer redisClient.Close()

	mirror := sync.NewMirror(sync.NewFirestoreSources(fsClient), sync.Options{
		Timeout: cfg.App.SyncTimeout,
		Cache:   cache.NewFeedCache(redisClient),
	})
	mirror.Start(ctx)
	defer mirror.Close()

	scheduler := audit.NewScheduler(mirror)
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("worker running", "audit", "nightly")
	<-ctx.Done()
	logger.Info("shutting down")
}
