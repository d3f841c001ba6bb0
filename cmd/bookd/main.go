package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/openpredict/bookd/params"
	"github.com/openpredict/bookd/pkg/api"
	"github.com/openpredict/bookd/pkg/book"
	"github.com/openpredict/bookd/pkg/feed"
	"github.com/openpredict/bookd/pkg/util"
)

func main() {
	// Load config from .env file and environment variables.
	cfg := params.LoadFromEnv("")

	zl, err := buildLogger(cfg.Node.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	sugar := zl.Sugar()

	// ---- Books ----
	books := book.NewRegistry(sugar)
	for _, ticker := range cfg.Node.Tickers {
		if _, err := books.Open(ticker); err != nil {
			sugar.Fatalw("book_open_failed", "ticker", ticker, "err", err)
		}
	}

	// ---- API server ----
	server := api.NewServer(books, cfg.API.CORSOrigins, cfg.API.SnapshotDepth, sugar)

	// ---- Market-data publication ----
	broadcaster := feed.NewBroadcaster(books, server.Hub(), cfg.API.SnapshotDepth, sugar)
	books.AttachListener(broadcaster)

	if len(cfg.Feed.KafkaBrokers) > 0 {
		sink := feed.NewKafkaSink(cfg.Feed.KafkaBrokers, cfg.Feed.KafkaTopic, sugar)
		books.AttachListener(sink)
		defer sink.Close()
		sugar.Infow("kafka_sink_enabled", "brokers", cfg.Feed.KafkaBrokers, "topic", cfg.Feed.KafkaTopic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Hub().Run()

	httpServer := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: server.Handler(),
	}

	go func() {
		sugar.Infow("api_server_starting", "addr", cfg.API.Addr, "tickers", cfg.Node.Tickers)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("shutdown_incomplete", "err", err)
	}
}

func buildLogger(logFile string) (*zap.Logger, error) {
	if logFile != "" {
		return util.NewLoggerWithFile(logFile)
	}
	return util.NewLogger()
}
