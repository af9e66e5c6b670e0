package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"RetailMind/internal/usecase"
	pkgch "RetailMind/pkg/clickhouse"
	"RetailMind/pkg/config"
	xhttp "RetailMind/pkg/http"
	pkgkafka "RetailMind/pkg/kafka"
	applogger "RetailMind/pkg/logger"
	"RetailMind/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	collector   *usecase.SalesCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	warmQueue   *queue.RedisQueue
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	SalesProc   *usecase.SalesProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.SalesCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	warmQueue *queue.RedisQueue,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		warmQueue: warmQueue,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.l

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("sales collector started", applogger.String("mode", a.cfg.POSFeed.Mode))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start forecast warm queue workers if configured
	if a.warmQueue != nil {
		if err := a.warmQueue.Start(); err != nil {
			l.Error("warm queue start error", applogger.Error(err))
		} else {
			a.warmQueue.StartRetryProcessor()
			l.Info("forecast warm queue started", applogger.Int("workers", a.cfg.Queue.Workers))
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.l
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer before closing the storage it writes to
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop warm queue workers
	if a.warmQueue != nil {
		if err := a.warmQueue.Stop(shutdownCtx); err != nil {
			l.Warn("warm queue stop error", applogger.Error(err))
		}
	}

	// Close sale processor resources (publisher/storage)
	if a.SalesProc != nil {
		a.SalesProc.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
