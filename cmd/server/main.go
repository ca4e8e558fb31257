package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/stockroom/internal/adapter/backend"
	"github.com/rl1809/stockroom/internal/adapter/handler"
	"github.com/rl1809/stockroom/internal/adapter/notify"
	"github.com/rl1809/stockroom/internal/adapter/remote"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s backend: %v", cfg.Backend, err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := notify.NewMetricsNotifier(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Initialize service
	cache := service.NewCache()
	inventory := service.NewInventoryService(store, cache, notify.Multi{
		notify.NewLogNotifier(nil),
		metrics,
	})

	loadCtx, loadCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := inventory.Load(loadCtx); err != nil {
		// The server still starts; POST /api/reload retries.
		log.Printf("initial load failed: %v", err)
	} else {
		log.Printf("loaded %d items, %d issuances", len(cache.Items()), len(cache.Issuances()))
	}
	loadCancel()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewHTTPHandler(inventory, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcServer = grpc.NewServer()
		remote.NewServer(store).Register(grpcServer)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcServer != nil {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}
		g.Go(func() error {
			log.Printf("gRPC record store listening on %s", cfg.GRPCAddr)
			return grpcServer.Serve(lis)
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
		log.Println("HTTP server stopped")

		if grpcServer != nil {
			grpcServer.GracefulStop()
			log.Println("gRPC server stopped")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("server error: %v", err)
	}

	if err := closeStore(); err != nil {
		log.Printf("failed to close store: %v", err)
	}
	log.Println("connections closed")

	if ctx.Err() == nil {
		os.Exit(1)
	}
}
