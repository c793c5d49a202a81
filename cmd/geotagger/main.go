package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/skytag/internal/adapters/http"
	natsadapter "github.com/samirrijal/skytag/internal/adapters/nats"
	"github.com/samirrijal/skytag/internal/adapters/valkey"
	"github.com/samirrijal/skytag/internal/core/domain"
	"github.com/samirrijal/skytag/internal/core/geotag"
	"github.com/samirrijal/skytag/internal/core/ports"
	"github.com/samirrijal/skytag/internal/core/usecases"
	"github.com/samirrijal/skytag/internal/pkg/config"
	"github.com/samirrijal/skytag/internal/pkg/logging"
	"github.com/samirrijal/skytag/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("skytag-geotagger")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	engine, err := geotag.NewEngine(cfg.Geotag.Engine())
	if err != nil {
		log.Fatalf("geotag engine: %v", err)
	}

	// Cache is optional: without it every redelivery reprojects.
	var cache ports.CacheService
	var pinger http.Pinger
	vc, err := valkey.New(cfg.Valkey.Addr, "skytag:")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache, pinger = vc, vc
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	svc := usecases.NewGeotagService(engine, cache, pub, cfg.Geotag.CacheTTL)

	workerCtx := logging.WithLogger(ctx, slog.Default().With("component", "geotagger"))
	if err := sub.SubscribeCaptures(workerCtx, func(ctx context.Context, c *domain.Capture) error {
		_, err := svc.ProcessCapture(ctx, c)
		return err
	}); err != nil {
		log.Fatalf("subscribe captures: %v", err)
	}
	if err := sub.SubscribeSightings(workerCtx, func(ctx context.Context, ev *domain.SightingEvent) error {
		_, err := svc.LocateSighting(ctx, ev)
		return err
	}); err != nil {
		log.Fatalf("subscribe sightings: %v", err)
	}

	// Ops server
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             256 * 1024,
		AppName:               "skytag geotagger",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	http.SetupRoutes(app, &http.Dependencies{
		Geotag: svc,
		NATS:   pub.Conn(),
		Cache:  pinger,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("geotagger started", "ops_addr", addr, "lens", cfg.Geotag.Lens,
			"resolution", fmt.Sprintf("%vx%v", cfg.Geotag.ImageWidth, cfg.Geotag.ImageHeight))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("geotagger stopped")
}
