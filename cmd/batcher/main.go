package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/skytag/internal/adapters/nats"
	"github.com/samirrijal/skytag/internal/adapters/valkey"
	"github.com/samirrijal/skytag/internal/core/geotag"
	"github.com/samirrijal/skytag/internal/core/ports"
	"github.com/samirrijal/skytag/internal/core/usecases"
	"github.com/samirrijal/skytag/internal/pkg/config"
	"github.com/samirrijal/skytag/internal/pkg/logging"
	"github.com/samirrijal/skytag/internal/pkg/telemetry"
	"github.com/samirrijal/skytag/internal/workflows"
)

// Usage:
//
//	batcher                     run the worker
//	batcher submit batch.json   start a BatchGeotagWorkflow for the captures in batch.json
func main() {
	cfg, err := config.Load("skytag-batcher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	if len(os.Args) > 2 && os.Args[1] == "submit" {
		submit(c, cfg.Temporal.TaskQueue, os.Args[2])
		return
	}

	ctx := context.Background()
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

	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr, "skytag:")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.BatchGeotagWorkflow)
	w.RegisterActivity(&workflows.GeotagActivities{
		Geotag: usecases.NewGeotagService(engine, cache, pub, cfg.Geotag.CacheTTL),
	})

	slog.Info("batcher worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func submit(c client.Client, taskQueue, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read batch: %v", err)
	}
	var input workflows.BatchGeotagInput
	if err := json.Unmarshal(data, &input); err != nil {
		log.Fatalf("parse batch: %v", err)
	}
	if input.BatchID == "" {
		log.Fatalf("batch %s has no BatchID", path)
	}

	run, err := c.ExecuteWorkflow(context.Background(), client.StartWorkflowOptions{
		ID:        "batch-geotag-" + input.BatchID,
		TaskQueue: taskQueue,
	}, workflows.BatchGeotagWorkflow, input)
	if err != nil {
		log.Fatalf("start workflow: %v", err)
	}
	slog.Info("batch submitted", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "captures", len(input.Captures))

	var result workflows.BatchGeotagResult
	if err := run.Get(context.Background(), &result); err != nil {
		log.Fatalf("batch failed: %v", err)
	}
	slog.Info("batch finished", "footprints", len(result.Footprints), "failed", result.Failed)
}
