package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MetalBoard/internal/board"
	"MetalBoard/internal/collector"
	"MetalBoard/internal/config"
	"MetalBoard/internal/display"
	"MetalBoard/internal/freshness"
	"MetalBoard/internal/notifier"
	"MetalBoard/internal/recorder"
	"MetalBoard/internal/scheduler"
	"MetalBoard/internal/server"
	"MetalBoard/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MetalBoard starting...")

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("[WARN] %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc := cfg.Location()

	// Init loader
	var loader collector.Loader
	if cfg.Data.BaseURL != "" {
		loader = collector.NewHTTPLoader(cfg.Data.BaseURL, cfg.Proxy)
	} else {
		loader = collector.NewFileLoader(cfg.Data.Dir)
	}
	log.Printf("[INFO] data source: %s", loader.Name())

	// Init cache store
	cache, err := store.Open(cfg.Cache.Backend, cfg.Cache.Path)
	if err != nil {
		log.Printf("[WARN] open %s cache failed, using memory: %v", cfg.Cache.Backend, err)
		cache = store.NewMemoryStore()
	}
	defer cache.Close()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	surface := display.NewBoardSurface()

	builder := board.NewBuilder(collector.NewCollector(loader), surface, rec, cfg.Output.HTMLPath)
	builder.Title = cfg.Output.Title

	source := freshness.NewGitHubSource(cfg.Workflow.APIBase, cfg.Workflow.Owner, cfg.Workflow.Repo,
		cfg.Workflow.File, cfg.Workflow.Token, cfg.Proxy)
	tracker := freshness.NewTracker(cache, source, surface, freshness.Config{
		TTL:      cfg.Cache.TTL,
		Interval: cfg.Workflow.Interval,
		Location: loc,
	})

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, builder, tracker, source.Name(), tn, rec, loc)

	// One-shot static build
	if os.Getenv("BUILD_ONLY") == "true" {
		sched.RunNow()
		tracker.Stop()
		if cfg.Output.HTMLPath == "" {
			log.Println("[WARN] BUILD_ONLY set without output.html_path; nothing written")
		} else {
			log.Printf("[INFO] page written to %s", cfg.Output.HTMLPath)
		}
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.BoardCron, cfg.Schedule.FreshnessCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.RunNow()
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	srv := server.New(server.Config{
		Addr:    cfg.Server.Addr,
		Builder: builder,
		Surface: surface,
		Tracker: tracker,
	})
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] MetalBoard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] MetalBoard stopped")
}
