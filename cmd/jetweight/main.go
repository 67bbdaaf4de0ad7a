package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quarkline/jetweight/internal/api"
	"github.com/quarkline/jetweight/internal/calib"
	"github.com/quarkline/jetweight/internal/config"
	"github.com/quarkline/jetweight/internal/engine"
	"github.com/quarkline/jetweight/internal/pipeline"
	"github.com/quarkline/jetweight/internal/provider"
	"github.com/quarkline/jetweight/internal/store"
	"github.com/quarkline/jetweight/internal/stream"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Calibration: embedded tables unless a file override is given.
	// Any defect here is fatal; a bad table corrupts every weight.
	tagger, err := calib.ParseTagger(cfg.Calibration.Tagger)
	if err != nil {
		logger.Error("invalid calibration config", "error", err)
		os.Exit(1)
	}
	channel, err := calib.ParseChannel(cfg.Calibration.Channel)
	if err != nil {
		logger.Error("invalid calibration config", "error", err)
		os.Exit(1)
	}
	var set *calib.FlavorSet
	if cfg.Calibration.File != "" {
		f, err := calib.LoadFile(cfg.Calibration.File)
		if err != nil {
			logger.Error("failed to load calibration file", "error", err)
			os.Exit(1)
		}
		set, err = f.Set(tagger, channel)
		if err != nil {
			logger.Error("failed to build calibration set", "error", err)
			os.Exit(1)
		}
		logger.Info("loaded calibration file", "path", cfg.Calibration.File, "tagger", tagger, "channel", channel)
	} else {
		set, err = calib.DefaultSet(tagger, channel)
		if err != nil {
			logger.Error("failed to build calibration set", "error", err)
			os.Exit(1)
		}
		logger.Info("using embedded calibration tables", "tagger", tagger, "channel", channel)
	}

	heavyShift, err := engine.ParseShift(cfg.Calibration.HeavyShift)
	if err != nil {
		logger.Error("invalid heavy shift", "error", err)
		os.Exit(1)
	}
	lightShift, err := engine.ParseShift(cfg.Calibration.LightShift)
	if err != nil {
		logger.Error("invalid light shift", "error", err)
		os.Exit(1)
	}
	eng, err := engine.New(set, heavyShift, lightShift)
	if err != nil {
		logger.Error("failed to build weight engine", "error", err)
		os.Exit(1)
	}

	leptonShift, err := engine.ParseShift(cfg.Lepton.Shift)
	if err != nil {
		logger.Error("invalid lepton shift", "error", err)
		os.Exit(1)
	}
	var periods []engine.PeriodLumi
	for _, p := range cfg.Lepton.Periods {
		periods = append(periods, engine.PeriodLumi{Name: p.Name, Lumi: p.Lumi})
	}
	lep, err := engine.NewLeptonCorrections(periods, leptonShift)
	if err != nil {
		logger.Error("failed to build lepton corrections", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Stream (optional)
	var streamClient stream.Client
	if cfg.Stream.URL != "" {
		sc, err := stream.NewNATSClient(ctx, cfg.Stream.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to stream, running without events", "error", err)
		} else {
			streamClient = sc
			defer sc.Close()
			logger.Info("connected to stream")
		}
	}

	// Provider (optional)
	var providerClient provider.Client
	if cfg.Provider.URL != "" {
		providerClient = provider.NewHTTPClient(cfg.Provider.URL, cfg.Provider.Token)
		logger.Info("event provider configured", "url", cfg.Provider.URL)
	}

	// Metrics
	metrics := pipeline.NewMetrics()
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Pipeline
	p := pipeline.New(db, streamClient, providerClient, eng, lep, cfg, metrics, logger)
	p.Start(ctx)
	defer p.Stop()
	p.SetupSubscriptions()
	logger.Info("pipeline started",
		"heavy_shift", heavyShift, "light_shift", lightShift,
		"stats_interval", cfg.StatsInterval())

	// API server
	router := api.NewRouter(db, eng, lep, p, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
