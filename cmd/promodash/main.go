// Package main provides the entry point for the promotional priority dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spektr-org/promodash/dashboard"
	"github.com/spektr-org/promodash/dataset"
	"github.com/spektr-org/promodash/internal/config"
	"github.com/spektr-org/promodash/internal/handler"
	"github.com/spektr-org/promodash/internal/metrics"
	"github.com/spektr-org/promodash/internal/server"
	"github.com/spektr-org/promodash/render"
)

const version = "0.1.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "Path to config file")
	export := flag.String("export", "", "Print the default view and exit: json, pretty, csv, text")
	panel := flag.String("panel", "ranking", "Panel for -export csv: ranking, "+handler.ChartTypeEfficiency+", "+handler.ChartDeptEfficiency)
	outFile := flag.String("out", "", "Write export output to file instead of stdout")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `promodash: promotional priority dashboard

Usage:
  promodash -config config.yaml
  promodash -export text
  promodash -export csv -panel dept-efficiency -out dept.csv

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  PROMODASH_*    Overrides any config key, e.g. PROMODASH_DATA_DIR=/srv/data
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("promodash %s\n", version)
		os.Exit(0)
	}

	// ── Configuration ─────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load configuration: %v", err)
	}

	// Export output owns stdout, so logs move to stderr.
	if *export != "" {
		cfg.Logging.Output = "stderr"
	}
	logger := initLogger(cfg.Logging)
	defer logger.Sync()

	if *export != "" {
		if err := runExport(cfg, logger, *export, *panel, *outFile); err != nil {
			logger.Error("export failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	runServer(cfg, logger)
}

// runServer loads the datasets and serves the dashboard until a signal arrives.
func runServer(cfg *config.Config, logger *zap.Logger) {
	logger.Info("starting promodash",
		zap.String("version", version),
		zap.Int("server_port", cfg.Server.Port),
		zap.String("data_dir", cfg.Data.Dir),
	)

	m := metrics.NewMetrics()
	cache := newCache(cfg, logger, m)

	if cfg.Data.Preload {
		if _, err := cache.Load(); err != nil {
			logger.Fatal("failed to load datasets", zap.Error(err))
		}
		m.SetHealthStatus(true)
		logger.Info("datasets loaded")
	}

	var metricsServer *metrics.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewMetricsServer(m, cfg.Metrics.Port, cfg.Metrics.Path, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
		logger.Info("metrics server started",
			zap.Int("port", cfg.Metrics.Port),
			zap.String("path", cfg.Metrics.Path),
		)
	}

	httpServer := server.NewServer(cfg, cache, m, logger)
	httpServer.SetupRoutes()

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("initiating graceful shutdown")
	m.SetHealthStatus(false)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown HTTP server", zap.Error(err))
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}

	logger.Info("promodash shutdown complete")
}

// runExport renders the default view once and writes it in format.
func runExport(cfg *config.Config, logger *zap.Logger, format, panel, outFile string) error {
	dash := dashboard.New(newCache(cfg, logger, nil), cfg.Dashboard.Options(), logger)
	view, err := dash.Render(dashboard.All())
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json", "pretty":
		err = render.WriteJSON(w, view, format == "pretty")
	case "text":
		err = render.WriteText(w, view)
	case "csv":
		switch panel {
		case "ranking":
			err = render.WriteTableCSV(w, view.Ranking)
		case handler.ChartTypeEfficiency:
			err = render.WriteChartCSV(w, view.TypeEfficiency)
		case handler.ChartDeptEfficiency:
			err = render.WriteChartCSV(w, view.DeptEfficiency)
		default:
			return fmt.Errorf("unknown panel %q", panel)
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	if outFile != "" {
		logger.Info("export written", zap.String("file", outFile), zap.String("format", format))
	}
	return nil
}

// newCache wires the dataset loader behind a load-once cache. m may be nil.
func newCache(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *dataset.Cache {
	opts := []dataset.LoaderOption{
		dataset.WithHeaderRows(cfg.Data.HeaderRows),
		dataset.WithLogger(logger),
	}
	if m != nil {
		opts = append(opts, dataset.WithRecorder(m))
	}
	return dataset.NewCache(dataset.NewLoader(cfg.Data.Paths(), opts...))
}

// initLogger builds the zap logger from the logging config.
func initLogger(cfg config.LoggingConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	output := cfg.Output
	if output == "" {
		output = "stdout"
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{output}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
