package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/yaswanthrajeev/bi-dashboard/internal/config"
	"github.com/yaswanthrajeev/bi-dashboard/internal/httpx"
	"github.com/yaswanthrajeev/bi-dashboard/internal/loader"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	manifest, err := loader.LoadManifest(cfg.ManifestPath)
	if err != nil {
		logger.Error("manifest error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	ld := loader.New(manifest, logger)
	if _, err := ld.Load(); err != nil {
		logger.Error("initial load failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	r := httpx.NewRouter(logger, ld)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
