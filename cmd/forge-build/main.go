// Command forge-build is a reference CLI wrapper around the forge
// pipeline: it loads a YAML config, wires the plaintext or HTML
// splitter, and optionally serves the run's metrics over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/larose/forge"
	"github.com/larose/forge/content"
	"github.com/larose/forge/internal/config"
	"github.com/larose/forge/internal/metrics"
	"github.com/larose/forge/record"
)

func main() {
	configPath := flag.String("config", "", "path to a forge-build YAML config")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: forge-build -config=forge.yaml")
		os.Exit(1)
	}

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	input, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	split, err := splitterFor(cfg.Format)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	if cfg.MetricsAddr != "" {
		serveMetrics(registry, cfg.MetricsAddr)
	}

	return forge.Build(context.Background(), forge.Config{
		Source:     record.NewPlaintextSource(input),
		Split:      split,
		Normalize:  content.Lowercase,
		BatchSize:  cfg.BatchSize,
		Threads:    cfg.Threads,
		OutputBase: cfg.Output,
	}, m)
}

func splitterFor(format string) (content.Splitter, error) {
	switch format {
	case "", "plaintext":
		return content.Plaintext, nil
	case "html":
		return content.HTML, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func serveMetrics(registry *prometheus.Registry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
		}
	}()
}
