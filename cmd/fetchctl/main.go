// Package main implements fetchctl, a small demo driver for the fetchkit
// library: it seeds a document store and walks it page by page with the
// resilient pager.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/fetchkit/config"
	"github.com/c360/fetchkit/docstore"
	"github.com/c360/fetchkit/docstore/memstore"
	"github.com/c360/fetchkit/docstore/sqlstore"
	"github.com/c360/fetchkit/metric"
	"github.com/c360/fetchkit/pager"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "fetchctl"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("fetchctl failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, shouldExit := parseFlags()
	if shouldExit {
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg := config.Default()
	if cliCfg.ConfigPath != "" {
		loaded, err := config.Load(cliCfg.ConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if cliCfg.PageSize > 0 {
		cfg.Pager.PageSize = cliCfg.PageSize
	}

	store, cleanup, err := openStore(cliCfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if cliCfg.Seed > 0 {
		if err := seedStore(ctx, store, cliCfg.Resource, cliCfg.Seed); err != nil {
			return err
		}
		logger.Info("seeded documents", "resource", cliCfg.Resource, "count", cliCfg.Seed)
	}

	metrics := metric.New()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return err
	}

	popts := cfg.PagerOptions()
	ropts := cfg.RetryOptions()
	popts.Retry = &ropts
	popts.Logger = logger
	popts.Metrics = metrics

	p, err := pager.New(store, popts)
	if err != nil {
		return err
	}

	return walkPages(ctx, p, cliCfg, logger)
}

// walkPages pages forward through the resource, printing document IDs.
func walkPages(ctx context.Context, p *pager.Pager, cliCfg *CLIConfig, logger *slog.Logger) error {
	result := p.FetchPage(ctx, cliCfg.Resource, nil)
	for page := 1; ; page++ {
		if result.Code != "" {
			logger.Warn("page fetch needed recovery",
				"resource", cliCfg.Resource, "code", string(result.Code))
		}

		ids := make([]string, 0, len(result.Data))
		for _, doc := range result.Data {
			ids = append(ids, doc.ID)
		}
		fmt.Printf("page %d (%d items): %v\n", result.State.CurrentPage, len(ids), ids)

		if !result.State.HasNextPage || (cliCfg.Pages > 0 && page >= cliCfg.Pages) {
			return nil
		}
		result = p.FetchNextPage(ctx, cliCfg.Resource, result.State)
	}
}

// openStore builds the backend selected by -store.
func openStore(cliCfg *CLIConfig, logger *slog.Logger) (docstore.Store, func(), error) {
	switch cliCfg.Store {
	case "memory":
		return memstore.New(), func() {}, nil
	case "sqlite":
		s, err := sqlstore.Open(cliCfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if cerr := s.Close(); cerr != nil {
				logger.Warn("closing sqlite store", "error", cerr)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want memory or sqlite)", cliCfg.Store)
	}
}

// seedStore inserts n zero-padded documents into whichever backend is open.
func seedStore(ctx context.Context, store docstore.Store, resource string, n int) error {
	switch s := store.(type) {
	case *memstore.Store:
		s.Seed(resource, n)
		return nil
	case *sqlstore.Store:
		for i := 1; i <= n; i++ {
			key := fmt.Sprintf("%06d", i)
			_, err := s.Put(ctx, resource, docstore.Document{
				ID:      key,
				SortKey: key,
				Data:    []byte(fmt.Sprintf(`{"seq":%d}`, i)),
			})
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("store does not support seeding")
	}
}
