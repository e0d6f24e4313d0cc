// Command recorder streams Polymarket CLOB order books into PostgreSQL.
//
// Books arrive from the market channel and from a periodic REST poll of the
// same assets. Both feeds merge in the router, which drops repeats of the
// last book seen per asset before the writer stores them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/polymarket-clob/internal/api"
	"github.com/rickgao/polymarket-clob/internal/config"
	"github.com/rickgao/polymarket-clob/internal/connection"
	"github.com/rickgao/polymarket-clob/internal/database"
	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/market"
	"github.com/rickgao/polymarket-clob/internal/model"
	"github.com/rickgao/polymarket-clob/internal/poller"
	"github.com/rickgao/polymarket-clob/internal/router"
	"github.com/rickgao/polymarket-clob/internal/version"
	"github.com/rickgao/polymarket-clob/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/recorder.yaml", "path to config file")
	envPath := flag.String("env", ".env", "dotenv file with variables for the config (optional)")
	flag.Parse()

	err := config.LoadEnvFile(*envPath)
	var cfg *config.Config
	if err == nil {
		cfg, err = config.LoadAndValidate(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "recorder: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		version.Attr(),
		"config", *configPath,
		"assets", len(cfg.Assets),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("recorder failed", "error", err)
		os.Exit(1)
	}
	logger.Info("recorder stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	d := newDecoder(cfg, logger)

	// Router -> writer
	rt := router.New(cfg.Writer.BufferSize, logger)
	w := writer.NewBookWriter(writer.Config{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
	}, rt.Output(), pool, logger)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start writer: %w", err)
	}

	client := api.NewClient(cfg.API.RestURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.Retries(), cfg.API.RetryBackoff),
		api.WithDecoder(d),
	)

	var assets poller.AssetSource = poller.StaticAssets(cfg.Assets)
	var registry *market.Registry
	if cfg.Discovery.Enabled {
		registry = market.NewRegistry(market.Config{
			ReconcileInterval: cfg.Discovery.Interval,
			MaxAssets:         cfg.Discovery.MaxAssets,
			Static:            cfg.Assets,
		}, client, logger)
		if err := registry.Start(ctx); err != nil {
			return fmt.Errorf("start market registry: %w", err)
		}
		assets = registry
		go logChanges(ctx, registry, logger)
	}
	if len(assets.Assets()) == 0 {
		return errors.New("no assets to record")
	}

	var inputs []<-chan model.BookEvent
	var stream *connection.Stream
	if cfg.Stream.Enabled {
		// The market channel subscription is fixed per connection; assets
		// discovered later are covered by the poller.
		stream = connection.NewStream(streamConfig(cfg), assets.Assets(), d, logger)
		if err := stream.Start(ctx); err != nil {
			return err
		}
		inputs = append(inputs, stream.Books())
	}
	if err := rt.Start(ctx, inputs...); err != nil {
		return fmt.Errorf("start router: %w", err)
	}

	var p *poller.Poller
	if cfg.Poller.Enabled {
		p = poller.New(poller.Config{
			Interval:    cfg.Poller.Interval,
			Concurrency: cfg.Poller.Concurrency,
			Timeout:     cfg.API.Timeout,
		}, client, assets, rt, logger)
		if err := p.Start(ctx); err != nil {
			return fmt.Errorf("start poller: %w", err)
		}
	}

	health := newHealth(pool, logger)
	health.setAssets(assets)
	health.add("router", func() any { return rt.Stats() })
	health.add("writer", func() any { return w.Stats() })
	if stream != nil {
		health.add("stream", func() any { return stream.Stats() })
	}
	if p != nil {
		health.add("poller", func() any { return p.Stats() })
	}
	if registry != nil {
		health.add("registry", func() any { return registry.Stats() })
	}

	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Health.Port),
		Handler:           health,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("recorder running",
		"stream", cfg.Stream.Enabled,
		"poller", cfg.Poller.Enabled,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	// Producers first so the writer sees every routed book.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if stream != nil {
		stream.Stop(shutdownCtx)
	}
	if p != nil {
		p.Stop(shutdownCtx)
	}
	if registry != nil {
		registry.Stop(shutdownCtx)
	}
	rt.Stop(shutdownCtx)
	if err := w.Stop(shutdownCtx); err != nil {
		logger.Warn("writer did not drain", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	return nil
}

func logChanges(ctx context.Context, registry *market.Registry, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-registry.Changes():
			logger.Info("market "+c.EventType,
				"condition_id", c.ConditionID,
				"tokens", len(c.TokenIDs),
			)
		}
	}
}

func newDecoder(cfg *config.Config, logger *slog.Logger) decode.Decoder {
	opts := []decode.Option{decode.WithStrict(cfg.Decode.Strict)}
	if cfg.Decode.Trace {
		opts = append(opts, decode.WithTrace(logger))
	}
	return decode.New(opts...)
}

func streamConfig(cfg *config.Config) connection.StreamConfig {
	sc := connection.DefaultStreamConfig()
	sc.Client.URL = cfg.API.WSURL
	sc.Client.PingInterval = cfg.Stream.PingInterval
	sc.Client.PingTimeout = cfg.Stream.PingTimeout
	sc.ReconnectBaseWait = cfg.Stream.ReconnectBaseDelay
	sc.ReconnectMaxWait = cfg.Stream.ReconnectMaxDelay
	return sc
}
