// clobctl fetches or decodes Polymarket CLOB responses and prints the typed
// result as JSON.
//
// Usage:
//
//	clobctl -kind market -id 0x5f65...
//	clobctl -kind markets -cursor MTAw
//	clobctl -kind book -id 7132...
//	clobctl -kind books -id 7132...,4821...
//	clobctl -kind prices-history -id 7132... -interval 1d
//	clobctl -kind market -file testdata/market.json -strict
//
// With -file the body is read from disk and decoded offline. A rejected
// request prints the error response and exits with status 2.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/polymarket-clob/internal/api"
	"github.com/rickgao/polymarket-clob/internal/config"
	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

type options struct {
	kind     string
	id       string
	cursor   string
	file     string
	interval string
	fidelity int
	start    int64
	end      int64
}

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	envPath := flag.String("env", ".env", "dotenv file with variables for the config (optional)")
	strict := flag.Bool("strict", false, "fail on missing required fields")
	trace := flag.Bool("trace", false, "log raw bodies before decoding")

	var opts options
	flag.StringVar(&opts.kind, "kind", "", "response kind: "+kindList())
	flag.StringVar(&opts.id, "id", "", "condition id, token id, or comma-separated token ids for books")
	flag.StringVar(&opts.cursor, "cursor", "", "pagination cursor")
	flag.StringVar(&opts.file, "file", "", "decode a saved response body instead of calling the API")
	flag.StringVar(&opts.interval, "interval", string(model.IntervalOneDay), "prices-history interval")
	flag.IntVar(&opts.fidelity, "fidelity", 0, "prices-history resolution in minutes")
	flag.Int64Var(&opts.start, "start", 0, "prices-history start (unix seconds)")
	flag.Int64Var(&opts.end, "end", 0, "prices-history end (unix seconds)")
	flag.Parse()

	err := config.LoadEnvFile(*envPath)
	var cfg *config.Config
	if err == nil {
		cfg, err = config.LoadWithDefaults(*configPath)
	}
	if err == nil {
		cfg.Decode.Strict = cfg.Decode.Strict || *strict
		cfg.Decode.Trace = cfg.Decode.Trace || *trace
		if *trace {
			cfg.Log.Level = "debug"
		}
		err = cfg.ValidateClient()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "clobctl: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	resp, err := run(ctx, cfg, opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clobctl: %v\n", err)
		os.Exit(1)
	}

	if err := printJSON(os.Stdout, resp); err != nil {
		fmt.Fprintf(os.Stderr, "clobctl: %v\n", err)
		os.Exit(1)
	}

	if e, ok := resp.(api.ErrorResponse); ok {
		logger.Warn("request rejected", "error", e.Err())
		os.Exit(2)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) (any, error) {
	decOpts := []decode.Option{decode.WithStrict(cfg.Decode.Strict)}
	if cfg.Decode.Trace {
		decOpts = append(decOpts, decode.WithTrace(logger))
	}
	d := decode.New(decOpts...)

	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return decodeBody(d, opts.kind, data)
	}

	client := api.NewClient(cfg.API.RestURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.Retries(), cfg.API.RetryBackoff),
		api.WithDecoder(d),
	)
	return fetch(ctx, client, opts)
}

// printJSON writes v as indented JSON. Responses are wrapped with their
// status so error bodies and results are told apart.
func printJSON(w io.Writer, v any) error {
	out := v
	if r, ok := v.(api.Response); ok {
		out = struct {
			Status string `json:"status"`
			Result any    `json:"result"`
		}{r.Status().String(), r}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

var errUnknownKind = errors.New("unknown kind")
