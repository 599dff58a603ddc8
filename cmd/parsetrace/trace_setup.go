package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"parsetrace/internal/config"
	"parsetrace/internal/observ"
	"parsetrace/internal/trace"
)

// traceSetup is the resolved tracing environment of one command invocation.
type traceSetup struct {
	section config.TraceSection
	cfg     trace.Config
	format  trace.Format
	color   bool
	logger  *clog.Logger

	metrics   *prometheus.Registry
	collector *observ.Collector
	echo      *trace.StreamSink
}

// setupTracing reads the persistent flags, loads parsetrace.toml and the
// environment, and installs the logger in the command context.
func setupTracing(cmd *cobra.Command, withMetrics bool) (*traceSetup, error) {
	root := cmd.Root()

	configPath, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	colorStr, err := root.PersistentFlags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorStr)
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := clog.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)

	section, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(section.Format)
	if err != nil {
		return nil, err
	}

	ts := &traceSetup{
		section: section,
		cfg:     section.TraceConfig(),
		format:  format,
		color:   shouldColor(mode, section.Color),
		logger:  logger,
	}
	ts.cfg.Color = ts.color
	ts.echo = trace.NewStreamSink(cmd.OutOrStdout(), trace.RenderOptions{Color: ts.color})

	if withMetrics {
		ts.metrics = prometheus.NewRegistry()
		ts.collector, err = observ.NewCollector(ts.metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	logger.Debug("tracing configured",
		"config", configPath,
		"enabled", ts.cfg.Enabled,
		"format", ts.format.String(),
		"color", ts.color,
	)
	return ts, nil
}

// options returns the registry options shared by every goroutine registry.
func (ts *traceSetup) options() []trace.Option {
	opts := []trace.Option{
		trace.WithLogger(ts.logger),
		trace.WithEcho(ts.echo),
	}
	if ts.collector != nil {
		opts = append(opts, trace.WithSink(ts.collector))
	}
	return opts
}

// install makes the resolved configuration the process default for
// goroutine registries.
func (ts *traceSetup) install() {
	trace.Configure(ts.cfg, ts.options()...)
}
