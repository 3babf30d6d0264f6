package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/blobstore"
	"github.com/hupe1980/salvo/codec"
	"github.com/hupe1980/salvo/metric"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	cfg        Config

	store   blobstore.BlobStore
	engine  *salvo.Engine
	logger  *salvo.Logger
	metrics *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}

	root := &cobra.Command{
		Use:   "salvo",
		Short: "Build, verify and query Battleship board datasets",
		Long: `salvo enumerates every legal Battleship board, stores them as a
compressed dataset and counts the boards consistent with observed hits
and misses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.cfg.Store.Kind, "store", a.cfg.Store.Kind, "store kind: local, s3 or minio")
	pf.StringVar(&a.cfg.Store.Root, "root", a.cfg.Store.Root, "root directory of the local store")
	pf.StringVar(&a.cfg.Store.Bucket, "bucket", "", "bucket of the s3 or minio store")
	pf.StringVar(&a.cfg.Store.Prefix, "prefix", "", "key prefix inside the bucket")
	pf.StringVar(&a.cfg.Store.Endpoint, "endpoint", "", "object store endpoint")
	pf.StringVar(&a.cfg.Store.Region, "region", "", "object store region")
	pf.StringVar(&a.cfg.Log.Level, "log-level", a.cfg.Log.Level, "log level: debug, info, warn or error")
	pf.StringVar(&a.cfg.Log.Format, "log-format", a.cfg.Log.Format, "log format: text or json")
	pf.Int64Var(&a.cfg.Limits.IOBytesPerSec, "io-limit", 0, "dataset IO limit in bytes per second (0 = unlimited)")
	pf.Int64Var(&a.cfg.Limits.MaxConcurrentQueries, "max-queries", 0, "concurrent query limit (0 = unlimited)")
	pf.StringVar(&a.cfg.Metrics.Addr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newGenerateCmd(a),
		newCountCmd(a),
		newQueryCmd(a),
		newVerifyCmd(a),
		newStatsCmd(a),
		newListCmd(a),
	)
	return root
}

// setup loads the config file and overlays the flags the user set.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		fileCfg, err := LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = overlay(fileCfg, a.cfg, cmd)
	}

	logger, err := a.cfg.Log.Logger()
	if err != nil {
		return err
	}
	a.logger = logger

	manifestCodec, err := codec.ByName(a.cfg.Build.Codec)
	if err != nil {
		return err
	}

	opts := []salvo.Option{
		salvo.WithCodec(manifestCodec),
		salvo.WithLogger(logger),
		salvo.WithResourceController(a.cfg.Limits.Controller()),
	}
	if a.cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, salvo.WithMetricsCollector(metric.NewPrometheusCollector(reg)))
		if err := a.serveMetrics(reg); err != nil {
			return err
		}
	}

	store, err := OpenStore(cmd.Context(), a.cfg.Store)
	if err != nil {
		return err
	}
	a.store = store
	a.engine = salvo.New(store, opts...)
	return nil
}

func (a *app) serveMetrics(reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", a.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return a.metrics.Shutdown(ctx)
}

// overlay returns file with every flag the user set on cmd taken from flags.
func overlay(file, flags Config, cmd *cobra.Command) Config {
	set := func(name string, dst *string, src string) {
		if cmd.Flags().Changed(name) {
			*dst = src
		}
	}
	set("store", &file.Store.Kind, flags.Store.Kind)
	set("root", &file.Store.Root, flags.Store.Root)
	set("bucket", &file.Store.Bucket, flags.Store.Bucket)
	set("prefix", &file.Store.Prefix, flags.Store.Prefix)
	set("endpoint", &file.Store.Endpoint, flags.Store.Endpoint)
	set("region", &file.Store.Region, flags.Store.Region)
	set("log-level", &file.Log.Level, flags.Log.Level)
	set("log-format", &file.Log.Format, flags.Log.Format)
	set("metrics-addr", &file.Metrics.Addr, flags.Metrics.Addr)
	set("fleet", &file.Build.Fleet, flags.Build.Fleet)
	set("adjacency", &file.Build.Adjacency, flags.Build.Adjacency)
	set("compression", &file.Build.Compression, flags.Build.Compression)
	set("format", &file.Build.Format, flags.Build.Format)
	set("codec", &file.Build.Codec, flags.Build.Codec)

	setInt := func(name string, dst *int, src int) {
		if cmd.Flags().Changed(name) {
			*dst = src
		}
	}
	setInt("width", &file.Build.Width, flags.Build.Width)
	setInt("height", &file.Build.Height, flags.Build.Height)
	setInt("level", &file.Build.Level, flags.Build.Level)
	setInt("workers", &file.Build.Workers, flags.Build.Workers)

	if cmd.Flags().Changed("canonical") {
		file.Build.CanonicalOnly = flags.Build.CanonicalOnly
	}
	if cmd.Flags().Changed("io-limit") {
		file.Limits.IOBytesPerSec = flags.Limits.IOBytesPerSec
	}
	if cmd.Flags().Changed("max-queries") {
		file.Limits.MaxConcurrentQueries = flags.Limits.MaxConcurrentQueries
	}
	return file
}
