package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"popetl/internal/config"
	"popetl/internal/etl"
	"popetl/internal/metrics"
	"popetl/internal/metrics/datadog"
	"popetl/internal/metrics/prompush"

	// Register every storage backend with the factory; config picks one.
	_ "popetl/internal/storage/all"
)

type runOptions struct {
	url            string
	dbKind         string
	dbHost         string
	dbPort         int
	dbUser         string
	dbPassword     string
	dbName         string
	dsn            string
	output         string
	threshold      int64
	batchSize      int
	metricsBackend string
	summary        bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, load, aggregate and export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			o.apply(cmd, &cfg)
			if err := checkConfig(cmd.ErrOrStderr(), cfg); err != nil {
				return err
			}

			log := newLogger(cmd.ErrOrStderr(), g.verbose)
			flush := setupMetrics(cfg, log)
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rep, err := etl.Run(ctx, cfg, etl.Deps{Logger: log})
			if err != nil {
				return err
			}
			if o.summary {
				printSummary(cmd.OutOrStdout(), rep)
			}
			return nil
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVar(&o.url, "url", d.Source.URL, "cities CSV location: http(s) URL, file:// URL or path")
	f.StringVar(&o.dbKind, "db-kind", d.Storage.Kind, "storage backend: mysql, postgres, mssql or sqlite")
	f.StringVar(&o.dbHost, "db-host", d.Storage.DB.Host, "database host")
	f.IntVar(&o.dbPort, "db-port", d.Storage.DB.Port, "database port (0 = driver default)")
	f.StringVar(&o.dbUser, "db-user", d.Storage.DB.User, "database user")
	f.StringVar(&o.dbPassword, "db-password", d.Storage.DB.Password, "database password")
	f.StringVar(&o.dbName, "db-name", d.Storage.DB.Database, "database name (file path for sqlite)")
	f.StringVar(&o.dsn, "dsn", "", "full driver DSN; overrides the other db-* flags")
	f.StringVarP(&o.output, "output", "o", d.Output.Path, "TSV output path")
	f.Int64Var(&o.threshold, "threshold", d.Query.PopulationThreshold, "keep countries whose largest city has at most this population")
	f.IntVar(&o.batchSize, "batch-size", d.Storage.BatchSize, "rows per INSERT/COPY batch")
	f.StringVar(&o.metricsBackend, "metrics-backend", d.Metrics.Backend, "metrics backend: none, pushgateway or datadog")
	f.BoolVar(&o.summary, "summary", false, "print a per-stage summary table when done")
	return cmd
}

// apply copies explicitly set flags over cfg.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, fn func()) {
		if changed(f, name) {
			fn()
		}
	}
	set("url", func() { cfg.Source.URL = o.url })
	set("db-kind", func() { cfg.Storage.Kind = o.dbKind })
	set("db-host", func() { cfg.Storage.DB.Host = o.dbHost })
	set("db-port", func() { cfg.Storage.DB.Port = o.dbPort })
	set("db-user", func() { cfg.Storage.DB.User = o.dbUser })
	set("db-password", func() { cfg.Storage.DB.Password = o.dbPassword })
	set("db-name", func() { cfg.Storage.DB.Database = o.dbName })
	set("dsn", func() { cfg.Storage.DB.DSN = o.dsn })
	set("output", func() { cfg.Output.Path = o.output })
	set("threshold", func() { cfg.Query.PopulationThreshold = o.threshold })
	set("batch-size", func() { cfg.Storage.BatchSize = o.batchSize })
	set("metrics-backend", func() { cfg.Metrics.Backend = o.metricsBackend })
}

// setupMetrics installs the configured metrics backend and returns the flush
// to run at exit. Initialization failures leave the nop backend in place.
func setupMetrics(cfg config.Config, log *slog.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
	case "datadog":
		addr := cfg.Metrics.DatadogAddr
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err = datadog.NewBackend(datadog.Config{Addr: addr, GlobalTags: []string{"job:" + cfg.Job}})
	default:
		log.Debug("metrics disabled", "backend", cfg.Metrics.Backend)
		return func() {}
	}
	if err != nil {
		log.Warn("metrics backend unavailable; continuing without metrics", "backend", cfg.Metrics.Backend, "err", err)
		return func() {}
	}

	metrics.SetBackend(b)
	log.Debug("metrics enabled", "backend", cfg.Metrics.Backend)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "err", err)
		}
	}
}

func printSummary(w io.Writer, rep *etl.Report) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Stage", "Rows", "Duration"})
	for _, s := range rep.Stages {
		table.Append([]string{s.Stage, strconv.FormatInt(s.Rows, 10), s.Duration.Truncate(time.Millisecond).String()})
	}
	table.SetFooter([]string{"output: " + rep.Output, fmt.Sprintf("%016x", rep.Fingerprint), rep.Duration().Truncate(time.Millisecond).String()})
	table.Render()
}
