package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"popetl/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	verbose    bool
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		args = []string{"run"}
	}
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "popetl",
		Short:         "Load world cities and export countries below a population threshold",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "JSON config file (defaults are used when empty)")
	pf.StringVar(&g.envFile, "env-file", ".env", "dotenv file loaded before reading POPETL_* variables, if present")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logs")

	root.AddCommand(
		newRunCmd(g),
		newValidateCmd(g),
		newProbeCmd(g),
	)
	return root
}

// loadConfig resolves defaults, the config file and the environment. Flag
// overrides are applied by the caller.
func (g *globalOptions) loadConfig() (config.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, fmt.Errorf("load %s: %w", g.envFile, err)
		}
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// checkConfig prints every issue to w and fails when any is an error.
func checkConfig(w io.Writer, cfg config.Config) error {
	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return errors.New("configuration is invalid")
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.TimeValue(a.Value.Time().UTC())
			}
			return a
		},
	}))
}

// changed reports whether the named flag was set on the command line.
func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}
