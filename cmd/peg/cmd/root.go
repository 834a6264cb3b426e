// Package cmd implements peg's cobra subcommands: check, describe, run,
// and repl, plus the --serve-metrics/--metrics-addr flags that serve
// Prometheus metrics alongside any of them, wired together the way Sumatoshi-tech/codefang's
// cmd/codefang/commands package structures one subcommand per file
// under a shared root command.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/peglang/pego/internal/config"
	"github.com/peglang/pego/internal/metrics"
)

var (
	cfgFile      string
	metricsAddr  string
	serveMetrics bool
	cfg          *config.Config
	reg          *metrics.Registry
)

// NewRootCommand builds peg's root cobra command with every subcommand
// attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "peg",
		Short: "peg is a PEG grammar checker, analyzer, and reference interpreter",
		Long: `peg parses and analyzes PEG grammar definitions and can run them
against input text using a reference (non-generating) evaluator.

Commands:
  check     validate a grammar and report diagnostics
  describe  print a table of analyzed rule properties
  run       parse an input file against a grammar's start rule
  repl      interactively reparse a grammar as you edit it`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if metricsAddr != "" {
				loaded.MetricsAddr = metricsAddr
			}
			cfg = loaded
			reg = metrics.New()
			initDisplay(cfg.Color)
			if serveMetrics {
				serveMetricsInBackground(cfg.MetricsAddr)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .pego.yaml in CWD or $HOME)")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (overrides config)")
	root.PersistentFlags().BoolVar(&serveMetrics, "serve-metrics", false, "serve Prometheus metrics alongside whichever command runs")

	root.AddCommand(newCheckCommand())
	root.AddCommand(newDescribeCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newReplCommand())

	return root
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// serveMetricsInBackground starts the Prometheus handler on addr for
// the lifetime of the process; failures are logged, not fatal, since
// metrics are a demo/benchmark convenience, never load-bearing for a
// subcommand's own output.
func serveMetricsInBackground(addr string) {
	srv := &http.Server{Addr: addr, Handler: reg.Handler()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			pterm.Error.Printfln("metrics server stopped: %v", err)
		}
	}()
	pterm.Info.Printfln("serving metrics on %s", addr)
}

func initDisplay(color bool) {
	if !color {
		pterm.DisableColor()
	}
	pterm.Error.Prefix = pterm.Prefix{Text: " ERROR ", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
	pterm.Info.Prefix = pterm.Prefix{Text: " INFO ", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Success.Prefix = pterm.Prefix{Text: " OK ", Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)}
}
