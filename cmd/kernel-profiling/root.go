package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harupy/kernel-profiling/config"
	"github.com/harupy/kernel-profiling/profiler"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var opts profiler.Options

	cmd := &cobra.Command{
		Use:   "kernel-profiling",
		Short: "Profile the top public kernels of a Kaggle competition",
		Long: `kernel-profiling drives a headless browser to the competition's public
code listing, extracts kernel metadata (title, author, votes), optionally
walks each kernel's version history collecting public scores, and writes a
Markdown report.

Browser, navigation, and fetch behavior are tuned with KERNELPROF_*
environment variables; see config.Load for the full list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			initLogger(cfg.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("kernel-profiling starting",
				"comp", opts.Comp,
				"count", opts.Count,
				"versions", opts.Versions,
				"output", opts.Output,
			)
			return profiler.Run(ctx, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Comp, "comp", "c", "", "competition tag (e.g. titanic)")
	cmd.Flags().IntVar(&opts.Count, "count", 20, "number of kernels to profile")
	cmd.Flags().BoolVar(&opts.Versions, "versions", true, "collect each kernel's version history and scores")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "result.md", "report output path")
	_ = cmd.MarkFlagRequired("comp")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
