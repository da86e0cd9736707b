package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// options holds the flags shared by every subcommand.
type options struct {
	input      string
	configPath string
	alpha      float64
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dspline",
		Short: "Approximate an expensive 1-D function with an incremental d-spline",
		Long: `dspline fits a regularized smoothing spline to a few samples of a
1-D performance function and suggests which index to measure next.

The input file lists one measured value per line. Text after '#' is
ignored, as are blank lines.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "", "File with one measured value per line (required)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML file with search settings")
	rootCmd.PersistentFlags().Float64Var(&opts.alpha, "alpha", 0.1, "Smoothness weight of the d-spline")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every step at debug level")

	_ = rootCmd.MarkPersistentFlagRequired("input")

	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newFitCmd(opts))

	return rootCmd
}

// newLogger writes text logs to the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
