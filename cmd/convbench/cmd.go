package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/convolve/internal/bench"
	"github.com/born-ml/convolve/internal/conv"
)

const version = "v0.1.0-dev"

// debugEnv enables debug logging when set to a true value (e.g. CONVBENCH_DEBUG=1).
const debugEnv = "CONVBENCH_DEBUG"

func NewCLI() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "convbench",
		Short: "Benchmark and check the 2D convolution strategies",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			slog.SetDefault(newLogger(debug || envBool(debugEnv)))
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug logs (also "+debugEnv+"=1)")

	rootCmd.AddCommand(newRunCmd(), newCheckCmd(), newVersionCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	cfg := bench.DefaultConfig()
	var padding string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Time every strategy over a sweep of image sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := conv.ParsePadding(padding)
			if err != nil {
				return err
			}
			cfg.Padding = p

			runner, err := bench.NewRunner(cfg, slog.Default())
			if err != nil {
				return err
			}
			results, err := runner.Run(cmd.Context())
			if len(results) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all times are in seconds")
				bench.WriteTable(cmd.OutOrStdout(), results)
			}
			return err
		},
	}

	flags := runCmd.Flags()
	flags.IntVar(&cfg.Images, "images", cfg.Images, "Images per batch")
	flags.IntVar(&cfg.InChannels, "in-channels", cfg.InChannels, "Input channels per image")
	flags.IntVar(&cfg.OutChannels, "out-channels", cfg.OutChannels, "Filter output channels")
	flags.IntVar(&cfg.FilterSize, "filter", cfg.FilterSize, "Square filter side")
	flags.StringVar(&padding, "padding", string(cfg.Padding), "Padding mode: VALID or SAME")
	flags.IntSliceVar(&cfg.Sizes, "sizes", cfg.Sizes, "Square image sides to run, in order")
	flags.IntVar(&cfg.PartialMaxSize, "partial-max", cfg.PartialMaxSize, "Largest size for the partial strategy (<=0: no limit)")
	flags.IntVar(&cfg.NaiveMaxSize, "naive-max", cfg.NaiveMaxSize, "Largest size for the naive strategy (<=0: no limit)")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for inputs and filters")
	flags.BoolVar(&cfg.Verify, "verify", cfg.Verify, "Compare every strategy with the reference output")
	flags.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "Max absolute difference accepted by --verify")
	return runCmd
}

func newCheckCmd() *cobra.Command {
	var tolerance float64

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Compare every strategy with the reference on a small fixed image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bench.SelfCheck(cmd.OutOrStdout(), tolerance)
		},
	}
	checkCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-5, "Max absolute difference per element")
	return checkCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "convbench %s\n", version)
		},
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envBool(name string) bool {
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}
