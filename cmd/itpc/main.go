package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"eegitpc/adapters/excel"
	"eegitpc/adapters/results"
	"eegitpc/app"
	"eegitpc/domain/core"
	"eegitpc/domain/eeg"
	"eegitpc/internal"
	"eegitpc/internal/config"
	"eegitpc/internal/errors"
	"eegitpc/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "itpc",
		Short:         "Inter-trial phase coherence from EEG Fourier coefficients",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var envFile string
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading ITPC_* variables")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		return nil
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSummarizeCmd(),
		newConditionsCmd(),
	)
	return rootCmd
}

type runFlags struct {
	input          string
	sheet          string
	output         string
	frequencies    int
	electrodes     int
	workers        int
	conditions     string
	zeroPhaseReals bool
	logLevel       string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute ITPC per condition and electrode and write the results table",
		Long: `Read a trial table (CSV or XLSX) with stimuli, electrode_number and
complex_val_1..complex_val_F columns, compute ITPC for every condition and
electrode, and write the results table plus <output>.manifest.json.

Every flag falls back to its ITPC_* environment variable.

Example: itpc run --input processed_data.csv --output itpc_results.csv --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, f)
			if err != nil {
				return err
			}
			return runAnalysis(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Trial table to read (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read from an .xlsx input (default first sheet)")
	cmd.Flags().StringVarP(&f.output, "output", "o", config.DefaultOutputPath, "Results file to write (.csv or .xlsx)")
	cmd.Flags().IntVar(&f.frequencies, "frequencies", config.DefaultNumFrequencies, "Number of coefficient columns analysed")
	cmd.Flags().IntVar(&f.electrodes, "electrodes", config.DefaultNumElectrodes, "Number of electrodes")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel bucket workers (default number of CPUs)")
	cmd.Flags().StringVar(&f.conditions, "conditions", "", "Condition ranges, e.g. GN=1-30,GS=31-60")
	cmd.Flags().BoolVar(&f.zeroPhaseReals, "zero-phase-reals", false, "Give bare negative reals phase 0 instead of pi")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")

	return cmd
}

// loadRunConfig layers explicitly set flags over the environment
func loadRunConfig(cmd *cobra.Command, f runFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Paths.Input = f.input
	}
	if flags.Changed("sheet") {
		cfg.Paths.Sheet = f.sheet
	}
	if flags.Changed("output") {
		cfg.Paths.Output = f.output
	}
	if flags.Changed("electrodes") {
		cfg.Analysis.NumElectrodes = f.electrodes
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = f.workers
	}
	if flags.Changed("zero-phase-reals") {
		cfg.Analysis.ZeroPhaseForReals = f.zeroPhaseReals
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = internal.ParseLogLevel(f.logLevel).String()
	}
	if flags.Changed("conditions") {
		conditions, err := eeg.ParseConditions(f.conditions)
		if err != nil {
			return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "invalid --conditions")
		}
		cfg.Analysis.Conditions = conditions
	}
	if flags.Changed("frequencies") {
		cfg.Analysis.NumFrequencies = f.frequencies
		if os.Getenv("ITPC_FREQUENCIES") == "" {
			cfg.Analysis.Frequencies = eeg.DefaultFrequencies(f.frequencies)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runAnalysis(ctx context.Context, out io.Writer, cfg *config.Config) error {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	store := results.NewStore(logger)
	service := app.NewAnalysisService(excel.NewDataReader(logger), store, logger, cfg)

	report, err := service.Run(ctx, ports.Source{Path: cfg.Paths.Input, Sheet: cfg.Paths.Sheet})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s: %d rows written to %s\n", report.Manifest.RunID, len(report.Rows), cfg.Paths.Output)
	if n := len(report.Manifest.EmptyBuckets); n > 0 {
		fmt.Fprintf(out, "%d empty buckets reported as nan: %v\n", n, report.Manifest.EmptyBuckets)
	}
	if report.Manifest.Counts.ParseFailures > 0 {
		fmt.Fprintf(out, "%d coefficient cells could not be parsed and were treated as 0+0i\n",
			report.Manifest.Counts.ParseFailures)
	}
	printSummaries(out, report.Summaries, cfg.Analysis.Conditions)
	return nil
}

func newSummarizeCmd() *cobra.Command {
	var conditionsSpec string

	cmd := &cobra.Command{
		Use:   "summarize [results-file]",
		Short: "Print per-condition statistics of mean ITPC from a results table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conditions := eeg.DefaultConditions()
			if conditionsSpec != "" {
				parsed, err := eeg.ParseConditions(conditionsSpec)
				if err != nil {
					return errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "invalid --conditions")
				}
				conditions = parsed
			}

			logger := internal.NewDefaultLogger()
			rows, err := results.NewStore(logger).ReadResults(cmd.Context(), args[0])
			if err != nil {
				if core.IsSchemaError(err) {
					return errors.SchemaInvalid(err)
				}
				return errors.IOFailure("cannot read", args[0], err)
			}
			printSummaries(cmd.OutOrStdout(), app.Summarize(rows, conditions), conditions)
			return nil
		},
	}
	cmd.Flags().StringVar(&conditionsSpec, "conditions", "", "Condition ranges, e.g. GN=1-30,GS=31-60")
	return cmd
}

func newConditionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conditions",
		Short: "Show the configured condition ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range cfg.Analysis.Conditions.Conditions() {
				fmt.Fprintf(out, "%-4s stimuli %3d-%-3d  %s\n", c.Code, c.Low, c.High, c.Label)
			}
			return nil
		},
	}
}

func printSummaries(out io.Writer, summaries []eeg.ConditionSummary, conditions *eeg.ConditionSet) {
	fmt.Fprintln(out, "\nMean ITPC per condition (across electrodes):")
	fmt.Fprintf(out, "%-4s %-28s %8s %8s %8s %8s %8s %6s\n", "Cond", "Label", "Mean", "Std", "Min", "Median", "Max", "Elec")
	for _, s := range summaries {
		label := ""
		if c, ok := conditions.Lookup(s.Condition); ok {
			label = c.Label
		}
		fmt.Fprintf(out, "%-4s %-28s %8.4f %8.4f %8.4f %8.4f %8.4f %6d",
			s.Condition, label, s.Mean, s.StdDev, s.Min, s.Median, s.Max, s.Electrodes)
		if s.Undefined > 0 {
			fmt.Fprintf(out, "  (%d undefined)", s.Undefined)
		}
		fmt.Fprintln(out)
	}
}
