package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coltype/internal/audit"
	"github.com/coltype/internal/columns"
	"github.com/coltype/internal/engine"
	"github.com/coltype/internal/web"
)

var version = "dev"

var (
	// Global flags
	configPath string
	recordRuns bool

	// Wired components, built in PersistentPreRunE
	cli *app
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line in args, writing command output to out
func run(args []string, out io.Writer) error {
	cli = nil
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)

	err := rootCmd.Execute()
	if cli != nil {
		cli.close()
	}
	return err
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coltype",
		Short:         "Semantic column typing for tabular data",
		Long:          `Infers whether a column holds phone numbers, company names, countries or dates, and splits phone numbers and company names into their parts`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cli, err = newApp(cmd.Context(), configPath, recordRuns)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&recordRuns, "record", false, "store classification runs in the configured database")

	// Add subcommands
	rootCmd.AddCommand(createClassifyCmd())
	rootCmd.AddCommand(createColumnsCmd())
	rootCmd.AddCommand(createParseCmd())
	rootCmd.AddCommand(createSplitCmd())
	rootCmd.AddCommand(createExplainCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createRunsCmd())

	return rootCmd
}

// createClassifyCmd classifies a single column of a CSV file
func createClassifyCmd() *cobra.Command {
	var input, column, outputFile string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one column of a CSV file",
		Long:  `Prints the semantic type of a column and its confidence, e.g. "PhoneNumber 2.33"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			table, err := columns.LoadCSV(input)
			if err != nil {
				return err
			}
			header, values, err := table.Lookup(column)
			if err != nil {
				return err
			}

			result := cli.engine.Classify(values)
			line := result.String()
			fmt.Fprintln(cmd.OutOrStdout(), line)

			if outputFile != "" {
				if err := os.WriteFile(outputFile, []byte(line+"\n"), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outputFile, err)
				}
			}

			cli.record(cmd.Context(), audit.Run{
				Source:    input,
				Command:   "classify",
				StartedAt: started,
				Columns:   []engine.ColumnReport{{Column: header, Result: result}},
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input CSV file")
	cmd.Flags().StringVar(&column, "column", "", "column name or alias (phone, company, country, date)")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "also write the result to this file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("column")
	return cmd
}

// createColumnsCmd classifies every column of a CSV file
func createColumnsCmd() *cobra.Command {
	var input, output string
	var noSave bool

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Classify every column of a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			table, err := columns.LoadCSV(input)
			if err != nil {
				return err
			}

			reports := cli.engine.ClassifyAll(table)
			if err := engine.WriteReportTable(cmd.OutOrStdout(), reports); err != nil {
				return err
			}

			if !noSave {
				if err := saveReports(output, reports); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to %s\n", output)
			}

			cli.record(cmd.Context(), audit.Run{
				Source:    input,
				Command:   "columns",
				StartedAt: started,
				Columns:   reports,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input CSV file")
	cmd.Flags().StringVar(&output, "output", "results.csv", "where to save the column report")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "print only, do not write the report file")
	cmd.MarkFlagRequired("input")
	return cmd
}

func saveReports(path string, reports []engine.ColumnReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := engine.WriteReportCSV(f, reports); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// createParseCmd splits the best phone and company columns into parts
func createParseCmd() *cobra.Command {
	var input, output, region string
	var minConfidence float64

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Split the phone and company columns of a CSV file",
		Long: `Classifies every column, picks the most confident PhoneNumber and CompanyName
columns and writes original and parsed values side by side`,
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			table, err := columns.LoadCSV(input)
			if err != nil {
				return err
			}

			opts := engine.ParseOptions{
				MinConfidence: cli.cfg.Parse.MinConfidence,
				Region:        cli.cfg.Parse.DefaultRegion,
			}
			if cmd.Flags().Changed("min-confidence") {
				opts.MinConfidence = minConfidence
			}
			if region != "" {
				opts.Region = strings.ToUpper(region)
			}

			out, err := cli.engine.ParseTable(table, opts)
			if errors.Is(err, engine.ErrNoColumns) {
				w := cmd.OutOrStdout()
				if err := engine.WriteReportTable(w, out.Reports); err != nil {
					return err
				}
				fmt.Fprintf(w, "Warning: no phone or company column met the %.0f%% confidence threshold, nothing written\n",
					opts.MinConfidence*100)
				cli.logger.Warn("parse skipped", zap.String("input", input), zap.Float64("min_confidence", opts.MinConfidence))
				return nil
			}
			if err != nil {
				return err
			}

			if err := columns.SaveCSV(output, out.Headers, out.Rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d rows (phone column %q, company column %q) to %s\n",
				len(out.Rows), out.PhoneColumn, out.CompanyColumn, output)

			cli.record(cmd.Context(), audit.Run{
				Source:        input,
				Command:       "parse",
				PhoneColumn:   out.PhoneColumn,
				CompanyColumn: out.CompanyColumn,
				StartedAt:     started,
				Columns:       out.Reports,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input CSV file")
	cmd.Flags().StringVar(&output, "output", "output.csv", "output CSV file")
	cmd.Flags().StringVar(&region, "region", "", "default region for national phone numbers (overrides parse.default_region)")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "lowest confidence a column needs (overrides parse.min_confidence)")
	cmd.MarkFlagRequired("input")
	return cmd
}

// createSplitCmd creates the split subcommand
func createSplitCmd() *cobra.Command {
	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Split single values",
	}

	splitCmd.AddCommand(createSplitCompanyCmd())
	splitCmd.AddCommand(createSplitPhoneCmd())

	return splitCmd
}

func createSplitCompanyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "company [name...]",
		Short: "Separate company names from their legal suffix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, v := range args {
				s := cli.engine.SplitCompany(v)
				fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Legal)
			}
			return nil
		},
	}
}

func createSplitPhoneCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "phone [number...]",
		Short: "Split phone numbers into country and E.164 number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, v := range args {
				s := cli.engine.SplitPhone(v, strings.ToUpper(region))
				fmt.Fprintf(w, "%s\t%s\n", s.Country, s.Number)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "default region for national numbers")
	return cmd
}

// createExplainCmd shows how the suffix matcher sees a company name
func createExplainCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "explain [company name]",
		Short: "Show tokens, candidate suffixes and the match for a company name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.matcher.Explain(args[0], top).Write(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&top, "top", 20, "number of candidate suffixes to list")
	return cmd
}

// createServeCmd starts the HTTP API
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := web.Options{
				Config:        cli.cfg.Server,
				Engine:        cli.engine,
				Metrics:       cli.metrics,
				Logger:        cli.logger,
				Countries:     cli.refs.CountryCount(),
				LegalSuffixes: cli.matcher.Len(),
				Version:       version,
			}
			if cli.tracker != nil {
				opts.Recorder = cli.tracker
			}

			return web.NewServer(opts).Start(ctx)
		},
	}
}

// createRunsCmd lists recorded runs
func createRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs, or show the columns of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.tracker == nil {
				if err := cli.openRecorder(cmd.Context()); err != nil {
					return err
				}
			}

			if len(args) == 1 {
				return showRun(cmd.Context(), cmd.OutOrStdout(), args[0])
			}

			runs, err := cli.tracker.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range runs {
				fmt.Fprintf(w, "%s  %s  %-8s %-6s %s\n",
					r.ID, r.StartedAt.Local().Format(time.DateTime), r.Command, r.Duration.Round(time.Millisecond), r.Source)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	return cmd
}

func showRun(ctx context.Context, w io.Writer, id string) error {
	runID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", id, err)
	}
	reports, err := cli.tracker.RunColumns(ctx, runID)
	if err != nil {
		return err
	}
	return engine.WriteReportTable(w, reports)
}
