package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/pharmaguard/internal/assess"
	"github.com/inodb/pharmaguard/internal/duckdb"
	"github.com/inodb/pharmaguard/internal/output"
	"github.com/inodb/pharmaguard/internal/vcf"
)

func newAssessCmd() *cobra.Command {
	var (
		drugs      []string
		format     string
		outputFile string
		record     bool
	)

	cmd := &cobra.Command{
		Use:   "assess <input-file>",
		Short: "Assess drug risk for a patient VCF file",
		Long: `Assess drug risk for a patient VCF file.

The input may be plain or gzipped; use '-' for stdin. Repeat --drug to
assess several drugs against the same file.`,
		Example: `  pharmaguard assess --drug codeine patient.vcf
  pharmaguard assess --drug warfarin --drug clopidogrel -f tab patient.vcf.gz
  cat patient.vcf | pharmaguard assess --drug simvastatin -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = viper.GetString("output.format")
			}
			if !cmd.Flags().Changed("history") {
				record = viper.GetBool("history.enabled")
			}
			return runAssess(cmd, args[0], drugs, format, outputFile, record)
		},
	}

	cmd.Flags().StringSliceVarP(&drugs, "drug", "d", nil, "Drug to assess (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, tab")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&record, "history", false, "Record results in the history database")
	_ = cmd.MarkFlagRequired("drug")

	return cmd
}

func runAssess(cmd *cobra.Command, inputPath string, drugs []string, format, outputFile string, record bool) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Reject unsupported drugs before opening the input.
	for _, d := range drugs {
		if err := assess.Check(d); err != nil {
			return err
		}
	}

	in, err := vcf.Open(inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w (check that the file path is correct)", err)
		}
		return err
	}
	defer in.Close()

	lines, err := vcf.ReadLines(in)
	if err != nil {
		return err
	}

	engine := assess.NewEngine()
	engine.SetLogger(logger)

	results, err := engine.AssessAll(lines, drugs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := output.New(format, out)
	if err != nil {
		return err
	}
	for _, res := range results {
		if err := w.Write(res); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if record {
		store, err := duckdb.Open(viper.GetString("history.db"))
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		ids, err := store.WriteResults(results)
		if err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		logger.Info("recorded assessments", zap.Strings("ids", ids), zap.String("db", store.Path()))
	}

	return nil
}
