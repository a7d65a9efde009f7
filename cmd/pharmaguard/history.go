package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/pharmaguard/internal/duckdb"
	"github.com/inodb/pharmaguard/internal/output"
	"github.com/inodb/pharmaguard/internal/risk"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		patient  string
		format   string
		severity string
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded assessments",
		Example: `  pharmaguard history                  # five most recent
  pharmaguard history --limit 20 -f yaml
  pharmaguard history --patient PATIENT_001
  pharmaguard history --min-severity high`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be a positive integer, got %d", limit)
			}
			minSeverity := risk.Severity(severity)
			if severity != "" && minSeverity.Rank() < 0 {
				return fmt.Errorf("unknown severity %q (expected none, low, moderate, high or critical)", severity)
			}

			store, err := duckdb.Open(viper.GetString("history.db"))
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if clearAll {
				if err := store.Clear(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			var records []duckdb.Record
			if patient != "" {
				records, err = store.ByPatient(patient)
			} else {
				records, err = store.Recent(limit)
			}
			if err != nil {
				return err
			}

			if severity != "" {
				records = atLeast(records, minSeverity)
			}

			w, err := output.New(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			for _, r := range records {
				if err := w.Write(r.Result); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of recent assessments to show")
	cmd.Flags().StringVar(&patient, "patient", "", "Show all assessments for a patient")
	cmd.Flags().StringVarP(&format, "format", "f", "tab", "Output format: json, yaml, tab")
	cmd.Flags().StringVar(&severity, "min-severity", "", "Only show assessments at or above this severity")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all recorded assessments")

	return cmd
}

// atLeast keeps the records whose severity ranks at or above floor.
func atLeast(records []duckdb.Record, floor risk.Severity) []duckdb.Record {
	var out []duckdb.Record
	for _, r := range records {
		if risk.Severity(r.Severity).Rank() >= floor.Rank() {
			out = append(out, r)
		}
	}
	return out
}
