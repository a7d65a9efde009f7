// Package output provides result output formatters.
package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/inodb/pharmaguard/internal/report"
)

// TabWriter writes one tab-delimited summary row per result.
type TabWriter struct {
	w             *bufio.Writer
	columns       []string
	headerWritten bool
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Patient",
			"Drug",
			"Gene",
			"Diplotype",
			"Phenotype",
			"Risk_label",
			"Severity",
			"Recommendation",
			"Detected_variants",
			"Timestamp",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	tw.headerWritten = true
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single result. The header is written first if needed.
func (tw *TabWriter) Write(res *report.Result) error {
	if !tw.headerWritten {
		if err := tw.WriteHeader(); err != nil {
			return err
		}
	}

	p := res.PrimaryProfile()

	variants := "-"
	if len(p.DetectedVariants) > 0 {
		ids := make([]string, len(p.DetectedVariants))
		for i, v := range p.DetectedVariants {
			ids[i] = v.RSID
		}
		variants = strings.Join(ids, ",")
	}

	values := []string{
		res.PatientID,
		res.Drug,
		orDash(p.PrimaryGene),
		orDash(p.Diplotype),
		orDash(p.Phenotype),
		res.RiskAssessment.RiskLabel,
		res.RiskAssessment.Severity,
		res.ClinicalRecommendation.Recommendation,
		variants,
		res.Timestamp,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
