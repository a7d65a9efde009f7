package duckdb

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/pharmaguard/internal/report"
)

// Record is a stored assessment.
type Record struct {
	ID             string         `json:"id" yaml:"id"`
	PatientID      string         `json:"patient_id" yaml:"patient_id"`
	Drug           string         `json:"drug" yaml:"drug"`
	Gene           string         `json:"gene" yaml:"gene"`
	Diplotype      string         `json:"diplotype" yaml:"diplotype"`
	Phenotype      string         `json:"phenotype" yaml:"phenotype"`
	RiskLabel      string         `json:"risk_label" yaml:"risk_label"`
	Severity       string         `json:"severity" yaml:"severity"`
	Recommendation string         `json:"recommendation" yaml:"recommendation"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	Result         *report.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// recordFromResult flattens a result into a record with a fresh ID.
// CreatedAt is taken from the result timestamp.
func recordFromResult(res *report.Result) Record {
	p := res.PrimaryProfile()
	created, err := time.Parse(report.TimestampFormat, res.Timestamp)
	if err != nil {
		created = time.Now().UTC()
	}
	return Record{
		ID:             uuid.NewString(),
		PatientID:      res.PatientID,
		Drug:           res.Drug,
		Gene:           p.PrimaryGene,
		Diplotype:      p.Diplotype,
		Phenotype:      p.Phenotype,
		RiskLabel:      res.RiskAssessment.RiskLabel,
		Severity:       res.RiskAssessment.Severity,
		Recommendation: res.ClinicalRecommendation.Recommendation,
		CreatedAt:      created,
		Result:         res,
	}
}

// WriteResults batch-inserts results using the Appender API and returns the
// IDs assigned to them, in order.
func (s *Store) WriteResults(results []*report.Result) ([]string, error) {
	if len(results) == 0 {
		return nil, nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "assessments")
		return err
	}); err != nil {
		return nil, fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	ids := make([]string, 0, len(results))
	for _, res := range results {
		r := recordFromResult(res)
		data, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
		if err := appender.AppendRow(
			r.ID, r.PatientID, r.Drug, r.Gene, r.Diplotype, r.Phenotype,
			r.RiskLabel, r.Severity, r.Recommendation, r.CreatedAt, string(data),
		); err != nil {
			return nil, fmt.Errorf("append assessment: %w", err)
		}
		ids = append(ids, r.ID)
	}

	if err := appender.Flush(); err != nil {
		return nil, fmt.Errorf("flush assessments: %w", err)
	}
	return ids, nil
}

// Recent returns up to limit assessments, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	rows, err := s.db.Query(`SELECT
		id, patient_id, drug, gene, diplotype, phenotype,
		risk_label, severity, recommendation, created_at, result_json
		FROM assessments
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent assessments: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ByPatient returns all assessments for a patient, newest first.
func (s *Store) ByPatient(patientID string) ([]Record, error) {
	rows, err := s.db.Query(`SELECT
		id, patient_id, drug, gene, diplotype, phenotype,
		risk_label, severity, recommendation, created_at, result_json
		FROM assessments
		WHERE patient_id=?
		ORDER BY created_at DESC, id`, patientID)
	if err != nil {
		return nil, fmt.Errorf("query by patient: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the number of stored assessments.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM assessments").Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}

// Clear removes all stored assessments.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM assessments"); err != nil {
		return fmt.Errorf("clear assessments: %w", err)
	}
	return nil
}

// scanRecords scans rows into Records.
func scanRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var data string
		if err := rows.Scan(
			&r.ID, &r.PatientID, &r.Drug, &r.Gene, &r.Diplotype, &r.Phenotype,
			&r.RiskLabel, &r.Severity, &r.Recommendation, &r.CreatedAt, &data,
		); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		var res report.Result
		if err := json.Unmarshal([]byte(data), &res); err != nil {
			return nil, fmt.Errorf("decode stored result %s: %w", r.ID, err)
		}
		r.Result = &res
		r.CreatedAt = r.CreatedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return records, nil
}
