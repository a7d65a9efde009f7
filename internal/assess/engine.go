// Package assess runs the pharmacogenomic resolution pipeline: variant
// parsing, diplotype calling, phenotype resolution, risk lookup and result
// assembly.
package assess

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/pharmaguard/internal/diplotype"
	"github.com/inodb/pharmaguard/internal/drug"
	"github.com/inodb/pharmaguard/internal/phenotype"
	"github.com/inodb/pharmaguard/internal/report"
	"github.com/inodb/pharmaguard/internal/risk"
	"github.com/inodb/pharmaguard/internal/vcf"
)

// Engine resolves drug risk from variant files. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	assembler *report.Assembler
	logger    *zap.Logger
}

// NewEngine creates an engine using the wall clock for timestamps.
func NewEngine() *Engine {
	return &Engine{
		assembler: report.NewAssembler(),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and debug messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// SetAssembler replaces the result assembler.
func (e *Engine) SetAssembler(a *report.Assembler) {
	e.assembler = a
}

// Assess resolves the risk of drugName for the patient described by lines.
// Unsupported drugs fail with *UnsupportedDrugError before any parsing.
func (e *Engine) Assess(lines []string, drugName string) (*report.Result, error) {
	results, err := e.AssessAll(lines, []string{drugName})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// AssessReader reads a variant file from r and assesses drugName.
// The drug is checked before r is read.
func (e *Engine) AssessReader(r io.Reader, drugName string) (*report.Result, error) {
	if err := Check(drugName); err != nil {
		return nil, err
	}
	lines, err := vcf.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return e.Assess(lines, drugName)
}

// AssessAll assesses several drugs against one variant file, which is parsed
// once. Every drug is checked first; if any is unsupported no results are
// returned. Results follow the order of drugs.
func (e *Engine) AssessAll(lines []string, drugs []string) ([]*report.Result, error) {
	if len(drugs) == 0 {
		return nil, fmt.Errorf("no drug given")
	}
	for _, d := range drugs {
		if err := Check(d); err != nil {
			return nil, err
		}
	}

	patientID := vcf.PatientID(lines)
	variants := vcf.ParseLines(lines)
	e.logger.Debug("parsed variant file",
		zap.String("patient_id", patientID),
		zap.Int("lines", len(lines)),
		zap.Int("variants", len(variants)))

	results := make([]*report.Result, len(drugs))
	for i, d := range drugs {
		results[i] = e.resolve(patientID, variants, drug.Normalize(d))
	}
	return results, nil
}

// resolve runs the stages after parsing for a single supported drug.
func (e *Engine) resolve(patientID string, variants []vcf.Variant, drugName string) *report.Result {
	gene, _ := drug.Gene(drugName)

	call := diplotype.CallGene(variants, gene)
	if len(call.Dropped) > 0 {
		e.logger.Warn("more than two star alleles, extra alleles ignored",
			zap.String("patient_id", patientID),
			zap.String("gene", gene),
			zap.Strings("alleles", call.Alleles),
			zap.Strings("dropped", call.Dropped))
	}

	p, rule := phenotype.Explain(gene, call.Diplotype)
	assessment, found := risk.Find(drugName, p)
	if !found {
		assessment = risk.Fallback
		e.logger.Info("no risk rule for drug and phenotype",
			zap.String("drug", drugName),
			zap.String("phenotype", string(p)))
	}

	e.logger.Debug("resolved drug risk",
		zap.String("patient_id", patientID),
		zap.String("drug", drugName),
		zap.String("gene", gene),
		zap.String("diplotype", call.Diplotype.String()),
		zap.String("phenotype", string(p)),
		zap.String("rule", rule),
		zap.String("risk_label", string(assessment.Label)))

	return e.assembler.Assemble(report.Input{
		PatientID: patientID,
		Drug:      drugName,
		Gene:      gene,
		Diplotype: call.Diplotype,
		Phenotype: p,
		Variants:  call.Variants,
		Risk:      assessment,
	})
}

// Check returns *UnsupportedDrugError if drugName has no configured gene.
func Check(drugName string) error {
	if !drug.IsSupported(drugName) {
		return &UnsupportedDrugError{Drug: drugName}
	}
	return nil
}
