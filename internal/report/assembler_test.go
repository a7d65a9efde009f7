package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/pharmaguard/internal/phenotype"
	"github.com/inodb/pharmaguard/internal/risk"
	"github.com/inodb/pharmaguard/internal/vcf"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 9, 30, 0, 123456000, time.FixedZone("CEST", 2*60*60))
}

func codeineInput() Input {
	return Input{
		PatientID: "PATIENT_001",
		Drug:      "CODEINE",
		Gene:      "CYP2D6",
		Diplotype: "*4/*4",
		Phenotype: phenotype.Poor,
		Variants:  []vcf.Variant{{ID: "rs3892097"}, {ID: "rs1065852"}},
		Risk:      risk.Assessment{Label: risk.Ineffective, Severity: risk.High, Recommendation: "Avoid codeine."},
	}
}

func TestAssemble(t *testing.T) {
	a := &Assembler{Now: fixedClock}
	res := a.Assemble(codeineInput())

	assert.Equal(t, "PATIENT_001", res.PatientID)
	assert.Equal(t, "CODEINE", res.Drug)
	assert.Equal(t, "2026-10-16T07:30:00.123456Z", res.Timestamp)
	assert.Equal(t, RiskAssessment{RiskLabel: "Ineffective", Severity: "high"}, res.RiskAssessment)
	assert.Equal(t, "Avoid codeine.", res.ClinicalRecommendation.Recommendation)
	assert.True(t, res.QualityMetrics.VCFParsingSuccess)

	require.Len(t, res.PharmacogenomicProfile, 1)
	p := res.PrimaryProfile()
	assert.Equal(t, "CYP2D6", p.PrimaryGene)
	assert.Equal(t, "*4/*4", p.Diplotype)
	assert.Equal(t, "PM", p.Phenotype)
	assert.Equal(t, []DetectedVariant{{RSID: "rs3892097"}, {RSID: "rs1065852"}}, p.DetectedVariants)

	assert.Equal(t, Explanation{
		Summary:        "CYP2D6 *4/*4 results in PM phenotype affecting CODEINE.",
		Mechanism:      "Variants alter enzyme activity of CYP2D6.",
		ClinicalImpact: "This may alter therapeutic response to CODEINE.",
		GuidelineBasis: "Aligned with CPIC guidelines.",
	}, res.Explanation)
}

func TestAssemble_NormalizesPhenotype(t *testing.T) {
	in := codeineInput()
	in.Phenotype = "EM"
	res := (&Assembler{Now: fixedClock}).Assemble(in)
	assert.Equal(t, "Unknown", res.PrimaryProfile().Phenotype)
}

func TestAssemble_NoVariants(t *testing.T) {
	in := codeineInput()
	in.Variants = nil
	res := (&Assembler{Now: fixedClock}).Assemble(in)

	// detected_variants must serialize as [] rather than null
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"detected_variants":[]`)
}

func TestAssemble_JSONShape(t *testing.T) {
	res := (&Assembler{Now: fixedClock}).Assemble(codeineInput())
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{
		"patient_id", "drug", "timestamp", "risk_assessment", "pharmacogenomic_profile",
		"clinical_recommendation", "llm_generated_explanation", "quality_metrics",
	} {
		assert.Contains(t, doc, key)
	}
	assert.Equal(t, map[string]any{"vcf_parsing_success": true}, doc["quality_metrics"])
}

func TestAssembler_ZeroValueUsesWallClock(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	res := (&Assembler{}).Assemble(codeineInput())
	ts, err := time.Parse(TimestampFormat, res.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.After(before))
}

func TestPrimaryProfile_Empty(t *testing.T) {
	assert.Equal(t, Profile{}, (&Result{}).PrimaryProfile())
}
