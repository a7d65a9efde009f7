package report

import (
	"fmt"
	"time"

	"github.com/inodb/pharmaguard/internal/diplotype"
	"github.com/inodb/pharmaguard/internal/phenotype"
	"github.com/inodb/pharmaguard/internal/risk"
	"github.com/inodb/pharmaguard/internal/vcf"
)

// TimestampFormat is ISO-8601 in UTC with microseconds.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// GuidelineBasis is the fixed guideline reference in every explanation.
const GuidelineBasis = "Aligned with CPIC guidelines."

// Input holds the outputs of the earlier pipeline stages.
type Input struct {
	PatientID string
	Drug      string
	Gene      string
	Diplotype diplotype.Diplotype
	Phenotype phenotype.Phenotype
	Variants  []vcf.Variant // variants at Gene, in input order
	Risk      risk.Assessment
}

// Assembler builds results. The zero value uses the current time.
type Assembler struct {
	// Now returns the assembly time. Defaults to time.Now.
	Now func() time.Time
}

// NewAssembler creates an assembler using the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{Now: time.Now}
}

// Assemble composes the final result.
func (a *Assembler) Assemble(in Input) *Result {
	detected := make([]DetectedVariant, len(in.Variants))
	for i, v := range in.Variants {
		detected[i] = DetectedVariant{RSID: v.ID}
	}

	return &Result{
		PatientID: in.PatientID,
		Drug:      in.Drug,
		Timestamp: a.now().UTC().Format(TimestampFormat),
		RiskAssessment: RiskAssessment{
			RiskLabel: string(in.Risk.Label),
			Severity:  string(in.Risk.Severity),
		},
		PharmacogenomicProfile: []Profile{{
			PrimaryGene:      in.Gene,
			Diplotype:        string(in.Diplotype),
			Phenotype:        string(phenotype.Normalize(in.Phenotype)),
			DetectedVariants: detected,
		}},
		ClinicalRecommendation: ClinicalRecommendation{
			Recommendation: in.Risk.Recommendation,
		},
		Explanation:    Explain(in.Gene, in.Diplotype, in.Phenotype, in.Drug),
		QualityMetrics: QualityMetrics{VCFParsingSuccess: true},
	}
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Explain fills the narrative templates.
func Explain(gene string, d diplotype.Diplotype, p phenotype.Phenotype, drug string) Explanation {
	return Explanation{
		Summary:        fmt.Sprintf("%s %s results in %s phenotype affecting %s.", gene, d, p, drug),
		Mechanism:      fmt.Sprintf("Variants alter enzyme activity of %s.", gene),
		ClinicalImpact: fmt.Sprintf("This may alter therapeutic response to %s.", drug),
		GuidelineBasis: GuidelineBasis,
	}
}
