// Package report assembles pharmacogenomic risk results.
package report

// Result is the assembled assessment for one patient and one drug.
type Result struct {
	PatientID              string                 `json:"patient_id" yaml:"patient_id"`
	Drug                   string                 `json:"drug" yaml:"drug"`
	Timestamp              string                 `json:"timestamp" yaml:"timestamp"`
	RiskAssessment         RiskAssessment         `json:"risk_assessment" yaml:"risk_assessment"`
	PharmacogenomicProfile []Profile              `json:"pharmacogenomic_profile" yaml:"pharmacogenomic_profile"`
	ClinicalRecommendation ClinicalRecommendation `json:"clinical_recommendation" yaml:"clinical_recommendation"`
	Explanation            Explanation            `json:"llm_generated_explanation" yaml:"llm_generated_explanation"`
	QualityMetrics         QualityMetrics         `json:"quality_metrics" yaml:"quality_metrics"`
}

// RiskAssessment carries the risk label and severity.
type RiskAssessment struct {
	RiskLabel string `json:"risk_label" yaml:"risk_label"`
	Severity  string `json:"severity" yaml:"severity"`
}

// Profile describes the patient's genotype at the drug's primary gene.
type Profile struct {
	PrimaryGene      string            `json:"primary_gene" yaml:"primary_gene"`
	Diplotype        string            `json:"diplotype" yaml:"diplotype"`
	Phenotype        string            `json:"phenotype" yaml:"phenotype"`
	DetectedVariants []DetectedVariant `json:"detected_variants" yaml:"detected_variants"`
}

// DetectedVariant is a variant found at the primary gene.
type DetectedVariant struct {
	RSID string `json:"rsid" yaml:"rsid"`
}

// ClinicalRecommendation is the dosing recommendation.
type ClinicalRecommendation struct {
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}

// Explanation is the narrative accompanying the result.
type Explanation struct {
	Summary        string `json:"summary" yaml:"summary"`
	Mechanism      string `json:"mechanism" yaml:"mechanism"`
	ClinicalImpact string `json:"clinical_impact" yaml:"clinical_impact"`
	GuidelineBasis string `json:"guideline_basis" yaml:"guideline_basis"`
}

// QualityMetrics reports on input processing.
type QualityMetrics struct {
	VCFParsingSuccess bool `json:"vcf_parsing_success" yaml:"vcf_parsing_success"`
}

// PrimaryProfile returns the first profile, or a zero Profile if none.
func (r *Result) PrimaryProfile() Profile {
	if len(r.PharmacogenomicProfile) == 0 {
		return Profile{}
	}
	return r.PharmacogenomicProfile[0]
}
