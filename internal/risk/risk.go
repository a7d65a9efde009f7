// Package risk maps a drug and metabolizer phenotype to a clinical risk
// assessment.
package risk

import (
	"github.com/inodb/pharmaguard/internal/drug"
	"github.com/inodb/pharmaguard/internal/phenotype"
)

// Label is a risk category.
type Label string

// Risk labels.
const (
	Safe         Label = "Safe"
	AdjustDosage Label = "Adjust Dosage"
	Toxic        Label = "Toxic"
	Ineffective  Label = "Ineffective"
	Unknown      Label = "Unknown"
)

// Severity ranks how urgent a risk is.
type Severity string

// Severities, from least to most severe.
const (
	None     Severity = "none"
	Low      Severity = "low"
	Moderate Severity = "moderate"
	High     Severity = "high"
	Critical Severity = "critical"
)

// Rank orders severities from 0 (none) to 4 (critical); -1 for unknown values.
func (s Severity) Rank() int {
	switch s {
	case None:
		return 0
	case Low:
		return 1
	case Moderate:
		return 2
	case High:
		return 3
	case Critical:
		return 4
	}
	return -1
}

// Assessment is the outcome of a risk lookup.
type Assessment struct {
	Label          Label
	Severity       Severity
	Recommendation string
}

// Fallback is returned for drug and phenotype combinations without a rule.
var Fallback = Assessment{Unknown, Moderate, "Insufficient data."}

// table is keyed by upper-case drug name, then phenotype.
var table = map[string]map[phenotype.Phenotype]Assessment{
	"CODEINE": {
		phenotype.Poor:         {Ineffective, High, "Avoid codeine."},
		phenotype.Intermediate: {AdjustDosage, Moderate, "Consider alternative."},
		phenotype.Normal:       {Safe, None, "Standard dosing."},
	},
	"CLOPIDOGREL": {
		phenotype.Poor:         {Ineffective, High, "Use alternative therapy."},
		phenotype.Intermediate: {AdjustDosage, Moderate, "Consider alternative."},
		phenotype.Rapid:        {Safe, Low, "Monitor."},
		phenotype.Normal:       {Safe, None, "Standard therapy."},
	},
	"WARFARIN": {
		phenotype.Poor:         {Toxic, Critical, "Major dose reduction."},
		phenotype.Intermediate: {AdjustDosage, High, "Reduce dose."},
		phenotype.Normal:       {Safe, None, "Standard dosing."},
	},
	"SIMVASTATIN": {
		phenotype.Poor:         {Toxic, High, "Avoid high dose."},
		phenotype.Intermediate: {AdjustDosage, Moderate, "Lower starting dose."},
		phenotype.Normal:       {Safe, None, "Standard dosing."},
	},
	"AZATHIOPRINE": {
		phenotype.Poor:         {Toxic, Critical, "Avoid drug."},
		phenotype.Intermediate: {AdjustDosage, High, "Reduce dose."},
		phenotype.Normal:       {Safe, None, "Standard dosing."},
	},
	"FLUOROURACIL": {
		phenotype.Poor:         {Toxic, Critical, "Avoid drug."},
		phenotype.Intermediate: {AdjustDosage, High, "Reduce dose."},
		phenotype.Normal:       {Safe, None, "Standard dosing."},
	},
}

// Lookup returns the assessment for a drug and phenotype.
// Combinations missing from the table yield Fallback.
func Lookup(drugName string, p phenotype.Phenotype) Assessment {
	a, ok := Find(drugName, p)
	if !ok {
		return Fallback
	}
	return a
}

// Find is like Lookup but reports whether a rule exists.
func Find(drugName string, p phenotype.Phenotype) (Assessment, bool) {
	a, ok := table[drug.Normalize(drugName)][p]
	return a, ok
}

// Phenotypes returns the phenotypes with a rule for the drug, in
// PM, IM, NM, RM, URM order.
func Phenotypes(drugName string) []phenotype.Phenotype {
	byPhenotype := table[drug.Normalize(drugName)]
	var out []phenotype.Phenotype
	for _, p := range []phenotype.Phenotype{
		phenotype.Poor, phenotype.Intermediate, phenotype.Normal, phenotype.Rapid, phenotype.UltraRapid,
	} {
		if _, ok := byPhenotype[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
