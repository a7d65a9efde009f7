// Package drug maps supported drugs to the pharmacogene governing their
// pharmacokinetics.
package drug

import (
	"sort"
	"strings"
)

// genes maps an upper-case drug name to its primary gene.
var genes = map[string]string{
	"CODEINE":      "CYP2D6",
	"WARFARIN":     "CYP2C9",
	"CLOPIDOGREL":  "CYP2C19",
	"SIMVASTATIN":  "SLCO1B1",
	"AZATHIOPRINE": "TPMT",
	"FLUOROURACIL": "DPYD",
}

// Drug is a supported drug and its primary gene.
type Drug struct {
	Name string `json:"drug" yaml:"drug"`
	Gene string `json:"gene" yaml:"gene"`
}

// Normalize returns the canonical form of a drug name: upper case with
// surrounding whitespace removed.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Gene returns the primary gene for a drug. Matching is case-insensitive.
func Gene(name string) (string, bool) {
	g, ok := genes[Normalize(name)]
	return g, ok
}

// IsSupported reports whether the drug has a configured primary gene.
func IsSupported(name string) bool {
	_, ok := Gene(name)
	return ok
}

// Names returns the supported drug names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(genes))
	for name := range genes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every supported drug with its gene, ordered by drug name.
func All() []Drug {
	names := Names()
	drugs := make([]Drug, len(names))
	for i, name := range names {
		drugs[i] = Drug{Name: name, Gene: genes[name]}
	}
	return drugs
}
