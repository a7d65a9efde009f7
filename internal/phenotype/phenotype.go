// Package phenotype resolves metabolizer phenotypes from diplotypes.
//
// Each supported gene has an ordered list of rules. A rule is a substring
// test on the diplotype string; the first rule that matches decides the
// phenotype. Genes without rules resolve to Unknown.
package phenotype

import (
	"sort"
	"strings"

	"github.com/inodb/pharmaguard/internal/diplotype"
)

// Phenotype is a metabolizer phenotype category.
type Phenotype string

// Metabolizer phenotypes.
const (
	Poor         Phenotype = "PM"
	Intermediate Phenotype = "IM"
	Normal       Phenotype = "NM"
	Rapid        Phenotype = "RM"
	UltraRapid   Phenotype = "URM"
	Unknown      Phenotype = "Unknown"
)

// Description returns the long name of the phenotype.
func (p Phenotype) Description() string {
	switch p {
	case Poor:
		return "Poor Metabolizer"
	case Intermediate:
		return "Intermediate Metabolizer"
	case Normal:
		return "Normal Metabolizer"
	case Rapid:
		return "Rapid Metabolizer"
	case UltraRapid:
		return "Ultra-rapid Metabolizer"
	default:
		return "Unknown"
	}
}

// IsKnown reports whether p is one of PM, IM, NM, RM or URM.
func (p Phenotype) IsKnown() bool {
	switch p {
	case Poor, Intermediate, Normal, Rapid, UltraRapid:
		return true
	}
	return false
}

// Normalize coerces anything outside the known categories to Unknown.
func Normalize(p Phenotype) Phenotype {
	if p.IsKnown() {
		return p
	}
	return Unknown
}

// Rule maps a diplotype predicate to a phenotype.
type Rule struct {
	Name      string
	Match     func(d string) bool
	Phenotype Phenotype
}

func has(s string) func(string) bool {
	return func(d string) bool { return strings.Contains(d, s) }
}

func hasAll(subs ...string) func(string) bool {
	return func(d string) bool {
		for _, s := range subs {
			if !strings.Contains(d, s) {
				return false
			}
		}
		return true
	}
}

func hasAny(subs ...string) func(string) bool {
	return func(d string) bool {
		for _, s := range subs {
			if strings.Contains(d, s) {
				return true
			}
		}
		return false
	}
}

func hasCount(s string, n int) func(string) bool {
	return func(d string) bool { return strings.Count(d, s) >= n }
}

func always(string) bool { return true }

// rules holds the per-gene decision lists. The last rule of every list is
// the unconditional Normal fallback.
var rules = map[string][]Rule{
	"CYP2C19": {
		{"*2 and *17", hasAll("*2", "*17"), Intermediate},
		{"*2", has("*2"), Poor},
		{"*17", has("*17"), Rapid},
		{"default", always, Normal},
	},
	"CYP2D6": {
		{"two *4", hasCount("*4", 2), Poor},
		{"*4", has("*4"), Intermediate},
		{"default", always, Normal},
	},
	"CYP2C9": {
		{"*3/*3", has("*3/*3"), Poor},
		{"*2 or *3", hasAny("*2", "*3"), Intermediate},
		{"default", always, Normal},
	},
	"SLCO1B1": {
		{"*5/*5", has("*5/*5"), Poor},
		{"*5", has("*5"), Intermediate},
		{"default", always, Normal},
	},
	"TPMT": {
		{"*3A/*3A", has("*3A/*3A"), Poor},
		{"*3A", has("*3A"), Intermediate},
		{"default", always, Normal},
	},
	"DPYD": {
		{"*2A/*2A", has("*2A/*2A"), Poor},
		{"*2A", has("*2A"), Intermediate},
		{"default", always, Normal},
	},
}

// Resolve returns the phenotype for a gene's diplotype.
func Resolve(gene string, d diplotype.Diplotype) Phenotype {
	p, _ := Explain(gene, d)
	return p
}

// Explain is like Resolve but also returns the name of the matching rule.
// The rule name is empty when the gene has no rules.
func Explain(gene string, d diplotype.Diplotype) (Phenotype, string) {
	s := string(d)
	for _, r := range rules[gene] {
		if r.Match(s) {
			return r.Phenotype, r.Name
		}
	}
	return Unknown, ""
}

// Rules returns a copy of the ordered rules for gene.
func Rules(gene string) []Rule {
	return append([]Rule(nil), rules[gene]...)
}

// Genes returns the genes that have rules, sorted.
func Genes() []string {
	genes := make([]string, 0, len(rules))
	for g := range rules {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}
