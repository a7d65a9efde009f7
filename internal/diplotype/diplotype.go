// Package diplotype calls a two-allele diplotype from star-allele tagged
// variants.
package diplotype

import (
	"sort"
	"strings"

	"github.com/inodb/pharmaguard/internal/vcf"
)

// Diplotype is a pair of star alleles written "<a>/<b>".
type Diplotype string

// Wildtype is called when a gene has no star-allele variants.
const Wildtype Diplotype = "*1/*1"

// Format joins two alleles into a diplotype.
func Format(a, b string) Diplotype {
	return Diplotype(a + "/" + b)
}

// Alleles splits the diplotype into its two alleles.
func (d Diplotype) Alleles() (string, string) {
	a, b, _ := strings.Cut(string(d), "/")
	return a, b
}

// String implements fmt.Stringer.
func (d Diplotype) String() string {
	return string(d)
}

// Call is the result of calling a diplotype for one gene.
type Call struct {
	Gene      string
	Diplotype Diplotype
	Alleles   []string      // distinct star alleles in string order
	Variants  []vcf.Variant // variants tagged with Gene, in input order
	Dropped   []string      // alleles beyond the two used in the diplotype
}

// CallGene calls the diplotype for gene from the full variant list.
//
// Distinct star alleles are sorted as strings, so "*17" sorts before "*2".
// With no alleles the wild type is called, with one the call is homozygous,
// and otherwise the two smallest alleles are used.
func CallGene(variants []vcf.Variant, gene string) Call {
	c := Call{
		Gene:     gene,
		Variants: vcf.FilterGene(variants, gene),
	}

	seen := make(map[string]bool)
	for _, v := range c.Variants {
		if v.HasStar() && !seen[v.Star] {
			seen[v.Star] = true
			c.Alleles = append(c.Alleles, v.Star)
		}
	}
	sort.Strings(c.Alleles)

	switch len(c.Alleles) {
	case 0:
		c.Diplotype = Wildtype
	case 1:
		c.Diplotype = Format(c.Alleles[0], c.Alleles[0])
	default:
		c.Diplotype = Format(c.Alleles[0], c.Alleles[1])
		if len(c.Alleles) > 2 {
			c.Dropped = c.Alleles[2:]
		}
	}

	return c
}

// Of returns only the diplotype for gene.
func Of(variants []vcf.Variant, gene string) Diplotype {
	return CallGene(variants, gene).Diplotype
}
