// Package vcf provides VCF file parsing functionality.
package vcf

// INFO keys carrying pharmacogene annotations.
const (
	InfoGene = "GENE"
	InfoStar = "STAR"
)

// Variant represents a single data line from a VCF file.
// Gene and Star are empty when the corresponding INFO tag is missing.
type Variant struct {
	Chrom string            // Chromosome name as written (not validated)
	Pos   string            // Position as written (not validated)
	ID    string            // Variant identifier (e.g., rs ID)
	Gene  string            // GENE INFO tag
	Star  string            // STAR INFO tag (star allele, e.g. "*4")
	Info  map[string]string // INFO field key-value pairs
}

// HasGene reports whether the variant carries a GENE tag.
func (v *Variant) HasGene() bool {
	return v.Gene != ""
}

// HasStar reports whether the variant carries a STAR tag.
func (v *Variant) HasStar() bool {
	return v.Star != ""
}

// FilterGene returns the variants annotated with exactly the given gene,
// in input order. Untagged variants never match, even for an empty gene.
func FilterGene(variants []Variant, gene string) []Variant {
	var out []Variant
	for _, v := range variants {
		if v.HasGene() && v.Gene == gene {
			out = append(out, v)
		}
	}
	return out
}
