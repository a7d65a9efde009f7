package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/pharmaguard/internal/drug"
	"github.com/inodb/pharmaguard/internal/phenotype"
	"github.com/inodb/pharmaguard/internal/risk"
)

func newDrugsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drugs",
		Short: "List supported drugs and their genes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DRUG\tGENE\tPHENOTYPES")
			for _, d := range drug.All() {
				var ps []string
				for _, p := range risk.Phenotypes(d.Name) {
					ps = append(ps, string(p))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Gene, strings.Join(ps, ","))
			}
			fmt.Fprintln(tw)
			for _, p := range []phenotype.Phenotype{
				phenotype.Poor, phenotype.Intermediate, phenotype.Normal, phenotype.Rapid, phenotype.UltraRapid,
			} {
				fmt.Fprintf(tw, "%s\t%s\n", p, p.Description())
			}
			fmt.Fprintf(tw, "\nGenes with phenotype rules: %s\n", strings.Join(phenotype.Genes(), ", "))
			return tw.Flush()
		},
	}
}
