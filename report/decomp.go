package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/liang2508/gmx-mmpbsa/compose"
	"github.com/liang2508/gmx-mmpbsa/energy"
)

// writeDecompBlock renders per-residue TOTAL decomposition deltas, one
// table per component (TDC/SDC/BDC), followed by pairwise tables when
// present.
func writeDecompBlock(w io.Writer, d *compose.DecompDelta) error {
	fmt.Fprintln(w, "\n-- Per-residue decomposition (TOTAL) --")
	for _, c := range []energy.Component{energy.TDC, energy.SDC, energy.BDC} {
		byRes, ok := d.PerRes[c]
		if !ok || len(byRes) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", c)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Residue\tDelta\tStdErr")
		residues := make([]energy.Residue, 0, len(byRes))
		for r := range byRes {
			residues = append(residues, r)
		}
		sort.Slice(residues, func(i, j int) bool { return residueLess(residues[i], residues[j]) })
		for _, r := range residues {
			delta := byRes[r][energy.TermTotal]
			fmt.Fprintf(tw, "%s/%d%s/%s\t%.4f\t%.4f\n", r.Chain, r.ResNum, r.InsCode, r.Name, delta.Mean(), delta.Stdev())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	for _, c := range []energy.Component{energy.TDC, energy.SDC, energy.BDC} {
		byPair, ok := d.PerPair[c]
		if !ok || len(byPair) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (pairwise):\n", c)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Residue A\tResidue B\tDelta\tStdErr")
		pairs := make([]energy.ResiduePair, 0, len(byPair))
		for p := range byPair {
			pairs = append(pairs, p)
		}
		sort.Slice(pairs, func(i, j int) bool {
			if residueLess(pairs[i].A, pairs[j].A) != residueLess(pairs[j].A, pairs[i].A) {
				return residueLess(pairs[i].A, pairs[j].A)
			}
			return residueLess(pairs[i].B, pairs[j].B)
		})
		for _, p := range pairs {
			delta := byPair[p][energy.TermTotal]
			fmt.Fprintf(tw, "%s/%d%s/%s\t%s/%d%s/%s\t%.4f\t%.4f\n",
				p.A.Chain, p.A.ResNum, p.A.InsCode, p.A.Name,
				p.B.Chain, p.B.ResNum, p.B.InsCode, p.B.Name,
				delta.Mean(), delta.Stdev())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func residueLess(a, b energy.Residue) bool {
	if a.Chain != b.Chain {
		return a.Chain < b.Chain
	}
	return a.ResNum < b.ResNum
}
