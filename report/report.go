// Package report formats a composed set of binding-energy results into the
// three output forms: a canonical human-readable text report, a per-frame
// CSV dump, and a self-describing structured archive.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/liang2508/gmx-mmpbsa/compose"
	"github.com/liang2508/gmx-mmpbsa/config"
	"github.com/liang2508/gmx-mmpbsa/energy"
)

// orderedTerms lists the canonical terms in the order a report prints them.
var orderedTerms = []string{
	energy.TermBond, energy.TermAngle, energy.TermDihed,
	energy.TermUB, energy.TermIMP, energy.TermCMAP,
	energy.TermVDW, energy.TermEEL, energy.Term14VDW, energy.Term14EEL,
	energy.TermEGB, energy.TermESURF,
	energy.TermEPB, energy.TermENPOLAR, energy.TermEDISPER,
	energy.TermERISM,
	energy.TermGGas, energy.TermGSolv, energy.TermTotal,
}

// WriteText renders the canonical text report: a header naming the run,
// one summary table per requested model, an alanine-scanning block when
// applicable, and a decomposition block when the model carries one.
func WriteText(w io.Writer, rc *config.RunConfig, ct *compose.CalcTypes) error {
	fmt.Fprintf(w, "gmx_MMPBSA results for %s\n", nonEmpty(rc.General.SysName, "(unnamed system)"))
	fmt.Fprintf(w, "starting frame: %d, ending frame: %d, interval: %d\n\n", rc.General.StartFrame, rc.General.EndFrame, rc.General.Interval)

	for _, model := range orderedModels(ct) {
		mr := ct.Models[model]
		fmt.Fprintf(w, "=== %s ===\n", model)
		if err := writeModelTable(w, mr.Normal); err != nil {
			return err
		}
		if mr.Mutant != nil {
			fmt.Fprintln(w, "\n-- mutant --")
			if err := writeModelTable(w, mr.Mutant); err != nil {
				return err
			}
			fmt.Fprintln(w, "\n-- DeltaDelta G (mutant - normal) --")
			if err := writeDeltaLine(w, "ddG", mr.AlaDelta["TOTAL"]); err != nil {
				return err
			}
		}
		if mr.Decomp != nil {
			if err := writeDecompBlock(w, mr.Decomp); err != nil {
				return err
			}
		}
		if mr.Normal.Receptor != nil {
			if err := writeBindingFreeEnergies(w, mr, ct); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}

	if ct.IE != nil {
		fmt.Fprintf(w, "Interaction Entropy: -TdS = %.4f kcal/mol (sigma=%.4f, window=%d, reliable=%v)\n",
			ct.IE.NegTDeltaS, ct.IE.Sigma, ct.IE.WindowSize, ct.IE.Reliable)
	}
	if ct.C2 != nil {
		fmt.Fprintf(w, "C2 Entropy: -TdS = %.4f kcal/mol [%.4f, %.4f] (sigma=%.4f, window=%d, reliable=%v)\n",
			ct.C2.NegTDeltaS, ct.C2.CILow, ct.C2.CIHigh, ct.C2.Sigma, ct.C2.WindowSize, ct.C2.Reliable)
	}
	return nil
}

func writeModelTable(w io.Writer, br *compose.BindingResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Energy Component\tComplex\tReceptor\tLigand\tDelta\tStdErr")
	for _, term := range orderedTerms {
		c, okC := br.Complex.Values[term]
		var r, l energy.Vector
		var okR, okL bool
		if br.Receptor != nil {
			r, okR = br.Receptor.Values[term]
		}
		if br.Ligand != nil {
			l, okL = br.Ligand.Values[term]
		}
		if !okC && !okR && !okL {
			continue
		}
		d := br.Delta[term]
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			term, meanOf(c), meanOf(r), meanOf(l), d.Mean(), d.Stdev())
	}
	return tw.Flush()
}

// writeBindingFreeEnergies prints ΔG = ΔH + (-TΔS) for every entropy
// correction available on this run (interaction entropy, C2 entropy,
// quasi-harmonic), combined with mr's normal ΔH(TOTAL).
func writeBindingFreeEnergies(w io.Writer, mr *compose.ModelResult, ct *compose.CalcTypes) error {
	sources := []struct {
		label string
		r     *compose.EntropyResult
	}{
		{"IE", ct.IE},
		{"C2", ct.C2},
		{"QH", ct.QH},
	}
	for _, s := range sources {
		if s.r == nil {
			continue
		}
		combined := mr.BindingFreeEnergy(compose.EntropyDelta(s.r))
		if err := writeDeltaLine(w, "Delta G binding ("+s.label+")", combined); err != nil {
			return err
		}
	}
	return nil
}

func writeDeltaLine(w io.Writer, label string, d compose.Delta) error {
	_, err := fmt.Fprintf(w, "%s = %.4f +/- %.4f kcal/mol\n", label, d.Mean(), d.Stdev())
	return err
}

func meanOf(v energy.Vector) float64 {
	if v == nil {
		return 0
	}
	return v.Mean()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orderedModels(ct *compose.CalcTypes) []energy.Model {
	out := make([]energy.Model, 0, len(ct.Models))
	for m := range ct.Models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
