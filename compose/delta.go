// Package compose implements the Composer: it forms
// ΔG = ΔH + (-TΔS) combinations, computes alanine-scanning deltas, applies
// entropy corrections (QH, nmode, IE, C2), and aggregates per-residue/
// pairwise decomposition into nested summaries.
package compose

import (
	"math"

	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/frameset"
)

// Delta is a checked return/variant for a combined quantity:
// either a per-frame Matched vector, or, on length mismatch, the
// independent-variance fallback mean/stdev.
type Delta struct {
	Matched bool
	Vector  energy.Vector
	MeanVal float64
	StdVal  float64
}

// Mean returns the resulting mean regardless of which branch was taken.
func (d Delta) Mean() float64 {
	if d.Matched {
		return d.Vector.Mean()
	}
	return d.MeanVal
}

// Stdev returns the resulting standard deviation regardless of branch.
func (d Delta) Stdev() float64 {
	if d.Matched {
		return d.Vector.Stdev()
	}
	return d.StdVal
}

// BindingResult bundles a species triple with its composed binding delta.
type BindingResult struct {
	Complex  *energy.Terms
	Receptor *energy.Terms
	Ligand   *energy.Terms
	Delta    map[string]Delta
}

// ComputeBinding forms delta.term = complex.term - receptor.term -
// ligand.term for every term present on all three species:
// per-frame elementwise subtraction under SingleTrajectory, or
// independent-variance propagation (mean difference, sqrt of summed
// variances) under MultipleTrajectory.
func ComputeBinding(kind frameset.ProtocolKind, complexT, receptorT, ligandT *energy.Terms) *BindingResult {
	delta := make(map[string]Delta)
	for term, cVec := range complexT.Values {
		rVec, rok := receptorT.Values[term]
		lVec, lok := ligandT.Values[term]
		if !rok || !lok {
			continue
		}
		delta[term] = threewaySubtract(kind, cVec, rVec, lVec)
	}
	return &BindingResult{Complex: complexT, Receptor: receptorT, Ligand: ligandT, Delta: delta}
}

// threewaySubtract computes c - r - l. Under SingleTrajectory it tries
// strict elementwise subtraction first; on a length mismatch (or under
// MultipleTrajectory, where per-frame subtraction is never meaningful) it
// falls back to independent-variance propagation.
func threewaySubtract(kind frameset.ProtocolKind, c, r, l energy.Vector) Delta {
	if kind == frameset.SingleTrajectory {
		if cr, err := c.Sub(r); err == nil {
			if crl, err2 := cr.Sub(l); err2 == nil {
				return Delta{Matched: true, Vector: crl}
			}
		}
	}
	mean := c.Mean() - r.Mean() - l.Mean()
	variance := c.Variance() + r.Variance() + l.Variance()
	return Delta{MeanVal: mean, StdVal: math.Sqrt(variance)}
}

// AlaDelta computes ΔΔG = ΔG_mutant - ΔG_normal with matched-length
// elementwise subtraction where possible, else independent-variance
// propagation.
func AlaDelta(normal, mutant Delta) Delta {
	if normal.Matched && mutant.Matched {
		if diff, err := mutant.Vector.Sub(normal.Vector); err == nil {
			return Delta{Matched: true, Vector: diff}
		}
	}
	return Delta{
		MeanVal: mutant.Mean() - normal.Mean(),
		StdVal:  math.Sqrt(mutant.Stdev()*mutant.Stdev() + normal.Stdev()*normal.Stdev()),
	}
}

// CombineWithEntropy forms ΔG = ΔH + (-TΔS) from a ΔH delta (binding
// enthalpy) and a scalar or vector entropy correction, matching lengths
// where possible and otherwise propagating variance independently.
func CombineWithEntropy(deltaH Delta, negTDeltaS Delta) Delta {
	if deltaH.Matched && negTDeltaS.Matched {
		if sum, err := deltaH.Vector.Add(negTDeltaS.Vector); err == nil {
			return Delta{Matched: true, Vector: sum}
		}
	}
	return Delta{
		MeanVal: deltaH.Mean() + negTDeltaS.Mean(),
		StdVal:  math.Sqrt(deltaH.Stdev()*deltaH.Stdev() + negTDeltaS.Stdev()*negTDeltaS.Stdev()),
	}
}

// ScalarDelta wraps a single scalar (e.g. the QH -TΔS value, which carries
// no per-frame vector) as a Delta for uniform composition with
// CombineWithEntropy/AlaDelta.
func ScalarDelta(mean, stdev float64) Delta {
	return Delta{MeanVal: mean, StdVal: stdev}
}
