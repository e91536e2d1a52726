package compose

import (
	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/frameset"
)

// ModelResult aggregates every composed quantity for a single solver model
// (gb, pb, rism std, rism gf, nmode, qh): the normal-complex binding
// result, the optional alanine-scanning mutant counterpart and its ΔΔG,
// and the optional decomposition delta.
type ModelResult struct {
	Model       energy.Model
	Normal      *BindingResult
	Mutant      *BindingResult
	AlaDelta    map[string]Delta
	Decomp      *DecompDelta
	MutDecomp   *DecompDelta
}

// CalcTypes is the full set of composed results for one run: one
// ModelResult per requested solver model, plus at most one interaction-
// entropy and one C2-entropy estimate (both computed from a gas-phase
// binding energy vector, independent of which enthalpy model produced it).
type CalcTypes struct {
	Models map[energy.Model]*ModelResult
	IE     *EntropyResult
	C2     *EntropyResult
	QH     *EntropyResult
}

// NewCalcTypes returns an empty aggregate ready for per-model results to be
// attached.
func NewCalcTypes() *CalcTypes {
	return &CalcTypes{Models: make(map[energy.Model]*ModelResult)}
}

// AddModel composes a normal (and, if mutComplexT and mutReceptorT are both
// non-nil, mutant) binding result for model and files it under CalcTypes,
// computing the alanine-scanning ΔΔG for every term present in both deltas.
func (ct *CalcTypes) AddModel(kind frameset.ProtocolKind, model energy.Model, complexT, receptorT, ligandT *energy.Terms, mutComplexT, mutReceptorT *energy.Terms) *ModelResult {
	mr := &ModelResult{Model: model}
	mr.Normal = ComputeBinding(kind, complexT, receptorT, ligandT)
	if mutComplexT != nil && mutReceptorT != nil {
		mr.Mutant = ComputeBinding(kind, mutComplexT, mutReceptorT, ligandT)
		mr.AlaDelta = make(map[string]Delta)
		for term, normalDelta := range mr.Normal.Delta {
			if mutDelta, ok := mr.Mutant.Delta[term]; ok {
				mr.AlaDelta[term] = AlaDelta(normalDelta, mutDelta)
			}
		}
	}
	ct.Models[model] = mr
	return mr
}

// AttachDecomp composes and attaches a per-residue/pairwise delta for an
// already-registered model.
func (ct *CalcTypes) AttachDecomp(kind frameset.ProtocolKind, model energy.Model, complexT, receptorT, ligandT *energy.DecompTable, mutComplexT, mutReceptorT *energy.DecompTable) {
	mr, ok := ct.Models[model]
	if !ok {
		return
	}
	mr.Decomp = ComposeDecomp(kind, complexT, receptorT, ligandT)
	if mutComplexT != nil && mutReceptorT != nil {
		mr.MutDecomp = ComposeDecomp(kind, mutComplexT, mutReceptorT, ligandT)
	}
}

// BindingFreeEnergy returns ΔG = ΔH(TOTAL) + (-TΔS) for model, applying the
// quasi-harmonic/nmode entropy correction if one was composed separately,
// or the plain enthalpy delta if none applies (e.g. a stability-only run
// carries no ΔH at all and this is never called).
func (mr *ModelResult) BindingFreeEnergy(negTDeltaS *Delta) Delta {
	deltaH := mr.Normal.Delta["TOTAL"]
	if negTDeltaS == nil {
		return deltaH
	}
	return CombineWithEntropy(deltaH, *negTDeltaS)
}

// EntropyDelta wraps an EntropyResult's point estimate as a Delta for
// BindingFreeEnergy, e.g. EntropyDelta(ct.QH).
func EntropyDelta(r *EntropyResult) *Delta {
	if r == nil {
		return nil
	}
	d := ScalarDelta(r.NegTDeltaS, 0)
	return &d
}
