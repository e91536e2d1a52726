package compose

import (
	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/frameset"
)

// ComposeDecomp forms per-residue/pairwise binding deltas: for every
// (component, residue, term) present in all three species' decomposition
// tables, delta = complex - receptor - ligand, using the same
// Matched/independent-variance rule as ComputeBinding.
func ComposeDecomp(kind frameset.ProtocolKind, complexT, receptorT, ligandT *energy.DecompTable) *DecompDelta {
	out := &DecompDelta{
		PerRes:  make(map[energy.Component]map[energy.Residue]map[string]Delta),
		PerPair: make(map[energy.Component]map[energy.ResiduePair]map[string]Delta),
	}
	for c, byRes := range complexT.PerRes {
		for r, byTerm := range byRes {
			rVals, rok := safeResLookup(receptorT, c, r)
			lVals, lok := safeResLookup(ligandT, c, r)
			if !rok || !lok {
				continue
			}
			for term, cVec := range byTerm {
				rVec, rvok := rVals[term]
				lVec, lvok := lVals[term]
				if !rvok || !lvok {
					continue
				}
				if out.PerRes[c] == nil {
					out.PerRes[c] = make(map[energy.Residue]map[string]Delta)
				}
				if out.PerRes[c][r] == nil {
					out.PerRes[c][r] = make(map[string]Delta)
				}
				out.PerRes[c][r][term] = threewaySubtract(kind, cVec, rVec, lVec)
			}
		}
	}
	for c, byPair := range complexT.PerPair {
		for p, byTerm := range byPair {
			rVals, rok := safePairLookup(receptorT, c, p)
			lVals, lok := safePairLookup(ligandT, c, p)
			if !rok || !lok {
				continue
			}
			for term, cVec := range byTerm {
				rVec, rvok := rVals[term]
				lVec, lvok := lVals[term]
				if !rvok || !lvok {
					continue
				}
				if out.PerPair[c] == nil {
					out.PerPair[c] = make(map[energy.ResiduePair]map[string]Delta)
				}
				if out.PerPair[c][p] == nil {
					out.PerPair[c][p] = make(map[string]Delta)
				}
				out.PerPair[c][p][term] = threewaySubtract(kind, cVec, rVec, lVec)
			}
		}
	}
	return out
}

// DecompDelta is the composed per-residue/pairwise binding decomposition.
type DecompDelta struct {
	PerRes  map[energy.Component]map[energy.Residue]map[string]Delta
	PerPair map[energy.Component]map[energy.ResiduePair]map[string]Delta
}

func safeResLookup(t *energy.DecompTable, c energy.Component, r energy.Residue) (map[string]energy.Vector, bool) {
	byRes, ok := t.PerRes[c]
	if !ok {
		return nil, false
	}
	v, ok := byRes[r]
	return v, ok
}

func safePairLookup(t *energy.DecompTable, c energy.Component, p energy.ResiduePair) (map[string]energy.Vector, bool) {
	byPair, ok := t.PerPair[c]
	if !ok {
		return nil, false
	}
	v, ok := byPair[p]
	return v, ok
}
