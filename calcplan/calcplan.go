// Package calcplan implements the Calculation Plan Builder: an
// ordered list of CalcStep records grouped by phase for the normal and
// optional mutant systems, in the insertion order [Setup, GB, PB, RISM,
// Nmode, QH].
package calcplan

import (
	"fmt"

	"github.com/liang2508/gmx-mmpbsa/config"
	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/frameset"
)

// Kind tags the CalcStep variant.
type Kind int

const (
	KindEnergy Kind = iota
	KindPBEnergy
	KindSA
	KindNmode
	KindRISM
	KindQuasiHarmonic
	KindCopy
	KindProgress
)

// Phase tags which pipeline phase a step belongs to, in the fixed
// insertion order [Setup, GB, PB, RISM, Nmode, QH].
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseGB
	PhasePB
	PhaseRism
	PhaseNmode
	PhaseQH
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseGB:
		return "gb"
	case PhasePB:
		return "pb"
	case PhaseRism:
		return "rism"
	case PhaseNmode:
		return "nmode"
	case PhaseQH:
		return "qh"
	default:
		return "unknown"
	}
}

// Step is the tagged CalcStep variant. TrajectoryTemplate and
// OutputTemplate contain a "%d" rank placeholder, substituted by the
// executor.
type Step struct {
	Kind               Kind
	Phase              Phase
	Program            string
	Topology           string
	InitialCoords      string
	TrajectoryTemplate string
	InputDeck          string
	OutputTemplate     string
	PhaseTag           string
	Message            string
	Species            energy.Species
	Mutant             bool

	// CopySrc/CopyDst are populated only for KindCopy steps.
	CopySrc string
	CopyDst string
}

// Plan is the ordered list of steps the executor consumes.
type Plan struct {
	Steps []Step
}

// Topologies names the six topology paths the (out of scope) topology
// builder returns plus their mutant counterparts.
type Topologies struct {
	ComplexTop, ReceptorTop, LigandTop       string
	MutantComplexTop, MutantReceptorTop, MutantLigandTop string
}

// Programs names the external solver binaries invoked for each phase
//: a conventional argument list is built around them by the
// executor.
type Programs struct {
	GBEnergy   string // e.g. "mmpbsa_py_energy" / "sander"
	Molsurf    string
	PBEnergy   string
	RismEnergy string
	Nmode      string
	QH         string
}

// Build emits the ordered CalcStep list for the normal system, and, when
// rc.AlaRun, the mutant system appended with every path prefixed
// "mutant_". Receptor/ligand steps are skipped when
// rc.StabilityOnly, and replaced with Copy steps when the mutant topology
// is identical to the normal one (avoiding redundant solver invocations).
func Build(rc *config.RunConfig, plan *frameset.Plan, tops Topologies, progs Programs) *Plan {
	out := &Plan{}
	if !rc.Ala.MutantOnly {
		appendSystem(out, rc, plan, tops, progs, false)
	}
	if rc.AlaRun {
		appendSystem(out, rc, plan, tops, progs, true)
	}
	return out
}

func appendSystem(out *Plan, rc *config.RunConfig, plan *frameset.Plan, tops Topologies, progs Programs, mutant bool) {
	prefix := ""
	if mutant {
		prefix = "mutant_"
	}

	if rc.GBRun {
		emitProgress(out, PhaseGB, mutant, "Running GB calculations...")
		emitSpeciesRun(out, rc, plan, tops, progs, PhaseGB, mutant, prefix, KindEnergy, progs.GBEnergy, gbDeck(rc, false))
		if rc.GB.Molsurf {
			emitSA(out, rc, PhaseGB, mutant, progs.Molsurf, prefix)
		}
	}

	if rc.PBRun {
		emitProgress(out, PhasePB, mutant, "Running PB calculations...")
		emitSpeciesRun(out, rc, plan, tops, progs, PhasePB, mutant, prefix, KindPBEnergy, progs.PBEnergy, pbDeck(rc, false))
		emitSA(out, rc, PhasePB, mutant, "LCPO", prefix)
	}

	if rc.RismRun {
		emitProgress(out, PhaseRism, mutant, "Running 3D-RISM calculations...")
		emitSpeciesRun(out, rc, plan, tops, progs, PhaseRism, mutant, prefix, KindRISM, progs.RismEnergy, "rism.mdin")
	}

	if rc.NmodeRun {
		emitProgress(out, PhaseNmode, mutant, "Running normal mode calculations...")
		emitSpeciesRun(out, rc, plan, tops, progs, PhaseNmode, mutant, prefix, KindNmode, progs.Nmode, "nmode.mdin")
	}

	if rc.General.QHEntropy {
		emitProgress(out, PhaseQH, mutant, "Running quasi-harmonic calculation...")
		// QH is master-only, not per-frame, not per-rank: no
		// rank placeholder in its templates.
		out.Steps = append(out.Steps, Step{
			Kind:               KindQuasiHarmonic,
			Phase:              PhaseQH,
			Program:            progs.QH,
			Topology:           prefix + tops.ComplexTop,
			TrajectoryTemplate: prefix + "complex.traj",
			InputDeck:          "qh.mdin",
			OutputTemplate:     prefix + "qh.out",
			PhaseTag:           PhaseQH.String(),
			Mutant:             mutant,
			Species:            energy.Complex,
		})
	}
}

func emitProgress(out *Plan, phase Phase, mutant bool, msg string) {
	out.Steps = append(out.Steps, Step{Kind: KindProgress, Phase: phase, Message: msg, PhaseTag: phase.String(), Mutant: mutant})
}

// emitSpeciesRun emits the solver step (or a Copy step in its place) for
// complex always, and for receptor/ligand unless rc.StabilityOnly.
func emitSpeciesRun(out *Plan, rc *config.RunConfig, plan *frameset.Plan, tops Topologies, progs Programs, phase Phase, mutant bool, prefix string, kind Kind, program, deck string) {
	species := []energy.Species{energy.Complex}
	if !rc.StabilityOnly {
		species = append(species, energy.Receptor, energy.Ligand)
	}
	for _, sp := range species {
		top, normalTop, mutantTop := resolveTopology(tops, sp, mutant)
		if mutant && sp != energy.Complex && normalTop == mutantTop && normalTop != "" {
			// mutation doesn't affect this partner; copy instead of
			// recomputing.
			out.Steps = append(out.Steps, Step{
				Kind:     KindCopy,
				Phase:    phase,
				PhaseTag: phase.String(),
				Mutant:   mutant,
				Species:  sp,
				CopySrc:  outputPath(phase, sp, false, prefix),
				CopyDst:  outputPath(phase, sp, true, prefix),
			})
			continue
		}
		out.Steps = append(out.Steps, Step{
			Kind:               kind,
			Phase:              phase,
			Program:            program,
			Topology:           top,
			InitialCoords:      prefix + initialCoordsName(sp),
			TrajectoryTemplate: trajectoryTemplate(prefix, sp, plan.TrajSuffix),
			InputDeck:          deckFor(deck, sp, rc),
			OutputTemplate:     outputTemplate(phase, sp, prefix),
			PhaseTag:           phase.String(),
			Species:            sp,
			Mutant:             mutant,
		})
	}
}

func resolveTopology(tops Topologies, sp energy.Species, mutant bool) (top, normalTop, mutantTop string) {
	switch sp {
	case energy.Complex:
		normalTop, mutantTop = tops.ComplexTop, tops.MutantComplexTop
	case energy.Receptor:
		normalTop, mutantTop = tops.ReceptorTop, tops.MutantReceptorTop
	case energy.Ligand:
		normalTop, mutantTop = tops.LigandTop, tops.MutantLigandTop
	}
	if mutant {
		return mutantTop, normalTop, mutantTop
	}
	return normalTop, normalTop, mutantTop
}

func emitSA(out *Plan, rc *config.RunConfig, phase Phase, mutant bool, program, prefix string) {
	species := []energy.Species{energy.Complex}
	if !rc.StabilityOnly {
		species = append(species, energy.Receptor, energy.Ligand)
	}
	for _, sp := range species {
		out.Steps = append(out.Steps, Step{
			Kind:               KindSA,
			Phase:              phase,
			Program:            program,
			TrajectoryTemplate: trajectoryTemplate(prefix, sp, "mdcrd"),
			OutputTemplate:     outputTemplate(phase, sp, prefix) + ".sa",
			PhaseTag:           phase.String() + "-sa",
			Species:            sp,
			Mutant:             mutant,
		})
	}
}

func gbDeck(rc *config.RunConfig, ligandSecond bool) string {
	switch {
	case rc.DecompRun && rc.GB.IFQNT:
		return "gb_qmmm_decomp.mdin"
	case rc.DecompRun:
		return "gb_decomp.mdin"
	case rc.GB.IFQNT:
		return "gb_qmmm.mdin"
	default:
		return "gb.mdin"
	}
}

func pbDeck(rc *config.RunConfig, ligandSecond bool) string {
	if rc.DecompRun {
		return "pb_decomp.mdin"
	}
	if ligandSecond {
		return "pb.mdin2"
	}
	return "pb.mdin"
}

// deckFor swaps in the PB ligand-specific second deck (pb.mdin2) for every
// ligand step whose deck is pb.mdin; the ligand's residue count is not
// consulted.
func deckFor(deck string, sp energy.Species, rc *config.RunConfig) string {
	if sp == energy.Ligand && deck == "pb.mdin" {
		return pbDeck(rc, true)
	}
	return deck
}

func initialCoordsName(sp energy.Species) string {
	return sp.String() + ".inpcrd"
}

func trajectoryTemplate(prefix string, sp energy.Species, suffix string) string {
	return fmt.Sprintf("%s%s_%%d.%s", prefix, sp.String(), suffix)
}

func outputTemplate(phase Phase, sp energy.Species, prefix string) string {
	return fmt.Sprintf("%s%s_%s_%%d.out", prefix, sp.String(), phase.String())
}

func outputPath(phase Phase, sp energy.Species, mutant bool, prefix string) string {
	if mutant {
		return fmt.Sprintf("%s%s_%s.out", prefix, sp.String(), phase.String())
	}
	return fmt.Sprintf("%s_%s.out", sp.String(), phase.String())
}
