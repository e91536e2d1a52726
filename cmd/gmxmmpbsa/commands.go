package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/liang2508/gmx-mmpbsa/calcplan"
	"github.com/liang2508/gmx-mmpbsa/compose"
	"github.com/liang2508/gmx-mmpbsa/config"
	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/executor"
	"github.com/liang2508/gmx-mmpbsa/frameset"
	"github.com/liang2508/gmx-mmpbsa/internal/mmlog"
	"github.com/liang2508/gmx-mmpbsa/outparse"
	"github.com/liang2508/gmx-mmpbsa/rankio"
	"github.com/liang2508/gmx-mmpbsa/report"
)

// defaultPrograms names the conventional external solver binaries; callers
// on a real cluster typically override these via PATH, not via flags, so
// no CLI flag exposes them.
var defaultPrograms = calcplan.Programs{
	GBEnergy:   "mmpbsa_py_energy",
	Molsurf:    "mmpbsa_py_energy",
	PBEnergy:   "sander",
	RismEnergy: "rism3d.snglpnt",
	Nmode:      "mmpbsa_py_nabnmode",
	QH:         "cpptraj",
}

func infoCommand(c *cli.Context) error {
	rc, err := config.ParseAndBuild(c.String("i"), c.Bool("stability"))
	if err != nil {
		return err
	}
	out := c.App.Writer
	fmt.Fprintf(out, "system: %s\n", rc.General.SysName)
	fmt.Fprintf(out, "frames: %d..%d step %d\n", rc.General.StartFrame, rc.General.EndFrame, rc.General.Interval)
	fmt.Fprintf(out, "gb=%v pb=%v rism=%v(std=%v gf=%v) nmode=%v ala=%v decomp=%v stability=%v\n",
		rc.GBRun, rc.PBRun, rc.RismRun, rc.RismRunStd, rc.RismRunGF, rc.NmodeRun, rc.AlaRun, rc.DecompRun, rc.StabilityOnly)
	for _, w := range rc.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w.Error())
	}
	return nil
}

func reportCommand(c *cli.Context) error {
	raw, err := os.ReadFile(c.String("json"))
	if err != nil {
		return err
	}
	ok, err := report.VerifyArchive(raw)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("archive checksum mismatch: %s", c.String("json"))
	}
	fmt.Println("archive checksum verified")
	return nil
}

func runCommand(c *cli.Context) error {
	rc, err := config.ParseAndBuild(c.String("i"), c.Bool("stability"))
	if err != nil {
		return err
	}

	trajPaths := strings.Split(c.String("y"), ",")
	isSingle := len(trajPaths) <= 1

	frames := c.Int("frames")
	receptorFrames := c.Int("receptor-frames")
	if receptorFrames == 0 {
		receptorFrames = frames
	}
	ligandFrames := c.Int("ligand-frames")
	if ligandFrames == 0 {
		ligandFrames = frames
	}
	reported := frameset.ReportedCounts{
		NumFrames:      frames,
		ReceptorFrames: receptorFrames,
		LigandFrames:   ligandFrames,
		NumFramesNmode: frames,
	}

	numRanks := c.Int("nranks")
	fsPlan, err := frameset.Build(rc, reported, isSingle, numRanks)
	if err != nil {
		return err
	}

	tops := calcplan.Topologies{
		ComplexTop:        c.String("cp"),
		ReceptorTop:       c.String("rp"),
		LigandTop:         c.String("lp"),
		MutantComplexTop:  c.String("mcp"),
		MutantReceptorTop: c.String("mrp"),
	}
	plan := calcplan.Build(rc, fsPlan, tops, defaultPrograms)

	logger := mmlog.Default()
	ctx := rankio.NewSingle()
	ex := executor.New(ctx, ".", logger)
	if err := ex.Run(plan); err != nil {
		return err
	}

	ct := compose.NewCalcTypes()
	for _, model := range requestedModels(rc) {
		complexT, receptorT, ligandT, err := parseModel(plan, numRanks, model, false)
		if err != nil {
			return err
		}
		if rc.StabilityOnly {
			ct.Models[model] = &compose.ModelResult{Model: model, Normal: &compose.BindingResult{Complex: complexT}}
			continue
		}

		var mutComplexT, mutReceptorT *energy.Terms
		if rc.AlaRun {
			mutComplexT, mutReceptorT, _, err = parseModel(plan, numRanks, model, true)
			if err != nil {
				return err
			}
		}
		ct.AddModel(fsPlan.Protocol.Kind, model, complexT, receptorT, ligandT, mutComplexT, mutReceptorT)

		if rc.DecompRun && (model == energy.ModelGB || model == energy.ModelPB) {
			complexDT, receptorDT, ligandDT, err := parseDecompModel(plan, numRanks, model, rc.Decomp.Idecomp, false)
			if err != nil {
				return err
			}
			var mutComplexDT, mutReceptorDT *energy.DecompTable
			if rc.AlaRun {
				mutComplexDT, mutReceptorDT, _, err = parseDecompModel(plan, numRanks, model, rc.Decomp.Idecomp, true)
				if err != nil {
					return err
				}
			}
			ct.AttachDecomp(fsPlan.Protocol.Kind, model, complexDT, receptorDT, ligandDT, mutComplexDT, mutReceptorDT)
		}
	}

	if rc.General.QHEntropy {
		if qh, ok := findStep(plan, calcplan.KindQuasiHarmonic, false); ok {
			entropy, err := outparse.ParseQH(qh.OutputTemplate)
			if err != nil {
				return err
			}
			ct.QH = &compose.EntropyResult{NegTDeltaS: compose.NmodeNegTDeltaS(entropy), Reliable: true}
		}
	}

	if rc.General.InteractionEntropy || rc.General.C2Entropy {
		if mr, ok := pickGasPhaseModel(ct); ok {
			gas := mr.Normal.Delta[energy.TermGGas]
			if gas.Matched {
				if rc.General.InteractionEntropy {
					ie := compose.InteractionEntropy(gas.Vector, fsPlan.IEWindow, rc.General.Temperature)
					ct.IE = &ie
				}
				if rc.General.C2Entropy {
					c2 := compose.C2Entropy(gas.Vector, fsPlan.C2Window, rc.General.Temperature, 1)
					ct.C2 = &c2
				}
			}
		}
	}

	out, err := os.Create(c.String("o"))
	if err != nil {
		return err
	}
	defer out.Close()
	if err := report.WriteText(out, rc, ct); err != nil {
		return err
	}

	if path := c.String("eo"); path != "" {
		for _, model := range requestedModels(rc) {
			f, err := os.Create(csvPathFor(path, model))
			if err != nil {
				return err
			}
			err = report.WriteCSV(f, ct.Models[model])
			f.Close()
			if err != nil {
				return err
			}
		}
	}

	if path := c.String("json"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		archive := report.BuildArchive(rc, ct)
		if err := report.WriteArchive(f, archive); err != nil {
			return err
		}
	}

	return nil
}

func requestedModels(rc *config.RunConfig) []energy.Model {
	var models []energy.Model
	if rc.GBRun {
		models = append(models, energy.ModelGB)
	}
	if rc.PBRun {
		models = append(models, energy.ModelPB)
	}
	if rc.RismRunStd {
		models = append(models, energy.ModelRismStd)
	}
	if rc.RismRunGF {
		models = append(models, energy.ModelRismGF)
	}
	if rc.NmodeRun {
		models = append(models, energy.ModelNmode)
	}
	return models
}

// pickGasPhaseModel returns the first enthalpy model available to supply
// the ΔEgas vector IE/C2 need, preferring GB over PB since both report the
// same gas-phase terms.
func pickGasPhaseModel(ct *compose.CalcTypes) (*compose.ModelResult, bool) {
	for _, m := range []energy.Model{energy.ModelGB, energy.ModelPB} {
		if mr, ok := ct.Models[m]; ok {
			return mr, true
		}
	}
	return nil, false
}

func phaseAndKindFor(model energy.Model) (calcplan.Phase, calcplan.Kind) {
	switch model {
	case energy.ModelGB:
		return calcplan.PhaseGB, calcplan.KindEnergy
	case energy.ModelPB:
		return calcplan.PhasePB, calcplan.KindPBEnergy
	case energy.ModelRismStd, energy.ModelRismGF:
		return calcplan.PhaseRism, calcplan.KindRISM
	case energy.ModelNmode:
		return calcplan.PhaseNmode, calcplan.KindNmode
	default:
		return calcplan.PhaseSetup, calcplan.KindEnergy
	}
}

// collectSpeciesPaths groups a plan's output paths by species for one
// (phase, kind, mutant) selector, expanding the rank placeholder for solver
// steps and following Copy steps to their destination (the mutant output
// path a topology-unchanged partner's energy was copied to).
func collectSpeciesPaths(plan *calcplan.Plan, numRanks int, phase calcplan.Phase, kind calcplan.Kind, mutant bool) map[energy.Species][]string {
	bySpecies := map[energy.Species][]string{}
	for _, step := range plan.Steps {
		if step.Phase != phase || step.Mutant != mutant {
			continue
		}
		switch step.Kind {
		case kind:
			bySpecies[step.Species] = append(bySpecies[step.Species], executor.OutputPaths(step, numRanks)...)
		case calcplan.KindCopy:
			bySpecies[step.Species] = append(bySpecies[step.Species], step.CopyDst)
		}
	}
	return bySpecies
}

// parseModel collects the per-species shard output paths for model's phase
// (normal system, or mutant when mutant is true) and parses them into
// complex/receptor/ligand energy.Terms.
func parseModel(plan *calcplan.Plan, numRanks int, model energy.Model, mutant bool) (complexT, receptorT, ligandT *energy.Terms, err error) {
	phase, kind := phaseAndKindFor(model)
	bySpecies := collectSpeciesPaths(plan, numRanks, phase, kind, mutant)
	if paths, ok := bySpecies[energy.Complex]; ok {
		if complexT, err = outparse.ParseShards(paths, energy.Complex, model); err != nil {
			return nil, nil, nil, err
		}
	}
	if paths, ok := bySpecies[energy.Receptor]; ok {
		if receptorT, err = outparse.ParseShards(paths, energy.Receptor, model); err != nil {
			return nil, nil, nil, err
		}
	}
	if paths, ok := bySpecies[energy.Ligand]; ok {
		if ligandT, err = outparse.ParseShards(paths, energy.Ligand, model); err != nil {
			return nil, nil, nil, err
		}
	}
	return complexT, receptorT, ligandT, nil
}

// parseDecompModel is parseModel's decomposition counterpart: it reads the
// same output files (decomposition decks print TDC/SDC/BDC records
// alongside the ordinary energy terms) into per-residue/pairwise
// energy.DecompTables.
func parseDecompModel(plan *calcplan.Plan, numRanks int, model energy.Model, idecomp int, mutant bool) (complexT, receptorT, ligandT *energy.DecompTable, err error) {
	phase, kind := phaseAndKindFor(model)
	bySpecies := collectSpeciesPaths(plan, numRanks, phase, kind, mutant)
	if paths, ok := bySpecies[energy.Complex]; ok {
		if complexT, err = outparse.ParseDecompShards(paths, energy.Complex, model, idecomp); err != nil {
			return nil, nil, nil, err
		}
	}
	if paths, ok := bySpecies[energy.Receptor]; ok {
		if receptorT, err = outparse.ParseDecompShards(paths, energy.Receptor, model, idecomp); err != nil {
			return nil, nil, nil, err
		}
	}
	if paths, ok := bySpecies[energy.Ligand]; ok {
		if ligandT, err = outparse.ParseDecompShards(paths, energy.Ligand, model, idecomp); err != nil {
			return nil, nil, nil, err
		}
	}
	return complexT, receptorT, ligandT, nil
}

// findStep returns the first step of the given kind/mutant flag, used for
// the quasi-harmonic step which is emitted at most once per system.
func findStep(plan *calcplan.Plan, kind calcplan.Kind, mutant bool) (calcplan.Step, bool) {
	for _, step := range plan.Steps {
		if step.Kind == kind && step.Mutant == mutant {
			return step, true
		}
	}
	return calcplan.Step{}, false
}

func csvPathFor(base string, model energy.Model) string {
	return base + "." + strings.ReplaceAll(model.String(), " ", "_") + ".csv"
}
