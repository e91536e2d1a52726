package config

import (
	"strconv"
	"strings"

	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
	"github.com/liang2508/gmx-mmpbsa/namelist"
)

// General holds the &general namespace.
type General struct {
	StartFrame         int
	EndFrame           int
	Interval           int
	Temperature        float64
	ForceFields        []string
	PBRadii            int
	StripMask          string
	SolvatedTrajectory bool
	KeepFiles          int
	Verbose            int
	InteractionEntropy bool
	C2Entropy          bool
	QHEntropy          bool
	IESegment          int
	C2Segment          int
	NetCDF             bool
	SysName            string
	FullTraj           bool
	ExpKi              float64
}

// GB holds the &gb namespace.
type GB struct {
	IGB        int
	ExtDiel    float64
	IntDiel    float64
	SaltCon    float64
	SurfTen    float64
	SurfOff    float64
	Molsurf    bool
	Probe      float64
	MSOffset   float64
	IFQNT      bool
	QMTheory   string
	QMResidues string
	QMChargeCom int
	QMChargeRec int
	QMChargeLig int
	QMCut       float64
}

// PB holds the &pb namespace.
type PB struct {
	NTB           int
	INP           int
	RadiOpt       int
	PRBRad        float64
	Indi          float64
	Exdi          float64
	Scale         float64 // as given in the input, before the 1/scale inversion
	ScaleStored   float64 // 1/Scale, as the downstream deck writer expects
	Istrng        float64
	FillRatio     float64
	CavitySurften float64
	SanderAPBS    bool
	MaxCyc        int
	NPBVerb       bool
}

// Ala holds the &ala namespace.
type Ala struct {
	MutantOnly bool
	Mutant     string
	MutantRes  string
	CasIntdiel bool
}

// Nmode holds the &nmode namespace.
type Nmode struct {
	NMStartFrame int
	NMEndFrame   int
	NMInterval   int
	MaxCyc       int
	DRMS         float64
	Dielc        float64
	NmodeIGB     int
	NmodeIstrng  float64
}

// Decomp holds the &decomp namespace.
type Decomp struct {
	Idecomp    int
	DecVerbose int
	CSVFormat  bool
	PrintRes   string
}

// Rism holds the &rism namespace.
type Rism struct {
	Closure     string
	Buffer      float64
	Grdspc      float64
	Tolerance   float64
	Thermo      string // lowercased
	PolarDecomp bool
}

// RunConfig is the fully validated configuration. It is built
// once and immutable thereafter.
type RunConfig struct {
	General General
	GB      GB
	PB      PB
	Ala     Ala
	Nmode   Nmode
	Decomp  Decomp
	Rism    Rism

	Triggered map[string]bool

	// Derived booleans.
	GBRun      bool
	PBRun      bool
	RismRun    bool
	NmodeRun   bool
	AlaRun     bool
	DecompRun  bool
	RismRunStd bool
	RismRunGF  bool

	// StabilityOnly is true when no receptor/ligand topology was supplied;
	// it is set by the caller (the topology builder is out of scope here)
	// once it knows whether receptor/ligand topologies exist, not
	// derivable from the namelist alone.
	StabilityOnly bool

	Warnings []mmerrors.Warning
}

// Build converts a parsed namelist.Document into a RunConfig, without
// running cross-field validation.
func Build(doc *namelist.Document) (*RunConfig, error) {
	rc := &RunConfig{Triggered: doc.Triggered}

	g := doc.Values["general"]
	rc.General = General{
		StartFrame:         g["startframe"].Int,
		EndFrame:           g["endframe"].Int,
		Interval:           g["interval"].Int,
		Temperature:        g["temperature"].Float,
		ForceFields:        g["forcefields"].List,
		PBRadii:            g["pbradii"].Int,
		StripMask:          g["strip_mask"].Str,
		SolvatedTrajectory: g["solvated_trajectory"].Int != 0,
		KeepFiles:          g["keep_files"].Int,
		Verbose:            g["verbose"].Int,
		InteractionEntropy: g["interaction_entropy"].Int != 0,
		C2Entropy:          g["c2_entropy"].Int != 0,
		QHEntropy:          g["qh_entropy"].Int != 0,
		IESegment:          g["ie_segment"].Int,
		C2Segment:          g["c2_segment"].Int,
		NetCDF:             g["netcdf"].Int != 0,
		SysName:            g["sys_name"].Str,
		FullTraj:           g["full_traj"].Int != 0,
		ExpKi:              g["exp_ki"].Float,
	}

	gb := doc.Values["gb"]
	rc.GB = GB{
		IGB:         gb["igb"].Int,
		ExtDiel:     gb["extdiel"].Float,
		IntDiel:     gb["intdiel"].Float,
		SaltCon:     gb["saltcon"].Float,
		SurfTen:     gb["surften"].Float,
		SurfOff:     gb["surfoff"].Float,
		Molsurf:     gb["molsurf"].Int != 0,
		Probe:       gb["probe"].Float,
		MSOffset:    gb["msoffset"].Float,
		IFQNT:       gb["ifqnt"].Int != 0,
		QMTheory:    gb["qm_theory"].Str,
		QMResidues:  gb["qm_residues"].Str,
		QMChargeCom: gb["qmcharge_com"].Int,
		QMChargeRec: gb["qmcharge_rec"].Int,
		QMChargeLig: gb["qmcharge_lig"].Int,
		QMCut:       gb["qmcut"].Float,
	}

	pb := doc.Values["pb"]
	scaleIn := pb["scale"].Float
	rc.PB = PB{
		NTB:           pb["ntb"].Int,
		INP:           pb["inp"].Int,
		RadiOpt:       pb["radiopt"].Int,
		PRBRad:        pb["prbrad"].Float,
		Indi:          pb["indi"].Float,
		Exdi:          pb["exdi"].Float,
		Scale:         scaleIn,
		Istrng:        pb["istrng"].Float,
		FillRatio:     pb["fillratio"].Float,
		CavitySurften: pb["cavity_surften"].Float,
		SanderAPBS:    pb["sander_apbs"].Int != 0,
		MaxCyc:        pb["maxcyc"].Int,
		NPBVerb:       pb["npbverb"].Int != 0,
	}

	ala := doc.Values["ala"]
	rc.Ala = Ala{
		MutantOnly: ala["mutant_only"].Int != 0,
		Mutant:     strings.ToUpper(ala["mutant"].Str),
		MutantRes:  ala["mutant_res"].Str,
		CasIntdiel: ala["cas_intdiel"].Int != 0,
	}

	nm := doc.Values["nmode"]
	rc.Nmode = Nmode{
		NMStartFrame: nm["nmstartframe"].Int,
		NMEndFrame:   nm["nmendframe"].Int,
		NMInterval:   nm["nminterval"].Int,
		MaxCyc:       nm["maxcyc"].Int,
		DRMS:         nm["drms"].Float,
		Dielc:        nm["dielc"].Float,
		NmodeIGB:     nm["nmode_igb"].Int,
		NmodeIstrng:  nm["nmode_istrng"].Float,
	}

	dec := doc.Values["decomp"]
	rc.Decomp = Decomp{
		Idecomp:    dec["idecomp"].Int,
		DecVerbose: dec["dec_verbose"].Int,
		CSVFormat:  dec["csv_format"].Int != 0,
		PrintRes:   dec["print_res"].Str,
	}

	rs := doc.Values["rism"]
	rc.Rism = Rism{
		Closure:     rs["closure"].Str,
		Buffer:      rs["buffer"].Float,
		Grdspc:      rs["grdspc"].Float,
		Tolerance:   rs["tolerance"].Float,
		Thermo:      strings.ToLower(rs["thermo"].Str),
		PolarDecomp: rs["polardecomp"].Int != 0,
	}

	rc.GBRun = doc.Triggered["gb"]
	rc.PBRun = doc.Triggered["pb"]
	rc.RismRun = doc.Triggered["rism"]
	rc.NmodeRun = doc.Triggered["nmode"]
	rc.AlaRun = doc.Triggered["ala"]
	rc.DecompRun = doc.Triggered["decomp"]
	rc.RismRunStd = rc.RismRun && (rc.Rism.Thermo == "std" || rc.Rism.Thermo == "both")
	rc.RismRunGF = rc.RismRun && (rc.Rism.Thermo == "gf" || rc.Rism.Thermo == "both")

	// scale is stored inverted to express grid spacing.
	if scaleIn != 0 {
		rc.PB.ScaleStored = 1.0 / scaleIn
	}

	return rc, nil
}

// ParseAndBuild is the common entry point: parse the namelist file, build
// the RunConfig, and validate it. stabilityOnly must be supplied by the
// caller once the topology builder (out of scope here) has reported
// whether receptor/ligand topologies exist.
func ParseAndBuild(path string, stabilityOnly bool) (*RunConfig, error) {
	reg := namelist.NewRegistry(Schemas())
	doc, err := namelist.Parse(path, reg)
	if err != nil {
		return nil, err
	}
	rc, err := Build(doc)
	if err != nil {
		return nil, err
	}
	rc.StabilityOnly = stabilityOnly
	if err := Validate(rc); err != nil {
		return nil, err
	}
	return rc, nil
}

// FormatFloat formats f in the shortest 'g' form that round-trips to the
// same float64.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
