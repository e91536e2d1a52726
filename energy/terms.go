package energy

import "strings"

// Species tags which of the three partners a Terms map belongs to.
type Species int

const (
	Complex Species = iota
	Receptor
	Ligand
)

func (s Species) String() string {
	switch s {
	case Complex:
		return "complex"
	case Receptor:
		return "receptor"
	case Ligand:
		return "ligand"
	default:
		return "unknown"
	}
}

// Model tags which solvation/entropy method produced a Terms map.
type Model int

const (
	ModelGB Model = iota
	ModelPB
	ModelRismStd
	ModelRismGF
	ModelNmode
	ModelQH
)

func (m Model) String() string {
	switch m {
	case ModelGB:
		return "gb"
	case ModelPB:
		return "pb"
	case ModelRismStd:
		return "rism std"
	case ModelRismGF:
		return "rism gf"
	case ModelNmode:
		return "nmode"
	case ModelQH:
		return "qh"
	default:
		return "unknown"
	}
}

// Canonical Amber energy term names this parser recognizes, plus the
// CHARMM-only additions.
const (
	TermBond    = "BOND"
	TermAngle   = "ANGLE"
	TermDihed   = "DIHED"
	TermVDW     = "VDWAALS"
	TermEEL     = "EEL"
	Term14VDW   = "1-4 VDW"
	Term14EEL   = "1-4 EEL"
	TermUB      = "UB"
	TermIMP     = "IMP"
	TermCMAP    = "CMAP"
	TermEGB     = "EGB"
	TermESURF   = "ESURF"
	TermEPB     = "EPB"
	TermENPOLAR = "ENPOLAR"
	TermEDISPER = "EDISPER"
	TermERISM   = "ERISM" // RISM solvation free energy (std and gf share the name; the model tag disambiguates)
	TermGGas    = "G gas"
	TermGSolv   = "G solv"
	TermTotal   = "TOTAL"
)

// termSynonyms maps alternate spellings solver outputs use onto the
// canonical name the parser stores terms under.
var termSynonyms = map[string]string{
	"VDWAALS":    TermVDW,
	"VDW":        TermVDW,
	"EELEC":      TermEEL,
	"EEL":        TermEEL,
	"1-4 VDW":    Term14VDW,
	"1-4 EEL":    Term14EEL,
	"1-4NB":      Term14VDW,
	"1-4EEL":     Term14EEL,
	"EGB":        TermEGB,
	"ESURF":      TermESURF,
	"EPB":        TermEPB,
	"ENPOLAR":    TermENPOLAR,
	"EDISPER":    TermEDISPER,
	"ECAVITY":    TermEDISPER,
	"ERISM":      TermERISM,
	"BOND":       TermBond,
	"ANGLE":      TermAngle,
	"DIHED":      TermDihed,
	"UB":         TermUB,
	"IMP":        TermIMP,
	"CMAP":       TermCMAP,
}

// Canonicalize maps a raw token from a solver output file to the closed set
// of canonical term names, or returns ok=false if the token is not a
// recognized energy term (e.g. it's a header or a non-energy field).
func Canonicalize(raw string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canon, ok := termSynonyms[key]; ok {
		return canon, true
	}
	// try the original casing (e.g. "1-4 VDW" already canonical with a space)
	if canon, ok := termSynonyms[strings.TrimSpace(raw)]; ok {
		return canon, true
	}
	return "", false
}

// Terms is a term_name -> EnergyVector mapping for one species.
type Terms struct {
	Species Species
	Model   Model
	Charmm  bool // true when UB/IMP/CMAP terms are present (CHARMM topology)
	Values  map[string]Vector
}

// NewTerms builds an empty Terms map.
func NewTerms(species Species, model Model) *Terms {
	return &Terms{Species: species, Model: model, Values: make(map[string]Vector)}
}

// Set stores a parsed vector under its canonical term name and flags the
// CHARMM-topology case when UB/IMP/CMAP terms appear.
func (t *Terms) Set(term string, v Vector) {
	t.Values[term] = v
	if term == TermUB || term == TermIMP || term == TermCMAP {
		t.Charmm = true
	}
}

func (t *Terms) get(term string) Vector { return t.Values[term] }

// FillComposite computes "G gas", "G solv", and "TOTAL" from the raw
// per-term values, once the per-term parse completes.
func (t *Terms) FillComposite() error {
	gasTerms := []Vector{t.get(TermBond), t.get(TermAngle), t.get(TermDihed), t.get(TermVDW), t.get(TermEEL), t.get(Term14VDW), t.get(Term14EEL)}
	if t.Charmm {
		gasTerms = append(gasTerms, t.get(TermUB), t.get(TermIMP), t.get(TermCMAP))
	}
	gas, err := sumNonNil(gasTerms)
	if err != nil {
		return err
	}
	t.Set(TermGGas, gas)

	var solv Vector
	switch t.Model {
	case ModelGB:
		solv, err = sumNonNil([]Vector{t.get(TermEGB), t.get(TermESURF)})
	case ModelPB:
		solv, err = sumNonNil([]Vector{t.get(TermEPB), t.get(TermENPOLAR), t.get(TermEDISPER)})
	case ModelRismStd, ModelRismGF:
		solv, err = sumNonNil([]Vector{t.get(TermERISM)})
	default:
		solv = make(Vector, len(gas)) // nmode/qh vectors are entropy corrections, not solvation; G solv is zero for them
	}
	if err != nil {
		return err
	}
	t.Set(TermGSolv, solv)

	total, err := gas.Add(solv)
	if err != nil {
		return err
	}
	t.Set(TermTotal, total)
	return nil
}

func sumNonNil(vecs []Vector) (Vector, error) {
	var filtered []Vector
	for _, v := range vecs {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return Vector{}, nil
	}
	return SumVectors(filtered...)
}
