package outparse

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
)

// Per-residue decomposition record line, e.g.:
//
//	TDC   A/35/ALA   BOND    1.234   ANGLE    2.345  ...
//
// Pairwise records carry a second residue field:
//
//	TDC   A/35/ALA   A/40/GLU   BOND   1.234 ...
var (
	residueTok = regexp.MustCompile(`^([A-Za-z]*)/?(-?\d+)([A-Za-z]?)/([A-Za-z0-9*]+)$`)
	decompLine = regexp.MustCompile(`(?i)^\s*(TDC|SDC|BDC)\s+(\S+)(?:\s+(\S+))?\s+(.*)$`)
	termPair   = regexp.MustCompile(`([A-Za-z0-9+\-]+(?:\s[A-Za-z0-9+\-]+)?)\s*=?\s*(-?[0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)
)

// ParseDecompShards reads per-rank decomposition output files and builds a
// DecompTable keyed by (component, residue[,residue'], term). idecomp
// selects per-residue (1,2) vs pairwise (3,4) records.
func ParseDecompShards(shardPaths []string, species energy.Species, model energy.Model, idecomp int) (*energy.DecompTable, error) {
	table := energy.NewDecompTable(model, species)
	pairwise := idecomp == 3 || idecomp == 4
	for _, path := range shardPaths {
		if err := parseDecompFile(path, table, pairwise); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func parseDecompFile(path string, table *energy.DecompTable, pairwise bool) error {
	f, err := os.Open(path)
	if err != nil {
		return mmerrors.SolverFailure{Program: path, Inner: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		m := decompLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		component := parseComponent(m[1])
		resA, ok := parseResidue(m[2])
		if !ok {
			continue
		}
		rest := m[4]
		var resB energy.Residue
		haveB := false
		if pairwise && m[3] != "" {
			if rb, ok := parseResidue(m[3]); ok {
				resB = rb
				haveB = true
			}
		} else if m[3] != "" {
			// idecomp expects a single residue, so the optional second
			// field (usually the first term name) belongs to the term
			// text; fold it back.
			rest = m[3] + " " + rest
		}
		terms := termPair.FindAllStringSubmatch(rest, -1)
		if len(terms) == 0 {
			return mmerrors.ParseError{File: path, Line: lineNo, Context: line, Msg: "decomposition record missing energy terms"}
		}
		for _, t := range terms {
			canon, ok := energy.Canonicalize(t[1])
			if !ok {
				continue
			}
			val, err := strconv.ParseFloat(t[2], 64)
			if err != nil {
				return mmerrors.ParseError{File: path, Line: lineNo, Context: line, Msg: "unparsable decomposition value", Inner: err}
			}
			if haveB {
				table.SetPair(component, energy.ResiduePair{A: resA, B: resB}, canon, val)
			} else {
				table.SetResidue(component, resA, canon, val)
			}
		}
	}
	return scanner.Err()
}

func parseComponent(tok string) energy.Component {
	switch strings.ToUpper(tok) {
	case "SDC":
		return energy.SDC
	case "BDC":
		return energy.BDC
	default:
		return energy.TDC
	}
}

// parseResidue resolves a "Chain/ResNum[InsCode]/Name" token (e.g.
// "A/35/ALA" or "A/35A/ALA") into a Residue.
func parseResidue(tok string) (energy.Residue, bool) {
	parts := strings.Split(tok, "/")
	if len(parts) != 3 {
		return energy.Residue{}, false
	}
	chain := parts[0]
	numTok := parts[1]
	name := parts[2]

	ins := ""
	i := len(numTok)
	for i > 0 && (numTok[i-1] < '0' || numTok[i-1] > '9') {
		i--
	}
	digits := numTok[:i]
	if i < len(numTok) {
		ins = numTok[i:]
	}
	if digits == "" {
		return energy.Residue{}, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return energy.Residue{}, false
	}
	return energy.Residue{Chain: chain, ResNum: n, InsCode: ins, Name: name}, true
}
