// Package outparse implements the Output Parser: for each model/species,
// it reads the per-rank solver output files (line-oriented "NAME = value"
// records), concatenates all rank-shards in rank order, and populates an
// energy.Terms map.
//
// Built around a bufio.Scanner-based parser with an explicit line counter,
// for readable, line-numbered ParseError context instead of a
// regex-only sweep.
package outparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
)

var termLine = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9+\-_. ]*?)\s*=\s*(-?[0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)\s*$`)

// ParseShards reads shardPaths in rank order (the caller is responsible
// for sorting them 0..R-1, since shards are concatenated in rank order)
// and returns the populated energy.Terms, with composite terms
// ("G gas", "G solv", "TOTAL") already filled in.
func ParseShards(shardPaths []string, species energy.Species, model energy.Model) (*energy.Terms, error) {
	terms := energy.NewTerms(species, model)
	for _, path := range shardPaths {
		if err := parseOneShard(path, terms); err != nil {
			return nil, err
		}
	}
	if len(terms.Values) == 0 {
		return nil, mmerrors.ParseError{File: strings.Join(shardPaths, ","), Msg: "no recognized energy terms found"}
	}
	if err := terms.FillComposite(); err != nil {
		return nil, err
	}
	return terms, nil
}

func parseOneShard(path string, terms *energy.Terms) error {
	f, err := os.Open(path)
	if err != nil {
		return mmerrors.SolverFailure{Program: path, Inner: err}
	}
	defer f.Close()
	return parseReader(f, path, terms)
}

func parseReader(r io.Reader, filename string, terms *energy.Terms) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		m := termLine.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		canon, ok := energy.Canonicalize(name)
		if !ok {
			continue
		}
		val, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return mmerrors.ParseError{File: filename, Line: line, Context: text, Msg: fmt.Sprintf("unparsable value for %s", name), Inner: err}
		}
		existing := terms.Values[canon]
		terms.Set(canon, append(existing, val))
	}
	return scanner.Err()
}
