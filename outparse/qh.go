package outparse

import (
	"bufio"
	"os"
	"regexp"
	"strconv"

	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
)

// qhTotalLine matches the single scalar entropy value the quasi-harmonic
// tool reports, e.g. "Total:    -33.2949" (cal/mol-K).
var qhTotalLine = regexp.MustCompile(`(?i)^\s*total\s*[:=]\s*(-?[0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?)`)

// ParseQH reads the quasi-harmonic tool's output file and returns the
// single scalar entropy value (cal/mol-K) it reports.
func ParseQH(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, mmerrors.SolverFailure{Program: path, Inner: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		m := qhTotalLine.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, mmerrors.ParseError{File: path, Line: line, Context: text, Msg: "unparsable quasi-harmonic entropy value", Inner: err}
		}
		return val, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, mmerrors.ParseError{File: path, Msg: "no quasi-harmonic entropy total found"}
}
