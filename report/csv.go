package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/liang2508/gmx-mmpbsa/compose"
)

// WriteCSV dumps one row per frame for every matched (per-frame) term on
// the model's binding delta, used when the run requests a per-frame energy
// dump rather than just the summary statistics. Terms composed by
// independent-variance propagation have no per-frame values and are left
// out.
func WriteCSV(w io.Writer, mr *compose.ModelResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	terms := make([]string, 0, len(mr.Normal.Delta))
	nFrames := 0
	for term, d := range mr.Normal.Delta {
		if !d.Matched {
			continue
		}
		terms = append(terms, term)
		if n := d.Vector.Len(); n > nFrames {
			nFrames = n
		}
	}
	sort.Strings(terms)

	header := append([]string{"Frame #"}, terms...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < nFrames; i++ {
		row := make([]string, 0, len(terms)+1)
		row = append(row, strconv.Itoa(i+1))
		for _, term := range terms {
			d := mr.Normal.Delta[term]
			if i < len(d.Vector) {
				row = append(row, strconv.FormatFloat(d.Vector[i], 'f', 4, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
