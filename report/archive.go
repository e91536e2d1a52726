package report

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/liang2508/gmx-mmpbsa/compose"
	"github.com/liang2508/gmx-mmpbsa/config"
	"lukechampine.com/blake3"
)

// Archive is the self-describing structured dump of a full run: one group
// per solver model (named after energy.Model.String(), e.g. "gb", "rism
// gf"), plus top-level entropy groups, mirroring the model/result grouping
// CalcTypes keeps in memory.
type Archive struct {
	Info   ArchiveInfo             `json:"info"`
	Models map[string]ArchiveModel `json:"models"`
	IE     *compose.EntropyResult  `json:"ie,omitempty"`
	C2     *compose.EntropyResult  `json:"c2,omitempty"`
	QH     *compose.EntropyResult  `json:"qh,omitempty"`
}

// ArchiveInfo carries the run-identifying fields a reader needs without
// re-parsing the original configuration.
type ArchiveInfo struct {
	SysName     string  `json:"sys_name"`
	StartFrame  int     `json:"start_frame"`
	EndFrame    int     `json:"end_frame"`
	Interval    int     `json:"interval"`
	Temperature float64 `json:"temperature"`
}

// ArchiveModel is one model's worth of results in a JSON-friendly shape.
type ArchiveModel struct {
	DeltaMean map[string]float64 `json:"delta_mean"`
	DeltaStd  map[string]float64 `json:"delta_std"`
	AlaDelta  map[string]float64 `json:"ala_delta,omitempty"`
}

// BuildArchive flattens a CalcTypes aggregate into the serializable form.
func BuildArchive(rc *config.RunConfig, ct *compose.CalcTypes) *Archive {
	a := &Archive{
		Info: ArchiveInfo{
			SysName:     rc.General.SysName,
			StartFrame:  rc.General.StartFrame,
			EndFrame:    rc.General.EndFrame,
			Interval:    rc.General.Interval,
			Temperature: rc.General.Temperature,
		},
		Models: make(map[string]ArchiveModel),
		IE:     ct.IE,
		C2:     ct.C2,
		QH:     ct.QH,
	}
	for model, mr := range ct.Models {
		am := ArchiveModel{DeltaMean: make(map[string]float64), DeltaStd: make(map[string]float64)}
		for term, d := range mr.Normal.Delta {
			am.DeltaMean[term] = d.Mean()
			am.DeltaStd[term] = d.Stdev()
		}
		if mr.AlaDelta != nil {
			am.AlaDelta = make(map[string]float64)
			for term, d := range mr.AlaDelta {
				am.AlaDelta[term] = d.Mean()
			}
		}
		a.Models[model.String()] = am
	}
	return a
}

// WriteArchive serializes the archive as indented JSON and appends a
// trailing line with its blake3 content hash, so a reader can verify the
// payload above it was not truncated or altered in transit.
func WriteArchive(w io.Writer, a *Archive) error {
	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	sum := blake3.Sum256(payload)
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	_, err = io.WriteString(w, "# blake3: "+hex.EncodeToString(sum[:])+"\n")
	return err
}

// VerifyArchive recomputes the blake3 hash over raw and reports whether it
// matches a "# blake3: <hex>" trailer line appended by WriteArchive.
func VerifyArchive(raw []byte) (bool, error) {
	idx := bytes.LastIndex(raw, []byte("# blake3: "))
	if idx < 0 {
		return false, nil
	}
	payload := raw[:idx]
	trailer := bytes.TrimSpace(raw[idx+len("# blake3: "):])
	want, err := hex.DecodeString(string(trailer))
	if err != nil {
		return false, err
	}
	got := blake3.Sum256(bytes.TrimSuffix(payload, []byte("\n")))
	return bytes.Equal(got[:], want), nil
}
