// Package frameset implements the Frame Planner: it derives
// FrameSet ranges, per-rank shards, and the TrajectoryProtocol from a
// config.RunConfig plus the trajectory tool's reported frame counts.
package frameset

import (
	"math"
	"strings"

	"github.com/liang2508/gmx-mmpbsa/config"
	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
)

// FrameSet is {start, end, interval, count}.
type FrameSet struct {
	Start    int
	End      int
	Interval int
	Count    int
}

// NewFrameSet builds a FrameSet and computes Count = floor((end-start)/interval)+1.
func NewFrameSet(start, end, interval int) FrameSet {
	count := (end-start)/interval + 1
	if count < 0 {
		count = 0
	}
	return FrameSet{Start: start, End: end, Interval: interval, Count: count}
}

// ProtocolKind tags the TrajectoryProtocol variant.
type ProtocolKind int

const (
	SingleTrajectory ProtocolKind = iota
	MultipleTrajectory
)

// Protocol is the tagged TrajectoryProtocol variant.
type Protocol struct {
	Kind ProtocolKind
}

// ReportedCounts are the frame counts the external trajectory tool reports
// after slicing/reading the actual trajectory files.
type ReportedCounts struct {
	NumFrames        int
	ReceptorFrames   int
	LigandFrames     int
	NumFramesNmode   int
}

// Plan is the Frame Planner's output: the energy and nmode FrameSets, the
// trajectory protocol, segment window sizes for IE/C2, the per-rank shard
// boundaries, the inverted PB scale, the rism std/gf run flags derived from
// the lowercased thermo mode, and the trajectory suffix.
type Plan struct {
	Energy        FrameSet
	Nmode         FrameSet
	Protocol      Protocol
	IEWindow      int
	C2Window      int
	TrajSuffix    string
	RismRunStd    bool
	RismRunGF     bool
	ScaleStored   float64
	Shards        []Shard // rank -> [lo, hi) contiguous frame-index block
}

// Shard is a contiguous, half-open frame-index block assigned to one rank.
type Shard struct {
	Rank int
	Lo   int
	Hi   int
}

// Build runs the Frame Planner: checks the reported receptor/ligand frame
// counts against the reported complex count (skipped for stability-only
// runs), derives the protocol, computes IE/C2 window sizes, and partitions
// frames across numRanks.
func Build(rc *config.RunConfig, reported ReportedCounts, isSingleTrajectory bool, numRanks int) (*Plan, error) {
	energy := NewFrameSet(rc.General.StartFrame, rc.General.EndFrame, rc.General.Interval)
	nmode := NewFrameSet(rc.Nmode.NMStartFrame, rc.Nmode.NMEndFrame, rc.Nmode.NMInterval)

	protocol := Protocol{Kind: MultipleTrajectory}
	if isSingleTrajectory {
		protocol.Kind = SingleTrajectory
	}

	if rc.StabilityOnly {
		// no receptor/ligand partners to cross-check.
	} else if protocol.Kind == SingleTrajectory {
		if reported.ReceptorFrames != reported.NumFrames || reported.LigandFrames != reported.NumFrames {
			return nil, mmerrors.TrajectoryMismatch{
				Msg:      "single-trajectory receptor/ligand frame counts must equal the complex frame count",
				Complex:  reported.NumFrames,
				Receptor: reported.ReceptorFrames,
				Ligand:   reported.LigandFrames,
			}
		}
	} else {
		if reported.NumFrames != reported.ReceptorFrames || reported.NumFrames != reported.LigandFrames {
			return nil, mmerrors.TrajectoryMismatch{
				Msg:      "multiple-trajectory complex/receptor/ligand frame counts must all be equal",
				Complex:  reported.NumFrames,
				Receptor: reported.ReceptorFrames,
				Ligand:   reported.LigandFrames,
			}
		}
	}

	trajSuffix := "mdcrd"
	if rc.General.NetCDF {
		trajSuffix = "nc"
	}

	thermo := strings.ToLower(rc.Rism.Thermo)
	rismRunStd := rc.RismRun && (thermo == "std" || thermo == "both")
	rismRunGF := rc.RismRun && (thermo == "gf" || thermo == "both")

	ieWindow := segmentCount(energy.Count, rc.General.IESegment)
	c2Window := segmentCount(energy.Count, rc.General.C2Segment)

	if numRanks < 1 {
		numRanks = 1
	}
	shards := make([]Shard, numRanks)
	for i := 0; i < numRanks; i++ {
		shards[i] = Shard{
			Rank: i,
			Lo:   i * energy.Count / numRanks,
			Hi:   (i + 1) * energy.Count / numRanks,
		}
	}

	var scaleStored float64
	if rc.PB.Scale != 0 {
		scaleStored = 1.0 / rc.PB.Scale
	}

	return &Plan{
		Energy:      energy,
		Nmode:       nmode,
		Protocol:    protocol,
		IEWindow:    ieWindow,
		C2Window:    c2Window,
		TrajSuffix:  trajSuffix,
		RismRunStd:  rismRunStd,
		RismRunGF:   rismRunGF,
		ScaleStored: scaleStored,
		Shards:      shards,
	}, nil
}

// segmentCount is ceil(count * percent / 100), the IE/C2 window-size rule.
func segmentCount(count, percent int) int {
	if count <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count) * float64(percent) / 100.0))
}
