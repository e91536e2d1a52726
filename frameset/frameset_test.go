package frameset

import (
	"testing"

	"github.com/liang2508/gmx-mmpbsa/config"
	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.RunConfig {
	rc := &config.RunConfig{}
	rc.General.StartFrame = 1
	rc.General.EndFrame = 100
	rc.General.Interval = 1
	rc.General.IESegment = 25
	rc.General.C2Segment = 10
	rc.Nmode.NMStartFrame = 1
	rc.Nmode.NMEndFrame = 10
	rc.Nmode.NMInterval = 1
	rc.PB.Scale = 2.0
	return rc
}

func TestNewFrameSetCount(t *testing.T) {
	fs := NewFrameSet(1, 100, 1)
	assert.Equal(t, 100, fs.Count)
	fs2 := NewFrameSet(1, 100, 10)
	assert.Equal(t, 10, fs2.Count)
}

func TestBuildSingleTrajectoryMatch(t *testing.T) {
	rc := baseConfig()
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 100, LigandFrames: 100}
	plan, err := Build(rc, reported, true, 4)
	require.NoError(t, err)
	assert.Equal(t, SingleTrajectory, plan.Protocol.Kind)
	assert.Equal(t, 100, plan.Energy.Count)
	assert.Equal(t, 25, plan.IEWindow)
	assert.Equal(t, 10, plan.C2Window)
	assert.Equal(t, 0.5, plan.ScaleStored)
	require.Len(t, plan.Shards, 4)
	assert.Equal(t, Shard{Rank: 0, Lo: 0, Hi: 25}, plan.Shards[0])
	assert.Equal(t, Shard{Rank: 3, Lo: 75, Hi: 100}, plan.Shards[3])
}

func TestBuildSingleTrajectoryMismatchErrors(t *testing.T) {
	rc := baseConfig()
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 90, LigandFrames: 100}
	_, err := Build(rc, reported, true, 1)
	require.Error(t, err)
	var mismatch mmerrors.TrajectoryMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestBuildMultipleTrajectoryMismatchErrors(t *testing.T) {
	rc := baseConfig()
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 100, LigandFrames: 80}
	_, err := Build(rc, reported, false, 1)
	require.Error(t, err)
}

func TestBuildStabilityOnlySkipsCrossCheck(t *testing.T) {
	rc := baseConfig()
	rc.StabilityOnly = true
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 0, LigandFrames: 0}
	plan, err := Build(rc, reported, true, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, plan.Energy.Count)
}

func TestBuildTrajSuffixNetCDF(t *testing.T) {
	rc := baseConfig()
	rc.General.NetCDF = true
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 100, LigandFrames: 100}
	plan, err := Build(rc, reported, true, 1)
	require.NoError(t, err)
	assert.Equal(t, "nc", plan.TrajSuffix)
}

func TestBuildRismThermoSplit(t *testing.T) {
	rc := baseConfig()
	rc.RismRun = true
	rc.Rism.Thermo = "GF"
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 100, LigandFrames: 100}
	plan, err := Build(rc, reported, true, 1)
	require.NoError(t, err)
	assert.False(t, plan.RismRunStd)
	assert.True(t, plan.RismRunGF)
}

func TestBuildSingleRankShard(t *testing.T) {
	rc := baseConfig()
	reported := ReportedCounts{NumFrames: 100, ReceptorFrames: 100, LigandFrames: 100}
	plan, err := Build(rc, reported, true, 0)
	require.NoError(t, err)
	require.Len(t, plan.Shards, 1)
	assert.Equal(t, Shard{Rank: 0, Lo: 0, Hi: 100}, plan.Shards[0])
}
