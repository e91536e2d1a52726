package config

import (
	"strings"
	"testing"

	"github.com/liang2508/gmx-mmpbsa/namelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBuild(t *testing.T, src string) *RunConfig {
	t.Helper()
	reg := namelist.NewRegistry(Schemas())
	doc, err := namelist.ParseReader(strings.NewReader(src), reg)
	require.NoError(t, err)
	rc, err := Build(doc)
	require.NoError(t, err)
	return rc
}

func TestBuildAppliesDefaults(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n/\n")
	assert.Equal(t, 1, rc.General.StartFrame)
	assert.Equal(t, 298.15, rc.General.Temperature)
	assert.Equal(t, 5, rc.GB.IGB)
	assert.True(t, rc.GBRun)
	assert.False(t, rc.PBRun)
}

func TestBuildScaleInversion(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&pb\n scale=4.0\n/\n")
	assert.Equal(t, 4.0, rc.PB.Scale)
	assert.Equal(t, 0.25, rc.PB.ScaleStored)
}

func TestBuildRismThermoBoth(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&rism\n thermo=both\n/\n")
	assert.True(t, rc.RismRunStd)
	assert.True(t, rc.RismRunGF)
}

func TestValidateRequiresAtLeastOneMethod(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one")
}

func TestValidateDecompRequiresGBorPB(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&nmode\n/\n&decomp\n idecomp=1\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decomprun requires")
}

func TestValidateDecompIdecompRange(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n/\n&decomp\n idecomp=9\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idecomp must be")
}

func TestValidateDecompIncompatibleWithQMMM(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n ifqnt=1\n/\n&decomp\n idecomp=1\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QM/MM")
}

func TestValidateAlaMutantNormalized(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n/\n&ala\n mutant=A\n/\n")
	require.NoError(t, Validate(rc))
	assert.Equal(t, "ALA", rc.Ala.Mutant)
}

func TestValidateAlaRejectsUnknownMutant(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n/\n&ala\n mutant=LYS\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be ALA or GLY")
}

func TestValidateAlaIncompatibleWithNetCDF(t *testing.T) {
	rc := parseBuild(t, "&general\n netcdf=1\n/\n&gb\n/\n&ala\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "netcdf")
}

func TestValidateStartFrameCorrected(t *testing.T) {
	rc := parseBuild(t, "&general\n startframe=0\n/\n&gb\n/\n")
	require.NoError(t, Validate(rc))
	assert.Equal(t, 1, rc.General.StartFrame)
	require.Len(t, rc.Warnings, 1)
	assert.Contains(t, rc.Warnings[0].Msg, "corrected to 1")
}

func TestValidateEndFrameBeforeStart(t *testing.T) {
	rc := parseBuild(t, "&general\n startframe=50\n endframe=10\n/\n&gb\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endframe")
}

func TestValidateIntdielWarning(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n intdiel=20\n/\n")
	require.NoError(t, Validate(rc))
	require.Len(t, rc.Warnings, 1)
	assert.Contains(t, rc.Warnings[0].Msg, "unusually high")
}

func TestValidateQMChargeBalance(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n ifqnt=1\n qmcharge_rec=1\n qmcharge_lig=1\n qmcharge_com=3\n/\n")
	err := Validate(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qmcharge_rec")
}

func TestValidateStabilityOnlyForcesVerbose(t *testing.T) {
	rc := parseBuild(t, "&general\n/\n&gb\n/\n")
	rc.StabilityOnly = true
	require.NoError(t, Validate(rc))
	assert.Equal(t, 2, rc.General.Verbose)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.5", FormatFloat(1.5))
	assert.Equal(t, "0", FormatFloat(0))
}
