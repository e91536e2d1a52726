package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/liang2508/gmx-mmpbsa/calcplan"
	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/liang2508/gmx-mmpbsa/internal/mmlog"
	"github.com/liang2508/gmx-mmpbsa/rankio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (f *fakeRunner) Run(ctx context.Context, program string, args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s %v", program, args))
	if f.fail {
		return fmt.Errorf("boom")
	}
	return nil
}

func TestRunExecutesStepsInPhaseOrder(t *testing.T) {
	plan := &calcplan.Plan{Steps: []calcplan.Step{
		{Kind: calcplan.KindProgress, Phase: calcplan.PhaseGB, Message: "starting gb"},
		{Kind: calcplan.KindEnergy, Phase: calcplan.PhaseGB, Program: "mmpbsa_py_energy", Species: energy.Complex},
		{Kind: calcplan.KindEnergy, Phase: calcplan.PhasePB, Program: "mmpbsa_py_energy", Species: energy.Complex},
	}}
	runner := &fakeRunner{}
	ex := &Executor{Ctx: rankio.NewSingle(), Runner: runner, Log: mmlog.New(os.Stderr, mmlog.LevelWarn, 0)}
	require.NoError(t, ex.Run(plan))
	assert.Len(t, runner.calls, 2)
	require.Len(t, ex.Timings, 2)
	assert.Equal(t, calcplan.PhaseGB, ex.Timings[0].Phase)
	assert.Equal(t, calcplan.PhasePB, ex.Timings[1].Phase)
}

func TestRunPropagatesSolverFailure(t *testing.T) {
	plan := &calcplan.Plan{Steps: []calcplan.Step{
		{Kind: calcplan.KindEnergy, Phase: calcplan.PhaseGB, Program: "mmpbsa_py_energy"},
	}}
	runner := &fakeRunner{fail: true}
	ex := &Executor{Ctx: rankio.NewSingle(), Runner: runner, Log: mmlog.New(os.Stderr, mmlog.LevelWarn, 0)}
	err := ex.Run(plan)
	require.Error(t, err)
}

func TestRunCopyStep(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.out")
	dst := filepath.Join(dir, "dst.out")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	plan := &calcplan.Plan{Steps: []calcplan.Step{
		{Kind: calcplan.KindCopy, Phase: calcplan.PhaseGB, CopySrc: src, CopyDst: dst},
	}}
	ex := &Executor{Ctx: rankio.NewSingle(), Runner: &fakeRunner{}, Log: mmlog.New(os.Stderr, mmlog.LevelWarn, 0)}
	require.NoError(t, ex.Run(plan))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOutputPathsExpandsRankTemplate(t *testing.T) {
	step := calcplan.Step{OutputTemplate: "complex_gb_%d.out"}
	paths := OutputPaths(step, 3)
	require.Equal(t, []string{"complex_gb_0.out", "complex_gb_1.out", "complex_gb_2.out"}, paths)
}

func TestOutputPathsNoPlaceholder(t *testing.T) {
	step := calcplan.Step{OutputTemplate: "qh.out"}
	paths := OutputPaths(step, 2)
	assert.Equal(t, []string{"qh.out", "qh.out"}, paths)
}

func TestRunGroupShardsAcrossRanks(t *testing.T) {
	plan := &calcplan.Plan{Steps: []calcplan.Step{
		{Kind: calcplan.KindEnergy, Phase: calcplan.PhaseGB, Program: "mmpbsa_py_energy"},
		{Kind: calcplan.KindEnergy, Phase: calcplan.PhaseGB, Program: "mmpbsa_py_energy"},
	}}
	var mu sync.Mutex
	runners := make(map[int]*fakeRunner)
	err := RunGroup(plan, 2, func(rank int) Runner {
		mu.Lock()
		defer mu.Unlock()
		r := &fakeRunner{}
		runners[rank] = r
		return r
	}, func(rank int) *mmlog.Logger {
		return mmlog.New(os.Stderr, mmlog.LevelWarn, rank)
	})
	require.NoError(t, err)
	total := 0
	for _, r := range runners {
		total += len(r.calls)
	}
	assert.Equal(t, 2, total)
}

func TestRunGroupAbortsOnFailure(t *testing.T) {
	plan := &calcplan.Plan{Steps: []calcplan.Step{
		{Kind: calcplan.KindEnergy, Phase: calcplan.PhaseGB, Program: "mmpbsa_py_energy"},
	}}
	err := RunGroup(plan, 2, func(rank int) Runner {
		return &fakeRunner{fail: rank == 0}
	}, func(rank int) *mmlog.Logger {
		return mmlog.New(os.Stderr, mmlog.LevelWarn, rank)
	})
	require.Error(t, err)
}
