// Package executor implements the Parallel Executor: it partitions
// calcplan.Steps across ranks, substitutes the rank id into each step's
// templates, invokes external solver programs, and enforces a barrier at
// the end of each phase.
//
// The concurrency idiom fans work out over a sync.WaitGroup of goroutines,
// standing in for a true MPI rank pool.
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/liang2508/gmx-mmpbsa/calcplan"
	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
	"github.com/liang2508/gmx-mmpbsa/internal/mmlog"
	"github.com/liang2508/gmx-mmpbsa/rankio"
)

// Runner invokes one external solver program. ProcessRunner is the production
// implementation; tests supply a fake.
type Runner interface {
	Run(ctx context.Context, program string, args []string) error
}

// ProcessRunner shells out via os/exec.
type ProcessRunner struct{ Dir string }

func (r ProcessRunner) Run(ctx context.Context, program string, args []string) error {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return mmerrors.SolverFailure{Program: program, ExitCode: exitCode, Inner: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))}
	}
	return nil
}

// PhaseTiming records how long one phase took: a timer starts and stops
// around each phase.
type PhaseTiming struct {
	Phase    calcplan.Phase
	Mutant   bool
	Elapsed  time.Duration
}

// Executor runs a calcplan.Plan under a rankio.Context.
type Executor struct {
	Ctx     rankio.Context
	Runner  Runner
	Log     *mmlog.Logger
	Timings []PhaseTiming
}

// New builds an Executor bound to a coordination context and a process
// runner rooted at dir.
func New(ctx rankio.Context, dir string, log *mmlog.Logger) *Executor {
	return &Executor{Ctx: ctx, Runner: ProcessRunner{Dir: dir}, Log: log}
}

// phaseKey groups steps that share a (Phase, Mutant) pair, preserving the
// plan's overall phase order.
type phaseKey struct {
	Phase  calcplan.Phase
	Mutant bool
}

// Run executes the plan: rank 0 ("master") broadcasts the plan, then every
// rank iterates it, executing the steps it owns (by step-index modulo rank
// count) and skipping the rest, with a barrier after each phase.
func (e *Executor) Run(plan *calcplan.Plan) error {
	var received calcplan.Plan
	if err := e.Ctx.Broadcast(plan, &received); err != nil {
		return mmerrors.InternalError{Msg: "failed to broadcast calculation plan", Inner: err}
	}
	if e.Ctx.Rank() == 0 {
		received = *plan // rank 0 already holds the authoritative plan
	}

	order, groups := groupByPhase(received.Steps)
	for _, key := range order {
		start := time.Now()
		if err := e.runPhase(key, groups[key]); err != nil {
			e.Ctx.Abort(err)
			return err
		}
		if err := e.Ctx.Barrier(fmt.Sprintf("%s-mutant=%v", key.Phase, key.Mutant)); err != nil {
			return err
		}
		e.Timings = append(e.Timings, PhaseTiming{Phase: key.Phase, Mutant: key.Mutant, Elapsed: time.Since(start)})
	}
	return nil
}

func groupByPhase(steps []calcplan.Step) ([]phaseKey, map[phaseKey][]calcplan.Step) {
	groups := make(map[phaseKey][]calcplan.Step)
	var order []phaseKey
	for _, s := range steps {
		k := phaseKey{Phase: s.Phase, Mutant: s.Mutant}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s)
	}
	return order, groups
}

// runPhase executes the steps of one phase owned by this rank.
func (e *Executor) runPhase(key phaseKey, steps []calcplan.Step) error {
	rank := e.Ctx.Rank()
	size := e.Ctx.Size()
	for i, step := range steps {
		switch step.Kind {
		case calcplan.KindProgress:
			if rank == 0 {
				e.Log.Info("%s", step.Message)
			}
			continue
		case calcplan.KindQuasiHarmonic:
			if rank != 0 {
				continue // QH is master-only and not sharded
			}
		default:
			if i%size != rank {
				continue
			}
		}
		if err := e.runStep(step, rank); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runStep(step calcplan.Step, rank int) error {
	switch step.Kind {
	case calcplan.KindCopy:
		return copyFile(substituteRank(step.CopySrc, rank), substituteRank(step.CopyDst, rank))
	default:
		args := buildArgs(step, rank)
		if err := e.Runner.Run(context.Background(), step.Program, args); err != nil {
			return err
		}
		return nil
	}
}

// buildArgs builds the solver argument list (-p topology, -c initial
// coords, -y trajectory, -i input deck, -o output path), substituting the
// rank id into the trajectory/output templates. No restart path is passed.
func buildArgs(step calcplan.Step, rank int) []string {
	traj := substituteRank(step.TrajectoryTemplate, rank)
	output := substituteRank(step.OutputTemplate, rank)
	return []string{
		"-p", step.Topology,
		"-c", step.InitialCoords,
		"-y", traj,
		"-i", step.InputDeck,
		"-o", output,
	}
}

// OutputPaths expands a step's OutputTemplate across 0..numRanks-1,
// returning the concrete per-rank file paths the output parser should read
// in rank order.
func OutputPaths(step calcplan.Step, numRanks int) []string {
	paths := make([]string, numRanks)
	for r := 0; r < numRanks; r++ {
		paths[r] = substituteRank(step.OutputTemplate, r)
	}
	return paths
}

func substituteRank(tmpl string, rank int) string {
	if !strings.Contains(tmpl, "%d") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, rank)
}

// copyFile is the local, non-partial Copy step.
func copyFile(src, dst string) error {
	return copyFileImpl(src, dst)
}

// RunGroup simulates numRanks OS-level ranks as goroutines within one
// process, standing in for the real multi-process backend in tests and in
// small local runs — a sync.WaitGroup fan-out generalized to
// phase-barrier semantics.
func RunGroup(plan *calcplan.Plan, numRanks int, runnerFor func(rank int) Runner, logFor func(rank int) *mmlog.Logger) error {
	if numRanks < 1 {
		numRanks = 1
	}
	order, groups := groupByPhase(plan.Steps)
	barrier := newPhaseBarrier(numRanks)
	errs := make([]error, numRanks)

	var wg sync.WaitGroup
	for rank := 0; rank < numRanks; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			ex := &Executor{
				Ctx:    rankio.NewSingle(),
				Runner: runnerFor(rank),
				Log:    logFor(rank),
			}
			for _, key := range order {
				if err := ex.runPhase(key, groups[key]); err != nil {
					errs[rank] = err
					barrier.abort()
					return
				}
				if !barrier.wait() {
					errs[rank] = mmerrors.InternalError{Msg: "rank group aborted during barrier"}
					return
				}
			}
		}(rank)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// phaseBarrier is a reusable barrier for N goroutines, with an abort path
// so one rank's solver failure unblocks the rest.
type phaseBarrier struct {
	n       int
	mu      sync.Mutex
	cond    *sync.Cond
	waiting int
	gen     int
	aborted bool
}

func newPhaseBarrier(n int) *phaseBarrier {
	b := &phaseBarrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *phaseBarrier) wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.aborted {
		return false
	}
	gen := b.gen
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return true
	}
	for gen == b.gen && !b.aborted {
		b.cond.Wait()
	}
	return !b.aborted
}

func (b *phaseBarrier) abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aborted = true
	b.cond.Broadcast()
}
