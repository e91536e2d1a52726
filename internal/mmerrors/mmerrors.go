// Package mmerrors defines the error taxonomy shared across the calculation
// driver: ConfigError, InternalError, TrajectoryMismatch, SolverFailure,
// ParseError, LengthError, and Warning. Each is a struct carrying enough
// context to print a single-line reason plus, at high verbosity, a causal
// chain via Unwrap.
package mmerrors

import "fmt"

// ConfigError reports an invalid input file, unknown variable, out-of-range
// value, or incompatible option combination. Fatal at validation time.
type ConfigError struct {
	Namespace string
	Token     string
	Msg       string
	Inner     error
}

func (e ConfigError) Error() string {
	msg := e.Msg
	if e.Inner != nil {
		msg = fmt.Errorf("%v: %w", msg, e.Inner).Error()
	}
	if e.Namespace != "" {
		return fmt.Sprintf("config error in &%s: %v", e.Namespace, msg)
	}
	return fmt.Sprintf("config error: %v", msg)
}

func (e ConfigError) Unwrap() error { return e.Inner }

// InternalError signals an invariant violated in the executor or composer.
// Its presence always indicates a bug in this program, not bad input.
type InternalError struct {
	Msg   string
	Inner error
}

func (e InternalError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("internal error: %v: %v", e.Msg, e.Inner)
	}
	return fmt.Sprintf("internal error: %v", e.Msg)
}

func (e InternalError) Unwrap() error { return e.Inner }

// TrajectoryMismatch reports frame counts across complex/receptor/ligand
// that diverge from what the input requested or from each other.
type TrajectoryMismatch struct {
	Msg      string
	Complex  int
	Receptor int
	Ligand   int
}

func (e TrajectoryMismatch) Error() string {
	return fmt.Sprintf("trajectory mismatch: %v (complex=%d receptor=%d ligand=%d)",
		e.Msg, e.Complex, e.Receptor, e.Ligand)
}

// SolverFailure reports a nonzero exit from an external solver process, or
// an output file that could not be parsed at all.
type SolverFailure struct {
	Program  string
	ExitCode int
	Rank     int
	Inner    error
}

func (e SolverFailure) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("solver failure: %s exited %d on rank %d: %v", e.Program, e.ExitCode, e.Rank, e.Inner)
	}
	return fmt.Sprintf("solver failure: %s exited %d on rank %d", e.Program, e.ExitCode, e.Rank)
}

func (e SolverFailure) Unwrap() error { return e.Inner }

// ParseError reports an expected token missing from a solver output record.
type ParseError struct {
	File    string
	Line    int
	Context string
	Msg     string
	Inner   error
}

func (e ParseError) Error() string {
	msg := e.Msg
	if e.Inner != nil {
		msg = fmt.Errorf("%v: %w", msg, e.Inner).Error()
	}
	return fmt.Sprintf("parse error in %s at line %d: %v\n%d\t%v", e.File, e.Line, msg, e.Line, e.Context)
}

func (e ParseError) Unwrap() error { return e.Inner }

// LengthError reports that two EnergyVectors of mismatched length were
// combined where strict elementwise subtraction was attempted. The composer
// recovers from this locally by falling back to independent-variance
// propagation.
type LengthError struct {
	LenA int
	LenB int
}

func (e LengthError) Error() string {
	return fmt.Sprintf("length mismatch: %d vs %d", e.LenA, e.LenB)
}

// Warning is a non-fatal advisory: IE/C2 reliability flags, intdiel > 10,
// startframe auto-corrected to 1, deprecated flags. Warnings are logged and
// carried into the final report rather than aborting the run.
type Warning struct {
	Msg string
}

func (w Warning) Error() string { return fmt.Sprintf("warning: %v", w.Msg) }
