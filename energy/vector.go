// Package energy implements the per-term energy data model: an ordered
// per-frame sequence of real numbers per energy term, with elementwise
// combination, sample statistics, and the composite-term rules
// (fill_composite_terms) that derive "G gas", "G solv", and "TOTAL".
//
// Sample statistics are delegated to gonum.org/v1/gonum/stat rather than
// hand-rolled.
package energy

import (
	"math"

	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
	"gonum.org/v1/gonum/stat"
)

// Vector is an ordered sequence of kcal/mol samples, one per frame.
type Vector []float64

// Len returns the number of frames.
func (v Vector) Len() int { return len(v) }

// Mean returns the sample mean.
func (v Vector) Mean() float64 {
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}

// Stdev returns the sample standard deviation.
func (v Vector) Stdev() float64 {
	if len(v) < 2 {
		return 0
	}
	return stat.StdDev(v, nil)
}

// Variance returns the sample variance.
func (v Vector) Variance() float64 {
	if len(v) < 2 {
		return 0
	}
	return stat.Variance(v, nil)
}

// SemiDeviation returns the downside semi-deviation: the root-mean-square
// of below-mean deviations only.
func (v Vector) SemiDeviation() float64 {
	if len(v) == 0 {
		return 0
	}
	mean := v.Mean()
	var sum float64
	var n int
	for _, x := range v {
		if x < mean {
			d := x - mean
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// Add returns the elementwise sum of v and other. Both vectors must share
// length; otherwise a mmerrors.LengthError is returned.
func (v Vector) Add(other Vector) (Vector, error) {
	if len(v) != len(other) {
		return nil, mmerrors.LengthError{LenA: len(v), LenB: len(other)}
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out, nil
}

// Sub returns the elementwise difference v - other. Both vectors must
// share length; otherwise a mmerrors.LengthError is returned.
func (v Vector) Sub(other Vector) (Vector, error) {
	if len(v) != len(other) {
		return nil, mmerrors.LengthError{LenA: len(v), LenB: len(other)}
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - other[i]
	}
	return out, nil
}

// SumVectors adds an arbitrary number of same-length vectors together,
// used to assemble composite terms like "G gas" from their constituents.
func SumVectors(vecs ...Vector) (Vector, error) {
	if len(vecs) == 0 {
		return nil, nil
	}
	out := make(Vector, len(vecs[0]))
	copy(out, vecs[0])
	for _, v := range vecs[1:] {
		var err error
		out, err = out.Add(v)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Tail returns the last n samples of v (used to carve out the IE/C2
// trailing-segment window). If n >= len(v), the whole vector is returned.
func (v Vector) Tail(n int) Vector {
	if n >= len(v) {
		out := make(Vector, len(v))
		copy(out, v)
		return out
	}
	if n <= 0 {
		return Vector{}
	}
	out := make(Vector, n)
	copy(out, v[len(v)-n:])
	return out
}

// Combined is the result of trying to combine two vectors: either a Matched
// elementwise result, or, on length mismatch, the independent-variance
// fallback.
type Combined struct {
	Matched bool
	Vector  Vector   // valid iff Matched
	MeanA   float64  // valid iff !Matched
	StdA    float64  // valid iff !Matched
	MeanB   float64  // valid iff !Matched
	StdB    float64  // valid iff !Matched
}

// CombineSubtract attempts a-b elementwise; on length mismatch it instead
// reports the means/stdevs needed for independent-variance propagation,
// recovering from the mmerrors.LengthError locally rather than aborting
//.
func CombineSubtract(a, b Vector) Combined {
	if diff, err := a.Sub(b); err == nil {
		return Combined{Matched: true, Vector: diff}
	}
	return Combined{
		Matched: false,
		MeanA:   a.Mean(),
		StdA:    a.Stdev(),
		MeanB:   b.Mean(),
		StdB:    b.Stdev(),
	}
}

// Mean returns the resulting mean regardless of which branch Combined took.
func (c Combined) Mean() float64 {
	if c.Matched {
		return c.Vector.Mean()
	}
	return c.MeanA - c.MeanB
}

// Stdev returns the resulting standard deviation: the sample stdev of the
// matched vector, or sqrt(varA + varB) under independent-variance
// propagation.
func (c Combined) Stdev() float64 {
	if c.Matched {
		return c.Vector.Stdev()
	}
	return math.Sqrt(c.StdA*c.StdA + c.StdB*c.StdB)
}
