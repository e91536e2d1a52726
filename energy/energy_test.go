package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorMeanStdevVariance(t *testing.T) {
	v := Vector{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, v.Mean())
	assert.InDelta(t, 1.5811, v.Stdev(), 1e-4)
	assert.InDelta(t, 2.5, v.Variance(), 1e-9)
}

func TestVectorEmptyStats(t *testing.T) {
	var v Vector
	assert.Equal(t, 0.0, v.Mean())
	assert.Equal(t, 0.0, v.Stdev())
}

func TestVectorAddSub(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{0.5, 0.5, 0.5}
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, Vector{1.5, 2.5, 3.5}, sum)
	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, Vector{0.5, 1.5, 2.5}, diff)
}

func TestVectorAddLengthMismatch(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{1, 2}
	_, err := a.Add(b)
	require.Error(t, err)
}

func TestSumVectors(t *testing.T) {
	a := Vector{1, 1, 1}
	b := Vector{2, 2, 2}
	c := Vector{3, 3, 3}
	sum, err := SumVectors(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, Vector{6, 6, 6}, sum)
}

func TestVectorTail(t *testing.T) {
	v := Vector{1, 2, 3, 4, 5}
	assert.Equal(t, Vector{3, 4, 5}, v.Tail(3))
	assert.Equal(t, v, v.Tail(100))
	assert.Equal(t, Vector{}, v.Tail(0))
}

func TestCombineSubtractMatched(t *testing.T) {
	a := Vector{5, 5, 5}
	b := Vector{1, 2, 3}
	c := CombineSubtract(a, b)
	assert.True(t, c.Matched)
	assert.Equal(t, 2.0, c.Mean())
}

func TestCombineSubtractLengthMismatchFallsBack(t *testing.T) {
	a := Vector{5, 5, 5, 5}
	b := Vector{1, 2}
	c := CombineSubtract(a, b)
	assert.False(t, c.Matched)
	assert.InDelta(t, 3.5, c.Mean(), 1e-9)
}

func TestCanonicalizeSynonyms(t *testing.T) {
	canon, ok := Canonicalize("VDW")
	require.True(t, ok)
	assert.Equal(t, TermVDW, canon)

	canon, ok = Canonicalize("eelec")
	require.True(t, ok)
	assert.Equal(t, TermEEL, canon)

	_, ok = Canonicalize("NOT_A_TERM")
	assert.False(t, ok)
}

func TestTermsFillCompositeGB(t *testing.T) {
	terms := NewTerms(Complex, ModelGB)
	terms.Set(TermBond, Vector{1, 1})
	terms.Set(TermAngle, Vector{1, 1})
	terms.Set(TermDihed, Vector{1, 1})
	terms.Set(TermVDW, Vector{1, 1})
	terms.Set(TermEEL, Vector{1, 1})
	terms.Set(Term14VDW, Vector{1, 1})
	terms.Set(Term14EEL, Vector{1, 1})
	terms.Set(TermEGB, Vector{2, 2})
	terms.Set(TermESURF, Vector{1, 1})

	require.NoError(t, terms.FillComposite())
	assert.Equal(t, Vector{7, 7}, terms.Values[TermGGas])
	assert.Equal(t, Vector{3, 3}, terms.Values[TermGSolv])
	assert.Equal(t, Vector{10, 10}, terms.Values[TermTotal])
}

func TestTermsSetFlagsCharmm(t *testing.T) {
	terms := NewTerms(Complex, ModelGB)
	terms.Set(TermUB, Vector{1})
	assert.True(t, terms.Charmm)
}

func TestDecompTableSetAndLookup(t *testing.T) {
	dt := NewDecompTable(ModelGB, Complex)
	res := Residue{Chain: "A", ResNum: 10, Name: "ALA"}
	dt.SetResidue(TDC, res, TermTotal, 1.5)
	dt.SetResidue(TDC, res, TermTotal, 2.5)
	assert.Equal(t, Vector{1.5, 2.5}, dt.PerRes[TDC][res][TermTotal])

	pair := ResiduePair{A: res, B: Residue{Chain: "A", ResNum: 20, Name: "GLY"}}
	dt.SetPair(TDC, pair, TermTotal, 3.0)
	assert.Equal(t, Vector{3.0}, dt.PerPair[TDC][pair][TermTotal])

	assert.Len(t, dt.Residues(TDC), 1)
	assert.Len(t, dt.Pairs(TDC), 1)
}
