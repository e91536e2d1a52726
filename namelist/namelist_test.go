package namelist

import (
	"strings"
	"testing"

	"github.com/liang2508/gmx-mmpbsa/internal/mmerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchemas() []NamespaceSchema {
	return []NamespaceSchema{
		{Name: "general", Vars: []VarDef{
			{Name: "startframe", Kind: KindInt, Default: 1, MinCharsDecl: 5},
			{Name: "endframe", Kind: KindInt, Default: 9999999, MinCharsDecl: 4},
			{Name: "forcefields", Kind: KindList, Default: "oldff/leaprc.ff99SB, leaprc.gaff", MinCharsDecl: 4},
			{Name: "sys_name", Kind: KindString, Default: "", MinCharsDecl: 4},
			{Name: "temperature", Kind: KindFloat, Default: 298.15, MinCharsDecl: 4},
		}},
		{Name: "gb", Vars: []VarDef{
			{Name: "igb", Kind: KindInt, Default: 5, MinCharsDecl: 3},
			{Name: "intdiel", Kind: KindFloat, Default: 1.0, MinCharsDecl: 4},
		}},
	}
}

func TestParseReaderDefaults(t *testing.T) {
	reg := NewRegistry(testSchemas())
	doc, err := ParseReader(strings.NewReader(""), reg)
	require.NoError(t, err)
	assert.False(t, doc.Triggered["general"])
	assert.Equal(t, 1, doc.Values["general"]["startframe"].Int)
	assert.Equal(t, 298.15, doc.Values["general"]["temperature"].Float)
}

func TestParseReaderAssignsAndTriggers(t *testing.T) {
	reg := NewRegistry(testSchemas())
	src := "&general\n startframe=10, endframe=20\n sys_name = 'my system'\n/\n&gb\n igb=2\n/\n"
	doc, err := ParseReader(strings.NewReader(src), reg)
	require.NoError(t, err)
	assert.True(t, doc.Triggered["general"])
	assert.True(t, doc.Triggered["gb"])
	assert.Equal(t, 10, doc.Values["general"]["startframe"].Int)
	assert.Equal(t, 20, doc.Values["general"]["endframe"].Int)
	assert.Equal(t, "my system", doc.Values["general"]["sys_name"].Str)
	assert.Equal(t, 2, doc.Values["gb"]["igb"].Int)
}

func TestParseReaderPrefixAbbreviation(t *testing.T) {
	reg := NewRegistry(testSchemas())
	src := "&general\n star=3\n/\n"
	doc, err := ParseReader(strings.NewReader(src), reg)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Values["general"]["startframe"].Int)
}

func TestParseReaderAmbiguousPrefixRejected(t *testing.T) {
	schemas := []NamespaceSchema{
		{Name: "general", Vars: []VarDef{
			{Name: "startframe", Kind: KindInt, Default: 1, MinCharsDecl: 1},
			{Name: "startother", Kind: KindInt, Default: 1, MinCharsDecl: 1},
		}},
	}
	reg := NewRegistry(schemas)
	src := "&general\n start=3\n/\n"
	_, err := ParseReader(strings.NewReader(src), reg)
	require.Error(t, err)
	var cfgErr mmerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "ambiguous")
}

func TestParseReaderUnknownNamespace(t *testing.T) {
	reg := NewRegistry(testSchemas())
	_, err := ParseReader(strings.NewReader("&bogus\nfoo=1\n/\n"), reg)
	require.Error(t, err)
}

func TestParseReaderUnterminatedNamespace(t *testing.T) {
	reg := NewRegistry(testSchemas())
	_, err := ParseReader(strings.NewReader("&general\nstartframe=1\n"), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestParseReaderContinuationLine(t *testing.T) {
	reg := NewRegistry(testSchemas())
	src := "&general\n forcefields = leaprc.ff14SB,\n leaprc.gaff2\n/\n"
	doc, err := ParseReader(strings.NewReader(src), reg)
	require.NoError(t, err)
	list := doc.Values["general"]["forcefields"].List
	require.Len(t, list, 2)
	assert.Equal(t, "leaprc.ff14SB", list[0])
	assert.Equal(t, "leaprc.gaff2", list[1])
}

func TestParseReaderDuplicateVariable(t *testing.T) {
	reg := NewRegistry(testSchemas())
	src := "&general\n startframe=1\n startframe=2\n/\n"
	_, err := ParseReader(strings.NewReader(src), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseReaderCommentsAndBlankLines(t *testing.T) {
	reg := NewRegistry(testSchemas())
	src := "# a comment\n\n! another\n&general\n startframe=7\n/\n"
	doc, err := ParseReader(strings.NewReader(src), reg)
	require.NoError(t, err)
	assert.Equal(t, 7, doc.Values["general"]["startframe"].Int)
}

func TestSplitListNumericFriendly(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList("a,b,c"))
	assert.Equal(t, []string{"1,2,3"}, splitList("1,2,3"))
	assert.Equal(t, []string{"leaprc.ff99SB", "leaprc.gaff"}, splitList("leaprc.ff99SB, leaprc.gaff"))
	assert.Nil(t, splitList(""))
}

func TestSplitListSuppressesAsymmetricDigitFlank(t *testing.T) {
	// the comma is preceded by a digit ('5') but followed by a letter
	// ('B'): the split must be suppressed since at least one neighbor is
	// a digit, not only when both are.
	assert.Equal(t, []string{"A/35,B/22"}, splitList("A/35,B/22"))
	// preceded by a letter, followed by a digit: same rule, other side.
	assert.Equal(t, []string{"B,2resi"}, splitList("B,2resi"))
}

func TestEffectiveMinCharsDisambiguates(t *testing.T) {
	schemas := []NamespaceSchema{
		{Name: "general", Vars: []VarDef{
			{Name: "startframe", Kind: KindInt, Default: 1, MinCharsDecl: 1},
			{Name: "startother", Kind: KindInt, Default: 1, MinCharsDecl: 1},
		}},
	}
	reg := NewRegistry(schemas)
	src := "&general\n startfr=3\n/\n"
	doc, err := ParseReader(strings.NewReader(src), reg)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Values["general"]["startframe"].Int)
}
