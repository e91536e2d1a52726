package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/liang2508/gmx-mmpbsa/energy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Testing command line utilities can be annoying: this swaps os.Stdout for
// the write end of an os.Pipe while main() prints its help text, then
// restores it.
func TestMainHelp(t *testing.T) {
	rescueStdout := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w

	arg := os.Args[0:1]
	os.Args = append(arg, "-h")
	main()
	os.Args = os.Args[0:1]
	w.Close()
	os.Stdout = rescueStdout
}

func writeNamelist(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "mmpbsa.in")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestInfoCommandPrintsResolvedConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeNamelist(t, dir, "&general\n sys_name = 'complex A'\n/\n&gb\n/\n")

	app := application()
	var buf bytes.Buffer
	app.Writer = &buf

	args := []string{"gmxmmpbsa", "info", "-i", in}
	require.NoError(t, app.Run(args))
	assert.Contains(t, buf.String(), "system: complex A")
}

func TestInfoCommandPropagatesConfigError(t *testing.T) {
	dir := t.TempDir()
	in := writeNamelist(t, dir, "&general\n/\n")

	app := application()
	args := []string{"gmxmmpbsa", "info", "-i", in}
	err := app.Run(args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one")
}

func TestReportCommandRequiresJSONFlag(t *testing.T) {
	app := application()
	args := []string{"gmxmmpbsa", "report"}
	err := app.Run(args)
	require.Error(t, err)
}

func TestCSVPathForSanitizesModelName(t *testing.T) {
	assert.Equal(t, "out.rism_gf.csv", csvPathFor("out", energy.ModelRismGF))
}
