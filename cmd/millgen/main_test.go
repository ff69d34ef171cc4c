package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"millgen/pkg/job"
	"millgen/pkg/toolpath"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHeights(t *testing.T) {
	out, err := run(t, "heights", "--from", "0", "--to", "-2.5")
	require.NoError(t, err)
	require.Equal(t, "0\n-1\n-2\n-2.5\n", out)

	out, err = run(t, "heights", "--from", "1", "--to", "0", "--step", "-0.5")
	require.NoError(t, err)
	require.Equal(t, "1\n0.5\n0\n", out)

	out, err = run(t, "heights", "--from", "1", "--to", "0", "--step-z", "-0.25")
	require.NoError(t, err)
	require.Equal(t, "1\n0.75\n0.5\n0.25\n0\n", out)

	_, err = run(t, "heights", "--from", "0", "--to", "-2", "--step", "1")
	require.ErrorIs(t, err, toolpath.ErrWrongParameter)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "slot.yaml")
	require.NoError(t, os.WriteFile(jobFile, []byte(`
operations:
  - kind: cylinder
    diameter: 20
    from_z: 0
    to_z: -1
`), 0o644))

	out, err := run(t, "generate", "--stdout", "--tool-diameter", "6", "--feed-rate", "300", "--safety-z", "5", jobFile)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "G21\nG17\n"), out)
	require.Contains(t, out, "G0 X-13 Y0 \nG3 Z0 I13 J0 F300 \nG3 Z-1 I13 J0 F300 \nG1 Z5 F300 \nM2\n")

	outDir := filepath.Join(dir, "out")
	_, err = run(t, "generate", "--output-dir", outDir, jobFile)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "slot"+job.GCodeExtension))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "M2\n"))
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "generate", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("operations:\n  - kind: hole\n    from_z: 0\n    to_z: -1\n"), 0o644))
	_, err = run(t, "generate", "--output-dir", dir, bad)
	require.ErrorIs(t, err, toolpath.ErrMissingParameter)
	_, statErr := os.Stat(filepath.Join(dir, "bad"+job.GCodeExtension))
	require.True(t, os.IsNotExist(statErr), "failed job left an output file")

	_, err = run(t, "generate")
	require.Error(t, err)
}

func TestGenerateKeepsPreviousProgram(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "part.yaml")
	require.NoError(t, os.WriteFile(jobFile, []byte(`
operations:
  - kind: hole
    diameter: 10
    from_z: 0
    to_z: -1
`), 0o644))
	_, err := run(t, "generate", "--output-dir", dir, jobFile)
	require.NoError(t, err)
	output := filepath.Join(dir, "part"+job.GCodeExtension)
	before, err := os.ReadFile(output)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(before), "M2\n"))

	require.NoError(t, os.WriteFile(jobFile, []byte("operations:\n  - kind: hole\n    from_z: 0\n    to_z: -1\n"), 0o644))
	_, err = run(t, "generate", "--output-dir", dir, jobFile)
	require.ErrorIs(t, err, toolpath.ErrMissingParameter)

	after, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "temporary files left behind")
}

func TestPlate(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "plate", "--output-dir", dir)
	require.NoError(t, err)
	for _, j := range job.Plate() {
		data, err := os.ReadFile(filepath.Join(dir, j.Name+job.GCodeExtension))
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(data), "G21\n"))
		require.True(t, strings.HasSuffix(string(data), "M2\n"))
	}
}
