package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fdscan/internal/export"
	"fdscan/internal/model"
	"fdscan/internal/report"
)

// fakeProc creates processes owned by the test's uid, pid -> descriptor count,
// and points FDSCAN_PROC_ROOT at it.
func fakeProc(t *testing.T, fds map[int]int) string {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "proc")
	require.NoError(t, os.MkdirAll(root, 0o755))
	uid := os.Getuid()
	for pid, n := range fds {
		dir := filepath.Join(root, fmt.Sprint(pid))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "fd"), 0o755))
		status := fmt.Sprintf("Name:\tfake\nUid:\t%d\t%d\t%d\t%d\n", uid, uid, uid, uid)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte(status), 0o644))
		for fd := 0; fd < n; fd++ {
			target := filepath.Join(base, fmt.Sprintf("f-%d-%d", pid, fd))
			require.NoError(t, os.WriteFile(target, nil, 0o644))
			require.NoError(t, os.Symlink(target, filepath.Join(dir, "fd", fmt.Sprint(fd))))
		}
	}
	t.Setenv("FDSCAN_PROC_ROOT", root)
	return root
}

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestEmptyListingPrintsHeaderAndFooterOnly(t *testing.T) {
	fakeProc(t, nil)
	code, out, _ := runArgs(t)
	assert.Equal(t, 0, code)
	assert.Equal(t, "\t PID\tFD\tFilename\tInode\n"+
		"\t=============================================\n"+
		"\t=============================================\n\n", out)
}

func TestEmptyListingTextExport(t *testing.T) {
	fakeProc(t, nil)
	dir := t.TempDir()
	code, out, _ := runArgs(t, "--output_TXT", "--output_binary", "--output-dir", dir)
	assert.Equal(t, 0, code)
	assert.Empty(t, out)

	for _, name := range []string{export.TextFile, export.BinaryFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Empty(t, data, name)
	}
}

func TestThresholdReport(t *testing.T) {
	fakeProc(t, map[int]int{500: 7, 501: 3})
	code, out, _ := runArgs(t, "--threshold=5")
	assert.Equal(t, 0, code)
	assert.Equal(t, "## Offending processes:\n500 (7)\n", out)
}

func TestTargetPIDSelectsComposite(t *testing.T) {
	fakeProc(t, map[int]int{500: 2, 501: 3})
	code, out, _ := runArgs(t, "500")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, ">>> Target PID: 500\n\t PID\tFD\tFilename\tInode\n"), out)
	assert.Equal(t, 2, strings.Count(out, "\t500\t"))
	assert.NotContains(t, out, "\t501\t")
}

func TestAllViewsAndTextRoundTrip(t *testing.T) {
	fakeProc(t, map[int]int{42: 3})
	dir := t.TempDir()
	code, out, _ := runArgs(t, "--composite", "--per-process", "--systemWide", "--Vnodes", "--output_TXT", "--output-dir", dir)
	require.Equal(t, 0, code)
	for _, header := range []string{"\t PID\tFD\tFilename\tInode\n", "\t PID\tFD\n", "\t PID\tFD\tFilename\n", "\t FD\tInode\n"} {
		assert.Contains(t, out, header)
	}

	f, err := os.Open(filepath.Join(dir, export.TextFile))
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ParseText(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, 42, row.PID)
		assert.Contains(t, out, fmt.Sprintf(" %d\t%d\t%d\t%s\t%d\n", row.Index, row.PID, row.FD, row.Name, row.Inode))
	}
}

func TestJSONMode(t *testing.T) {
	fakeProc(t, map[int]int{42: 2})
	code, out, _ := runArgs(t, "--json", "--threshold=1")
	require.Equal(t, 0, code)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Records, 2)
	assert.Equal(t, []model.Record{model.NewSummary(42, 2)}, doc.Offenders)
}

func TestInvalidArgumentExitsOne(t *testing.T) {
	fakeProc(t, nil)
	for _, args := range [][]string{{"--nope"}, {"abc"}, {"--threshold=x"}} {
		code, out, errOut := runArgs(t, args...)
		assert.Equal(t, 1, code, "%v", args)
		assert.Empty(t, out)
		assert.Contains(t, errOut, "Usage: fdscan")
	}
}

func TestListingFailureExitsOne(t *testing.T) {
	t.Setenv("FDSCAN_PROC_ROOT", filepath.Join(t.TempDir(), "missing"))
	code, out, errOut := runArgs(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "cannot list processes")
}

func TestExportFailureDoesNotFailRun(t *testing.T) {
	fakeProc(t, map[int]int{42: 1})
	code, out, errOut := runArgs(t, "--Vnodes", "--output_TXT", "--output-dir", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "\t FD\tInode\n")
	assert.Contains(t, errOut, "text export failed")
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := runArgs(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "fdscan version "+model.Version+"\n", out)

	code, out, _ = runArgs(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: fdscan")
}
