package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/register/internal/config"
	"github.com/JonMunkholm/register/internal/core"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	t.Setenv(config.FileEnvVar, "")

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// jsonData decodes the data field of a successful JSON response.
func jsonData[T any](t *testing.T, r result) T {
	t.Helper()
	require.NoError(t, r.err, r.stderr)

	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp), r.stdout)
	require.Equal(t, "ok", resp.Status)

	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func registryPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "registerctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"list", "register", "checkin", "import", "summary", "report", "dedupe"}

	for _, name := range commands {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	storeFlag := cmd.PersistentFlags().Lookup("store")
	require.NotNil(t, storeFlag)
	assert.Equal(t, "s", storeFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	r := execute(t, "--format", "yaml", "summary")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
}

func TestUnknownCommand(t *testing.T) {
	r := execute(t, "explode")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
}

func TestUnsupportedStore(t *testing.T) {
	r := execute(t, "--store", registryPath(t, "registry.json"), "summary")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
	assert.ErrorContains(t, r.err, "unsupported store format")
}

// ============================================================================
// Register, list, check-in
// ============================================================================

func TestRegisterAndList(t *testing.T) {
	store := registryPath(t, "registry.xlsx")

	r := execute(t, "-s", store, "register", "--name", "Ann", "--district", "Kabwe", "--province", "Central", "--coop", "Farmers")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "No. 1: Ann (Kabwe)")

	reg := jsonData[core.RegisterResult](t,
		execute(t, "-s", store, "--format", "json", "register", "--name", "Ben", "--district", "Ndola", "--province", "Copperbelt"))
	assert.True(t, reg.OK)
	assert.Equal(t, 2, reg.Participant.No)

	r = execute(t, "-s", store, "list", "--district", "kab")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Ann")
	assert.NotContains(t, r.stdout, "Ben")
	assert.Contains(t, r.stdout, "1 participant(s)")

	list := jsonData[core.Table](t, execute(t, "-s", store, "--format", "json", "list"))
	assert.Len(t, list, 2)
}

func TestRegister_Rejected(t *testing.T) {
	store := registryPath(t, "registry.csv")
	require.NoError(t, execute(t, "-s", store, "register", "--name", "Ann", "--district", "Kabwe", "--province", "Central").err)

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"duplicate", []string{"--name", "ann", "--district", "KABWE", "--province", "Central"}, "REG001"},
		{"missing province", []string{"--name", "Ben", "--district", "Ndola"}, "REG002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, append([]string{"-s", store, "register"}, tt.args...)...)
			require.Error(t, r.err)
			assert.Equal(t, ExitFailure, GetExitCode(r.err))
			assert.Contains(t, r.stderr, "Error: register: ")
			assert.Contains(t, r.stderr, "(Code: "+tt.wantCode+"). ")
		})
	}
}

func TestCheckin(t *testing.T) {
	store := registryPath(t, "registry.db")
	require.NoError(t, execute(t, "-s", store, "register", "--name", "Ann", "--district", "Kabwe", "--province", "Central").err)

	r := execute(t, "-s", store, "checkin", "--day", "2", "1", "7")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "Day 2: 1 checked in, 0 already checked in, 1 not found")

	res := jsonData[core.CheckinResult](t, execute(t, "-s", store, "--format", "json", "checkin", "-d", "2", "1"))
	assert.Equal(t, core.CheckinResult{Already: 1}, res)
}

func TestCheckin_BadArguments(t *testing.T) {
	store := registryPath(t, "registry.xlsx")

	for _, args := range [][]string{
		{"checkin", "abc"},
		{"checkin", "0"},
		{"checkin", "--day", "3", "1"},
		{"checkin"},
	} {
		r := execute(t, append([]string{"-s", store}, args...)...)
		require.Error(t, r.err, args)
		assert.Equal(t, ExitCommandError, GetExitCode(r.err), args)
	}
}

// ============================================================================
// Import, summary, report, dedupe
// ============================================================================

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport(t *testing.T) {
	store := registryPath(t, "registry.xlsx")
	src := writeFile(t, "desk2.csv", "Name,District,Province\nAnn,Kabwe,Central\nBen,Ndola,Copperbelt\nANN,kabwe,Central\n,Kitwe,Copperbelt\n")

	preview := jsonData[core.PreviewResponse](t, execute(t, "-s", store, "--format", "json", "import", "--preview", src))
	assert.Equal(t, 2, preview.Summary.NewRows)
	assert.Equal(t, 1, preview.Summary.DuplicateInFile)
	assert.Equal(t, 1, preview.Summary.EmptyRows)

	// Preview writes nothing.
	assert.Empty(t, jsonData[core.Table](t, execute(t, "-s", store, "--format", "json", "list")))

	r := execute(t, "-s", store, "import", src)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "Imported 2 participant(s) from desk2.csv as No. 1-2")

	res := jsonData[core.ImportResult](t, execute(t, "-s", store, "--format", "json", "import", src))
	assert.Zero(t, res.Added)
	assert.Equal(t, 2, res.SkippedExisting)
}

func TestImport_Failures(t *testing.T) {
	store := registryPath(t, "registry.xlsx")

	r := execute(t, "-s", store, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))

	r = execute(t, "-s", store, "import", writeFile(t, "blank.csv", "\n\n"))
	assert.Equal(t, ExitFailure, GetExitCode(r.err))
	assert.Contains(t, r.stderr, "FILE005")
}

func TestSummaryReportDedupe(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "registry.csv")
	require.NoError(t, os.WriteFile(store, []byte(
		"NO.,Name,Name of Co-operative/Association,District,Province,Registered_On,Day1_Attended,Day2_Attended,Signature\n"+
			"1,Ann,Farmers,Kabwe,Central,2026-03-13 08:00:00,TRUE,TRUE,\n"+
			"2,Ben,,Ndola,Copperbelt,2026-03-13 08:01:00,TRUE,FALSE,\n"+
			"3,ann ,Farmers,Kabwe,Central,2026-03-13 08:02:00,FALSE,FALSE,\n"), 0o644))

	sum := jsonData[core.Summary](t, execute(t, "-s", store, "--format", "json", "summary"))
	assert.Equal(t, core.Summary{Total: 3, Day1: 2, Day2: 1, Both: 1, Either: 2, Neither: 1}, sum)

	outDir := t.TempDir()
	r := execute(t, "-s", store, "report", "--out", outDir)
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "Total Registered")

	matches, err := filepath.Glob(filepath.Join(outDir, "attendance_report_*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	dd := jsonData[core.DedupeResult](t, execute(t, "-s", store, "--format", "json", "dedupe"))
	assert.Equal(t, core.DedupeResult{Kept: 2, Removed: 1}, dd)

	list := jsonData[core.Table](t, execute(t, "-s", store, "--format", "json", "list"))
	require.Len(t, list, 2)
	assert.True(t, list[0].Day1Attended, "first occurrence is kept")
}
