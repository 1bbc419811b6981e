package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/internal/cli"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/quickfix/rules"
)

const bracesSource = "void f(int x) {\n  if (x) g();\n}\n"

type runResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, args ...string) runResult {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}, rules.NewRegistry())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{}, nil)
	assert.Equal(t, "quickfix", cmd.Use)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"list", "apply", "rules", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestApplyCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{}, nil)
	apply, _, err := cmd.Find([]string{"apply"})
	require.NoError(t, err)

	for _, name := range []string{
		"offset", "line", "column", "selection-end", "end-line", "end-column",
		"with", "no-related", "ext", "enable", "disable", "format", "rule-format",
		"pick", "rule", "write", "dry-run", "backup", "no-backup", "force",
	} {
		assert.NotNil(t, apply.Flags().Lookup(name), name)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "f.cpp", bracesSource)
	res := execute(t, "list", path, "--line", "2", "--column", "3", "--diff")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "f.cpp:2:3")
	assert.Contains(t, res.stdout, "Add Curly Braces")
	assert.Contains(t, res.stdout, "QF002/add-braces")
	assert.Contains(t, res.stdout, "+  if (x) { g();")
	assert.Contains(t, res.stdout, "    if (x) g();\n")
}

func TestList_JSON(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "f.cpp", bracesSource)
	res := execute(t, "list", path, "--offset", "18", "--format", "json")
	require.NoError(t, res.err, res.stderr)

	var listing struct {
		Line       int `json:"line"`
		Column     int `json:"column"`
		Operations []struct {
			RuleID      string `json:"ruleId"`
			Description string `json:"description"`
		} `json:"operations"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &listing))
	assert.Equal(t, 2, listing.Line)
	assert.Equal(t, 3, listing.Column)

	var ids []string
	for _, op := range listing.Operations {
		ids = append(ids, op.RuleID)
	}
	assert.Contains(t, ids, "QF002")
}

func TestList_DisabledRule(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "f.cpp", bracesSource)
	res := execute(t, "list", path, "-l", "2", "-c", "3", "--disable", "braces")
	require.NoError(t, res.err, res.stderr)
	assert.NotContains(t, res.stdout, "Add Curly Braces")
}

func TestApply_DryRunByDefault(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "f.cpp", bracesSource)
	res := execute(t, "apply", path, "-l", "2", "-c", "3", "--rule", "braces")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Add Curly Braces")
	assert.Contains(t, res.stdout, "+  if (x) { g();")
	assert.Contains(t, res.stdout, "(dry run)")

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bracesSource, string(onDisk))
}

func TestApply_Write(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "f.cpp", bracesSource)
	res := execute(t, "apply", path, "-l", "2", "-c", "3", "--rule", "QF002", "--write", "--format", "json")
	require.NoError(t, res.err, res.stderr)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "void f(int x) {\n  if (x) { g();\n}\n}\n", string(onDisk))

	backup, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, bracesSource, string(backup))

	var report struct {
		DryRun bool `json:"dryRun"`
		Files  []struct {
			Written bool `json:"written"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.False(t, report.DryRun)
	require.Len(t, report.Files, 1)
	assert.True(t, report.Files[0].Written)
}

func TestApply_WriteWithoutBackup(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "f.cpp", bracesSource)
	res := execute(t, "apply", path, "-l", "2", "-c", "3", "--rule", "braces", "--write", "--no-backup")
	require.NoError(t, res.err, res.stderr)

	_, err := os.Stat(path + fsutil.BackupSuffix)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRules(t *testing.T) {
	t.Parallel()

	res := execute(t, "rules", "--format", "json", "--disable", "QF006")
	require.NoError(t, res.err, res.stderr)

	var catalog struct {
		Rules []struct {
			ID      string `json:"id"`
			Enabled bool   `json:"enabled"`
		} `json:"rules"`
		Summary struct {
			Rules   int `json:"rules"`
			Enabled int `json:"enabled"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &catalog))
	assert.Equal(t, 15, catalog.Summary.Rules)
	assert.Equal(t, 14, catalog.Summary.Enabled)
	assert.Equal(t, "QF001", catalog.Rules[0].ID)
}

func TestRules_Markdown(t *testing.T) {
	t.Parallel()

	res := execute(t, "rules", "--format", "markdown", "--sort", "name")
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "| QF002 | add-braces | yes | braces |")
}

func TestInit(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "quickfix.yml")
	res := execute(t, "init", "--output", out, "--full")
	require.NoError(t, res.err, res.stderr)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# quickfix configuration")
	assert.Contains(t, string(content), "QF006")

	res = execute(t, "init", "--output", out)
	require.Error(t, res.err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(res.err))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	res := execute(t, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "version=1.2.3")
	assert.Contains(t, res.stdout, "commit=abc123")
	assert.Contains(t, res.stdout, "platform=")

	res = execute(t, "version", "--short")
	require.NoError(t, res.err)
	assert.Equal(t, "1.2.3\n", res.stdout)
}

func TestHelpListsEnvironment(t *testing.T) {
	t.Parallel()

	res := execute(t, "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Environment:")
	assert.Contains(t, res.stdout, "QUICKFIX_FORMAT")
	assert.NotContains(t, res.stdout, "Rules:")
}

func TestHelpListsRules(t *testing.T) {
	t.Parallel()

	res := execute(t, "apply", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Rules:")
	assert.Contains(t, res.stdout, "QF001")
	assert.Contains(t, res.stdout, "add-braces")
	assert.NotContains(t, res.stdout, "Environment:")
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	source := writeSource(t, "f.cpp", bracesSource)
	notes := writeSource(t, "notes.txt", "Remember to buy milk.\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no position", []string{"list", source}, cli.ExitInvalidUsage},
		{"half position", []string{"list", source, "--line", "2"}, cli.ExitInvalidUsage},
		{"offset and line", []string{"list", source, "--offset", "1", "--line", "2", "--column", "1"}, cli.ExitInvalidUsage},
		{"unknown flag", []string{"list", source, "--bogus"}, cli.ExitInvalidUsage},
		{"missing argument", []string{"list"}, cli.ExitInvalidUsage},
		{"position past end", []string{"list", source, "--line", "40", "--column", "1"}, cli.ExitInvalidUsage},
		{"unknown rule", []string{"apply", source, "-l", "2", "-c", "3", "--rule", "nope"}, cli.ExitInvalidUsage},
		{"pick out of range", []string{"apply", source, "-l", "2", "-c", "3", "--pick", "99"}, cli.ExitNoOperation},
		{"missing file", []string{"list", filepath.Join(t.TempDir(), "gone.cpp"), "--offset", "0"}, cli.ExitInputError},
		{"not C++", []string{"list", notes, "--offset", "0"}, cli.ExitInputError},
		{"bad format", []string{"list", source, "--offset", "0", "--format", "xml"}, cli.ExitConfigError},
		{"write and dry run", []string{"apply", source, "--offset", "18", "--write", "--dry-run"}, cli.ExitInvalidUsage},
		{"backup and no backup", []string{"apply", source, "--offset", "18", "--backup", "--no-backup"}, cli.ExitInvalidUsage},
		{"bad sort", []string{"rules", "--sort", "size"}, cli.ExitInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := execute(t, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.want, cli.ExitCode(res.err), res.err.Error())
		})
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
}
