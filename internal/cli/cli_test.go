package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one command line against a fresh tree with defaults only.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	base := []string{"--config", filepath.Join(t.TempDir(), "absent.toml"), "--no-color"}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func chipLine(t *testing.T, id, content string) string {
	t.Helper()
	chip := map[string]any{
		"chip_id": id,
		"type":    "Trust_Chip",
		"source_doc": map[string]any{
			"week": "W001", "filename": "session1.docx", "date": "2024-09-01", "phase": "FOUNDATION",
		},
		"metadata": map[string]any{
			"participants": []any{"Jenny", "Huda"}, "duration": "60m",
			"quality_score": 0.8, "confidence_score": 0.9, "phase_enum": "FOUNDATION",
		},
		"content":        content,
		"insight_vector": strings.Repeat("insight ", 12),
	}
	raw, err := json.Marshal(chip)
	require.NoError(t, err)
	return string(raw)
}

func writeLines(t *testing.T, path string, lines ...string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(ErrUsage))
	assert.Equal(t, 1, exitCode(ErrValidationFailed))
	assert.Equal(t, 1, exitCode(ErrGateFailed))
	assert.Equal(t, 1, exitCode(os.ErrNotExist))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kbcurator version")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"validate", "--nope"}},
		{"extra args", []string{"version", "extra"}},
		{"missing required flag", []string{"transform-imsg", "-o", "x.jsonl"}},
		{"bad batch", []string{"validate", "--batch", "nameonly"}},
		{"bad schema", []string{"validate", "--schema", "v9"}},
		{"embed without namespace", []string{"embed", "-i", "x.jsonl", "--dry-run"}},
		{"inventory without roots", []string{"inventory"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(err), err.Error())
		})
	}

	t.Run("broken config file", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(cfg, []byte("[validator]\nschema = \"v9\"\n"), 0o644))
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"--config", cfg, "version"})
		err := root.Execute()
		assert.Equal(t, 2, exitCode(err))
	})
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	good := writeLines(t, filepath.Join(dir, "good.jsonl"),
		chipLine(t, "W001-TRUST-001", strings.Repeat("a", 60)),
		chipLine(t, "W001-TRUST-002", strings.Repeat("b", 60)),
	)

	out, err := run(t, "validate", "-o", report, good)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS")
	assert.FileExists(t, report)

	bad := writeLines(t, filepath.Join(dir, "bad.jsonl"),
		chipLine(t, "W001-TRUST-001", "too short"),
		"{not json",
	)
	out, err = run(t, "validate", "-o", report, bad)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "W001-TRUST-001")

	t.Run("duplicates across batches", func(t *testing.T) {
		sessions := filepath.Join(dir, "sessions")
		require.NoError(t, os.MkdirAll(sessions, 0o755))
		writeLines(t, filepath.Join(sessions, "a.jsonl"), chipLine(t, "DUP-1", strings.Repeat("c", 60)))
		writeLines(t, filepath.Join(sessions, "b.jsonl"), chipLine(t, "DUP-1", strings.Repeat("d", 60)))

		_, err := run(t, "validate", "--root", dir, "--batch", "sessions=sessions/*.jsonl", "-o", report)
		require.ErrorIs(t, err, ErrValidationFailed)

		raw, err := os.ReadFile(report)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "DUP-1")
	})
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	chips := writeLines(t, filepath.Join(dir, "chips.jsonl"),
		chipLine(t, "A", "stay calm and keep breathing slowly before the call"),
		chipLine(t, "B", "send the deadline reminder text tomorrow morning"),
	)
	probes := filepath.Join(dir, "probes.yaml")
	require.NoError(t, os.WriteFile(probes, []byte(`queries:
  - id: q1
    text: keep calm breathing
  - id: q2
    text: deadline reminder text
`), 0o644))

	out, err := run(t, "probe", probes, chips)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 chips.")
	assert.Contains(t, out, "PASS")

	result := filepath.Join(dir, "probe.json")
	out, err = run(t, "probe", "--threshold", "0.99", "-o", result, probes, chips)
	require.ErrorIs(t, err, ErrGateFailed)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "q1")
	assert.FileExists(t, result)

	_, err = run(t, "probe", probes)
	assert.Equal(t, 2, exitCode(err))

	_, err = run(t, "probe", "--mode", "vector", probes)
	assert.Equal(t, 2, exitCode(err))

	_, err = run(t, "probe", "--mode", "fuzzy", probes, chips)
	assert.Equal(t, 2, exitCode(err))
}

func TestInventoryClassifyReorganize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "W001_Session_Transcript.docx"), bytes.Repeat([]byte("x"), 200), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("weekly notes"), 0o644))

	inv := filepath.Join(dir, "inventory.json")
	mapping := filepath.Join(dir, "mapping.json")
	report := filepath.Join(dir, "reorg.json")
	dest := filepath.Join(dir, "out")

	out, err := run(t, "inventory", "-o", inv, src)
	require.NoError(t, err)
	assert.Contains(t, out, "Inventory -> "+inv)

	out, err = run(t, "classify", "-i", inv, "-o", mapping)
	require.NoError(t, err)
	assert.Contains(t, out, "By bucket")

	_, err = run(t, "reorganize", "-i", mapping, "--root", dest, "--report", report, "--dry-run")
	require.NoError(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the destination")

	_, err = run(t, "reorganize", "-i", mapping, "--root", dest, "--report", report)
	require.NoError(t, err)

	var copied []string
	require.NoError(t, filepath.WalkDir(dest, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			copied = append(copied, filepath.Base(path))
		}
		return err
	}))
	assert.ElementsMatch(t, []string{"W001_Session_Transcript.docx", "notes.txt"}, copied)
	assert.FileExists(t, filepath.Join(src, "notes.txt"))
}

func TestTransformIMessage(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "imsg.json")
	require.NoError(t, os.WriteFile(in, []byte(`[
  {"id": "m1", "text": "Stay calm", "type": "Trust_Chip"},
  {"id": "m2", "text": "Escalate now"}
]`), 0o644))
	out := filepath.Join(dir, "imsg.jsonl")

	stdout, err := run(t, "transform-imsg", "-i", in, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Transformed 2 chips")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"chip_id":"IMSG-`)
}

func TestEmbedDryRun(t *testing.T) {
	dir := t.TempDir()
	chips := writeLines(t, filepath.Join(dir, "chips.jsonl"),
		chipLine(t, "W001-TRUST-001", strings.Repeat("a", 60)),
	)

	out, err := run(t, "embed", "-i", chips, "--namespace", "kb", "--dry-run", "--overwrite")
	require.NoError(t, err)
	assert.Contains(t, out, "Upserted 1/1 chips into kb (dry run)")
}
