package chips

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONLFrom(t *testing.T) {
	input := strings.Join([]string{
		`{"chip_id":"W001-A-001","type":"Trust_Chip"}`,
		``,
		`   `,
		`{"chip_id": broken`,
		`[1,2,3]`,
		`{"chip_id":"W001-A-002"}`,
	}, "\n")

	recs, err := ReadJSONLFrom(strings.NewReader(input), "batch.jsonl")
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, "W001-A-001", recs[0].ChipID())
	assert.Equal(t, 1, recs[0].Line)

	assert.Equal(t, 4, recs[1].Line)
	assert.Contains(t, recs[1].ParseError, "JSON parse error on line 4")
	assert.Nil(t, recs[1].Fields)

	assert.Contains(t, recs[2].ParseError, "expected an object")
	assert.Equal(t, 6, recs[3].Line)
	assert.Equal(t, "batch.jsonl", recs[3].File)
}

func TestCollectGlobAndWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteJSONL(filepath.Join(dir, "b.jsonl"), []map[string]any{{"chip_id": "B"}}))
	require.NoError(t, WriteJSONL(filepath.Join(dir, "a.jsonl"), []map[string]any{{"chip_id": "A"}, {"chip_id": "A2"}}))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.jsonl"), 0o755))

	files, err := CollectGlob(dir, "*.jsonl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jsonl"), filepath.Join(dir, "b.jsonl")}, files)

	chips, err := LoadChips(files)
	require.NoError(t, err)
	require.Len(t, chips, 3)
	assert.Equal(t, "A", chips[0].ChipID)
	assert.Equal(t, "B", chips[2].ChipID)
}

func TestParseAny(t *testing.T) {
	t.Run("array with string entries", func(t *testing.T) {
		got := ParseAny([]byte(`[{"chip_id":"x"}, "{\"chip_id\":\"y\"}", "plain text"]`))
		require.Len(t, got, 3)
		assert.Equal(t, "x", got[0]["chip_id"])
		assert.Equal(t, "y", got[1]["chip_id"])
		assert.Equal(t, "plain text", got[2]["content"])
	})

	t.Run("jsonl with salvage", func(t *testing.T) {
		got := ParseAny([]byte("{\"chip_id\":\"x\"}\nnot json at all\n\n{\"chip_id\":\"z\"}\n"))
		require.Len(t, got, 3)
		assert.Equal(t, "not json at all", got[1]["content"])
		assert.Equal(t, "z", got[2]["chip_id"])
	})
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "/a/b.jsonl", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "/a/B.JSONL", Op: fsnotify.Create}))
	assert.False(t, relevant(fsnotify.Event{Name: "/a/b.json", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "/a/b.jsonl", Op: fsnotify.Chmod}))
}

func TestWatchDirs(t *testing.T) {
	got := WatchDirs("/root", []string{"sessions/*.jsonl", "iMessage/*.jsonl", "sessions/extra.jsonl", "*/x.jsonl"})
	assert.Equal(t, []string{"/root/sessions", "/root/iMessage", "/root"}, got)
}
