package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/kbcurator/internal/classifier"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/curation"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodChip = `{"chip_id":"W001-SESSION-001","type":"Framework_Chip","source_doc":{"week":"W001","filename":"s.docx","date":"2024-01-01","phase":"P1"},"metadata":{"participants":["coach"],"duration":"30m"},"content":"This content is comfortably longer than fifty characters in total length.","insight_vector":"An insight string that is long enough to pass the check."}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	s, err := NewServer(curation.NewService(classifier.New(cfg.Classifier, cfg.Buckets), cfg.Validator))
	require.NoError(t, err)
	return s
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(nil)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrMissingCurationService)
}

func TestServer_handleClassifyFile(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("explicit size", func(t *testing.T) {
		size := int64(2048)
		_, out, err := s.handleClassifyFile(ctx, nil, ClassifyFileInput{Path: "/data/.DS_Store", SizeBytes: &size})
		require.NoError(t, err)
		assert.Equal(t, int64(2048), out.Descriptor.SizeBytes)
		assert.Equal(t, "system", out.Descriptor.FileType)
		assert.Equal(t, fileModel.BucketArchive, out.Classification.BucketKey)
	})

	t.Run("size read from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
		_, out, err := s.handleClassifyFile(ctx, nil, ClassifyFileInput{Path: path})
		require.NoError(t, err)
		assert.Equal(t, int64(5), out.Descriptor.SizeBytes)
		assert.NotEmpty(t, out.Classification.RecommendedTarget)
	})

	t.Run("path required", func(t *testing.T) {
		_, _, err := s.handleClassifyFile(ctx, nil, ClassifyFileInput{})
		require.Error(t, err)
	})
}

func TestServer_handleValidateChips(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleValidateChips(ctx, nil, ValidateChipsInput{Content: goodChip})
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 1, out.Report.Summary.Valid)

	_, out, err = s.handleValidateChips(ctx, nil, ValidateChipsInput{Content: goodChip + "\n" + goodChip, FileName: "dup.jsonl"})
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, "dup.jsonl", out.Report.Details[1].File)

	_, _, err = s.handleValidateChips(ctx, nil, ValidateChipsInput{Content: goodChip, Schema: "v9"})
	assert.ErrorIs(t, err, config.ErrUnknownSchema)
}

func TestServer_handleProbeChips(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	chipsJSON := `[{"chip_id":"A","type":"Tone_Cue_Chip","content":"deadline panic before the essay"},
		{"chip_id":"B","type":"Tone_Cue_Chip","content":"celebrate the acceptance letter"}]`

	_, out, err := s.handleProbeChips(ctx, nil, ProbeChipsInput{
		Chips:   chipsJSON,
		Queries: []probe.Query{{ID: "q1", Text: "essay deadline panic"}},
	})
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 2, out.Result.Chips)
	assert.Equal(t, "A", out.Result.Queries[0].Top[0].ChipID)

	strict := 0.99
	_, out, err = s.handleProbeChips(ctx, nil, ProbeChipsInput{
		Chips:     chipsJSON,
		Queries:   []probe.Query{{ID: "q1", Text: "essay deadline panic"}},
		Threshold: &strict,
	})
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, []string{"q1"}, out.Result.Failed)

	_, _, err = s.handleProbeChips(ctx, nil, ProbeChipsInput{Chips: chipsJSON})
	require.Error(t, err)
}
