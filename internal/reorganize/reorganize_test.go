package reorganize

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	one := filepath.Join(src, "one", "plan.pdf")
	two := filepath.Join(src, "two", "plan.pdf")
	for _, p := range []string{one, two} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(p), 0o640))
	}
	old := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(one, old, old))

	mappings := []fileModel.Mapping{
		{SourcePath: one, Filename: "plan.pdf", RecommendedBucket: fileModel.BucketReports, RecommendedTarget: "/reports/plan.pdf"},
		{SourcePath: two, Filename: "plan.pdf", RecommendedBucket: fileModel.BucketReports, RecommendedTarget: "/reports/plan.pdf"},
		{SourcePath: filepath.Join(src, "gone.txt"), Filename: "gone.txt", RecommendedBucket: fileModel.BucketArchive, RecommendedTarget: "/archive/misc/gone.txt"},
	}

	report, err := New(dst, false).Run(context.Background(), mappings, []string{"reports", "archive/misc"})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Statistics.TotalFiles)
	assert.Equal(t, 2, report.Statistics.Copied)
	assert.Equal(t, 1, report.Statistics.Skipped)
	assert.Equal(t, 0, report.Statistics.Failed)
	assert.Equal(t, 2, report.Statistics.ByBucket[fileModel.BucketReports])

	first, err := os.ReadFile(filepath.Join(dst, "reports", "plan.pdf"))
	require.NoError(t, err)
	assert.Equal(t, one, string(first))

	second, err := os.ReadFile(filepath.Join(dst, "reports", "plan_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, two, string(second))

	info, err := os.Stat(filepath.Join(dst, "reports", "plan.pdf"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	assert.DirExists(t, filepath.Join(dst, "archive", "misc"))
}

func TestRun_DryRun(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	p := filepath.Join(src, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	report, err := New(dst, true).Run(context.Background(),
		[]fileModel.Mapping{{SourcePath: p, RecommendedBucket: "archive", RecommendedTarget: "/archive/misc/a.txt"}},
		[]string{"archive/misc"})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Statistics.Copied)
	assert.NoDirExists(t, dst)
}

func TestCopyFile_Collisions(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jsonl")
	require.NoError(t, os.WriteFile(src, []byte("{}"), 0o644))

	dest := filepath.Join(dir, "out", "chips.jsonl")
	var got []string
	for i := 0; i < 3; i++ {
		p, err := CopyFile(src, dest)
		require.NoError(t, err)
		got = append(got, filepath.Base(p))
	}
	assert.Equal(t, []string{"chips.jsonl", "chips_1.jsonl", "chips_2.jsonl"}, got)
}
