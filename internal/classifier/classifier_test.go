package classifier

import (
	"strings"
	"testing"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier() *Classifier {
	cfg := config.Default()
	return New(cfg.Classifier, cfg.Buckets)
}

func fd(p, fileType string, status fileModel.Status, cat fileModel.Category) fileModel.FileDescriptor {
	name := p[strings.LastIndex(p, "/")+1:]
	return fileModel.FileDescriptor{
		AbsolutePath:     p,
		Filename:         name,
		FileType:         fileType,
		Status:           status,
		SemanticCategory: cat,
	}
}

func TestClassify_Rules(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name       string
		in         fileModel.FileDescriptor
		wantBucket string
		wantTarget string
		wantReason string
	}{
		{
			name:       "system file",
			in:         fd("/data/x/.DS_Store", "system", fileModel.StatusUnknown, fileModel.CategorySystem),
			wantBucket: fileModel.BucketArchive,
			wantTarget: "/archive/system/.DS_Store",
		},
		{
			name:       "qa tooling",
			in:         fd("/data/qa_runs/validate_chips.py", "py", fileModel.StatusUnknown, fileModel.CategoryTooling),
			wantBucket: fileModel.BucketArchive,
			wantTarget: "/archive/qa_tools/validate_chips.py",
		},
		{
			name:       "tool script",
			in:         fd("/data/tools/extract.py", "py", fileModel.StatusUnknown, fileModel.CategoryTooling),
			wantBucket: fileModel.BucketArchive,
			wantTarget: "/archive/tools/extract.py",
		},
		{
			name:       "owner raw gameplan",
			in:         fd("/data/Huda/raw/02-GamePlan-Report/plan.pdf", "pdf", fileModel.StatusRaw, fileModel.CategoryGamePlanReport),
			wantBucket: fileModel.BucketRaw,
			wantTarget: "/coaches/jenny/raw/huda/02_gameplan_reports/plan.pdf",
			wantReason: "Huda's raw game plan reports",
		},
		{
			name:       "owner raw without stage",
			in:         fd("/data/huda/raw/notes.txt", "txt", fileModel.StatusRaw, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketRaw,
			wantTarget: "/coaches/jenny/raw/huda/misc/notes.txt",
		},
		{
			name:       "cohort raw assessment",
			in:         fd("/data/other-students/raw/assess-01.docx", "docx", fileModel.StatusRaw, fileModel.CategoryAssessmentTranscript),
			wantBucket: fileModel.BucketRaw,
			wantTarget: "/coaches/jenny/raw/other_students/assess/assess-01.docx",
		},
		{
			name:       "raw without owner",
			in:         fd("/data/raw/thing.txt", "txt", fileModel.StatusRaw, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketRaw,
			wantTarget: "/coaches/jenny/raw/misc/thing.txt",
		},
		{
			name:       "eq chip by filename",
			in:         fd("/data/curated/eq_tone.jsonl", "jsonl", fileModel.StatusCurated, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketEQChips,
			wantTarget: "/coaches/jenny/curated/eq_chips/eq_tone.jsonl",
		},
		{
			name:       "session kb chip",
			in:         fd("/data/06-kb-chips/w01_chips.jsonl", "jsonl", fileModel.StatusCurated, fileModel.CategoryIntelChip),
			wantBucket: fileModel.BucketKBChips,
			wantTarget: "/coaches/jenny/curated/kb_chips/session/w01_chips.jsonl",
		},
		{
			name:       "imsg kb chip",
			in:         fd("/data/06-kb-chips/imsg/batch.jsonl", "jsonl", fileModel.StatusCurated, fileModel.CategoryIntelChip),
			wantBucket: fileModel.BucketKBChips,
			wantTarget: "/coaches/jenny/curated/kb_chips/imsg/batch.jsonl",
		},
		{
			name:       "extraction docx",
			in:         fd("/data/extractions/04-execdoc/week3.docx", "docx", fileModel.StatusCurated, fileModel.CategoryExecutionDocs),
			wantBucket: fileModel.BucketKBChips,
			wantTarget: "/coaches/jenny/curated/kb_chips/exec_extractions/week3.docx",
		},
		{
			name:       "extraction without stage falls through",
			in:         fd("/data/extractions/other/framework_a.docx", "docx", fileModel.StatusCurated, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketFrameworks,
			wantTarget: "/coaches/jenny/curated/frameworks/framework_a.docx",
		},
		{
			name:       "narrative",
			in:         fd("/data/docs/narrative_arc.md", "md", fileModel.StatusUnknown, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketNarrative,
			wantTarget: "/coaches/jenny/curated/narrative/narrative_arc.md",
		},
		{
			name:       "persona archetype",
			in:         fd("/data/personas/jenny/archetype_map.json", "json", fileModel.StatusUnknown, fileModel.CategoryPersona),
			wantBucket: fileModel.BucketNarrative,
			wantTarget: "/coaches/jenny/curated/narrative/archetypes/archetype_map.json",
		},
		{
			name:       "persona heuristics",
			in:         fd("/data/personas/jenny/heuristics.json", "json", fileModel.StatusUnknown, fileModel.CategoryPersona),
			wantBucket: fileModel.BucketFrameworks,
			wantTarget: "/coaches/jenny/curated/frameworks/persona/heuristics.json",
			wantReason: "Jenny persona framework data",
		},
		{
			name:       "student file",
			in:         fd("/data/out/student_profile.json", "json", fileModel.StatusUnknown, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketAssessments,
			wantTarget: "/students/jenny_assessments_v1/student_profile.json",
		},
		{
			name:       "cohort assessment extraction",
			in:         fd("/data/other-students/01-assess-session/a.docx", "docx", fileModel.StatusCurated, fileModel.CategoryAssessmentTranscript),
			wantBucket: fileModel.BucketAssessments,
			wantTarget: "/students/jenny_assessments_v1/extractions/a.docx",
		},
		{
			name:       "published report",
			in:         fd("/data/final/plan.pdf", "pdf", fileModel.StatusUnknown, fileModel.CategoryGamePlanReport),
			wantBucket: fileModel.BucketReports,
			wantTarget: "/reports/plan.pdf",
		},
		{
			name:       "college application",
			in:         fd("/data/apps/essay.docx", "docx", fileModel.StatusUnknown, fileModel.CategoryCollegeApplication),
			wantBucket: fileModel.BucketArchive,
			wantTarget: "/archive/college_apps/essay.docx",
		},
		{
			name:       "catch all",
			in:         fd("/data/zz/qwerty.bin", "bin", fileModel.StatusUnknown, fileModel.CategoryMiscellaneous),
			wantBucket: fileModel.BucketArchive,
			wantTarget: "/archive/misc/qwerty.bin",
			wantReason: CatchAllReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.in)
			assert.Equal(t, tt.wantBucket, got.BucketKey)
			assert.Equal(t, tt.wantTarget, got.RecommendedTarget)
			if tt.wantReason != "" {
				assert.Contains(t, got.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassify_SystemBeatsRaw(t *testing.T) {
	c := newTestClassifier()
	in := fd("/data/huda/raw/02-gameplan-report/run.log", "log", fileModel.StatusRaw, fileModel.CategorySystem)

	got := c.Classify(in)
	assert.Equal(t, fileModel.BucketArchive, got.BucketKey)
	assert.Equal(t, "system", c.RuleName(in))
}

func TestClassify_TotalAndDeterministic(t *testing.T) {
	c := newTestClassifier()
	paths := []string{"/", "/a", "/raw/", "/x/y/z.unknown", "/personas/jenny/", "/extractions/"}
	types := []string{"", "pdf", "docx", "py", "system", "jsonl"}
	statuses := []fileModel.Status{fileModel.StatusRaw, fileModel.StatusCurated, fileModel.StatusUnknown}
	cats := []fileModel.Category{
		fileModel.CategoryMiscellaneous, fileModel.CategoryPersona, fileModel.CategoryTooling,
		fileModel.CategoryIntelChip, fileModel.CategoryGamePlanReport,
	}

	for _, p := range paths {
		for _, ft := range types {
			for _, st := range statuses {
				for _, cat := range cats {
					in := fd(p+"file", ft, st, cat)
					first := c.Classify(in)
					require.True(t, fileModel.IsBucket(first.BucketKey), "bucket %q for %s", first.BucketKey, p)
					assert.NotEmpty(t, first.RecommendedTarget)
					assert.NotEmpty(t, first.Reason)
					assert.Equal(t, first, c.Classify(in))
				}
			}
		}
	}
}

func TestDirectories_CoverTargets(t *testing.T) {
	c := newTestClassifier()
	dirs := map[string]bool{}
	for _, d := range c.Directories() {
		dirs[d] = true
	}

	samples := []fileModel.FileDescriptor{
		fd("/data/huda/raw/05-imessage/chat.txt", "txt", fileModel.StatusRaw, fileModel.CategoryIMessageHistory),
		fd("/data/extractions/01-assess-session/a.docx", "docx", fileModel.StatusCurated, fileModel.CategoryAssessmentTranscript),
		fd("/data/zz/qwerty.bin", "bin", fileModel.StatusUnknown, fileModel.CategoryMiscellaneous),
		fd("/data/final/plan.pdf", "pdf", fileModel.StatusUnknown, fileModel.CategoryGamePlanReport),
	}
	for _, s := range samples {
		target := strings.TrimPrefix(c.Classify(s).RecommendedTarget, "/")
		dir := target[:strings.LastIndex(target, "/")]
		assert.True(t, dirs[dir], "missing directory %s", dir)
	}
}

func TestClassifyAll_SortedWithCounts(t *testing.T) {
	c := newTestClassifier()
	files := []fileModel.FileDescriptor{
		fd("/data/zz/b.bin", "bin", fileModel.StatusUnknown, fileModel.CategoryMiscellaneous),
		fd("/data/final/plan.pdf", "pdf", fileModel.StatusUnknown, fileModel.CategoryGamePlanReport),
		fd("/data/zz/a.bin", "bin", fileModel.StatusUnknown, fileModel.CategoryMiscellaneous),
	}

	art := c.ClassifyAll(files)
	require.Len(t, art.Mappings, 3)
	assert.Equal(t, 3, art.Summary.TotalFilesClassified)
	assert.Equal(t, 2, art.Summary.ByBucket[fileModel.BucketArchive])
	assert.Equal(t, "/archive/misc/a.bin", art.Mappings[0].RecommendedTarget)
	assert.Equal(t, "/archive/misc/b.bin", art.Mappings[1].RecommendedTarget)
	assert.Equal(t, fileModel.BucketReports, art.Mappings[2].RecommendedBucket)
}
