package classifier

import (
	"path"
	"sort"
	"strings"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const CatchAllReason = "Miscellaneous - requires manual classification"

// Classifier maps a scanned file to exactly one bucket and destination path.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	buckets map[string]string

	owner      string
	ownerTitle string
	coachTitle string

	ownerSegment       string
	cohortSegment      string
	personaSegment     string
	assessmentsSegment string

	ordered []rule
}

func New(cfg config.ClassifierConfig, buckets map[string]string) *Classifier {
	if len(buckets) == 0 {
		buckets = config.DefaultBuckets(cfg.Coach)
	}
	title := cases.Title(language.English)
	owner := strings.ToLower(cfg.PrimaryStudent)
	coach := strings.ToLower(cfg.Coach)

	c := &Classifier{
		buckets:            buckets,
		owner:              owner,
		ownerTitle:         title.String(owner),
		coachTitle:         title.String(coach),
		ownerSegment:       "/" + owner + "/",
		cohortSegment:      strings.ToLower(cfg.CohortSegment),
		personaSegment:     "/personas/" + coach + "/",
		assessmentsSegment: strings.ToLower(strings.TrimRight(buckets[fileModel.BucketAssessments], "/")),
	}
	if c.cohortSegment == "" {
		// an empty segment would match every path
		c.cohortSegment = "\x00"
	}
	if c.assessmentsSegment == "" {
		c.assessmentsSegment = "\x00"
	}
	c.ordered = c.rules()
	return c
}

func (c *Classifier) Classify(fd fileModel.FileDescriptor) fileModel.ClassificationResult {
	f := newFacts(fd)
	for _, r := range c.ordered {
		if r.match(f) {
			return r.build(f)
		}
	}
	// unreachable: the last rule always matches
	return c.result(fileModel.BucketArchive, f, CatchAllReason, "misc")
}

// RuleName reports which rule claims fd. Used for debugging output.
func (c *Classifier) RuleName(fd fileModel.FileDescriptor) string {
	f := newFacts(fd)
	for _, r := range c.ordered {
		if r.match(f) {
			return r.name
		}
	}
	return "catch_all"
}

func (c *Classifier) Buckets() map[string]string {
	out := make(map[string]string, len(c.buckets))
	for k, v := range c.buckets {
		out[k] = v
	}
	return out
}

// Directories lists every directory a classification target can live in,
// relative to the output root and sorted.
func (c *Classifier) Directories() []string {
	sub := map[string][][]string{
		fileModel.BucketRaw: {
			{c.owner, "misc"},
			{"other_students", "assess"},
			{"other_students", "gameplans"},
			{"other_students", "misc"},
			{"misc"},
		},
		fileModel.BucketKBChips: {
			{"session"}, {"imsg"}, {"exec"}, {"assess_gameplan"}, {"misc"},
		},
		fileModel.BucketEQChips:     {{}, {"patterns"}},
		fileModel.BucketFrameworks:  {{}, {"persona"}},
		fileModel.BucketNarrative:   {{}, {"archetypes"}, {"persona"}},
		fileModel.BucketAssessments: {{}, {"extractions"}},
		fileModel.BucketReports:     {{}},
		fileModel.BucketArchive: {
			{"system"}, {"qa_tools"}, {"tools"}, {"college_apps"}, {"misc"},
		},
	}
	for _, s := range rawStages {
		sub[fileModel.BucketRaw] = append(sub[fileModel.BucketRaw], []string{c.owner, s.dir})
	}
	for _, s := range extractionStages {
		sub[fileModel.BucketKBChips] = append(sub[fileModel.BucketKBChips], []string{s.dir})
	}

	seen := map[string]struct{}{}
	var dirs []string
	for bucket, list := range sub {
		prefix := c.buckets[bucket]
		for _, parts := range list {
			d := strings.TrimPrefix(path.Join(append([]string{prefix}, parts...)...), "/")
			if d == "" || d == "." {
				continue
			}
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// ClassifyAll classifies every file and returns the mapping artifact sorted by
// bucket then target.
func (c *Classifier) ClassifyAll(files []fileModel.FileDescriptor) fileModel.MappingArtifact {
	mappings := make([]fileModel.Mapping, 0, len(files))
	byBucket := map[string]int{}
	for _, fd := range files {
		res := c.Classify(fd)
		byBucket[res.BucketKey]++
		mappings = append(mappings, fileModel.Mapping{
			SourcePath:        fd.AbsolutePath,
			Filename:          fd.Filename,
			FileType:          fd.FileType,
			SemanticCategory:  fd.SemanticCategory,
			CurrentStatus:     fd.Status,
			IsDuplicate:       fd.IsDuplicate,
			RecommendedBucket: res.BucketKey,
			RecommendedTarget: res.RecommendedTarget,
			Reason:            res.Reason,
		})
	}
	sort.SliceStable(mappings, func(i, j int) bool {
		if mappings[i].RecommendedBucket != mappings[j].RecommendedBucket {
			return mappings[i].RecommendedBucket < mappings[j].RecommendedBucket
		}
		return mappings[i].RecommendedTarget < mappings[j].RecommendedTarget
	})
	return fileModel.MappingArtifact{
		Phase:            "Phase 2 - Classification & Mapping",
		CanonicalBuckets: c.Buckets(),
		Summary: fileModel.MappingSummary{
			TotalFilesClassified: len(mappings),
			ByBucket:             byBucket,
		},
		Mappings: mappings,
	}
}
