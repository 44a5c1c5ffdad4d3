package classifier

import (
	"path"
	"strings"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
)

// facts is the lowercased view of a descriptor that every rule inspects.
type facts struct {
	fd   fileModel.FileDescriptor
	path string
	name string
}

func newFacts(fd fileModel.FileDescriptor) facts {
	return facts{
		fd:   fd,
		path: strings.ToLower(fd.AbsolutePath),
		name: strings.ToLower(fd.Filename),
	}
}

func (f facts) pathHas(tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(f.path, t) {
			return true
		}
	}
	return false
}

func (f facts) nameHas(tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(f.name, t) {
			return true
		}
	}
	return false
}

type rule struct {
	name  string
	match func(f facts) bool
	build func(f facts) fileModel.ClassificationResult
}

// stage is a numbered pipeline directory used as a classification signal.
type stage struct {
	token  string
	dir    string
	reason string
}

var rawStages = []stage{
	{"/01-assess-session", "01_assess_session", "raw assessment transcript"},
	{"/02-gameplan-report", "02_gameplan_reports", "raw game plan reports"},
	{"/03-all-session", "03_session_transcripts", "raw coaching session transcripts"},
	{"/04-execdoc", "04_exec_docs", "raw execution documents"},
	{"/05-imessage", "05_imessage", "raw iMessage transcripts"},
	{"/06-college-application", "06_college_apps", "college application materials"},
}

// extraction tokens carry the trailing slash, so a stage directory prefix alone does not match
var extractionStages = []stage{
	{"/01-assess-session/", "assess_extractions", "Curated assessment extraction"},
	{"/02-gameplan-report/", "gameplan_extractions", "Curated game plan extraction"},
	{"/03-all-session/", "session_extractions", "Curated session intelligence extraction"},
	{"/04-execdoc/", "exec_extractions", "Curated execution doc extraction"},
	{"/05-imessage/", "imsg_extractions", "Curated iMessage extraction"},
}

func matchStage(f facts, stages []stage) (stage, bool) {
	for _, s := range stages {
		if f.pathHas(s.token) {
			return s, true
		}
	}
	return stage{}, false
}

// rules returns the ordered rule list. Order resolves every overlap between rules.
func (c *Classifier) rules() []rule {
	return []rule{
		{
			name: "system",
			match: func(f facts) bool {
				return f.fd.FileType == "system" || f.fd.FileType == "log" || f.fd.Filename == ".DS_Store"
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketArchive, f, "System/log files to be archived", "system")
			},
		},
		{
			name: "qa_tooling",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryTooling &&
					f.pathHas("qa_runs", "validate", "precision_probe")
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketArchive, f, "QA/validation tooling - no longer needed in production", "qa_tools")
			},
		},
		{
			name: "tool_scripts",
			match: func(f facts) bool {
				return f.fd.FileType == "py" && f.pathHas("/tools/")
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketArchive, f, "Extraction/processing scripts - archive after use", "tools")
			},
		},
		{
			name: "raw",
			match: func(f facts) bool {
				return f.fd.Status == fileModel.StatusRaw || f.pathHas("/raw/")
			},
			build: c.buildRaw,
		},
		{
			name: "eq_chips",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryEQChip ||
					f.pathHas("/07-eq-chips/") || f.nameHas("eq_")
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketEQChips, f, "EQ/communication pattern chip")
			},
		},
		{
			name: "kb_chips",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryIntelChip || f.pathHas("/06-kb-chips/")
			},
			build: c.buildKBChip,
		},
		{
			name: "extractions",
			match: func(f facts) bool {
				if !f.pathHas("/extractions/") || f.fd.FileType != "docx" {
					return false
				}
				_, ok := matchStage(f, extractionStages)
				return ok
			},
			build: func(f facts) fileModel.ClassificationResult {
				s, _ := matchStage(f, extractionStages)
				return c.result(fileModel.BucketKBChips, f, s.reason, s.dir)
			},
		},
		{
			name: "frameworks",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryStrategyTactics || f.nameHas("framework")
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketFrameworks, f, "Strategic framework/tactics document")
			},
		},
		{
			name: "narrative",
			match: func(f facts) bool {
				return f.nameHas("narrative") || f.fd.SemanticCategory == fileModel.CategoryNarrativeFramework
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketNarrative, f, "Narrative template/pattern")
			},
		},
		{
			name: "persona",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryPersona || f.pathHas(c.personaSegment)
			},
			build: c.buildPersona,
		},
		{
			name: "student_assessments",
			match: func(f facts) bool {
				return f.pathHas(c.assessmentsSegment) || f.nameHas("student_")
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketAssessments, f, "Student assessment structured output")
			},
		},
		{
			name: "cohort_assessments",
			match: func(f facts) bool {
				return f.pathHas(c.cohortSegment) && f.pathHas("/01-assess-session/")
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketAssessments, f, "Assessment extraction from other student", "extractions")
			},
		},
		{
			name: "reports",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryGamePlanReport && f.fd.FileType == "pdf"
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketReports, f, "Published game plan report PDF")
			},
		},
		{
			name: "college_apps",
			match: func(f facts) bool {
				return f.fd.SemanticCategory == fileModel.CategoryCollegeApplication
			},
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketArchive, f, "College application materials (reference only)", "college_apps")
			},
		},
		{
			name:  "catch_all",
			match: func(facts) bool { return true },
			build: func(f facts) fileModel.ClassificationResult {
				return c.result(fileModel.BucketArchive, f, CatchAllReason, "misc")
			},
		},
	}
}

func (c *Classifier) buildRaw(f facts) fileModel.ClassificationResult {
	switch {
	case f.pathHas(c.ownerSegment):
		if s, ok := matchStage(f, rawStages); ok {
			return c.result(fileModel.BucketRaw, f, c.ownerTitle+"'s "+s.reason, c.owner, s.dir)
		}
		return c.result(fileModel.BucketRaw, f, c.ownerTitle+"'s other raw materials", c.owner, "misc")
	case f.pathHas(c.cohortSegment):
		switch {
		case f.pathHas("assess"):
			return c.result(fileModel.BucketRaw, f, "Other students' assessment transcripts", "other_students", "assess")
		case f.pathHas("gameplan"):
			return c.result(fileModel.BucketRaw, f, "Other students' game plan reports", "other_students", "gameplans")
		default:
			return c.result(fileModel.BucketRaw, f, "Other students' raw materials", "other_students", "misc")
		}
	default:
		return c.result(fileModel.BucketRaw, f, "Miscellaneous raw source files", "misc")
	}
}

func (c *Classifier) buildKBChip(f facts) fileModel.ClassificationResult {
	switch {
	case f.nameHas("w0") && f.nameHas("chips"):
		return c.result(fileModel.BucketKBChips, f, "Session-level KB intelligence chip", "session")
	case f.pathHas("imsg") || f.nameHas("imessage"):
		return c.result(fileModel.BucketKBChips, f, "iMessage intelligence chip", "imsg")
	case f.nameHas("exec") || f.pathHas("/exec-chips/"):
		return c.result(fileModel.BucketKBChips, f, "Execution intelligence chip", "exec")
	case f.pathHas("assess", "gameplan"):
		return c.result(fileModel.BucketKBChips, f, "Assessment/GamePlan intelligence chip", "assess_gameplan")
	default:
		return c.result(fileModel.BucketKBChips, f, "General KB intelligence chip", "misc")
	}
}

func (c *Classifier) buildPersona(f facts) fileModel.ClassificationResult {
	switch {
	case f.nameHas("archetype"):
		return c.result(fileModel.BucketNarrative, f, "Archetype mapping data", "archetypes")
	case f.nameHas("eq_patterns", "coaching_patterns"):
		return c.result(fileModel.BucketEQChips, f, "EQ/coaching pattern data", "patterns")
	case f.nameHas("heuristics", "golden_thread"):
		return c.result(fileModel.BucketFrameworks, f, c.coachTitle+" persona framework data", "persona")
	default:
		return c.result(fileModel.BucketNarrative, f, "Persona configuration data", "persona")
	}
}

// result joins the bucket prefix, the sub-directories and the filename.
func (c *Classifier) result(bucket string, f facts, reason string, subdirs ...string) fileModel.ClassificationResult {
	parts := append([]string{c.buckets[bucket]}, subdirs...)
	parts = append(parts, f.fd.Filename)
	return fileModel.ClassificationResult{
		BucketKey:         bucket,
		RecommendedTarget: path.Join(parts...),
		Reason:            reason,
	}
}
