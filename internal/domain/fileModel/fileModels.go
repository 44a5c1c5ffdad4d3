package fileModel

import "time"

type Status string

const (
	StatusRaw     Status = "RAW"
	StatusCurated Status = "CURATED"
	StatusUnknown Status = "UNKNOWN"
)

type Category string

const (
	CategoryAssessmentTranscript Category = "assessment transcript"
	CategoryGamePlanReport       Category = "game plan report"
	CategorySessionTranscript    Category = "full-session coaching transcript"
	CategoryExecutionDocs        Category = "weekly execution docs"
	CategoryIMessageHistory      Category = "iMessage history"
	CategoryIntelChip            Category = "intel chip (kb/imsg/exec)"
	CategoryEQChip               Category = "EQ chip"
	CategoryCollegeApplication   Category = "college application files"
	CategoryNarrativeFramework   Category = "narrative framework"
	CategoryStrategyTactics      Category = "strategy/tactics document"
	CategoryPersona              Category = "persona/archetype data"
	CategoryTooling              Category = "tooling/scripts"
	CategoryQA                   Category = "QA/validation files"
	CategorySystem               Category = "system files"
	CategoryMiscellaneous        Category = "miscellaneous"
)

const (
	BucketRaw         = "raw"
	BucketKBChips     = "kb_chips"
	BucketEQChips     = "eq_chips"
	BucketFrameworks  = "frameworks"
	BucketNarrative   = "narrative"
	BucketAssessments = "assessments"
	BucketReports     = "reports"
	BucketArchive     = "archive"
)

// AllBuckets is the closed set of classification destinations.
var AllBuckets = []string{
	BucketRaw, BucketKBChips, BucketEQChips, BucketFrameworks,
	BucketNarrative, BucketAssessments, BucketReports, BucketArchive,
}

func IsBucket(key string) bool {
	for _, b := range AllBuckets {
		if b == key {
			return true
		}
	}
	return false
}

// FileDescriptor is one scanned file. It is never mutated after the scan.
type FileDescriptor struct {
	AbsolutePath     string   `json:"absolute_path"`
	Filename         string   `json:"filename"`
	FileType         string   `json:"file_type"`
	SizeBytes        int64    `json:"size_bytes"`
	SizeFormatted    string   `json:"size_formatted"`
	Status           Status   `json:"status"`
	SemanticCategory Category `json:"semantic_category"`
	IsDuplicate      bool     `json:"is_duplicate"`
	DuplicateOf      *string  `json:"duplicate_of"`
	FileHash         *string  `json:"file_hash"`

	PageCount *int `json:"page_count,omitempty"`
	TextChars *int `json:"text_chars,omitempty"`
}

type ClassificationResult struct {
	BucketKey         string `json:"bucket_key"`
	RecommendedTarget string `json:"recommended_target"`
	Reason            string `json:"reason"`
}

type Mapping struct {
	SourcePath        string   `json:"source_path"`
	Filename          string   `json:"filename"`
	FileType          string   `json:"file_type"`
	SemanticCategory  Category `json:"semantic_category"`
	CurrentStatus     Status   `json:"current_status"`
	IsDuplicate       bool     `json:"is_duplicate"`
	RecommendedBucket string   `json:"recommended_bucket"`
	RecommendedTarget string   `json:"recommended_target"`
	Reason            string   `json:"reason"`
}

type InventoryStats struct {
	TotalFiles         int              `json:"total_files"`
	TotalSizeBytes     int64            `json:"total_size_bytes"`
	TotalSizeFormatted string           `json:"total_size_formatted"`
	DuplicatesFound    int              `json:"duplicates_found"`
	ByFileType         map[string]int   `json:"by_file_type"`
	ByStatus           map[Status]int   `json:"by_status"`
	ByCategory         map[Category]int `json:"by_semantic_category"`
}

type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type InventoryArtifact struct {
	ScanTimestamp time.Time        `json:"scan_timestamp"`
	Phase         string           `json:"phase"`
	Roots         []string         `json:"roots"`
	Summary       InventoryStats   `json:"summary_stats"`
	Files         []FileDescriptor `json:"file_inventory"`
	Errors        []ScanError      `json:"errors"`
}

type MappingSummary struct {
	TotalFilesClassified int            `json:"total_files_classified"`
	ByBucket             map[string]int `json:"by_bucket"`
}

type MappingArtifact struct {
	Phase            string            `json:"phase"`
	CanonicalBuckets map[string]string `json:"canonical_buckets"`
	Summary          MappingSummary    `json:"summary"`
	Mappings         []Mapping         `json:"file_mappings"`
}

type CopyError struct {
	File   string `json:"file"`
	Source string `json:"source"`
	Target string `json:"target"`
	Error  string `json:"error"`
}

type ReorganizeStats struct {
	TotalFiles int            `json:"total_files"`
	Copied     int            `json:"successfully_copied"`
	Failed     int            `json:"failed"`
	Skipped    int            `json:"skipped"`
	ByBucket   map[string]int `json:"by_bucket"`
}

type ReorganizeReport struct {
	Timestamp            time.Time       `json:"reorganization_timestamp"`
	NewStructureLocation string          `json:"new_structure_location"`
	DryRun               bool            `json:"dry_run"`
	Statistics           ReorganizeStats `json:"statistics"`
	Errors               []CopyError     `json:"errors"`
}
