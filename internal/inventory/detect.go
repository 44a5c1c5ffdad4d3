package inventory

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
)

var typeByExt = map[string]string{
	".pdf":   "pdf",
	".docx":  "docx",
	".doc":   "doc",
	".txt":   "txt",
	".json":  "json",
	".jsonl": "jsonl",
	".csv":   "csv",
	".xlsx":  "xlsx",
	".xls":   "xls",
	".vtt":   "vtt",
	".md":    "md",
	".py":    "py",
	".log":   "log",
}

// DetectFileType maps the extension to a file type. Unknown extensions are
// returned without the dot; no extension gives "unknown".
func DetectFileType(path string) string {
	name := filepath.Base(path)
	if name == ".DS_Store" {
		return "system"
	}
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := typeByExt[ext]; ok {
		return t
	}
	if ext == "" || ext == name {
		return "unknown"
	}
	return ext[1:]
}

func DetectStatus(path string) fileModel.Status {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "/raw/"):
		return fileModel.StatusRaw
	case containsAny(p, "/curated/", "/extractions/", "/chips/", "/eq-chips/"):
		return fileModel.StatusCurated
	default:
		return fileModel.StatusUnknown
	}
}

type categoryRule struct {
	category fileModel.Category
	match    func(path, name, rawName string) bool
}

var categoryRules = []categoryRule{
	{fileModel.CategoryAssessmentTranscript, func(p, n, _ string) bool {
		return strings.Contains(p, "/01-assess-session") || strings.Contains(n, "assessment")
	}},
	{fileModel.CategoryGamePlanReport, func(p, n, _ string) bool {
		return strings.Contains(p, "/02-gameplan-report") || strings.Contains(n, "gameplan")
	}},
	{fileModel.CategorySessionTranscript, func(p, n, _ string) bool {
		return strings.Contains(p, "/03-all-session") || containsAny(n, "trans-intel", "trans-raw")
	}},
	{fileModel.CategoryExecutionDocs, func(p, n, _ string) bool {
		return strings.Contains(p, "/04-execdoc") || containsAny(n, "exec-intel", "exec-raw")
	}},
	{fileModel.CategoryIMessageHistory, func(p, n, _ string) bool {
		return strings.Contains(p, "/05-imessage") || containsAny(n, "imsg", "imessage")
	}},
	{fileModel.CategoryIntelChip, func(p, n, _ string) bool {
		return strings.Contains(p, "/06-kb-chips") || containsAny(n, "intel_chips", "kb_")
	}},
	{fileModel.CategoryEQChip, func(p, n, _ string) bool {
		return strings.Contains(p, "/07-eq-chips") || strings.Contains(n, "eq_")
	}},
	{fileModel.CategoryCollegeApplication, func(p, n, _ string) bool {
		return strings.Contains(p, "/06-college-application") || strings.Contains(n, "common app")
	}},
	{fileModel.CategoryNarrativeFramework, func(p, n, _ string) bool {
		return strings.Contains(n, "framework") || strings.Contains(p, "/frameworks/")
	}},
	{fileModel.CategoryStrategyTactics, func(_, n, _ string) bool {
		return containsAny(n, "strategy", "tactics")
	}},
	{fileModel.CategoryPersona, func(p, n, _ string) bool {
		return strings.Contains(p, "persona") || strings.Contains(n, "archetype")
	}},
	{fileModel.CategoryTooling, func(_, _, raw string) bool {
		return strings.HasSuffix(raw, ".py") || strings.HasSuffix(raw, ".log")
	}},
	{fileModel.CategoryQA, func(_, n, _ string) bool {
		return containsAny(n, "precision_probe", "validation")
	}},
	{fileModel.CategorySystem, func(_, _, raw string) bool {
		return raw == ".DS_Store"
	}},
}

// DetectCategory returns the first matching semantic category, or miscellaneous.
func DetectCategory(path string) fileModel.Category {
	rawName := filepath.Base(path)
	p := strings.ToLower(path)
	n := strings.ToLower(rawName)
	for _, r := range categoryRules {
		if r.match(p, n, rawName) {
			return r.category
		}
	}
	return fileModel.CategoryMiscellaneous
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FormatSize renders a byte count as 123B, 1.50KB or 2.00MB.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2fMB", float64(n)/(1024*1024))
	}
}

// Describe builds a descriptor from a path alone, without hashing.
func Describe(path string, size int64) fileModel.FileDescriptor {
	return fileModel.FileDescriptor{
		AbsolutePath:     path,
		Filename:         filepath.Base(path),
		FileType:         DetectFileType(path),
		SizeBytes:        size,
		SizeFormatted:    FormatSize(size),
		Status:           DetectStatus(path),
		SemanticCategory: DetectCategory(path),
	}
}
