package inventory

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

const Phase = "PHASE 1 - FULL DIRECTORY + FILE INVENTORY"

// Scanner walks the configured roots and builds the inventory.
type Scanner struct {
	Roots     []string
	ProbeText bool

	log *logger_i.Logger
}

func NewScanner(roots []string, probeText bool) *Scanner {
	return &Scanner{
		Roots:     roots,
		ProbeText: probeText,
		log:       logger_i.NewLogger("inventory"),
	}
}

type scanState struct {
	files     []fileModel.FileDescriptor
	errors    []fileModel.ScanError
	firstSeen map[string]string
	stats     fileModel.InventoryStats
}

// Scan walks every root in lexical order. Per-file failures are recorded in the
// artifact and never stop the walk; only cancellation returns an error.
func (s *Scanner) Scan(ctx context.Context) (fileModel.InventoryArtifact, error) {
	if s.log == nil {
		s.log = logger_i.NewLogger("inventory")
	}
	st := &scanState{
		firstSeen: map[string]string{},
		stats: fileModel.InventoryStats{
			ByFileType: map[string]int{},
			ByStatus:   map[fileModel.Status]int{},
			ByCategory: map[fileModel.Category]int{},
		},
	}

	for _, root := range s.Roots {
		if _, err := os.Stat(root); err != nil {
			s.log.Warn("directory not found", "root", root, "error", err)
			continue
		}
		s.log.Info("scanning", "root", root)

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				st.errors = append(st.errors, fileModel.ScanError{Path: path, Error: walkErr.Error()})
				return nil
			}
			if d.IsDir() {
				return nil
			}
			s.visit(path, st)
			return nil
		})
		if err != nil {
			return fileModel.InventoryArtifact{}, err
		}
	}

	sort.Slice(st.files, func(i, j int) bool {
		return st.files[i].AbsolutePath < st.files[j].AbsolutePath
	})
	st.stats.TotalFiles = len(st.files)
	st.stats.TotalSizeFormatted = FormatSize(st.stats.TotalSizeBytes)

	s.log.Info("scan complete",
		"files", st.stats.TotalFiles,
		"size", st.stats.TotalSizeFormatted,
		"duplicates", st.stats.DuplicatesFound,
		"errors", len(st.errors))

	return fileModel.InventoryArtifact{
		ScanTimestamp: time.Now(),
		Phase:         Phase,
		Roots:         s.Roots,
		Summary:       st.stats,
		Files:         st.files,
		Errors:        st.errors,
	}, nil
}

func (s *Scanner) visit(path string, st *scanState) {
	info, err := os.Stat(path)
	if err != nil {
		st.errors = append(st.errors, fileModel.ScanError{Path: path, Error: err.Error()})
		return
	}
	if info.IsDir() || info.Size() == 0 {
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fd := Describe(abs, info.Size())

	if hashable(fd.FileType, fd.SizeBytes) {
		sum, err := HashFile(path)
		if err != nil {
			st.errors = append(st.errors, fileModel.ScanError{Path: abs, Error: err.Error()})
		} else {
			fd.FileHash = &sum
			if first, seen := st.firstSeen[sum]; seen {
				dup := first
				fd.IsDuplicate = true
				fd.DuplicateOf = &dup
				st.stats.DuplicatesFound++
			} else {
				st.firstSeen[sum] = abs
			}
		}
	}

	if s.ProbeText {
		ts, err := s.probeText(path, fd.FileType)
		if err != nil {
			s.log.Warn("text probe failed", "file", abs, "error", err)
		} else if ts != nil {
			pages, chars := ts.pages, ts.chars
			fd.PageCount = &pages
			fd.TextChars = &chars
		}
	}

	st.files = append(st.files, fd)
	st.stats.TotalSizeBytes += fd.SizeBytes
	st.stats.ByFileType[fd.FileType]++
	st.stats.ByStatus[fd.Status]++
	st.stats.ByCategory[fd.SemanticCategory]++
}
