package reorganize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/pkg/logger_i"
)

// Reorganizer copies classified files into the canonical layout under Root.
// Sources are never modified.
type Reorganizer struct {
	Root   string
	DryRun bool

	log *logger_i.Logger
}

func New(root string, dryRun bool) *Reorganizer {
	return &Reorganizer{
		Root:   root,
		DryRun: dryRun,
		log:    logger_i.NewLogger("reorganize"),
	}
}

// Run creates dirs under Root and copies every mapping. A failed copy is
// recorded and the loop moves on; only cancellation stops it early.
func (r *Reorganizer) Run(ctx context.Context, mappings []fileModel.Mapping, dirs []string) (fileModel.ReorganizeReport, error) {
	if r.log == nil {
		r.log = logger_i.NewLogger("reorganize")
	}
	report := fileModel.ReorganizeReport{
		Timestamp:            time.Now(),
		NewStructureLocation: r.Root,
		DryRun:               r.DryRun,
		Statistics: fileModel.ReorganizeStats{
			TotalFiles: len(mappings),
			ByBucket:   map[string]int{},
		},
		Errors: []fileModel.CopyError{},
	}

	if !r.DryRun {
		for _, d := range dirs {
			if err := os.MkdirAll(filepath.Join(r.Root, d), 0o755); err != nil {
				return report, fmt.Errorf("create %s: %w", d, err)
			}
		}
		r.log.Info("created directory structure", "root", r.Root, "dirs", len(dirs))
	}

	for i, m := range mappings {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if (i+1)%config.ReorganizeProgressStep == 0 {
			r.log.Info("progress", "done", i+1, "total", len(mappings))
		}

		if _, err := os.Stat(m.SourcePath); err != nil {
			report.Statistics.Skipped++
			continue
		}

		dest := filepath.Join(r.Root, filepath.FromSlash(strings.TrimLeft(m.RecommendedTarget, "/")))
		if r.DryRun {
			r.log.Debug("would copy", "source", m.SourcePath, "target", dest)
			report.Statistics.Copied++
			report.Statistics.ByBucket[m.RecommendedBucket]++
			continue
		}

		if _, err := CopyFile(m.SourcePath, dest); err != nil {
			report.Statistics.Failed++
			report.Errors = append(report.Errors, fileModel.CopyError{
				File:   m.Filename,
				Source: m.SourcePath,
				Target: m.RecommendedTarget,
				Error:  err.Error(),
			})
			continue
		}
		report.Statistics.Copied++
		report.Statistics.ByBucket[m.RecommendedBucket]++
	}

	r.log.Info("reorganization complete",
		"copied", report.Statistics.Copied,
		"failed", report.Statistics.Failed,
		"skipped", report.Statistics.Skipped)
	return report, nil
}

// CopyFile copies src to a free name derived from dest and returns the path
// written. Mode and modification time are preserved.
func CopyFile(src, dest string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, target, err := createUnique(dest, info.Mode().Perm())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(target)
		return "", fmt.Errorf("copy to %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(target, info.Mode().Perm()); err != nil {
		return target, fmt.Errorf("preserve mode on %s: %w", target, err)
	}
	if err := os.Chtimes(target, info.ModTime(), info.ModTime()); err != nil {
		return target, fmt.Errorf("preserve mtime on %s: %w", target, err)
	}
	return target, nil
}

// createUnique opens dest exclusively, falling back to stem_1.ext, stem_2.ext and so on.
func createUnique(dest string, perm fs.FileMode) (*os.File, string, error) {
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	candidate := dest
	for n := 1; ; n++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}
