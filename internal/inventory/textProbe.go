package inventory

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

var errPageTimeout = errors.New("page extraction timeout")

type textStats struct {
	pages int
	chars int
}

// probeText extracts readable text to report page and character counts.
// Only pdf and the document types cat understands are probed.
func (s *Scanner) probeText(path, fileType string) (*textStats, error) {
	switch fileType {
	case "pdf":
		return s.probePDF(path)
	case "docx", "odt", "rtf", "txt":
		text, err := cat.File(path)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", fileType, err)
		}
		return &textStats{pages: 1, chars: utf8.RuneCountInString(text)}, nil
	default:
		return nil, nil
	}
}

func (s *Scanner) probePDF(path string) (*textStats, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	stats := &textStats{pages: f.NumPage()}
	for i := 1; i <= stats.pages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := extractPage(page, config.PageExtractTimeout)
		if err != nil {
			s.log.Debug("skipping pdf page", "file", path, "page", i, "error", err)
			continue
		}
		stats.chars += utf8.RuneCountInString(content)
	}
	return stats, nil
}

// extractPage bounds GetPlainText, which can spin on malformed content streams.
func extractPage(page pdf.Page, timeout time.Duration) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(timeout):
		return "", errPageTimeout
	}
}
