package chips

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
)

// ReadJSONL reads one record per non-blank line of path.
func ReadJSONL(path string) ([]chipModel.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSONLFrom(f, path)
}

// ReadJSONLFrom reads records from r, labelling them with name. A line that
// does not parse to an object yields a record carrying ParseError.
func ReadJSONLFrom(r io.Reader, name string) ([]chipModel.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), config.JSONLMaxLineBytes)

	var records []chipModel.Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		records = append(records, parseLine(line, lineNo, name))
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("read %s: %w", name, err)
	}
	return records, nil
}

func parseLine(line []byte, lineNo int, name string) chipModel.Record {
	rec := chipModel.Record{File: name, Line: lineNo}
	var value any
	if err := json.Unmarshal(line, &value); err != nil {
		rec.ParseError = fmt.Sprintf("JSON parse error on line %d: %v", lineNo, err)
		return rec
	}
	obj, ok := value.(map[string]any)
	if !ok {
		rec.ParseError = fmt.Sprintf("JSON parse error on line %d: expected an object", lineNo)
		return rec
	}
	rec.Fields = obj
	return rec
}

// CollectGlob returns the files under root matching pattern, sorted.
func CollectGlob(root, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if info, statErr := os.Stat(m); statErr == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ReadFiles reads every file in order and concatenates the records.
func ReadFiles(files []string) ([]chipModel.Record, error) {
	var out []chipModel.Record
	for _, f := range files {
		recs, err := ReadJSONL(f)
		if err != nil {
			return out, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

func WriteJSONL(path string, objs []map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, o := range objs {
		if err := enc.Encode(o); err != nil {
			f.Close()
			return fmt.Errorf("encode chip: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// LoadChips reads the files and returns the typed chips, skipping unparseable lines.
func LoadChips(files []string) ([]chipModel.Chip, error) {
	recs, err := ReadFiles(files)
	if err != nil {
		return nil, err
	}
	out := make([]chipModel.Chip, 0, len(recs))
	for _, r := range recs {
		if r.Fields == nil {
			continue
		}
		out = append(out, chipModel.FromFields(r.Fields))
	}
	return out, nil
}
