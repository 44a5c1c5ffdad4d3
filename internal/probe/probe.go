package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/goccy/go-yaml"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

type Query struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

type File struct {
	Queries []Query `json:"queries" yaml:"queries"`
}

type QueryResult struct {
	ID     string                   `json:"id"`
	Text   string                   `json:"text"`
	Top    []commonModels.SearchHit `json:"top"`
	Top1   float64                  `json:"top1"`
	Passed bool                     `json:"passed"`
}

type Result struct {
	Mode      string        `json:"mode"`
	Threshold float64       `json:"threshold"`
	Chips     int           `json:"chips"`
	Queries   []QueryResult `json:"queries"`
	Failed    []string      `json:"failed"`
}

func (r Result) Passed() bool {
	return len(r.Failed) == 0
}

func Tokens(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, t := range tokenPattern.FindAllString(strings.ToLower(s), -1) {
		out[t] = struct{}{}
	}
	return out
}

// Jaccard is |A∩B| / |A∪B| over the token sets, and 0 when both are empty.
func Jaccard(a, b string) float64 {
	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(max(1, union))
}

// Run scores every query against every chip lexically and applies the top-1 gate.
func Run(queries []Query, chips []chipModel.Chip, topK int, threshold float64) Result {
	res := Result{Mode: "lexical", Threshold: threshold, Chips: len(chips), Failed: []string{}}
	for _, q := range queries {
		scored := make([]commonModels.SearchHit, 0, len(chips))
		for _, c := range chips {
			scored = append(scored, commonModels.SearchHit{
				ChipID: c.ChipID,
				Type:   c.Type,
				Score:  Jaccard(q.Text, c.SearchBlob()),
			})
		}
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
		if len(scored) > topK {
			scored = scored[:topK]
		}
		res.add(q, scored)
	}
	return res
}

// Searcher returns the best hits for a query text, best first.
type Searcher func(ctx context.Context, text string, topK int) ([]commonModels.SearchHit, error)

// RunWith applies the same gate to hits produced by search.
func RunWith(ctx context.Context, mode string, queries []Query, search Searcher, topK int, threshold float64) (Result, error) {
	res := Result{Mode: mode, Threshold: threshold, Failed: []string{}}
	for _, q := range queries {
		hits, err := search(ctx, q.Text, topK)
		if err != nil {
			return res, fmt.Errorf("query %s: %w", q.ID, err)
		}
		if len(hits) > topK {
			hits = hits[:topK]
		}
		res.add(q, hits)
	}
	return res, nil
}

func (r *Result) add(q Query, top []commonModels.SearchHit) {
	qr := QueryResult{ID: q.ID, Text: q.Text, Top: top}
	if len(top) > 0 {
		qr.Top1 = top[0].Score
	}
	qr.Passed = qr.Top1 >= r.Threshold
	if !qr.Passed {
		r.Failed = append(r.Failed, q.ID)
	}
	r.Queries = append(r.Queries, qr)
}

// LoadFile reads a probe file. YAML is used for .yaml and .yml, JSON otherwise.
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read probes: %w", err)
	}
	return Parse(raw, filepath.Ext(path))
}

func Parse(raw []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return File{}, fmt.Errorf("decode yaml probes: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &f); err != nil {
			return File{}, fmt.Errorf("decode json probes: %w", err)
		}
	}
	return f, nil
}
