package chipModel

import "strings"

// Record is one line of a chip file. Exactly one of Fields or ParseError is set.
type Record struct {
	File       string         `json:"file"`
	Line       int            `json:"line"`
	Batch      string         `json:"batch,omitempty"`
	Fields     map[string]any `json:"fields,omitempty"`
	ParseError string         `json:"parse_error,omitempty"`
}

func (r Record) ChipID() string {
	if r.Fields == nil {
		return ""
	}
	id, _ := r.Fields["chip_id"].(string)
	return id
}

func (r Record) Type() string {
	if r.Fields == nil {
		return ""
	}
	t, _ := r.Fields["type"].(string)
	return t
}

// Chip is the typed view of a record used by embedding and probing.
type Chip struct {
	ChipID        string         `json:"chip_id"`
	Type          string         `json:"type"`
	SourceDoc     map[string]any `json:"source_doc"`
	Metadata      map[string]any `json:"metadata"`
	Content       string         `json:"content"`
	InsightVector string         `json:"insight_vector,omitempty"`
}

func FromFields(fields map[string]any) Chip {
	chip := Chip{
		SourceDoc: map[string]any{},
		Metadata:  map[string]any{},
	}
	chip.ChipID, _ = fields["chip_id"].(string)
	chip.Type, _ = fields["type"].(string)
	chip.Content, _ = fields["content"].(string)
	chip.InsightVector, _ = fields["insight_vector"].(string)
	if sd, ok := fields["source_doc"].(map[string]any); ok {
		chip.SourceDoc = sd
	}
	if md, ok := fields["metadata"].(map[string]any); ok {
		chip.Metadata = md
	}
	return chip
}

// SearchBlob is the text scored by the lexical probe.
func (c Chip) SearchBlob() string {
	return strings.TrimSpace(c.Content + " " + c.InsightVector)
}

func (c Chip) SourceString(key string) (string, bool) {
	v, ok := c.SourceDoc[key]
	if !ok || v == nil {
		return "", false
	}
	s, isString := v.(string)
	if !isString {
		return stringify(v), true
	}
	return s, true
}

type Detail struct {
	File   string   `json:"file"`
	Line   int      `json:"line"`
	Batch  string   `json:"batch,omitempty"`
	ChipID string   `json:"chip_id"`
	Type   string   `json:"type"`
	Errors []string `json:"errors"`
}

func (d Detail) Valid() bool {
	return len(d.Errors) == 0
}

type Summary struct {
	Total   int            `json:"total"`
	Valid   int            `json:"valid"`
	Invalid int            `json:"invalid"`
	ByBatch map[string]int `json:"by_batch"`
}

type Scanned struct {
	Root    string            `json:"root,omitempty"`
	Batches map[string]string `json:"batches,omitempty"`
	Files   []string          `json:"files,omitempty"`
}

type Report struct {
	Schema  string   `json:"schema"`
	Summary Summary  `json:"summary"`
	Details []Detail `json:"details"`
	Scanned Scanned  `json:"scanned"`
}

func (r Report) Passed() bool {
	return r.Summary.Invalid == 0
}

// Invalid returns the failing details in input order.
func (r Report) Invalid() []Detail {
	var out []Detail
	for _, d := range r.Details {
		if !d.Valid() {
			out = append(out, d)
		}
	}
	return out
}
