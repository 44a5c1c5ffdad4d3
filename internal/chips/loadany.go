package chips

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// LoadAny reads a chip file that is either a JSON array or JSON lines. Entries
// that do not parse are salvaged as {"content": <raw text>}.
func LoadAny(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseAny(raw), nil
}

func ParseAny(raw []byte) []map[string]any {
	raw = bytes.TrimSpace(raw)

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		out := make([]map[string]any, 0, len(arr))
		for _, entry := range arr {
			out = append(out, salvage(entry))
		}
		return out
	}

	var out []map[string]any
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil || obj == nil {
			out = append(out, map[string]any{"content": string(line)})
			continue
		}
		out = append(out, obj)
	}
	return out
}

func salvage(entry any) map[string]any {
	switch v := entry.(type) {
	case map[string]any:
		return v
	case string:
		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err == nil && obj != nil {
			return obj
		}
		return map[string]any{"content": v}
	default:
		b, _ := json.Marshal(v)
		return map[string]any{"content": string(b)}
	}
}
