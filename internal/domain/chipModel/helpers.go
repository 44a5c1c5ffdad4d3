package chipModel

import (
	"encoding/json"
	"fmt"
	"strconv"
)

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// StringOr renders v as a string, or returns fallback when v is missing or empty.
func StringOr(v any, fallback string) string {
	s := stringify(v)
	if s == "" {
		return fallback
	}
	return s
}
