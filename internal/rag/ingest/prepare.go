package ingest

import (
	"strings"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
)

// PrepareVectors builds one index entry per chip. Vectors are filled in by BatchIngest.
func PrepareVectors(chips []chipModel.Chip, family string, withInsight bool) []commonModels.ChipVector {
	fallback := ""
	if family == config.DefaultChipFamily {
		fallback = config.ImessageFallbackWeekPhase
	}

	out := make([]commonModels.ChipVector, 0, len(chips))
	for _, c := range chips {
		payload := make(map[string]any, len(c.Metadata)+8)
		for k, v := range c.Metadata {
			payload[k] = v
		}
		payload["chip_family"] = family
		payload["type"] = c.Type
		payload["situation_tag"] = chipModel.StringOr(c.Metadata["situation_tag"], "")
		payload["week"] = chipModel.StringOr(c.SourceDoc["week"], fallback)
		payload["phase"] = chipModel.StringOr(c.SourceDoc["phase"], fallback)
		payload["filename"] = chipModel.StringOr(c.SourceDoc["filename"], "")
		payload["chip_id"] = c.ChipID
		payload["content"] = c.Content

		out = append(out, commonModels.ChipVector{
			ChipID:  c.ChipID,
			Text:    embeddingText(c, withInsight),
			Payload: payload,
		})
	}
	return out
}

func embeddingText(c chipModel.Chip, withInsight bool) string {
	if !withInsight || c.InsightVector == "" {
		return c.Content
	}
	return strings.TrimSpace(c.Content + " " + c.InsightVector)
}
