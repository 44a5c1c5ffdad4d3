package validator

import (
	"fmt"
	"regexp"

	"github.com/akolanti/kbcurator/internal/config"
)

// Range is a closed interval of rune counts.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Schema describes one version of the chip shape. Nil sets and patterns disable their check.
type Schema struct {
	Name              string
	RequiredKeys      []string
	RequiredSourceDoc []string
	RequiredMetadata  []string
	AllowedTypes      map[string]struct{}
	ChipIDPattern     *regexp.Regexp
	MinContentLength  int
	InsightVector     *Range
	ScoreKeys         []string
	PhaseEnum         map[string]struct{}
	// ShortCircuit stops at the first failing check.
	ShortCircuit bool
}

var (
	KBv6Types = []string{
		"Insight_Chip", "Strategy_Chip", "Tactic_Chip", "Trust_Chip", "Adaptation_Chip",
		"Framework_Chip", "Result_Chip", "Channel_Chip", "Relatability_Chip", "Silver_Bullet_Chip",
		"Tone_Style_Chip", "Microtactic_Chip", "Boundary_Chip", "Crisis_Intervention_Chip",
		"Decision_Framework_Chip", "Accountability_Chip",
	}
	IMessageTypes = []string{
		"Micro_Tactic_Chip", "Tone_Cue_Chip", "Escalation_Pattern_Chip",
		"Message_Template_Chip", "Turnaround_Case_Chip",
	}
	PhaseValues = []string{"FOUNDATION", "BUILDING", "JUNIOR", "SUMMER", "SENIOR"}

	chipIDPattern = regexp.MustCompile(`^W\d{3}-[A-Z]+-\d{3}$`)
)

func set(values ...[]string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, vs := range values {
		for _, v := range vs {
			out[v] = struct{}{}
		}
	}
	return out
}

func Strict() Schema {
	return Schema{
		Name:              config.SchemaStrict,
		RequiredKeys:      []string{"chip_id", "type", "source_doc", "metadata", "content", "insight_vector"},
		RequiredSourceDoc: []string{"week", "filename", "date", "phase"},
		RequiredMetadata:  []string{"participants", "duration"},
		AllowedTypes:      set(KBv6Types, IMessageTypes),
		ChipIDPattern:     chipIDPattern,
		MinContentLength:  50,
		InsightVector:     &Range{Min: 40, Max: 300},
		ScoreKeys:         []string{"quality_score", "confidence_score"},
		PhaseEnum:         set(PhaseValues),
	}
}

func KBv6Compat() Schema {
	s := Strict()
	s.Name = config.SchemaKBv6Compat
	s.AllowedTypes = set(KBv6Types)
	s.MinContentLength = 40
	return s
}

// Legacy is the assess/gameplan generation shape: type checks only, first failure wins.
func Legacy() Schema {
	return Schema{
		Name:             config.SchemaLegacy,
		RequiredKeys:     []string{"chip_id", "type", "source_doc", "metadata", "content"},
		MinContentLength: 50,
		ShortCircuit:     true,
	}
}

func SchemaByName(name string) (Schema, error) {
	switch name {
	case "", config.SchemaStrict:
		return Strict(), nil
	case config.SchemaKBv6Compat:
		return KBv6Compat(), nil
	case config.SchemaLegacy:
		return Legacy(), nil
	default:
		return Schema{}, fmt.Errorf("%w: %q", config.ErrUnknownSchema, name)
	}
}

// FromConfig resolves the named schema and applies the configured overrides.
func FromConfig(cfg config.ValidatorConfig) (Schema, error) {
	s, err := SchemaByName(cfg.Schema)
	if err != nil {
		return Schema{}, err
	}
	if len(cfg.AllowedTypes) > 0 {
		s.AllowedTypes = set(cfg.AllowedTypes)
	}
	if cfg.MinContentLength > 0 {
		s.MinContentLength = cfg.MinContentLength
	}
	return s, nil
}
