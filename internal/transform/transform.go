package transform

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
)

const (
	MicroTactic       = "Micro_Tactic_Chip"
	ToneCue           = "Tone_Cue_Chip"
	EscalationPattern = "Escalation_Pattern_Chip"
	MessageTemplate   = "Message_Template_Chip"
	TurnaroundCase    = "Turnaround_Case_Chip"

	DefaultSituation = "logistics_followup"
)

type keywordSet struct {
	label    string
	keywords []string
}

// typeKeywords is listed in tie-break order.
var typeKeywords = []keywordSet{
	{MessageTemplate, []string{
		"template", "copy-paste", "fill-in", "variable", "subject line", "signature", "boilerplate",
		"hello", "thank you note", "gratitude", "introduction", "cold email", "reach-out",
	}},
	{MicroTactic, []string{
		"script", "reply", "micro-step", "micro tactic", "one-liner", "quick fix", "nudge", "follow-up",
		"check-in", "prompt", "dm", "sms", "text", "template snippet", "cta", "ask", "ping",
	}},
	{ToneCue, []string{
		"tone", "emoji", "calm", "gentle", "reassure", "validation", "empathy", "mirror", "encourage",
		"acknowledge", "permission", "no pressure", "celebrate", "confidence reset", "energy reset",
	}},
	{EscalationPattern, []string{
		"escalate", "if no response", "ladder", "after 24 hours", "after 3 days", "final nudge",
		"escalation", "cc parent", "cc counselor", "forward", "escalation path",
	}},
	{TurnaroundCase, []string{
		"before/after", "turned around", "went from", "immediately improved", "result:", "resolution",
		"fixed", "outcome", "success case", "case study", "transformed",
	}},
}

var situations = []keywordSet{
	{"deadline_crunch", []string{"deadline", "due tonight", "by midnight", "today", "tonight", "urgent", "time crunch", "rush"}},
	{"parent_pushback", []string{"mom", "dad", "parent", "parents", "pushback"}},
	{"confidence_reset", []string{"anxious", "nervous", "overwhelmed", "stressed", "imposter", "i can't", "cap myself", "panic"}},
	{"recommender_outreach", []string{"recommendation", "recommender", "lor", "teacher letter"}},
	{"blocker_unresponsive", []string{"no response", "didn't reply", "unresponsive", "ghosted"}},
	{"time_management", []string{"schedule", "time block", "168-hour", "calendar", "plan my week"}},
	{"scope_creep", []string{"too many", "scope", "reduce", "cut", "drop", "overcommitted"}},
	{"application_clarification", []string{"common app", "activities list", "essay prompt", "supplement", "app question"}},
	{"health_crisis", []string{"sick", "ill", "fever", "covid", "hospital"}},
	{"schedule_conflict", []string{"conflict", "can't attend", "overlap", "double booked"}},
	{"offer_evaluation", []string{"offer", "accept", "decline", "negotiate"}},
	{"scholarship_strategy", []string{"scholarship", "financial aid", "css profile", "fafsa"}},
	{"logistics_followup", []string{"share doc", "link below", "attachment", "pdf", "drive link"}},
	{"essay_block", []string{"stuck", "writer's block", "can't write", "brainstorm"}},
	{"testing_strategy", []string{"sat", "psat", "score", "practice test", "khan academy"}},
	{"interview_prep", []string{"interview", "mock", "prep", "questions"}},
}

var legacyTypes = map[string]string{
	"Tactic_Chip":   MicroTactic,
	"Trust_Chip":    ToneCue,
	"Strategy_Chip": MicroTactic,
	"Result_Chip":   TurnaroundCase,
}

func isNewType(t string) bool {
	for _, ks := range typeKeywords {
		if ks.label == t {
			return true
		}
	}
	return false
}

func firstMatch(text string, sets []keywordSet) (string, bool) {
	lower := strings.ToLower(text)
	for _, ks := range sets {
		for _, k := range ks.keywords {
			if strings.Contains(lower, k) {
				return ks.label, true
			}
		}
	}
	return "", false
}

// InferType picks the iMessage chip type from content keywords. Without a
// keyword hit it keeps a valid fallback or maps a legacy type.
func InferType(content, fallback string) string {
	if t, ok := firstMatch(content, typeKeywords); ok {
		return t
	}
	if isNewType(fallback) {
		return fallback
	}
	if t, ok := legacyTypes[fallback]; ok {
		return t
	}
	return MicroTactic
}

func InferSituation(content string) string {
	if tag, ok := firstMatch(content, situations); ok {
		return tag
	}
	return DefaultSituation
}

func MakeID(originalID, chipType string, idx int) string {
	suffix := fmt.Sprintf("%06d", idx)
	if originalID != "" {
		sum := sha1.Sum([]byte(originalID))
		suffix = hex.EncodeToString(sum[:])[:6]
	}
	return fmt.Sprintf("IMSG-%s-%s", strings.ToUpper(strings.ReplaceAll(chipType, "_", "")), suffix)
}

func str(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := chipModel.StringOr(obj[k], ""); s != "" {
			return s
		}
	}
	return ""
}

// Normalize maps one loose iMessage chip onto the iMessage chip shape. idx is
// the 1-based position across all inputs.
func Normalize(obj map[string]any, idx int) map[string]any {
	chipID := str(obj, "chip_id", "id")
	if chipID == "" {
		chipID = fmt.Sprintf("IMSG-TBD-%06d", idx)
	}
	content := str(obj, "content", "text")
	typeIn := str(obj, "type", "chip_type")
	if typeIn == "" {
		typeIn = MicroTactic
	}
	newType := InferType(content, typeIn)

	sd, _ := obj["source_doc"].(map[string]any)
	if sd == nil {
		sd = map[string]any{}
	}
	week := firstNonEmpty(str(sd, "week"), str(obj, "week", "week_range"), config.ImessageFallbackWeekPhase)
	phase := firstNonEmpty(str(sd, "phase"), str(obj, "phase"), config.ImessageFallbackWeekPhase)
	situation := firstNonEmpty(str(obj, "situation_tag"), InferSituation(content))

	meta := map[string]any{}
	if m, ok := obj["metadata"].(map[string]any); ok {
		for k, v := range m {
			meta[k] = v
		}
	}
	meta["chip_family"] = config.DefaultChipFamily
	meta["original_chip_id"] = chipID
	meta["situation_tag"] = situation
	for _, k := range []string{"quality_score", "confidence_score"} {
		if _, ok := meta[k]; !ok {
			meta[k] = 0.9
		}
	}

	filename, ok := sd["filename"]
	if !ok {
		filename = firstNonEmpty(str(obj, "filename"), "iMessage")
	}
	date, ok := sd["date"]
	if !ok {
		date = str(obj, "date")
	}

	return map[string]any{
		"chip_id": MakeID(chipID, newType, idx),
		"type":    newType,
		"source_doc": map[string]any{
			"week":     week,
			"phase":    phase,
			"filename": filename,
			"date":     date,
		},
		"metadata": meta,
		"content":  strings.TrimSpace(content),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NormalizeAll normalizes every chip with a running 1-based index.
func NormalizeAll(objs []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(objs))
	for i, o := range objs {
		out = append(out, Normalize(o, i+1))
	}
	return out
}
