package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

type Validator struct {
	schema  Schema
	workers int
	log     *logger_i.Logger
}

// NamedBatch is a group of records reported under one batch name.
type NamedBatch struct {
	Name    string
	Source  string
	Records []chipModel.Record
}

func New(schema Schema, workers int) *Validator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Validator{
		schema:  schema,
		workers: workers,
		log:     logger_i.NewLogger("validator"),
	}
}

func (v *Validator) Schema() Schema {
	return v.schema
}

// Validate runs the shape checks on a single record. It never looks at other records.
func (v *Validator) Validate(rec chipModel.Record) []string {
	if rec.ParseError != "" {
		return []string{rec.ParseError}
	}
	c := checker{schema: v.schema, fields: rec.Fields}
	c.run()
	return c.errs
}

type checker struct {
	schema Schema
	fields map[string]any
	errs   []string
}

func (c *checker) fail(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

func (c *checker) stop() bool {
	return c.schema.ShortCircuit && len(c.errs) > 0
}

func (c *checker) run() {
	steps := []func(){
		c.checkMissing,
		c.checkChipID,
		c.checkType,
		c.checkTypeAllowed,
		c.checkChipIDPattern,
		func() { c.checkObject("source_doc", c.schema.RequiredSourceDoc) },
		func() { c.checkObject("metadata", c.schema.RequiredMetadata) },
		c.checkScores,
		c.checkPhase,
		c.checkContent,
		c.checkInsight,
	}
	for _, step := range steps {
		step()
		if c.stop() {
			return
		}
	}
}

func (c *checker) checkMissing() {
	var missing []string
	for _, k := range c.schema.RequiredKeys {
		if _, ok := c.fields[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.fail("Missing top-level keys: [%s]", strings.Join(missing, " "))
	}
}

func (c *checker) checkChipID() {
	raw, ok := c.fields["chip_id"]
	if !ok {
		return
	}
	if id, isString := raw.(string); !isString || id == "" {
		c.fail("chip_id must be a non-empty string")
	}
}

func (c *checker) checkType() {
	raw, ok := c.fields["type"]
	if !ok {
		return
	}
	if _, isString := raw.(string); !isString {
		c.fail("type must be a string")
	}
}

func (c *checker) checkTypeAllowed() {
	if c.schema.AllowedTypes == nil {
		return
	}
	t, ok := c.fields["type"].(string)
	if !ok {
		return
	}
	if _, allowed := c.schema.AllowedTypes[t]; !allowed {
		c.fail("Invalid type: %s", t)
	}
}

func (c *checker) checkChipIDPattern() {
	if c.schema.ChipIDPattern == nil {
		return
	}
	id, ok := c.fields["chip_id"].(string)
	if !ok || id == "" {
		return
	}
	if !c.schema.ChipIDPattern.MatchString(id) {
		c.fail("chip_id '%s' should match pattern W###-SECTION-###", id)
	}
}

func (c *checker) checkObject(key string, required []string) {
	raw, ok := c.fields[key]
	if !ok {
		return
	}
	obj, isObject := raw.(map[string]any)
	if !isObject {
		c.fail("%s must be an object", key)
		return
	}
	var missing []string
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.fail("%s missing keys: [%s]", key, strings.Join(missing, " "))
	}
}

func (c *checker) metadata() map[string]any {
	md, _ := c.fields["metadata"].(map[string]any)
	return md
}

func (c *checker) checkScores() {
	md := c.metadata()
	for _, key := range c.schema.ScoreKeys {
		raw, ok := md[key]
		if !ok {
			continue
		}
		score, isNumber := number(raw)
		if !isNumber || score < 0 || score > 1 {
			c.fail("%s must be 0-1", key)
		}
	}
}

func (c *checker) checkPhase() {
	if c.schema.PhaseEnum == nil {
		return
	}
	raw, ok := c.metadata()["phase_enum"]
	if !ok {
		return
	}
	s, isString := raw.(string)
	if _, valid := c.schema.PhaseEnum[s]; !isString || !valid {
		c.fail("phase_enum '%v' invalid", raw)
	}
}

func (c *checker) checkContent() {
	raw, ok := c.fields["content"]
	if !ok {
		return
	}
	s, isString := raw.(string)
	if !isString || utf8.RuneCountInString(strings.TrimSpace(s)) < c.schema.MinContentLength {
		c.fail("content should be >=%d chars", c.schema.MinContentLength)
	}
}

func (c *checker) checkInsight() {
	if c.schema.InsightVector == nil {
		return
	}
	raw, ok := c.fields["insight_vector"]
	if !ok {
		return
	}
	s, isString := raw.(string)
	if !isString || !c.schema.InsightVector.Contains(utf8.RuneCountInString(s)) {
		c.fail("insight_vector %d-%d chars", c.schema.InsightVector.Min, c.schema.InsightVector.Max)
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Run validates every record of every batch. Shape checks run in parallel;
// duplicate detection then walks the records serially in input order, so the
// first occurrence of an id is always the one left unflagged.
func (v *Validator) Run(ctx context.Context, batches []NamedBatch) (chipModel.Report, error) {
	type slot struct {
		batch string
		rec   chipModel.Record
	}
	var slots []slot
	for _, b := range batches {
		for _, r := range b.Records {
			slots = append(slots, slot{batch: b.Name, rec: r})
		}
	}

	errs := make([][]string, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i := range slots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs[i] = v.Validate(slots[i].rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return chipModel.Report{}, fmt.Errorf("validation cancelled: %w", err)
	}

	tracker := NewBatch()
	report := chipModel.Report{
		Schema: v.schema.Name,
		Summary: chipModel.Summary{
			ByBatch: map[string]int{},
		},
		Details: make([]chipModel.Detail, 0, len(slots)),
	}
	// empty batches still show up in the summary
	for _, b := range batches {
		report.Summary.ByBatch[b.Name] = 0
	}
	for i, s := range slots {
		recErrs := errs[i]
		if dup, isDup := tracker.Observe(s.rec.ChipID(), s.rec.File); isDup {
			recErrs = append(recErrs, dup)
		}
		if recErrs == nil {
			recErrs = []string{}
		}
		report.Summary.Total++
		report.Summary.ByBatch[s.batch]++
		if len(recErrs) == 0 {
			report.Summary.Valid++
		} else {
			report.Summary.Invalid++
		}
		report.Details = append(report.Details, chipModel.Detail{
			File:   s.rec.File,
			Line:   s.rec.Line,
			Batch:  s.batch,
			ChipID: s.rec.ChipID(),
			Type:   s.rec.Type(),
			Errors: recErrs,
		})
	}

	v.log.Debug("validation run complete",
		"schema", v.schema.Name,
		"total", report.Summary.Total,
		"invalid", report.Summary.Invalid)
	return report, nil
}
