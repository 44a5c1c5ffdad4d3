package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/akolanti/kbcurator/internal/chips"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/inventory"
	"github.com/akolanti/kbcurator/internal/validator"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/spf13/cobra"
)

const shownIssues = 10

var defaultBatches = []string{"sessions=sessions/*.jsonl", "iMessage=iMessage/*.jsonl"}

type batchSpec struct {
	name    string
	pattern string
}

func parseBatches(specs []string) ([]batchSpec, error) {
	out := make([]batchSpec, 0, len(specs))
	for _, s := range specs {
		name, pattern, ok := strings.Cut(s, "=")
		if !ok || name == "" || pattern == "" {
			return nil, fmt.Errorf("%w: batch %q must look like name=glob", ErrUsage, s)
		}
		out = append(out, batchSpec{name: name, pattern: pattern})
	}
	return out, nil
}

type validateRun struct {
	root    string
	files   []string
	batches []batchSpec
	schema  validator.Schema
	workers int
}

// readBatch reads every file of one batch. An unreadable file becomes a
// single failing record so the run still completes.
func readBatch(name string, files []string) validator.NamedBatch {
	b := validator.NamedBatch{Name: name, Source: strings.Join(files, ",")}
	for _, f := range files {
		recs, err := chips.ReadJSONL(f)
		if err != nil {
			recs = append(recs, chipModel.Record{File: f, ParseError: err.Error()})
		}
		b.Records = append(b.Records, recs...)
	}
	return b
}

func (r validateRun) collect() ([]validator.NamedBatch, chipModel.Scanned, error) {
	scanned := chipModel.Scanned{Root: r.root, Batches: map[string]string{}}
	if len(r.files) > 0 {
		batches := make([]validator.NamedBatch, 0, len(r.files))
		for _, f := range r.files {
			name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
			batches = append(batches, readBatch(name, []string{f}))
			scanned.Files = append(scanned.Files, f)
		}
		return batches, scanned, nil
	}

	batches := make([]validator.NamedBatch, 0, len(r.batches))
	for _, b := range r.batches {
		files, err := chips.CollectGlob(r.root, b.pattern)
		if err != nil {
			return nil, scanned, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		batches = append(batches, readBatch(b.name, files))
		scanned.Batches[b.name] = b.pattern
		scanned.Files = append(scanned.Files, files...)
	}
	return batches, scanned, nil
}

func (r validateRun) run(ctx context.Context) (chipModel.Report, error) {
	batches, scanned, err := r.collect()
	if err != nil {
		return chipModel.Report{}, err
	}
	report, err := validator.New(r.schema, r.workers).Run(ctx, batches)
	if err != nil {
		return report, err
	}
	report.Scanned = scanned
	return report, nil
}

func printReport(w io.Writer, s styles, out string, report chipModel.Report) {
	fmt.Fprintln(w, s.header.Render(fmt.Sprintf("Validator report (%s) -> %s", report.Schema, out)))
	fmt.Fprintf(w, "  %s %d\n", s.key.Render("total"), report.Summary.Total)
	fmt.Fprintf(w, "  %s %d\n", s.key.Render("valid"), report.Summary.Valid)
	fmt.Fprintf(w, "  %s %d\n", s.key.Render("invalid"), report.Summary.Invalid)
	s.counts(w, "By batch", report.Summary.ByBatch)

	invalid := report.Invalid()
	if len(invalid) == 0 {
		fmt.Fprintln(w, s.verdict(true), "all chips passed validation")
		return
	}
	fmt.Fprintf(w, "\nFirst %d issues:\n", min(shownIssues, len(invalid)))
	for _, d := range invalid[:min(shownIssues, len(invalid))] {
		id := d.ChipID
		if id == "" {
			id = fmt.Sprintf("line %d", d.Line)
		}
		fmt.Fprintf(w, "- %s in %s: %s\n", id, s.dim.Render(filepath.Base(d.File)), strings.Join(d.Errors, "; "))
	}
	fmt.Fprintln(w, s.verdict(false), fmt.Sprintf("%d of %d chips failed", report.Summary.Invalid, report.Summary.Total))
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		root, schemaName, output string
		batchFlags               []string
		watch                    bool
	)
	cmd := &cobra.Command{
		Use:   "validate [file.jsonl...]",
		Short: "Validate chip files against a chip schema",
		Long: `Validates JSON-lines chip files. With file arguments each file is its own batch;
otherwise every --batch name=glob is collected under --root. Duplicate chip ids
are detected across every batch of the run. Exits 1 when any record is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vcfg := a.cfg.Validator
			if schemaName != "" {
				vcfg.Schema = schemaName
			}
			schema, err := validator.FromConfig(vcfg)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			specs, err := parseBatches(batchFlags)
			if err != nil {
				return err
			}
			r := validateRun{root: root, files: args, batches: specs, schema: schema, workers: vcfg.Workers}

			once := func(ctx context.Context) (bool, error) {
				report, err := r.run(ctx)
				if err != nil {
					return false, err
				}
				if err := inventory.WriteJSON(output, report); err != nil {
					return false, err
				}
				printReport(cmd.OutOrStdout(), a.styles, output, report)
				return report.Passed(), nil
			}

			passed, err := once(cmd.Context())
			if err != nil {
				return err
			}
			if !watch {
				if !passed {
					return ErrValidationFailed
				}
				return nil
			}

			dirs := chips.WatchDirs(root, patterns(specs))
			if len(args) > 0 {
				dirs = fileDirs(args)
			}
			log := logger_i.NewLogger("validate")
			return chips.Watch(cmd.Context(), dirs, config.WatchDebounce, func(ctx context.Context) {
				if _, err := once(ctx); err != nil {
					log.Error("validation run failed", "error", err)
				}
			})
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "root the batch globs are relative to")
	cmd.Flags().StringArrayVar(&batchFlags, "batch", defaultBatches, "batch as name=glob, repeatable")
	cmd.Flags().StringVar(&schemaName, "schema", "", "strict, kbv6-compat or legacy (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "validation_report.json", "report artifact path")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever a .jsonl file under the watched directories changes")
	return cmd
}

func patterns(specs []batchSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.pattern
	}
	return out
}

func fileDirs(files []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range files {
		d := filepath.Dir(f)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
