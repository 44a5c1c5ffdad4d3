package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/akolanti/kbcurator/internal/chips"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/domain/commonModels"
	"github.com/akolanti/kbcurator/internal/inventory"
	"github.com/akolanti/kbcurator/internal/probe"
	"github.com/spf13/cobra"
)

const (
	modeLexical = "lexical"
	modeVector  = "vector"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		mode, namespace, provider, output string
		threshold                         float64
		topK                              int
	)
	cmd := &cobra.Command{
		Use:   "probe <probes.json|yaml> <chips.jsonl>...",
		Short: "Run precision probes and gate on the top-1 score",
		Long: `Scores every probe query against the chips and keeps the top K. A query fails
when its best score is below --threshold; any failure exits 1.
Lexical mode uses token Jaccard similarity over content and insight_vector.
Vector mode embeds the query and searches --namespace instead, so chip files
are optional there.`,
		Args: func(cmd *cobra.Command, args []string) error {
			need := 2
			if mode == modeVector {
				need = 1
			}
			if len(args) < need {
				return fmt.Errorf("%w: probe needs a probe file and at least one chip file", ErrUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := probe.LoadFile(args[0])
			if err != nil {
				return err
			}

			var res probe.Result
			switch mode {
			case modeLexical:
				loaded, err := chips.LoadChips(args[1:])
				if err != nil {
					return err
				}
				res = probe.Run(file.Queries, loaded, topK, threshold)
			case modeVector:
				if namespace == "" {
					return fmt.Errorf("%w: --mode vector needs --namespace", ErrUsage)
				}
				svc, err := a.ragService(cmd.Context(), provider, false)
				if err != nil {
					return err
				}
				search := func(ctx context.Context, text string, k int) ([]commonModels.SearchHit, error) {
					return svc.SearchChips(ctx, namespace, text, k)
				}
				res, err = probe.RunWith(cmd.Context(), modeVector, file.Queries, search, topK, threshold)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: unknown mode %q", ErrUsage, mode)
			}

			if output != "" {
				if err := inventory.WriteJSON(output, res); err != nil {
					return err
				}
			}
			printProbe(cmd.OutOrStdout(), a.styles, res)
			if !res.Passed() {
				return ErrGateFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", modeLexical, "lexical or vector")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace searched in vector mode")
	cmd.Flags().StringVar(&provider, "provider", "", "embedding provider for vector mode (default from config)")
	cmd.Flags().Float64Var(&threshold, "threshold", config.ProbeDefaultThreshold, "minimum top-1 score per query")
	cmd.Flags().IntVar(&topK, "top-k", config.ProbeTopK, "hits kept per query")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the result as JSON")
	return cmd
}

func printProbe(w io.Writer, s styles, res probe.Result) {
	if res.Mode == modeLexical {
		fmt.Fprintf(w, "Loaded %d chips.\n", res.Chips)
	}
	for _, q := range res.Queries {
		fmt.Fprintf(w, "\n%s %s\n", s.header.Render("Query:"), q.Text)
		for rank, hit := range q.Top {
			fmt.Fprintf(w, "  %d. %s %s score=%.3f\n", rank+1, hit.ChipID, s.dim.Render("["+hit.Type+"]"), hit.Score)
		}
	}
	fmt.Fprintf(w, "\nGate: top1 >= %.2f\n", res.Threshold)
	if !res.Passed() {
		fmt.Fprintln(w, s.verdict(false), "failed queries:", strings.Join(res.Failed, ", "))
		return
	}
	fmt.Fprintln(w, s.verdict(true))
}
