package cli

import (
	"fmt"

	"github.com/akolanti/kbcurator/internal/chips"
	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/internal/rag/ingest"
	"github.com/spf13/cobra"
)

func newEmbedCmd(a *app) *cobra.Command {
	var (
		inputs   []string
		opts     ingest.Options
		provider string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed chips and upsert them into a vector index namespace",
		Long: `Embeds every chip of the input files and upserts one vector per chip_id into the
namespace, in batches of 100. --overwrite clears the namespace first; a failed
clear is logged and the upsert continues. --dry-run touches no network.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(inputs) == 0 || opts.Namespace == "" {
				return fmt.Errorf("%w: --input and --namespace are required", ErrUsage)
			}
			loaded, err := chips.LoadChips(inputs)
			if err != nil {
				return err
			}

			svc, err := a.ragService(cmd.Context(), provider, dryRun)
			if err != nil {
				return err
			}
			res, err := svc.EmbedChips(cmd.Context(), opts, loaded)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			title := fmt.Sprintf("Upserted %d/%d chips into %s", res.Upserted, res.Chips, res.Namespace)
			if dryRun {
				title += " (dry run)"
			}
			fmt.Fprintln(w, a.styles.header.Render(title))
			fmt.Fprintf(w, "  %s %s (%d)\n", a.styles.key.Render("model"), res.Model, res.Dimension)
			fmt.Fprintf(w, "  %s %s\n", a.styles.key.Render("family"), res.Family)
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("batches"), res.Batches)
			if opts.Overwrite && !res.Cleared {
				fmt.Fprintln(w, a.styles.warn.Render("  namespace could not be cleared, existing vectors were kept"))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "chip JSONL files")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "target namespace (collection)")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "clear the namespace before upserting")
	cmd.Flags().StringVar(&opts.Family, "family", config.DefaultChipFamily, "chip_family payload tag")
	cmd.Flags().BoolVar(&opts.WithInsight, "with-insight", false, "append insight_vector to the embedded text")
	cmd.Flags().StringVar(&provider, "provider", "", "openai, google or dryrun (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "hash embeddings and a logging index, no network")
	return cmd
}
