package cli

import (
	"fmt"

	"github.com/akolanti/kbcurator/internal/classifier"
	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/inventory"
	"github.com/akolanti/kbcurator/internal/reorganize"
	"github.com/spf13/cobra"
)

func newReorganizeCmd(a *app) *cobra.Command {
	var (
		input, root, report string
		dryRun              bool
	)
	cmd := &cobra.Command{
		Use:   "reorganize",
		Short: "Copy files into the v4 layout described by a mapping artifact",
		Long: `Creates the bucket directory skeleton under --root and copies every mapped file
to its recommended target. Sources are never modified. A name that already
exists at the destination gets _1, _2, ... appended to its stem.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var mapping fileModel.MappingArtifact
			if err := inventory.ReadJSON(input, &mapping); err != nil {
				return err
			}
			if root == "" {
				root = a.cfg.OutputRoot
			}

			dirs := classifier.New(a.cfg.Classifier, a.cfg.Buckets).Directories()
			res, err := reorganize.New(root, dryRun).Run(cmd.Context(), mapping.Mappings, dirs)
			if err != nil {
				return err
			}
			if err := inventory.WriteJSON(report, res); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			title := "Reorganized into " + root
			if dryRun {
				title += " (dry run)"
			}
			st := res.Statistics
			fmt.Fprintln(w, a.styles.header.Render(title))
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("total"), st.TotalFiles)
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("copied"), st.Copied)
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("skipped"), st.Skipped)
			if st.Failed > 0 {
				fmt.Fprintln(w, a.styles.fail.Render(fmt.Sprintf("  %d copies failed, see %s", st.Failed, report)))
			}
			a.styles.counts(w, "By bucket", st.ByBucket)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "mapping.json", "mapping artifact")
	cmd.Flags().StringVar(&root, "root", "", "destination root (default: output_root from the config)")
	cmd.Flags().StringVar(&report, "report", "reorganization_report.json", "report artifact path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count what would be copied without touching the filesystem")
	return cmd
}
