package cli

import (
	"fmt"

	"github.com/akolanti/kbcurator/internal/inventory"
	"github.com/spf13/cobra"
)

func newInventoryCmd(a *app) *cobra.Command {
	var (
		output    string
		probeText bool
	)
	cmd := &cobra.Command{
		Use:   "inventory [root...]",
		Short: "Scan directory trees and write the file inventory",
		Long: `Walks every root in lexical order and records one descriptor per non-empty file:
type, status, semantic category, size and, above 100 bytes, a content hash used
to flag duplicates. Roots default to the "roots" list of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				roots = a.cfg.Roots
			}
			if len(roots) == 0 {
				return fmt.Errorf("%w: no roots given and none configured", ErrUsage)
			}

			artifact, err := inventory.NewScanner(roots, probeText).Scan(cmd.Context())
			if err != nil {
				return err
			}
			if err := inventory.WriteJSON(output, artifact); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			st := artifact.Summary
			fmt.Fprintln(w, a.styles.header.Render("Inventory -> "+output))
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("files"), st.TotalFiles)
			fmt.Fprintf(w, "  %s %s\n", a.styles.key.Render("total size"), st.TotalSizeFormatted)
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("duplicates"), st.DuplicatesFound)
			if len(artifact.Errors) > 0 {
				fmt.Fprintln(w, a.styles.warn.Render(fmt.Sprintf("  %d files could not be read", len(artifact.Errors))))
			}
			a.styles.counts(w, "By file type", st.ByFileType)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "inventory.json", "inventory artifact path")
	cmd.Flags().BoolVar(&probeText, "probe-text", false, "extract page counts and text sizes from pdf/docx/odt/rtf/txt")
	return cmd
}
