package cli

import (
	"fmt"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/akolanti/kbcurator/internal/inventory"
	"github.com/spf13/cobra"
)

func newClassifyCmd(a *app) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Map every inventoried file to its v4 bucket and target path",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var inv fileModel.InventoryArtifact
			if err := inventory.ReadJSON(input, &inv); err != nil {
				return err
			}

			mapping, err := a.curationService().Classify(cmd.Context(), inv.Files)
			if err != nil {
				return err
			}
			if err := inventory.WriteJSON(output, mapping); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, a.styles.header.Render("Mapping -> "+output))
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("classified"), mapping.Summary.TotalFilesClassified)
			a.styles.counts(w, "By bucket", mapping.Summary.ByBucket)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "inventory.json", "inventory artifact to classify")
	cmd.Flags().StringVarP(&output, "output", "o", "mapping.json", "mapping artifact path")
	return cmd
}
