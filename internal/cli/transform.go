package cli

import (
	"fmt"

	"github.com/akolanti/kbcurator/internal/chips"
	"github.com/akolanti/kbcurator/internal/domain/chipModel"
	"github.com/akolanti/kbcurator/internal/transform"
	"github.com/spf13/cobra"
)

func newTransformCmd(a *app) *cobra.Command {
	var (
		inputs []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "transform-imsg",
		Short: "Normalize iMessage chips to the v3 schema",
		Long: `Reads iMessage chip files (JSON arrays or JSON lines), infers each chip's type and
situation tag from its content, assigns IMSG-<TYPE>-<hash> ids and fills the
source_doc and metadata defaults. Writes one JSON line per chip.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var objs []map[string]any
			for _, in := range inputs {
				loaded, err := chips.LoadAny(in)
				if err != nil {
					return err
				}
				objs = append(objs, loaded...)
			}

			normalized := transform.NormalizeAll(objs)
			if err := chips.WriteJSONL(output, normalized); err != nil {
				return err
			}

			byType := map[string]int{}
			for _, o := range normalized {
				byType[chipModel.StringOr(o["type"], "unknown")]++
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, a.styles.header.Render(fmt.Sprintf("Transformed %d chips -> %s", len(normalized), output)))
			a.styles.counts(w, "By type", byType)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "iMessage chip files (JSON or JSONL)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSONL path")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
