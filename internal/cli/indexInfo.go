package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexInfoCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "index-info",
		Short: "Describe the vector index: namespaces, vector counts and sizes",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.describeService(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := svc.DescribeIndex(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal index stats: %w", err)
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			fmt.Fprintln(w, a.styles.header.Render("Index "+stats.Host))
			fmt.Fprintf(w, "  %s %d\n", a.styles.key.Render("total vectors"), stats.TotalCount)
			for _, ns := range stats.Namespaces {
				fmt.Fprintf(w, "  %s %d vectors, dim %d %s\n",
					a.styles.key.Render(ns.Name), ns.VectorCount, ns.Dimension, a.styles.dim.Render(ns.Status))
			}
			for _, name := range stats.Unavailable {
				fmt.Fprintf(w, "  %s %s\n", a.styles.key.Render(name), a.styles.warn.Render("unavailable"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw stats as JSON")
	return cmd
}
