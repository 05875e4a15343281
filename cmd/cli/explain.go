package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newExplainCmd() *cobra.Command {
	var flags trainFlags
	var country, format string

	cmd := &cobra.Command{
		Use:   "explain [file]",
		Short: "Print the numerical and linguistic explanation of a dataset",
		Long: `Train a model on the dataset and print both explanations of its latest state.

Formats: markdown (default), html, json (the full bundle).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "markdown", "html", "json":
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			c, err := loadContainer()
			if err != nil {
				return err
			}
			records, err := readRecords(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, c.Sessions.DefaultOptions())
			if err != nil {
				return err
			}

			id := c.Sessions.Create().ID
			if _, err := c.Sessions.LoadDataset(cmd.Context(), id, country, records, opts); err != nil {
				return err
			}
			bundle, err := c.Explain.Explain(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bundle)
			case "html":
				_, err := fmt.Fprintln(out, bundle.Linguistic.HTML)
				return err
			}

			n := bundle.Numerical
			fmt.Fprintf(out, "# Explanation for snapshot %s\n\n", bundle.SnapshotID.Short())
			fmt.Fprintf(out, "## Numerical\n\nTest R² %.3f, MAE %.3f, RMSE %.3f over %d held-out rows.\n\n",
				n.Metrics.Test.R2, n.Metrics.Test.MAE, n.Metrics.Test.RMSE, n.NumTest)
			for i, imp := range n.Importance {
				if i >= 5 {
					break
				}
				fmt.Fprintf(out, "%d. %s (%+.4f)\n", i+1, imp.Feature, imp.Coefficient)
			}
			_, err = fmt.Fprintf(out, "\n## Linguistic\n\n%s\n", bundle.Linguistic.Text)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&country, "country", "", "Market area shown in the insights")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown, html or json")
	return cmd
}
