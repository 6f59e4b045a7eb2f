package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/listquery/internal/domain/field"
)

func datasetsCmd(root *rootOptions) *cobra.Command {
	var seedDir string

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List datasets and their queryable fields",
		Example: heredoc.Doc(`
			$ listquery datasets
			$ listquery datasets --seed-dir ./data/seed
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seedDir == "" {
				cfg, err := root.loadConfig()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				seedDir = cfg.Datasets.SeedDir
			}
			reg, _, err := loadRegistry(cmd.Context(), seedDir, cliLogger(root))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATASET\tRECORDS\tFIELDS")
			for _, info := range reg.List(cmd.Context()) {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name(), info.Size(), describeFields(info.Fields()))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&seedDir, "seed-dir", "", "Seed fixture directory (overrides config)")
	return cmd
}

// describeFields renders "name:type" pairs, starring searchable fields.
func describeFields(fields []field.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s:%s", f.Name(), f.FieldType())
		if f.Searchable() {
			parts[i] += "*"
		}
	}
	return strings.Join(parts, " ")
}
