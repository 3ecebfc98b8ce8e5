package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newFormatsCommand() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List known statement formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(projectDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			reg, err := loadFormats(absDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range reg.All() {
				currency := d.Currency
				if currency == "" {
					currency = "-"
				}
				fmt.Fprintf(out, "%-12s  %-2s  %-3s  %s\n", d.Name, d.Region, currency, d.DateOrder)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectDir, "dir", ".", "project directory")

	return cmd
}
