package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/statemint-dev/statemint/internal/classify"
	"github.com/statemint-dev/statemint/internal/config"
)

func newInitCommand() *cobra.Command {
	var owner string
	var region string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new statemint project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, owner, region)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&region, "region", "IN", "region code")

	return cmd
}

func runInit(dir, owner, region string) error {
	// Create directory structure.
	dirs := []string{
		"rules",
		"formats",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write statemint.yaml.
	cfg := config.Default(owner, region)
	if err := config.Save(filepath.Join(dir, "statemint.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the built-in classification rules so users can edit them.
	rulesPath := filepath.Join(dir, filepath.FromSlash(cfg.Rules.Path))
	if err := classify.SaveRules(rulesPath, classify.DefaultRules()); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Write .gitignore.
	gitignore := "logs/\nimport/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized statemint project at %s\n", dir)
	return nil
}
