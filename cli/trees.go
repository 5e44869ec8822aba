package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotree/chronotree/internal/colors"
)

var treesCmd = &cobra.Command{
	Use:   "trees",
	Short: "List registered trees and their bitter ends",
	RunE:  runTrees,
}

func runTrees(cmd *cobra.Command, args []string) error {
	dir, err := repoDir()
	if err != nil {
		return err
	}

	reg, err := openRegistry(dir)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}

	names, err := reg.List()
	if err != nil {
		return fmt.Errorf("list trees: %w", err)
	}

	if len(names) == 0 {
		fmt.Println(colors.Gray("no trees registered"))
		return nil
	}

	for _, name := range names {
		head, err := reg.Get(name)
		if err != nil {
			fmt.Printf("%s %s\n", colors.ErrorText(name), err)
			continue
		}
		fmt.Printf("%s %s\n", colors.InfoText(name), head)
	}
	return nil
}
