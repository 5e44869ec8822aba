package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotree/chronotree/internal/chronotree"
	"github.com/chronotree/chronotree/internal/colors"
)

var (
	mergeFrom    string
	mergeBackend string
)

var mergeCmd = &cobra.Command{
	Use:   "merge NAME [OTHER_HASH]",
	Short: "Fold another bitter end into a tree",
	Long:  `Merges OTHER_HASH (or --from another registered tree's current bitter end) into NAME and updates the registry.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeFrom, "from", "", "name of another registered tree to merge from, instead of a literal hash")
	mergeCmd.Flags().StringVar(&mergeBackend, "backend", "", "storage backend: memory, file, or bolt (default from config, else memory)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	name := args[0]

	dir, err := repoDir()
	if err != nil {
		return err
	}
	backend := backendFromConfig(mergeBackend)

	var other chronotree.Hash
	switch {
	case mergeFrom != "":
		reg, err := openRegistry(dir)
		if err != nil {
			return fmt.Errorf("open registry: %w", err)
		}
		other, err = reg.Get(mergeFrom)
		if err != nil {
			return fmt.Errorf("resolve --from %q: %w", mergeFrom, err)
		}
	case len(args) == 2:
		other, err = parseHashArg(args[1])
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("merge requires either OTHER_HASH or --from NAME")
	}

	tree, closer, err := loadTree(dir, backend, name)
	if err != nil {
		return err
	}
	defer closer()

	tree, err = tree.Merge(other)
	if err != nil {
		return fmt.Errorf("merge into tree %q: %w", name, err)
	}

	reg, err := openRegistry(dir)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	if err := reg.Set(name, tree.BitterEnd()); err != nil {
		return fmt.Errorf("update registry for %q: %w", name, err)
	}

	fmt.Printf("%s bitter end %s\n", colors.SuccessText("merged;"), tree.BitterEnd())
	return nil
}
