package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chronotree/chronotree/internal/chronotree"
	"github.com/chronotree/chronotree/internal/colors"
)

var (
	initHead    string
	initName    string
	initBackend string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a ChronoTree repository",
	Long:  `Creates the .chronotree directory and registers a new tree, either empty or attached to an existing bitter end.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initHead, "head", "", "attach to an existing bitter-end hash instead of starting empty")
	initCmd.Flags().StringVar(&initName, "name", "main", "name of the tree to register")
	initCmd.Flags().StringVar(&initBackend, "backend", "", "storage backend: memory, file, or bolt (default from config, else memory)")
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(chronotreeDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", chronotreeDir, err)
	}

	backend := backendFromConfig(initBackend)
	store, closer, err := openStorage(chronotreeDir, backend)
	if err != nil {
		return err
	}
	defer closer()

	storage := chronotree.NewNodeStorage(store)

	var head *chronotree.Hash
	if initHead != "" {
		h, err := parseHashArg(initHead)
		if err != nil {
			return err
		}
		head = &h
	}

	tree, err := chronotree.New(storage, head, initName)
	if err != nil {
		return fmt.Errorf("initialize tree %q: %w", initName, err)
	}

	reg, err := openRegistry(chronotreeDir)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	if err := reg.Set(initName, tree.BitterEnd()); err != nil {
		return fmt.Errorf("register tree %q: %w", initName, err)
	}

	fmt.Printf("%s tree %s, bitter end %s (backend: %s)\n",
		colors.SuccessText("initialized"), colors.InfoText(initName), tree.BitterEnd(), backend)
	return nil
}
