package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var printBackend string

var printCmd = &cobra.Command{
	Use:   "print NAME",
	Short: "Print a tree's bitter end and loose ends",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().StringVar(&printBackend, "backend", "", "storage backend: memory, file, or bolt (default from config, else memory)")
}

func runPrint(cmd *cobra.Command, args []string) error {
	name := args[0]

	dir, err := repoDir()
	if err != nil {
		return err
	}
	backend := backendFromConfig(printBackend)

	tree, closer, err := loadTree(dir, backend, name)
	if err != nil {
		return err
	}
	defer closer()

	tree.Print(os.Stdout)
	return nil
}
