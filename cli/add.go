package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotree/chronotree/internal/chronotree"
	"github.com/chronotree/chronotree/internal/colors"
	"github.com/chronotree/chronotree/internal/config"
)

var (
	addPayload string
	addParent  string
	addBackend string
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Append a post to a tree",
	Long:  `Builds a Content node from --payload, appends it to NAME's history, and updates the registry with the new bitter end.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPayload, "payload", "", "post content (required)")
	addCmd.Flags().StringVar(&addParent, "parent", "", "hash of the post this one replies to, if any")
	addCmd.Flags().StringVar(&addBackend, "backend", "", "storage backend: memory, file, or bolt (default from config, else memory)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if addPayload == "" {
		return fmt.Errorf("--payload is required")
	}

	dir, err := repoDir()
	if err != nil {
		return err
	}
	backend := backendFromConfig(addBackend)

	tree, closer, err := loadTree(dir, backend, name)
	if err != nil {
		return err
	}
	defer closer()

	var parent chronotree.Hash
	if addParent != "" {
		parent, err = parseHashArg(addParent)
		if err != nil {
			return err
		}
	}

	node := chronotree.NewContent(parent, []byte(envelope(addPayload)))

	tree, err = tree.Add(node)
	if err != nil {
		return fmt.Errorf("add to tree %q: %w", name, err)
	}

	reg, err := openRegistry(dir)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	if err := reg.Set(name, tree.BitterEnd()); err != nil {
		return fmt.Errorf("update registry for %q: %w", name, err)
	}

	fmt.Printf("%s bitter end %s\n", colors.SuccessText("added;"), tree.BitterEnd())
	return nil
}

// envelope prepends the configured author, if any, to payload for
// display purposes. The engine never inspects Payload's structure, so
// this is a CLI-only convention.
func envelope(payload string) string {
	author, err := config.GetAuthor()
	if err != nil {
		return payload
	}
	return fmt.Sprintf("%s: %s", author, payload)
}
