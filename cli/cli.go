// Package cli assembles ChronoTree's cobra command tree: one file per
// command group, wired together in init(), exactly as the teacher
// structures its own command package.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chronotree/chronotree/internal/cas"
	"github.com/chronotree/chronotree/internal/config"
	"github.com/chronotree/chronotree/internal/registry"
)

const chronotreeDir = ".chronotree"

var rootCmd = &cobra.Command{
	Use:   "chronotree",
	Short: "ChronoTree is a convergent, content-addressed post history",
	Long:  `ChronoTree maintains an append-only DAG of immutable posts that converges across replicas without a central ordering authority.`,
}

// Execute runs the root command, exiting the process with status 1 on
// failure, matching the teacher's cli.Execute.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(treesCmd)
	rootCmd.AddCommand(configCmd)
}

// openStorage opens the cas.CAS backend named by backend ("memory",
// "file", or "bolt") rooted at dir. Callers must call the returned
// closer when done; it is a no-op for the memory backend.
func openStorage(dir, backend string) (cas.CAS, func() error, error) {
	switch backend {
	case "", "memory":
		return cas.NewMemoryCAS(), func() error { return nil }, nil
	case "file":
		fc, err := cas.NewFileCAS(filepath.Join(dir, "objects"))
		if err != nil {
			return nil, nil, fmt.Errorf("open file backend: %w", err)
		}
		return fc, func() error { return nil }, nil
	case "bolt":
		bc, err := cas.NewBoltCAS(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt backend: %w", err)
		}
		return bc, bc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want memory, file, or bolt)", backend)
	}
}

// openRegistry opens the tree registry under dir.
func openRegistry(dir string) (*registry.Registry, error) {
	return registry.Open(filepath.Join(dir, "trees"))
}

// repoDir returns the .chronotree directory for the current working
// directory, failing if it does not exist (every command but init
// requires one).
func repoDir() (string, error) {
	dir := chronotreeDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("not in a chronotree repository (no %s directory found; run: chronotree init)", chronotreeDir)
	}
	return dir, nil
}

// backendFromConfig returns backend if non-empty, else the configured
// default, else "memory".
func backendFromConfig(backend string) string {
	if backend != "" {
		return backend
	}
	cfg, err := config.LoadConfig()
	if err != nil || cfg.Core.Backend == "" {
		return "memory"
	}
	return cfg.Core.Backend
}
