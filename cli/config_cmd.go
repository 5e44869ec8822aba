package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronotree/chronotree/internal/colors"
	"github.com/chronotree/chronotree/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [get|set] KEY [VALUE]",
	Short: "Get and set configuration options",
	Long: `Get and set ChronoTree configuration options.

Configuration can be set at two levels:
- Global (~/.chronotreeconfig) - applies to all repositories
- Repository (.chronotree/config) - applies to current repository only

Examples:
  chronotree config get user.name
  chronotree config set user.name "Your Name"
  chronotree config set --global user.name "Your Name"
  chronotree config --list`,
	RunE: runConfig,
}

var (
	configGlobal bool
	configList   bool
)

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config file")
	configCmd.Flags().BoolVar(&configList, "list", false, "list all configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configList {
		return listConfig()
	}

	if len(args) == 0 {
		return fmt.Errorf("usage: chronotree config [get|set] KEY [VALUE], or chronotree config --list")
	}

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: chronotree config get KEY")
		}
		return getConfigValue(args[1])
	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: chronotree config set KEY VALUE")
		}
		return setConfigValue(args[1], args[2], configGlobal)
	default:
		// Bare "chronotree config KEY" is treated as a get, matching
		// the teacher's shorthand.
		if len(args) == 1 {
			return getConfigValue(args[0])
		}
		return fmt.Errorf("unknown config subcommand %q (want get or set)", args[0])
	}
}

func listConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println(colors.SectionHeader("User Configuration:"))
	printSetting("user.name", cfg.User.Name)
	printSetting("user.email", cfg.User.Email)

	fmt.Println()
	fmt.Println(colors.SectionHeader("Core Configuration:"))
	printSetting("core.backend", cfg.Core.Backend)

	fmt.Println()
	fmt.Println(colors.SectionHeader("Color Configuration:"))
	fmt.Printf("  color.ui = %s\n", colors.InfoText(fmt.Sprintf("%t", cfg.Color.UI)))

	return nil
}

func printSetting(key, value string) {
	if value != "" {
		fmt.Printf("  %s = %s\n", key, colors.InfoText(value))
	} else {
		fmt.Printf("  %s = %s\n", key, colors.Gray("(not set)"))
	}
}

func getConfigValue(key string) error {
	value, err := config.GetValue(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s is %s\n", key, colors.Gray("(not set)"))
	} else {
		fmt.Println(value)
	}
	return nil
}

func setConfigValue(key, value string, global bool) error {
	if err := config.SetValue(key, value, global); err != nil {
		return err
	}

	scope := "repository"
	if global {
		scope = "global"
	}

	fmt.Printf("%s %s config: %s = %s\n",
		colors.SuccessText("set"), scope, colors.Bold(key), colors.InfoText(value))
	return nil
}
