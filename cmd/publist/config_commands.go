package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bibsonomy/publist/internal/config"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update the global configuration",
	Long: `Show or update defaults stored in the global config file.

The file lives at ` + "`~/.config/publist/config.yml`" + ` (respecting
XDG_CONFIG_HOME) and provides defaults for render flags.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective global configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Printf("# %s\n%s", config.GlobalConfigPath(), data)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the config file.

Supported keys: user, api_user, style, output_dir, css_class,
public_doc_postfix, option_separator, preview_size, base_url.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}

		updated := *cfg
		if err := setConfigKey(&updated, args[0], args[1]); err != nil {
			exitWithError(ExitUsageError, "%v", err)
		}
		if err := updated.Save(); err != nil {
			return err
		}

		fmt.Printf("set %s = %s\n", args[0], args[1])
		return nil
	},
}

// setConfigKey updates one known field of the configuration.
func setConfigKey(cfg *config.GlobalConfig, key, value string) error {
	switch key {
	case "user":
		cfg.User = value
	case "api_user":
		cfg.APIUser = value
	case "style":
		cfg.Style = value
	case "output_dir":
		cfg.OutputDir = value
	case "css_class":
		cfg.CSSClass = value
	case "public_doc_postfix":
		cfg.PublicDocPostfix = value
	case "option_separator":
		cfg.OptionSeparator = value
	case "preview_size":
		cfg.PreviewSize = value
	case "base_url":
		cfg.BaseURL = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
