package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCreateForce bool

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Write the example configuration (the same template "config edit" starts from),
declaring the built-in momoshop and shopee sources.

An existing file is kept unless --force is given.`,
	Example: `
  # Create default config at $HOME/.momoshop-watch.yaml
  momoshop-watch config create

  # Reset a custom config to the template
  momoshop-watch --configFile ./watch.yaml config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createConfigFile(configCreateForce)
	},
}

func createConfigFile(force bool) error {
	configPath, err := configTargetPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	written, err := writeExampleConfig(configPath, force)
	if err != nil {
		return err
	}

	switch {
	case written && force:
		fmt.Printf("Config file reset to the example template: %s\n", configPath)
	case written:
		fmt.Printf("New config file created at: %s\n", configPath)
	default:
		fmt.Printf("Config file already exists at: %s (use --force to overwrite)\n", configPath)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file")
}
