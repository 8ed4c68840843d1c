package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage momoshop-watch configuration file values.",
	Long: `Create, edit, display, and delete the momoshop-watch configuration file.

The configuration stores where the exports live and how they are read:
- data.location, fetch.retry_max, fetch.timeout
- server.port, journal.path, log.level
- classifier.catid_prefix / classifier.fallback / classifier.rules[].keyword+category
- sources[].id / label / list_file / detail_file / format / encoding / fields / join

Every key can be overridden by an environment variable prefixed with MOMOSHOP_,
for example MOMOSHOP_DATA_LOCATION.`,
	Example: `
  # Create default config in $HOME/.momoshop-watch.yaml
  momoshop-watch config create

  # Show active config and source file
  momoshop-watch config show

  # Open active config in editor (creates example if missing)
  momoshop-watch config edit

  # Delete active config file
  momoshop-watch config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
