package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xa0627-sys/momoshop-watch/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a config
file the built-in defaults are shown.`,
	Example: `
  # Show active configuration
  momoshop-watch config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded; showing built-in defaults.")
		}
		fmt.Println("Configuration:")
		printConfig(cmd.OutOrStdout(), cfg)
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "data.location: %s\n", cfg.Data.Location)
	fmt.Fprintf(w, "fetch.retry_max: %d\n", cfg.Fetch.RetryMax)
	fmt.Fprintf(w, "fetch.timeout: %s\n", cfg.Fetch.Timeout)
	fmt.Fprintf(w, "server.port: %d\n", cfg.Server.Port)
	fmt.Fprintf(w, "journal.path: %s\n", cfg.Journal.Path)
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "classifier.catid_prefix: %q\n", cfg.Classifier.CatIDPrefix)
	fmt.Fprintf(w, "classifier.fallback: %s\n", cfg.Classifier.Fallback)
	fmt.Fprintf(w, "classifier.rules: %d\n", len(cfg.Classifier.Rules))
	for i, rule := range cfg.Classifier.Rules {
		fmt.Fprintf(w, "classifier.rules[%d]: %s -> %s\n", i, rule.Keyword, rule.Category)
	}
	fmt.Fprintf(w, "sources: %d\n", len(cfg.Sources))
	for i, source := range cfg.Sources {
		fmt.Fprintf(w, "sources[%d].id: %s\n", i, source.ID)
		fmt.Fprintf(w, "sources[%d].label: %s\n", i, source.Label)
		fmt.Fprintf(w, "sources[%d].list_file: %s\n", i, source.ListFile)
		if source.HasDetail() {
			fmt.Fprintf(w, "sources[%d].detail_file: %s\n", i, source.DetailFile)
			fmt.Fprintf(w, "sources[%d].join: %s by [%s] -> [%s]\n", i,
				source.Join.KeyAttribute, strings.Join(source.Join.Key, ", "), strings.Join(source.Join.Value, ", "))
		}
		fmt.Fprintf(w, "sources[%d].format: %s\n", i, valueOrDefault(source.Format, "csv"))
		fmt.Fprintf(w, "sources[%d].encoding: %s\n", i, valueOrDefault(source.Encoding, "utf-8"))
		fmt.Fprintf(w, "sources[%d].fields.title: [%s]\n", i, strings.Join(source.Fields.Title, ", "))
		fmt.Fprintf(w, "sources[%d].fields.price: [%s]\n", i, strings.Join(source.Fields.Price, ", "))
		fmt.Fprintf(w, "sources[%d].fields.url: [%s]\n", i, strings.Join(source.Fields.URL, ", "))
		fmt.Fprintf(w, "sources[%d].fields.image: [%s]\n", i, strings.Join(source.Fields.Image, ", "))
	}
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback + " (default)"
	}
	return value
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
