/*
Copyright © 2025 xa0627-sys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xa0627-sys/momoshop-watch/config"
	"github.com/xa0627-sys/momoshop-watch/internal/logutil"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "momoshop-watch",
	Short: "Load, classify, and filter e-commerce scraping exports from momoshop and shopee.",
	Long: `
**********************************************
*              MOMOSHOP WATCH                *
**********************************************

This CLI loads the CSV (or Excel) exports produced by browser scrapers for momoshop
and shopee, joins momoshop listings with their detail pages, classifies every product
into a category, and lets you filter the merged catalog by category, source, and keyword.

Exports are read from a local directory or an http(s) base URL (data.location).
Every load attempt is journaled in a local SQLite database; products are never persisted.
`,
	Example: `
  # Create configuration file
  momoshop-watch config create

  # Load all sources once and print a summary
  momoshop-watch load

  # Show watches from momoshop containing "GPS"
  momoshop-watch filter --category 手錶 --source momoshop --keyword gps

  # Serve the catalog as a JSON API
  momoshop-watch serve --port 9090

  # List the last 10 load attempts
  momoshop-watch history --limit 10
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logutil.SetLogLevel(viper.GetString(config.KeyLogLevel))
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.momoshop-watch.yaml, then ./.momoshop-watch.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn, error")
	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".momoshop-watch")
	}

	// MOMOSHOP_DATA_LOCATION overrides data.location and so on.
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using built-in defaults. Create one with: momoshop-watch config create")
	}
}
