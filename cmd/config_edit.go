package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xa0627-sys/momoshop-watch/config"
)

const defaultConfigName = ".momoshop-watch.yaml"

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the active config in an editor.",
	Long: `Open the active momoshop-watch config file in your editor.

Editor selection order:
1) $VISUAL
2) $EDITOR
3) vi

If no config file exists yet, the example template is written first. After the
editor exits, the file is validated, including the source declarations and
their join settings.`,
	Example: `
  # Edit active config
  momoshop-watch config edit

  # Edit with a specific editor
  EDITOR="code --wait" momoshop-watch config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := configTargetPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		created, err := writeExampleConfig(configPath, false)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No config file found. Created example config at: %s\n", configPath)
		}

		editor, err := editorCommand(os.Getenv, configPath)
		if err != nil {
			return err
		}
		editor.Stdin = os.Stdin
		editor.Stdout = os.Stdout
		editor.Stderr = os.Stderr
		if err := editor.Run(); err != nil {
			return fmt.Errorf("opening editor failed: %w", err)
		}

		if err := validateConfigFile(configPath); err != nil {
			return err
		}

		fmt.Printf("Configuration saved and validated: %s\n", configPath)
		return nil
	},
}

// configTargetPath picks the --configFile flag, then the file viper loaded,
// then $HOME/.momoshop-watch.yaml.
func configTargetPath(flagPath, usedPath string) (string, error) {
	for _, candidate := range []string{flagPath, usedPath} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigName), nil
}

// writeExampleConfig writes the example template to path. An existing file is
// left untouched unless overwrite is set; the result reports whether a file was written.
func writeExampleConfig(path string, overwrite bool) (bool, error) {
	if !overwrite {
		switch _, err := os.Stat(path); {
		case err == nil:
			return false, nil
		case !os.IsNotExist(err):
			return false, fmt.Errorf("checking config file failed: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory failed: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleYAML()), 0o600); err != nil {
		return false, fmt.Errorf("writing example config failed: %w", err)
	}
	return true, nil
}

func validateConfigFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config failed: %w", err)
	}
	if _, err := config.ValidateYAMLContent(content); err != nil {
		return fmt.Errorf("config validation failed in %s: %w", path, err)
	}
	return nil
}

// editorCommand builds the editor invocation from $VISUAL or $EDITOR, falling
// back to vi. Editor values may carry arguments, e.g. "code --wait".
func editorCommand(getenv func(string) string, configPath string) (*exec.Cmd, error) {
	value := "vi"
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			value = v
			break
		}
	}

	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return exec.Command(fields[0], append(fields[1:], configPath)...), nil
}

func init() {
	configCmd.AddCommand(configEditCmd)
}
