package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/existflow/issuegantt/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
	Long: `Show the effective configuration or write a starter config file.

Commands:
  issuegantt config show     # Print the effective config
  issuegantt config init     # Write ~/.issuegantt/config.yaml`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with defaults",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().String("owner", "", "Repository owner")
	configInitCmd.Flags().String("repo", "", "Repository name")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.GitHub.Token != "" {
		shown.GitHub.Token = "********"
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Printf("\n⚠️  %v\n", err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	c := config.DefaultConfig()
	if v, _ := cmd.Flags().GetString("owner"); v != "" {
		c.GitHub.Owner = v
	}
	if v, _ := cmd.Flags().GetString("repo"); v != "" {
		c.GitHub.Repo = v
	}
	// Tokens come from GITHUB_TOKEN unless written in by hand
	c.GitHub.Token = ""

	if err := c.Save(path); err != nil {
		return err
	}
	fmt.Printf("✓ Config written to %s\n", path)
	return nil
}
