package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var relabelCmd = &cobra.Command{
	Use:   "relabel",
	Short: "Rename a keyword prefix in every issue body",
	Long: `Rewrite lines starting with one prefix to start with another, in every
issue of the repository. Use it after changing a keyword in the config.

Examples:
  issuegantt relabel --from "#### Team:" --to "#### 💪 Team:" --dry-run
  issuegantt relabel --from "#### Team:" --to "#### 💪 Team:" --force`,
	RunE: runRelabel,
}

func init() {
	relabelCmd.Flags().String("from", "", "Prefix to replace")
	relabelCmd.Flags().String("to", "", "New prefix")
	relabelCmd.Flags().Bool("dry-run", false, "List the issues that would change")
	relabelCmd.Flags().Bool("force", false, "Do not ask for confirmation")
	_ = relabelCmd.MarkFlagRequired("from")
	_ = relabelCmd.MarkFlagRequired("to")
}

func runRelabel(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	if !dryRun && !force {
		fmt.Printf("Rewrite %q to %q in every issue of %s/%s? (y/N): ", from, to, cfg.GitHub.Owner, cfg.GitHub.Repo)
		var response string
		_, _ = fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	a, err := openApp(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	changed, err := a.syncer.Relabel(cmd.Context(), from, to, dryRun)
	for _, c := range changed {
		fmt.Printf("  #%-6d %s\n", c.Number, c.Title)
	}
	if err != nil {
		return fmt.Errorf("relabel failed: %w", err)
	}

	switch {
	case len(changed) == 0:
		fmt.Println("No issues use that prefix.")
	case dryRun:
		fmt.Printf("%d issues would change.\n", len(changed))
	default:
		fmt.Printf("✓ Updated %d issues. Run 'issuegantt refresh' to pick up the change.\n", len(changed))
	}
	return nil
}
