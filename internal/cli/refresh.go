package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the local store from GitHub",
	Long: `Fetch every label, milestone and issue of the repository and
reconcile the local store. Issues that disappeared are flagged as deleted.`,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("🔄 Refreshing %s...\n", a.remote.Repo())
	res, err := a.syncer.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Printf("✓ Refresh complete! Issues: %d, New: %d, Removed: %d, Labels: %d, Milestones: %d\n",
		res.Issues, res.Created, res.Pruned, res.Labels, res.Milestones)
	return nil
}
