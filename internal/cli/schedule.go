package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/existflow/issuegantt/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"ls"},
	Short:   "Print the schedule",
	Long: `Print the open, scheduled tasks from the local store.

Examples:
  issuegantt schedule
  issuegantt schedule --sort start_date
  issuegantt schedule --json`,
	RunE: runSchedule,
}

var (
	scheduleSort    string
	scheduleJSON    bool
	scheduleRefresh bool
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSort, "sort", "", "Sort by label or start_date (default from config)")
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "Print the chart JSON")
	scheduleCmd.Flags().BoolVarP(&scheduleRefresh, "refresh", "r", false, "Refresh from GitHub first")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cfg, scheduleRefresh)
	if err != nil {
		return err
	}
	defer a.Close()

	key := a.sortKey
	if scheduleSort != "" {
		if key, err = schedule.ParseSortKey(scheduleSort); err != nil {
			return err
		}
	}

	if scheduleRefresh {
		fmt.Fprintln(os.Stderr, "🔄 Refreshing...")
		if _, err := a.syncer.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
	}

	items, err := a.projector.Project(cmd.Context(), key)
	if err != nil {
		return err
	}

	if scheduleJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]schedule.Item{"data": items})
	}

	if len(items) == 0 {
		fmt.Println("Nothing scheduled. Add a due date line to an issue and run: issuegantt refresh")
		return nil
	}

	color := term.IsTerminal(int(os.Stdout.Fd()))
	printSchedule(os.Stdout, items, color)
	return nil
}

// printSchedule writes items grouped under label headings. With color the
// headings use the label's color.
func printSchedule(w io.Writer, items []schedule.Item, color bool) {
	current := "\x00"
	for _, it := range items {
		if it.Label != current {
			current = it.Label
			name := it.Label
			if name == "" {
				name = "(no label)"
			}
			heading := "● " + name
			if color && it.Color != "" {
				heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(it.Color)).Render(heading)
			}
			fmt.Fprintf(w, "\n%s\n", heading)
			fmt.Fprintln(w, strings.Repeat("─", 72))
		}
		printItem(w, it)
	}
	fmt.Fprintln(w)
}

func printItem(w io.Writer, it schedule.Item) {
	progress := "   -"
	if it.Progress != nil {
		progress = fmt.Sprintf("%3.0f%%", *it.Progress*100)
	}

	text := it.Text
	if r := []rune(text); len(r) > 36 {
		text = string(r[:33]) + "..."
	}

	fmt.Fprintf(w, "  %-8d  %-36s  %s → %s  %3dd  %s\n",
		it.ID, text, it.StartDate, it.EndDate, it.Duration, progress)
}
