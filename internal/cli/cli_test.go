package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/existflow/issuegantt/internal/schedule"
)

func TestPrintScheduleGroupsByLabel(t *testing.T) {
	p := 0.5
	items := []schedule.Item{
		{ID: 1, Text: "Build API", StartDate: "01-05-2024", EndDate: "01-10-2024", Duration: 5, Label: "Backend", Color: "#d73a4a", Progress: &p},
		{ID: 2, Text: "Tune DB", StartDate: "01-02-2024", EndDate: "01-03-2024", Duration: 1, Label: "Backend", Color: "#d73a4a"},
		{ID: 3, Text: "Write docs", StartDate: "01-01-2024", EndDate: "01-02-2024", Duration: 1},
	}

	var buf bytes.Buffer
	printSchedule(&buf, items, false)
	out := buf.String()

	if strings.Count(out, "● Backend") != 1 {
		t.Errorf("Expected one Backend heading, got:\n%s", out)
	}
	if !strings.Contains(out, "● (no label)") {
		t.Errorf("Expected unlabeled heading, got:\n%s", out)
	}
	if !strings.Contains(out, "01-05-2024 → 01-10-2024") || !strings.Contains(out, " 50%") {
		t.Errorf("Expected dates and progress, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no escape codes without color, got:\n%q", out)
	}
}

func TestPrintItemTruncatesTitle(t *testing.T) {
	var buf bytes.Buffer
	printItem(&buf, schedule.Item{ID: 9, Text: strings.Repeat("x", 50), StartDate: "a", EndDate: "b"})
	if !strings.Contains(buf.String(), strings.Repeat("x", 33)+"...") {
		t.Errorf("Expected truncated title, got %q", buf.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "refresh", "schedule", "tui", "relabel", "config"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected command %s, got %v (%v)", name, cmd, err)
		}
	}
}
