package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/config"
	"github.com/example/see/internal/core/kpi"
)

// TestCommandTreeStructure verifies each command group registers the
// subcommands the docs promise.
func TestCommandTreeStructure(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		subs []string
	}{
		{EngagementCmd(), []string{"create", "list", "show", "update", "activate", "close", "reopen", "delete", "audit", "focus"}},
		{KpiCmd(), []string{"create", "list", "record", "series", "scorecard", "import", "template", "export"}},
		{DataroomCmd(), []string{"init", "list", "set"}},
		{AccountCmd(), []string{"create", "list", "update", "rm", "economics"}},
		{SurveyCmd(), []string{"seed", "list", "answer", "averages"}},
		{NpsCmd(), []string{"invite", "import", "template", "send", "list", "metrics"}},
		{FaenaCmd(), []string{"create", "list"}},
		{InitiativeCmd(), []string{"create", "list", "show", "update", "rm", "checkin", "import"}},
		{RoadmapCmd(), []string{"init", "set", "list", "clear", "template", "import", "export"}},
		{WeeklyCmd(), []string{"link", "list", "show", "pdf", "datapack"}},
		{CheckinCmd(), []string{"status", "summary", "set", "pdf"}},
		{ReportCmd(), []string{"pdf", "text"}},
		{SeedCmd(), []string{"demo"}},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			registered := make(map[string]bool)
			for _, sub := range tt.cmd.Commands() {
				registered[sub.Name()] = true
				if sub.Short == "" {
					t.Errorf("%s %s should have a Short description", tt.cmd.Name(), sub.Name())
				}
			}
			for _, want := range tt.subs {
				if !registered[want] {
					t.Errorf("%s %s is not registered", tt.cmd.Name(), want)
				}
			}
		})
	}
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addEngagementFlag(cmd)
	addPeriodFlags(cmd)
	cmd.Flags().String("amount", "", "")
	cmd.Flags().Int("count", 0, "")
	return cmd
}

func TestEngagementID_FlagThenFocus(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := newFlagCmd()
	if _, err := engagementID(cmd); err == nil || !strings.Contains(err.Error(), "no engagement selected") {
		t.Fatalf("expected no engagement error, got %v", err)
	}

	if err := config.SaveFocus(dir, &config.Focus{EngagementID: "ENG-003", PeriodKey: "2026-04", ScopeKey: "ACC-1"}); err != nil {
		t.Fatal(err)
	}
	if id, err := engagementID(cmd); err != nil || id != "ENG-003" {
		t.Errorf("engagementID = %q, %v; want focus ENG-003", id, err)
	}
	if got := periodKey(cmd); got != "2026-04" {
		t.Errorf("periodKey = %q, want focus 2026-04", got)
	}
	if got := scopeKey(cmd); got != "ACC-1" {
		t.Errorf("scopeKey = %q, want focus ACC-1", got)
	}

	_ = cmd.Flags().Set("engagement", " ENG-009 ")
	_ = cmd.Flags().Set("period", "2026-01")
	if id, _ := engagementID(cmd); id != "ENG-009" {
		t.Errorf("flag should win over focus, got %q", id)
	}
	if got := periodKey(cmd); got != "2026-01" {
		t.Errorf("periodKey = %q, want flag 2026-01", got)
	}
}

func TestPeriodKey_DefaultsToCurrentMonth(t *testing.T) {
	t.Chdir(t.TempDir())

	if got, want := periodKey(newFlagCmd()), kpi.CurrentMonthKey(time.Now()); got != want {
		t.Errorf("periodKey = %q, want %q", got, want)
	}
}

func TestFloatFlag(t *testing.T) {
	cmd := newFlagCmd()
	if v, err := floatFlag(cmd, "amount"); err != nil || v != nil {
		t.Fatalf("unset flag should be nil, got %v, %v", v, err)
	}

	_ = cmd.Flags().Set("amount", "1234,5")
	v, err := floatFlag(cmd, "amount")
	if err != nil || v == nil || *v != 1234.5 {
		t.Errorf("floatFlag = %v, %v; want 1234.5", v, err)
	}

	_ = cmd.Flags().Set("amount", "mucho")
	if _, err := floatFlag(cmd, "amount"); err == nil {
		t.Error("expected error for a non-numeric value")
	}
}

func TestIntFlag(t *testing.T) {
	cmd := newFlagCmd()
	if intFlag(cmd, "count") != nil {
		t.Error("unset flag should be nil")
	}
	_ = cmd.Flags().Set("count", "0")
	if p := intFlag(cmd, "count"); p == nil || *p != 0 {
		t.Errorf("explicit zero should be kept, got %v", p)
	}
}

func TestAtoi(t *testing.T) {
	if n, err := atoi("week", " 7 "); err != nil || n != 7 {
		t.Errorf("atoi = %d, %v", n, err)
	}
	if _, err := atoi("week", "siete"); err == nil || !strings.Contains(err.Error(), "week must be a number") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := writeOutput(path, []byte("%PDF-1.3")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "%PDF-1.3" {
		t.Errorf("file content = %q, %v", data, err)
	}
}

func TestLocalized(t *testing.T) {
	if got := localized("en", "Hola", "Hello"); got != "Hello" {
		t.Errorf("got %q", got)
	}
	if got := localized("en", "Hola", ""); got != "Hola" {
		t.Errorf("missing English should fall back, got %q", got)
	}
	if got := localized("es", "Hola", "Hello"); got != "Hola" {
		t.Errorf("got %q", got)
	}
}
