// Package cli implements the see command tree.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/config"
	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/wire"
)

// app returns the wired services, built on first use.
func app() (*wire.App, error) {
	a, err := wire.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize see: %w", err)
	}
	return a, nil
}

// loadFocus returns the focus of the working directory, or an empty focus.
func loadFocus() *config.Focus {
	cwd, err := os.Getwd()
	if err != nil {
		return &config.Focus{}
	}
	f, err := config.LoadFocus(cwd)
	if err != nil {
		return &config.Focus{}
	}
	return f
}

// addEngagementFlag registers --engagement on each command.
func addEngagementFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringP("engagement", "e", "", "Engagement ID (defaults to the focused engagement)")
	}
}

// addPeriodFlags registers --period and --scope on each command.
func addPeriodFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringP("period", "p", "", "Period YYYY-MM (defaults to the focused period, then the current month)")
		c.Flags().String("scope", "", "Scope key (defaults to the focused scope, then GLOBAL)")
	}
}

// engagementID resolves --engagement, falling back to the directory focus.
func engagementID(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("engagement")
	if id = strings.TrimSpace(id); id != "" {
		return id, nil
	}
	if f := loadFocus(); f.EngagementID != "" {
		return f.EngagementID, nil
	}
	return "", fmt.Errorf("no engagement selected\nHint: Use --engagement or run 'see engagement focus ENG-XXX'")
}

// periodKey resolves --period, then the focus, then the current month.
func periodKey(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("period")
	if p = strings.TrimSpace(p); p != "" {
		return p
	}
	if f := loadFocus(); f.PeriodKey != "" {
		return f.PeriodKey
	}
	return kpi.CurrentMonthKey(time.Now())
}

// scopeKey resolves --scope, then the focus. Empty means GLOBAL.
func scopeKey(cmd *cobra.Command) string {
	s, _ := cmd.Flags().GetString("scope")
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return loadFocus().ScopeKey
}

// floatFlag returns a flag's value when it was set. Decimal commas are accepted.
func floatFlag(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	v, ok := kpi.NormalizeNumber(raw)
	if !ok {
		return nil, fmt.Errorf("--%s: %q is not a number", name, raw)
	}
	return &v, nil
}

// intFlag returns a flag's value when it was set.
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// atoi parses a positional integer argument.
func atoi(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number (got %q)", name, raw)
	}
	return n, nil
}

// writeOutput writes generated bytes to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("✓ Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

// openInput opens a file argument, or stdin for "-".
func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
