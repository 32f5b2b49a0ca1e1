package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data",
}

var seedDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create the demo engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		id, err := db.SeedDemo(a.DB, time.Now())
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		fmt.Printf("✓ Demo engagement %s ready\n", id)
		fmt.Printf("  Try: see dashboard -e %s\n", id)
		return nil
	},
}

func init() {
	seedCmd.AddCommand(seedDemoCmd)
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return seedCmd
}
