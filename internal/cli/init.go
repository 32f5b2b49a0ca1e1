package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/config"
	"github.com/example/see/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the see settings and database",
		Long: `Write the default settings file (when missing) and create the SQLite
database with its schema and question sets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit, _ := cmd.Flags().GetString("config")
			path, err := wire.ConfigPath(explicit)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.DefaultConfig().Save(path); err != nil {
					return err
				}
				fmt.Printf("✓ Settings written to %s\n", path)
			} else {
				fmt.Printf("Settings found at %s\n", path)
			}

			a, err := app()
			if err != nil {
				return err
			}
			fmt.Printf("✓ Database ready at %s\n", a.Config.Database.Path)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  see engagement create \"Minera Andina\" --start 2024-01-08 --end 2024-05-24")
			fmt.Println("  see engagement focus ENG-001")
			fmt.Println("  see wizard status")
			return nil
		},
	}
}
