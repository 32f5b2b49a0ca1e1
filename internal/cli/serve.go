package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API used by the NPS survey page, the weekly site report
form and the exports. Stops on Ctrl-C or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("✓ Listening on %s (public links use %s)\n", addr, a.Config.Server.BaseURL)
		if a.Config.Server.AdminToken == "" {
			a.Logger.Warn("admin token is not configured, weekly link creation and listing are disabled")
		}
		if err := a.HTTPServer().ListenAndServe(ctx, addr); err != nil {
			a.Logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
