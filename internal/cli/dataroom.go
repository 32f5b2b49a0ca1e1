package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var dataroomCmd = &cobra.Command{
	Use:   "dataroom",
	Short: "Track the data room checklist",
}

var dataroomInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Copy the master checklist into the engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		added, err := a.DataRoom.InitDataRoom(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Data room of %s: %d item(s) added\n", id, added)
		return nil
	},
}

var dataroomListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the checklist and completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		room, err := a.DataRoom.GetDataRoom(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get data room: %w", err)
		}
		if room.Total == 0 {
			fmt.Println("Data room is empty\nHint: run 'see dataroom init'")
			return nil
		}

		fmt.Printf("\nData room %s · %d%% complete (%d received, %d partial, %d pending, %d n/a)\n\n",
			room.EngagementID, room.CompletionPct, room.Received, room.Partial, room.Pending, room.NotApplicable)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tAREA\tTITLE\tSTATUS\tDATA\tCOMMENT")
		fmt.Fprintln(w, "----\t----\t-----\t------\t----\t-------")
		for _, it := range room.Items {
			data := "-"
			if it.HasData {
				data = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", it.Code, it.Area, it.Title, cliadapter.StatusLabel(it.Status), data, dashText(it.Comment))
		}
		return w.Flush()
	},
}

var dataroomSetCmd = &cobra.Command{
	Use:   "set [code] [status]",
	Short: "Update a checklist item (PENDING, PARTIAL, RECEIVED, NOT_APPLICABLE)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		req := primary.UpdateDataRoomItemRequest{EngagementID: id, Code: args[0]}
		if len(args) > 1 {
			req.Status = args[1]
		}
		if cmd.Flags().Changed("has-data") {
			v, _ := cmd.Flags().GetBool("has-data")
			req.HasData = &v
		}
		req.Comment, _ = cmd.Flags().GetString("comment")
		req.FileRefs, _ = cmd.Flags().GetString("files")

		item, err := a.DataRoom.UpdateItem(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s %s → %s\n", item.Code, item.Title, item.Status)
		return nil
	},
}

func init() {
	dataroomSetCmd.Flags().Bool("has-data", false, "Whether usable data was received")
	dataroomSetCmd.Flags().String("comment", "", "Comment")
	dataroomSetCmd.Flags().String("files", "", "File references")
	addEngagementFlag(dataroomInitCmd, dataroomListCmd, dataroomSetCmd)

	dataroomCmd.AddCommand(dataroomInitCmd)
	dataroomCmd.AddCommand(dataroomListCmd)
	dataroomCmd.AddCommand(dataroomSetCmd)
}

// DataroomCmd returns the dataroom command
func DataroomCmd() *cobra.Command {
	return dataroomCmd
}
