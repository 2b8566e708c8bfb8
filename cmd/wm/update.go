package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/types"
	"github.com/steveyegge/waymark/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	GroupID: "core",
	Short:   "Update a waypoint's fields",
	Long: `Update the title, description, reasoning, or branch of a waypoint.
Only the flags you pass are changed; status and dependencies have their
own commands.`,
	Example: `  wm update wp-01a3 --title "Ship the importer (v2)"
  wm update wp-01a3 --move experiment`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}

		var patch types.UpdatePatch
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			patch.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			patch.Description = &v
		}
		if cmd.Flags().Changed("reasoning") {
			v, _ := cmd.Flags().GetString("reasoning")
			patch.Reasoning = &v
		}
		if cmd.Flags().Changed("move") {
			v, _ := cmd.Flags().GetString("move")
			patch.Branch = &v
		}
		if patch.IsZero() {
			return errors.New("nothing to update (pass at least one field flag)")
		}

		wp, err := svc.UpdateWaypoint(args[0], patch)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", ui.RenderPass("Updated"), ui.RenderAccent(wp.ID))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	GroupID: "core",
	Short:   "Delete a waypoint",
	Long: `Delete a waypoint. Other waypoints that depended on it have the edge
removed, which may unblock them. Linked notes survive with the link
cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		if err := svc.DeleteWaypoint(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", ui.RenderPass("Deleted"), args[0])
		return nil
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().String("reasoning", "", "New reasoning")
	updateCmd.Flags().String("move", "", "Move to another branch")
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}
