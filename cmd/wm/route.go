package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/core"
	"github.com/steveyegge/waymark/internal/types"
	"github.com/steveyegge/waymark/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "core",
	Short:   "List waypoints on the active branch",
	Example: `  wm list
  wm list --all
  wm list --branch experiment`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		branch := ""
		if all, _ := cmd.Flags().GetBool("all"); all {
			branch = core.BranchAll
		}
		wps, err := svc.List(branch)
		if err != nil {
			return err
		}
		printWaypointTable(wps)
		return nil
	},
}

var routeCmd = &cobra.Command{
	Use:     "route",
	GroupID: "graph",
	Short:   "Show waypoints in dependency order",
	Long: `Print the active branch's waypoints ordered so that every waypoint
appears after the waypoints it depends on. Ties keep storage order, so
the route is stable across runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wps, err := svc.GetRoute("")
		if err != nil {
			return err
		}
		printWaypointTable(wps)
		return nil
	},
}

var readyCmd = &cobra.Command{
	Use:     "ready",
	GroupID: "graph",
	Short:   "List waypoints that are ready to start",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wps, err := svc.GetReady("")
		if err != nil {
			return err
		}
		if len(wps) == 0 {
			fmt.Println(ui.Dim("Nothing is ready."))
			return nil
		}
		printWaypointTable(wps)
		return nil
	},
}

func printWaypointTable(wps []*types.Waypoint) {
	if len(wps) == 0 {
		fmt.Println(ui.Dim("No waypoints."))
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tBRANCH\tTITLE")
	for _, wp := range wps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wp.ID, ui.RenderStatus(wp.Status), wp.Branch, wp.Title)
	}
	w.Flush()
}

func init() {
	listCmd.Flags().Bool("all", false, "List waypoints across every branch")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(readyCmd)
}
