package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/ui"
)

var depCmd = &cobra.Command{
	Use:     "dep",
	GroupID: "graph",
	Short:   "Manage dependency edges",
	Long: `Add and remove dependency edges between waypoints.

An edge from A to B means A waits on B. Adding an edge that would make
a waypoint reachable from itself is rejected; the graph stays acyclic.`,
}

var depAddCmd = &cobra.Command{
	Use:     "add <id> <depends-on-id>",
	Short:   "Make one waypoint depend on another",
	Example: "  wm dep add wp-01a3 wp-02f1",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wp, err := svc.AddDependency(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s depends on %s (now %s)\n",
			ui.RenderPass("OK"), ui.RenderAccent(wp.ID), args[1], ui.RenderStatus(wp.Status))
		return nil
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <id> <depends-on-id>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wp, err := svc.RemoveDependency(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s no longer depends on %s (now %s)\n",
			ui.RenderPass("OK"), ui.RenderAccent(wp.ID), args[1], ui.RenderStatus(wp.Status))
		return nil
	},
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	rootCmd.AddCommand(depCmd)
}
