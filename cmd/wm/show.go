package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/types"
	"github.com/steveyegge/waymark/internal/ui"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	GroupID: "core",
	Short:   "Show a waypoint in full",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wp, err := svc.Get(args[0])
		if err != nil {
			return err
		}
		printWaypoint(wp)
		return nil
	},
}

func printWaypoint(wp *types.Waypoint) {
	fmt.Printf("%s %s\n", ui.RenderAccent(wp.ID), wp.Title)
	fmt.Printf("  status:  %s\n", ui.RenderStatus(wp.Status))
	fmt.Printf("  branch:  %s\n", wp.Branch)
	if wp.Description != "" {
		fmt.Printf("  desc:    %s\n", wp.Description)
	}
	if wp.Reasoning != "" {
		fmt.Printf("  why:     %s\n", wp.Reasoning)
	}
	if len(wp.DependsOn) > 0 {
		fmt.Printf("  deps:    %s\n", strings.Join(wp.DependsOn, ", "))
	}
	if len(wp.LinkedNoteIDs) > 0 {
		fmt.Printf("  notes:   %s\n", strings.Join(wp.LinkedNoteIDs, ", "))
	}
	fmt.Printf("  created: %s\n", ui.Dim(wp.CreatedAt.Format("2006-01-02 15:04:05")))
	fmt.Printf("  updated: %s\n", ui.Dim(wp.UpdatedAt.Format("2006-01-02 15:04:05")))
}

func init() {
	rootCmd.AddCommand(showCmd)
}
