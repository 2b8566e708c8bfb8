package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/core"
	"github.com/steveyegge/waymark/internal/ui"
)

var createCmd = &cobra.Command{
	Use:     "create [title]",
	GroupID: "core",
	Short:   "Create a new waypoint",
	Long: `Create a waypoint on the active branch. With no title argument and an
interactive terminal, prompts for the fields instead.

Dependencies given with --dep must already exist. A waypoint with
unfinished dependencies starts blocked; otherwise it starts ready.`,
	Example: `  wm create "Ship the importer"
  wm create "Wire up auth" --dep wp-01a3 --dep wp-02f1
  wm create`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}

		in := core.CreateInput{}
		in.Description, _ = cmd.Flags().GetString("description")
		in.Reasoning, _ = cmd.Flags().GetString("reasoning")
		in.Branch, _ = cmd.Flags().GetString("on")
		in.DependsOn, _ = cmd.Flags().GetStringArray("dep")

		if len(args) > 0 {
			in.Title = args[0]
		} else {
			if !ui.Interactive() {
				return errors.New("title required (or run interactively)")
			}
			if err := promptCreate(&in); err != nil {
				return err
			}
		}

		wp, err := svc.CreateWaypoint(in)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s\n", ui.RenderPass("Created"), ui.RenderAccent(wp.ID), wp.Title)
		fmt.Printf("  status: %s  branch: %s\n", ui.RenderStatus(wp.Status), wp.Branch)
		return nil
	},
}

// promptCreate fills in the create fields via an interactive form.
func promptCreate(in *core.CreateInput) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("title is required")
					}
					return nil
				}).
				Value(&in.Title),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&in.Description),
			huh.NewInput().
				Title("Reasoning").
				Placeholder("why this waypoint exists").
				Value(&in.Reasoning),
		),
	)
	return form.Run()
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "Longer description")
	createCmd.Flags().StringP("reasoning", "r", "", "Why this waypoint exists")
	createCmd.Flags().String("on", "", "Branch to create on (default: active branch)")
	createCmd.Flags().StringArray("dep", nil, "Waypoint ID this depends on (repeatable)")
	rootCmd.AddCommand(createCmd)
}
