package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/ui"
)

var branchCmd = &cobra.Command{
	Use:     "branch",
	GroupID: "graph",
	Short:   "Manage branches",
	Long: `Branches partition waypoints into independent lines of work. Merging
a branch copies its waypoints into the target with fresh identifiers
and resets their status to ready; the source branch is untouched.`,
}

var branchCreateCmd = &cobra.Command{
	Use:     "create <name>",
	Short:   "Register a new branch",
	Example: `  wm branch create experiment --reasoning "try the streaming importer"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		reasoning, _ := cmd.Flags().GetString("reasoning")
		b, err := svc.CreateBranch(args[0], reasoning)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", ui.RenderPass("Created branch"), ui.RenderAccent(b.Name))
		return nil
	},
}

var branchSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Switch the active branch for this invocation",
	Long: `Switch the session's active branch. The active branch scopes listing
and creation defaults. The switch lasts for this process; use the
default_branch config key or --branch to make it stick.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		if err := svc.SwitchBranch(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", ui.RenderPass("On branch"), ui.RenderAccent(args[0]))
		return nil
	},
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known branches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		branches, err := svc.ListBranches()
		if err != nil {
			return err
		}
		active := svc.ActiveBranch()
		for _, name := range branches {
			if name == active {
				fmt.Printf("* %s\n", ui.RenderAccent(name))
			} else {
				fmt.Printf("  %s\n", name)
			}
		}
		return nil
	},
}

var branchMergeCmd = &cobra.Command{
	Use:   "merge <source> <target>",
	Short: "Merge one branch's waypoints into another",
	Long: `Copy every waypoint on the source branch into the target branch.
Copies get fresh identifiers, status ready, and dependencies remapped
within the copied set. Notes are not copied. The source branch keeps
its waypoints.`,
	Example: "  wm branch merge experiment main",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		merged, err := svc.MergeBranch(args[0], args[1])
		if err != nil {
			return err
		}
		if len(merged) == 0 {
			fmt.Println(ui.Dim("Nothing to merge."))
			return nil
		}
		fmt.Printf("%s %d waypoints from %s into %s\n",
			ui.RenderPass("Merged"), len(merged), args[0], ui.RenderAccent(args[1]))
		for _, wp := range merged {
			fmt.Printf("  %s %s\n", ui.RenderAccent(wp.ID), wp.Title)
		}
		return nil
	},
}

func init() {
	branchCreateCmd.Flags().String("reasoning", "", "Why this branch exists")
	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchSwitchCmd)
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchMergeCmd)
	rootCmd.AddCommand(branchCmd)
}
