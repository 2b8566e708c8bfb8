package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/notes"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/ui"
)

var noteCmd = &cobra.Command{
	Use:     "note",
	GroupID: "graph",
	Short:   "Manage notes and their waypoint links",
	Long: `Notes are small text records that can be linked to at most one
waypoint. The link is tracked on both sides and kept consistent.`,
}

var noteAddCmd = &cobra.Command{
	Use:     "add <id> <text>",
	Short:   "Create a note",
	Example: `  wm note add note-7 "importer chokes on BOM-prefixed files"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := dataRoot()
		if err != nil {
			return err
		}
		storage := store.NewFileStorage(root)
		if !storage.Initialized() {
			return fmt.Errorf("no waymark data in this workspace (run 'wm init' first)")
		}
		n, err := notes.NewFileStore(storage, nil).Add(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", ui.RenderPass("Added note"), ui.RenderAccent(n.ID))
		return nil
	},
}

var noteLinkCmd = &cobra.Command{
	Use:     "link <note-id> <waypoint-id>",
	Short:   "Link a note to a waypoint",
	Example: "  wm note link note-7 wp-01a3",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wp, err := svc.LinkNote(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s -> %s\n", ui.RenderPass("Linked"), args[0], ui.RenderAccent(wp.ID))
		return nil
	},
}

var noteUnlinkCmd = &cobra.Command{
	Use:   "unlink <note-id> <waypoint-id>",
	Short: "Remove a note's link to a waypoint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wp, err := svc.UnlinkNote(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s from %s\n", ui.RenderPass("Unlinked"), args[0], ui.RenderAccent(wp.ID))
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := dataRoot()
		if err != nil {
			return err
		}
		storage := store.NewFileStorage(root)
		if !storage.Initialized() {
			return fmt.Errorf("no waymark data in this workspace (run 'wm init' first)")
		}
		all, err := notes.NewFileStore(storage, nil).List()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println(ui.Dim("No notes."))
			return nil
		}
		for _, n := range all {
			link := ""
			if n.WaypointID != "" {
				link = " " + ui.Dim("-> "+n.WaypointID)
			}
			fmt.Printf("%s %s%s\n", ui.RenderAccent(n.ID), n.Text, link)
		}
		return nil
	},
}

func init() {
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteLinkCmd)
	noteCmd.AddCommand(noteUnlinkCmd)
	noteCmd.AddCommand(noteListCmd)
	rootCmd.AddCommand(noteCmd)
}
