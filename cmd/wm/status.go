package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/engine"
	"github.com/steveyegge/waymark/internal/types"
	"github.com/steveyegge/waymark/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status <id> <status>",
	GroupID: "core",
	Short:   "Set a waypoint's status",
	Long: `Move a waypoint to an explicit status: active, done, or abandoned.

Setting ready clears an explicit status and hands control back to the
dependency graph, which may immediately re-derive blocked. Blocked can
never be set directly.

Allowed transitions:
  blocked   -> active, abandoned
  ready     -> active, done, abandoned
  active    -> done, abandoned, ready
  done      -> active, ready
  abandoned -> ready`,
	Example: `  wm status wp-01a3 active
  wm status wp-01a3 done`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		wp, err := svc.SetStatus(args[0], types.Status(args[1]))
		if err != nil {
			var inv *types.InvalidTransitionError
			if errors.As(err, &inv) {
				allowed := engine.AllowedTransitions(inv.From)
				if len(allowed) > 0 {
					return fmt.Errorf("%w (from %s you can go to: %s)", err, inv.From, joinStatuses(allowed))
				}
			}
			return err
		}
		fmt.Printf("%s %s is now %s\n", ui.RenderPass("OK"), ui.RenderAccent(wp.ID), ui.RenderStatus(wp.Status))
		return nil
	},
}

func joinStatuses(ss []types.Status) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
