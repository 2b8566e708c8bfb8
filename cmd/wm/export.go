package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/waymark/internal/core"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "advanced",
	Short:   "Export waypoints as JSON or YAML",
	Long: `Write the waypoint set to stdout in dependency order. Defaults to the
active branch; use --all for every branch.`,
	Example: `  wm export > waypoints.json
  wm export --format yaml --all`,
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
		wps, err := svc.GetRoute(branch)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(wps)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(wps)
		default:
			return fmt.Errorf("unknown format %q (want json or yaml)", format)
		}
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "Output format: json or yaml")
	exportCmd.Flags().Bool("all", false, "Export waypoints across every branch")
	rootCmd.AddCommand(exportCmd)
}
