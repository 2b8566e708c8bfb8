package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/config"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/ui"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "core",
	Short:   "Initialize a waymark workspace",
	Long: `Create the .waymark data directory in the workspace, with a default
config.toml. Safe to re-run; existing data is left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := dataRoot()
		if err != nil {
			return err
		}
		storage := store.NewFileStorage(root)
		if storage.Initialized() {
			fmt.Println(ui.Dim("Already initialized: " + root))
			return nil
		}
		if err := storage.Init(); err != nil {
			return err
		}
		if err := config.Save(root, config.Default()); err != nil {
			return err
		}
		fmt.Println(ui.RenderPass("Initialized waymark workspace"))
		fmt.Println(ui.Dim("Data root: " + root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
