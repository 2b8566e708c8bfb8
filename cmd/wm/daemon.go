package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/cache"
	"github.com/steveyegge/waymark/internal/ui"
)

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	GroupID: "advanced",
	Short:   "Watch the data root and keep the cache in sync",
	Long: `Run a foreground daemon that watches the .waymark directory for
collection changes and refreshes the SQLite cache after each write.
Changes are debounced so a burst of writes triggers one sync.

Press Ctrl+C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, db, storage, cfg, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		logger := log.New(debugWriter(root, cfg), "[daemon] ", log.LstdFlags)
		syncer := cache.NewSyncer(db, storage, logger)
		d, err := cache.NewDaemon(syncer, root, logger)
		if err != nil {
			return err
		}
		d.OnSync = func(wps, deps int) {
			fmt.Printf("%s %d waypoints, %d dependencies\n", ui.Dim("synced"), wps, deps)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Printf("Watching %s\n", ui.Dim(root))
		if err := d.Start(ctx); err != nil {
			return err
		}
		fmt.Println("Daemon stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
