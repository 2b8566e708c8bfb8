package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/cache"
	"github.com/steveyegge/waymark/internal/dashboard"
	"github.com/steveyegge/waymark/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: "advanced",
	Short:   "Serve a real-time WebSocket view of waypoint activity",
	Long: `Start a WebSocket server that broadcasts waypoint activity to
connected clients: cache sync completions and status breakdowns. The
server runs the sync daemon internally, so the cache stays fresh while
the dashboard is up.

Connect a WebSocket client to ws://localhost:<port>/ws; a health check
is served at /health.`,
	Example: `  wm dashboard
  wm dashboard --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, db, storage, cfg, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.DashboardPort
		}

		logger := log.New(os.Stderr, "[dashboard] ", log.LstdFlags)
		server := dashboard.NewServer(port, logger)
		if err := server.Start(); err != nil {
			return err
		}
		defer server.Stop()

		handler := dashboard.NewHandler(server, db)

		syncLogger := log.New(debugWriter(root, cfg), "[daemon] ", log.LstdFlags)
		syncer := cache.NewSyncer(db, storage, syncLogger)
		d, err := cache.NewDaemon(syncer, root, syncLogger)
		if err != nil {
			return err
		}
		d.OnSync = handler.SyncCompleted

		fmt.Printf("Dashboard on http://localhost:%d (ws://localhost:%d/ws)\n", port, port)
		fmt.Println(ui.Dim("Press Ctrl+C to stop."))

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return d.Start(ctx)
	},
}

func init() {
	dashboardCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: configured dashboard_port)")
	rootCmd.AddCommand(dashboardCmd)
}
